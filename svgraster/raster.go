// Implements a raster backend to render SVG icons,
// by drawing on a canvas.
package svgraster

import (
	"image"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/srwiley/rasterx"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/fonts"
	"github.com/openyolo/assetgen/shape"
	"github.com/openyolo/assetgen/svgicon"
)

var _ svgicon.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer paints on a stack of layers: the bottom one is the target
// canvas, the others are opened by filtered groups.
type Renderer struct {
	// Font is used for text runs. Nil means fonts.Builtin().
	Font *fonts.Source

	layers  []*canvas.Canvas
	filler  pathFiller // we use separated instances
	stroker pathStroker
}

// NewRenderer returns a renderer drawing into `target`.
func NewRenderer(target *canvas.Canvas) *Renderer {
	rd := &Renderer{layers: []*canvas.Canvas{target}}
	rd.filler.rd = rd
	rd.stroker.rd = rd
	return rd
}

// RasterSVGIconToImage renders the icon into a square image of
// `size` pixels, or at the size of its view box when `size` is 0.
func RasterSVGIconToImage(icon io.Reader, size int) (*image.RGBA, error) {
	parsedIcon, err := svgicon.ReadIconStream(icon, svgicon.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	w, h := size, size
	if size == 0 {
		w, h = int(parsedIcon.ViewBox.W), int(parsedIcon.ViewBox.H)
	}
	target, err := canvas.New(w, h)
	if err != nil {
		return nil, errors.Wrap(err, "rasterizing svg icon")
	}
	parsedIcon.SetTarget(0, 0, float64(w), float64(h))
	parsedIcon.Draw(NewRenderer(target), 1.0)
	return target.Image(), nil
}

func (rd *Renderer) top() *canvas.Canvas { return rd.layers[len(rd.layers)-1] }

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgicon.Filler, s svgicon.Stroker) {
	if willFill {
		f = &rd.filler
	}
	if willStroke {
		s = &rd.stroker
	}
	return f, s
}

func (rd *Renderer) PushLayer() {
	rd.layers = append(rd.layers, rd.top().Layer())
}

func (rd *Renderer) PopLayer(f *svgicon.Filter, m rasterx.Matrix2D) {
	if len(rd.layers) == 1 { // unbalanced call, nothing to composite
		return
	}
	source := rd.top()
	rd.layers = rd.layers[:len(rd.layers)-1]
	out := source
	if f != nil {
		out = applyFilter(f, source, m)
	}
	rd.top().DrawLayer(out)
}

// DrawText paints the run with the fill of `style`, which may be
// a gradient: the glyphs are used as a mask on the painted layer.
func (rd *Renderer) DrawText(run svgicon.TextRun, style svgicon.PathStyle, m rasterx.Matrix2D, opacity float64) {
	if opacity <= 0 || run.Content == "" {
		return
	}
	src := rd.Font
	if src == nil {
		src = fonts.Builtin()
	}
	face, err := src.Face(style.FontSize * svgicon.MatrixScale(m))
	if err != nil { // degenerate font size
		return
	}
	defer face.Close()

	top := rd.top()
	x, y := m.Transform(run.X, run.Y)
	glyphs := top.Layer()
	glyphs.DrawText(face, run.Content, x, y, style.TextAnchor, canvas.NewPlainColor(0, 0, 0, 0xff).NRGBA)

	var area shape.Path
	area.Rect(0, 0, float64(top.Width()), float64(top.Height()))
	paint := top.Layer()
	paint.FillWith(area, style.FillerColor, canvas.FillOptions{Opacity: opacity})
	paint.MaskWith(glyphs.Image())
	top.DrawLayer(paint)
}

// pathFiller and pathStroker accumulate the transformed path,
// then paint it on the current layer.
type pathFiller struct {
	shape.Path
	rd      *Renderer
	pattern canvas.Pattern
	opacity float64
	evenOdd bool
}

func (pf *pathFiller) SetColor(color canvas.Pattern, opacity float64) {
	pf.pattern, pf.opacity = color, opacity
}

func (pf *pathFiller) SetWinding(useNonZeroWinding bool) { pf.evenOdd = !useNonZeroWinding }

func (pf *pathFiller) Draw() {
	if pf.opacity <= 0 {
		return
	}
	pf.rd.top().FillWith(pf.Path, pf.pattern, canvas.FillOptions{Opacity: pf.opacity, EvenOdd: pf.evenOdd})
}

type pathStroker struct {
	shape.Path
	rd      *Renderer
	pattern canvas.Pattern
	options canvas.StrokeOptions
}

func (ps *pathStroker) SetColor(color canvas.Pattern, opacity float64) {
	ps.pattern = color
	ps.options.Opacity = opacity
}

func (ps *pathStroker) SetStrokeOptions(options canvas.StrokeOptions) {
	opacity := ps.options.Opacity
	ps.options = options
	ps.options.Opacity = opacity
}

func (ps *pathStroker) Draw() {
	if ps.options.Opacity <= 0 {
		return
	}
	ps.rd.top().Stroke(ps.Path, ps.pattern, ps.options)
}

// applyFilter runs the primitives of `f` on `source`, whose
// user space is mapped to the layer by `m`, and returns the result.
func applyFilter(f *svgicon.Filter, source *canvas.Canvas, m rasterx.Matrix2D) *canvas.Canvas {
	results := map[string]*canvas.Canvas{}
	last := source
	input := func(name string) *canvas.Canvas {
		switch name {
		case "":
			return last
		case "SourceGraphic":
			return source
		case "SourceAlpha":
			alpha := copyLayer(source)
			alpha.Colorize(canvas.NewPlainColor(0, 0, 0, 0xff))
			return alpha
		}
		if r, ok := results[name]; ok {
			return r
		}
		return last
	}

	scale := svgicon.MatrixScale(m)
	for _, p := range f.Primitives {
		var out *canvas.Canvas
		switch p := p.(type) {
		case *svgicon.GaussianBlur:
			out = copyLayer(input(p.In))
			out.Blur(p.StdDeviation * scale)
		case *svgicon.Offset:
			dx, dy := m.TransformVector(p.Dx, p.Dy)
			in := input(p.In)
			out = in.Layer()
			out.Draw(in.Image(), int(math.Round(dx)), int(math.Round(dy)))
		case *svgicon.ComponentTransfer:
			out = copyLayer(input(p.In))
			if p.Alpha != nil {
				out.MapAlpha(p.Alpha.Apply)
			}
		case *svgicon.Merge:
			out = source.Layer()
			for _, name := range p.Inputs {
				out.DrawLayer(input(name))
			}
		default:
			continue
		}
		if name := p.Output(); name != "" {
			results[name] = out
		}
		last = out
	}
	return last
}

func copyLayer(c *canvas.Canvas) *canvas.Canvas {
	out := c.Layer()
	out.Replace(c.Image())
	return out
}
