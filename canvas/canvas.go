// Package canvas implements the raster drawing capability used by the
// cursor and icon generators, by wrapping rasterx.
//
// A Canvas owns a transparent RGBA bitmap. Paths are filled or stroked
// with a plain color or a gradient, and composited with the Over operator.
// Layers are separate canvases of the same size, composited onto each other
// after being transformed (blurred, smoothed, masked).
package canvas

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/shape"
)

// Canvas is a drawing surface of fixed size.
type Canvas struct {
	img     *image.RGBA
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler // filler and dasher share the scanner
	dasher  *rasterx.Dasher
}

// New returns a fully transparent canvas.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Mark(errors.Newf("invalid canvas size %dx%d", width, height), apperr.ErrInvalidInput)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return FromImage(img), nil
}

// FromImage returns a canvas drawing into `img`, which is modified in place.
func FromImage(img *image.RGBA) *Canvas {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &Canvas{
		img:     img,
		scanner: scanner,
		filler:  rasterx.NewFiller(w, h, scanner),
		dasher:  rasterx.NewDasher(w, h, scanner),
	}
}

// Image returns the bitmap of the canvas.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Width() int  { return c.img.Bounds().Dx() }
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Layer returns a new transparent canvas with the same size.
func (c *Canvas) Layer() *Canvas {
	return FromImage(image.NewRGBA(c.img.Bounds()))
}

// FillOptions tunes a fill operation. The zero value
// is an opaque, non zero winding fill without transform.
type FillOptions struct {
	Transform rasterx.Matrix2D // zero value means identity
	Opacity   float64          // zero value means 1
	EvenOdd   bool
}

func (o FillOptions) transform() rasterx.Matrix2D {
	if o.Transform == (rasterx.Matrix2D{}) {
		return rasterx.Identity
	}
	return o.Transform
}

func opacityOrOne(o float64) float64 {
	if o == 0 {
		return 1
	}
	return o
}

// Fill paints the inside of `p` with `pattern`.
func (c *Canvas) Fill(p shape.Path, pattern Pattern) {
	c.FillWith(p, pattern, FillOptions{})
}

// FillWith paints the inside of `p`, using the given options.
func (c *Canvas) FillWith(p shape.Path, pattern Pattern, opts FillOptions) {
	if len(p) == 0 || pattern == nil {
		return
	}
	c.filler.Clear()
	c.filler.SetWinding(!opts.EvenOdd)
	p.AddTo(c.filler, opts.transform())
	setColorFromPattern(pattern, opacityOrOne(opts.Opacity), c.scanner)
	c.filler.Draw()
	c.filler.SetWinding(true) // default is true
}

// Stroke paints the outline of `p` with `pattern`.
func (c *Canvas) Stroke(p shape.Path, pattern Pattern, opts StrokeOptions) {
	if len(p) == 0 || pattern == nil || opts.Width <= 0 {
		return
	}
	c.dasher.Clear()
	c.setStroke(opts)
	p.AddTo(c.dasher, opts.transform())
	setColorFromPattern(pattern, opacityOrOne(opts.Opacity), c.scanner)
	c.dasher.Draw()
}

// FillStroke fills `p` then strokes its outline with a plain width,
// the usual "fill and outline" of the cursor glyphs.
func (c *Canvas) FillStroke(p shape.Path, fill, outline Pattern, width float64) {
	c.Fill(p, fill)
	c.Stroke(p, outline, DefaultStroke(width))
}

// Draw composites `src` onto the canvas with the Over operator,
// its origin placed at (dx, dy).
func (c *Canvas) Draw(src image.Image, dx, dy int) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(image.Pt(dx, dy))
	xdraw.Draw(c.img, r, src, src.Bounds().Min, xdraw.Over)
}

// DrawLayer composites `layer` onto the canvas, at the same origin.
func (c *Canvas) DrawLayer(layer *Canvas) {
	c.Draw(layer.img, 0, 0)
}

// Replace copies `src` into the canvas, discarding the current content.
func (c *Canvas) Replace(src image.Image) {
	xdraw.Draw(c.img, c.img.Bounds(), src, src.Bounds().Min, xdraw.Src)
}

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
}

// At returns the non premultiplied color at (x, y).
func (c *Canvas) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(c.img.At(x, y)).(color.NRGBA)
}
