package svgicon

import (
	"math"

	"github.com/srwiley/rasterx"

	"github.com/openyolo/assetgen/canvas"
)

// Given a parsed SVG document, implements how to
// draw it.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images.

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// In particular, transformation matrices are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	rasterx.Adder

	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// SetColor set the color for the current path
	SetColor(color canvas.Pattern, opacity float64)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path.
	// The width is already scaled by the transformation.
	SetStrokeOptions(options canvas.StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the beginning of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)

	// DrawText draws a text run, whose origin and font size
	// are expressed before the transformation `m`.
	DrawText(run TextRun, style PathStyle, m rasterx.Matrix2D, opacity float64)

	// PushLayer starts an offscreen layer, receiving the next draw operations.
	PushLayer()

	// PopLayer applies the filter `f` (which may be nil) to the current layer
	// and composites the result onto the layer below.
	// `m` maps the user space of the filter to the device space.
	PopLayer(f *Filter, m rasterx.Matrix2D)
}

// MatrixScale returns the mean scale factor of `m`,
// used for widths and lengths which are not points.
func MatrixScale(m rasterx.Matrix2D) float64 {
	sx, sy := m.TransformVector(1, 0)
	tx, ty := m.TransformVector(0, 1)
	return (math.Hypot(sx, sy) + math.Hypot(tx, ty)) / 2
}

// SetTarget sets the Transform matrix to draw within the bounds of the rectangle arguments
func (s *SvgIcon) SetTarget(x, y, w, h float64) {
	scaleW := w / s.ViewBox.W
	scaleH := h / s.ViewBox.H
	s.Transform = rasterx.Identity.Translate(x, y).Scale(scaleW, scaleH).Translate(-s.ViewBox.X, -s.ViewBox.Y)
}

// Draw the compiled SVG icon into the driver `d`.
// All elements should be contained by the Bounds rectangle of the SvgIcon.
func (s *SvgIcon) Draw(d Driver, opacity float64) {
	var open []filterScope
	for i := range s.SVGPaths {
		svgp := &s.SVGPaths[i]
		open = s.syncLayers(d, open, svgp.Style.scopes)
		svgp.drawTransformed(d, opacity, s.Transform)
	}
	s.syncLayers(d, open, nil)
}

// syncLayers closes the filtered scopes of `open` not in `want`,
// then opens the new ones.
func (s *SvgIcon) syncLayers(d Driver, open, want []filterScope) []filterScope {
	common := 0
	for common < len(open) && common < len(want) && open[common].id == want[common].id {
		common++
	}
	for len(open) > common {
		top := open[len(open)-1]
		d.PopLayer(s.filters[top.filter], s.Transform)
		open = open[:len(open)-1]
	}
	for _, sc := range want[common:] {
		d.PushLayer()
		open = append(open, sc)
	}
	return open
}

// gradients in user space follow the transformation of the path
func transformPattern(p canvas.Pattern, m rasterx.Matrix2D) canvas.Pattern {
	if g, ok := p.(canvas.Gradient); ok && g.Units == canvas.UserSpaceOnUse {
		g.Matrix = m.Mult(g.Matrix)
		return g
	}
	return p
}

func (svgp *SvgPath) strokeOptions(m rasterx.Matrix2D) canvas.StrokeOptions {
	scale := MatrixScale(m)
	var dash []float64
	if len(svgp.Style.Dash) > 0 {
		dash = make([]float64, len(svgp.Style.Dash))
		for i, v := range svgp.Style.Dash {
			dash[i] = v * scale
		}
	}
	gap := svgp.Style.Gap
	if gap == canvas.NilGap {
		gap = DefaultStyle.Gap
	}
	trailCap := svgp.Style.TrailCap
	if trailCap == canvas.NilCap {
		trailCap = DefaultStyle.TrailCap
	}
	leadCap := trailCap
	if svgp.Style.LeadCap != canvas.NilCap {
		leadCap = svgp.Style.LeadCap
	}
	return canvas.StrokeOptions{
		Width:      svgp.Style.LineWidth * scale,
		MiterLimit: svgp.Style.MiterLimit,
		Join:       svgp.Style.Join,
		LeadCap:    leadCap,
		TrailCap:   trailCap,
		Gap:        gap,
		Dash:       dash,
		DashOffset: svgp.Style.DashOffset * scale,
	}
}

// drawTransformed draws the compiled SvgPath into the driver while applying transform t.
func (svgp *SvgPath) drawTransformed(d Driver, opacity float64, t rasterx.Matrix2D) {
	m := t.Mult(svgp.Style.transform)

	if svgp.Text != nil {
		if svgp.Style.FillerColor != nil {
			d.DrawText(*svgp.Text, svgp.Style, m, svgp.Style.FillOpacity*opacity)
		}
		return
	}

	filler, stroker := d.SetupDrawers(svgp.Style.FillerColor != nil, svgp.Style.LinerColor != nil)
	if filler != nil { // nil color disable filling
		filler.Clear()
		filler.SetWinding(svgp.Style.UseNonZeroWinding)
		svgp.Path.AddTo(filler, m)
		filler.SetColor(transformPattern(svgp.Style.FillerColor, m), svgp.Style.FillOpacity*opacity)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil color disable lining
		stroker.Clear()
		stroker.SetStrokeOptions(svgp.strokeOptions(m))
		svgp.Path.AddTo(stroker, m)
		stroker.SetColor(transformPattern(svgp.Style.LinerColor, m), svgp.Style.LineOpacity*opacity)
		stroker.Draw()
	}
}
