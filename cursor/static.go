package cursor

import (
	"image"
	"math"

	"github.com/openyolo/assetgen/shape"
)

// arrowPoints is the outline of the default arrow, on the design grid.
var arrowPoints = [...][2]float64{
	{2, 2},
	{2, 24},
	{10, 22},
	{16, 30},
	{30, 16},
	{16, 10},
	{24, 2},
}

// Arrow draws the default pointer: a black arrow with a white
// inner arrow, shifted by 2 design pixels.
func Arrow(size int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)

	var outer, inner shape.Path
	outerPts := make([]shape.Point, len(arrowPoints))
	for i, p := range arrowPoints {
		outerPts[i] = g.pt(p[0], p[1])
	}
	// the inner shape drops the last point
	innerPts := make([]shape.Point, len(arrowPoints)-1)
	for i, p := range arrowPoints[:len(arrowPoints)-1] {
		innerPts[i] = g.pt(p[0]+2, p[1]+2)
	}
	outer.Polygon(outerPts...)
	inner.Polygon(innerPts...)

	c.Fill(outer, black)
	c.Fill(inner, white)
	return c.Image(), nil
}

// Hand draws the pointing hand: a palm, a raised index finger and its tip,
// each filled with a skin tone and outlined in black.
func Hand(size int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	w := g.line(2, 1)

	var palm, finger, tip shape.Path
	insetEllipse(&palm, g.at(8), g.at(16), g.at(24), g.at(28), w)
	insetRect(&finger, g.at(13), g.at(8), g.at(19), g.at(16), w)
	insetEllipse(&tip, g.at(12), g.at(0), g.at(20), g.at(12), w)

	for _, p := range []shape.Path{palm, finger, tip} {
		c.FillStroke(p, skin, black, w)
	}
	return c.Image(), nil
}

// Triangle draws the custom pointer: a black right triangle with a white
// inner triangle and a thin black contour. The triangle is inset so that
// its outline never reaches the corner pixels.
func Triangle(size int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	w := g.line(1, 1)
	m := math.Max(1, g.s) + w/2
	e := g.size - m

	var outer, inner shape.Path
	outer.Polygon(shape.Pt(m, m), shape.Pt(e, m), shape.Pt(m, e))
	d := g.line(1, 1) // inner triangle inset
	inner.Polygon(shape.Pt(m+d, m+d), shape.Pt(e-d*(1+math.Sqrt2), m+d), shape.Pt(m+d, e-d*(1+math.Sqrt2)))

	c.Fill(outer, black)
	c.Fill(inner, white)
	c.Stroke(outer, black, contourStroke(w))
	return c.Image(), nil
}

// Ring draws the custom "hand" cursor: a white disc with a black outline.
func Ring(size int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	w := g.line(1, 1)

	var disc shape.Path
	insetEllipse(&disc, g.at(8), g.at(8), g.at(24), g.at(24), w)
	c.FillStroke(disc, white, black, w)
	return c.Image(), nil
}

// Crosshair draws two white bars crossing at the center,
// each with a black center line one pixel longer on both ends.
func Crosshair(size int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	center := g.size / 2
	half := g.at(10)
	wide, thin := 2*g.line(1, 1), g.line(1, 1)

	var bars, lines shape.Path
	bars.Segment(center-half, center, center+half, center)
	bars.Segment(center, center-half, center, center+half)
	lines.Segment(center-half-thin, center, center+half+thin, center)
	lines.Segment(center, center-half-thin, center, center+half+thin)

	c.Stroke(bars, white, barStroke(wide))
	c.Stroke(lines, black, barStroke(thin))
	return c.Image(), nil
}

// IBeam draws the text caret: a narrow white bar with a black outline,
// spanning the height of the glyph but 4 design pixels at both ends.
func IBeam(size int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	w := g.line(1, 1)
	x := g.size / 2
	half := 1.5 * w

	var bar shape.Path
	insetRect(&bar, x-half, g.at(4), x+half, g.size-g.at(4), w)
	c.FillStroke(bar, white, black, w)
	return c.Image(), nil
}
