package shape

import (
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// This file implements the transformation from
// high level shapes to their path equivalent.
// Angles are in degrees, measured clockwise from the
// positive x axis, since the y axis points down.

// maxDx is the maximum radians a cubic splice is allowed to span
// when approximating an arc.
const maxDx float64 = math.Pi / 8

// Point is a position in pixel space.
type Point struct{ X, Y float64 }

// Pt is a shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// toFixedP converts two floats to a fixed point.
func toFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(x * 64)
	p.Y = fixed.Int26_6(y * 64)
	return
}

// Rect adds the closed rectangle [minX, maxX] x [minY, maxY].
func (p *Path) Rect(minX, minY, maxX, maxY float64) {
	rasterx.AddRect(minX, minY, maxX, maxY, 0, p)
}

// RoundRect adds a rectangle with corners of radius rx in the
// x axis and ry in the y axis.
func (p *Path) RoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	rasterx.AddRoundRect(minX, minY, maxX, maxY, rx, ry, 0, rasterx.RoundGap, p)
}

// Ellipse adds a closed ellipse centered at (cx, cy).
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return
	}
	rasterx.AddEllipse(cx, cy, rx, ry, 0, p)
}

// Circle adds a closed circle centered at (cx, cy).
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r)
}

// EllipseBox adds the ellipse inscribed in the box
// [x0, x1] x [y0, y1].
func (p *Path) EllipseBox(x0, y0, x1, y1 float64) {
	p.Ellipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
}

// Polygon adds the closed polygon joining `points`.
// Less than 3 points add nothing.
func (p *Path) Polygon(points ...Point) {
	if len(points) < 3 {
		return
	}
	p.Polyline(points...)
	p.Stop(true)
}

// Polyline adds the open polyline joining `points`.
func (p *Path) Polyline(points ...Point) {
	if len(points) < 2 {
		return
	}
	p.Start(toFixedP(points[0].X, points[0].Y))
	for _, pt := range points[1:] {
		p.Line(toFixedP(pt.X, pt.Y))
	}
}

// Segment adds an open line segment.
func (p *Path) Segment(x1, y1, x2, y2 float64) {
	p.Start(toFixedP(x1, y1))
	p.Line(toFixedP(x2, y2))
}

// Arc adds an open circular arc of radius r around (cx, cy),
// sweeping clockwise from `start` to `end` degrees.
// When `end` is smaller than `start`, the arc wraps through 0.
func (p *Path) Arc(cx, cy, r, start, end float64) {
	if r <= 0 {
		return
	}
	for end < start {
		end += 360
	}
	theta1 := start * math.Pi / 180
	deltaTheta := (end - start) * math.Pi / 180
	if deltaTheta == 0 {
		return
	}

	// Approximate the circular arc using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	segs := int(math.Abs(deltaTheta)/maxDx) + 1
	dTheta := deltaTheta / float64(segs)
	tde := math.Tan(dTheta / 2)
	alpha := math.Sin(dTheta) * (math.Sqrt(4+3*tde*tde) - 1) / 3

	lx, ly := cx+r*math.Cos(theta1), cy+r*math.Sin(theta1)
	ldx, ldy := -r*math.Sin(theta1), r*math.Cos(theta1)
	p.Start(toFixedP(lx, ly))
	for i := 1; i <= segs; i++ {
		eta := theta1 + dTheta*float64(i)
		px, py := cx+r*math.Cos(eta), cy+r*math.Sin(eta)
		dx, dy := -r*math.Sin(eta), r*math.Cos(eta)
		p.CubeBezier(toFixedP(lx+alpha*ldx, ly+alpha*ldy),
			toFixedP(px-alpha*dx, py-alpha*dy), toFixedP(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
}

// Transformed returns a copy of the path with `M` applied to every point.
func (p Path) Transformed(M rasterx.Matrix2D) Path {
	var out Path
	p.AddTo(&out, M)
	return out
}
