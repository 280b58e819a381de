package shape

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Bounding boxes are needed to place gradients relative
// to the shape they paint, and by tests to check that a
// drawing stays inside its canvas.

// Rect is an axis aligned box in pixel space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty returns true for the box of an empty path.
func (r Rect) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

func (r Rect) union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX), MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX), MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

var emptyRect = Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}

func fixedTof(p fixed.Point26_6) (x, y float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

type segment interface {
	// values of t zeroing the derivative, in each direction
	criticalPoints() (tX, tY []float64)
	// the point at time t
	evaluate(t float64) (x, y float64)
}

type lineSeg [2]fixed.Point26_6

func (l lineSeg) criticalPoints() (tX, tY []float64) { return nil, nil }

func (l lineSeg) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedTof(l[0])
	p1x, p1y := fixedTof(l[1])
	return (p1x-p0x)*t + p0x, (p1y-p0y)*t + p0y
}

type quadSeg [3]fixed.Point26_6

// x = (p0 + p2 - 2p1)t^2 + 2(p1 - p0)t + p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// zero of the derivative 2(p2 - 2p1 + p0)t + 2(p1 - p0)
func quadCritical(p0, p1, p2 float64) []float64 {
	a := 2 * (p2 - 2*p1 + p0)
	if a == 0 {
		return nil
	}
	return []float64{-2 * (p1 - p0) / a}
}

func (q quadSeg) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(q[0])
	p1x, p1y := fixedTof(q[1])
	p2x, p2y := fixedTof(q[2])
	return quadCritical(p0x, p1x, p2x), quadCritical(p0y, p1y, p2y)
}

func (q quadSeg) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedTof(q[0])
	p1x, p1y := fixedTof(q[1])
	p2x, p2y := fixedTof(q[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicSeg [4]fixed.Point26_6

// x = (p3-3p2+3p1-p0)t^3 + (3p2-6p1+3p0)t^2 + (3p1-3p0)t + p0
func bezierCubic(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// roots of the derivative, written as at^2 + bt + c
func cubicCritical(p0, p1, p2, p3 float64) []float64 {
	a, b, c := 3*p3-9*p2+9*p1-3*p0, 6*p2-12*p1+6*p0, 3*p1-3*p0
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	switch {
	case d < 0:
		return nil
	case d == 0:
		return []float64{-b / (2 * a)}
	default:
		sq := math.Sqrt(d)
		return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	}
}

func (cu cubicSeg) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return cubicCritical(p0x, p1x, p2x, p3x), cubicCritical(p0y, p1y, p2y, p3y)
}

func (cu cubicSeg) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return bezierCubic(p0x, p1x, p2x, p3x, t), bezierCubic(p0y, p1y, p2y, p3y, t)
}

func segmentBounds(s segment) Rect {
	tX, tY := s.criticalPoints()
	out := emptyRect
	for _, t := range append(append(tX, 0, 1), tY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		x, y := s.evaluate(t)
		out = out.union(Rect{x, y, x, y})
	}
	return out
}

// Bounds returns the tight bounding box of the path,
// taking the curve extrema into account (not only the control points).
// An empty path has an empty box.
func (p Path) Bounds() Rect {
	out := emptyRect
	var current, start fixed.Point26_6
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current, start = fixed.Point26_6(op), fixed.Point26_6(op)
			x, y := fixedTof(current)
			out = out.union(Rect{x, y, x, y})
		case LineTo:
			out = out.union(segmentBounds(lineSeg{current, fixed.Point26_6(op)}))
			current = fixed.Point26_6(op)
		case QuadTo:
			out = out.union(segmentBounds(quadSeg{current, op[0], op[1]}))
			current = op[1]
		case CubicTo:
			out = out.union(segmentBounds(cubicSeg{current, op[0], op[1], op[2]}))
			current = op[2]
		case Close:
			current = start
		}
	}
	return out
}
