package canvas

import (
	"image/color"

	"github.com/srwiley/rasterx"
)

// Pattern is either a PlainColor or a Gradient
type Pattern interface {
	isPattern()
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern()   {}

// PlainColor is a non premultiplied color
type PlainColor struct {
	color.NRGBA
}

func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{NRGBA: color.NRGBA{R: r, G: g, B: b, A: a}}
}

// GradientUnits is the type for gradient units
type GradientUnits byte

const (
	// ObjectBoundingBox expresses the gradient points as fractions
	// of the bounding box of the painted path.
	ObjectBoundingBox GradientUnits = iota
	// UserSpaceOnUse expresses the gradient points in pixels.
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop is a color stop of a gradient.
// The alpha of StopColor is combined with Opacity.
type GradStop struct {
	StopColor color.NRGBA
	Offset    float64
	Opacity   float64
}

// Gradient is a linear or radial color gradient.
type Gradient struct {
	Direction GradientDirection
	Stops     []GradStop
	Bounds    struct{ X, Y, W, H float64 }
	Matrix    rasterx.Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

// GradientDirection is either Linear or Radial
type GradientDirection interface {
	isRadial() bool
}

// Linear is x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial is cx, cy, fx, fy, r, fr.
// fr is ignored by the rasterizer.
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// fadeStops is the number of stops sampled by RadialFade.
const fadeStops = 64

// RadialFade returns a radial gradient of the single color `c`,
// centered at (cx, cy), whose alpha at distance d from the center is
// alpha(d/r), in [0, 255]. Points beyond r keep the alpha of the last stop.
func RadialFade(c color.NRGBA, cx, cy, r float64, alpha func(t float64) float64) Gradient {
	g := Gradient{
		Direction: Radial{cx, cy, cx, cy, r, 0},
		Matrix:    rasterx.Identity,
		Units:     UserSpaceOnUse,
		Stops:     make([]GradStop, fadeStops+1),
	}
	g.Bounds.X, g.Bounds.Y, g.Bounds.W, g.Bounds.H = cx-r, cy-r, 2*r, 2*r
	opaque := c
	opaque.A = 0xff
	for i := range g.Stops {
		t := float64(i) / fadeStops
		g.Stops[i] = GradStop{StopColor: opaque, Offset: t, Opacity: clampUnit(alpha(t) / 255)}
	}
	return g
}

// VerticalFade returns a linear gradient of `c` going from alpha
// `from` at y0 to alpha `to` at y1, padded outside.
func VerticalFade(c color.NRGBA, y0, y1 float64, from, to uint8) Gradient {
	g := Gradient{
		Direction: Linear{0, y0, 0, y1},
		Matrix:    rasterx.Identity,
		Units:     UserSpaceOnUse,
	}
	g.Bounds.Y, g.Bounds.W, g.Bounds.H = y0, 1, y1-y0
	opaque := c
	opaque.A = 0xff
	g.Stops = []GradStop{
		{StopColor: opaque, Offset: 0, Opacity: float64(from) / 255},
		{StopColor: opaque, Offset: 1, Opacity: float64(to) / 255},
	}
	return g
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// the rasterizer ignores the source alpha of stop colors:
// it is moved to the stop opacity
func toRasterxGradient(grad Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4]
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, s := range grad.Stops {
		opaque := s.StopColor
		opaque.A = 0xff
		stops[i] = rasterx.GradStop{
			StopColor: opaque,
			Offset:    s.Offset,
			Opacity:   s.Opacity * float64(s.StopColor.A) / 255,
		}
	}
	out := rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Bounds:   grad.Bounds,
		Matrix:   grad.Matrix,
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.GradientUnits(grad.Units),
		IsRadial: isRadial,
	}
	if out.Bounds.W == 0 || out.Bounds.H == 0 { // degenerate bounds break the inverse matrix
		out.Bounds.W, out.Bounds.H = 1, 1
	}
	if out.Matrix == (rasterx.Matrix2D{}) {
		out.Matrix = rasterx.Identity
	}
	return out
}

// resolve the pattern into a color or a color function,
// set on the scanner
func setColorFromPattern(pattern Pattern, opacity float64, scanner rasterx.Scanner) {
	switch pat := pattern.(type) {
	case PlainColor:
		c := pat.NRGBA
		c.A = uint8(float64(c.A)*clampUnit(opacity) + 0.5)
		scanner.SetColor(c)
	case Gradient:
		if pat.Units == ObjectBoundingBox {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			pat.Bounds.X, pat.Bounds.Y = mnx, mny
			pat.Bounds.W, pat.Bounds.H = mxx-mnx, mxy-mny
		}
		rasterxGradient := toRasterxGradient(pat)
		scanner.SetColor(rasterxGradient.GetColorFunction(clampUnit(opacity)))
	}
}
