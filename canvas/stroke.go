package canvas

import (
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
// ArcClip mode is like MiterClip applied to arcs, and is not part of the SVG2.0
// standard.
const (
	Arc JoinMode = iota // New in SVG2
	Round
	Bevel
	Miter
	MiterClip // New in SVG2
	ArcClip
)

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	NilCap CapMode = iota // default value
	ButtCap
	SquareCap
	RoundCap
	CubicCap     // Not part of the SVG2.0 standard.
	QuadraticCap // Not part of the SVG2.0 standard.
)

// GapMode defines how to bridge gaps when the miter limit is exceeded,
// and is not part of the SVG2.0 standard.
type GapMode uint8

const (
	NilGap GapMode = iota
	FlatGap
	RoundGap
	CubicGap
	QuadraticGap
)

// StrokeOptions describes how to outline a path.
type StrokeOptions struct {
	Width      float64
	MiterLimit float64
	Join       JoinMode
	LeadCap    CapMode // NilCap means same as TrailCap
	TrailCap   CapMode
	Gap        GapMode
	Dash       []float64 // nil or empty for a solid line
	DashOffset float64

	Transform rasterx.Matrix2D // zero value means identity
	Opacity   float64          // zero value means 1
}

// DefaultStroke returns a solid stroke of the given width,
// with round joins and butt caps.
func DefaultStroke(width float64) StrokeOptions {
	return StrokeOptions{
		Width:      width,
		MiterLimit: 4,
		Join:       Round,
		TrailCap:   ButtCap,
		Gap:        RoundGap,
	}
}

// RoundStroke is DefaultStroke with round caps, used for arcs.
func RoundStroke(width float64) StrokeOptions {
	opts := DefaultStroke(width)
	opts.TrailCap = RoundCap
	return opts
}

func (o StrokeOptions) transform() rasterx.Matrix2D {
	if o.Transform == (rasterx.Matrix2D{}) {
		return rasterx.Identity
	}
	return o.Transform
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		Round:     rasterx.Round,
		Bevel:     rasterx.Bevel,
		Miter:     rasterx.Miter,
		MiterClip: rasterx.MiterClip,
		Arc:       rasterx.Arc,
		ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		NilCap:       rasterx.ButtCap,
		ButtCap:      rasterx.ButtCap,
		SquareCap:    rasterx.SquareCap,
		RoundCap:     rasterx.RoundCap,
		CubicCap:     rasterx.CubicCap,
		QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		NilGap:       rasterx.RoundGap,
		FlatGap:      rasterx.FlatGap,
		RoundGap:     rasterx.RoundGap,
		CubicGap:     rasterx.CubicGap,
		QuadraticGap: rasterx.QuadraticGap,
	}
)

func (c *Canvas) setStroke(o StrokeOptions) {
	lead := o.LeadCap
	if lead == NilCap {
		lead = o.TrailCap
	}
	miter := o.MiterLimit
	if miter <= 0 {
		miter = 4
	}
	// rasterx expects the scale of the transform to be applied to the width
	width := o.Width
	if m := o.transform(); m != rasterx.Identity {
		sx, sy := m.TransformVector(1, 0)
		tx, ty := m.TransformVector(0, 1)
		width *= (math.Hypot(sx, sy) + math.Hypot(tx, ty)) / 2
	}
	c.dasher.SetStroke(
		fixed.Int26_6(width*64), fixed.Int26_6(miter*64),
		capToFunc[lead], capToFunc[o.TrailCap], gapToFunc[o.Gap],
		joinToJoin[o.Join], o.Dash, o.DashOffset,
	)
}
