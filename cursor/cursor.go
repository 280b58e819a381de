// Package cursor draws the cursor bitmaps: static glyphs as single
// images and animated glyphs as frame sequences.
//
// Glyph geometry is designed on a 32 pixel grid and scaled linearly
// to the requested size. Every glyph keeps its four corner pixels
// fully transparent.
package cursor

import (
	"image/color"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/shape"
)

// DesignSize is the edge length the glyph geometry is expressed in.
const DesignSize = 32

// ErrInvalidSize is returned for a non positive size or frame count.
var ErrInvalidSize = errors.Mark(errors.New("cursor size must be positive"), apperr.ErrInvalidInput)

var (
	black = canvas.NewPlainColor(0, 0, 0, 0xff)
	white = canvas.NewPlainColor(0xff, 0xff, 0xff, 0xff)
	skin  = canvas.NewPlainColor(255, 220, 180, 0xff)
	gray  = canvas.NewPlainColor(100, 100, 100, 0xff)
)

// grid scales the 32 px design coordinates to the target size.
type grid struct {
	size float64
	s    float64
}

func newGrid(size int) grid {
	return grid{size: float64(size), s: float64(size) / DesignSize}
}

// at scales a design length
func (g grid) at(v float64) float64 { return v * g.s }

// pt scales a design point
func (g grid) pt(x, y float64) shape.Point { return shape.Pt(x*g.s, y*g.s) }

// line returns a stroke width scaled from `w` design pixels, never thinner than `min`.
func (g grid) line(w, min float64) float64 { return math.Max(min, w*g.s) }

func newCanvas(size int) (*canvas.Canvas, error) {
	if size <= 0 {
		return nil, errors.WithDetailf(ErrInvalidSize, "got %d", size)
	}
	return canvas.New(size, size)
}

// insetEllipse adds the ellipse inscribed in the box, shrunk by `w/2`
// so that an outline of width w stays inside the box.
func insetEllipse(p *shape.Path, x0, y0, x1, y1, w float64) {
	p.EllipseBox(x0+w/2, y0+w/2, x1-w/2, y1-w/2)
}

// insetRect is the rectangle counterpart of insetEllipse.
func insetRect(p *shape.Path, x0, y0, x1, y1, w float64) {
	p.Rect(x0+w/2, y0+w/2, x1-w/2, y1-w/2)
}

// rgba is a shorthand for an opaque color
func rgba(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 0xff} }
