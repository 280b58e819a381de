package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextAnchor is the horizontal alignment of a text run around its origin.
type TextAnchor uint8

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// MeasureText returns the advance width of `s`.
func MeasureText(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}

// InkBounds returns the box covered by the glyphs of `s`, relative
// to a baseline origin at (0, 0).
func InkBounds(face font.Face, s string) (minX, minY, maxX, maxY float64) {
	b, _ := font.BoundString(face, s)
	return fixedToFloat(b.Min.X), fixedToFloat(b.Min.Y), fixedToFloat(b.Max.X), fixedToFloat(b.Max.Y)
}

// DrawText draws `s` with its baseline at `y`, aligned on `x` according to `anchor`.
func (c *Canvas) DrawText(face font.Face, s string, x, y float64, anchor TextAnchor, col color.NRGBA) {
	switch anchor {
	case AnchorMiddle:
		x -= MeasureText(face, s) / 2
	case AnchorEnd:
		x -= MeasureText(face, s)
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
	}
	d.DrawString(s)
}

// DrawTextCentered draws `s` so that the center of its ink box
// lies at (cx, cy).
func (c *Canvas) DrawTextCentered(face font.Face, s string, cx, cy float64, col color.NRGBA) {
	minX, minY, maxX, maxY := InkBounds(face, s)
	x := cx - (minX+maxX)/2
	y := cy - (minY+maxY)/2
	c.DrawText(face, s, x, y, AnchorStart, col)
}
