package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/fonts"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/shape"
)

var (
	red   = NewPlainColor(0xff, 0, 0, 0xff)
	black = NewPlainColor(0, 0, 0, 0xff)
	white = NewPlainColor(0xff, 0xff, 0xff, 0xff)
)

func newCanvas(t *testing.T, w, h int) *Canvas {
	c, err := New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func assertCornersTransparent(t *testing.T, c *Canvas) {
	t.Helper()
	w, h := c.Width(), c.Height()
	for _, p := range [...]image.Point{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		if a := c.At(p.X, p.Y).A; a != 0 {
			t.Errorf("corner %v has alpha %d", p, a)
		}
	}
}

func TestInvalidSize(t *testing.T) {
	for _, s := range [...][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		_, err := New(s[0], s[1])
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("size %v: expected invalid input, got %v", s, err)
		}
	}
}

func TestFillCircle(t *testing.T) {
	c := newCanvas(t, 32, 32)
	var p shape.Path
	p.Circle(16, 16, 10)
	c.Fill(p, red)

	if got := c.At(16, 16); got != red.NRGBA {
		t.Errorf("expected red center, got %v", got)
	}
	if got := c.At(16, 2); got.A != 0 {
		t.Errorf("expected transparent outside, got %v", got)
	}
	assertCornersTransparent(t, c)
}

func TestFillOpacity(t *testing.T) {
	c := newCanvas(t, 8, 8)
	var p shape.Path
	p.Rect(0, 0, 8, 8)
	c.FillWith(p, red, FillOptions{Opacity: 0.5})
	if a := c.At(4, 4).A; a < 126 || a > 129 {
		t.Errorf("expected half opacity, got %d", a)
	}
}

func TestFillTransparentColor(t *testing.T) {
	c := newCanvas(t, 8, 8)
	var p shape.Path
	p.Rect(0, 0, 8, 8)
	c.Fill(p, NewPlainColor(0, 0, 0xff, 100))
	got := c.At(4, 4)
	if got.A != 100 || got.B < 0xfd {
		t.Errorf("expected blue with alpha 100, got %v", got)
	}
}

func TestStrokeRing(t *testing.T) {
	c := newCanvas(t, 32, 32)
	var p shape.Path
	p.Circle(16, 16, 10)
	c.Stroke(p, black, DefaultStroke(2))

	if a := c.At(16, 16).A; a != 0 {
		t.Errorf("stroke should not fill the inside, got alpha %d", a)
	}
	if a := c.At(26, 16).A; a < 200 {
		t.Errorf("expected opaque ring, got alpha %d", a)
	}
}

func TestRadialFade(t *testing.T) {
	c := newCanvas(t, 64, 64)
	var p shape.Path
	p.Circle(32, 32, 30)
	c.Fill(p, RadialFade(red.NRGBA, 32, 32, 30, func(t float64) float64 { return 255 * t * t }))

	center, mid, edge := c.At(32, 32).A, c.At(32+15, 32).A, c.At(32+28, 32).A
	if !(center < mid && mid < edge) {
		t.Errorf("alpha should grow with the radius: %d %d %d", center, mid, edge)
	}
	if center > 5 {
		t.Errorf("expected transparent center, got %d", center)
	}
	if mid < 55 || mid > 75 { // 255 * 0.25
		t.Errorf("unexpected alpha at half radius %d", mid)
	}
	if got := c.At(32+28, 32); got.R < 0xfd || got.G > 2 {
		t.Errorf("gradient should keep the color, got %v", got)
	}
}

func TestVerticalFadeClippedToPath(t *testing.T) {
	c := newCanvas(t, 40, 40)
	var p shape.Path
	p.Circle(20, 20, 18)
	c.Fill(p, VerticalFade(color.NRGBA{R: 0xff, G: 0xff, B: 0xff}, 0, 10, 50, 0))

	if a := c.At(20, 3).A; a == 0 || a > 50 {
		t.Errorf("expected faint highlight at the top, got %d", a)
	}
	if a := c.At(20, 20).A; a != 0 {
		t.Errorf("expected no highlight below the fade, got %d", a)
	}
	if a := c.At(1, 3).A; a != 0 {
		t.Errorf("highlight must stay inside the path, got %d", a)
	}
}

func TestBlur(t *testing.T) {
	c := newCanvas(t, 32, 32)
	var p shape.Path
	p.Rect(12, 12, 20, 20)
	c.Fill(p, black)
	img := c.Image()
	c.Blur(2)

	if c.Image() != img {
		t.Error("blur must modify the canvas in place")
	}
	if a := c.At(10, 16).A; a == 0 {
		t.Error("blur should spread the alpha")
	}
	if a := c.At(16, 16).A; a == 255 || a == 0 {
		t.Errorf("unexpected alpha %d at the center", a)
	}
	assertCornersTransparent(t, c)
}

func TestSmooth(t *testing.T) {
	c := newCanvas(t, 11, 11)
	c.Image().SetRGBA(5, 5, color.RGBA{0xff, 0xff, 0xff, 0xff})
	c.Smooth()

	if got := c.At(5, 5); got.A < 97 || got.A > 99 || got.R < 0xfd {
		t.Errorf("unexpected center after smoothing %v", got)
	}
	if got := c.At(4, 4); got.A < 19 || got.A > 21 || got.R < 0xf0 {
		t.Errorf("unexpected neighbour after smoothing %v", got)
	}
	if a := c.At(3, 5).A; a != 0 {
		t.Errorf("smoothing should not reach 2 pixels away, got %d", a)
	}
	assertCornersTransparent(t, c)
}

func TestMaskWith(t *testing.T) {
	c := newCanvas(t, 20, 20)
	var full shape.Path
	full.Rect(0, 0, 20, 20)
	c.Fill(full, red)

	mask := c.Layer()
	var half shape.Path
	half.Rect(0, 0, 10, 20)
	mask.Fill(half, black)

	c.MaskWith(mask.Image())
	if c.At(5, 5) != red.NRGBA {
		t.Errorf("expected red inside the mask, got %v", c.At(5, 5))
	}
	if c.At(15, 5).A != 0 {
		t.Errorf("expected transparent outside the mask, got %v", c.At(15, 5))
	}
}

func TestColorizeAndScale(t *testing.T) {
	c := newCanvas(t, 4, 4)
	var p shape.Path
	p.Rect(0, 0, 4, 4)
	c.Fill(p, red)
	c.Colorize(NewPlainColor(0, 0, 0, 100))
	if got := c.At(1, 1); got.A != 100 || got.R != 0 {
		t.Errorf("unexpected colorized pixel %v", got)
	}
	c.ScaleAlpha(0.5)
	if a := c.At(1, 1).A; a < 49 || a > 51 {
		t.Errorf("unexpected scaled alpha %d", a)
	}
	c.MapAlpha(func(a float64) float64 { return 1 })
	if a := c.At(1, 1).A; a != 255 {
		t.Errorf("unexpected mapped alpha %d", a)
	}
}

func TestComposite(t *testing.T) {
	c := newCanvas(t, 10, 10)
	layer := c.Layer()
	var p shape.Path
	p.Rect(0, 0, 4, 4)
	layer.Fill(p, red)
	c.Draw(layer.Image(), 2, 2)
	if c.At(3, 3) != red.NRGBA || c.At(1, 1).A != 0 {
		t.Error("layer should be offset by (2, 2)")
	}
	c.DrawLayer(layer)
	if c.At(1, 1) != red.NRGBA {
		t.Error("layer should be drawn at the origin")
	}
}

func TestResize(t *testing.T) {
	c := newCanvas(t, 64, 64)
	var p shape.Path
	p.Circle(32, 32, 20)
	c.Fill(p, red)
	out := Resize(c.Image(), 32, 32)
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 32 {
		t.Fatalf("unexpected size %v", out.Bounds())
	}
	if FromImage(out).At(16, 16).A != 255 {
		t.Error("expected opaque center after resampling")
	}
}

func TestDrawTextCentered(t *testing.T) {
	c := newCanvas(t, 64, 64)
	face, err := fonts.Builtin().Face(32)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	c.DrawTextCentered(face, "Y", 32, 32, black.NRGBA)
	var minX, minY, maxX, maxY = 64, 64, -1, -1
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if c.At(x, y).A > 0 {
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)
			}
		}
	}
	if maxX < 0 {
		t.Fatal("nothing drawn")
	}
	if cx, cy := (minX+maxX)/2, (minY+maxY)/2; cx < 30 || cx > 34 || cy < 30 || cy > 34 {
		t.Errorf("glyph not centered: ink box (%d,%d)-(%d,%d)", minX, minY, maxX, maxY)
	}
	assertCornersTransparent(t, c)
}
