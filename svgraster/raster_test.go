package svgraster

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/internal/apperr"
)

func render(t *testing.T, src string, size int) *image.RGBA {
	t.Helper()
	img, err := RasterSVGIconToImage(strings.NewReader(src), size)
	if err != nil {
		t.Fatalf("can't raster image: %s", err)
	}
	return img
}

func at(img *image.RGBA, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func countOpaque(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if at(img, x, y).A > 0 {
				n++
			}
		}
	}
	return n
}

func TestRasterPlainRect(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 100 100"><rect x="10" y="10" width="80" height="80" fill="#ff0000"/></svg>`, 50)
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if got := at(img, 25, 25); got != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("expected red, got %v", got)
	}
	if got := at(img, 2, 2); got.A != 0 {
		t.Errorf("expected transparent corner, got %v", got)
	}
}

func TestRasterViewBoxSize(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 30 20"><rect width="30" height="20"/></svg>`, 0)
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestRasterInvalid(t *testing.T) {
	_, err := RasterSVGIconToImage(strings.NewReader(`<svg viewBox="0 0 10 10"/>`), -4)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
	_, err = RasterSVGIconToImage(strings.NewReader(`<svg`), 10)
	if !errors.Is(err, apperr.ErrMalformedSVG) {
		t.Errorf("expected malformed svg, got %v", err)
	}
}

func TestRasterStrokeOnly(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 100 100">
		<circle cx="50" cy="50" r="40" fill="none" stroke="black" stroke-width="6"/>
	</svg>`, 100)
	if got := at(img, 50, 50); got.A != 0 {
		t.Errorf("expected hollow center, got %v", got)
	}
	if got := at(img, 90, 50); got.A != 0xff {
		t.Errorf("expected opaque ring, got %v", got)
	}
}

func TestRasterZeroOpacity(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 10 10"><rect width="10" height="10" fill-opacity="0"/></svg>`, 10)
	if n := countOpaque(img, img.Bounds()); n != 0 {
		t.Errorf("expected empty image, got %d painted pixels", n)
	}
}

func TestRasterGradient(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 100 100">
		<defs>
			<linearGradient id="g">
				<stop offset="0" stop-color="red"/>
				<stop offset="1" stop-color="blue"/>
			</linearGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`, 100)
	left, right := at(img, 2, 50), at(img, 97, 50)
	if left.R < 200 || left.B > 50 {
		t.Errorf("expected red on the left, got %v", left)
	}
	if right.B < 200 || right.R > 50 {
		t.Errorf("expected blue on the right, got %v", right)
	}
}

func TestRasterOffsetFilter(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 100 100">
		<defs><filter id="move"><feOffset dx="20" dy="0"/></filter></defs>
		<rect y="40" width="40" height="20" fill="red" filter="url(#move)"/>
	</svg>`, 100)
	if got := at(img, 10, 50); got.A != 0 {
		t.Errorf("expected the source to be replaced, got %v", got)
	}
	if got := at(img, 50, 50); got.R != 0xff || got.A != 0xff {
		t.Errorf("expected the offset rect, got %v", got)
	}
}

func TestRasterDropShadow(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 100 100">
		<defs>
			<filter id="shadow">
				<feGaussianBlur in="SourceAlpha" stdDeviation="2" result="blur"/>
				<feOffset in="blur" dx="15" dy="15" result="offsetBlur"/>
				<feComponentTransfer in="offsetBlur" result="faded">
					<feFuncA type="linear" slope="0.5"/>
				</feComponentTransfer>
				<feMerge>
					<feMergeNode in="faded"/>
					<feMergeNode in="SourceGraphic"/>
				</feMerge>
			</filter>
		</defs>
		<g filter="url(#shadow)">
			<rect x="20" y="20" width="40" height="40" fill="red"/>
		</g>
		<rect x="80" y="0" width="20" height="10" fill="blue"/>
	</svg>`, 100)

	if got := at(img, 40, 40); got != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("expected the source on top, got %v", got)
	}
	shadow := at(img, 70, 70)
	if shadow.A == 0 || shadow.A > 140 || shadow.R != 0 {
		t.Errorf("expected a faded black shadow, got %v", shadow)
	}
	if got := at(img, 90, 5); got.B != 0xff || got.A != 0xff {
		t.Errorf("expected the unfiltered rect, got %v", got)
	}
	if got := at(img, 5, 95); got.A != 0 {
		t.Errorf("expected transparent corner, got %v", got)
	}
}

func TestRasterText(t *testing.T) {
	img := render(t, `<svg viewBox="0 0 100 100">
		<text x="50" y="70" font-size="60" text-anchor="middle" fill="black">Y</text>
	</svg>`, 100)
	if n := countOpaque(img, image.Rect(20, 10, 80, 75)); n < 100 {
		t.Errorf("expected the glyph to be drawn, got %d pixels", n)
	}
	if n := countOpaque(img, image.Rect(0, 80, 100, 100)); n != 0 {
		t.Errorf("expected nothing below the baseline area, got %d pixels", n)
	}
}
