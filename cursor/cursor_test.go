package cursor

import (
	"bytes"
	"image"
	"image/gif"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openyolo/assetgen/internal/apperr"
)

var testSizes = []int{16, 32, 64, 128, 256}

var statics = map[string]func(int) (*image.RGBA, error){
	"arrow":     Arrow,
	"hand":      Hand,
	"triangle":  Triangle,
	"ring":      Ring,
	"crosshair": Crosshair,
	"ibeam":     IBeam,
}

func assertTransparentCorners(t *testing.T, img *image.RGBA, name string, size int) {
	t.Helper()
	b := img.Bounds()
	for _, p := range []image.Point{
		{b.Min.X, b.Min.Y}, {b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1}, {b.Max.X - 1, b.Max.Y - 1},
	} {
		assert.Equal(t, uint8(0), img.RGBAAt(p.X, p.Y).A, "%s %d: corner %v", name, size, p)
	}
}

func countOpaque(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestStaticCursors(t *testing.T) {
	for name, draw := range statics {
		for _, size := range testSizes {
			img, err := draw(size)
			require.NoError(t, err, "%s %d", name, size)
			assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds(), "%s %d", name, size)
			assertTransparentCorners(t, img, name, size)
			assert.NotZero(t, countOpaque(img), "%s %d: nothing drawn", name, size)
		}
	}
}

func TestInvalidSize(t *testing.T) {
	for name, draw := range statics {
		for _, size := range []int{0, -32} {
			_, err := draw(size)
			assert.True(t, errors.Is(err, ErrInvalidSize), name)
			assert.True(t, errors.Is(err, apperr.ErrInvalidInput), name)
		}
	}
	_, err := RotatingArc(0, 8)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	_, err = Spinner(32, 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestDeterministic(t *testing.T) {
	for name, draw := range statics {
		a, err := draw(64)
		require.NoError(t, err)
		b, err := draw(64)
		require.NoError(t, err)
		assert.Equal(t, a.Pix, b.Pix, name)
	}
}

func TestArrowColors(t *testing.T) {
	img, err := Arrow(32)
	require.NoError(t, err)
	// the black border shows on the left edge, the inside is white
	assert.Equal(t, uint8(0), img.RGBAAt(2, 12).R)
	assert.Equal(t, uint8(0xff), img.RGBAAt(2, 12).A)
	assert.Equal(t, uint8(0xff), img.RGBAAt(8, 10).R)
}

func TestRotatingArc(t *testing.T) {
	for _, size := range testSizes {
		seq, err := RotatingArc(size, ArcFrames)
		require.NoError(t, err)
		require.Len(t, seq.Frames, ArcFrames)
		assert.Equal(t, ArcDelay, seq.Delay)
		assert.Equal(t, 0, seq.LoopCount)
		for _, f := range seq.Frames {
			assert.Equal(t, image.Rect(0, 0, size, size), f.Bounds())
			assertTransparentCorners(t, f, "arc", size)
		}
	}

	seq, err := RotatingArc(32, ArcFrames)
	require.NoError(t, err)
	// frame 0 arc spans 0 to 90 degrees, clockwise: the 45 degree point is red
	p := seq.Frames[0].RGBAAt(23, 23)
	assert.Equal(t, uint8(0xff), p.R)
	assert.Equal(t, uint8(0), p.G)
	// frame 2 is yellow and starts at 90 degrees
	p = seq.Frames[2].RGBAAt(8, 23)
	assert.Equal(t, uint8(0xff), p.R)
	assert.Equal(t, uint8(0xff), p.G)
	// white center
	assert.Equal(t, uint8(0xff), seq.Frames[0].RGBAAt(16, 16).B)
	assert.Equal(t, uint8(0xff), seq.Frames[0].RGBAAt(16, 16).G)
}

func TestSpinner(t *testing.T) {
	for _, size := range testSizes {
		seq, err := Spinner(size, SpinnerFrames)
		require.NoError(t, err)
		require.Len(t, seq.Frames, SpinnerFrames)
		assert.Equal(t, SpinnerDelay, seq.Delay)
		for _, f := range seq.Frames {
			assertTransparentCorners(t, f, "spinner", size)
		}
	}

	seq, err := Spinner(32, SpinnerFrames)
	require.NoError(t, err)
	// first dot of frame 0 at 0 degrees is opaque, the last one at 330 degrees is faint
	head := seq.Frames[0].RGBAAt(26, 16)
	assert.Equal(t, uint8(0xff), head.A)
	assert.Equal(t, uint8(0xff), head.B)
	tail := seq.Frames[0].RGBAAt(25, 10)
	assert.Greater(t, tail.A, uint8(0))
	assert.Less(t, tail.A, uint8(40))
	// frame 1 moved the opaque head by 30 degrees
	assert.Equal(t, uint8(0xff), seq.Frames[1].RGBAAt(25, 21).A)
}

func TestSpinnerGIFKeepsFade(t *testing.T) {
	seq, err := Spinner(32, SpinnerFrames)
	require.NoError(t, err)
	data, err := seq.Bytes()
	require.NoError(t, err)
	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, g.Image, SpinnerFrames)

	for i, img := range g.Image {
		prev := -1
		for j := 0; j < spinnerDots; j++ {
			angle := float64((i+j)*30) * math.Pi / 180
			x := int(math.Floor(16 + 32.0/3*math.Cos(angle)))
			y := int(math.Floor(16 + 32.0/3*math.Sin(angle)))
			r, _, _, a := img.At(x, y).RGBA()
			require.Equal(t, uint32(0xffff), a, "frame %d: dot %d not visible", i, j)
			// the tail fades toward the white matte
			assert.Greater(t, int(r), prev, "frame %d: dot %d", i, j)
			prev = int(r)
		}
	}
}
