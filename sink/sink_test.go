package sink

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openyolo/assetgen/anim"
	"github.com/openyolo/assetgen/internal/apperr"
)

func square(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("icons", "hicolor", "16x16", "apps", "yolo.png"), IconPath("icons", 16, "yolo"))
	assert.Equal(t, filepath.Join("icons", "hicolor", "1024x1024", "apps", "yolo.png"), IconPath("icons", 1024, "yolo"))
	assert.Equal(t, filepath.Join("icons", "hicolor", "scalable", "apps", "yolo.svg"), ScalableIconPath("icons", "yolo"))
}

func TestWritePNG(t *testing.T) {
	s := New(afero.NewMemMapFs())
	path := IconPath("out", 8, "yolo")
	img := square(8, color.RGBA{R: 0xff, A: 0xff})
	require.NoError(t, s.WritePNG(path, img))
	assert.True(t, s.Exists(path))

	exists, err := afero.Exists(s.Fs(), path+".tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temporary file left behind")

	back, err := s.ReadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())
	r, g, b, a := back.At(3, 3).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestEncodePNGDeterministic(t *testing.T) {
	img := square(16, color.RGBA{G: 0x80, A: 0x80})
	a, err := EncodePNG(img)
	require.NoError(t, err)
	b, err := EncodePNG(img)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteGIF(t *testing.T) {
	s := New(afero.NewMemMapFs())
	seq := anim.Sequence{
		Frames: []*image.RGBA{square(4, color.RGBA{R: 0xff, A: 0xff}), square(4, color.RGBA{B: 0xff, A: 0xff})},
		Delay:  100 * time.Millisecond,
	}
	require.NoError(t, s.WriteGIF("cursors/loading.gif", seq))
	data, err := afero.ReadFile(s.Fs(), "cursors/loading.gif")
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(data[:6]))

	err = s.WriteGIF("cursors/empty.gif", anim.Sequence{})
	assert.True(t, errors.Is(err, apperr.ErrEncode))
	assert.False(t, s.Exists("cursors/empty.gif"))
}

func TestWriteSVG(t *testing.T) {
	s := New(afero.NewMemMapFs())
	require.NoError(t, s.WriteSVG("a/b/c.svg", "<svg/>"))
	data, err := afero.ReadFile(s.Fs(), "a/b/c.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestWriteFailure(t *testing.T) {
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()))
	err := s.WritePNG("out/x.png", square(2, color.RGBA{A: 0xff}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrWrite))
	assert.False(t, errors.Is(err, apperr.ErrEncode))
}

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("dir", DirPerm))
	s := New(fs)
	assert.False(t, s.Exists("dir"))
	assert.False(t, s.Exists("missing.png"))
	_, err := s.ReadPNG("missing.png")
	assert.Error(t, err)
}
