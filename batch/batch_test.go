package batch

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	_ "image/png"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openyolo/assetgen/icon"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/sink"
	"github.com/openyolo/assetgen/svgicon"
)

func testOptions() Options {
	return Options{
		Name:              "openyolo",
		Caption:           "OpenYolo",
		IconsRoot:         "resources/icons",
		CursorsRoot:       "assets/cursors",
		CustomCursorsRoot: "resources/cursors",
	}
}

func newDriver(fs afero.Fs, opts Options) *Driver {
	return New(sink.New(fs), log.New(io.Discard), icon.Generator{}, opts)
}

func decodeSize(t *testing.T, fs afero.Fs, path string) image.Point {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, path)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err, path)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestIconSet(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := testOptions()
	rep, err := newDriver(fs, opts).IconSet(context.Background())
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.Equal(t, "13/13", rep.String())

	for _, size := range DefaultSizes {
		path := sink.IconPath(opts.IconsRoot, size, opts.Name)
		assert.Equal(t, image.Pt(size, size), decodeSize(t, fs, path))
	}

	// the scalable icon is the only extra: nothing to resample
	require.Len(t, rep.Extras, 1)
	svgPath := filepath.Join("resources", "icons", "hicolor", "scalable", "apps", "openyolo.svg")
	assert.Equal(t, svgPath, rep.Extras[0].Path)
	f, err := fs.Open(svgPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = svgicon.Check(f)
	assert.NoError(t, err)

	pngs, err := afero.Glob(fs, filepath.Join(opts.IconsRoot, "hicolor", "*", "apps", "*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 13)
}

func TestIconSetDeterministic(t *testing.T) {
	opts := testOptions()
	opts.Sizes = []int{16, 64, 128}
	var outputs [2][]byte
	for i := range outputs {
		fs := afero.NewMemMapFs()
		_, err := newDriver(fs, opts).IconSet(context.Background())
		require.NoError(t, err)
		outputs[i], err = afero.ReadFile(fs, sink.IconPath(opts.IconsRoot, 128, opts.Name))
		require.NoError(t, err)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestIconSetResample(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := testOptions()
	opts.Sizes = []int{16, 512}
	rep, err := newDriver(fs, opts).IconSet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2/2", rep.String())

	resampled := sink.IconPath(opts.IconsRoot, ResampledSize, opts.Name)
	require.Len(t, rep.Extras, 2)
	assert.Equal(t, resampled, rep.Extras[0].Path)
	assert.True(t, rep.Extras[0].OK())
	assert.Equal(t, image.Pt(256, 256), decodeSize(t, fs, resampled))
}

func TestIconSetPartialFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := testOptions()
	opts.Sizes = []int{16, 0, 32}
	rep, err := newDriver(fs, opts).IconSet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2/3", rep.String())
	assert.Equal(t, ReasonInvalidInput, rep.Results[1].Reason)
	assert.True(t, rep.Results[2].OK(), "the batch continues after a failure")

	err = rep.Err()
	assert.True(t, errors.Is(err, apperr.ErrPartialBatch))
	assert.Equal(t, 1, apperr.ExitCode(err))
}

func TestWriteFailures(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	rep, err := newDriver(fs, testOptions()).CustomCursors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0/4", rep.String())
	for _, res := range rep.Results {
		assert.Equal(t, ReasonWrite, res.Reason, res.Path)
	}
}

func TestDefaultCursors(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := testOptions()
	rep, err := newDriver(fs, opts).DefaultCursors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7/7", rep.String())

	for file, size := range map[string]int{
		"default.png":    32,
		"pointer.png":    32,
		"default-hd.png": 64,
		"pointer-hd.png": 64,
	} {
		assert.Equal(t, image.Pt(size, size), decodeSize(t, fs, filepath.Join(opts.CursorsRoot, file)), file)
	}

	for file, want := range map[string]struct{ frames, size int }{
		"animated-cursor.gif":    {8, 32},
		"loading.gif":            {12, 32},
		"animated-cursor-hd.gif": {8, 64},
	} {
		data, err := afero.ReadFile(fs, filepath.Join(opts.CursorsRoot, file))
		require.NoError(t, err, file)
		g, err := gif.DecodeAll(bytes.NewReader(data))
		require.NoError(t, err, file)
		assert.Len(t, g.Image, want.frames, file)
		assert.Equal(t, 0, g.LoopCount, file)
		assert.Equal(t, want.size, g.Config.Width, file)
	}
}

func TestCustomCursors(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := testOptions()
	rep, err := newDriver(fs, opts).CustomCursors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4/4", rep.String())
	for _, file := range []string{"pointer.png", "hand.png", "crosshair.png", "text.png"} {
		assert.Equal(t, image.Pt(32, 32), decodeSize(t, fs, filepath.Join(opts.CustomCursorsRoot, file)), file)
	}
}

func TestAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := testOptions()
	opts.Sizes = []int{16, 32}
	reports, err := newDriver(fs, opts).All(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.NoError(t, Err(reports))
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := afero.NewMemMapFs()
	reports, err := newDriver(fs, testOptions()).All(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Results)
}

func TestPanicRecovered(t *testing.T) {
	d := newDriver(afero.NewMemMapFs(), testOptions())
	a := pngAsset("boom.png", 32, func(int) (*image.RGBA, error) { panic("out of paint") }, d.sink)
	res, err := d.run(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, ReasonDraw, res.Reason)
	assert.Contains(t, res.Err.Error(), "out of paint")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ReasonNone, Classify(nil))
	assert.Equal(t, ReasonDraw, Classify(errors.New("boom")))
	assert.Equal(t, ReasonWrite, Classify(errors.Wrap(errors.Mark(errors.New("disk"), apperr.ErrWrite), "x")))
	assert.Equal(t, ReasonEncode, Classify(errors.Mark(errors.New("png"), apperr.ErrEncode)))
	assert.Equal(t, ReasonInvalidInput, Classify(errors.Mark(errors.New("size"), apperr.ErrInvalidInput)))
}

func TestCheckCapabilities(t *testing.T) {
	assert.NoError(t, CheckCapabilities(nil))
}
