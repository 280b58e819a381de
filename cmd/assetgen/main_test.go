package main

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openyolo/assetgen/internal/apperr"
)

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	cmd := newRootCmd(fs, &stderr)
	cmd.SetArgs(append([]string{"--font", "builtin"}, args...))
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stderr.String(), err
}

func TestCustomCursors(t *testing.T) {
	fs := afero.NewMemMapFs()
	out, err := execute(t, fs, "custom-cursors", "--custom-cursors-root", "/out")
	require.NoError(t, err)
	assert.Contains(t, out, "4/4")

	for _, name := range []string{"pointer.png", "hand.png", "crosshair.png", "text.png"} {
		f, err := fs.Open("/out/" + name)
		require.NoError(t, err, name)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, 32, img.Bounds().Dx(), name)
	}
}

func TestCursors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := execute(t, fs, "cursors", "--cursors-root", "/c")
	require.NoError(t, err)
	for _, name := range []string{"default.png", "pointer.png", "animated-cursor.gif", "loading.gif",
		"default-hd.png", "pointer-hd.png", "animated-cursor-hd.gif"} {
		ok, err := afero.Exists(fs, "/c/"+name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

func TestConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/assetgen.yaml", []byte(`
name: yolo
icons_root: /icons
sizes: [16, 48]
caption: ""
`), 0o644))

	out, err := execute(t, fs, "icons", "--config", "/assetgen.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "2/2")
	for _, path := range []string{"/icons/hicolor/16x16/apps/yolo.png", "/icons/hicolor/48x48/apps/yolo.png"} {
		ok, _ := afero.Exists(fs, path)
		assert.True(t, ok, path)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := execute(t, fs, "icons", "--config", "/missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = execute(t, fs, "icons", "--log-level", "loud")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

const okSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<defs><linearGradient id="g"><stop offset="0" stop-color="#fff"/><stop offset="1" stop-color="#000"/></linearGradient></defs>
<circle cx="32" cy="32" r="24" fill="url(#g)"/>
</svg>`

func TestVerify(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ok.svg", []byte(okSVG), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/bad.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 8 8">
<rect width="8" height="8" fill="url(#missing)"/></svg>`), 0o644))

	_, err := execute(t, fs, "verify", "/ok.svg", "--preview", "/preview.png", "--size", "48")
	require.NoError(t, err)
	f, err := fs.Open("/preview.png")
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())

	_, err = execute(t, fs, "verify", "/bad.svg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMalformedSVG))
	assert.Equal(t, 1, apperr.ExitCode(err))

	_, err = execute(t, fs, "verify")
	assert.Error(t, err)
}
