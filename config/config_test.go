package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/theme"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(afero.NewMemMapFs()), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Len(t, cfg.Sizes, 13)

	th, err := cfg.Theme()
	require.NoError(t, err)
	assert.Equal(t, theme.Default().Color(theme.Primary), th.Color(theme.Primary))
}

const demoConfig = `
name: demo
caption: ""
sizes: [16, 32]
theme:
  primary: "#FF0000"
`

// the configuration file is looked up in the working directory
func TestConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(wd, FileName+".yaml"), []byte(demoConfig), 0o644))
	cfg, err := Load(New(fs), "")
	require.NoError(t, err)
	assertDemo(t, cfg)
}

func TestExplicitConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/assetgen/demo.yaml", []byte(demoConfig), 0o644))
	cfg, err := Load(New(fs), "/etc/assetgen/demo.yaml")
	require.NoError(t, err)
	assertDemo(t, cfg)
}

func assertDemo(t *testing.T, cfg Config) {
	t.Helper()
	assert.Equal(t, "demo", cfg.Name)
	assert.Empty(t, cfg.Caption)
	assert.Equal(t, []int{16, 32}, cfg.Sizes)
	assert.Equal(t, "resources/icons", cfg.IconsRoot)

	th, err := cfg.Theme()
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", th.Hex(theme.Primary))
	assert.Equal(t, theme.Default().Hex(theme.Accent), th.Hex(theme.Accent))

	opts := cfg.BatchOptions()
	assert.Equal(t, "demo", opts.Name)
	assert.Equal(t, []int{16, 32}, opts.Sizes)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("ASSETGEN_NAME", "fromenv")
	t.Setenv("ASSETGEN_ICONS_ROOT", "/tmp/icons")
	cfg, err := Load(New(afero.NewMemMapFs()), "")
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Name)
	assert.Equal(t, "/tmp/icons", cfg.IconsRoot)
}

func TestExplicitFileMissing(t *testing.T) {
	_, err := Load(New(afero.NewMemMapFs()), "missing.yaml")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"size":  "sizes: [16, 0]",
		"tiny":  "sizes: [16, 3]",
		"role":  "theme: {purple: \"#FF00FF\"}",
		"color": "theme: {primary: \"#GG0000\"}",
		"name":  "name: \"\"",
	} {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "custom.yaml", []byte(content), 0o644))
		_, err := Load(New(fs), "custom.yaml")
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "%s: %v", name, err)
	}
}
