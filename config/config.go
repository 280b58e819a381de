// Package config loads the generator settings with viper: flags,
// ASSETGEN_* environment variables, an optional assetgen.yaml, then defaults.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/openyolo/assetgen/batch"
	"github.com/openyolo/assetgen/icon"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/theme"
)

const (
	EnvPrefix = "ASSETGEN"
	FileName  = "assetgen"

	// BuiltinFont selects the embedded face instead of the font search.
	BuiltinFont = "builtin"
)

// Config holds every setting of a run.
type Config struct {
	Name              string            `mapstructure:"name"`
	Glyph             string            `mapstructure:"glyph"`
	Caption           string            `mapstructure:"caption"`
	IconsRoot         string            `mapstructure:"icons_root"`
	CursorsRoot       string            `mapstructure:"cursors_root"`
	CustomCursorsRoot string            `mapstructure:"custom_cursors_root"`
	Sizes             []int             `mapstructure:"sizes"`
	Colors            map[string]string `mapstructure:"theme"`
	Font              string            `mapstructure:"font"` // empty: search, "builtin", or a font file
	LogLevel          string            `mapstructure:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	colors := make(map[string]string, len(theme.Defaults))
	for r, hex := range theme.Defaults {
		colors[string(r)] = hex
	}
	return Config{
		Name:              "OpenYolo",
		Glyph:             icon.DefaultGlyph,
		Caption:           "OpenYolo",
		IconsRoot:         "resources/icons",
		CursorsRoot:       "assets/cursors",
		CustomCursorsRoot: "resources/cursors",
		Sizes:             append([]int(nil), batch.DefaultSizes...),
		Colors:            colors,
		LogLevel:          "info",
	}
}

// New returns a viper instance reading from `fs`, with the defaults
// and the environment bound. Flags may be bound before Load.
func New(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	def := Default()
	v.SetDefault("name", def.Name)
	v.SetDefault("glyph", def.Glyph)
	v.SetDefault("caption", def.Caption)
	v.SetDefault("icons_root", def.IconsRoot)
	v.SetDefault("cursors_root", def.CursorsRoot)
	v.SetDefault("custom_cursors_root", def.CustomCursorsRoot)
	v.SetDefault("sizes", def.Sizes)
	v.SetDefault("font", def.Font)
	v.SetDefault("log_level", def.LogLevel)
	for role, hex := range def.Colors {
		v.SetDefault("theme."+role, hex)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file, if any, and decodes the settings.
// An explicit `configFile` must exist; otherwise assetgen.yaml is
// looked up in the working directory.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Mark(errors.Wrap(err, "reading configuration"), apperr.ErrInvalidInput)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "decoding configuration"), apperr.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no generator can use.
func (c Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return errors.Mark(errors.Newf(format, args...), apperr.ErrInvalidInput)
	}
	if c.Name == "" {
		return invalid("empty icon name")
	}
	if len(c.Sizes) == 0 {
		return invalid("empty icon size set")
	}
	for _, s := range c.Sizes {
		if s < icon.MinSize {
			return invalid("invalid icon size %d, the smallest is %d", s, icon.MinSize)
		}
	}
	if _, err := c.Theme(); err != nil {
		return err
	}
	return nil
}

// Theme builds the color theme from the configured overrides.
func (c Config) Theme() (theme.Theme, error) {
	return theme.New(c.Colors)
}

// BatchOptions returns the output locations of the batch.
func (c Config) BatchOptions() batch.Options {
	return batch.Options{
		Name:              c.Name,
		Caption:           c.Caption,
		Sizes:             c.Sizes,
		IconsRoot:         c.IconsRoot,
		CursorsRoot:       c.CursorsRoot,
		CustomCursorsRoot: c.CustomCursorsRoot,
	}
}
