package main

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openyolo/assetgen/batch"
	"github.com/openyolo/assetgen/config"
	"github.com/openyolo/assetgen/fonts"
	"github.com/openyolo/assetgen/icon"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/sink"
	"github.com/openyolo/assetgen/svgicon"
	"github.com/openyolo/assetgen/svgraster"
)

// app holds the state shared by the commands.
type app struct {
	fs         afero.Fs
	v          *viper.Viper
	logger     *log.Logger
	configFile string
	cfg        config.Config
}

// flag name -> configuration key
var overrides = map[string]string{
	"log-level":           "log_level",
	"name":                "name",
	"glyph":               "glyph",
	"caption":             "caption",
	"font":                "font",
	"icons-root":          "icons_root",
	"cursors-root":        "cursors_root",
	"custom-cursors-root": "custom_cursors_root",
}

func newRootCmd(fs afero.Fs, stderr io.Writer) *cobra.Command {
	a := &app{
		fs: fs,
		v:  config.New(fs),
		logger: log.NewWithOptions(stderr, log.Options{
			Prefix: "assetgen",
			Level:  log.InfoLevel,
		}),
	}

	root := &cobra.Command{
		Use:               "assetgen",
		Short:             "Draw the cursor and icon assets",
		Long:              "Draws the application icons at every size, the scalable icon and the cursor themes, and writes them at their conventional paths.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runSets(all),
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "configuration file (default ./assetgen.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("name", "", "icon file name, without extension")
	flags.String("glyph", "", "character drawn on the badge")
	flags.String("caption", "", "caption of the scalable icon")
	flags.String("font", "", `glyph font: a font file, "builtin", or empty to search the system fonts`)
	flags.String("icons-root", "", "root of the icon theme")
	flags.String("cursors-root", "", "directory of the default cursors")
	flags.String("custom-cursors-root", "", "directory of the custom cursors")
	for name, key := range overrides {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "all",
			Short: "Draw every asset set",
			Args:  cobra.NoArgs,
			RunE:  a.runSets(all),
		},
		&cobra.Command{
			Use:   "icons",
			Short: "Draw the badge icons and the scalable icon",
			Args:  cobra.NoArgs,
			RunE:  a.runSets(iconsOnly),
		},
		&cobra.Command{
			Use:   "cursors",
			Short: "Draw the default cursors",
			Args:  cobra.NoArgs,
			RunE:  a.runSets(cursorsOnly),
		},
		&cobra.Command{
			Use:   "custom-cursors",
			Short: "Draw the custom cursor theme",
			Args:  cobra.NoArgs,
			RunE:  a.runSets(customCursorsOnly),
		},
		a.verifyCmd(),
	)
	return root
}

// setup loads the configuration once the flags are parsed.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "log level %q", cfg.LogLevel), apperr.ErrInvalidInput)
	}
	a.logger.SetLevel(level)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config file", "file", used)
	}
	a.cfg = cfg
	return nil
}

// font resolves the configured glyph font.
func (a *app) font() (*fonts.Source, error) {
	switch a.cfg.Font {
	case "":
		return fonts.Lookup(a.fs, fonts.Dirs(), fonts.Families), nil
	case config.BuiltinFont:
		return fonts.Builtin(), nil
	}
	src, err := fonts.Load(a.fs, a.cfg.Font)
	if err != nil {
		return nil, errors.Mark(err, apperr.ErrInvalidInput)
	}
	return src, nil
}

func (a *app) driver() (*batch.Driver, error) {
	th, err := a.cfg.Theme()
	if err != nil {
		return nil, err
	}
	src, err := a.font()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("glyph font", "name", src.Name(), "builtin", src.IsBuiltin())
	if err := batch.CheckCapabilities(src); err != nil {
		return nil, err
	}
	gen := icon.Generator{Theme: th, Glyph: a.cfg.Glyph, Font: src}
	return batch.New(sink.New(a.fs), a.logger, gen, a.cfg.BatchOptions()), nil
}

type setFunc func(ctx context.Context, d *batch.Driver) ([]batch.Report, error)

func all(ctx context.Context, d *batch.Driver) ([]batch.Report, error) { return d.All(ctx) }

func single(set func(*batch.Driver) func(context.Context) (batch.Report, error)) setFunc {
	return func(ctx context.Context, d *batch.Driver) ([]batch.Report, error) {
		rep, err := set(d)(ctx)
		return []batch.Report{rep}, err
	}
}

var (
	iconsOnly         = single(func(d *batch.Driver) func(context.Context) (batch.Report, error) { return d.IconSet })
	cursorsOnly       = single(func(d *batch.Driver) func(context.Context) (batch.Report, error) { return d.DefaultCursors })
	customCursorsOnly = single(func(d *batch.Driver) func(context.Context) (batch.Report, error) { return d.CustomCursors })
)

func (a *app) runSets(run setFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		d, err := a.driver()
		if err != nil {
			return err
		}
		reports, err := run(cmd.Context(), d)
		if err != nil {
			return err
		}
		return batch.Err(reports)
	}
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		preview string
		size    int
	)
	cmd := &cobra.Command{
		Use:   "verify FILE.svg",
		Short: "Check an SVG icon and optionally render a PNG preview",
		Long:  "Parses the icon, failing on unsupported elements, and checks that every gradient and filter id is declared once and every reference resolves.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			parsed, err := svgicon.ReadIcon(a.fs, path, svgicon.StrictErrorMode)
			if err != nil {
				return err
			}
			if err := parsed.Check(); err != nil {
				return errors.Wrapf(err, "checking %s", path)
			}
			a.logger.Info("svg ok", "file", path, "ids", len(parsed.IDs()), "elements", len(parsed.SVGPaths))
			if preview == "" {
				return nil
			}
			f, err := a.fs.Open(path)
			if err != nil {
				return errors.Wrapf(err, "opening %s", path)
			}
			defer f.Close()
			img, err := svgraster.RasterSVGIconToImage(f, size)
			if err != nil {
				return err
			}
			if err := sink.New(a.fs).WritePNG(preview, img); err != nil {
				return err
			}
			a.logger.Info("preview written", "file", preview, "size", size)
			return nil
		},
	}
	cmd.Flags().StringVar(&preview, "preview", "", "write a PNG preview to this file")
	cmd.Flags().IntVar(&size, "size", 256, "edge length of the preview")
	return cmd
}
