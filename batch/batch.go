// Package batch drives the generators: it produces every asset of a set,
// writes it through the sink and records one Result per asset.
//
// A failed asset does not stop the batch. Drawing panics are recovered
// and reported as drawing failures. Sets are produced sequentially; the
// context is checked between assets.
package batch

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/anim"
	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/cursor"
	"github.com/openyolo/assetgen/icon"
	"github.com/openyolo/assetgen/sink"
	"github.com/openyolo/assetgen/svgicon"
)

// DefaultSizes is the icon size set.
var DefaultSizes = []int{16, 22, 24, 32, 48, 64, 96, 128, 192, 256, 384, 512, 1024}

const (
	// ResampledSize is produced from ResampleSource when missing.
	ResampledSize  = 256
	ResampleSource = 512

	CursorSize   = 32
	CursorHDSize = 64
)

// Options locates the outputs.
type Options struct {
	Name              string // icon file name, without extension
	Caption           string // caption of the vector icon, empty for none
	Sizes             []int  // nil means DefaultSizes
	IconsRoot         string
	CursorsRoot       string
	CustomCursorsRoot string
}

// Driver produces the asset sets.
type Driver struct {
	sink  *sink.Sink
	log   *log.Logger
	icons icon.Generator
	opts  Options
}

// New returns a driver writing through `s`. A nil logger uses
// the default charm logger.
func New(s *sink.Sink, logger *log.Logger, icons icon.Generator, opts Options) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Sizes == nil {
		opts.Sizes = DefaultSizes
	}
	return &Driver{sink: s, log: logger, icons: icons, opts: opts}
}

// asset is one output file and the function producing it.
type asset struct {
	path    string
	produce func(path string) error
}

// safely runs fn, turning a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Newf("panic: %v", p)
		}
	}()
	return fn()
}

// run produces one asset. The returned error is only set
// when the context is done, in which case nothing is produced.
func (d *Driver) run(ctx context.Context, a asset) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(err, "batch interrupted")
	}
	res := Result{Path: a.path}
	if err := safely(func() error { return a.produce(a.path) }); err != nil {
		res.Err = err
		res.Reason = Classify(err)
		d.log.Error("asset failed", "path", a.path, "reason", res.Reason, "err", err)
	} else {
		d.log.Info("asset written", "path", a.path)
	}
	return res, nil
}

func (d *Driver) runAll(ctx context.Context, rep *Report, assets []asset) error {
	for _, a := range assets {
		res, err := d.run(ctx, a)
		if err != nil {
			return err
		}
		rep.Results = append(rep.Results, res)
	}
	return nil
}

func (d *Driver) summarize(rep Report) {
	d.log.Info("batch done", "set", rep.Name, "ok", rep.String())
}

func pngAsset(path string, size int, draw func(int) (*image.RGBA, error), s *sink.Sink) asset {
	return asset{path: path, produce: func(path string) error {
		img, err := draw(size)
		if err != nil {
			return errors.Wrapf(err, "drawing %s", filepath.Base(path))
		}
		return s.WritePNG(path, img)
	}}
}

func gifAsset(path string, size, frames int, draw func(int, int) (anim.Sequence, error), s *sink.Sink) asset {
	return asset{path: path, produce: func(path string) error {
		seq, err := draw(size, frames)
		if err != nil {
			return errors.Wrapf(err, "drawing %s", filepath.Base(path))
		}
		return s.WriteGIF(path, seq)
	}}
}

// IconSet writes the badge at every configured size, then the
// scalable icon. The report counts the sized icons only.
func (d *Driver) IconSet(ctx context.Context) (Report, error) {
	rep := Report{Name: "icons"}
	root, name := d.opts.IconsRoot, d.opts.Name

	assets := make([]asset, len(d.opts.Sizes))
	for i, size := range d.opts.Sizes {
		assets[i] = pngAsset(sink.IconPath(root, size, name), size, d.icons.Draw, d.sink)
	}
	if err := d.runAll(ctx, &rep, assets); err != nil {
		return rep, err
	}

	resampled, source := sink.IconPath(root, ResampledSize, name), sink.IconPath(root, ResampleSource, name)
	if !d.sink.Exists(resampled) && d.sink.Exists(source) {
		res, err := d.run(ctx, asset{path: resampled, produce: func(path string) error {
			src, err := d.sink.ReadPNG(source)
			if err != nil {
				return err
			}
			return d.sink.WritePNG(path, canvas.Resize(src, ResampledSize, ResampledSize))
		}})
		if err != nil {
			return rep, err
		}
		rep.Extras = append(rep.Extras, res)
	}

	res, err := d.run(ctx, asset{path: sink.ScalableIconPath(root, name), produce: d.writeVector})
	if err != nil {
		return rep, err
	}
	rep.Extras = append(rep.Extras, res)

	d.summarize(rep)
	return rep, nil
}

// writeVector renders the vector icon and checks it before writing.
func (d *Driver) writeVector(path string) error {
	markup, err := icon.Vector(d.icons.Theme, d.opts.Caption)
	if err != nil {
		return err
	}
	if _, err := svgicon.Check(strings.NewReader(markup)); err != nil {
		return errors.Wrap(err, "checking vector icon")
	}
	return d.sink.WriteSVG(path, markup)
}

// DefaultCursors writes the standard and HD cursors of the application.
func (d *Driver) DefaultCursors(ctx context.Context) (Report, error) {
	rep := Report{Name: "cursors"}
	root := d.opts.CursorsRoot
	at := func(file string) string { return filepath.Join(root, file) }
	assets := []asset{
		pngAsset(at("default.png"), CursorSize, cursor.Arrow, d.sink),
		pngAsset(at("pointer.png"), CursorSize, cursor.Hand, d.sink),
		gifAsset(at("animated-cursor.gif"), CursorSize, cursor.ArcFrames, cursor.RotatingArc, d.sink),
		gifAsset(at("loading.gif"), CursorSize, cursor.SpinnerFrames, cursor.Spinner, d.sink),
		pngAsset(at("default-hd.png"), CursorHDSize, cursor.Arrow, d.sink),
		pngAsset(at("pointer-hd.png"), CursorHDSize, cursor.Hand, d.sink),
		gifAsset(at("animated-cursor-hd.gif"), CursorHDSize, cursor.ArcFrames, cursor.RotatingArc, d.sink),
	}
	if err := d.runAll(ctx, &rep, assets); err != nil {
		return rep, err
	}
	d.summarize(rep)
	return rep, nil
}

// CustomCursors writes the alternative cursor theme.
func (d *Driver) CustomCursors(ctx context.Context) (Report, error) {
	rep := Report{Name: "custom-cursors"}
	root := d.opts.CustomCursorsRoot
	at := func(file string) string { return filepath.Join(root, file) }
	assets := []asset{
		pngAsset(at("pointer.png"), CursorSize, cursor.Triangle, d.sink),
		pngAsset(at("hand.png"), CursorSize, cursor.Ring, d.sink),
		pngAsset(at("crosshair.png"), CursorSize, cursor.Crosshair, d.sink),
		pngAsset(at("text.png"), CursorSize, cursor.IBeam, d.sink),
	}
	if err := d.runAll(ctx, &rep, assets); err != nil {
		return rep, err
	}
	d.summarize(rep)
	return rep, nil
}

// All produces the three sets in order, stopping early only
// when the context is done.
func (d *Driver) All(ctx context.Context) ([]Report, error) {
	var reports []Report
	for _, set := range []func(context.Context) (Report, error){d.IconSet, d.DefaultCursors, d.CustomCursors} {
		rep, err := set(ctx)
		reports = append(reports, rep)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// Err combines the errors of the reports.
func Err(reports []Report) error {
	var errs []error
	for _, rep := range reports {
		if err := rep.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
