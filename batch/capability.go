package batch

import (
	"image"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/anim"
	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/fonts"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/shape"
	"github.com/openyolo/assetgen/sink"
)

func missing(err error, probe string) error {
	err = errors.Wrapf(err, "%s probe", probe)
	err = errors.WithHint(err, "the generator cannot run on this host")
	return errors.Mark(err, apperr.ErrCapability)
}

// CheckCapabilities draws, encodes and loads a font face once.
// It is run at startup: a failure is fatal.
func CheckCapabilities(src *fonts.Source) error {
	c, err := canvas.New(4, 4)
	if err != nil {
		return missing(err, "drawing")
	}
	var disc shape.Path
	disc.Circle(2, 2, 2)
	c.Fill(disc, canvas.NewPlainColor(0, 0, 0, 0xff))
	if c.At(2, 2).A == 0 {
		return missing(errors.New("nothing painted"), "drawing")
	}

	if _, err := sink.EncodePNG(c.Image()); err != nil {
		return missing(err, "png encoding")
	}
	seq := anim.Sequence{Frames: []*image.RGBA{c.Image()}, Delay: 100 * time.Millisecond}
	if _, err := seq.Bytes(); err != nil {
		return missing(err, "gif encoding")
	}

	if src == nil {
		src = fonts.Builtin()
	}
	face, err := src.Face(12)
	if err != nil {
		return missing(err, "font")
	}
	return face.Close()
}
