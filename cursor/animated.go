package cursor

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/anim"
	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/shape"
)

const (
	// ArcFrames and ArcDelay are the defaults of the rotating arc cursor.
	ArcFrames = 8
	ArcDelay  = 100 * time.Millisecond

	// SpinnerFrames and SpinnerDelay are the defaults of the loading spinner.
	SpinnerFrames = 12
	SpinnerDelay  = 80 * time.Millisecond

	// spinnerDots is the number of dots drawn on every spinner frame.
	spinnerDots = 12
)

// Rainbow is the arc color of frame i, taken at i mod 8.
var Rainbow = [8]color.NRGBA{
	rgba(255, 0, 0),
	rgba(255, 127, 0),
	rgba(255, 255, 0),
	rgba(0, 255, 0),
	rgba(0, 0, 255),
	rgba(75, 0, 130),
	rgba(148, 0, 211),
	rgba(255, 0, 127),
}

// SpinnerColor is the color of the spinner dots.
var SpinnerColor = rgba(100, 150, 255)

func checkFrames(frames int) error {
	if frames <= 0 {
		return errors.WithDetailf(ErrInvalidSize, "got %d frames", frames)
	}
	return nil
}

// RotatingArc draws a gray ring with a colored quarter arc turning
// by 360/frames degrees per frame, and a white center dot.
func RotatingArc(size, frames int) (anim.Sequence, error) {
	if err := checkFrames(frames); err != nil {
		return anim.Sequence{}, err
	}
	seq := anim.Sequence{Delay: ArcDelay, LoopCount: anim.LoopForever}
	for i := 0; i < frames; i++ {
		f, err := arcFrame(size, i, frames)
		if err != nil {
			return anim.Sequence{}, err
		}
		seq.Frames = append(seq.Frames, f)
	}
	return seq, nil
}

func arcFrame(size, i, frames int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	center := g.size / 2
	radius := g.size / 3

	var ring shape.Path
	ring.Circle(center, center, radius)
	c.Stroke(ring, gray, canvas.DefaultStroke(g.line(2, 1)))

	start := float64((i * 360 / frames) % 360)
	var arc shape.Path
	arc.Arc(center, center, radius, start, start+90)
	c.Stroke(arc, canvas.PlainColor{NRGBA: Rainbow[i%len(Rainbow)]}, barStroke(g.line(4, 1)))

	w := g.line(1, 1)
	var dot shape.Path
	dot.Circle(center, center, g.at(3)-w/2)
	c.FillStroke(dot, white, black, w)
	return c.Image(), nil
}

// Spinner draws 12 dots on a circle, fading from opaque to transparent,
// the pattern turning by 30 degrees per frame.
func Spinner(size, frames int) (anim.Sequence, error) {
	if err := checkFrames(frames); err != nil {
		return anim.Sequence{}, err
	}
	seq := anim.Sequence{Delay: SpinnerDelay, LoopCount: anim.LoopForever}
	for i := 0; i < frames; i++ {
		f, err := spinnerFrame(size, i)
		if err != nil {
			return anim.Sequence{}, err
		}
		seq.Frames = append(seq.Frames, f)
	}
	return seq, nil
}

func spinnerFrame(size, i int) (*image.RGBA, error) {
	c, err := newCanvas(size)
	if err != nil {
		return nil, err
	}
	g := newGrid(size)
	center := g.size / 2
	radius := g.size / 3

	for j := 0; j < spinnerDots; j++ {
		angle := float64((i+j)*30) * math.Pi / 180
		x := center + radius*math.Cos(angle)
		y := center + radius*math.Sin(angle)
		r := g.at(2)
		if j < 3 {
			r = g.at(3)
		}
		col := SpinnerColor
		col.A = uint8(255 * (1 - float64(j)/spinnerDots))

		var dot shape.Path
		dot.Circle(x, y, r)
		c.Fill(dot, canvas.PlainColor{NRGBA: col})
	}
	return c.Image(), nil
}
