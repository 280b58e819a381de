// Package icon draws the application icon: a raster badge at any size
// and a fixed vector template.
package icon

import (
	"image"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/fonts"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/shape"
	"github.com/openyolo/assetgen/theme"
)

// DefaultGlyph is the character drawn at the center of the badge.
const DefaultGlyph = "Y"

// Size thresholds of the optional layers: a layer is drawn
// when the icon is strictly larger.
const (
	ShadowMinSize      = 32
	GradientMinSize    = 32
	GlyphShadowMinSize = 48
	BorderMinSize      = 48
	ReflectionMinSize  = 64
	SmoothMinSize      = 64
)

// MinSize is the smallest size leaving room for the badge inside its margin.
const MinSize = 6

// ErrInvalidSize is returned for a size under MinSize.
var ErrInvalidSize = errors.Mark(errors.Newf("icon size must be at least %d", MinSize), apperr.ErrInvalidInput)

// Generator draws the badge icon.
// The zero value uses the default theme, DefaultGlyph and the builtin font.
type Generator struct {
	Theme theme.Theme
	Glyph string
	Font  *fonts.Source
}

// metrics holds the geometry shared by the layers
type metrics struct {
	size        int
	margin      int
	center      float64
	outerRadius float64
	innerRadius float64
}

func newMetrics(size int) metrics {
	margin := max(2, size/20)
	outer := size/2 - margin
	return metrics{
		size:        size,
		margin:      margin,
		center:      float64(size / 2),
		outerRadius: float64(outer),
		innerRadius: float64(int(float64(outer) * 0.7)),
	}
}

func (g Generator) theme() theme.Theme {
	if g.Theme.IsZero() {
		return theme.Default()
	}
	return g.Theme
}

func (g Generator) glyph() string {
	if g.Glyph == "" {
		return DefaultGlyph
	}
	return g.Glyph
}

func (g Generator) font() *fonts.Source {
	if g.Font == nil {
		return fonts.Builtin()
	}
	return g.Font
}

// Draw returns the badge at `size` x `size`. Layers are stacked bottom
// to top: drop shadow, outer disc, inner disc, glyph shadow, glyph,
// reflection, highlight border; the result is finally smoothed.
// Small sizes skip the decorative layers.
func (g Generator) Draw(size int) (*image.RGBA, error) {
	m := newMetrics(size)
	if m.outerRadius <= 0 {
		return nil, errors.WithDetailf(ErrInvalidSize, "got %d", size)
	}
	c, err := canvas.New(size, size)
	if err != nil {
		return nil, err
	}
	th := g.theme()

	if size > ShadowMinSize {
		drawShadow(c, th, m)
	}
	drawOuterDisc(c, th, m)
	drawInnerDisc(c, th, m)
	if err := g.drawGlyph(c, th, m); err != nil {
		return nil, err
	}
	if size > ReflectionMinSize {
		drawReflection(c, m)
	}
	if size > BorderMinSize {
		drawBorder(c, th, m)
	}
	if size > SmoothMinSize {
		c.Smooth()
	}
	return c.Image(), nil
}

func drawShadow(c *canvas.Canvas, th theme.Theme, m metrics) {
	layer := c.Layer()
	var disc shape.Path
	disc.Circle(m.center+2, m.center+2, m.outerRadius)
	layer.Fill(disc, canvas.PlainColor{NRGBA: th.WithAlpha(theme.Shadow, 100)})
	layer.Blur(float64(m.size / 32))
	c.DrawLayer(layer)
}

func drawOuterDisc(c *canvas.Canvas, th theme.Theme, m metrics) {
	var disc shape.Path
	if m.size <= GradientMinSize {
		w := float64(max(1, m.size/64))
		disc.Circle(m.center, m.center, m.outerRadius-w/2)
		c.FillStroke(disc,
			canvas.PlainColor{NRGBA: th.Color(theme.Primary)},
			canvas.PlainColor{NRGBA: th.Color(theme.PrimaryDark)}, w)
		return
	}
	disc.Circle(m.center, m.center, m.outerRadius)
	c.Fill(disc, canvas.RadialFade(th.Color(theme.Primary), m.center, m.center, m.outerRadius,
		func(t float64) float64 { return 255 * t * t }))
}

func drawInnerDisc(c *canvas.Canvas, th theme.Theme, m metrics) {
	if m.innerRadius <= 0 {
		return
	}
	var disc shape.Path
	disc.Circle(m.center, m.center, m.innerRadius)
	if m.size <= GradientMinSize {
		c.Fill(disc, canvas.PlainColor{NRGBA: th.Color(theme.PrimaryLight)})
		return
	}
	c.Fill(disc, canvas.RadialFade(th.Color(theme.PrimaryLight), m.center, m.center, m.innerRadius,
		func(t float64) float64 { return 200 * math.Pow(t, 0.7) }))
}

// drawGlyph centers the glyph, lifted by a twentieth of the size.
func (g Generator) drawGlyph(c *canvas.Canvas, th theme.Theme, m metrics) error {
	fontSize := int(float64(m.size) * 0.5)
	if fontSize < 1 {
		return nil
	}
	face, err := g.font().Face(float64(fontSize))
	if err != nil {
		return errors.Wrapf(err, "loading glyph font %s", g.font().Name())
	}
	defer face.Close()

	text := g.glyph()
	cx, cy := m.center, m.center-float64(m.size/20)
	if m.size > GlyphShadowMinSize {
		c.DrawTextCentered(face, text, cx+1, cy+1, th.WithAlpha(theme.Shadow, 150))
	}
	c.DrawTextCentered(face, text, cx, cy, th.Color(theme.TextDark))
	return nil
}

// drawReflection lights the top quarter of the badge,
// fading from alpha 50 to 0.
func drawReflection(c *canvas.Canvas, m metrics) {
	var disc shape.Path
	disc.Circle(m.center, m.center, m.outerRadius)
	white := canvas.NewPlainColor(0xff, 0xff, 0xff, 0xff).NRGBA
	c.Fill(disc, canvas.VerticalFade(white, 0, float64(m.size/4), 50, 0))
}

// drawBorder adds thin highlight rings just outside the outer disc,
// fading outwards.
func drawBorder(c *canvas.Canvas, th theme.Theme, m metrics) {
	steps := m.size / 32
	for i := 1; i <= max(2, m.size/64); i++ {
		alpha := int(100 * (1 - float64(i)/float64(steps)))
		if alpha <= 0 {
			continue
		}
		var ring shape.Path
		ring.Circle(m.center, m.center, m.outerRadius+float64(i)-0.5)
		c.Stroke(ring, canvas.PlainColor{NRGBA: th.WithAlpha(theme.Highlight, uint8(alpha))}, canvas.DefaultStroke(1))
	}
}
