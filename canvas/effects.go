package canvas

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// SmoothKernel is the 3x3 softening kernel, normalized by its sum (13).
var SmoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Blur applies a Gaussian blur of standard deviation `sigma`
// to the whole canvas. A non positive sigma is a no-op.
func (c *Canvas) Blur(sigma float64) {
	if sigma <= 0 {
		return
	}
	c.Replace(imaging.Blur(c.img, sigma))
}

// Smooth convolves the canvas with SmoothKernel.
// Every channel is convolved, alpha included, on premultiplied values,
// so that transparent neighbours do not darken the edges.
func (c *Canvas) Smooth() {
	c.Convolve3x3(SmoothKernel)
}

// Convolve3x3 convolves every channel of the canvas with the
// normalized `kernel`, whose weights must be non negative.
func (c *Canvas) Convolve3x3(kernel [9]float64) {
	b := c.img.Bounds()
	// premultiplied color channels, seen as straight colors
	colors := &image.NRGBA{Pix: make([]uint8, len(c.img.Pix)), Stride: c.img.Stride, Rect: b}
	// alpha channel, seen as a gray level
	alphas := image.NewNRGBA(b)
	for i := 0; i < len(c.img.Pix); i += 4 {
		copy(colors.Pix[i:i+3], c.img.Pix[i:i+3])
		colors.Pix[i+3] = 0xff
		a := c.img.Pix[i+3]
		alphas.Pix[i], alphas.Pix[i+1], alphas.Pix[i+2], alphas.Pix[i+3] = a, a, a, 0xff
	}
	opts := &imaging.ConvolveOptions{Normalize: true}
	colors = imaging.Convolve3x3(colors, kernel, opts)
	alphas = imaging.Convolve3x3(alphas, kernel, opts)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			src := y*colors.Stride + x*4
			dst := y*c.img.Stride + x*4
			a := alphas.Pix[y*alphas.Stride+x*4]
			for k := 0; k < 3; k++ {
				v := colors.Pix[src+k]
				if v > a { // keep the pixel a valid premultiplied color
					v = a
				}
				c.img.Pix[dst+k] = v
			}
			c.img.Pix[dst+3] = a
		}
	}
}

// ScaleAlpha multiplies every pixel by `f`, in [0, 1].
func (c *Canvas) ScaleAlpha(f float64) {
	f = clampUnit(f)
	for i, v := range c.img.Pix {
		c.img.Pix[i] = uint8(float64(v)*f + 0.5)
	}
}

// MapAlpha replaces the alpha of every pixel with `fn(alpha)`,
// keeping its straight color.
func (c *Canvas) MapAlpha(fn func(a float64) float64) {
	for i := 0; i < len(c.img.Pix); i += 4 {
		a := float64(c.img.Pix[i+3]) / 255
		na := clampUnit(fn(a))
		if a == 0 {
			continue // no color to keep
		}
		f := na / a
		for k := 0; k < 4; k++ {
			c.img.Pix[i+k] = uint8(clampUnit(float64(c.img.Pix[i+k])*f/255)*255 + 0.5)
		}
	}
}

// Colorize keeps the alpha of the canvas and replaces its color by `pattern`
// (used to build shadows).
func (c *Canvas) Colorize(pattern PlainColor) {
	col := pattern.NRGBA
	for i := 0; i < len(c.img.Pix); i += 4 {
		a := float64(c.img.Pix[i+3]) * float64(col.A) / 255
		c.img.Pix[i+0] = uint8(float64(col.R)*a/255 + 0.5)
		c.img.Pix[i+1] = uint8(float64(col.G)*a/255 + 0.5)
		c.img.Pix[i+2] = uint8(float64(col.B)*a/255 + 0.5)
		c.img.Pix[i+3] = uint8(a + 0.5)
	}
}

// MaskWith multiplies every pixel by the alpha of `mask`
// at the same position; pixels outside the mask become transparent.
func (c *Canvas) MaskWith(mask image.Image) {
	alpha := image.NewAlpha(c.img.Bounds())
	draw.Draw(alpha, alpha.Bounds(), mask, c.img.Bounds().Min, draw.Src)
	for i := 0; i < len(c.img.Pix); i += 4 {
		m := float64(alpha.Pix[i/4]) / 255
		for k := 0; k < 4; k++ {
			c.img.Pix[i+k] = uint8(float64(c.img.Pix[i+k])*m + 0.5)
		}
	}
}

// Resize returns `src` resampled to width x height with a Lanczos filter.
func Resize(src image.Image, width, height int) *image.RGBA {
	resized := imaging.Resize(src, width, height, imaging.Lanczos)
	out := image.NewRGBA(resized.Bounds())
	draw.Draw(out, out.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return out
}
