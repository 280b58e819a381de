// Package anim turns frame sequences into animated GIF files.
package anim

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"io"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/internal/apperr"
)

// LoopForever is the loop count of an animation that never stops.
const LoopForever = 0

// Matte is the background partially transparent pixels are flattened
// against, since a GIF pixel is either opaque or transparent.
var Matte = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// maxColors is the number of opaque palette entries; entry 0 is transparent.
const maxColors = 255

// Sequence is an ordered list of frames of the same size,
// played with a fixed delay between frames.
type Sequence struct {
	Frames    []*image.RGBA
	Delay     time.Duration
	LoopCount int // LoopForever, or the number of repetitions
}

// Validate checks the sequence can be encoded.
func (s Sequence) Validate() error {
	if len(s.Frames) == 0 {
		return errors.Mark(errors.New("empty frame sequence"), apperr.ErrInvalidInput)
	}
	if s.Delay < 0 || s.LoopCount < 0 {
		return errors.Mark(errors.Newf("invalid timing: delay %s, loop count %d", s.Delay, s.LoopCount), apperr.ErrInvalidInput)
	}
	var bounds image.Rectangle
	for i, f := range s.Frames {
		if f == nil {
			return errors.Mark(errors.Newf("frame %d is nil", i), apperr.ErrInvalidInput)
		}
		if i == 0 {
			bounds = f.Bounds()
		}
		if f.Bounds() != bounds {
			return errors.Mark(errors.Newf("frame %d has bounds %v, expected %v", i, f.Bounds(), bounds), apperr.ErrInvalidInput)
		}
	}
	return nil
}

// delayCentis converts the delay to the 1/100 s unit of GIF.
func (s Sequence) delayCentis() int {
	return int((s.Delay + 5*time.Millisecond) / (10 * time.Millisecond))
}

// ToGIF converts the sequence, quantizing each frame to its own palette.
func (s Sequence) ToGIF() (*gif.GIF, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, len(s.Frames)),
		Delay:     make([]int, len(s.Frames)),
		Disposal:  make([]byte, len(s.Frames)),
		LoopCount: s.LoopCount,
	}
	for i, f := range s.Frames {
		out.Image[i] = Quantize(f)
		out.Delay[i] = s.delayCentis()
		out.Disposal[i] = gif.DisposalBackground // frames are not cumulative
	}
	return out, nil
}

// Encode writes the sequence as an animated GIF.
func Encode(w io.Writer, s Sequence) error {
	g, err := s.ToGIF()
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(w, g); err != nil {
		return errors.Mark(errors.Wrap(err, "encoding gif"), apperr.ErrEncode)
	}
	return nil
}

// Bytes returns the encoded GIF.
func (s Sequence) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type colorCount struct {
	c color.RGBA
	n int
}

// flatten composites the premultiplied pixel at i over Matte.
func flatten(img *image.RGBA, i int) color.RGBA {
	rest := 0xff - uint32(img.Pix[i+3])
	over := func(v, m uint8) uint8 { return uint8(uint32(v) + (uint32(m)*rest+0x7f)/0xff) }
	return color.RGBA{
		R: over(img.Pix[i], Matte.R),
		G: over(img.Pix[i+1], Matte.G),
		B: over(img.Pix[i+2], Matte.B),
		A: 0xff,
	}
}

// Quantize converts a frame to a paletted image.
// Index 0 is transparent and holds the pixels with alpha 0. Every other
// pixel is flattened over Matte, so a fading pixel turns toward the matte
// color. The opaque entries are the most frequent flattened colors, ties
// broken by value, so the result only depends on the frame content.
func Quantize(img *image.RGBA) *image.Paletted {
	b := img.Bounds()
	counts := map[color.RGBA]int{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] == 0 {
				continue
			}
			counts[flatten(img, i)]++
		}
	}
	sorted := make([]colorCount, 0, len(counts))
	for c, n := range counts {
		sorted = append(sorted, colorCount{c, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return colorKey(sorted[i].c) < colorKey(sorted[j].c)
	})
	if len(sorted) > maxColors {
		sorted = sorted[:maxColors]
	}

	pal := make(color.Palette, 1, len(sorted)+1)
	pal[0] = color.RGBA{}
	exact := make(map[color.RGBA]uint8, len(sorted))
	for i, cc := range sorted {
		pal = append(pal, cc.c)
		exact[cc.c] = uint8(i + 1)
	}

	out := image.NewPaletted(b, pal)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] == 0 {
				continue // index 0
			}
			c := flatten(img, i)
			idx, ok := exact[c]
			if !ok {
				idx = nearest(pal, c)
				exact[c] = idx
			}
			out.SetColorIndex(x, y, idx)
		}
	}
	return out
}

func colorKey(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// nearest returns the opaque palette entry closest to c,
// skipping the transparent entry 0.
func nearest(pal color.Palette, c color.RGBA) uint8 {
	best, bestDist := 1, -1
	for i := 1; i < len(pal); i++ {
		p := pal[i].(color.RGBA)
		dr, dg, db := int(p.R)-int(c.R), int(p.G)-int(c.G), int(p.B)-int(c.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}
