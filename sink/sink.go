// Package sink writes the generated assets to a filesystem,
// at their conventional paths.
package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/openyolo/assetgen/anim"
	"github.com/openyolo/assetgen/internal/apperr"
)

const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// IconPath returns <root>/hicolor/<size>x<size>/apps/<name>.png.
func IconPath(root string, size int, name string) string {
	return filepath.Join(root, "hicolor", fmt.Sprintf("%dx%d", size, size), "apps", name+".png")
}

// ScalableIconPath returns <root>/hicolor/scalable/apps/<name>.svg.
func ScalableIconPath(root, name string) string {
	return filepath.Join(root, "hicolor", "scalable", "apps", name+".svg")
}

// Sink writes files below the root of its filesystem.
type Sink struct {
	fs afero.Fs
}

// New returns a sink writing to `fs`. Use afero.NewOsFs() for the
// real filesystem and afero.NewMemMapFs() in tests.
func New(fs afero.Fs) *Sink {
	return &Sink{fs: fs}
}

// Fs returns the underlying filesystem.
func (s *Sink) Fs() afero.Fs { return s.fs }

// WriteFile writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func (s *Sink) WriteFile(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return writeError(err, path)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, FilePerm); err != nil {
		return writeError(err, path)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return writeError(err, path)
	}
	return nil
}

func writeError(err error, path string) error {
	return errors.Mark(errors.Wrapf(err, "writing %s", path), apperr.ErrWrite)
}

func encodeError(err error, path string) error {
	return errors.Mark(errors.Wrapf(err, "encoding %s", path), apperr.ErrEncode)
}

// EncodePNG returns the PNG encoding of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes img then writes it to path.
func (s *Sink) WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return encodeError(err, path)
	}
	return s.WriteFile(path, data)
}

// WriteGIF encodes the animation then writes it to path.
func (s *Sink) WriteGIF(path string, seq anim.Sequence) error {
	data, err := seq.Bytes()
	if err != nil {
		return encodeError(err, path)
	}
	return s.WriteFile(path, data)
}

// WriteSVG writes the markup verbatim.
func (s *Sink) WriteSVG(path, markup string) error {
	return s.WriteFile(path, []byte(markup))
}

// Exists reports whether a regular file is present at path.
func (s *Sink) Exists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadPNG decodes the PNG file at path.
func (s *Sink) ReadPNG(path string) (image.Image, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}
