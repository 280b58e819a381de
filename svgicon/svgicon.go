// Package svgicon parses SVG icons into an abstract representation,
// which can then be consumed by painting drivers (see svgraster).
//
// Only a sub-set of SVG is supported: basic shapes, paths, gradients,
// groups, definitions, text runs and the filter primitives used for
// shadows and highlights (blur, offset, alpha transfer, merge).
package svgicon

import (
	"encoding/xml"
	"io"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/srwiley/rasterx"
	"golang.org/x/net/html/charset"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/internal/apperr"
	"github.com/openyolo/assetgen/shape"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning for each unsupported element.
	WarnErrorMode
	// StrictErrorMode fails on the first unsupported element.
	StrictErrorMode
)

// SvgPath binds a style to a path.
// Text runs are stored as paths whose outline is given by the glyphs:
// for them Text is not nil and Path is empty.
type SvgPath struct {
	Path  shape.Path
	Style PathStyle
	Text  *TextRun
}

// TextRun is the content of a text element, anchored at (X, Y).
type TextRun struct {
	X, Y    float64
	Content string
}

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// SvgIcon holds data from parsed SVGs.
// See the `Draw` methods to use it.
type SvgIcon struct {
	ViewBox      Bounds
	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here
	SVGPaths     []SvgPath
	Transform    rasterx.Matrix2D

	grads   map[string]*canvas.Gradient
	filters map[string]*Filter
	defs    map[string][]definition

	declared map[string]int // gradient and filter ids, with their number of declarations
	refs     []string       // ids referenced by url(#id)
}

func newIcon() *SvgIcon {
	return &SvgIcon{
		defs:      make(map[string][]definition),
		grads:     make(map[string]*canvas.Gradient),
		filters:   make(map[string]*Filter),
		declared:  make(map[string]int),
		Transform: rasterx.Identity,
	}
}

// Filter returns the filter declared with `id`, or nil.
func (s *SvgIcon) Filter(id string) *Filter { return s.filters[id] }

// IDs returns the gradient and filter identifiers of the icon,
// mapped to the number of elements declaring them.
func (s *SvgIcon) IDs() map[string]int {
	out := make(map[string]int, len(s.declared))
	for id, n := range s.declared {
		out[id] = n
	}
	return out
}

func (s *SvgIcon) declare(id string) {
	s.declared[id]++
}

func malformed(err error) error {
	return errors.Mark(err, apperr.ErrMalformedSVG)
}

// ReadIconStream reads the Icon from the given io.Reader
// This only supports a sub-set of SVG, but
// is enough to draw many icons. errMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
func ReadIconStream(stream io.Reader, errMode ErrorMode) (*SvgIcon, error) {
	icon := newIcon()
	cursor := &iconCursor{styleStack: []PathStyle{DefaultStyle}, icon: icon}
	cursor.errorMode = errMode
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, malformed(errors.New("invalid svg xml icon"))
				}
				break
			}
			return icon, malformed(errors.Wrap(err, "decoding svg"))
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			if err = cursor.pushStyle(se.Attr); err != nil {
				return icon, malformed(errors.Wrapf(err, "element %s", se.Name.Local))
			}
			if err = cursor.readStartElement(se); err != nil {
				return icon, malformed(errors.Wrapf(err, "element %s", se.Name.Local))
			}
		case xml.EndElement:
			cursor.readEndElement(se)
			// pop style
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
		case xml.CharData:
			cursor.readCharData(se)
		}
	}
	return icon, nil
}

// ReadIcon reads the Icon from the named file of `fsys`.
// This only supports a sub-set of SVG, but
// is enough to draw many icons. errMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
func ReadIcon(fsys afero.Fs, iconFile string, errMode ErrorMode) (*SvgIcon, error) {
	fin, err := fsys.Open(iconFile)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", iconFile)
	}
	defer fin.Close()
	return ReadIconStream(fin, errMode)
}

// handleError reports an unsupported element according to the error mode.
func (c *iconCursor) handleError(msg string) error {
	switch c.errorMode {
	case StrictErrorMode:
		return errors.New(msg)
	case WarnErrorMode:
		log.Warn(msg)
	}
	return nil
}
