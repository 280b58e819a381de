package svgicon

import (
	"encoding/xml"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/srwiley/rasterx"

	"github.com/openyolo/assetgen/canvas"
)

// PathStyle holds the state of the SVG style
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join       canvas.JoinMode
	MiterLimit float64
	LeadCap    canvas.CapMode // used if different than TrailCap
	TrailCap   canvas.CapMode
	Gap        canvas.GapMode
	Dash       []float64
	DashOffset float64

	FillerColor, LinerColor canvas.Pattern // either PlainColor or Gradient, nil for none

	FontFamily string
	FontSize   float64
	FontWeight string
	TextAnchor canvas.TextAnchor

	transform rasterx.Matrix2D // current transform
	scopes    []filterScope    // enclosing filtered elements, outermost first
}

// filterScope identifies one element carrying a filter attribute.
type filterScope struct {
	id     int
	filter string
}

// DefaultStyle sets the default PathStyle to fill black, winding rule,
// full opacity, no stroke, ButtCap line end and Bevel line connect.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	Join:              canvas.Bevel,
	MiterLimit:        4,
	TrailCap:          canvas.ButtCap,
	FillerColor:       canvas.NewPlainColor(0x00, 0x00, 0x00, 0xff),
	FontSize:          16,
	transform:         rasterx.Identity,
}

// Transform returns the transform of the element, relative to the icon.
func (s PathStyle) Transform() rasterx.Matrix2D { return s.transform }

// Filters returns the ids of the filters applied to the element,
// outermost first.
func (s PathStyle) Filters() []string {
	out := make([]string, len(s.scopes))
	for i, sc := range s.scopes {
		out[i] = sc.filter
	}
	return out
}

type (
	// iconCursor is used while parsing SVG files
	iconCursor struct {
		pathCursor
		icon       *SvgIcon
		styleStack []PathStyle
		grad       *canvas.Gradient
		gradID     string

		filter   *Filter
		transfer *ComponentTransfer
		merge    *Merge

		text      *TextRun
		textStyle PathStyle

		inTitleText, inDescText, inGrad, inDefs, inFilter bool
		currentDef                                         []definition
		nextScope                                          int
	}

	// definition is used to store what's given in a def tag
	definition struct {
		ID, Tag string
		Attrs   []xml.Attr
	}
)

var errParamMismatch = errors.New("param mismatch")

func (c *iconCursor) readTransformAttr(m1 rasterx.Matrix2D, k string) (rasterx.Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(rasterx.Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errors.Newf("unknown transform %q", k)
	}
	return m1, nil
}

// parseTransform composes the transform list `v` onto `m1`.
func (c *iconCursor) parseTransform(m1 rasterx.Matrix2D, v string) (rasterx.Matrix2D, error) {
	ts := strings.Split(v, ")")
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

func readCap(v string) canvas.CapMode {
	switch v {
	case "butt":
		return canvas.ButtCap
	case "round":
		return canvas.RoundCap
	case "square":
		return canvas.SquareCap
	case "cubic":
		return canvas.CubicCap
	case "quadratic":
		return canvas.QuadraticCap
	}
	return canvas.NilCap
}

func (c *iconCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	switch k {
	case "fill":
		gradient, ok := c.readGradURL(v, curStyle.FillerColor)
		if ok {
			curStyle.FillerColor = gradient
			break
		}
		pattern, err := parseSVGColor(v)
		if err != nil {
			return err
		}
		curStyle.FillerColor = pattern
	case "stroke":
		gradient, ok := c.readGradURL(v, curStyle.LinerColor)
		if ok {
			curStyle.LinerColor = gradient
			break
		}
		pattern, err := parseSVGColor(v)
		if err != nil {
			return err
		}
		curStyle.LinerColor = pattern
	case "fill-rule":
		curStyle.UseNonZeroWinding = v != "evenodd"
	case "stroke-linegap":
		switch v {
		case "flat":
			curStyle.Gap = canvas.FlatGap
		case "round":
			curStyle.Gap = canvas.RoundGap
		case "cubic":
			curStyle.Gap = canvas.CubicGap
		case "quadratic":
			curStyle.Gap = canvas.QuadraticGap
		}
	case "stroke-leadlinecap":
		curStyle.LeadCap = readCap(v)
	case "stroke-linecap":
		curStyle.TrailCap = readCap(v)
	case "stroke-linejoin":
		switch v {
		case "miter":
			curStyle.Join = canvas.Miter
		case "miter-clip":
			curStyle.Join = canvas.MiterClip
		case "arc-clip":
			curStyle.Join = canvas.ArcClip
		case "round":
			curStyle.Join = canvas.Round
		case "arc":
			curStyle.Join = canvas.Arc
		case "bevel":
			curStyle.Join = canvas.Bevel
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.MiterLimit = mLimit
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.DashOffset = dashOffset
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := parseBasicFloat(strings.TrimSpace(dstr))
			if err != nil {
				return err
			}
			dList[i] = d
		}
		curStyle.Dash = dList
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.FillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.LineOpacity *= op
		}
	case "transform":
		m, err := c.parseTransform(curStyle.transform, v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	case "filter":
		id, ok := urlID(v)
		if !ok { // CSS filter functions are not rendered
			break
		}
		c.icon.refs = append(c.icon.refs, id)
		scopes := make([]filterScope, len(curStyle.scopes), len(curStyle.scopes)+1)
		copy(scopes, curStyle.scopes)
		curStyle.scopes = append(scopes, filterScope{id: c.nextScope, filter: id})
		c.nextScope++
	case "font-family":
		curStyle.FontFamily = v
	case "font-size":
		size, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.FontSize = size
	case "font-weight":
		curStyle.FontWeight = v
	case "text-anchor":
		switch v {
		case "middle":
			curStyle.TextAnchor = canvas.AnchorMiddle
		case "end":
			curStyle.TextAnchor = canvas.AnchorEnd
		default:
			curStyle.TextAnchor = canvas.AnchorStart
		}
	}
	return nil
}

// pushStyle parses the style element, and push it on the style stack.
// Note that this parses both the contents of a style attribute plus
// direct presentation attributes.
func (c *iconCursor) pushStyle(attrs []xml.Attr) error {
	var pairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(strings.ToLower(k))
		v = strings.TrimSpace(v)
		if err := c.readStyleAttr(&curStyle, k, v); err != nil {
			return errors.Wrapf(err, "attribute %s", k)
		}
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' '
		})
}
