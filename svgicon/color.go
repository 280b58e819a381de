package svgicon

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/colornames"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/theme"
)

// parseColor supports named colors, #RGB, #RRGGBB and #RRGGBBAA,
// rgb(...) and rgba(...). "none" returns ok == false.
func parseColor(v string) (c color.NRGBA, ok bool, err error) {
	v = strings.TrimSpace(v)
	lv := strings.ToLower(v)
	switch {
	case lv == "none" || lv == "":
		return c, false, nil
	case lv == "transparent":
		return color.NRGBA{}, true, nil
	case lv == "currentcolor": // no color property is tracked
		return color.NRGBA{A: 0xff}, true, nil
	case strings.HasPrefix(lv, "#"):
		c, err = theme.ParseHex(v)
		return c, err == nil, err
	case strings.HasPrefix(lv, "rgb"):
		c, err = parseRGBFunc(lv)
		return c, err == nil, err
	}
	if named, found := colornames.Map[lv]; found {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, true, nil
	}
	return c, false, errors.Newf("unsupported color %q", v)
}

// parseRGBFunc parses rgb(r, g, b) and rgba(r, g, b, a);
// channels are numbers in [0, 255] or percentages, alpha is in [0, 1].
func parseRGBFunc(v string) (color.NRGBA, error) {
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return color.NRGBA{}, errors.Newf("invalid color function %q", v)
	}
	args := splitOnCommaOrSpace(v[open+1 : end])
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, errors.Newf("invalid color function %q", v)
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i, arg := range args {
		arg = strings.TrimSpace(arg)
		percent := strings.HasSuffix(arg, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return color.NRGBA{}, errors.Wrapf(err, "invalid color function %q", v)
		}
		switch {
		case percent:
			f = f / 100 * 255
		case i == 3:
			f *= 255
		}
		ch[i] = uint8(min(255, max(0, f)) + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// parseSVGColor returns the paint of a fill or stroke attribute,
// nil for "none".
func parseSVGColor(v string) (canvas.Pattern, error) {
	c, ok, err := parseColor(v)
	if err != nil || !ok {
		return nil, err
	}
	return canvas.PlainColor{NRGBA: c}, nil
}

func parseStopColor(v string) (color.NRGBA, error) {
	c, _, err := parseColor(v)
	return c, err
}
