// Package theme holds the color roles shared by the icon and cursor generators.
package theme

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/openyolo/assetgen/internal/apperr"
)

// Role names a semantic color of the theme.
type Role string

const (
	Primary      Role = "primary"
	PrimaryLight Role = "primary_light"
	PrimaryDark  Role = "primary_dark"
	Accent       Role = "accent"
	TextLight    Role = "text_light"
	TextDark     Role = "text_dark"
	Shadow       Role = "shadow"
	Highlight    Role = "highlight"
)

// Roles lists every role, in a stable order.
var Roles = []Role{Primary, PrimaryLight, PrimaryDark, Accent, TextLight, TextDark, Shadow, Highlight}

// Defaults maps each role to its default hex value.
var Defaults = map[Role]string{
	Primary:      "#4CAF50",
	PrimaryLight: "#81C784",
	PrimaryDark:  "#388E3C",
	Accent:       "#8BC34A",
	TextLight:    "#FFFFFF",
	TextDark:     "#1B5E20",
	Shadow:       "#00000040",
	Highlight:    "#FFFFFF40",
}

// Theme maps roles to non premultiplied colors.
// A Theme is not modified once built.
type Theme struct {
	colors map[Role]color.NRGBA
}

// Default returns the built-in theme.
func Default() Theme {
	th, err := New(nil)
	if err != nil { // the defaults are valid
		panic(err)
	}
	return th
}

// New builds a theme from hex overrides; roles absent
// from `overrides` keep their default.
// Unknown roles are rejected.
func New(overrides map[string]string) (Theme, error) {
	th := Theme{colors: make(map[Role]color.NRGBA, len(Roles))}
	for _, r := range Roles {
		c, err := ParseHex(Defaults[r])
		if err != nil {
			return Theme{}, err
		}
		th.colors[r] = c
	}
	for name, value := range overrides {
		r := Role(strings.ToLower(name))
		if _, ok := Defaults[r]; !ok {
			return Theme{}, errors.Mark(errors.Newf("unknown theme role %q", name), apperr.ErrInvalidInput)
		}
		c, err := ParseHex(value)
		if err != nil {
			return Theme{}, errors.Wrapf(err, "theme role %s", name)
		}
		th.colors[r] = c
	}
	return th, nil
}

// IsZero reports whether the theme is the zero value, holding no color.
func (th Theme) IsZero() bool { return th.colors == nil }

// Color returns the color of the role, or opaque black
// for an unknown role.
func (th Theme) Color(r Role) color.NRGBA {
	if c, ok := th.colors[r]; ok {
		return c
	}
	return color.NRGBA{A: 0xff}
}

// Hex returns the role color as #RRGGBB, dropping the alpha.
func (th Theme) Hex(r Role) string {
	c := th.Color(r)
	return strings.ToUpper(colorful.Color{
		R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255,
	}.Hex())
}

// WithAlpha returns the role color with its alpha replaced by `a`.
func (th Theme) WithAlpha(r Role, a uint8) color.NRGBA {
	c := th.Color(r)
	c.A = a
	return c
}

// ParseHex parses #RGB, #RRGGBB and #RRGGBBAA colors.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	var alpha uint8 = 0xff
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, errors.Mark(errors.Wrapf(err, "invalid alpha in color %q", s), apperr.ErrInvalidInput)
		}
		alpha, s = uint8(a), s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, errors.Mark(errors.Wrapf(err, "invalid color %q", s), apperr.ErrInvalidInput)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
