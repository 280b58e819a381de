package svgicon

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/math/fixed"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/shape"
)

var errZeroLengthID = errors.New("zero length id")

// maxDx is the maximum radians a cubic splice is allowed to span
// when approximating an elliptical arc.
const maxDx float64 = math.Pi / 8

// pathCursor compiles the path data of a `d` attribute.
type pathCursor struct {
	path      shape.Path
	errorMode ErrorMode

	points                 []float64
	placeX, placeY         float64 // current point
	curX, curY             float64 // offset of the current use element
	cntlPtX, cntlPtY       float64 // last control point, for the smooth curves
	pathStartX, pathStartY float64
	lastKey                byte
	inPath                 bool
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// scanNumber returns the end of the number starting at s[i],
// or i if there is none.
func scanNumber(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := false
	for j < len(s) && isDigit(s[j]) {
		j++
		digits = true
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			digits = true
		}
	}
	if !digits {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// getPoints reads the numbers of `dataPoints` into c.points.
// Numbers are separated by commas, spaces, or a sign or dot starting
// the next number, as in "10-5.5.5".
func (c *pathCursor) getPoints(dataPoints string) error {
	c.points = c.points[:0]
	for i := 0; i < len(dataPoints); {
		switch dataPoints[i] {
		case ' ', ',', '\t', '\n', '\r':
			i++
			continue
		}
		j := scanNumber(dataPoints, i)
		if j == i {
			return errors.Newf("invalid number at %q", dataPoints[i:])
		}
		f, err := strconv.ParseFloat(dataPoints[i:j], 64)
		if err != nil {
			return errors.Wrapf(err, "invalid number %q", dataPoints[i:j])
		}
		c.points = append(c.points, f)
		i = j
	}
	return nil
}

// compilePath translates the svg path data into the cursor path.
func (c *pathCursor) compilePath(svgPath string) error {
	c.lastKey = 0
	c.inPath = false
	start := -1
	var key byte
	for i := 0; i <= len(svgPath); i++ {
		if i < len(svgPath) && !isCommand(svgPath[i]) {
			continue
		}
		if start >= 0 {
			if err := c.getPoints(svgPath[start:i]); err != nil {
				return err
			}
			if err := c.addSeg(key); err != nil {
				return err
			}
		} else if strings.TrimSpace(svgPath[:i]) != "" {
			return errors.Newf("path data must start with a command: %q", svgPath)
		}
		if i < len(svgPath) {
			key = svgPath[i]
			start = i + 1
		}
	}
	if c.inPath {
		c.path.Stop(false)
	}
	return nil
}

func isCommand(b byte) bool {
	switch b | 0x20 { // lower case
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

// commandArity is the number of values taken by one repetition of a command.
func commandArity(lower byte) int {
	switch lower {
	case 'h', 'v':
		return 1
	case 'm', 'l', 't':
		return 2
	case 's', 'q':
		return 4
	case 'c':
		return 6
	case 'a':
		return 7
	}
	return 0
}

func toFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// reflect returns the control point to use for a smooth curve
// following a command of the given family.
func (c *pathCursor) reflect(family string) (x, y float64) {
	if strings.IndexByte(family, c.lastKey|0x20) >= 0 {
		return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
	}
	return c.placeX, c.placeY
}

func (c *pathCursor) moveTo(x, y float64) {
	if c.inPath {
		c.path.Stop(false)
	}
	c.path.Start(toFixed(x, y))
	c.placeX, c.placeY = x, y
	c.pathStartX, c.pathStartY = x, y
	c.inPath = true
}

func (c *pathCursor) lineTo(x, y float64) {
	c.path.Line(toFixed(x, y))
	c.placeX, c.placeY = x, y
}

func (c *pathCursor) addSeg(key byte) error {
	rel := key >= 'a'
	var offX, offY float64
	if rel {
		offX, offY = c.placeX, c.placeY
	}
	pts := c.points
	arity := commandArity(key | 0x20)
	if arity == 0 {
		if len(pts) != 0 {
			return errParamMismatch
		}
	} else if len(pts) == 0 || len(pts)%arity != 0 {
		return errors.Wrapf(errParamMismatch, "command %c with %d values", key, len(pts))
	}

	lower := key | 0x20
	if lower != 'm' && lower != 'z' && !c.inPath { // implicit move to the current point
		c.moveTo(c.placeX, c.placeY)
	}
	switch lower {
	case 'z':
		if c.inPath {
			c.path.Stop(true)
			c.inPath = false
		}
		c.placeX, c.placeY = c.pathStartX, c.pathStartY
	case 'm':
		c.moveTo(pts[0]+offX, pts[1]+offY)
		for i := 2; i < len(pts); i += 2 { // following pairs are implicit lines
			if rel {
				offX, offY = c.placeX, c.placeY
			}
			c.lineTo(pts[i]+offX, pts[i+1]+offY)
		}
	case 'l':
		for i := 0; i < len(pts); i += 2 {
			if rel {
				offX, offY = c.placeX, c.placeY
			}
			c.lineTo(pts[i]+offX, pts[i+1]+offY)
		}
	case 'h':
		for _, x := range pts {
			if rel {
				offX = c.placeX
			}
			c.lineTo(x+offX, c.placeY)
		}
	case 'v':
		for _, y := range pts {
			if rel {
				offY = c.placeY
			}
			c.lineTo(c.placeX, y+offY)
		}
	case 'q', 't':
		step := 4
		if lower == 't' {
			step = 2
		}
		for i := 0; i < len(pts); i += step {
			if rel {
				offX, offY = c.placeX, c.placeY
			}
			var cx, cy float64
			if lower == 'q' {
				cx, cy = pts[i]+offX, pts[i+1]+offY
			} else {
				cx, cy = c.reflect("qt")
			}
			x, y := pts[i+step-2]+offX, pts[i+step-1]+offY
			c.path.QuadBezier(toFixed(cx, cy), toFixed(x, y))
			c.cntlPtX, c.cntlPtY = cx, cy
			c.placeX, c.placeY = x, y
			c.lastKey = lower
		}
	case 'c', 's':
		step := 6
		if lower == 's' {
			step = 4
		}
		for i := 0; i < len(pts); i += step {
			if rel {
				offX, offY = c.placeX, c.placeY
			}
			var c1x, c1y float64
			if lower == 'c' {
				c1x, c1y = pts[i]+offX, pts[i+1]+offY
			} else {
				c1x, c1y = c.reflect("cs")
			}
			c2x, c2y := pts[i+step-4]+offX, pts[i+step-3]+offY
			x, y := pts[i+step-2]+offX, pts[i+step-1]+offY
			c.path.CubeBezier(toFixed(c1x, c1y), toFixed(c2x, c2y), toFixed(x, y))
			c.cntlPtX, c.cntlPtY = c2x, c2y
			c.placeX, c.placeY = x, y
			c.lastKey = lower
		}
	case 'a':
		for i := 0; i < len(pts); i += 7 {
			if rel {
				offX, offY = c.placeX, c.placeY
			}
			c.arcTo(pts[i], pts[i+1], pts[i+2], pts[i+3] != 0, pts[i+4] != 0, pts[i+5]+offX, pts[i+6]+offY)
		}
	}
	c.lastKey = lower
	return nil
}

// arcTo adds the elliptical arc from the current point to (x, y),
// using the endpoint parametrization of SVG.
func (c *pathCursor) arcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	x0, y0 := c.placeX, c.placeY
	if x0 == x && y0 == y {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		c.lineTo(x, y)
		return
	}
	phi := rot * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)
	dx2, dy2 := (x0-x)/2, (y0-y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// scale up radii too small to join the end points
	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp, cyp := coef*rx*y1p/ry, -coef*ry*x1p/rx
	cx := cosPhi*cxp - sinPhi*cyp + (x0+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y)/2

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta := vectorAngle(1, 0, ux, uy)
	delta := vectorAngle(ux, uy, vx, vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	at := func(t float64) (px, py, dx, dy float64) {
		sinT, cosT := math.Sincos(t)
		px = cx + rx*cosPhi*cosT - ry*sinPhi*sinT
		py = cy + rx*sinPhi*cosT + ry*cosPhi*sinT
		dx = -rx*cosPhi*sinT - ry*sinPhi*cosT
		dy = -rx*sinPhi*sinT + ry*cosPhi*cosT
		return
	}
	n := int(math.Ceil(math.Abs(delta) / maxDx))
	step := delta / float64(n)
	k := 4. / 3 * math.Tan(step/4)
	for i := 0; i < n; i++ {
		t1 := theta + float64(i)*step
		p1x, p1y, d1x, d1y := at(t1)
		p2x, p2y, d2x, d2y := at(t1 + step)
		if i == n-1 { // land exactly on the end point
			p2x, p2y = x, y
		}
		c.path.CubeBezier(toFixed(p1x+k*d1x, p1y+k*d1y), toFixed(p2x-k*d2x, p2y-k*d2y), toFixed(p2x, p2y))
	}
	c.placeX, c.placeY = x, y
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

func parseBasicFloat(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	return f, nil
}

type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// parseUnit parses a length, resolving percentages against the view box.
func (c *iconCursor) parseUnit(s string, ref percentageReference) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return parseBasicFloat(s)
	}
	f, err := parseBasicFloat(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	vb := c.icon.ViewBox
	switch ref {
	case widthPercentage:
		return f / 100 * vb.W, nil
	case heightPercentage:
		return f / 100 * vb.H, nil
	default:
		return f / 100 * math.Hypot(vb.W, vb.H) / math.Sqrt2, nil
	}
}

// readFraction parses a number or a percentage, returned as a fraction.
// Values are not clamped to [0, 1].
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}

// urlID extracts `id` from "url(#id)".
func urlID(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	v = strings.Trim(v[4:len(v)-1], `'" `)
	if !strings.HasPrefix(v, "#") || len(v) == 1 {
		return "", false
	}
	return v[1:], true
}

// readGradURL resolves a url(#id) paint. An unknown id falls
// back on `defaultPaint`.
func (c *iconCursor) readGradURL(v string, defaultPaint canvas.Pattern) (canvas.Pattern, bool) {
	id, ok := urlID(v)
	if !ok {
		return nil, false
	}
	c.icon.refs = append(c.icon.refs, id)
	grad, ok := c.icon.grads[id]
	if !ok {
		return defaultPaint, true
	}
	g := *grad
	g.Stops = append([]canvas.GradStop(nil), grad.Stops...) // the rasterizer sorts the stops
	return g, true
}

func (c *iconCursor) readGradAttr(attr xml.Attr) (err error) {
	switch attr.Name.Local {
	case "gradientTransform":
		c.grad.Matrix, err = c.parseTransform(c.grad.Matrix, attr.Value)
	case "gradientUnits":
		switch strings.TrimSpace(attr.Value) {
		case "userSpaceOnUse":
			c.grad.Units = canvas.UserSpaceOnUse
		case "objectBoundingBox":
			c.grad.Units = canvas.ObjectBoundingBox
		}
	case "spreadMethod":
		switch strings.TrimSpace(attr.Value) {
		case "pad":
			c.grad.Spread = canvas.PadSpread
		case "reflect":
			c.grad.Spread = canvas.ReflectSpread
		case "repeat":
			c.grad.Spread = canvas.RepeatSpread
		}
	}
	return nil
}
