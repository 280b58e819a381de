package svgicon

import (
	"encoding/xml"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/srwiley/rasterx"

	"github.com/openyolo/assetgen/canvas"
	"github.com/openyolo/assetgen/shape"
)

func init() {
	// avoids cyclical static declaration
	// called on package initialization
	drawFuncs["use"] = useF
}

type svgFunc func(c *iconCursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":                 svgF,
	"g":                   gF,
	"line":                lineF,
	"stop":                stopF,
	"rect":                rectF,
	"circle":              circleF,
	"ellipse":             circleF, // circleF handles ellipse also
	"polyline":            polylineF,
	"polygon":             polygonF,
	"path":                pathF,
	"text":                textF,
	"desc":                descF,
	"defs":                defsF,
	"title":               titleF,
	"linearGradient":      linearGradientF,
	"radialGradient":      radialGradientF,
	"filter":              filterF,
	"feGaussianBlur":      feGaussianBlurF,
	"feOffset":            feOffsetF,
	"feComponentTransfer": feComponentTransferF,
	"feFuncA":             feFuncAF,
	"feMerge":             feMergeF,
	"feMergeNode":         feMergeNodeF,
}

// elements whose content is parsed even inside defs
func isResource(tag string) bool {
	return tag == "radialGradient" || tag == "linearGradient" || tag == "filter"
}

func (c *iconCursor) readStartElement(se xml.StartElement) (err error) {
	skipDef := isResource(se.Name.Local) || c.inGrad || c.inFilter
	if c.inDefs && !skipDef {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.handleError("cannot process svg element " + se.Name.Local)
	}
	err = df(c, se.Attr)

	if len(c.path) > 0 {
		// the cursor parsed a path from the xml element
		pathCopy := append(shape.Path{}, c.path...)
		c.icon.SVGPaths = append(c.icon.SVGPaths,
			SvgPath{Path: pathCopy, Style: c.styleStack[len(c.styleStack)-1]})
		c.path = c.path[:0]
	}
	return
}

// readEndElement is called before the style of the element is popped.
func (c *iconCursor) readEndElement(se xml.EndElement) {
	switch se.Name.Local {
	case "g":
		if c.inDefs {
			c.currentDef = append(c.currentDef, definition{
				Tag: "endg",
			})
		}
	case "title":
		c.inTitleText = false
	case "desc":
		c.inDescText = false
	case "defs":
		if len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.inDefs = false
	case "radialGradient", "linearGradient":
		c.inGrad = false
		c.grad = nil
	case "filter":
		c.inFilter = false
		c.filter = nil
	case "feComponentTransfer":
		c.transfer = nil
	case "feMerge":
		c.merge = nil
	case "text":
		if c.text != nil {
			c.text.Content = strings.TrimSpace(c.text.Content)
			if c.text.Content != "" && !c.inDefs {
				c.icon.SVGPaths = append(c.icon.SVGPaths, SvgPath{Style: c.textStyle, Text: c.text})
			}
			c.text = nil
		}
	}
}

func (c *iconCursor) readCharData(data xml.CharData) {
	switch {
	case c.inTitleText:
		c.icon.Titles[len(c.icon.Titles)-1] += string(data)
	case c.inDescText:
		c.icon.Descriptions[len(c.icon.Descriptions)-1] += string(data)
	case c.text != nil:
		c.text.Content += string(data)
	}
}

func svgF(c *iconCursor, attrs []xml.Attr) error {
	c.icon.ViewBox = Bounds{}
	var width, height float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			err = c.getPoints(attr.Value)
			if len(c.points) != 4 {
				return errParamMismatch
			}
			c.icon.ViewBox.X = c.points[0]
			c.icon.ViewBox.Y = c.points[1]
			c.icon.ViewBox.W = c.points[2]
			c.icon.ViewBox.H = c.points[3]
		case "width":
			if !strings.HasSuffix(attr.Value, "%") {
				width, err = parseBasicFloat(attr.Value)
			}
		case "height":
			if !strings.HasSuffix(attr.Value, "%") {
				height, err = parseBasicFloat(attr.Value)
			}
		}
		if err != nil {
			return err
		}
	}
	if c.icon.ViewBox.W == 0 {
		c.icon.ViewBox.W = width
	}
	if c.icon.ViewBox.H == 0 {
		c.icon.ViewBox.H = height
	}
	return nil
}

func gF(*iconCursor, []xml.Attr) error { return nil } // g does nothing but push the style

func rectF(c *iconCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			w, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			h, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if w == 0 || h == 0 {
		return nil
	}
	if rx == 0 {
		rx = ry
	}
	if ry == 0 {
		ry = rx
	}
	x, y = x+c.curX, y+c.curY
	if rx > 0 && ry > 0 {
		c.path.RoundRect(x, y, x+w, y+h, rx, ry)
	} else {
		c.path.Rect(x, y, x+w, y+h)
	}
	return nil
}

func circleF(c *iconCursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			cy, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			rx, err = c.parseUnit(attr.Value, diagPercentage)
			ry = rx
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if rx == 0 || ry == 0 { // not drawn, but not an error
		return nil
	}
	c.path.Ellipse(cx+c.curX, cy+c.curY, rx, ry)
	return nil
}

func lineF(c *iconCursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.path.Segment(x1+c.curX, y1+c.curY, x2+c.curX, y2+c.curY)
	return nil
}

func (c *iconCursor) readPolyPoints(attrs []xml.Attr) ([]shape.Point, error) {
	c.points = c.points[:0]
	for _, attr := range attrs {
		if attr.Name.Local != "points" {
			continue
		}
		if err := c.getPoints(attr.Value); err != nil {
			return nil, err
		}
		if len(c.points)%2 != 0 {
			return nil, errors.New("polygon has odd number of points")
		}
	}
	pts := make([]shape.Point, 0, len(c.points)/2)
	for i := 0; i+1 < len(c.points); i += 2 {
		pts = append(pts, shape.Pt(c.points[i]+c.curX, c.points[i+1]+c.curY))
	}
	return pts, nil
}

func polylineF(c *iconCursor, attrs []xml.Attr) error {
	pts, err := c.readPolyPoints(attrs)
	if err != nil {
		return err
	}
	if len(pts) > 2 {
		c.path.Polyline(pts...)
	}
	return nil
}

func polygonF(c *iconCursor, attrs []xml.Attr) error {
	pts, err := c.readPolyPoints(attrs)
	if err != nil {
		return err
	}
	c.path.Polygon(pts...)
	return nil
}

func pathF(c *iconCursor, attrs []xml.Attr) error {
	for _, attr := range attrs {
		if attr.Name.Local == "d" {
			if err := c.compilePath(attr.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func textF(c *iconCursor, attrs []xml.Attr) error {
	run := &TextRun{}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			run.X, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			run.Y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	run.X += c.curX
	run.Y += c.curY
	c.text = run
	c.textStyle = c.styleStack[len(c.styleStack)-1]
	return nil
}

func descF(c *iconCursor, attrs []xml.Attr) error {
	c.inDescText = true
	c.icon.Descriptions = append(c.icon.Descriptions, "")
	return nil
}

func titleF(c *iconCursor, attrs []xml.Attr) error {
	c.inTitleText = true
	c.icon.Titles = append(c.icon.Titles, "")
	return nil
}

func defsF(c *iconCursor, attrs []xml.Attr) error {
	c.inDefs = true
	return nil
}

func (c *iconCursor) registerGradient(id string) error {
	if id == "" {
		return errZeroLengthID
	}
	c.icon.grads[id] = c.grad
	c.icon.declare(id)
	return nil
}

func linearGradientF(c *iconCursor, attrs []xml.Attr) error {
	var err error
	c.inGrad = true
	direction := canvas.Linear{0, 0, 1, 0}
	c.grad = &canvas.Gradient{Direction: direction, Matrix: rasterx.Identity}
	c.grad.Bounds.X, c.grad.Bounds.Y, c.grad.Bounds.W, c.grad.Bounds.H = c.icon.ViewBox.X, c.icon.ViewBox.Y, c.icon.ViewBox.W, c.icon.ViewBox.H
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			err = c.registerGradient(attr.Value)
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *iconCursor, attrs []xml.Attr) error {
	c.inGrad = true
	direction := canvas.Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	c.grad = &canvas.Gradient{Direction: direction, Matrix: rasterx.Identity}
	c.grad.Bounds.X, c.grad.Bounds.Y, c.grad.Bounds.W, c.grad.Bounds.H = c.icon.ViewBox.X, c.icon.ViewBox.Y, c.icon.ViewBox.W, c.icon.ViewBox.H
	var setFx, setFy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			err = c.registerGradient(attr.Value)
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

func stopF(c *iconCursor, attrs []xml.Attr) error {
	if !c.inGrad || c.grad == nil {
		return nil
	}
	var err error
	stop := canvas.GradStop{Opacity: 1.0, StopColor: canvas.NewPlainColor(0, 0, 0, 0xff).NRGBA}
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "offset":
			stop.Offset, err = readFraction(attr.Value)
		case "stop-color":
			stop.StopColor, err = parseStopColor(attr.Value)
		case "stop-opacity":
			stop.Opacity, err = parseBasicFloat(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

func useF(c *iconCursor, attrs []xml.Attr) error {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.curX, c.curY = x, y
	defer func() {
		c.curX, c.curY = 0, 0
	}()
	if href == "" {
		return errors.New("only use tags with href is supported")
	}
	if !strings.HasPrefix(href, "#") {
		return errors.New("only the ID CSS selector is supported")
	}
	c.icon.refs = append(c.icon.refs, href[1:])
	defs, ok := c.icon.defs[href[1:]]
	if !ok {
		return errors.Newf("href ID %q in use statement was not found in saved defs", href)
	}
	for _, def := range defs {
		if def.Tag == "endg" {
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
			continue
		}
		if err = c.pushStyle(def.Attrs); err != nil {
			return err
		}
		df, ok := drawFuncs[def.Tag]
		if !ok {
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
			if err := c.handleError("cannot process svg element " + def.Tag); err != nil {
				return err
			}
			continue
		}
		if err := df(c, def.Attrs); err != nil {
			return err
		}
		if len(c.path) > 0 {
			pathCopy := append(shape.Path{}, c.path...)
			c.icon.SVGPaths = append(c.icon.SVGPaths,
				SvgPath{Path: pathCopy, Style: c.styleStack[len(c.styleStack)-1]})
			c.path = c.path[:0]
		}
		if def.Tag != "g" {
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
		}
	}
	return nil
}
