package svgicon

import (
	"encoding/xml"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Filter is a chain of filter primitives, applied to the
// rendering of the elements referencing it.
type Filter struct {
	ID         string
	Primitives []FilterPrimitive
}

// FilterPrimitive is one of *GaussianBlur, *Offset,
// *ComponentTransfer or *Merge.
type FilterPrimitive interface {
	Input() string
	Output() string
}

// Ports names the input and the result of a primitive.
// An empty input is the result of the previous primitive,
// or SourceGraphic for the first one.
type Ports struct {
	In, Result string
}

func (p Ports) Input() string  { return p.In }
func (p Ports) Output() string { return p.Result }

// GaussianBlur blurs its input.
type GaussianBlur struct {
	Ports
	StdDeviation float64
}

// Offset translates its input.
type Offset struct {
	Ports
	Dx, Dy float64
}

// ComponentTransfer remaps the alpha channel of its input.
// A nil Alpha is the identity.
type ComponentTransfer struct {
	Ports
	Alpha *TransferFunc
}

// Merge stacks its inputs, the first one at the bottom.
type Merge struct {
	Ports
	Inputs []string
}

// TransferFunc is a component transfer function.
type TransferFunc struct {
	Type                string // identity, linear, table, discrete or gamma
	Slope, Intercept    float64
	Table               []float64
	Amplitude, Exponent float64
	Offset              float64
}

// Apply maps a channel value in [0, 1].
func (f TransferFunc) Apply(v float64) float64 {
	switch f.Type {
	case "linear":
		return f.Slope*v + f.Intercept
	case "table":
		n := len(f.Table) - 1
		if n < 1 {
			if n == 0 {
				return f.Table[0]
			}
			return v
		}
		k := min(int(v*float64(n)), n-1)
		return f.Table[k] + (v*float64(n)-float64(k))*(f.Table[k+1]-f.Table[k])
	case "discrete":
		n := len(f.Table)
		if n == 0 {
			return v
		}
		return f.Table[min(int(v*float64(n)), n-1)]
	case "gamma":
		return f.Amplitude*math.Pow(v, f.Exponent) + f.Offset
	}
	return v
}

func readPorts(attr xml.Attr, p *Ports) {
	switch attr.Name.Local {
	case "in":
		p.In = attr.Value
	case "result":
		p.Result = attr.Value
	}
}

func (c *iconCursor) addPrimitive(p FilterPrimitive) error {
	if c.filter == nil {
		return errors.New("filter primitive outside of a filter element")
	}
	c.filter.Primitives = append(c.filter.Primitives, p)
	return nil
}

func filterF(c *iconCursor, attrs []xml.Attr) error {
	c.inFilter = true
	c.filter = &Filter{}
	for _, attr := range attrs {
		if attr.Name.Local == "id" {
			if attr.Value == "" {
				return errZeroLengthID
			}
			c.filter.ID = attr.Value
		}
	}
	if c.filter.ID == "" {
		return errZeroLengthID
	}
	c.icon.filters[c.filter.ID] = c.filter
	c.icon.declare(c.filter.ID)
	return nil
}

func feGaussianBlurF(c *iconCursor, attrs []xml.Attr) error {
	blur := &GaussianBlur{}
	var err error
	for _, attr := range attrs {
		readPorts(attr, &blur.Ports)
		if attr.Name.Local == "stdDeviation" {
			// a pair of deviations is reduced to its first value
			if err = c.getPoints(attr.Value); err == nil && len(c.points) > 0 {
				blur.StdDeviation = c.points[0]
			}
		}
		if err != nil {
			return err
		}
	}
	return c.addPrimitive(blur)
}

func feOffsetF(c *iconCursor, attrs []xml.Attr) error {
	offset := &Offset{}
	var err error
	for _, attr := range attrs {
		readPorts(attr, &offset.Ports)
		switch attr.Name.Local {
		case "dx":
			offset.Dx, err = parseBasicFloat(attr.Value)
		case "dy":
			offset.Dy, err = parseBasicFloat(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	return c.addPrimitive(offset)
}

func feComponentTransferF(c *iconCursor, attrs []xml.Attr) error {
	transfer := &ComponentTransfer{}
	for _, attr := range attrs {
		readPorts(attr, &transfer.Ports)
	}
	c.transfer = transfer
	return c.addPrimitive(transfer)
}

func feFuncAF(c *iconCursor, attrs []xml.Attr) error {
	if c.transfer == nil {
		return errors.New("feFuncA outside of feComponentTransfer")
	}
	fn := &TransferFunc{Type: "identity", Slope: 1, Amplitude: 1, Exponent: 1}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "type":
			fn.Type = strings.TrimSpace(attr.Value)
		case "slope":
			fn.Slope, err = parseBasicFloat(attr.Value)
		case "intercept":
			fn.Intercept, err = parseBasicFloat(attr.Value)
		case "amplitude":
			fn.Amplitude, err = parseBasicFloat(attr.Value)
		case "exponent":
			fn.Exponent, err = parseBasicFloat(attr.Value)
		case "offset":
			fn.Offset, err = parseBasicFloat(attr.Value)
		case "tableValues":
			if err = c.getPoints(attr.Value); err == nil {
				fn.Table = append([]float64(nil), c.points...)
			}
		}
		if err != nil {
			return err
		}
	}
	c.transfer.Alpha = fn
	return nil
}

func feMergeF(c *iconCursor, attrs []xml.Attr) error {
	merge := &Merge{}
	for _, attr := range attrs {
		readPorts(attr, &merge.Ports)
	}
	c.merge = merge
	return c.addPrimitive(merge)
}

func feMergeNodeF(c *iconCursor, attrs []xml.Attr) error {
	if c.merge == nil {
		return errors.New("feMergeNode outside of feMerge")
	}
	in := ""
	for _, attr := range attrs {
		if attr.Name.Local == "in" {
			in = attr.Value
		}
	}
	c.merge.Inputs = append(c.merge.Inputs, in)
	return nil
}
