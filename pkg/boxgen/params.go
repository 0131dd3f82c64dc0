package boxgen

import (
	"fmt"
	"math"
)

// Style selects how the top of the box is finished.
type Style string

const (
	StyleLid   Style = "lid"   // flattened duplicate of the box as a cap
	StyleSlabs Style = "slabs" // four hinged flaps along the top edges
)

// Styles lists the accepted styles in menu order.
var Styles = []Style{StyleLid, StyleSlabs}

// ParseStyle converts a label into a Style.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &ParamError{Field: "style", Value: s, Reason: "must be lid or slabs"}
}

// Orientation selects which way the slabs flare.
type Orientation string

const (
	OrientUp   Orientation = "up"
	OrientDown Orientation = "down"
)

// Orientations lists the accepted orientations in menu order.
var Orientations = []Orientation{OrientUp, OrientDown}

// ParseOrientation converts a label into an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range Orientations {
		if string(o) == s {
			return o, nil
		}
	}
	return "", &ParamError{Field: "orientation", Value: s, Reason: "must be up or down"}
}

// Angle limits in degrees.
const (
	MinAngle = 10
	MaxAngle = 80
)

// ThicknessDivisor relates the smallest box dimension to wall thickness.
const ThicknessDivisor = 30.0

// Params holds the six generation inputs.
type Params struct {
	Width       float64     `yaml:"width" json:"width"`
	Height      float64     `yaml:"height" json:"height"`
	Depth       float64     `yaml:"depth" json:"depth"`
	Angle       int         `yaml:"angle" json:"angle"`
	Style       Style       `yaml:"style" json:"style"`
	Orientation Orientation `yaml:"orientation" json:"orientation"`
}

// DefaultParams returns the values the form opens with.
func DefaultParams() Params {
	return Params{
		Width:       4,
		Height:      5,
		Depth:       5,
		Angle:       MinAngle,
		Style:       StyleLid,
		Orientation: OrientUp,
	}
}

// Thickness returns the wall, post and slab thickness for p.
func (p Params) Thickness() float64 {
	return math.Min(p.Width, math.Min(p.Height, p.Depth)) / ThicknessDivisor
}

// ParamError reports a generation input that cannot produce a box.
type ParamError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("boxgen: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks p before any geometry is created. It returns the first
// offending field as a *ParamError.
func (p Params) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"width", p.Width},
		{"height", p.Height},
		{"depth", p.Depth},
	}
	for _, d := range dims {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return &ParamError{Field: d.name, Value: d.v, Reason: "must be finite"}
		}
		if d.v <= 0 {
			return &ParamError{Field: d.name, Value: d.v, Reason: "must be positive"}
		}
	}
	if p.Angle < MinAngle || p.Angle > MaxAngle {
		return &ParamError{
			Field:  "angle",
			Value:  p.Angle,
			Reason: fmt.Sprintf("must be between %d and %d", MinAngle, MaxAngle),
		}
	}
	if _, err := ParseStyle(string(p.Style)); err != nil {
		return err
	}
	if _, err := ParseOrientation(string(p.Orientation)); err != nil {
		return err
	}
	return nil
}

// ClampAngle limits a to the accepted angle range.
func ClampAngle(a int) int {
	if a < MinAngle {
		return MinAngle
	}
	if a > MaxAngle {
		return MaxAngle
	}
	return a
}
