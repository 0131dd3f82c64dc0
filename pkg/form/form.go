// Package form models the six-field parameter form that drives box
// generation. A Form holds typed field values, applies the same clamping
// the host widgets would, and hands a boxgen.Params to the generator on
// Apply.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/graph"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrFormClosed is returned by operations on a cancelled form.
	ErrFormClosed = errors.New("form: closed")

	// ErrInvalidOption is returned when an option field is set to a label
	// that is not in its menu.
	ErrInvalidOption = errors.New("form: invalid option")

	// ErrUnknownField is returned by Set for a field name the form lacks.
	ErrUnknownField = errors.New("form: unknown field")
)

// FieldKind is the widget type of a form field.
type FieldKind int

const (
	FieldFloat  FieldKind = iota // free-form real number
	FieldSlider                  // integer slider with bounds
	FieldOption                  // single choice from a menu
)

func (k FieldKind) String() string {
	switch k {
	case FieldFloat:
		return "float"
	case FieldSlider:
		return "slider"
	case FieldOption:
		return "option"
	default:
		return "unknown"
	}
}

// Field names.
const (
	Width       = "width"
	Height      = "height"
	Depth       = "depth"
	Angle       = "angle"
	Style       = "style"
	Orientation = "orientation"
)

// FieldSpec describes one field for a front end to render.
type FieldSpec struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Min     int       `json:"min,omitempty"`
	Max     int       `json:"max,omitempty"`
	Step    int       `json:"step,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// Fields returns the form layout in display order.
func Fields() []FieldSpec {
	styles := make([]string, len(boxgen.Styles))
	for i, s := range boxgen.Styles {
		styles[i] = string(s)
	}
	orients := make([]string, len(boxgen.Orientations))
	for i, o := range boxgen.Orientations {
		orients[i] = string(o)
	}
	return []FieldSpec{
		{Name: Width, Label: "width: ", Kind: FieldFloat},
		{Name: Height, Label: "height: ", Kind: FieldFloat},
		{Name: Depth, Label: "depth: ", Kind: FieldFloat},
		{Name: Angle, Label: "angle: ", Kind: FieldSlider, Min: boxgen.MinAngle, Max: boxgen.MaxAngle, Step: 1},
		{Name: Style, Label: "lid_or_slabs: ", Kind: FieldOption, Options: styles},
		{Name: Orientation, Label: "up_or_down: ", Kind: FieldOption, Options: orients},
	}
}

// Form collects generation parameters and builds into a scene on Apply.
// Its methods are safe for concurrent use; the scene itself is guarded by
// the form only through Apply, ApplyValues and View.
type Form struct {
	mu     sync.Mutex
	scene  *graph.Scene
	values boxgen.Params
	closed bool
}

// New opens a form that builds into scene, starting from defaults. The
// default angle is clamped into the slider range; option defaults outside
// their menus fall back to the first entry.
func New(scene *graph.Scene, defaults boxgen.Params) *Form {
	defaults.Angle = boxgen.ClampAngle(defaults.Angle)
	if _, err := boxgen.ParseStyle(string(defaults.Style)); err != nil {
		defaults.Style = boxgen.Styles[0]
	}
	if _, err := boxgen.ParseOrientation(string(defaults.Orientation)); err != nil {
		defaults.Orientation = boxgen.Orientations[0]
	}
	return &Form{scene: scene, values: defaults}
}

// Scene returns the scene the form builds into. The scene is not locked;
// use View when Apply may run concurrently.
func (f *Form) Scene() *graph.Scene {
	return f.scene
}

// Values returns the current field values.
func (f *Form) Values() boxgen.Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// SetWidth sets the width field. Dimensions are not range checked until
// Apply.
func (f *Form) SetWidth(v float64) error {
	return f.update(func(p *boxgen.Params) { p.Width = v })
}

// SetHeight sets the height field.
func (f *Form) SetHeight(v float64) error {
	return f.update(func(p *boxgen.Params) { p.Height = v })
}

// SetDepth sets the depth field.
func (f *Form) SetDepth(v float64) error {
	return f.update(func(p *boxgen.Params) { p.Depth = v })
}

// SetAngle moves the slider, clamping to its bounds.
func (f *Form) SetAngle(v int) error {
	return f.update(func(p *boxgen.Params) { p.Angle = boxgen.ClampAngle(v) })
}

// SetStyle selects a style by menu label.
func (f *Form) SetStyle(label string) error {
	s, err := boxgen.ParseStyle(label)
	if err != nil {
		return fmt.Errorf("%w: style %q", ErrInvalidOption, label)
	}
	return f.update(func(p *boxgen.Params) { p.Style = s })
}

// SetOrientation selects an orientation by menu label.
func (f *Form) SetOrientation(label string) error {
	o, err := boxgen.ParseOrientation(label)
	if err != nil {
		return fmt.Errorf("%w: orientation %q", ErrInvalidOption, label)
	}
	return f.update(func(p *boxgen.Params) { p.Orientation = o })
}

// Set assigns a field from its text representation.
func (f *Form) Set(name, value string) error {
	switch name {
	case Width, Height, Depth:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("form: %s: %w", name, err)
		}
		switch name {
		case Width:
			return f.SetWidth(v)
		case Height:
			return f.SetHeight(v)
		default:
			return f.SetDepth(v)
		}
	case Angle:
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("form: %s: %w", name, err)
		}
		return f.SetAngle(v)
	case Style:
		return f.SetStyle(value)
	case Orientation:
		return f.SetOrientation(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Load replaces every field with p, applying the same clamping and option
// checks as the individual setters.
func (f *Form) Load(p boxgen.Params) error {
	p, err := sanitize(p)
	if err != nil {
		return err
	}
	return f.update(func(v *boxgen.Params) { *v = p })
}

// sanitize checks the option fields and clamps the angle.
func sanitize(p boxgen.Params) (boxgen.Params, error) {
	if _, err := boxgen.ParseStyle(string(p.Style)); err != nil {
		return p, fmt.Errorf("%w: style %q", ErrInvalidOption, p.Style)
	}
	if _, err := boxgen.ParseOrientation(string(p.Orientation)); err != nil {
		return p, fmt.Errorf("%w: orientation %q", ErrInvalidOption, p.Orientation)
	}
	p.Angle = boxgen.ClampAngle(p.Angle)
	return p, nil
}

func (f *Form) update(fn func(p *boxgen.Params)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFormClosed
	}
	fn(&f.values)
	return nil
}

// Apply reads the current values and generates a box into the form's
// scene. The form stays open so Apply may be pressed again.
func (f *Form) Apply() (*boxgen.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apply()
}

// ApplyValues loads p and generates from it while holding the form, so a
// concurrent caller cannot swap the fields in between.
func (f *Form) ApplyValues(p boxgen.Params) (*boxgen.Result, error) {
	p, err := sanitize(p)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrFormClosed
	}
	f.values = p
	return f.apply()
}

func (f *Form) apply() (*boxgen.Result, error) {
	if f.closed {
		return nil, ErrFormClosed
	}
	res, err := boxgen.Generate(f.scene, f.values)
	if err != nil {
		log.WithError(err).Warn("apply failed")
		return nil, err
	}
	return res, nil
}

// View runs fn with the form's scene while no Apply can mutate it. Readers
// that may race with Apply, such as a tessellator, go through View.
func (f *Form) View(fn func(s *graph.Scene) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.scene)
}

// Cancel closes the form without touching the scene. It is idempotent.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Closed reports whether Cancel has been called.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
