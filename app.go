package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/config"
	"github.com/chazu/cratekit/pkg/engine"
	"github.com/chazu/cratekit/pkg/export"
	"github.com/chazu/cratekit/pkg/form"
	"github.com/chazu/cratekit/pkg/graph"
	"github.com/chazu/cratekit/pkg/kernel"
	"github.com/chazu/cratekit/pkg/tessellate"
	log "github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	form   *form.Form
	engine *engine.Engine
	kernel kernel.Kernel

	mu   sync.Mutex
	last []*kernel.Mesh // meshes of the most recent Generate or Evaluate
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Nodes    []string        `json:"nodes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// FormValues mirrors the six form fields as the frontend sends them.
type FormValues struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Depth       float64 `json:"depth"`
	Angle       int     `json:"angle"`
	Style       string  `json:"style"`
	Orientation string  `json:"orientation"`
}

func formValues(p boxgen.Params) FormValues {
	return FormValues{
		Width:       p.Width,
		Height:      p.Height,
		Depth:       p.Depth,
		Angle:       p.Angle,
		Style:       string(p.Style),
		Orientation: string(p.Orientation),
	}
}

// NewApp creates a new App with a form over an empty scene, an engine and
// the sdfx kernel, all configured from cfg.
func NewApp(cfg config.Config) *App {
	return &App{
		form:   form.New(graph.New(), cfg.Form),
		engine: engine.NewEngine(cfg.Form),
		kernel: cfg.NewKernel(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Fields describes the form layout for the frontend.
func (a *App) Fields() []form.FieldSpec {
	return form.Fields()
}

// Defaults returns the current form values.
func (a *App) Defaults() FormValues {
	return formValues(a.form.Values())
}

// Generate writes v into the form, presses Apply and returns the meshes of
// the new box. Every call adds another box to the scene. Concurrent calls
// each build from their own values.
func (a *App) Generate(v FormValues) EvalResult {
	result := newEvalResult()

	style, err := boxgen.ParseStyle(v.Style)
	if err != nil {
		return withError(result, err)
	}
	orient, err := boxgen.ParseOrientation(v.Orientation)
	if err != nil {
		return withError(result, err)
	}
	res, err := a.form.ApplyValues(boxgen.Params{
		Width:       v.Width,
		Height:      v.Height,
		Depth:       v.Depth,
		Angle:       v.Angle,
		Style:       style,
		Orientation: orient,
	})
	if err != nil {
		log.WithError(err).Warn("Generate failed")
		return withError(result, err)
	}

	// Read the new subtree under the form lock; another Generate may be
	// adding nodes to the same scene.
	var meshes []*kernel.Mesh
	err = a.form.View(func(scene *graph.Scene) error {
		var err error
		meshes, err = tessellate.Tessellate(scene, res.Root, a.kernel)
		if err != nil {
			return fmt.Errorf("tessellation failed: %w", err)
		}
		scene.Walk(res.Root, func(n *graph.Node, _ int) bool {
			result.Nodes = append(result.Nodes, n.Name)
			return true
		})
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Tessellate error")
		return withError(result, err)
	}
	a.remember(meshes)

	result.Meshes = toMeshData(meshes)
	return result
}

// Evaluate takes Lisp source and returns mesh data + errors.
// Scripts build into their own scene; the form's scene is untouched.
func (a *App) Evaluate(source string) EvalResult {
	result := newEvalResult()

	// Step 1: Evaluate the Lisp source into a scene.
	scene, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.WithError(err).Error("Evaluate fatal error")
		return withError(result, err)
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Surface structural problems as warnings.
	vr := graph.ValidateAll(scene)
	for _, e := range vr.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
	}
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if !vr.OK() {
		return result
	}

	// Step 4: Tessellate the scene into triangle meshes.
	meshes, err := tessellate.TessellateScene(scene, a.kernel)
	if err != nil {
		log.WithError(err).Error("Tessellate error")
		return withError(result, fmt.Errorf("tessellation failed: %w", err))
	}
	a.remember(meshes)

	result.Nodes = scene.List("")
	result.Meshes = toMeshData(meshes)
	return result
}

// ExportSTL writes the meshes of the last Generate or Evaluate to path.
func (a *App) ExportSTL(path string) error {
	a.mu.Lock()
	meshes := a.last
	a.mu.Unlock()
	return export.SaveSTL(a.kernel, path, meshes)
}

// Cancel closes the form and quits the application.
func (a *App) Cancel() {
	a.form.Cancel()
	if a.ctx != nil {
		runtime.Quit(a.ctx)
	}
}

func (a *App) remember(meshes []*kernel.Mesh) {
	a.mu.Lock()
	a.last = meshes
	a.mu.Unlock()
}

// newEvalResult returns a result whose slices serialize as [] not null.
func newEvalResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Nodes:    []string{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func withError(r EvalResult, err error) EvalResult {
	r.Errors = append(r.Errors, EvalErrorData{Message: err.Error()})
	return r
}

// toMeshData converts kernel meshes to the frontend MeshData format.
func toMeshData(meshes []*kernel.Mesh) []MeshData {
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out
}
