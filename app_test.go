package main

import (
	"testing"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/config"
)

// newTestApp returns an App with a coarse kernel and a cube-shaped default
// box, which keeps the thin posts above the tessellation resolution.
func newTestApp() *App {
	cfg := config.Default()
	cfg.Form = boxgen.Params{
		Width: 6, Height: 6, Depth: 6,
		Angle:       boxgen.MinAngle,
		Style:       boxgen.StyleLid,
		Orientation: boxgen.OrientUp,
	}
	cfg.Kernel.MeshCells = 72
	return NewApp(cfg)
}

// TestE2EGenerateLid exercises the full form pipeline: values -> Apply ->
// scene -> tessellate -> meshes. This is the same path that the Wails
// Generate binding takes, but without the Wails runtime.
func TestE2EGenerateLid(t *testing.T) {
	app := newTestApp()
	result := app.Generate(app.Defaults())

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("generate error: %s", e.Message)
		}
		t.FailNow()
	}

	// Body and four posts, plus their five copies in the lid.
	if len(result.Meshes) != 10 {
		t.Fatalf("expected 10 meshes, got %d", len(result.Meshes))
	}

	expectedParts := map[string]bool{
		"box": false, "cornerA": false, "cornerB": false, "cornerC": false, "cornerD": false,
		"box1": false, "cornerA1": false, "cornerB1": false, "cornerC1": false, "cornerD1": false,
	}
	for _, m := range result.Meshes {
		if _, ok := expectedParts[m.PartName]; !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		expectedParts[m.PartName] = true

		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	for name, found := range expectedParts {
		if !found {
			t.Errorf("missing mesh for part %q", name)
		}
	}

	if len(result.Nodes) == 0 || result.Nodes[0] != "Box" {
		t.Errorf("node listing should start at Box, got %v", result.Nodes)
	}
}

// TestE2EGenerateSlabs checks the slab style renders the four slabs.
func TestE2EGenerateSlabs(t *testing.T) {
	app := newTestApp()
	v := app.Defaults()
	v.Style = "slabs"
	v.Orientation = "down"
	v.Angle = 20
	result := app.Generate(v)

	if len(result.Errors) > 0 {
		t.Fatalf("generate errors: %v", result.Errors)
	}
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	names := map[string]bool{}
	for _, m := range result.Meshes {
		names[m.PartName] = true
	}
	for _, want := range []string{"slabA", "slabB", "slabC", "slabD"} {
		if !names[want] {
			t.Errorf("missing mesh for %q", want)
		}
	}
}

// TestE2EEvaluateBox runs the scripted equivalent of the form.
func TestE2EEvaluateBox(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(`(box :style :slabs :angle 45)`)

	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate("(box :width 4")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}
