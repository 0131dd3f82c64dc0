package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Result shape: slices are non-nil so JSON serializes [] not null.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Nodes == nil {
		t.Error("Nodes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

// ---------------------------------------------------------------------------
// Syntax error on a later line keeps a message and, when available, a line.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := newTestApp()

	source := "(+ 1 2)\n(box :width 4"
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	if e.Line < 0 {
		t.Errorf("line should not be negative, got %d", e.Line)
	}
}

// ---------------------------------------------------------------------------
// Invalid parameters are reported rather than producing geometry.
// ---------------------------------------------------------------------------

func TestE2EZeroDimensionBox(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(`(box :width 0)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for zero width")
	}
	if !strings.Contains(result.Errors[0].Message, "width") {
		t.Errorf("error should mention width, got %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2EGenerateNegativeDimension(t *testing.T) {
	app := newTestApp()
	v := app.Defaults()
	v.Depth = -3
	result := app.Generate(v)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for negative depth")
	}
	if !strings.Contains(result.Errors[0].Message, "depth") {
		t.Errorf("error should mention depth, got %q", result.Errors[0].Message)
	}
	if got := app.form.Scene().NodeCount(); got != 0 {
		t.Errorf("rejected Apply left %d nodes", got)
	}
}

func TestE2EGenerateInvalidOption(t *testing.T) {
	app := newTestApp()
	v := app.Defaults()
	v.Style = "dome"
	result := app.Generate(v)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for unknown style")
	}
}

func TestE2EGenerateClampsAngle(t *testing.T) {
	app := newTestApp()
	v := app.Defaults()
	v.Style = "slabs"
	v.Angle = 500
	result := app.Generate(v)
	if len(result.Errors) > 0 {
		t.Fatalf("out-of-range angle should clamp, got %v", result.Errors)
	}
	if got := app.Defaults().Angle; got != 80 {
		t.Errorf("form angle = %d, want 80", got)
	}
}

// ---------------------------------------------------------------------------
// Repeated Apply builds independent trees in the same scene.
// ---------------------------------------------------------------------------

func TestE2EGenerateTwice(t *testing.T) {
	app := newTestApp()
	first := app.Generate(app.Defaults())
	second := app.Generate(app.Defaults())

	if len(first.Errors)+len(second.Errors) > 0 {
		t.Fatalf("errors: %v %v", first.Errors, second.Errors)
	}
	if second.Nodes[0] != "Box1" {
		t.Errorf("second root = %q, want Box1", second.Nodes[0])
	}
	seen := map[string]bool{}
	for _, n := range first.Nodes {
		seen[n] = true
	}
	for _, n := range second.Nodes {
		if seen[n] {
			t.Errorf("node name %q reused by the second box", n)
		}
	}
}

// ---------------------------------------------------------------------------
// Cancel closes the form.
// ---------------------------------------------------------------------------

func TestE2ECancel(t *testing.T) {
	app := newTestApp()
	app.Cancel()

	result := app.Generate(app.Defaults())
	if len(result.Errors) == 0 {
		t.Fatal("expected an error after Cancel")
	}
	if !strings.Contains(result.Errors[0].Message, "closed") {
		t.Errorf("error should report closed form, got %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Concurrent Generate calls, as Wails issues them from separate goroutines.
// Run with -race.
// ---------------------------------------------------------------------------

func TestE2EConcurrentGenerate(t *testing.T) {
	app := newTestApp()
	const workers = 4

	var wg sync.WaitGroup
	results := make([]EvalResult, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			v := app.Defaults()
			if w%2 == 1 {
				v.Style = "slabs"
			}
			results[w] = app.Generate(v)
		}(w)
	}
	wg.Wait()

	roots := map[string]bool{}
	for w, r := range results {
		if len(r.Errors) > 0 {
			t.Errorf("worker %d: %v", w, r.Errors)
			continue
		}
		// Each call must render the style it asked for.
		want := 10
		if w%2 == 1 {
			want = 9
		}
		if len(r.Meshes) != want {
			t.Errorf("worker %d: %d meshes, want %d", w, len(r.Meshes), want)
		}
		if roots[r.Nodes[0]] {
			t.Errorf("root %q returned twice", r.Nodes[0])
		}
		roots[r.Nodes[0]] = true
	}
	if len(roots) != workers {
		t.Errorf("expected %d distinct roots, got %d", workers, len(roots))
	}
}

// ---------------------------------------------------------------------------
// Rapid sequential evaluation exercises the generation counter.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	// Calls are sequential because zygomys has internal global state that
	// is not safe for concurrent sandbox creation.
	app := newTestApp()

	sources := []string{
		`(thickness 4 5 5)`,
		`(+ 1 2)`,
		``,
		`(box :width 0)`,
		`(slab-angle :front :up 20)`,
		`(+ 100 200)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
}

// ---------------------------------------------------------------------------
// Several boxes in one script, moved apart.
// ---------------------------------------------------------------------------

func TestE2EMultipleBoxes(t *testing.T) {
	app := newTestApp()
	source := `
(box)
(move (box :style :slabs) :to (vec3 10 0 0))
`
	result := app.Evaluate(source)
	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}
	if len(result.Meshes) != 19 {
		t.Fatalf("expected 19 meshes, got %d", len(result.Meshes))
	}

	// More parts than palette colors: every mesh still gets one.
	for _, m := range result.Meshes {
		if m.Color == "" {
			t.Errorf("mesh %q should have a color assigned", m.PartName)
		}
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(";; nothing to build\n; still nothing\n")
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// STL export of the last result.
// ---------------------------------------------------------------------------

func TestE2EExportSTL(t *testing.T) {
	app := newTestApp()
	if err := app.ExportSTL(filepath.Join(t.TempDir(), "none.stl")); err == nil {
		t.Error("export before any generation should fail")
	}

	result := app.Generate(app.Defaults())
	if len(result.Errors) > 0 {
		t.Fatalf("generate errors: %v", result.Errors)
	}
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := app.ExportSTL(path); err != nil {
		t.Fatalf("ExportSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 84 {
		t.Errorf("STL file too small: %d bytes", info.Size())
	}
}

func TestFieldsBinding(t *testing.T) {
	app := newTestApp()
	if got := len(app.Fields()); got != 6 {
		t.Errorf("expected 6 fields, got %d", got)
	}
}
