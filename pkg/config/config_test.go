package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/kernel/sdfx"
	log "github.com/sirupsen/logrus"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Form != boxgen.DefaultParams() {
		t.Errorf("form defaults = %+v", cfg.Form)
	}
	if cfg.Kernel.MeshCells != sdfx.DefaultMeshCells {
		t.Errorf("mesh cells = %d", cfg.Kernel.MeshCells)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := writeFile(t, "boxgen.yaml", `
form:
  width: 10
  style: slabs
  orientation: down
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := boxgen.DefaultParams()
	want.Width = 10
	want.Style = boxgen.StyleSlabs
	want.Orientation = boxgen.OrientDown
	if cfg.Form != want {
		t.Errorf("form = %+v, want %+v", cfg.Form, want)
	}
	if cfg.Kernel.MeshCells != sdfx.DefaultMeshCells {
		t.Errorf("absent kernel section should keep default, got %d", cfg.Kernel.MeshCells)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "form: [unclosed", "config"},
		{"bad style", "form:\n  style: dome\n", "style"},
		{"bad angle", "form:\n  angle: 5\n", "angle"},
		{"negative cells", "kernel:\n  mesh_cells: -1\n", "mesh_cells"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "c.yaml", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if cfg != Default() {
				t.Error("failed load should return defaults")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "boxgen.yaml")
	cfg := Default()
	cfg.Form.Angle = 35
	cfg.Kernel.MeshCells = 64
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "mesh_cells: 64") {
		t.Errorf("saved YAML missing mesh_cells:\n%s", data)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestApplyLogging(t *testing.T) {
	prev := log.GetLevel()
	defer log.SetLevel(prev)

	cfg := Default()
	cfg.Log.Level = "warn"
	if err := cfg.ApplyLogging(); err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != log.WarnLevel {
		t.Errorf("level = %s, want warn", log.GetLevel())
	}
	cfg.Log.Level = "chatty"
	if err := cfg.ApplyLogging(); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewKernel(t *testing.T) {
	cfg := Default()
	cfg.Kernel.MeshCells = 0
	if got := cfg.NewKernel().MeshCells(); got != sdfx.DefaultMeshCells {
		t.Errorf("zero cells should select default, got %d", got)
	}
}
