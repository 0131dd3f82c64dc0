package sdfx

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/chazu/cratekit/pkg/kernel"
	"github.com/deadsy/sdfx/render"
)

// testCells keeps marching cubes fast in tests.
const testCells = 40

func TestBox(t *testing.T) {
	k := NewWithCells(testCells)
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestNewWithCells(t *testing.T) {
	if got := NewWithCells(0).MeshCells(); got != DefaultMeshCells {
		t.Errorf("NewWithCells(0) cells = %d, want %d", got, DefaultMeshCells)
	}
	if got := NewWithCells(64).MeshCells(); got != 64 {
		t.Errorf("NewWithCells(64) cells = %d, want 64", got)
	}
	if got := New().MeshCells(); got != DefaultMeshCells {
		t.Errorf("New() cells = %d, want %d", got, DefaultMeshCells)
	}
}

func TestBoundingBoxIsCentered(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, -12.5}
	expectMax := [3]float64{50, 25, 12.5}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestUnion(t *testing.T) {
	k := NewWithCells(testCells)
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)

	min, max := u.BoundingBox()
	if math.Abs(min[0]+25) > 0.5 || math.Abs(max[0]-55) > 0.5 {
		t.Errorf("union X extent = [%f, %f], want ~[-25, 55]", min[0], max[0])
	}
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestUnionSingle(t *testing.T) {
	k := New()
	box := k.Box(1, 1, 1)
	if k.Union(box) != box {
		t.Error("union of one solid should return it unchanged")
	}
}

func TestUnionEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Union() with no solids should panic")
		}
	}()
	New().Union()
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestScale(t *testing.T) {
	k := New()
	scaled := k.Scale(k.Box(10, 10, 10), 1.1, 0.1, 1.1)
	min, max := scaled.BoundingBox()

	const tol = 0.01
	want := [3]float64{11, 1, 11}
	for i := 0; i < 3; i++ {
		if math.Abs((max[i]-min[i])-want[i]) > tol {
			t.Errorf("scaled extent[%d] = %f, want %f", i, max[i]-min[i], want[i])
		}
	}
}

func TestMeshStaysInsideBounds(t *testing.T) {
	k := NewWithCells(testCells)
	s := k.Translate(k.Box(4, 2, 6), 1, 2, 3)
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatal(err)
	}
	min, max := mesh.Bounds()
	const tol = 0.3
	if min[0] < -1-tol || max[0] > 3+tol || min[1] < 1-tol || max[1] > 3+tol {
		t.Errorf("mesh bounds %v %v escape the solid", min, max)
	}
}

func TestSaveSTLRoundTrip(t *testing.T) {
	k := NewWithCells(testCells)
	a, err := k.ToMesh(k.Box(2, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	b, err := k.ToMesh(k.Translate(k.Box(1, 1, 1), 3, 0, 0))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "parts.stl")
	if err := k.SaveSTL(path, a, b); err != nil {
		t.Fatalf("SaveSTL failed: %v", err)
	}

	tris, err := render.LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL failed: %v", err)
	}
	want := a.TriangleCount() + b.TriangleCount()
	if len(tris) != want {
		t.Fatalf("loaded %d triangles, want %d", len(tris), want)
	}

	// The second mesh follows the first in file order.
	for _, check := range []struct {
		mesh *kernel.Mesh
		at   int
	}{{a, 0}, {b, a.TriangleCount()}} {
		tri := check.mesh.Triangle(0)
		got := tris[check.at]
		for c := 0; c < 3; c++ {
			if float32(got[c].X) != tri[c][0] || float32(got[c].Y) != tri[c][1] || float32(got[c].Z) != tri[c][2] {
				t.Errorf("triangle %d corner %d = %v, want %v", check.at, c, got[c], tri[c])
			}
		}
	}
}

func TestSaveSTLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := New().SaveSTL(path); err != nil {
		t.Fatalf("SaveSTL failed: %v", err)
	}
	tris, err := render.LoadSTL(path)
	if err != nil {
		t.Fatalf("LoadSTL failed: %v", err)
	}
	if len(tris) != 0 {
		t.Errorf("loaded %d triangles, want 0", len(tris))
	}
}

func TestSaveSTLBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "box.stl")
	if err := New().SaveSTL(path); err == nil {
		t.Error("expected error for missing directory")
	}
}
