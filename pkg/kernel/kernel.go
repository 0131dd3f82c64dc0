// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid construction, placement and tessellation
// behind this interface so the rest of the system never touches a
// particular modeling library.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a rectangular solid centered on the origin.
	Box(x, y, z float64) Solid

	// Union combines solids. It panics when called with no solids.
	Union(solids ...Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied X then Y then Z
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)

	// SaveSTL writes meshes to path as one binary STL solid.
	SaveSTL(path string, meshes ...*Mesh) error
}
