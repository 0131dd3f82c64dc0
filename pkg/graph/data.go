package graph

// ---------------------------------------------------------------------------
// Faces
// ---------------------------------------------------------------------------

// FaceID names a face of an axis-aligned solid.
type FaceID string

const (
	FaceTop    FaceID = "top"    // +Y
	FaceBottom FaceID = "bottom" // -Y
	FaceLeft   FaceID = "left"   // -X
	FaceRight  FaceID = "right"  // +X
	FaceFront  FaceID = "front"  // +Z
	FaceBack   FaceID = "back"   // -Z
)

// ValidFaceIDs is the set of recognized face names.
var ValidFaceIDs = map[FaceID]bool{
	FaceTop:    true,
	FaceBottom: true,
	FaceLeft:   true,
	FaceRight:  true,
	FaceFront:  true,
	FaceBack:   true,
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData marks an empty grouping node.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Shell
// ---------------------------------------------------------------------------

// ShellData is a cuboid with one face removed and the remaining faces
// thickened. Size is the inner cavity. The four side walls grow outward by
// Thickness; the face opposite Open grows inward so the outer base stays
// where the original face was.
type ShellData struct {
	Size      Vec3    `json:"size"`
	Thickness float64 `json:"thickness"`
	Open      FaceID  `json:"open"` // FaceTop or FaceBottom
}

func (ShellData) nodeData() {}

// Pieces returns the four walls and the closed end panel.
func (d ShellData) Pieces() []Piece {
	w, h, dp, t := d.Size.X, d.Size.Y, d.Size.Z, d.Thickness
	panelY := -h/2 + t/2
	if d.Open == FaceBottom {
		panelY = -panelY
	}
	return []Piece{
		{Center: Vec3{X: -(w/2 + t/2)}, Size: Vec3{t, h, dp}},
		{Center: Vec3{X: w/2 + t/2}, Size: Vec3{t, h, dp}},
		{Center: Vec3{Z: dp/2 + t/2}, Size: Vec3{w, h, t}},
		{Center: Vec3{Z: -(dp/2 + t/2)}, Size: Vec3{w, h, t}},
		{Center: Vec3{Y: panelY}, Size: Vec3{w, t, dp}},
	}
}

// ---------------------------------------------------------------------------
// Cuboid
// ---------------------------------------------------------------------------

// CuboidData is a solid rectangular block centered on the node origin.
type CuboidData struct {
	Size Vec3 `json:"size"`
}

func (CuboidData) nodeData() {}

// Pieces returns the block itself.
func (d CuboidData) Pieces() []Piece {
	return []Piece{{Size: d.Size}}
}

// ---------------------------------------------------------------------------
// Slab
// ---------------------------------------------------------------------------

// SlabData is a rectangle in the XZ plane, centered on the node origin and
// extruded along +Y by Thickness.
type SlabData struct {
	Width     float64 `json:"width"`  // along X
	Length    float64 `json:"length"` // along Z
	Thickness float64 `json:"thickness"`
}

func (SlabData) nodeData() {}

// Pieces returns the extruded plate.
func (d SlabData) Pieces() []Piece {
	return []Piece{{
		Center: Vec3{Y: d.Thickness / 2},
		Size:   Vec3{d.Width, d.Thickness, d.Length},
	}}
}
