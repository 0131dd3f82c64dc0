package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeGroup NodeKind = iota // empty transform that only parents other nodes
	NodeMesh                  // transform carrying geometry
)

func (k NodeKind) String() string {
	switch k {
	case NodeGroup:
		return "group"
	case NodeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID        NodeID    `json:"id"`
	Kind      NodeKind  `json:"kind"`
	Name      string    `json:"name"`
	Parent    NodeID    `json:"parent"`
	Children  []NodeID  `json:"children,omitempty"`
	Transform Transform `json:"transform"`
	Data      NodeData  `json:"data"`
}

// HasParent reports whether the node sits below another node.
func (n *Node) HasParent() bool {
	return !n.Parent.IsZero()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// MeshData is implemented by payloads that produce geometry.
type MeshData interface {
	NodeData
	// Pieces returns the axis-aligned boxes, in node-local coordinates,
	// whose union is the solid.
	Pieces() []Piece
}

// Piece is one axis-aligned box of a mesh payload.
type Piece struct {
	Center Vec3 `json:"center"`
	Size   Vec3 `json:"size"`
}

// Bounds returns the piece's local bounding box.
func (p Piece) Bounds() AABB {
	b := centeredAABB(p.Size)
	return AABB{Min: b.Min.Add(p.Center), Max: b.Max.Add(p.Center)}
}

// LocalBounds returns the bounding box of a mesh payload in node-local space.
func LocalBounds(d MeshData) AABB {
	b := EmptyAABB()
	for _, p := range d.Pieces() {
		b = b.Union(p.Bounds())
	}
	return b
}
