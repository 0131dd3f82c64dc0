package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNodeNotFound is returned when an operation names a node the scene
	// does not contain.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrCycle is returned when parenting would make a node its own ancestor.
	ErrCycle = errors.New("graph: parenting would create a cycle")
)

// uniqueSuffix marks a requested name whose trailing '#' should be replaced
// with the lowest free positive integer.
const uniqueSuffix = "#"

// Scene is a mutable hierarchy of named nodes. Node names are unique within
// a scene; requested names that collide are given a numeric suffix.
// A Scene is not safe for concurrent mutation.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// UniqueName resolves a requested name against the names already in use.
//
//	"lid#"  -> "lid1", "lid2", ...
//	"box"   -> "box", then "box1", "box2", ...
//	"box3"  -> "box3", then "box4", ...
func (s *Scene) UniqueName(requested string) string {
	if strings.HasSuffix(requested, uniqueSuffix) {
		return s.nextFree(strings.TrimSuffix(requested, uniqueSuffix), 1)
	}
	if requested != "" && !s.taken(requested) {
		return requested
	}
	stem := strings.TrimRight(requested, "0123456789")
	start := 1
	if n, err := strconv.Atoi(requested[len(stem):]); err == nil {
		start = n + 1
	}
	if stem == "" {
		stem = "node"
	}
	return s.nextFree(stem, start)
}

func (s *Scene) nextFree(stem string, start int) string {
	for i := start; ; i++ {
		name := stem + strconv.Itoa(i)
		if !s.taken(name) {
			return name
		}
	}
}

func (s *Scene) taken(name string) bool {
	_, ok := s.NameIndex[name]
	return ok
}

// addNode registers a new root node under a uniquified name.
func (s *Scene) addNode(kind NodeKind, name string, data NodeData) *Node {
	name = s.UniqueName(name)
	n := &Node{
		ID:        NewNodeID("node/" + name),
		Kind:      kind,
		Name:      name,
		Transform: IdentityTransform(),
		Data:      data,
	}
	s.Nodes[n.ID] = n
	s.NameIndex[n.Name] = n.ID
	s.Roots = append(s.Roots, n.ID)
	return n
}

// CreateGroup adds an empty group at the scene root and returns its ID.
func (s *Scene) CreateGroup(name string) NodeID {
	return s.addNode(NodeGroup, name, GroupData{}).ID
}

// CreateMesh adds a mesh node at the scene root and returns its ID.
func (s *Scene) CreateMesh(name string, data MeshData) NodeID {
	return s.addNode(NodeMesh, name, data).ID
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

func (s *Scene) mustGet(id NodeID) (*Node, error) {
	n := s.Nodes[id]
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id.Short())
	}
	return n, nil
}

// Lookup returns the node with the given name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// List returns the names of all nodes whose name starts with prefix, sorted.
// An empty prefix lists every node.
func (s *Scene) List(prefix string) []string {
	var names []string
	for name := range s.NameIndex {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Children returns the child nodes of the given node.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Meshes returns all mesh nodes in the scene.
func (s *Scene) Meshes() []*Node {
	var meshes []*Node
	for _, n := range s.Nodes {
		if n.Kind == NodeMesh {
			meshes = append(meshes, n)
		}
	}
	return meshes
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}

// Walk visits id and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (s *Scene) Walk(id NodeID, fn func(n *Node, depth int) bool) {
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		n := s.Nodes[id]
		if n == nil || !fn(n, depth) {
			return
		}
		for _, cid := range n.Children {
			visit(cid, depth+1)
		}
	}
	visit(id, 0)
}

// Descendants returns every node below id, excluding id itself.
func (s *Scene) Descendants(id NodeID) []*Node {
	var out []*Node
	s.Walk(id, func(n *Node, depth int) bool {
		if depth > 0 {
			out = append(out, n)
		}
		return true
	})
	return out
}

// isAncestor reports whether candidate appears on the parent chain of id.
func (s *Scene) isAncestor(candidate, id NodeID) bool {
	for cur := id; !cur.IsZero(); {
		if cur == candidate {
			return true
		}
		n := s.Nodes[cur]
		if n == nil {
			return false
		}
		cur = n.Parent
	}
	return false
}

// Parent moves child under parent, keeping child's local transform.
// Passing ZeroID as parent moves child back to the scene root.
func (s *Scene) Parent(child, parent NodeID) error {
	c, err := s.mustGet(child)
	if err != nil {
		return fmt.Errorf("parent: child: %w", err)
	}
	if !parent.IsZero() {
		if _, err := s.mustGet(parent); err != nil {
			return fmt.Errorf("parent: parent: %w", err)
		}
		if s.isAncestor(child, parent) {
			return fmt.Errorf("parent %s under %s: %w", c.Name, s.Nodes[parent].Name, ErrCycle)
		}
	}

	s.detach(c)
	c.Parent = parent
	if parent.IsZero() {
		s.Roots = append(s.Roots, child)
	} else {
		p := s.Nodes[parent]
		p.Children = append(p.Children, child)
	}
	return nil
}

// detach removes n from its parent's child list or from the roots.
func (s *Scene) detach(n *Node) {
	if n.HasParent() {
		if p := s.Nodes[n.Parent]; p != nil {
			p.Children = removeID(p.Children, n.ID)
		}
		n.Parent = ZeroID
		return
	}
	s.Roots = removeID(s.Roots, n.ID)
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Duplicate deep-copies id and its subtree. The copy is placed next to the
// original (same parent) and every copied node receives a fresh unique name.
func (s *Scene) Duplicate(id NodeID) (NodeID, error) {
	src, err := s.mustGet(id)
	if err != nil {
		return ZeroID, fmt.Errorf("duplicate: %w", err)
	}
	dup := s.copySubtree(src)
	if src.HasParent() {
		if err := s.Parent(dup, src.Parent); err != nil {
			return ZeroID, fmt.Errorf("duplicate: %w", err)
		}
	}
	return dup, nil
}

func (s *Scene) copySubtree(src *Node) NodeID {
	n := s.addNode(src.Kind, src.Name, src.Data)
	n.Transform = src.Transform
	for _, cid := range src.Children {
		child := s.Nodes[cid]
		if child == nil {
			continue
		}
		copied := s.copySubtree(child)
		// Children of the copy are attached directly; copied is a root.
		s.Roots = removeID(s.Roots, copied)
		s.Nodes[copied].Parent = n.ID
		n.Children = append(n.Children, copied)
	}
	return n.ID
}

// Delete removes id and its subtree from the scene.
func (s *Scene) Delete(id NodeID) error {
	n, err := s.mustGet(id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	s.detach(n)
	for _, d := range append(s.Descendants(id), n) {
		delete(s.NameIndex, d.Name)
		delete(s.Nodes, d.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Transform operations
// ---------------------------------------------------------------------------

// Move sets the node's translation.
func (s *Scene) Move(id NodeID, to Vec3) error {
	n, err := s.mustGet(id)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	n.Transform.Translate = to
	return nil
}

// Rotate adds the given Euler angles, in degrees, to the node's rotation.
func (s *Scene) Rotate(id NodeID, by Vec3) error {
	n, err := s.mustGet(id)
	if err != nil {
		return fmt.Errorf("rotate: %w", err)
	}
	n.Transform.Rotate = n.Transform.Rotate.Add(by)
	return nil
}

// SetScale sets the node's scale factors.
func (s *Scene) SetScale(id NodeID, scale Vec3) error {
	n, err := s.mustGet(id)
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	n.Transform.Scale = scale
	return nil
}

// MovePivot shifts the node's rotate pivot by delta without moving the node.
func (s *Scene) MovePivot(id NodeID, delta Vec3) error {
	n, err := s.mustGet(id)
	if err != nil {
		return fmt.Errorf("pivot: %w", err)
	}
	n.Transform = n.Transform.WithPivot(n.Transform.Pivot.Add(delta))
	return nil
}

// ---------------------------------------------------------------------------
// World space
// ---------------------------------------------------------------------------

// WorldMatrix returns the node's local-to-world matrix.
func (s *Scene) WorldMatrix(id NodeID) (mgl64.Mat4, error) {
	m := mgl64.Ident4()
	for cur := id; !cur.IsZero(); {
		n, err := s.mustGet(cur)
		if err != nil {
			return m, fmt.Errorf("world matrix: %w", err)
		}
		m = n.Transform.Matrix().Mul4(m)
		cur = n.Parent
	}
	return m, nil
}

// Bounds returns the world-space bounding box of every mesh at or below id.
func (s *Scene) Bounds(id NodeID) (AABB, error) {
	if _, err := s.mustGet(id); err != nil {
		return EmptyAABB(), fmt.Errorf("bounds: %w", err)
	}
	out := EmptyAABB()
	var walkErr error
	s.Walk(id, func(n *Node, _ int) bool {
		md, ok := n.Data.(MeshData)
		if !ok {
			return true
		}
		m, err := s.WorldMatrix(n.ID)
		if err != nil {
			walkErr = err
			return false
		}
		out = out.Union(TransformAABB(m, LocalBounds(md)))
		return true
	})
	return out, walkErr
}
