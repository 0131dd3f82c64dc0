// Package tessellate walks a scene graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per mesh node.
package tessellate

import (
	"fmt"

	"github.com/chazu/cratekit/pkg/graph"
	"github.com/chazu/cratekit/pkg/kernel"
)

// transformStack accumulates node transforms during graph traversal,
// outermost first.
type transformStack struct {
	transforms []graph.Transform
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(t graph.Transform) {
	ts.transforms = append(ts.transforms, t)
}

func (ts *transformStack) pop() {
	if len(ts.transforms) > 0 {
		ts.transforms = ts.transforms[:len(ts.transforms)-1]
	}
}

// apply places a node-local solid in world space by applying the stacked
// transforms from the innermost outward.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.transforms) - 1; i >= 0; i-- {
		s = applyTransform(k, s, ts.transforms[i])
	}
	return s
}

// applyTransform mirrors graph.Transform.Matrix with kernel operations:
// scale, move the pivot to the origin, rotate, then move into place.
func applyTransform(k kernel.Kernel, s kernel.Solid, t graph.Transform) kernel.Solid {
	if t.IsIdentity() {
		return s
	}
	if t.Scale != (graph.Vec3{X: 1, Y: 1, Z: 1}) {
		s = k.Scale(s, t.Scale.X, t.Scale.Y, t.Scale.Z)
	}
	if !t.Rotate.IsZero() {
		if !t.Pivot.IsZero() {
			s = k.Translate(s, -t.Pivot.X, -t.Pivot.Y, -t.Pivot.Z)
		}
		s = k.Rotate(s, t.Rotate.X, t.Rotate.Y, t.Rotate.Z)
		pos := t.Translate.Add(t.PivotOffset).Add(t.Pivot)
		if !pos.IsZero() {
			s = k.Translate(s, pos.X, pos.Y, pos.Z)
		}
		return s
	}
	// Without rotation the pivot terms cancel.
	pos := t.Translate.Add(t.PivotOffset)
	if !pos.IsZero() {
		s = k.Translate(s, pos.X, pos.Y, pos.Z)
	}
	return s
}

// Tessellate walks the subtree rooted at root and produces one triangle
// mesh per mesh node, in world space. Transforms of root's ancestors are
// applied too. The tessellator is read-only and never mutates the scene.
func Tessellate(s *graph.Scene, root graph.NodeID, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	n := s.Get(root)
	if n == nil {
		return nil, fmt.Errorf("tessellate: %w: %s", graph.ErrNodeNotFound, root.Short())
	}

	ts := newTransformStack()
	var ancestors []graph.Transform
	for cur := n.Parent; !cur.IsZero(); {
		p := s.Get(cur)
		if p == nil {
			return nil, fmt.Errorf("tessellate: %w: %s", graph.ErrNodeNotFound, cur.Short())
		}
		ancestors = append(ancestors, p.Transform)
		cur = p.Parent
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		ts.push(ancestors[i])
	}

	meshes, err := walkNode(s, k, n, ts)
	if err != nil {
		return nil, fmt.Errorf("tessellate: error walking %s: %w", n.Name, err)
	}
	return meshes, nil
}

// TessellateScene tessellates every root of the scene.
func TessellateScene(s *graph.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	var meshes []*kernel.Mesh
	for _, rootID := range s.Roots {
		collected, err := Tessellate(s, rootID, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// walkNode recursively traverses a node and its children, collecting meshes.
func walkNode(s *graph.Scene, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	ts.push(n.Transform)
	defer ts.pop()

	var meshes []*kernel.Mesh
	switch n.Kind {
	case graph.NodeMesh:
		mesh, err := handleMesh(k, n, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, mesh)
	case graph.NodeGroup:
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}

	for _, child := range s.Children(n) {
		collected, err := walkNode(s, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// handleMesh builds the node's solid from its pieces and tessellates it.
func handleMesh(k kernel.Kernel, n *graph.Node, ts *transformStack) (*kernel.Mesh, error) {
	md, ok := n.Data.(graph.MeshData)
	if !ok {
		return nil, fmt.Errorf("mesh node %s has unsupported data type %T", n.Name, n.Data)
	}
	pieces := md.Pieces()
	if len(pieces) == 0 {
		return nil, fmt.Errorf("mesh node %s has no geometry", n.Name)
	}

	solids := make([]kernel.Solid, 0, len(pieces))
	for _, p := range pieces {
		b := k.Box(p.Size.X, p.Size.Y, p.Size.Z)
		if !p.Center.IsZero() {
			b = k.Translate(b, p.Center.X, p.Center.Y, p.Center.Z)
		}
		solids = append(solids, b)
	}
	solid := ts.apply(k, k.Union(solids...))

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.Name, err)
	}

	// Set the part name: prefer the node's Name, fall back to short ID.
	if n.Name != "" {
		mesh.PartName = n.Name
	} else {
		mesh.PartName = n.ID.Short()
	}
	return mesh, nil
}
