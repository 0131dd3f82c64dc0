// Package boxgen builds a parametric crate in a scene graph: a hollow body
// with corner posts, finished with either a flattened lid or four angled
// slabs.
package boxgen

import (
	"errors"
	"fmt"

	"github.com/chazu/cratekit/pkg/graph"
	log "github.com/sirupsen/logrus"
)

// Requested node names. Collisions are resolved by the scene.
const (
	RootName = "Box"
	MainName = "box_main#"
	BodyName = "box"
	LidName  = "lid#"
)

// CornerNames are the requested post names, in the order
// (+X,+Z), (+X,-Z), (-X,+Z), (-X,-Z).
var CornerNames = [4]string{"cornerA", "cornerB", "cornerC", "cornerD"}

// LidScale flattens the duplicated box into a cap.
var LidScale = graph.Vec3{X: 1.1, Y: 0.1, Z: 1.1}

// ErrNilScene is returned when Generate is given no scene to build into.
var ErrNilScene = errors.New("boxgen: nil scene")

// Result records the nodes created by one generation.
type Result struct {
	Root      graph.NodeID    `json:"root"`
	Main      graph.NodeID    `json:"main"`
	Body      graph.NodeID    `json:"body"`
	Corners   [4]graph.NodeID `json:"corners"`
	Lid       graph.NodeID    `json:"lid,omitempty"`   // zero unless StyleLid
	Slabs     []graph.NodeID  `json:"slabs,omitempty"` // front, back, right, left
	Thickness float64         `json:"thickness"`
	Params    Params          `json:"params"`
}

// Generate validates p and builds a new crate in s. Invalid parameters
// leave the scene untouched.
func Generate(s *graph.Scene, p Params) (*Result, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := &generator{s: s, p: p, t: p.Thickness()}
	res, err := g.run()
	if err != nil {
		return nil, fmt.Errorf("boxgen: %w", err)
	}

	log.WithFields(log.Fields{
		"root":      s.Get(res.Root).Name,
		"style":     p.Style,
		"thickness": res.Thickness,
		"nodes":     len(s.Descendants(res.Root)) + 1,
	}).Debug("generated box")
	return res, nil
}

// generator carries the state of a single generation.
type generator struct {
	s   *graph.Scene
	p   Params
	t   float64
	err error
}

// do records the first failing scene operation.
func (g *generator) do(err error) {
	if g.err == nil && err != nil {
		g.err = err
	}
}

func (g *generator) run() (*Result, error) {
	s, p, t := g.s, g.p, g.t
	res := &Result{Thickness: t, Params: p}

	res.Main = s.CreateGroup(MainName)
	res.Root = s.CreateGroup(RootName)

	res.Body = g.body()
	for i := range CornerNames {
		res.Corners[i] = g.corner(i)
	}

	if p.Style == StyleLid {
		res.Lid = g.lid(res)
	}

	if p.Style == StyleSlabs {
		outerWidth := p.Width + 2*t
		placements := slabPlacements(outerWidth, p.Height, p.Depth, t)
		for _, side := range Sides {
			res.Slabs = append(res.Slabs, g.slab(side, placements[side], res.Root))
		}
	}

	g.do(s.Parent(res.Body, res.Main))
	for _, c := range res.Corners {
		g.do(s.Parent(c, res.Main))
	}
	g.do(s.Parent(res.Main, res.Root))

	if g.err != nil {
		return nil, g.err
	}
	return res, nil
}

// body creates the open-top shell with its base on y=0.
func (g *generator) body() graph.NodeID {
	p := g.p
	id := g.s.CreateMesh(BodyName, graph.ShellData{
		Size:      graph.Vec3{X: p.Width, Y: p.Height, Z: p.Depth},
		Thickness: g.t,
		Open:      graph.FaceTop,
	})
	g.do(g.s.Move(id, graph.Vec3{Y: p.Height / 2}))
	return id
}

// corner creates post i flush against the outer corner of the walls.
func (g *generator) corner(i int) graph.NodeID {
	p, t := g.p, g.t
	x := p.Width/2 + t/2
	z := p.Depth/2 + t/2
	if i >= 2 {
		x = -x
	}
	if i%2 == 1 {
		z = -z
	}
	id := g.s.CreateMesh(CornerNames[i], graph.CuboidData{Size: graph.Vec3{X: t, Y: p.Height, Z: t}})
	g.do(g.s.Move(id, graph.Vec3{X: x, Y: p.Height / 2, Z: z}))
	return id
}

// lid duplicates the body and posts, flattens the copies into a cap and
// sets it on top of the box.
func (g *generator) lid(res *Result) graph.NodeID {
	s := g.s
	parts := append([]graph.NodeID{res.Body}, res.Corners[:]...)
	dups := make([]graph.NodeID, 0, len(parts))
	for _, id := range parts {
		dup, err := s.Duplicate(id)
		g.do(err)
		if err == nil {
			dups = append(dups, dup)
		}
	}

	lid := s.CreateGroup(LidName)
	for _, dup := range dups {
		g.do(s.Parent(dup, lid))
	}
	g.do(s.SetScale(lid, LidScale))
	g.do(s.Rotate(lid, graph.Vec3{Z: 180}))
	g.do(s.Move(lid, graph.Vec3{Y: g.p.Height}))
	g.do(s.Parent(lid, res.Root))
	return lid
}

// slab creates one hinged slab and parents it under root.
func (g *generator) slab(side Side, pl slabPlacement, root graph.NodeID) graph.NodeID {
	s := g.s
	id := s.CreateMesh(side.NodeName(), pl.data)
	if pl.yaw != 0 {
		g.do(s.Rotate(id, graph.Vec3{Y: pl.yaw}))
	}
	g.do(s.Move(id, pl.at))
	g.do(s.MovePivot(id, pl.pivot))
	g.do(s.Rotate(id, pl.axis.Scale(SlabAngle(side, g.p.Orientation, g.p.Angle))))
	g.do(s.Parent(id, root))
	return id
}
