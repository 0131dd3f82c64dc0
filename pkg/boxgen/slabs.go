package boxgen

import "github.com/chazu/cratekit/pkg/graph"

// Side identifies one of the four slabs.
type Side int

const (
	SideFront Side = iota // +Z
	SideBack              // -Z
	SideRight             // +X
	SideLeft              // -X
)

// Sides lists the slabs in creation order.
var Sides = []Side{SideFront, SideBack, SideRight, SideLeft}

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// slabNames are the requested scene names, indexed by Side.
var slabNames = [...]string{"slabA", "slabB", "slabC", "slabD"}

// Valid reports whether s is one of the four slabs.
func (s Side) Valid() bool {
	return s >= SideFront && s <= SideLeft
}

// NodeName is the requested scene name of the side's slab, or "" for an
// invalid side.
func (s Side) NodeName() string {
	if !s.Valid() {
		return ""
	}
	return slabNames[s]
}

// flareSign is the rotation sign that tips a slab upward.
var flareSign = map[Side]float64{
	SideFront: -1,
	SideBack:  +1,
	SideRight: +1,
	SideLeft:  -1,
}

// SlabAngle returns the signed hinge rotation in degrees for a slab. An
// invalid side gets no rotation.
//
//	side   up      down
//	front  -angle  +angle
//	back   +angle  -angle
//	right  +angle  -angle
//	left   -angle  +angle
func SlabAngle(side Side, o Orientation, angle int) float64 {
	if !side.Valid() {
		return 0
	}
	a := flareSign[side] * float64(angle)
	if o == OrientDown {
		a = -a
	}
	return a
}

// slabPlacement is the transform sequence applied to one slab.
type slabPlacement struct {
	data  graph.SlabData
	yaw   float64    // degrees about Y, applied before placement
	at    graph.Vec3 // translation
	pivot graph.Vec3 // pivot shift toward the hinge
	axis  graph.Vec3 // unit hinge axis
}

// slabPlacements lays the four slabs along the top edges. outerWidth
// includes both side walls.
func slabPlacements(outerWidth, height, depth, t float64) map[Side]slabPlacement {
	y := height - t
	front := graph.SlabData{Width: outerWidth, Length: depth / 2, Thickness: t}
	side := graph.SlabData{Width: depth, Length: outerWidth / 2, Thickness: t}
	return map[Side]slabPlacement{
		SideFront: {
			data:  front,
			at:    graph.Vec3{Y: y, Z: depth * 0.75},
			pivot: graph.Vec3{Z: -depth / 4},
			axis:  graph.Vec3{X: 1},
		},
		SideBack: {
			data:  front,
			at:    graph.Vec3{Y: y, Z: -depth * 0.75},
			pivot: graph.Vec3{Z: depth / 4},
			axis:  graph.Vec3{X: 1},
		},
		SideRight: {
			data:  side,
			yaw:   90,
			at:    graph.Vec3{X: outerWidth * 0.75, Y: y},
			pivot: graph.Vec3{Z: -outerWidth / 4},
			axis:  graph.Vec3{Z: 1},
		},
		SideLeft: {
			data:  side,
			yaw:   90,
			at:    graph.Vec3{X: -outerWidth * 0.75, Y: y},
			pivot: graph.Vec3{Z: outerWidth / 4},
			axis:  graph.Vec3{Z: 1},
		},
	}
}
