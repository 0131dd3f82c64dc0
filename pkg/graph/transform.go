package graph

import "github.com/go-gl/mathgl/mgl64"

// Transform is a node's local placement relative to its parent.
//
// The local matrix is
//
//	Translate(Translate + PivotOffset + Pivot) * R * Translate(-Pivot) * Scale
//
// where R applies X, then Y, then Z Euler rotations. Pivot is the rotate
// pivot in the node's own coordinates; PivotOffset absorbs pivot moves so
// the node stays put when its pivot changes.
type Transform struct {
	Translate   Vec3 `json:"translate"`
	Rotate      Vec3 `json:"rotate"` // Euler angles in degrees
	Scale       Vec3 `json:"scale"`
	Pivot       Vec3 `json:"pivot"`
	PivotOffset Vec3 `json:"pivot_offset"`
}

// IdentityTransform returns a transform that leaves geometry unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// IsIdentity reports whether t leaves geometry unchanged.
func (t Transform) IsIdentity() bool {
	return t.Translate.IsZero() && t.Rotate.IsZero() && t.PivotOffset.IsZero() &&
		t.Scale == (Vec3{1, 1, 1})
}

// RotationMatrix returns the homogeneous rotation Rz * Ry * Rx.
func (t Transform) RotationMatrix() mgl64.Mat4 {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(t.Rotate.X))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(t.Rotate.Y))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(t.Rotate.Z))
	return rz.Mul4(ry).Mul4(rx)
}

// Matrix returns the local-to-parent matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	pos := t.Translate.Add(t.PivotOffset).Add(t.Pivot)
	return mgl64.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(t.RotationMatrix()).
		Mul4(mgl64.Translate3D(-t.Pivot.X, -t.Pivot.Y, -t.Pivot.Z)).
		Mul4(mgl64.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z))
}

// WithPivot returns t with its rotate pivot moved to p, compensating
// PivotOffset so Matrix is unchanged.
func (t Transform) WithPivot(p Vec3) Transform {
	r := t.RotationMatrix()
	rotate := func(v Vec3) Vec3 {
		return fromMgl(r.Mul4x1(v.mgl().Vec4(0)).Vec3())
	}
	oldShift := t.Pivot.Sub(rotate(t.Pivot))
	newShift := p.Sub(rotate(p))
	t.PivotOffset = t.PivotOffset.Add(oldShift).Sub(newShift)
	t.Pivot = p
	return t
}

// TransformPoint applies m to a point.
func TransformPoint(m mgl64.Mat4, p Vec3) Vec3 {
	return fromMgl(m.Mul4x1(p.mgl().Vec4(1)).Vec3())
}

// TransformAABB returns the axis-aligned box enclosing b after m.
func TransformAABB(m mgl64.Mat4, b AABB) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.Extend(TransformPoint(m, c))
	}
	return out
}
