package graph

import (
	"fmt"
	"math"
)

// MinFeatureSize is the smallest wall, post or slab thickness that is
// reported without a warning. Thinner features usually vanish when
// tessellated.
const MinFeatureSize = 1e-3

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateDimensions(s)...)
	errs = append(errs, validateTransforms(s)...)
	warnings = append(warnings, validateFeatureSize(s)...)

	return errs, warnings
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func dimensionError(id NodeID, what string, v float64) ValidationError {
	return ValidationError{
		NodeID:   id,
		Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
		Severity: SeverityError,
	}
}

// validateDimensions checks that every mesh payload has positive extents.
func validateDimensions(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, node := range s.Nodes {
		switch d := node.Data.(type) {
		case ShellData:
			for _, c := range []struct {
				what string
				v    float64
			}{
				{"shell width", d.Size.X},
				{"shell height", d.Size.Y},
				{"shell depth", d.Size.Z},
				{"shell thickness", d.Thickness},
			} {
				if !positive(c.v) {
					errs = append(errs, dimensionError(node.ID, c.what, c.v))
				}
			}
			if d.Open != FaceTop && d.Open != FaceBottom {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("shell open face %q must be top or bottom", d.Open),
					Severity: SeverityError,
				})
			}
			if positive(d.Thickness) && d.Thickness >= d.Size.Y {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("shell thickness %.4f fills its height %.4f", d.Thickness, d.Size.Y),
					Severity: SeverityError,
				})
			}
		case CuboidData:
			if !positive(d.Size.X) {
				errs = append(errs, dimensionError(node.ID, "cuboid X", d.Size.X))
			}
			if !positive(d.Size.Y) {
				errs = append(errs, dimensionError(node.ID, "cuboid Y", d.Size.Y))
			}
			if !positive(d.Size.Z) {
				errs = append(errs, dimensionError(node.ID, "cuboid Z", d.Size.Z))
			}
		case SlabData:
			if !positive(d.Width) {
				errs = append(errs, dimensionError(node.ID, "slab width", d.Width))
			}
			if !positive(d.Length) {
				errs = append(errs, dimensionError(node.ID, "slab length", d.Length))
			}
			if !positive(d.Thickness) {
				errs = append(errs, dimensionError(node.ID, "slab thickness", d.Thickness))
			}
		}
	}
	return errs
}

// validateTransforms rejects zero scale factors and non-finite values,
// which collapse or poison world matrices.
func validateTransforms(s *Scene) []ValidationError {
	var errs []ValidationError

	finite := func(v Vec3) bool {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
		return true
	}

	for _, node := range s.Nodes {
		t := node.Transform
		if !finite(t.Translate) || !finite(t.Rotate) || !finite(t.Scale) ||
			!finite(t.Pivot) || !finite(t.PivotOffset) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "transform contains NaN or Inf",
				Severity: SeverityError,
			})
			continue
		}
		if t.Scale.X == 0 || t.Scale.Y == 0 || t.Scale.Z == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("scale %s has a zero factor", t.Scale),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateFeatureSize warns about walls, posts and slabs thinner than
// MinFeatureSize.
func validateFeatureSize(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range s.Nodes {
		var thin float64
		switch d := node.Data.(type) {
		case ShellData:
			thin = d.Thickness
		case SlabData:
			thin = d.Thickness
		case CuboidData:
			thin = math.Min(d.Size.X, math.Min(d.Size.Y, d.Size.Z))
		default:
			continue
		}
		if thin > 0 && thin < MinFeatureSize {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%q is %.6f thick, below %.4f; it may not survive tessellation", node.Name, thin, MinFeatureSize),
			})
		}
	}
	return warnings
}
