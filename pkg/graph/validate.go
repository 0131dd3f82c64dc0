package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs all Tier 1 structural checks on the scene and returns a
// slice of findings. An empty slice means the hierarchy is consistent.
// This function is read-only and never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateAcyclic(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateLinks(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	return errs
}

// ValidateAll runs the structural and geometric tiers and returns a
// ValidationResult with separated errors and warnings.
func ValidateAll(s *Scene) ValidationResult {
	tier1 := Validate(s)
	tier2Errs, tier2Warnings := validateGeometry(s)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)
	return result
}

// validateAcyclic checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateAcyclic(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is its own ancestor", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range s.Nodes {
		if color[id] == white {
			if visit(id) {
				break
			}
		}
	}
	return errs
}

// validateReferences checks that every child and parent reference points to
// a node that exists.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
		if node.HasParent() {
			if _, ok := s.Nodes[node.Parent]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("parent reference %s does not exist", node.Parent.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateLinks checks that parent and child links agree: every child names
// its parent, each node appears under exactly one parent, and mesh nodes do
// not parent other nodes.
func validateLinks(s *Scene) []ValidationError {
	var errs []ValidationError
	owners := make(map[NodeID]int)

	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			owners[childID]++
			child := s.Nodes[childID]
			if child == nil {
				continue
			}
			if child.Parent != node.ID {
				errs = append(errs, ValidationError{
					NodeID:   childID,
					Message:  fmt.Sprintf("listed under %q but its parent link disagrees", node.Name),
					Severity: SeverityError,
				})
			}
		}
		if node.Kind == NodeMesh && len(node.Children) > 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("mesh %q has %d children; only groups may parent nodes", node.Name, len(node.Children)),
				Severity: SeverityWarning,
			})
		}
	}

	for id, n := range owners {
		if n > 1 {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node is listed under %d parents", n),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateNames checks that the NameIndex is injective and that every entry
// points to an existing node carrying that name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		node, ok := s.Nodes[id]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if node.Name != name {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name index entry %q points at node named %q", name, node.Name),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range s.Nodes {
		if node.Name == "" {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "node has no name",
				Severity: SeverityError,
			})
			continue
		}
		nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that every root exists and has no parent, and that
// every parentless node is registered as a root.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError

	isRoot := make(map[NodeID]bool, len(s.Roots))
	for _, rid := range s.Roots {
		if isRoot[rid] {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  "root listed more than once",
				Severity: SeverityError,
			})
		}
		isRoot[rid] = true

		node, ok := s.Nodes[rid]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if node.HasParent() {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root %q has a parent", node.Name),
				Severity: SeverityError,
			})
		}
	}

	for id, node := range s.Nodes {
		if !node.HasParent() && !isRoot[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q has no parent and is not a root (orphan)", node.Name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
