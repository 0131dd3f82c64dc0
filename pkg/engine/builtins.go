package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/cratekit/pkg/boxgen"
	"github.com/chazu/cratekit/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms box script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: slab-angle -> slab_angle
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(node %q)", n.name)
	}
	return fmt.Sprintf("(node %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
// A keyword directly followed by another keyword takes it as its value,
// so :style :slabs works.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp. Floats are accepted when they
// have no fractional part and fit in an int32.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("expected whole number, got %g", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("whole number %g out of range", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_up) and plain strings ("up").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toSide converts a keyword or string to a boxgen.Side.
func toSide(s zygo.Sexp) (boxgen.Side, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected side keyword (:front, :back, :right, :left): %w", err)
	}
	for _, side := range boxgen.Sides {
		if side.String() == name {
			return side, nil
		}
	}
	return 0, fmt.Errorf("invalid side %q, expected front, back, right, or left", name)
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toParams overlays the keyword arguments of a (box ...) form on defaults.
func toParams(pa kwArgs, defaults boxgen.Params) (boxgen.Params, error) {
	p := defaults
	dims := map[string]*float64{
		"width":  &p.Width,
		"height": &p.Height,
		"depth":  &p.Depth,
	}
	for key, v := range pa.kw {
		switch key {
		case "width", "height", "depth":
			f, err := toFloat64(v)
			if err != nil {
				return p, fmt.Errorf("%s: %w", key, err)
			}
			*dims[key] = f
		case "angle":
			a, err := toInt(v)
			if err != nil {
				return p, fmt.Errorf("angle: %w", err)
			}
			p.Angle = a
		case "style":
			s, err := toKeywordString(v)
			if err != nil {
				return p, fmt.Errorf("style: %w", err)
			}
			p.Style = boxgen.Style(s)
		case "orientation":
			s, err := toKeywordString(v)
			if err != nil {
				return p, fmt.Errorf("orientation: %w", err)
			}
			p.Orientation = boxgen.Orientation(s)
		default:
			return p, fmt.Errorf("unknown option :%s", key)
		}
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the box DSL builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *graph.Scene, defaults boxgen.Params) {

	// -----------------------------------------------------------------------
	// (box :width 4 :height 5 :depth 5 :angle 20 :style :slabs :orientation :down)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("box: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}
		p, err := toParams(pa, defaults)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		res, err := boxgen.Generate(s, p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpNodeRef{id: res.Root, name: s.Get(res.Root).Name}, nil
	})

	// -----------------------------------------------------------------------
	// (thickness 4 5 5) => 0.1333
	// -----------------------------------------------------------------------
	env.AddFunction("thickness", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("thickness requires exactly 3 arguments, got %d", len(args))
		}
		var dims [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("thickness: argument %d: %w", i+1, err)
			}
			dims[i] = f
		}
		p := boxgen.Params{Width: dims[0], Height: dims[1], Depth: dims[2]}
		return &zygo.SexpFloat{Val: p.Thickness()}, nil
	})

	// -----------------------------------------------------------------------
	// (slab-angle :front :up 20) => -20
	//
	// Registered as "slab_angle"; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("slab_angle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("slab-angle requires side, orientation and angle, got %d arguments", len(args))
		}
		side, err := toSide(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab-angle: %w", err)
		}
		label, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab-angle: orientation: %w", err)
		}
		o, err := boxgen.ParseOrientation(label)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab-angle: %w", err)
		}
		angle, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab-angle: angle: %w", err)
		}
		return &zygo.SexpFloat{Val: boxgen.SlabAngle(side, o, angle)}, nil
	})

	// -----------------------------------------------------------------------
	// (node "Box1")
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("node requires a name argument")
		}
		nodeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: name: %w", err)
		}
		n := s.Lookup(nodeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("node: no node named %q", nodeName)
		}
		return &sexpNodeRef{id: n.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: graph.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (move (box ...) :to (vec3 10 0 0))
	// (rotate (node "Box") :by (vec3 0 45 0))
	// -----------------------------------------------------------------------
	transformFn := func(op, key string, apply func(graph.NodeID, graph.Vec3) error) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a node reference as first argument", op)
			}
			ref, ok := pa.positional[0].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: expected node reference, got %s", op, pa.positional[0].SexpString(nil))
			}
			v, ok := pa.kw[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s requires :%s", op, key)
			}
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %s: %w", op, key, err)
			}
			if err := apply(ref.id, vec); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			return ref, nil
		}
	}
	env.AddFunction("move", transformFn("move", "to", s.Move))
	env.AddFunction("rotate", transformFn("rotate", "by", s.Rotate))
}
