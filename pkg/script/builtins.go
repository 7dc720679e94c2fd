package script

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/heartwood/pkg/csg"
)

// buildState accumulates the output of one evaluation: emitted roots
// and, when an assertion fails, the typed abort error.
type buildState struct {
	roots []*csg.Node
	abort error
}

// ---------------------------------------------------------------------------
// Sexp wrappers for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps a CSG subtree so builtins can compose trees by value.
type sexpNode struct {
	node *csg.Node
}

func (s *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %s %s)", s.node.Kind, s.node.Hash().Short())
}
func (s *sexpNode) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec csg.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpVec2 struct {
	vec csg.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.3f %.3f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string. Returns the
// keyword name without the prefix.
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

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates a mixed argument list into keyword and
// positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
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

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (csg.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return csg.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toVec2(s zygo.Sexp) (csg.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return csg.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

func toNode(s zygo.Sexp) (*csg.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toNodes converts a slice of positionals into subtree operands.
func toNodes(args []zygo.Sexp, what string) ([]*csg.Node, error) {
	nodes := make([]*csg.Node, 0, len(args))
	for i, a := range args {
		n, err := toNode(a)
		if err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", what, i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// oneChild collapses operand children into a single subtree, grouping
// when there is more than one.
func oneChild(nodes []*csg.Node, what string) (*csg.Node, error) {
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%s: requires at least one child shape", what)
	case 1:
		return nodes[0], nil
	default:
		return csg.NewGroup(nodes...), nil
	}
}

// kwFloat reads an optional keyword number, leaving def when absent.
func kwFloat(pa kwArgs, name string, def float64) (float64, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func kwInt(pa kwArgs, name string, def int) (int, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func kwBool(pa kwArgs, name string, def bool) (bool, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	b, err := toBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the DSL vocabulary into a zygomys
// environment. Builtins build csg nodes by value and thread them
// through the Lisp program; emit registers finished roots on st.
func registerBuiltins(env *zygo.Zlisp, st *buildState) {

	// (cube 10), (cube (vec3 20 10 5) :center true)
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := pa.kw["size"]
		if size == nil && len(pa.positional) > 0 {
			size = pa.positional[0]
		}
		if size == nil {
			return zygo.SexpNull, fmt.Errorf("cube: requires a size (number or vec3)")
		}

		var w, h, d float64
		if v, err := toVec3(size); err == nil {
			w, h, d = v.X, v.Y, v.Z
		} else if f, err := toFloat64(size); err == nil {
			w, h, d = f, f, f
		} else {
			return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
		}

		center, err := kwBool(pa, "center", false)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		return &sexpNode{node: csg.NewCuboid(w, h, d, center)}, nil
	})

	// (cylinder :h 10 :d 5), (cylinder :h 8 :d1 6 :d2 0 :center true)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		h, err := kwFloat(pa, "h", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		d1, d2 := 0.0, 0.0
		if r, err := kwFloat(pa, "r", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		} else if r >= 0 {
			d1, d2 = 2*r, 2*r
		}
		if d, err := kwFloat(pa, "d", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		} else if d >= 0 {
			d1, d2 = d, d
		}
		if r1, err := kwFloat(pa, "r1", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		} else if r1 >= 0 {
			d1 = 2 * r1
		}
		if r2, err := kwFloat(pa, "r2", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		} else if r2 >= 0 {
			d2 = 2 * r2
		}
		if v, err := kwFloat(pa, "d1", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		} else if v >= 0 {
			d1 = v
		}
		if v, err := kwFloat(pa, "d2", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		} else if v >= 0 {
			d2 = v
		}

		center, err := kwBool(pa, "center", false)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		segments, err := kwInt(pa, "segments", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		return &sexpNode{node: csg.NewCylinder(d1, d2, h, center, segments)}, nil
	})

	// (sphere :r 5), (sphere :d 10 :segments 48)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		r, err := kwFloat(pa, "r", -1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if d, err := kwFloat(pa, "d", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		} else if d >= 0 {
			r = d / 2
		}
		if r < 0 && len(pa.positional) > 0 {
			r, err = toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
		}

		segments, err := kwInt(pa, "segments", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpNode{node: csg.NewSphere(r, segments)}, nil
	})

	// (square 10), (square (vec2 8 3) :center true)
	env.AddFunction("square", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := pa.kw["size"]
		if size == nil && len(pa.positional) > 0 {
			size = pa.positional[0]
		}
		if size == nil {
			return zygo.SexpNull, fmt.Errorf("square: requires a size (number or vec2)")
		}

		var w, h float64
		if v, err := toVec2(size); err == nil {
			w, h = v.X, v.Y
		} else if f, err := toFloat64(size); err == nil {
			w, h = f, f
		} else {
			return zygo.SexpNull, fmt.Errorf("square: size: %w", err)
		}

		center, err := kwBool(pa, "center", false)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("square: %w", err)
		}

		var x0, y0 float64
		if center {
			x0, y0 = -w/2, -h/2
		}
		pts := []csg.Vec2{
			{X: x0, Y: y0},
			{X: x0 + w, Y: y0},
			{X: x0 + w, Y: y0 + h},
			{X: x0, Y: y0 + h},
		}
		return &sexpNode{node: csg.NewPolygon(pts)}, nil
	})

	// (circle :r 4), (circle :d 10 :segments 64)
	// The outline is fixed at build time: the segment count comes from
	// the explicit override or the default resolution formula.
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		r, err := kwFloat(pa, "r", -1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		if d, err := kwFloat(pa, "d", -1); err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		} else if d >= 0 {
			r = d / 2
		}
		if r < 0 && len(pa.positional) > 0 {
			r, err = toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
			}
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive")
		}

		override, err := kwInt(pa, "segments", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		n, err := csg.DefaultResolution().SegmentsFor(r, override)
		if err != nil {
			st.abort = err
			return zygo.SexpNull, fmt.Errorf("circle: %v", err)
		}

		pts := make([]csg.Vec2, n)
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = csg.Vec2{X: r * math.Cos(a), Y: r * math.Sin(a)}
		}
		return &sexpNode{node: csg.NewPolygon(pts)}, nil
	})

	// (polygon (list (vec2 0 0) (vec2 10 0) (vec2 5 8)))
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		src := pa.kw["points"]
		if src == nil && len(pa.positional) > 0 {
			src = pa.positional[0]
		}
		if src == nil {
			return zygo.SexpNull, fmt.Errorf("polygon: requires a list of vec2 points")
		}

		items, err := sexpListToSlice(src)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: points: %w", err)
		}
		pts := make([]csg.Vec2, 0, len(items))
		for i, item := range items {
			v, err := toVec2(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
			}
			pts = append(pts, v)
		}
		return &sexpNode{node: csg.NewPolygon(pts)}, nil
	})

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v [3]float64
		for i := range v {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: csg.Vec3{X: v[0], Y: v[1], Z: v[2]}}, nil
	})

	// (vec2 1 2)
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: csg.Vec2{X: x, Y: y}}, nil
	})

	// (translate (vec3 0 0 5) shape...)
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("translate: requires an offset and a child shape")
		}
		v, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
		}
		nodes, err := toNodes(pa.positional[1:], "translate")
		if err != nil {
			return zygo.SexpNull, err
		}
		child, err := oneChild(nodes, "translate")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNode{node: csg.NewTransform(csg.Translate(v), child)}, nil
	})

	// (rotate (vec3 0 0 90) shape...), (rotate 45 shape) rotates about Z
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("rotate: requires angles and a child shape")
		}

		var m csg.Matrix
		if v, err := toVec3(pa.positional[0]); err == nil {
			m = csg.RotateXYZ(v.X, v.Y, v.Z)
		} else if deg, err := toFloat64(pa.positional[0]); err == nil {
			m = csg.RotateXYZ(0, 0, deg)
		} else {
			return zygo.SexpNull, fmt.Errorf("rotate: angles: %w", err)
		}

		nodes, err := toNodes(pa.positional[1:], "rotate")
		if err != nil {
			return zygo.SexpNull, err
		}
		child, err := oneChild(nodes, "rotate")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNode{node: csg.NewTransform(m, child)}, nil
	})

	// (scale (vec3 2 1 1) shape...), (scale 2 shape) scales uniformly
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("scale: requires factors and a child shape")
		}

		var v csg.Vec3
		if vv, err := toVec3(pa.positional[0]); err == nil {
			v = vv
		} else if f, err := toFloat64(pa.positional[0]); err == nil {
			v = csg.Vec3{X: f, Y: f, Z: f}
		} else {
			return zygo.SexpNull, fmt.Errorf("scale: factors: %w", err)
		}

		nodes, err := toNodes(pa.positional[1:], "scale")
		if err != nil {
			return zygo.SexpNull, err
		}
		child, err := oneChild(nodes, "scale")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNode{node: csg.NewTransform(csg.ScaleXYZ(v), child)}, nil
	})

	// (mirror (vec3 1 0 0) shape...) reflects across the plane whose
	// normal is the given vector.
	env.AddFunction("mirror", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("mirror: requires a normal and a child shape")
		}
		v, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: normal: %w", err)
		}
		nodes, err := toNodes(pa.positional[1:], "mirror")
		if err != nil {
			return zygo.SexpNull, err
		}
		child, err := oneChild(nodes, "mirror")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNode{node: csg.NewTransform(csg.Mirror(v), child)}, nil
	})

	boolBuiltin := func(fname string, op csg.BoolOp) {
		env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			nodes, err := toNodes(args, fname)
			if err != nil {
				return zygo.SexpNull, err
			}
			if len(nodes) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s: requires at least one child shape", fname)
			}
			acc := nodes[0]
			for _, n := range nodes[1:] {
				acc = csg.NewBoolean(op, acc, n)
			}
			return &sexpNode{node: acc}, nil
		})
	}
	boolBuiltin("union", csg.BoolUnion)
	boolBuiltin("difference", csg.BoolDifference)
	boolBuiltin("intersection", csg.BoolIntersection)

	// (hull shape shape ...)
	env.AddFunction("hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		nodes, err := toNodes(args, "hull")
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(nodes) == 0 {
			return zygo.SexpNull, fmt.Errorf("hull: requires at least one child shape")
		}
		return &sexpNode{node: csg.NewHull(nodes...)}, nil
	})

	// (linear-extrude :height 10 :twist 90 :scale 0.5 profile)
	env.AddFunction("linear_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		height, err := kwFloat(pa, "height", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: %w", err)
		}
		twist, err := kwFloat(pa, "twist", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: %w", err)
		}
		scale, err := kwFloat(pa, "scale", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: %w", err)
		}
		segments, err := kwInt(pa, "segments", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: %w", err)
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: requires exactly one profile child")
		}
		profile, err := toNode(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: profile: %w", err)
		}

		data := csg.ExtrudeData{
			Mode:     csg.ExtrudeLinear,
			Height:   height,
			Twist:    twist,
			Scale:    scale,
			Segments: segments,
		}
		return &sexpNode{node: csg.NewNode(csg.NodeExtrude, "", data, profile)}, nil
	})

	// (rotate-extrude :angle 270 profile)
	env.AddFunction("rotate_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		angle, err := kwFloat(pa, "angle", 360)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-extrude: %w", err)
		}
		segments, err := kwInt(pa, "segments", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-extrude: %w", err)
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("rotate-extrude: requires exactly one profile child")
		}
		profile, err := toNode(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-extrude: profile: %w", err)
		}

		data := csg.ExtrudeData{
			Mode:     csg.ExtrudeRevolve,
			Angle:    angle,
			Segments: segments,
		}
		return &sexpNode{node: csg.NewNode(csg.NodeExtrude, "", data, profile)}, nil
	})

	// (resolution :segments 64 shape...), (resolution :angle 6 :size 0.5 ...)
	env.AddFunction("resolution", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		var res csg.Resolution
		var err error
		if res.Segments, err = kwInt(pa, "segments", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("resolution: %w", err)
		}
		if res.AngleDeg, err = kwFloat(pa, "angle", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("resolution: %w", err)
		}
		if res.SizeMM, err = kwFloat(pa, "size", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("resolution: %w", err)
		}

		nodes, err := toNodes(pa.positional, "resolution")
		if err != nil {
			return zygo.SexpNull, err
		}
		child, err := oneChild(nodes, "resolution")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNode{node: csg.NewResolution(res, child)}, nil
	})

	// (assert-that (> width 0) "width must be positive")
	// A failing assertion aborts the whole build before any geometry
	// is materialized.
	env.AddFunction("assert_that", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assert-that: requires a condition")
		}
		ok, err := toBool(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assert-that: condition: %w", err)
		}
		if ok {
			return zygo.SexpNull, nil
		}

		msg := "assertion failed"
		if len(args) > 1 {
			if s, err := toString(args[1]); err == nil {
				msg = s
			}
		}
		perr := &csg.ParameterError{Kind: csg.AssertionFailed, Message: msg}
		st.abort = perr
		return zygo.SexpNull, perr
	})

	// (emit shape) registers a root; multiple emits form an implicit
	// union.
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("emit: requires a shape")
		}
		for i, a := range args {
			n, err := toNode(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("emit: argument %d: %w", i, err)
			}
			st.roots = append(st.roots, n)
		}
		return args[0], nil
	})
}
