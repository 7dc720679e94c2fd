// Package module implements named, parameterized geometry templates:
// call-site arguments bind to declared parameters, defaults fill the
// gaps, assertion predicates run before the body expands. Expansion
// happens entirely at tree-construction time; loops and conditionals
// inside a body are ordinary Go control flow, and the evaluator never
// sees them.
package module

import (
	"fmt"

	"github.com/chazu/heartwood/pkg/csg"
)

// Param declares a module parameter. A nil Default marks the parameter
// required.
type Param struct {
	Name    string
	Default any
}

// Assert is a named precondition evaluated against the bound
// parameters before the body expands.
type Assert struct {
	Cond    func(Args) bool
	Message string
}

// Module is a named geometry template. Body receives the fully bound
// arguments and returns the expanded subtree.
type Module struct {
	Name    string
	Params  []Param
	Asserts []Assert
	Body    func(Args) (*csg.Node, error)
}

// Args holds parameters bound for one instantiation.
type Args map[string]any

// Float fetches a numeric argument, converting ints.
func (a Args) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool fetches a boolean argument.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// String fetches a string argument.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Vec3 fetches a vector argument.
func (a Args) Vec3(name string) csg.Vec3 {
	v, _ := a[name].(csg.Vec3)
	return v
}

// Instantiate binds positional then named arguments against the
// declared parameters, fills defaults, runs assertions, and expands the
// body. Any failure aborts the instantiation: no node is produced and
// no partial subtree leaks into the caller's tree.
func (m *Module) Instantiate(positional []any, named map[string]any) (*csg.Node, error) {
	if len(positional) > len(m.Params) {
		return nil, &csg.ParameterError{
			Kind:    csg.BadValue,
			Module:  m.Name,
			Message: fmt.Sprintf("%d positional arguments for %d parameters", len(positional), len(m.Params)),
		}
	}

	bound := make(Args, len(m.Params))
	for i, v := range positional {
		bound[m.Params[i].Name] = v
	}
	for name, v := range named {
		p := m.param(name)
		if p == nil {
			return nil, &csg.ParameterError{
				Kind:    csg.BadValue,
				Module:  m.Name,
				Param:   name,
				Message: fmt.Sprintf("unknown parameter %q", name),
			}
		}
		if _, dup := bound[name]; dup {
			return nil, &csg.ParameterError{
				Kind:    csg.BadValue,
				Module:  m.Name,
				Param:   name,
				Message: fmt.Sprintf("parameter %q bound both positionally and by name", name),
			}
		}
		bound[name] = v
	}

	for _, p := range m.Params {
		if _, ok := bound[p.Name]; ok {
			continue
		}
		if p.Default == nil {
			return nil, &csg.ParameterError{
				Kind:    csg.MissingRequired,
				Module:  m.Name,
				Param:   p.Name,
				Message: fmt.Sprintf("required parameter %q not bound and has no default", p.Name),
			}
		}
		bound[p.Name] = p.Default
	}

	for _, a := range m.Asserts {
		if !a.Cond(bound) {
			return nil, &csg.ParameterError{
				Kind:    csg.AssertionFailed,
				Module:  m.Name,
				Message: a.Message,
			}
		}
	}

	body, err := m.Body(bound)
	if err != nil {
		return nil, err
	}

	return csg.NewNode(csg.NodeModule, m.Name, csg.ModuleData{
		Module: m.Name,
		Args:   bound,
	}, body), nil
}

func (m *Module) param(name string) *Param {
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i]
		}
	}
	return nil
}

// Repeat expands a body n times into an implicit-union group: the
// expansion-time analogue of a for loop over an index.
func Repeat(n int, body func(i int) *csg.Node) *csg.Node {
	children := make([]*csg.Node, 0, n)
	for i := 0; i < n; i++ {
		if c := body(i); c != nil {
			children = append(children, c)
		}
	}
	return csg.NewGroup(children...)
}

// ForEach expands a body once per position into an implicit-union
// group: the expansion-time analogue of a loop over a position list.
func ForEach(positions []csg.Vec3, body func(at csg.Vec3) *csg.Node) *csg.Node {
	children := make([]*csg.Node, 0, len(positions))
	for _, p := range positions {
		if c := body(p); c != nil {
			children = append(children, c)
		}
	}
	return csg.NewGroup(children...)
}

// When selects a subtree at expansion time; the alternative may be
// nil, yielding an empty group. This is the tree-construction form of
// a feature flag: the evaluator only ever sees the chosen branch.
func When(cond bool, then, otherwise *csg.Node) *csg.Node {
	pick := then
	if !cond {
		pick = otherwise
	}
	if pick == nil {
		return csg.NewGroup()
	}
	return pick
}
