// Package heartwood builds solid models from a declarative CSG tree.
// Source in the Lisp DSL compiles to a tree of primitives, transforms,
// booleans, hulls and extrusions; evaluating the tree yields a closed
// triangle mesh.
//
// The two entry points mirror the two pipeline stages:
//
//	root, errs, err := heartwood.Build(source)
//	tris, err := heartwood.Render(ctx, root, csg.DefaultResolution())
package heartwood

import (
	"context"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/eval"
	"github.com/chazu/heartwood/pkg/mesh"
	"github.com/chazu/heartwood/pkg/script"
)

// Build compiles DSL source into a CSG tree. Eval errors describe
// problems in the user's source (parse errors, runtime errors); the
// final error is reserved for fatal conditions such as timeouts and
// failed assertions.
func Build(source string) (*csg.Node, []script.EvalError, error) {
	return script.NewEngine().Build(source)
}

// Evaluate materializes a CSG tree into a mesh under the given
// resolution.
func Evaluate(ctx context.Context, root *csg.Node, res csg.Resolution) (*mesh.Mesh, error) {
	return eval.New().Evaluate(ctx, root, res)
}

// Render materializes a CSG tree and triangulates the result.
func Render(ctx context.Context, root *csg.Node, res csg.Resolution) ([]sdf.Triangle3, error) {
	m, err := Evaluate(ctx, root, res)
	if err != nil {
		return nil, err
	}
	return m.Triangles(), nil
}

// Diagnose classifies an evaluation error into a stable diagnostic
// record for callers that report rather than branch.
func Diagnose(err error) csg.Diagnostic {
	return csg.DiagnosticFor(err)
}
