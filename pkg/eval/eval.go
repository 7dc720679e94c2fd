// Package eval walks a CSG tree bottom-up and materializes it into a
// single boundary mesh. Evaluation is a pure function of (tree,
// resolution): results are memoized by content hash and shared
// read-only, sibling subtrees materialize in parallel, and boolean and
// hull nodes act as joins that wait for all their operands.
package eval

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/heartwood/pkg/boolop"
	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/extrude"
	"github.com/chazu/heartwood/pkg/hull"
	"github.com/chazu/heartwood/pkg/mesh"
	"github.com/chazu/heartwood/pkg/primitive"
)

// Evaluator materializes CSG trees. It is safe for concurrent use; the
// memo cache is shared across Evaluate calls, keyed by content hash and
// effective resolution, so structurally identical subtrees are computed
// once.
type Evaluator struct {
	mu   sync.Mutex
	memo map[csg.ContentHash]*mesh.Mesh
}

// New creates an Evaluator with an empty memo cache.
func New() *Evaluator {
	return &Evaluator{memo: make(map[csg.ContentHash]*mesh.Mesh)}
}

// Evaluate materializes the tree under the given resolution context.
// The first error aborts the whole build: no partial mesh is returned
// alongside an error. Cancelling the context yields csg.ErrAborted.
func (e *Evaluator) Evaluate(ctx context.Context, root *csg.Node, res csg.Resolution) (*mesh.Mesh, error) {
	if root == nil {
		return mesh.Empty(), nil
	}
	if verrs := csg.Validate(root); len(verrs) > 0 {
		return nil, fmt.Errorf("invalid tree: %w", verrs[0])
	}
	m, err := e.evalNode(ctx, root, res, "")
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (e *Evaluator) evalNode(ctx context.Context, n *csg.Node, res csg.Resolution, parentPath string) (*mesh.Mesh, error) {
	if ctx.Err() != nil {
		return nil, csg.ErrAborted
	}
	path := csg.ChildPath(parentPath, n)

	key := csg.MemoKey(n, res)
	e.mu.Lock()
	if m, ok := e.memo[key]; ok {
		e.mu.Unlock()
		return m, nil
	}
	e.mu.Unlock()

	m, err := e.materialize(ctx, n, res, path)
	if err != nil {
		// Partially computed nodes are simply discarded; the memo
		// never holds a failed or cancelled result.
		return nil, csg.AttachPath(err, path)
	}

	e.mu.Lock()
	e.memo[key] = m
	e.mu.Unlock()
	return m, nil
}

func (e *Evaluator) materialize(ctx context.Context, n *csg.Node, res csg.Resolution, path string) (*mesh.Mesh, error) {
	switch n.Kind {
	case csg.NodePrimitive:
		switch d := n.Data.(type) {
		case csg.CuboidData:
			return primitive.Cuboid(d)
		case csg.CylinderData:
			return primitive.Cylinder(d, res)
		case csg.SphereData:
			return primitive.Sphere(d, res)
		case csg.PolygonData:
			return nil, &csg.GeometryError{
				Kind:    csg.InvalidDimension,
				Message: "a 2D polygon is not a solid; extrude it or evaluate it on the profile path",
			}
		default:
			return nil, fmt.Errorf("primitive node has unsupported payload %T", n.Data)
		}

	case csg.NodeTransform:
		// Fold chains of nested transforms into one matrix so the
		// accumulated transform is applied to the vertices exactly
		// once, not at every ancestor.
		m, child := foldTransforms(n)
		childMesh, err := e.evalNode(ctx, child, res, path)
		if err != nil {
			return nil, err
		}
		return childMesh.Transform(m), nil

	case csg.NodeBoolean:
		d := n.Data.(csg.BooleanData)
		operands, err := e.evalChildren(ctx, n.Children, res, path)
		if err != nil {
			return nil, err
		}
		return boolop.Apply(d.Op, operands[0], operands[1])

	case csg.NodeHull:
		operands, err := e.evalChildren(ctx, n.Children, res, path)
		if err != nil {
			return nil, err
		}
		return hull.OfMeshes(operands)

	case csg.NodeGroup:
		if len(n.Children) == 0 {
			return mesh.Empty(), nil
		}
		operands, err := e.evalChildren(ctx, n.Children, res, path)
		if err != nil {
			return nil, err
		}
		acc := operands[0]
		for _, m := range operands[1:] {
			acc, err = boolop.Union(acc, m)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil

	case csg.NodeExtrude:
		d := n.Data.(csg.ExtrudeData)
		profile, err := e.evalProfile(ctx, n.Children[0], res, path)
		if err != nil {
			return nil, err
		}
		if d.Mode == csg.ExtrudeRevolve {
			return extrude.Revolve(profile, d, res)
		}
		return extrude.Linear(profile, d, res)

	case csg.NodeModule:
		return e.evalNode(ctx, n.Children[0], res, path)

	case csg.NodeResolution:
		d := n.Data.(csg.ResolutionData)
		return e.evalNode(ctx, n.Children[0], res.Merge(d.Res), path)

	default:
		return nil, fmt.Errorf("unknown node kind %v", n.Kind)
	}
}

// evalChildren materializes sibling subtrees in parallel. The caller
// is a synchronization barrier: it proceeds only once every operand is
// fully materialized.
func (e *Evaluator) evalChildren(ctx context.Context, children []*csg.Node, res csg.Resolution, path string) ([]*mesh.Mesh, error) {
	out := make([]*mesh.Mesh, len(children))
	if len(children) == 1 {
		m, err := e.evalNode(ctx, children[0], res, path)
		if err != nil {
			return nil, err
		}
		out[0] = m
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range children {
		g.Go(func() error {
			m, err := e.evalNode(gctx, c, res, path)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// foldTransforms composes a chain of nested transform nodes into a
// single matrix and returns the first non-transform descendant.
// Composition order is ancestor × child: the child's transform applies
// in its local frame first.
func foldTransforms(n *csg.Node) (csg.Matrix, *csg.Node) {
	m := n.Data.(csg.TransformData).M
	child := n.Children[0]
	for child.Kind == csg.NodeTransform {
		m = m.Mul(child.Data.(csg.TransformData).M)
		child = child.Children[0]
	}
	return m, child
}
