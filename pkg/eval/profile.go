package eval

import (
	"context"
	"fmt"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/mesh"
	"github.com/chazu/heartwood/pkg/primitive"
)

// EvaluateProfile resolves the 2D subtree under an extrusion into a
// planar profile. Only polygon primitives, transforms, modules and
// resolution scopes may appear below an extrude node.
func (e *Evaluator) EvaluateProfile(ctx context.Context, n *csg.Node, res csg.Resolution) (*mesh.Profile, error) {
	p, err := e.evalProfile(ctx, n, res, "")
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Evaluator) evalProfile(ctx context.Context, n *csg.Node, res csg.Resolution, parentPath string) (*mesh.Profile, error) {
	if ctx.Err() != nil {
		return nil, csg.ErrAborted
	}
	path := csg.ChildPath(parentPath, n)

	p, err := e.materializeProfile(ctx, n, res, path)
	if err != nil {
		return nil, csg.AttachPath(err, path)
	}
	return p, nil
}

func (e *Evaluator) materializeProfile(ctx context.Context, n *csg.Node, res csg.Resolution, path string) (*mesh.Profile, error) {
	switch n.Kind {
	case csg.NodePrimitive:
		d, ok := n.Data.(csg.PolygonData)
		if !ok {
			return nil, &csg.GeometryError{
				Kind:    csg.InvalidDimension,
				Message: fmt.Sprintf("a solid primitive (%T) cannot be used as a 2D profile", n.Data),
			}
		}
		return primitive.Polygon(d)

	case csg.NodeTransform:
		m, child := foldTransforms(n)
		p, err := e.evalProfile(ctx, child, res, path)
		if err != nil {
			return nil, err
		}
		return p.Transform(m), nil

	case csg.NodeModule:
		return e.evalProfile(ctx, n.Children[0], res, path)

	case csg.NodeResolution:
		d := n.Data.(csg.ResolutionData)
		return e.evalProfile(ctx, n.Children[0], res.Merge(d.Res), path)

	default:
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("%s node is not valid inside a 2D profile", n.Kind),
		}
	}
}
