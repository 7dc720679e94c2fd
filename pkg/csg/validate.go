package csg

import "fmt"

// MaxTreeDepth bounds recursion during validation and evaluation.
// Expansion-time loops can produce very wide trees, but depth beyond
// this indicates runaway module recursion.
const MaxTreeDepth = 512

// ValidationError describes a single structural finding.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("node %s: %s", e.Path, e.Message)
}

// Validate runs structural checks on the tree: kind/payload agreement,
// operator arity, and depth. It is read-only and never mutates the
// tree. An empty slice means the tree is structurally valid; geometric
// validity is established later, during evaluation.
func Validate(root *Node) []ValidationError {
	var errs []ValidationError
	validateNode(root, "", 0, &errs)
	return errs
}

func validateNode(n *Node, parentPath string, depth int, errs *[]ValidationError) {
	path := ChildPath(parentPath, n)

	if depth > MaxTreeDepth {
		*errs = append(*errs, ValidationError{Path: path, Message: "tree exceeds maximum depth"})
		return
	}
	if n == nil {
		*errs = append(*errs, ValidationError{Path: parentPath, Message: "nil child node"})
		return
	}

	switch n.Kind {
	case NodePrimitive:
		switch n.Data.(type) {
		case CuboidData, CylinderData, SphereData, PolygonData:
		default:
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("primitive node has payload %T", n.Data)})
		}
		if len(n.Children) != 0 {
			*errs = append(*errs, ValidationError{Path: path, Message: "primitive node must be a leaf"})
		}

	case NodeTransform:
		if _, ok := n.Data.(TransformData); !ok {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("transform node has payload %T", n.Data)})
		}
		if len(n.Children) != 1 {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("transform node needs exactly 1 child, has %d", len(n.Children))})
		}

	case NodeBoolean:
		if _, ok := n.Data.(BooleanData); !ok {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("boolean node has payload %T", n.Data)})
		}
		if len(n.Children) != 2 {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("boolean node needs exactly 2 children, has %d", len(n.Children))})
		}

	case NodeHull:
		if len(n.Children) == 0 {
			*errs = append(*errs, ValidationError{Path: path, Message: "hull node needs at least 1 child"})
		}

	case NodeExtrude:
		if _, ok := n.Data.(ExtrudeData); !ok {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("extrude node has payload %T", n.Data)})
		}
		if len(n.Children) != 1 {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("extrude node needs exactly 1 profile child, has %d", len(n.Children))})
		}

	case NodeModule:
		if _, ok := n.Data.(ModuleData); !ok {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("module node has payload %T", n.Data)})
		}
		if len(n.Children) != 1 {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("module node needs exactly 1 expanded body, has %d", len(n.Children))})
		}

	case NodeGroup:
		// Any arity; an empty group evaluates to the empty mesh.

	case NodeResolution:
		if _, ok := n.Data.(ResolutionData); !ok {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("resolution node has payload %T", n.Data)})
		}
		if len(n.Children) != 1 {
			*errs = append(*errs, ValidationError{Path: path,
				Message: fmt.Sprintf("resolution node needs exactly 1 child, has %d", len(n.Children))})
		}

	default:
		*errs = append(*errs, ValidationError{Path: path,
			Message: fmt.Sprintf("unknown node kind %d", int(n.Kind))})
	}

	for _, c := range n.Children {
		validateNode(c, path, depth+1, errs)
	}
}

// ChildPath extends a slash-separated tree path with a node label.
// Named nodes use their name, anonymous nodes their kind.
func ChildPath(parent string, n *Node) string {
	label := ""
	if n != nil {
		label = n.Name
		if label == "" {
			label = n.Kind.String()
		}
	}
	if parent == "" {
		return label
	}
	return parent + "/" + label
}
