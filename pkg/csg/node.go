package csg

// NodeKind enumerates the types of nodes in the CSG tree.
type NodeKind int

const (
	NodePrimitive  NodeKind = iota // geometric primitive (cuboid, cylinder, sphere, polygon)
	NodeTransform                  // affine transform applied to one child
	NodeBoolean                    // union/difference/intersection of two children
	NodeHull                       // convex hull over all children
	NodeExtrude                    // 2D profile swept or revolved into a solid
	NodeModule                     // expanded module instantiation (child 0 is the body)
	NodeGroup                      // implicit union over all children
	NodeResolution                 // resolution override for the subtree
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeHull:
		return "hull"
	case NodeExtrude:
		return "extrude"
	case NodeModule:
		return "module"
	case NodeGroup:
		return "group"
	case NodeResolution:
		return "resolution"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the CSG tree. Nodes are immutable
// once built: construct them through the New* functions, which compute
// the content hash. Each node exclusively owns its children.
type Node struct {
	Kind     NodeKind
	Name     string // optional label for diagnostics (module name, user tag)
	Children []*Node
	Data     NodeData

	hash ContentHash
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// Hash returns the content hash computed at construction.
func (n *Node) Hash() ContentHash { return n.hash }

// NewNode builds an immutable node and computes its content hash.
// Prefer the typed constructors below; this is the escape hatch for
// callers assembling trees generically.
func NewNode(kind NodeKind, name string, data NodeData, children ...*Node) *Node {
	n := &Node{
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	}
	n.hash = hashNode(n)
	return n
}

// NewCuboid builds a cuboid primitive node.
func NewCuboid(w, h, d float64, center bool) *Node {
	return NewNode(NodePrimitive, "cuboid", CuboidData{W: w, H: h, D: d, Center: center})
}

// NewCylinder builds a cylinder (or cone, when d1 != d2) primitive node.
// segments == 0 derives the count from the active resolution.
func NewCylinder(d1, d2, h float64, center bool, segments int) *Node {
	return NewNode(NodePrimitive, "cylinder", CylinderData{D1: d1, D2: d2, H: h, Center: center, Segments: segments})
}

// NewSphere builds a sphere primitive node.
func NewSphere(r float64, segments int) *Node {
	return NewNode(NodePrimitive, "sphere", SphereData{R: r, Segments: segments})
}

// NewPolygon builds a 2D polygon primitive node. Polygon nodes evaluate
// on the 2D path only: as extrusion input or via EvaluateProfile.
func NewPolygon(points []Vec2) *Node {
	return NewNode(NodePrimitive, "polygon", PolygonData{Points: points})
}

// NewTransform wraps child in an affine transform.
func NewTransform(m Matrix, child *Node) *Node {
	return NewNode(NodeTransform, "", TransformData{M: m}, child)
}

// NewBoolean combines two children with a boolean operator.
func NewBoolean(op BoolOp, left, right *Node) *Node {
	return NewNode(NodeBoolean, op.String(), BooleanData{Op: op}, left, right)
}

// NewHull builds a convex hull node over the children.
func NewHull(children ...*Node) *Node {
	return NewNode(NodeHull, "", HullData{}, children...)
}

// NewGroup builds an implicit-union group over the children.
func NewGroup(children ...*Node) *Node {
	return NewNode(NodeGroup, "", GroupData{}, children...)
}

// NewLinearExtrude sweeps the profile child along +Z from 0 to height,
// interpolating twist (degrees) and scale per layer.
func NewLinearExtrude(profile *Node, height, twist, scale float64) *Node {
	return NewNode(NodeExtrude, "linear-extrude", ExtrudeData{
		Mode:   ExtrudeLinear,
		Height: height,
		Twist:  twist,
		Scale:  scale,
	}, profile)
}

// NewRotateExtrude revolves the profile child about the Z axis by
// angle degrees (360 for a full revolution).
func NewRotateExtrude(profile *Node, angle float64) *Node {
	return NewNode(NodeExtrude, "rotate-extrude", ExtrudeData{
		Mode:  ExtrudeRevolve,
		Angle: angle,
		Scale: 1,
	}, profile)
}

// NewResolution overrides the resolution context for the subtree.
func NewResolution(res Resolution, child *Node) *Node {
	return NewNode(NodeResolution, "", ResolutionData{Res: res}, child)
}
