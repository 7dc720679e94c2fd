package csg

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// CuboidData is an axis-aligned rectangular solid. With Center false the
// minimum corner sits at the origin; with Center true the solid is
// centered on the origin.
type CuboidData struct {
	W, H, D float64 // extent along X, Y, Z
	Center  bool
}

func (CuboidData) nodeData() {}

// CylinderData is a cylinder or cone along the Z axis. D1 is the bottom
// diameter, D2 the top; equal diameters give a straight cylinder, a zero
// diameter gives a cone apex. Segments overrides the derived tessellation
// count when non-zero. With Center false the base sits at z=0.
type CylinderData struct {
	D1, D2   float64
	H        float64
	Center   bool
	Segments int
}

func (CylinderData) nodeData() {}

// SphereData is a sphere centered on the origin. Segments overrides the
// derived tessellation count when non-zero.
type SphereData struct {
	R        float64
	Segments int
}

func (SphereData) nodeData() {}

// PolygonData is a 2D polygon profile: an ordered point list, which must
// be simple (non-self-intersecting) to be extruded.
type PolygonData struct {
	Points []Vec2
}

func (PolygonData) nodeData() {}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

// TransformData carries the affine transform applied to the child subtree.
type TransformData struct {
	M Matrix
}

func (TransformData) nodeData() {}

// BoolOp enumerates boolean mesh operators.
type BoolOp int

const (
	BoolUnion BoolOp = iota
	BoolDifference
	BoolIntersection
)

func (op BoolOp) String() string {
	switch op {
	case BoolUnion:
		return "union"
	case BoolDifference:
		return "difference"
	case BoolIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData selects the operator combining the node's two children.
type BooleanData struct {
	Op BoolOp
}

func (BooleanData) nodeData() {}

// HullData marks a convex hull node; the hull is taken over the combined
// vertices of all materialized children.
type HullData struct{}

func (HullData) nodeData() {}

// GroupData marks an implicit union over all children. Groups are what
// expansion-time loops and conditionals produce.
type GroupData struct{}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Extrusion
// ---------------------------------------------------------------------------

// ExtrudeMode selects between a linear sweep and a revolution.
type ExtrudeMode int

const (
	ExtrudeLinear ExtrudeMode = iota
	ExtrudeRevolve
)

func (m ExtrudeMode) String() string {
	switch m {
	case ExtrudeLinear:
		return "linear"
	case ExtrudeRevolve:
		return "revolve"
	default:
		return "unknown"
	}
}

// ExtrudeData parameterizes the sweep of the profile child. Height,
// Twist (degrees) and Scale apply to linear extrusion; Angle (degrees)
// applies to revolution. Segments overrides the derived layer/segment
// count when non-zero.
type ExtrudeData struct {
	Mode     ExtrudeMode
	Height   float64
	Twist    float64
	Scale    float64
	Angle    float64
	Segments int
}

func (ExtrudeData) nodeData() {}

// ---------------------------------------------------------------------------
// Modules and resolution
// ---------------------------------------------------------------------------

// ModuleData records an expanded module instantiation. The bound
// parameters are kept for diagnostics and content hashing; child 0 is
// the fully expanded body.
type ModuleData struct {
	Module string
	Args   map[string]any
}

func (ModuleData) nodeData() {}

// ResolutionData overrides the resolution context for the subtree.
type ResolutionData struct {
	Res Resolution
}

func (ResolutionData) nodeData() {}
