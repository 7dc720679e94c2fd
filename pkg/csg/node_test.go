package csg

import "testing"

func TestContentHashDeterministic(t *testing.T) {
	a := NewBoolean(BoolDifference,
		NewCuboid(10, 10, 10, true),
		NewCylinder(5, 5, 12, true, 64))
	b := NewBoolean(BoolDifference,
		NewCuboid(10, 10, 10, true),
		NewCylinder(5, 5, 12, true, 64))

	if a.Hash() != b.Hash() {
		t.Errorf("identical trees hash differently: %s vs %s", a.Hash().Short(), b.Hash().Short())
	}
}

func TestContentHashSensitiveToParams(t *testing.T) {
	a := NewCuboid(10, 10, 10, true)
	b := NewCuboid(10, 10, 10.0001, true)
	if a.Hash() == b.Hash() {
		t.Error("cuboids with different dimensions share a hash")
	}

	c := NewCuboid(10, 10, 10, false)
	if a.Hash() == c.Hash() {
		t.Error("centered and corner-anchored cuboids share a hash")
	}
}

func TestContentHashSensitiveToChildOrder(t *testing.T) {
	cube := NewCuboid(10, 10, 10, true)
	cyl := NewCylinder(5, 5, 12, true, 0)

	ab := NewBoolean(BoolDifference, cube, cyl)
	ba := NewBoolean(BoolDifference, cyl, cube)
	if ab.Hash() == ba.Hash() {
		t.Error("operand order does not affect the hash")
	}
}

func TestContentHashSensitiveToKind(t *testing.T) {
	cube := NewCuboid(10, 10, 10, true)
	cyl := NewCylinder(5, 5, 12, true, 0)

	if NewBoolean(BoolUnion, cube, cyl).Hash() == NewBoolean(BoolIntersection, cube, cyl).Hash() {
		t.Error("different operators share a hash")
	}
	if NewHull(cube, cyl).Hash() == NewGroup(cube, cyl).Hash() {
		t.Error("hull and group share a hash")
	}
}

func TestContentHashTransform(t *testing.T) {
	cube := NewCuboid(10, 10, 10, true)
	a := NewTransform(Translate(Vec3{X: 1}), cube)
	b := NewTransform(Translate(Vec3{X: 2}), cube)
	if a.Hash() == b.Hash() {
		t.Error("different translations share a hash")
	}

	c := NewTransform(Translate(Vec3{X: 1}), cube)
	if a.Hash() != c.Hash() {
		t.Error("identical transforms hash differently")
	}
}

func TestHashShort(t *testing.T) {
	h := NewSphere(5, 0).Hash()
	if len(h.Short()) != 12 {
		t.Errorf("Short() length = %d, want 12", len(h.Short()))
	}
	if h.IsZero() {
		t.Error("constructed node has zero hash")
	}
}

func TestMemoKeyVariesWithResolution(t *testing.T) {
	s := NewSphere(5, 0)

	def := MemoKey(s, DefaultResolution())
	fine := MemoKey(s, Resolution{Segments: 64})
	if def == fine {
		t.Error("memo key ignores resolution")
	}
	if def != MemoKey(s, DefaultResolution()) {
		t.Error("memo key not deterministic")
	}
}

func TestNodeKindStrings(t *testing.T) {
	kinds := map[NodeKind]string{
		NodePrimitive:  "primitive",
		NodeTransform:  "transform",
		NodeBoolean:    "boolean",
		NodeHull:       "hull",
		NodeExtrude:    "extrude",
		NodeModule:     "module",
		NodeGroup:      "group",
		NodeResolution: "resolution",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("NodeKind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
