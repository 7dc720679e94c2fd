package primitive

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/heartwood/pkg/csg"
)

func TestCuboid(t *testing.T) {
	m, err := Cuboid(csg.CuboidData{W: 2, H: 3, D: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("cuboid is not closed")
	}
	if m.VertexCount() != 8 || m.FaceCount() != 6 {
		t.Errorf("counts = %d verts / %d faces", m.VertexCount(), m.FaceCount())
	}
	if v := m.Volume(); math.Abs(v-24) > 1e-9 {
		t.Errorf("volume = %g, want 24", v)
	}

	lo, hi := m.BoundingBox()
	if lo.X != 0 || hi.X != 2 || hi.Z != 4 {
		t.Errorf("corner-anchored bbox = %v..%v", lo, hi)
	}
}

func TestCuboidCentered(t *testing.T) {
	m, err := Cuboid(csg.CuboidData{W: 2, H: 2, D: 2, Center: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := m.BoundingBox()
	if lo.X != -1 || hi.X != 1 || lo.Z != -1 || hi.Z != 1 {
		t.Errorf("centered bbox = %v..%v", lo, hi)
	}
}

func TestCuboidInvalidDimensions(t *testing.T) {
	for _, d := range []csg.CuboidData{
		{W: 0, H: 1, D: 1},
		{W: 1, H: -2, D: 1},
	} {
		_, err := Cuboid(d)
		var ge *csg.GeometryError
		if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
			t.Errorf("Cuboid(%+v) error = %v, want invalid-dimension", d, err)
		}
	}
}

func TestCylinderVolume(t *testing.T) {
	m, err := Cylinder(csg.CylinderData{D1: 5, D2: 5, H: 10, Center: true, Segments: 64}, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("cylinder is not closed")
	}
	want := math.Pi * 2.5 * 2.5 * 10
	if v := m.Volume(); math.Abs(v-want)/want > 0.02 {
		t.Errorf("volume = %g, want ~%g", v, want)
	}

	lo, hi := m.BoundingBox()
	if math.Abs(lo.Z+5) > 1e-9 || math.Abs(hi.Z-5) > 1e-9 {
		t.Errorf("centered cylinder spans z %g..%g", lo.Z, hi.Z)
	}
}

func TestConeApex(t *testing.T) {
	m, err := Cylinder(csg.CylinderData{D1: 6, D2: 0, H: 9, Segments: 48}, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("cone is not closed")
	}
	want := math.Pi * 9 * 9 / 3 // r=3, h=9
	if v := m.Volume(); math.Abs(v-want)/want > 0.02 {
		t.Errorf("cone volume = %g, want ~%g", v, want)
	}

	// Apex at the bottom works symmetrically.
	m2, err := Cylinder(csg.CylinderData{D1: 0, D2: 6, H: 9, Segments: 48}, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m2.IsClosed() {
		t.Fatal("inverted cone is not closed")
	}
	if math.Abs(m2.Volume()-m.Volume()) > 1e-9 {
		t.Error("apex-up and apex-down cones differ in volume")
	}
}

func TestCylinderInvalid(t *testing.T) {
	cases := []csg.CylinderData{
		{D1: 5, D2: 5, H: 0},
		{D1: 0, D2: 0, H: 10},
		{D1: -1, D2: 5, H: 10},
	}
	for _, d := range cases {
		_, err := Cylinder(d, csg.DefaultResolution())
		var ge *csg.GeometryError
		if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
			t.Errorf("Cylinder(%+v) error = %v, want invalid-dimension", d, err)
		}
	}
}

func TestCylinderSegmentsBelowMinimum(t *testing.T) {
	_, err := Cylinder(csg.CylinderData{D1: 5, D2: 5, H: 10, Segments: 2}, csg.DefaultResolution())
	var re *csg.ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestSphereVolume(t *testing.T) {
	m, err := Sphere(csg.SphereData{R: 5, Segments: 48}, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("sphere is not closed")
	}
	want := 4.0 / 3.0 * math.Pi * 125
	if v := m.Volume(); math.Abs(v-want)/want > 0.02 {
		t.Errorf("volume = %g, want ~%g", v, want)
	}

	lo, hi := m.BoundingBox()
	if math.Abs(lo.Z+5) > 1e-9 || math.Abs(hi.Z-5) > 1e-9 {
		t.Errorf("sphere spans z %g..%g", lo.Z, hi.Z)
	}
}

func TestSphereInvalidRadius(t *testing.T) {
	_, err := Sphere(csg.SphereData{R: 0}, csg.DefaultResolution())
	var ge *csg.GeometryError
	if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
		t.Errorf("error = %v, want invalid-dimension", err)
	}
}

func TestPolygonProfile(t *testing.T) {
	p, err := Polygon(csg.PolygonData{Points: []csg.Vec2{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a := p.SignedArea(); math.Abs(a-8) > 1e-12 {
		t.Errorf("area = %g, want 8", a)
	}
}

func TestPolygonDegenerate(t *testing.T) {
	_, err := Polygon(csg.PolygonData{Points: []csg.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}})
	var ge *csg.GeometryError
	if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
		t.Errorf("2-point polygon error = %v", err)
	}

	// Collinear points enclose no area.
	_, err = Polygon(csg.PolygonData{Points: []csg.Vec2{
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2},
	}})
	if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
		t.Errorf("zero-area polygon error = %v", err)
	}
}
