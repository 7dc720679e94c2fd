package hull

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/mesh"
	"github.com/chazu/heartwood/pkg/primitive"
)

func TestHullOfCubeCorners(t *testing.T) {
	pts := []csg.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		{X: 0.5, Y: 0.5, Z: 0.5}, // interior point must not appear
	}
	m, err := Points(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("hull is not closed")
	}
	if m.VertexCount() != 8 {
		t.Errorf("hull kept %d vertices, want 8", m.VertexCount())
	}
	if v := m.Volume(); math.Abs(v-1) > 1e-9 {
		t.Errorf("hull volume = %g, want 1", v)
	}
}

func TestHullContainsAllInputPoints(t *testing.T) {
	pts := []csg.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0},
		{X: 0, Y: 0, Z: 5}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 0.5, Z: 0.5},
	}
	m, err := Points(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every input point sits inside or on every face plane.
	for _, f := range m.Faces {
		a := m.Verts[f[0]]
		n := m.Verts[f[1]].Sub(a).Cross(m.Verts[f[2]].Sub(a)).Normalize()
		w := n.Dot(a)
		for _, p := range pts {
			if n.Dot(p)-w > 1e-6 {
				t.Fatalf("point %v is outside a hull face", p)
			}
		}
	}
}

func TestHullOfTwoSpheresIsCapsule(t *testing.T) {
	res := csg.DefaultResolution()
	s, err := primitive.Sphere(csg.SphereData{R: 5, Segments: 48}, res)
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	a := s.Transform(csg.Translate(csg.Vec3{Z: -10}))
	b := s.Transform(csg.Translate(csg.Vec3{Z: 10}))

	m, err := OfMeshes([]*mesh.Mesh{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("capsule hull is not closed")
	}

	// Capsule: sphere caps plus a 20mm cylinder barrel.
	want := 4.0/3.0*math.Pi*125 + math.Pi*25*20
	if v := m.Volume(); math.Abs(v-want)/want > 0.02 {
		t.Errorf("capsule volume = %g, want ~%g", v, want)
	}

	lo, hi := m.BoundingBox()
	if math.Abs(lo.Z+15) > 1e-6 || math.Abs(hi.Z-15) > 1e-6 {
		t.Errorf("capsule spans z %g..%g", lo.Z, hi.Z)
	}
}

func TestHullCoplanarInputIsFlat(t *testing.T) {
	pts := []csg.Vec3{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3},
		{X: 2, Y: 1}, // interior
	}
	m, err := Points(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.FaceCount() != 2 {
		t.Errorf("flat hull has %d faces, want front and back", m.FaceCount())
	}
	if m.VertexCount() != 4 {
		t.Errorf("flat hull kept %d vertices, want 4", m.VertexCount())
	}
	if v := math.Abs(m.Volume()); v > 1e-9 {
		t.Errorf("flat hull volume = %g, want 0", v)
	}
	if !m.IsClosed() {
		t.Error("two-sided flat hull should still pair every edge")
	}
}

func TestHullCollinearInputFails(t *testing.T) {
	pts := []csg.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 3, Y: 3, Z: 3},
	}
	_, err := Points(pts)
	var ge *csg.GeometryError
	if !errors.As(err, &ge) || ge.Kind != csg.DegenerateHull {
		t.Errorf("collinear error = %v, want degenerate-hull", err)
	}

	_, err = Points([]csg.Vec3{{X: 1, Y: 1, Z: 1}})
	if !errors.As(err, &ge) || ge.Kind != csg.DegenerateHull {
		t.Errorf("single point error = %v, want degenerate-hull", err)
	}
}

func TestHullDeterministic(t *testing.T) {
	pts := []csg.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0},
		{X: 0, Y: 0, Z: 5}, {X: 3, Y: 3, Z: 3},
	}
	a, err := Points(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Points(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.VertexCount() != b.VertexCount() || a.FaceCount() != b.FaceCount() {
		t.Fatal("repeated hulls differ structurally")
	}
	for i := range a.Verts {
		if a.Verts[i] != b.Verts[i] {
			t.Fatal("repeated hulls order vertices differently")
		}
	}
}
