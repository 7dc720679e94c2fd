package eval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/chazu/heartwood/pkg/csg"
)

func TestEvaluatePrimitive(t *testing.T) {
	ev := New()
	m, err := ev.Evaluate(context.Background(), csg.NewCuboid(2, 3, 4, false), csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("cuboid is not closed")
	}
	if v := m.Volume(); math.Abs(v-24) > 1e-9 {
		t.Errorf("volume = %g, want 24", v)
	}
}

func TestEvaluateNilTree(t *testing.T) {
	m, err := New().Evaluate(context.Background(), nil, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsEmpty() {
		t.Error("nil tree should evaluate to the empty mesh")
	}
}

func TestMemoizationReusesResults(t *testing.T) {
	ev := New()
	tree := csg.NewSphere(5, 32)

	a, err := ev.Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ev.Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("second evaluation did not hit the memo cache")
	}

	// A different resolution is a different memo entry.
	c, err := ev.Evaluate(context.Background(), tree, csg.Resolution{Segments: 16, AngleDeg: 12, SizeMM: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == a {
		t.Error("different resolution shared a memo entry")
	}
}

func TestTransformChainFolds(t *testing.T) {
	tree := csg.NewTransform(csg.Translate(csg.Vec3{X: 5}),
		csg.NewTransform(csg.Translate(csg.Vec3{Y: 3}),
			csg.NewCuboid(2, 2, 2, false)))

	m, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := m.BoundingBox()
	if lo.X != 5 || lo.Y != 3 || hi.X != 7 || hi.Y != 5 {
		t.Errorf("bbox = %v..%v", lo, hi)
	}
}

func TestMirrorStaysManifold(t *testing.T) {
	tree := csg.NewTransform(csg.Mirror(csg.Vec3{X: 1}), csg.NewCuboid(2, 3, 4, false))
	m, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("mirrored cuboid is not closed")
	}
	if v := m.Volume(); math.Abs(v-24) > 1e-9 {
		t.Errorf("mirrored volume = %g, want 24", v)
	}
}

func TestGroupIsImplicitUnion(t *testing.T) {
	tree := csg.NewGroup(
		csg.NewCuboid(10, 10, 10, true),
		csg.NewTransform(csg.Translate(csg.Vec3{X: 30}), csg.NewCuboid(10, 10, 10, true)),
	)
	m, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := m.Volume(); math.Abs(v-2000) > 1e-6 {
		t.Errorf("group volume = %g, want 2000", v)
	}

	empty, err := New().Evaluate(context.Background(), csg.NewGroup(), csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !empty.IsEmpty() {
		t.Error("empty group should evaluate to the empty mesh")
	}
}

func TestBooleanNode(t *testing.T) {
	tree := csg.NewBoolean(csg.BoolDifference,
		csg.NewCuboid(10, 10, 10, true),
		csg.NewCylinder(5, 5, 12, true, 64))

	m, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("difference is not closed")
	}
	want := 1000 - math.Pi*2.5*2.5*10
	if v := m.Volume(); math.Abs(v-want)/want > 0.02 {
		t.Errorf("volume = %g, want ~%g", v, want)
	}
}

func TestHullNode(t *testing.T) {
	tree := csg.NewHull(
		csg.NewCuboid(1, 1, 1, true),
		csg.NewTransform(csg.Translate(csg.Vec3{X: 10}), csg.NewCuboid(1, 1, 1, true)),
	)
	m, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("hull is not closed")
	}
	lo, hi := m.BoundingBox()
	if lo.X != -0.5 || hi.X != 10.5 {
		t.Errorf("hull spans x %g..%g", lo.X, hi.X)
	}
}

func TestExtrudeNode(t *testing.T) {
	profile := csg.NewPolygon([]csg.Vec2{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	})
	tree := csg.NewLinearExtrude(profile, 10, 0, 1)
	m, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := m.Volume(); math.Abs(v-1000) > 1e-6 {
		t.Errorf("extruded volume = %g, want 1000", v)
	}
}

func TestResolutionOverrideNode(t *testing.T) {
	sphere := csg.NewSphere(2, 0)

	coarse, err := New().Evaluate(context.Background(), sphere, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fine, err := New().Evaluate(context.Background(),
		csg.NewResolution(csg.Resolution{Segments: 32}, sphere), csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fine.VertexCount() <= coarse.VertexCount() {
		t.Errorf("override did not refine: %d vs %d vertices",
			fine.VertexCount(), coarse.VertexCount())
	}
}

func TestBareProfileIsNotASolid(t *testing.T) {
	poly := csg.NewPolygon([]csg.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	_, err := New().Evaluate(context.Background(), poly, csg.DefaultResolution())
	var ge *csg.GeometryError
	if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
		t.Errorf("error = %v, want invalid-dimension", err)
	}
}

func TestErrorCarriesNodePath(t *testing.T) {
	tree := csg.NewBoolean(csg.BoolUnion,
		csg.NewCuboid(10, 10, 10, true),
		csg.NewCuboid(-1, 10, 10, true))

	_, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	var ge *csg.GeometryError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GeometryError, got %v", err)
	}
	if ge.Path == "" {
		t.Error("error path is empty")
	}
}

func TestCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Evaluate(ctx, csg.NewSphere(5, 0), csg.DefaultResolution())
	if !errors.Is(err, csg.ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
}

func TestDeterminism(t *testing.T) {
	tree := csg.NewBoolean(csg.BoolDifference,
		csg.NewCuboid(10, 10, 10, true),
		csg.NewCylinder(5, 5, 12, true, 32))

	a, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New().Evaluate(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.VertexCount() != b.VertexCount() || a.FaceCount() != b.FaceCount() {
		t.Fatal("repeated evaluation differs structurally")
	}
	for i := range a.Verts {
		if a.Verts[i] != b.Verts[i] {
			t.Fatal("repeated evaluation orders vertices differently")
		}
	}
}

func TestEvaluateProfile(t *testing.T) {
	poly := csg.NewPolygon([]csg.Vec2{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2},
	})
	tree := csg.NewTransform(csg.Translate(csg.Vec3{X: 1}), poly)

	p, err := New().EvaluateProfile(context.Background(), tree, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Points[0].X != 1 {
		t.Errorf("transformed profile origin = %v", p.Points[0])
	}
	if a := p.SignedArea(); math.Abs(a-8) > 1e-12 {
		t.Errorf("area = %g, want 8", a)
	}
}

func TestEvaluateProfileRejectsSolid(t *testing.T) {
	_, err := New().EvaluateProfile(context.Background(), csg.NewSphere(5, 0), csg.DefaultResolution())
	var ge *csg.GeometryError
	if !errors.As(err, &ge) || ge.Kind != csg.InvalidDimension {
		t.Errorf("error = %v, want invalid-dimension", err)
	}
}
