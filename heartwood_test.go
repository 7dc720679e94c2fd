package heartwood

import (
	"context"
	"math"
	"testing"

	"github.com/chazu/heartwood/pkg/csg"
)

const throughHole = `
(emit
  (difference
    (cube 10 :center true)
    (cylinder :h 12 :d 5 :center true :segments 64)))
`

func TestBuildAndEvaluatePipeline(t *testing.T) {
	root, evalErrs, err := Build(throughHole)
	if err != nil {
		t.Fatalf("fatal build error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	m, err := Evaluate(context.Background(), root, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !m.IsClosed() {
		t.Fatal("result is not closed")
	}

	want := 1000 - math.Pi*2.5*2.5*10
	if v := m.Volume(); math.Abs(v-want)/want > 0.02 {
		t.Errorf("volume = %g, want ~%g", v, want)
	}
}

func TestRenderProducesTriangles(t *testing.T) {
	root, _, err := Build("(emit (cube 10))")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	tris, err := Render(context.Background(), root, csg.DefaultResolution())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(tris) != 12 {
		t.Errorf("triangle count = %d, want 12", len(tris))
	}
}

func TestDiagnoseClassifiesErrors(t *testing.T) {
	root, _, err := Build("(emit (sphere :r -1))")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = Evaluate(context.Background(), root, csg.DefaultResolution())
	if err == nil {
		t.Fatal("expected evaluation error")
	}
	d := Diagnose(err)
	if d.Kind != "geometry/invalid-dimension" {
		t.Errorf("diagnostic kind = %q", d.Kind)
	}
}
