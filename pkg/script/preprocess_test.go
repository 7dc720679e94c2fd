package script

import "testing"

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource("(cylinder :h 10 :d 5)")
	want := `(cylinder "__kw_h" 10 "__kw_d" 5)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessKebabCase(t *testing.T) {
	got := preprocessSource("(linear-extrude :height 10 (square 4))")
	want := `(linear_extrude "__kw_height" 10 (square 4))`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessPreservesSubtraction(t *testing.T) {
	got := preprocessSource("(- 10 5)")
	if got != "(- 10 5)" {
		t.Errorf("minus operator rewritten: %q", got)
	}

	// A hyphen before a digit is arithmetic, not kebab-case.
	got = preprocessSource("(def x (- y 1))")
	if got != "(def x (- y 1))" {
		t.Errorf("got %q", got)
	}
}

func TestPreprocessPreservesAssignment(t *testing.T) {
	got := preprocessSource("(x := 5)")
	if got != "(x := 5)" {
		t.Errorf("assignment rewritten: %q", got)
	}
}

func TestPreprocessComments(t *testing.T) {
	got := preprocessSource("(cube 10) ; the base\n(sphere :r 2)")
	want := "(cube 10) // the base\n(sphere \"__kw_r\" 2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = preprocessSource(";; header comment\n(cube 1)")
	want = "// header comment\n(cube 1)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessLeavesStringsAlone(t *testing.T) {
	got := preprocessSource(`(assert-that ok "kebab-case :inside ; string")`)
	want := `(assert_that ok "kebab-case :inside ; string")`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessKeywordWithHyphen(t *testing.T) {
	got := preprocessSource("(thing :part-a 1)")
	want := `(thing "__kw_part-a" 1)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
