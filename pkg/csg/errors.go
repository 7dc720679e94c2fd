package csg

import (
	"errors"
	"fmt"
)

// ErrAborted is returned when evaluation is cancelled. Cancellation is
// not a build failure: it carries no taxonomy kind and no node path.
var ErrAborted = errors.New("evaluation aborted")

// ---------------------------------------------------------------------------
// Parameter errors
// ---------------------------------------------------------------------------

// ParameterErrorKind classifies module parameter failures.
type ParameterErrorKind int

const (
	MissingRequired ParameterErrorKind = iota
	BadValue
	AssertionFailed
)

func (k ParameterErrorKind) String() string {
	switch k {
	case MissingRequired:
		return "missing-required"
	case BadValue:
		return "bad-value"
	case AssertionFailed:
		return "assertion-failed"
	default:
		return "unknown"
	}
}

// ParameterError reports a failed module parameter binding or assertion.
// A failing assertion aborts expansion of the instantiation: a malformed
// partial assembly is worse than a failed build.
type ParameterError struct {
	Kind    ParameterErrorKind
	Module  string
	Param   string
	Message string
	Path    string
}

func (e *ParameterError) Error() string {
	loc := e.Module
	if e.Param != "" {
		loc = loc + ":" + e.Param
	}
	if e.Path != "" {
		loc = e.Path + "/" + loc
	}
	return fmt.Sprintf("parameter error (%s) at %s: %s", e.Kind, loc, e.Message)
}

// ---------------------------------------------------------------------------
// Geometry errors
// ---------------------------------------------------------------------------

// GeometryErrorKind classifies geometric operation failures.
type GeometryErrorKind int

const (
	InvalidDimension GeometryErrorKind = iota
	SelfIntersectingProfile
	ProfileCrossesAxis
	DegenerateHull
	NonManifoldResult
)

func (k GeometryErrorKind) String() string {
	switch k {
	case InvalidDimension:
		return "invalid-dimension"
	case SelfIntersectingProfile:
		return "self-intersecting-profile"
	case ProfileCrossesAxis:
		return "profile-crosses-axis"
	case DegenerateHull:
		return "degenerate-hull"
	case NonManifoldResult:
		return "non-manifold-result"
	default:
		return "unknown"
	}
}

// GeometryError reports a failed geometric operation. Path is the
// originating node's location in the tree, filled in by the evaluator.
type GeometryError struct {
	Kind    GeometryErrorKind
	Message string
	Path    string
}

func (e *GeometryError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("geometry error (%s) at %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("geometry error (%s): %s", e.Kind, e.Message)
}

// ---------------------------------------------------------------------------
// Resolution errors
// ---------------------------------------------------------------------------

// ResolutionError reports a tessellation segment count below the hard
// minimum.
type ResolutionError struct {
	Segments int
	Message  string
	Path     string
}

func (e *ResolutionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("resolution error at %s: %s (got %d, minimum %d)",
			e.Path, e.Message, e.Segments, MinSegments)
	}
	return fmt.Sprintf("resolution error: %s (got %d, minimum %d)",
		e.Message, e.Segments, MinSegments)
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

// Diagnostic is the structured error record surfaced to callers:
// taxonomy kind, message, and the originating node path. No partial
// mesh accompanies a diagnostic.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// DiagnosticFor converts an evaluation error into a Diagnostic record.
func DiagnosticFor(err error) Diagnostic {
	var pe *ParameterError
	if errors.As(err, &pe) {
		return Diagnostic{Kind: "parameter/" + pe.Kind.String(), Message: pe.Message, Path: pe.Path}
	}
	var ge *GeometryError
	if errors.As(err, &ge) {
		return Diagnostic{Kind: "geometry/" + ge.Kind.String(), Message: ge.Message, Path: ge.Path}
	}
	var re *ResolutionError
	if errors.As(err, &re) {
		return Diagnostic{Kind: "resolution/below-minimum", Message: re.Message, Path: re.Path}
	}
	if errors.Is(err, ErrAborted) {
		return Diagnostic{Kind: "aborted", Message: err.Error()}
	}
	return Diagnostic{Kind: "internal", Message: err.Error()}
}

// AttachPath fills the node path on a taxonomy error that does not have
// one yet. Non-taxonomy errors pass through unchanged.
func AttachPath(err error, path string) error {
	if err == nil || path == "" {
		return err
	}
	var pe *ParameterError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
		return err
	}
	var ge *GeometryError
	if errors.As(err, &ge) && ge.Path == "" {
		ge.Path = path
		return err
	}
	var re *ResolutionError
	if errors.As(err, &re) && re.Path == "" {
		re.Path = path
		return err
	}
	return err
}
