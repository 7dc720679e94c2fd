package csg

import "math"

// MinSegments is the hard lower bound on tessellation segments for any
// curved surface.
const MinSegments = 3

// Default resolution settings: up to 12 degrees of arc or 2mm of chord
// per segment, whichever yields more segments being the binding limit.
const (
	DefaultAngleDeg = 12.0
	DefaultSizeMM   = 2.0
)

// Resolution is the tessellation fidelity context threaded through
// evaluation. It is an immutable snapshot: overrides produce a new
// value, never mutate one in place.
type Resolution struct {
	Segments int     // explicit segment count; 0 derives from AngleDeg/SizeMM
	AngleDeg float64 // max degrees of arc per segment
	SizeMM   float64 // max chord length per segment
}

// DefaultResolution returns the global default settings.
func DefaultResolution() Resolution {
	return Resolution{AngleDeg: DefaultAngleDeg, SizeMM: DefaultSizeMM}
}

// Merge layers an override onto r: zero-valued override fields keep the
// current setting.
func (r Resolution) Merge(o Resolution) Resolution {
	out := r
	if o.Segments != 0 {
		out.Segments = o.Segments
	}
	if o.AngleDeg != 0 {
		out.AngleDeg = o.AngleDeg
	}
	if o.SizeMM != 0 {
		out.SizeMM = o.SizeMM
	}
	return out
}

// SegmentsFor returns the segment count for a curved feature of the
// given radius. An explicit per-call override wins over the context
// setting, which wins over the derived count. Derived counts clamp to
// MinSegments; an explicit count below MinSegments is an error.
func (r Resolution) SegmentsFor(radius float64, override int) (int, error) {
	explicit := override
	if explicit == 0 {
		explicit = r.Segments
	}
	if explicit != 0 {
		if explicit < MinSegments {
			return 0, &ResolutionError{
				Segments: explicit,
				Message:  "explicit segment count below minimum",
			}
		}
		return explicit, nil
	}

	angle := r.AngleDeg
	if angle <= 0 {
		angle = DefaultAngleDeg
	}
	size := r.SizeMM
	if size <= 0 {
		size = DefaultSizeMM
	}

	byAngle := 360.0 / angle
	bySize := radius * 2 * math.Pi / size
	n := int(math.Ceil(math.Min(byAngle, bySize)))
	if n < MinSegments {
		n = MinSegments
	}
	return n, nil
}
