package mesh

import (
	"math"

	"github.com/chazu/heartwood/pkg/csg"
)

// Profile is a 2D polygon used as extrusion input (or as the result of
// a 2D-only evaluation). Points are ordered; the polygon must be simple
// before it may be extruded.
type Profile struct {
	Points []csg.Vec2
}

// NewProfile builds a profile from an ordered point list.
func NewProfile(points []csg.Vec2) *Profile {
	return &Profile{Points: points}
}

// SignedArea is positive for counter-clockwise winding.
func (p *Profile) SignedArea() float64 {
	var area float64
	n := len(p.Points)
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

// CCW returns the profile wound counter-clockwise, reversing a copy of
// the point list if necessary.
func (p *Profile) CCW() *Profile {
	if p.SignedArea() >= 0 {
		return p
	}
	rev := make([]csg.Vec2, len(p.Points))
	for i, pt := range p.Points {
		rev[len(p.Points)-1-i] = pt
	}
	return &Profile{Points: rev}
}

// Transform applies the XY part of an affine transform to the profile.
func (p *Profile) Transform(m csg.Matrix) *Profile {
	out := make([]csg.Vec2, len(p.Points))
	for i, pt := range p.Points {
		q := m.MulPosition(csg.Vec3{X: pt.X, Y: pt.Y})
		out[i] = csg.Vec2{X: q.X, Y: q.Y}
	}
	return &Profile{Points: out}
}

// IsSimple reports whether the polygon is non-self-intersecting. Every
// non-adjacent segment pair is tested for proper or improper crossing;
// O(n²) is fine at profile sizes.
func (p *Profile) IsSimple() bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := p.Points[i]
		a2 := p.Points[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip the segment itself and its neighbors.
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := p.Points[j]
			b2 := p.Points[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// cross2 is the 2D cross product (b-a) x (c-a).
func cross2(a, b, c csg.Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// segmentsIntersect tests two closed segments for intersection,
// including collinear overlap.
func segmentsIntersect(a1, a2, b1, b2 csg.Vec2) bool {
	d1 := cross2(b1, b2, a1)
	d2 := cross2(b1, b2, a2)
	d3 := cross2(a1, a2, b1)
	d4 := cross2(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	const eps = 1e-12
	if math.Abs(d1) < eps && onSegment(b1, b2, a1) {
		return true
	}
	if math.Abs(d2) < eps && onSegment(b1, b2, a2) {
		return true
	}
	if math.Abs(d3) < eps && onSegment(a1, a2, b1) {
		return true
	}
	if math.Abs(d4) < eps && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// onSegment reports whether c, already known collinear with a-b, lies
// within the segment's bounding box.
func onSegment(a, b, c csg.Vec2) bool {
	return math.Min(a.X, b.X) <= c.X && c.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= c.Y && c.Y <= math.Max(a.Y, b.Y)
}

// Triangulate ear-clips the profile into triangles of point indices.
// The profile must be simple; the caller checks that first so the
// error here only covers numerically degenerate input.
func (p *Profile) Triangulate() ([][3]int, error) {
	ccw := p.CCW()
	n := len(ccw.Points)
	if n < 3 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: "polygon needs at least 3 points",
		}
	}

	// Map back to original indices if CCW reversed the order.
	reversed := ccw != p
	orig := func(i int) int {
		if reversed {
			return n - 1 - i
		}
		return i
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var tris [][3]int
	for len(indices) > 3 {
		clipped := false
		m := len(indices)
		for i := 0; i < m; i++ {
			prev := indices[(i+m-1)%m]
			curr := indices[i]
			next := indices[(i+1)%m]
			if isEar(ccw.Points, indices, prev, curr, next) {
				tris = append(tris, [3]int{orig(prev), orig(curr), orig(next)})
				indices = append(indices[:i], indices[i+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			return nil, &csg.GeometryError{
				Kind:    csg.SelfIntersectingProfile,
				Message: "polygon triangulation failed: no ear found",
			}
		}
	}
	tris = append(tris, [3]int{orig(indices[0]), orig(indices[1]), orig(indices[2])})
	return tris, nil
}

// isEar reports whether the corner prev-curr-next is convex and holds
// no other remaining vertex.
func isEar(pts []csg.Vec2, remaining []int, prev, curr, next int) bool {
	a, b, c := pts[prev], pts[curr], pts[next]
	if cross2(a, b, c) <= 1e-12 {
		return false // reflex or degenerate corner
	}
	for _, idx := range remaining {
		if idx == prev || idx == curr || idx == next {
			continue
		}
		if pointInTriangle(pts[idx], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c csg.Vec2) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
