// Package extrude sweeps or revolves a 2D profile into a 3D solid.
// Results are emitted as polygon soup and rebuilt through the mesh
// package's welding pass, so on-axis and apex vertices end up shared.
package extrude

import (
	"fmt"
	"math"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/mesh"
)

// axisEps is the snap distance to the revolution axis.
const axisEps = 1e-9

// Linear sweeps the profile along +Z from 0 to height, linearly
// interpolating twist angle (degrees, clockwise seen from above, as in
// the usual solid-modeling convention) and scale factor per layer.
// Scale 0 collapses the top to an apex. data.Segments overrides the
// derived layer count.
func Linear(p *mesh.Profile, data csg.ExtrudeData, res csg.Resolution) (*mesh.Mesh, error) {
	if data.Height <= 0 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("extrusion height must be positive, got %g", data.Height),
		}
	}
	if data.Scale < 0 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("extrusion scale must be non-negative, got %g", data.Scale),
		}
	}
	if !p.IsSimple() {
		return nil, &csg.GeometryError{
			Kind:    csg.SelfIntersectingProfile,
			Message: "linear extrusion profile is self-intersecting",
		}
	}

	layers, err := layerCount(data, res)
	if err != nil {
		return nil, err
	}

	prof := p.CCW()
	nv := len(prof.Points)
	apex := data.Scale == 0

	// Ring of profile points per layer, twisted and scaled.
	ring := func(layer int) []csg.Vec3 {
		t := float64(layer) / float64(layers)
		ang := -data.Twist * t * math.Pi / 180
		s := 1 + (data.Scale-1)*t
		sin, cos := math.Sin(ang), math.Cos(ang)
		out := make([]csg.Vec3, nv)
		for i, pt := range prof.Points {
			out[i] = csg.Vec3{
				X: s * (pt.X*cos - pt.Y*sin),
				Y: s * (pt.X*sin + pt.Y*cos),
				Z: data.Height * t,
			}
		}
		return out
	}

	tris, err := prof.Triangulate()
	if err != nil {
		return nil, err
	}

	var polys [][]csg.Vec3

	// Bottom cap, wound downward.
	bottom := ring(0)
	for _, tri := range tris {
		polys = append(polys, []csg.Vec3{bottom[tri[0]], bottom[tri[2]], bottom[tri[1]]})
	}

	// Walls. Twisted or scaled quads are not planar, so they split into
	// triangles; straight prisms keep quads.
	straight := data.Twist == 0 && data.Scale == 1
	prev := bottom
	for l := 1; l <= layers; l++ {
		if l == layers && apex {
			tip := csg.Vec3{Z: data.Height}
			for i := 0; i < nv; i++ {
				j := (i + 1) % nv
				polys = append(polys, []csg.Vec3{prev[i], prev[j], tip})
			}
			prev = nil
			break
		}
		curr := ring(l)
		for i := 0; i < nv; i++ {
			j := (i + 1) % nv
			if straight {
				polys = append(polys, []csg.Vec3{prev[i], prev[j], curr[j], curr[i]})
			} else {
				polys = append(polys,
					[]csg.Vec3{prev[i], prev[j], curr[j]},
					[]csg.Vec3{prev[i], curr[j], curr[i]},
				)
			}
		}
		prev = curr
	}

	// Top cap, wound upward, unless the top collapsed to the apex.
	if !apex {
		for _, tri := range tris {
			polys = append(polys, []csg.Vec3{prev[tri[0]], prev[tri[1]], prev[tri[2]]})
		}
	}

	return mesh.FromPolygons(polys), nil
}

// layerCount derives the number of interpolation layers from the twist
// magnitude and the angular resolution.
func layerCount(data csg.ExtrudeData, res csg.Resolution) (int, error) {
	if data.Segments != 0 {
		if data.Segments < 1 {
			return 0, &csg.ResolutionError{
				Segments: data.Segments,
				Message:  "explicit layer count below minimum",
			}
		}
		return data.Segments, nil
	}
	if data.Twist == 0 {
		return 1, nil
	}
	angle := res.AngleDeg
	if angle <= 0 {
		angle = csg.DefaultAngleDeg
	}
	n := int(math.Ceil(math.Abs(data.Twist) / angle))
	if n < 1 {
		n = 1
	}
	return n, nil
}

// Revolve rotates the profile about the Z axis by angle degrees,
// treating profile X as radius and profile Y as height. Points on the
// negative side of the axis are an error; points on the axis weld.
func Revolve(p *mesh.Profile, data csg.ExtrudeData, res csg.Resolution) (*mesh.Mesh, error) {
	if data.Angle <= 0 || data.Angle > 360 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("revolution angle must be in (0, 360], got %g", data.Angle),
		}
	}
	if !p.IsSimple() {
		return nil, &csg.GeometryError{
			Kind:    csg.SelfIntersectingProfile,
			Message: "revolution profile is self-intersecting",
		}
	}

	prof := p.CCW()
	var maxR float64
	for _, pt := range prof.Points {
		if pt.X < -axisEps {
			return nil, &csg.GeometryError{
				Kind:    csg.ProfileCrossesAxis,
				Message: fmt.Sprintf("profile point (%g, %g) lies on the negative side of the revolution axis", pt.X, pt.Y),
			}
		}
		if pt.X > maxR {
			maxR = pt.X
		}
	}
	if maxR <= axisEps {
		return nil, &csg.GeometryError{
			Kind:    csg.DegenerateHull,
			Message: "revolution profile lies entirely on the axis",
		}
	}

	full := data.Angle == 360
	nFull, err := res.SegmentsFor(maxR, data.Segments)
	if err != nil {
		return nil, err
	}
	steps := int(math.Ceil(float64(nFull) * data.Angle / 360))
	if steps < 1 {
		steps = 1
	}

	nv := len(prof.Points)
	// at returns profile point i revolved to step k.
	at := func(i, k int) csg.Vec3 {
		pt := prof.Points[i]
		r := pt.X
		if r < axisEps {
			return csg.Vec3{Z: pt.Y}
		}
		phi := data.Angle * math.Pi / 180 * float64(k) / float64(steps)
		return csg.Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: pt.Y}
	}
	onAxis := func(i int) bool { return prof.Points[i].X < axisEps }

	var polys [][]csg.Vec3
	for k := 0; k < steps; k++ {
		k1 := k + 1
		if full && k1 == steps {
			k1 = 0
		}
		for i := 0; i < nv; i++ {
			j := (i + 1) % nv
			switch {
			case onAxis(i) && onAxis(j):
				// Edge along the axis generates no surface.
			case onAxis(i):
				polys = append(polys, []csg.Vec3{at(i, k), at(j, k1), at(j, k)})
			case onAxis(j):
				polys = append(polys, []csg.Vec3{at(i, k), at(i, k1), at(j, k)})
			default:
				polys = append(polys, []csg.Vec3{at(i, k), at(i, k1), at(j, k1), at(j, k)})
			}
		}
	}

	if !full {
		tris, err := prof.Triangulate()
		if err != nil {
			return nil, err
		}
		// Start cap faces backwards along the sweep, end cap forwards.
		for _, tri := range tris {
			polys = append(polys, []csg.Vec3{at(tri[0], 0), at(tri[1], 0), at(tri[2], 0)})
			polys = append(polys, []csg.Vec3{at(tri[0], steps), at(tri[2], steps), at(tri[1], steps)})
		}
	}

	return mesh.FromPolygons(polys), nil
}
