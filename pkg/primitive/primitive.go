// Package primitive builds base meshes for the leaf shapes of the CSG
// tree. Vertex and face ordering is deterministic for identical inputs,
// which is what allows the evaluator to memoize and tests to reproduce.
package primitive

import (
	"fmt"
	"math"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/mesh"
)

// Cuboid builds an axis-aligned rectangular solid.
func Cuboid(d csg.CuboidData) (*mesh.Mesh, error) {
	if d.W <= 0 || d.H <= 0 || d.D <= 0 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("cuboid dimensions must be positive, got %gx%gx%g", d.W, d.H, d.D),
		}
	}

	var ox, oy, oz float64
	if d.Center {
		ox, oy, oz = -d.W/2, -d.H/2, -d.D/2
	}
	verts := []csg.Vec3{
		{X: ox, Y: oy, Z: oz},
		{X: ox + d.W, Y: oy, Z: oz},
		{X: ox + d.W, Y: oy + d.H, Z: oz},
		{X: ox, Y: oy + d.H, Z: oz},
		{X: ox, Y: oy, Z: oz + d.D},
		{X: ox + d.W, Y: oy, Z: oz + d.D},
		{X: ox + d.W, Y: oy + d.H, Z: oz + d.D},
		{X: ox, Y: oy + d.H, Z: oz + d.D},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // bottom (-Z)
		{4, 5, 6, 7}, // top (+Z)
		{0, 1, 5, 4}, // front (-Y)
		{2, 3, 7, 6}, // back (+Y)
		{0, 4, 7, 3}, // left (-X)
		{1, 2, 6, 5}, // right (+X)
	}
	return &mesh.Mesh{Verts: verts, Faces: faces}, nil
}

// Cylinder builds a cylinder or cone along Z. One diameter may be zero,
// collapsing that end to an apex; height must be positive. The segment
// count comes from the resolution context unless the node carries an
// explicit override.
func Cylinder(d csg.CylinderData, res csg.Resolution) (*mesh.Mesh, error) {
	if d.H <= 0 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("cylinder height must be positive, got %g", d.H),
		}
	}
	if d.D1 < 0 || d.D2 < 0 || (d.D1 == 0 && d.D2 == 0) {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("cylinder diameters must be positive (one may be zero for a cone), got d1=%g d2=%g", d.D1, d.D2),
		}
	}

	r1 := d.D1 / 2
	r2 := d.D2 / 2
	n, err := res.SegmentsFor(math.Max(r1, r2), d.Segments)
	if err != nil {
		return nil, err
	}

	z0 := 0.0
	if d.Center {
		z0 = -d.H / 2
	}
	z1 := z0 + d.H

	var verts []csg.Vec3
	var faces [][]int
	ring := func(r, z float64) []int {
		idx := make([]int, n)
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			idx[i] = len(verts)
			verts = append(verts, csg.Vec3{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z})
		}
		return idx
	}

	switch {
	case r1 > 0 && r2 > 0:
		bot := ring(r1, z0)
		top := ring(r2, z1)
		cb := len(verts)
		verts = append(verts, csg.Vec3{Z: z0})
		ct := len(verts)
		verts = append(verts, csg.Vec3{Z: z1})
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			faces = append(faces,
				[]int{bot[i], bot[j], top[j], top[i]},
				[]int{cb, bot[j], bot[i]},
				[]int{ct, top[i], top[j]},
			)
		}

	case r2 == 0: // cone, apex on top
		bot := ring(r1, z0)
		apex := len(verts)
		verts = append(verts, csg.Vec3{Z: z1})
		cb := len(verts)
		verts = append(verts, csg.Vec3{Z: z0})
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			faces = append(faces,
				[]int{bot[i], bot[j], apex},
				[]int{cb, bot[j], bot[i]},
			)
		}

	default: // r1 == 0, apex on the bottom
		top := ring(r2, z1)
		apex := len(verts)
		verts = append(verts, csg.Vec3{Z: z0})
		ct := len(verts)
		verts = append(verts, csg.Vec3{Z: z1})
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			faces = append(faces,
				[]int{top[j], top[i], apex},
				[]int{ct, top[i], top[j]},
			)
		}
	}

	return &mesh.Mesh{Verts: verts, Faces: faces}, nil
}

// Sphere builds a UV sphere centered on the origin.
func Sphere(d csg.SphereData, res csg.Resolution) (*mesh.Mesh, error) {
	if d.R <= 0 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("sphere radius must be positive, got %g", d.R),
		}
	}
	nLon, err := res.SegmentsFor(d.R, d.Segments)
	if err != nil {
		return nil, err
	}
	nLat := nLon / 2
	if nLat < 2 {
		nLat = 2
	}

	var verts []csg.Vec3
	north := len(verts)
	verts = append(verts, csg.Vec3{Z: d.R})

	rings := make([][]int, 0, nLat-1)
	for j := 1; j < nLat; j++ {
		theta := math.Pi * float64(j) / float64(nLat)
		ring := make([]int, nLon)
		for i := 0; i < nLon; i++ {
			phi := 2 * math.Pi * float64(i) / float64(nLon)
			ring[i] = len(verts)
			verts = append(verts, csg.Vec3{
				X: d.R * math.Sin(theta) * math.Cos(phi),
				Y: d.R * math.Sin(theta) * math.Sin(phi),
				Z: d.R * math.Cos(theta),
			})
		}
		rings = append(rings, ring)
	}

	south := len(verts)
	verts = append(verts, csg.Vec3{Z: -d.R})

	var faces [][]int
	first := rings[0]
	for i := 0; i < nLon; i++ {
		j := (i + 1) % nLon
		faces = append(faces, []int{north, first[i], first[j]})
	}
	for k := 0; k+1 < len(rings); k++ {
		upper := rings[k]
		lower := rings[k+1]
		for i := 0; i < nLon; i++ {
			j := (i + 1) % nLon
			faces = append(faces, []int{upper[i], lower[i], lower[j], upper[j]})
		}
	}
	last := rings[len(rings)-1]
	for i := 0; i < nLon; i++ {
		j := (i + 1) % nLon
		faces = append(faces, []int{south, last[j], last[i]})
	}

	return &mesh.Mesh{Verts: verts, Faces: faces}, nil
}

// Polygon builds the 2D profile for a polygon node. Simplicity is
// checked at extrusion time; generation rejects only inputs that
// cannot form a polygon at all.
func Polygon(d csg.PolygonData) (*mesh.Profile, error) {
	if len(d.Points) < 3 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: fmt.Sprintf("polygon needs at least 3 points, got %d", len(d.Points)),
		}
	}
	p := mesh.NewProfile(d.Points)
	if math.Abs(p.SignedArea()) < 1e-12 {
		return nil, &csg.GeometryError{
			Kind:    csg.InvalidDimension,
			Message: "polygon has zero area",
		}
	}
	return p, nil
}
