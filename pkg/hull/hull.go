// Package hull computes 3D convex hulls over point sets collected from
// materialized child meshes. Coplanar input degrades to a two-sided
// flat face set; collinear input is not a solid and fails.
package hull

import (
	"fmt"
	"math"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/mesh"
)

// OfMeshes computes the convex hull over the combined vertices of the
// children.
func OfMeshes(children []*mesh.Mesh) (*mesh.Mesh, error) {
	var pts []csg.Vec3
	for _, m := range children {
		pts = append(pts, m.Verts...)
	}
	return Points(pts)
}

// Points computes the convex hull of a point set using incremental
// insertion: start from an extreme tetrahedron, then for each point
// remove the faces it can see and fan new faces around the horizon.
func Points(pts []csg.Vec3) (*mesh.Mesh, error) {
	pts = dedup(pts)
	if len(pts) < 2 {
		return nil, &csg.GeometryError{
			Kind:    csg.DegenerateHull,
			Message: fmt.Sprintf("hull needs at least 2 distinct points, got %d", len(pts)),
		}
	}

	i0, i1, i2, i3, class := initialSimplex(pts)
	switch class {
	case simplexCollinear:
		return nil, &csg.GeometryError{
			Kind:    csg.DegenerateHull,
			Message: "hull input is collinear: a line segment is not a solid",
		}
	case simplexCoplanar:
		return flatHull(pts)
	}

	// Orient the tetrahedron so face normals point outward.
	if signedVolume(pts[i0], pts[i1], pts[i2], pts[i3]) < 0 {
		i1, i2 = i2, i1
	}

	h := &builder{pts: pts, eps: scaleEps(pts)}
	h.addFace(i0, i2, i1)
	h.addFace(i0, i1, i3)
	h.addFace(i1, i2, i3)
	h.addFace(i2, i0, i3)

	seed := map[int]bool{i0: true, i1: true, i2: true, i3: true}
	for i := range pts {
		if !seed[i] {
			h.insert(i)
		}
	}

	return h.mesh(), nil
}

// dedup removes near-coincident points on a rounding grid, preserving
// first-seen order for determinism.
func dedup(pts []csg.Vec3) []csg.Vec3 {
	const grid = 1e-9
	seen := make(map[[3]int64]bool, len(pts))
	out := make([]csg.Vec3, 0, len(pts))
	for _, p := range pts {
		k := [3]int64{
			int64(math.Round(p.X / grid)),
			int64(math.Round(p.Y / grid)),
			int64(math.Round(p.Z / grid)),
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

type simplexClass int

const (
	simplexFull simplexClass = iota
	simplexCoplanar
	simplexCollinear
)

// initialSimplex picks four extreme points spanning the largest
// available dimension and classifies degenerate inputs.
func initialSimplex(pts []csg.Vec3) (i0, i1, i2, i3 int, class simplexClass) {
	eps := scaleEps(pts)

	// Farthest pair seeded from the lexicographic extreme.
	i0 = 0
	for i, p := range pts {
		q := pts[i0]
		if p.X < q.X || (p.X == q.X && (p.Y < q.Y || (p.Y == q.Y && p.Z < q.Z))) {
			i0 = i
		}
	}
	best := -1.0
	for i, p := range pts {
		if d := p.Sub(pts[i0]).Length2(); d > best {
			best = d
			i1 = i
		}
	}

	// Farthest from the line i0-i1.
	dir := pts[i1].Sub(pts[i0])
	best = -1.0
	for i, p := range pts {
		d := p.Sub(pts[i0]).Cross(dir).Length2()
		if d > best {
			best = d
			i2 = i
		}
	}
	if math.Sqrt(math.Max(best, 0)) <= eps*dir.Length() {
		return i0, i1, i2, i3, simplexCollinear
	}

	// Farthest from the plane i0-i1-i2.
	n := dir.Cross(pts[i2].Sub(pts[i0])).Normalize()
	best = -1.0
	for i, p := range pts {
		d := math.Abs(p.Sub(pts[i0]).Dot(n))
		if d > best {
			best = d
			i3 = i
		}
	}
	if best <= eps {
		return i0, i1, i2, i3, simplexCoplanar
	}
	return i0, i1, i2, i3, simplexFull
}

// scaleEps derives the visibility tolerance from the point cloud extent.
func scaleEps(pts []csg.Vec3) float64 {
	if len(pts) == 0 {
		return 1e-9
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	diag := max.Sub(min).Length()
	if diag == 0 {
		return 1e-9
	}
	return 1e-9 * diag
}

func signedVolume(a, b, c, d csg.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Dot(d.Sub(a))
}

// face is a hull triangle with its outward plane.
type face struct {
	a, b, c int
	n       csg.Vec3 // unit outward normal
	w       float64  // plane offset: n·x = w
	dead    bool
}

type builder struct {
	pts   []csg.Vec3
	faces []face
	eps   float64
}

func (h *builder) addFace(a, b, c int) {
	pa, pb, pc := h.pts[a], h.pts[b], h.pts[c]
	n := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
	h.faces = append(h.faces, face{a: a, b: b, c: c, n: n, w: n.Dot(pa)})
}

// insert adds point i to the hull, if it lies outside.
func (h *builder) insert(i int) {
	p := h.pts[i]
	visible := make([]int, 0, 4)
	for fi := range h.faces {
		f := &h.faces[fi]
		if f.dead {
			continue
		}
		if f.n.Dot(p)-f.w > h.eps {
			visible = append(visible, fi)
		}
	}
	if len(visible) == 0 {
		return // inside or on the hull
	}

	// Horizon edges: directed edges of visible faces whose reverse is
	// not itself part of a visible face.
	type edge struct{ a, b int }
	dirEdges := make(map[edge]bool, len(visible)*3)
	for _, fi := range visible {
		f := h.faces[fi]
		dirEdges[edge{f.a, f.b}] = true
		dirEdges[edge{f.b, f.c}] = true
		dirEdges[edge{f.c, f.a}] = true
	}
	for _, fi := range visible {
		h.faces[fi].dead = true
	}
	for _, fi := range visible {
		f := h.faces[fi]
		for _, e := range []edge{{f.a, f.b}, {f.b, f.c}, {f.c, f.a}} {
			if !dirEdges[edge{e.b, e.a}] {
				h.addFace(e.a, e.b, i)
			}
		}
	}
}

// mesh compacts the surviving faces into an indexed mesh.
func (h *builder) mesh() *mesh.Mesh {
	remap := make(map[int]int)
	var verts []csg.Vec3
	idx := func(i int) int {
		if j, ok := remap[i]; ok {
			return j
		}
		j := len(verts)
		verts = append(verts, h.pts[i])
		remap[i] = j
		return j
	}
	var faces [][]int
	for _, f := range h.faces {
		if f.dead {
			continue
		}
		faces = append(faces, []int{idx(f.a), idx(f.b), idx(f.c)})
	}
	return &mesh.Mesh{Verts: verts, Faces: faces}
}

// flatHull handles the all-coplanar case: a 2D hull lifted into a
// zero-thickness two-sided face set.
func flatHull(pts []csg.Vec3) (*mesh.Mesh, error) {
	// Plane basis from the spanning triangle found by initialSimplex.
	i0, i1, i2, _, _ := initialSimplex(pts)
	u := pts[i1].Sub(pts[i0]).Normalize()
	n := u.Cross(pts[i2].Sub(pts[i0])).Normalize()
	v := n.Cross(u)
	origin := pts[i0]

	type p2 struct {
		x, y float64
		idx  int
	}
	proj := make([]p2, len(pts))
	for i, p := range pts {
		d := p.Sub(origin)
		proj[i] = p2{x: d.Dot(u), y: d.Dot(v), idx: i}
	}

	// Andrew's monotone chain.
	ordered := make([]p2, len(proj))
	copy(ordered, proj)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0; j-- {
			a, b := ordered[j-1], ordered[j]
			if b.x < a.x || (b.x == a.x && b.y < a.y) {
				ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
			} else {
				break
			}
		}
	}
	cross := func(o, a, b p2) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}
	var hull2 []p2
	for _, p := range ordered {
		for len(hull2) >= 2 && cross(hull2[len(hull2)-2], hull2[len(hull2)-1], p) <= 0 {
			hull2 = hull2[:len(hull2)-1]
		}
		hull2 = append(hull2, p)
	}
	lower := len(hull2) + 1
	for i := len(ordered) - 2; i >= 0; i-- {
		p := ordered[i]
		for len(hull2) >= lower && cross(hull2[len(hull2)-2], hull2[len(hull2)-1], p) <= 0 {
			hull2 = hull2[:len(hull2)-1]
		}
		hull2 = append(hull2, p)
	}
	hull2 = hull2[:len(hull2)-1]

	if len(hull2) < 3 {
		return nil, &csg.GeometryError{
			Kind:    csg.DegenerateHull,
			Message: "hull input is collinear: a line segment is not a solid",
		}
	}

	verts := make([]csg.Vec3, len(hull2))
	front := make([]int, len(hull2))
	back := make([]int, len(hull2))
	for i, p := range hull2 {
		verts[i] = pts[p.idx]
		front[i] = i
		back[len(hull2)-1-i] = i
	}
	return &mesh.Mesh{Verts: verts, Faces: [][]int{front, back}}, nil
}
