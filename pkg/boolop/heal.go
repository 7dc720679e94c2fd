package boolop

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/heartwood/pkg/mesh"
)

// weldEps is the distance within which a vertex counts as lying on an
// edge during T-junction healing. Matches the plane thickness so seam
// vertices produced by independent splits still land on the
// neighboring edge.
const weldEps = planeEps

// vertEntry is a mesh vertex stored in the healing spatial index.
type vertEntry struct {
	idx  int
	rect rtreego.Rect
}

func (e *vertEntry) Bounds() rtreego.Rect { return e.rect }

// healTJunctions subdivides face edges at vertices that lie on their
// interior. BSP clipping splits the two operands independently, so a
// seam edge on one side may be subdivided more finely than its
// counterpart on the other; inserting the missing vertices makes the
// edge counts match again so the manifold check can pass.
func healTJunctions(m *mesh.Mesh) *mesh.Mesh {
	tree := rtreego.NewTree(3, 8, 16)
	for i, v := range m.Verts {
		r, _ := rtreego.NewRect(
			rtreego.Point{v.X - weldEps, v.Y - weldEps, v.Z - weldEps},
			[]float64{2 * weldEps, 2 * weldEps, 2 * weldEps},
		)
		tree.Insert(&vertEntry{idx: i, rect: r})
	}

	faces := make([][]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		var out []int
		for i := range f {
			a := f[i]
			b := f[(i+1)%len(f)]
			out = append(out, a)
			out = append(out, interiorVerts(m, tree, a, b)...)
		}
		faces = append(faces, out)
	}
	return &mesh.Mesh{Verts: m.Verts, Faces: faces}
}

// interiorVerts returns indices of vertices lying strictly inside the
// segment a-b, ordered along it.
func interiorVerts(m *mesh.Mesh, tree *rtreego.Rtree, a, b int) []int {
	pa := m.Verts[a]
	pb := m.Verts[b]
	d := pb.Sub(pa)
	len2 := d.Length2()
	if len2 == 0 {
		return nil
	}

	lo := pa.Min(pb)
	hi := pa.Max(pb)
	q, _ := rtreego.NewRect(
		rtreego.Point{lo.X - weldEps, lo.Y - weldEps, lo.Z - weldEps},
		[]float64{hi.X - lo.X + 2*weldEps, hi.Y - lo.Y + 2*weldEps, hi.Z - lo.Z + 2*weldEps},
	)

	type hit struct {
		t   float64
		idx int
	}
	var hits []hit
	for _, s := range tree.SearchIntersect(q) {
		e := s.(*vertEntry)
		if e.idx == a || e.idx == b {
			continue
		}
		p := m.Verts[e.idx]
		t := p.Sub(pa).Dot(d) / len2
		if t <= 0 || t >= 1 {
			continue
		}
		onSeg := pa.Add(d.MulScalar(t))
		if p.Sub(onSeg).Length() > weldEps {
			continue
		}
		hits = append(hits, hit{t: t, idx: e.idx})
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].t != hits[j].t {
			return hits[i].t < hits[j].t
		}
		return hits[i].idx < hits[j].idx
	})
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		if len(out) > 0 && out[len(out)-1] == h.idx {
			continue
		}
		out = append(out, h.idx)
	}
	return out
}
