package mesh

import (
	"github.com/dhconnelly/rtreego"

	"github.com/chazu/heartwood/pkg/csg"
)

// MergeTolerance is the distance below which two vertices are treated
// as coincident when rebuilding an indexed mesh from polygon soup.
// Models are mm-scale, so this is well under machining tolerance while
// still welding the near-identical points produced by plane splitting.
const MergeTolerance = 1e-6

// pointEntry is a merged vertex stored in the spatial index.
type pointEntry struct {
	idx  int
	pos  csg.Vec3
	rect rtreego.Rect
}

func (p *pointEntry) Bounds() rtreego.Rect { return p.rect }

// vertexIndex merges near-coincident vertices using an R-tree over
// tolerance-sized boxes.
type vertexIndex struct {
	tree  *rtreego.Rtree
	verts []csg.Vec3
	tol   float64
}

func newVertexIndex(tol float64) *vertexIndex {
	return &vertexIndex{tree: rtreego.NewTree(3, 8, 16), tol: tol}
}

// add returns the index of the merged vertex for p, inserting a new one
// if no existing vertex lies within the tolerance.
func (vi *vertexIndex) add(p csg.Vec3) int {
	q, _ := rtreego.NewRect(
		rtreego.Point{p.X - vi.tol, p.Y - vi.tol, p.Z - vi.tol},
		[]float64{2 * vi.tol, 2 * vi.tol, 2 * vi.tol},
	)
	for _, hit := range vi.tree.SearchIntersect(q) {
		e := hit.(*pointEntry)
		if e.pos.Sub(p).Length() <= vi.tol {
			return e.idx
		}
	}
	idx := len(vi.verts)
	vi.verts = append(vi.verts, p)
	vi.tree.Insert(&pointEntry{idx: idx, pos: p, rect: q})
	return idx
}

// FromPolygons rebuilds an indexed mesh from a polygon soup, welding
// vertices within MergeTolerance and dropping faces that collapse
// below three distinct vertices.
func FromPolygons(polys [][]csg.Vec3) *Mesh {
	vi := newVertexIndex(MergeTolerance)
	var faces [][]int
	for _, poly := range polys {
		face := make([]int, 0, len(poly))
		for _, p := range poly {
			idx := vi.add(p)
			if len(face) > 0 && face[len(face)-1] == idx {
				continue // collapsed edge
			}
			face = append(face, idx)
		}
		// Collapsed wrap-around edge.
		for len(face) > 1 && face[0] == face[len(face)-1] {
			face = face[:len(face)-1]
		}
		if len(face) >= 3 {
			faces = append(faces, face)
		}
	}
	return &Mesh{Verts: vi.verts, Faces: faces}
}

// Polygons explodes the mesh into a polygon soup, one vertex slice per
// face. The inverse of FromPolygons, used to hand meshes to the BSP
// clipper.
func (m *Mesh) Polygons() [][]csg.Vec3 {
	polys := make([][]csg.Vec3, 0, len(m.Faces))
	for _, f := range m.Faces {
		poly := make([]csg.Vec3, len(f))
		for i, idx := range f {
			poly[i] = m.Verts[idx]
		}
		polys = append(polys, poly)
	}
	return polys
}
