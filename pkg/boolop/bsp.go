package boolop

import (
	"github.com/chazu/heartwood/pkg/csg"
)

// planeEps is the thickness of a plane for point classification. Points
// closer than this are treated as lying on the plane, which is what
// merges near-coincident geometry instead of producing slivers.
const planeEps = 1e-5

// plane is an oriented plane n·x = w.
type plane struct {
	n csg.Vec3
	w float64
}

func planeFromPoints(a, b, c csg.Vec3) (plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < 1e-12 {
		return plane{}, false
	}
	n = n.Normalize()
	return plane{n: n, w: n.Dot(a)}, true
}

func (p plane) flipped() plane {
	return plane{n: p.n.Neg(), w: -p.w}
}

// poly is a planar convex polygon with outward winding.
type poly struct {
	verts []csg.Vec3
	plane plane
}

func (p poly) flipped() poly {
	verts := make([]csg.Vec3, len(p.verts))
	for i, v := range p.verts {
		verts[len(p.verts)-1-i] = v
	}
	return poly{verts: verts, plane: p.plane.flipped()}
}

// Classification of a polygon against a plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// split classifies po against pl and distributes it (or its split
// halves) into the four output lists.
func (pl plane) split(po poly, coplanarFront, coplanarBack, frontOut, backOut *[]poly) {
	polyType := 0
	types := make([]int, len(po.verts))
	for i, v := range po.verts {
		t := pl.n.Dot(v) - pl.w
		switch {
		case t < -planeEps:
			types[i] = back
		case t > planeEps:
			types[i] = front
		default:
			types[i] = coplanar
		}
		polyType |= types[i]
	}

	switch polyType {
	case coplanar:
		if pl.n.Dot(po.plane.n) > 0 {
			*coplanarFront = append(*coplanarFront, po)
		} else {
			*coplanarBack = append(*coplanarBack, po)
		}
	case front:
		*frontOut = append(*frontOut, po)
	case back:
		*backOut = append(*backOut, po)
	case spanning:
		var f, b []csg.Vec3
		n := len(po.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := po.verts[i], po.verts[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if (ti | tj) == spanning {
				t := (pl.w - pl.n.Dot(vi)) / pl.n.Dot(vj.Sub(vi))
				v := vi.Add(vj.Sub(vi).MulScalar(t))
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*frontOut = append(*frontOut, poly{verts: f, plane: po.plane})
		}
		if len(b) >= 3 {
			*backOut = append(*backOut, poly{verts: b, plane: po.plane})
		}
	}
}

// bspNode is a node of a solid's BSP tree. Polygons stored at a node
// are coplanar with its splitting plane.
type bspNode struct {
	plane *plane
	front *bspNode
	back  *bspNode
	polys []poly
}

func newBSP(polys []poly) *bspNode {
	n := &bspNode{}
	n.build(polys)
	return n
}

// invert converts the tree between solid and hollow: all polygons and
// planes flip.
func (n *bspNode) invert() {
	for i := range n.polys {
		n.polys[i] = n.polys[i].flipped()
	}
	if n.plane != nil {
		p := n.plane.flipped()
		n.plane = &p
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons removes from the list everything inside the solid this
// tree represents.
func (n *bspNode) clipPolygons(polys []poly) []poly {
	if n.plane == nil {
		return append([]poly(nil), polys...)
	}
	var frontList, backList []poly
	for _, p := range polys {
		n.plane.split(p, &frontList, &backList, &frontList, &backList)
	}
	if n.front != nil {
		frontList = n.front.clipPolygons(frontList)
	}
	if n.back != nil {
		backList = n.back.clipPolygons(backList)
	} else {
		backList = nil // inside the solid
	}
	return append(frontList, backList...)
}

// clipTo removes everything in this tree that is inside the other
// tree's solid.
func (n *bspNode) clipTo(other *bspNode) {
	n.polys = other.clipPolygons(n.polys)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

// allPolygons collects every polygon in the tree.
func (n *bspNode) allPolygons() []poly {
	out := append([]poly(nil), n.polys...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// build inserts polygons into the tree, using the first polygon's plane
// as the splitter at each new node.
func (n *bspNode) build(polys []poly) {
	if len(polys) == 0 {
		return
	}
	if n.plane == nil {
		pl := polys[0].plane
		n.plane = &pl
	}
	var frontList, backList []poly
	for _, p := range polys {
		n.plane.split(p, &n.polys, &n.polys, &frontList, &backList)
	}
	if len(frontList) > 0 {
		if n.front == nil {
			n.front = &bspNode{}
		}
		n.front.build(frontList)
	}
	if len(backList) > 0 {
		if n.back == nil {
			n.back = &bspNode{}
		}
		n.back.build(backList)
	}
}
