// Package boolop computes boolean combinations of boundary meshes
// using BSP-tree clipping with tolerance-bounded predicates. Results
// are rebuilt into indexed meshes, healed of T-junctions introduced by
// clipping, and verified to be closed 2-manifolds.
package boolop

import (
	"fmt"

	"github.com/chazu/heartwood/pkg/csg"
	"github.com/chazu/heartwood/pkg/mesh"
)

// Apply dispatches a boolean operator.
func Apply(op csg.BoolOp, a, b *mesh.Mesh) (*mesh.Mesh, error) {
	switch op {
	case csg.BoolUnion:
		return Union(a, b)
	case csg.BoolDifference:
		return Difference(a, b)
	case csg.BoolIntersection:
		return Intersection(a, b)
	default:
		return nil, fmt.Errorf("unknown boolean operator %d", int(op))
	}
}

// Union returns a ∪ b. The union with the empty mesh is the identity;
// disjoint operands concatenate without clipping.
func Union(a, b *mesh.Mesh) (*mesh.Mesh, error) {
	if a.IsEmpty() {
		return b, nil
	}
	if b.IsEmpty() {
		return a, nil
	}
	if disjoint(a, b) {
		return mesh.Concat(a, b), nil
	}

	an := newBSP(toPolys(a))
	bn := newBSP(toPolys(b))
	an.clipTo(bn)
	bn.clipTo(an)
	bn.invert()
	bn.clipTo(an)
	bn.invert()
	an.build(bn.allPolygons())
	return rebuild(an.allPolygons())
}

// Difference returns a − b. Subtracting the empty mesh (or a disjoint
// operand) leaves a unchanged.
func Difference(a, b *mesh.Mesh) (*mesh.Mesh, error) {
	if a.IsEmpty() {
		return mesh.Empty(), nil
	}
	if b.IsEmpty() || disjoint(a, b) {
		return a, nil
	}

	an := newBSP(toPolys(a))
	bn := newBSP(toPolys(b))
	an.invert()
	an.clipTo(bn)
	bn.clipTo(an)
	bn.invert()
	bn.clipTo(an)
	bn.invert()
	an.build(bn.allPolygons())
	an.invert()
	return rebuild(an.allPolygons())
}

// Intersection returns a ∩ b. Disjoint operands yield the empty mesh.
func Intersection(a, b *mesh.Mesh) (*mesh.Mesh, error) {
	if a.IsEmpty() || b.IsEmpty() || disjoint(a, b) {
		return mesh.Empty(), nil
	}

	an := newBSP(toPolys(a))
	bn := newBSP(toPolys(b))
	an.invert()
	bn.clipTo(an)
	bn.invert()
	an.clipTo(bn)
	bn.clipTo(an)
	an.build(bn.allPolygons())
	an.invert()
	return rebuild(an.allPolygons())
}

// disjoint reports whether the operands' bounding boxes are separated.
func disjoint(a, b *mesh.Mesh) bool {
	minA, maxA := a.BoundingBox()
	minB, maxB := b.BoundingBox()
	return mesh.BoxesDisjoint(minA, maxA, minB, maxB, planeEps)
}

// toPolys explodes a mesh into BSP input polygons, dropping faces too
// degenerate to carry a plane.
func toPolys(m *mesh.Mesh) []poly {
	var out []poly
	for _, verts := range m.Polygons() {
		pl, ok := planeFromPoints(verts[0], verts[1], verts[2])
		if !ok {
			continue
		}
		out = append(out, poly{verts: verts, plane: pl})
	}
	return out
}

// rebuild turns clipper output back into an indexed mesh and verifies
// the manifold postcondition. An empty result is a valid outcome
// (intersection of disjoint-in-space operands); an open one is not.
func rebuild(polys []poly) (*mesh.Mesh, error) {
	soup := make([][]csg.Vec3, 0, len(polys))
	for _, p := range polys {
		soup = append(soup, p.verts)
	}
	m := mesh.FromPolygons(soup)
	if m.IsEmpty() {
		return mesh.Empty(), nil
	}
	m = healTJunctions(m)
	if !m.IsClosed() {
		return nil, &csg.GeometryError{
			Kind:    csg.NonManifoldResult,
			Message: "boolean result could not be closed into a 2-manifold after tolerance merging",
		}
	}
	return m, nil
}
