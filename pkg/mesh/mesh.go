// Package mesh provides the boundary representation produced by the
// geometry operators: indexed polygon meshes with consistent outward
// winding, plus the 2D profiles consumed by the extrusion engine.
package mesh

import (
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/heartwood/pkg/csg"
)

// Mesh is a boundary representation: vertices and faces given as
// ordered vertex-index tuples wound counter-clockwise seen from
// outside. Faces must be planar and convex; cap triangulation happens
// at generation time, so every face the operators produce satisfies
// this. Meshes are immutable once built and safe to share.
type Mesh struct {
	Verts []csg.Vec3
	Faces [][]int
}

// Empty returns the empty mesh.
func Empty() *Mesh { return &Mesh{} }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return m == nil || len(m.Faces) == 0 }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Verts) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// Transform returns a new mesh with every vertex transformed once by
// mat. The face index lists are shared with the receiver unless the
// transform flips orientation, in which case each face reverses its
// vertex order to keep outward winding.
func (m *Mesh) Transform(mat csg.Matrix) *Mesh {
	if m.IsEmpty() {
		return Empty()
	}
	verts := make([]csg.Vec3, len(m.Verts))
	for i, v := range m.Verts {
		verts[i] = mat.MulPosition(v)
	}
	faces := m.Faces
	if csg.FlipsWinding(mat) {
		faces = make([][]int, len(m.Faces))
		for i, f := range m.Faces {
			r := make([]int, len(f))
			for j, idx := range f {
				r[len(f)-1-j] = idx
			}
			faces[i] = r
		}
	}
	return &Mesh{Verts: verts, Faces: faces}
}

// Triangles fan-triangulates the faces into the flat triangle list that
// is the engine's output surface.
func (m *Mesh) Triangles() []sdf.Triangle3 {
	if m.IsEmpty() {
		return nil
	}
	var tris []sdf.Triangle3
	for _, f := range m.Faces {
		for i := 2; i < len(f); i++ {
			tris = append(tris, sdf.Triangle3{
				m.Verts[f[0]], m.Verts[f[i-1]], m.Verts[f[i]],
			})
		}
	}
	return tris
}

// Volume computes the enclosed volume via the divergence theorem. Only
// meaningful for closed meshes.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, t := range m.Triangles() {
		vol += t[0].Dot(t[1].Cross(t[2]))
	}
	return vol / 6.0
}

// BoundingBox returns the axis-aligned bounding box.
func (m *Mesh) BoundingBox() (min, max csg.Vec3) {
	if m.IsEmpty() {
		return csg.Vec3{}, csg.Vec3{}
	}
	min = m.Verts[0]
	max = m.Verts[0]
	for _, v := range m.Verts[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// IsClosed reports whether the mesh is a closed 2-manifold: every
// undirected edge borders exactly two faces, traversed once in each
// direction.
func (m *Mesh) IsClosed() bool {
	if m.IsEmpty() {
		return false
	}
	type edge struct{ a, b int }
	directed := make(map[edge]int)
	for _, f := range m.Faces {
		if len(f) < 3 {
			return false
		}
		for i := range f {
			a := f[i]
			b := f[(i+1)%len(f)]
			if a == b {
				return false
			}
			directed[edge{a, b}]++
		}
	}
	for e, n := range directed {
		if n != 1 || directed[edge{e.b, e.a}] != 1 {
			return false
		}
	}
	return true
}

// Concat merges two meshes without resolving overlaps. Used for the
// disjoint-union fast path, where the operands share no space.
func Concat(a, b *Mesh) *Mesh {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	verts := make([]csg.Vec3, 0, len(a.Verts)+len(b.Verts))
	verts = append(verts, a.Verts...)
	verts = append(verts, b.Verts...)
	faces := make([][]int, 0, len(a.Faces)+len(b.Faces))
	faces = append(faces, a.Faces...)
	off := len(a.Verts)
	for _, f := range b.Faces {
		nf := make([]int, len(f))
		for i, idx := range f {
			nf[i] = idx + off
		}
		faces = append(faces, nf)
	}
	return &Mesh{Verts: verts, Faces: faces}
}

// BoxesDisjoint reports whether two bounding boxes are separated by
// more than tol on some axis.
func BoxesDisjoint(minA, maxA, minB, maxB csg.Vec3, tol float64) bool {
	return maxA.X < minB.X-tol || maxB.X < minA.X-tol ||
		maxA.Y < minB.Y-tol || maxB.Y < minA.Y-tol ||
		maxA.Z < minB.Z-tol || maxB.Z < minA.Z-tol
}
