package csg

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec2 is a 2D point, used for polygon profiles.
type Vec2 = v2.Vec

// Vec3 is a 3D point.
type Vec3 = v3.Vec

// Matrix is a 4x4 affine transform. Composition is right-multiplication
// in tree order: a child's transform is post-multiplied by all ancestor
// transforms, so final vertex = ancestor.Mul(child).MulPosition(local).
type Matrix = sdf.M44

// Identity returns the identity transform.
func Identity() Matrix { return sdf.Identity3d() }

// Translate returns a translation by v.
func Translate(v Vec3) Matrix { return sdf.Translate3d(v) }

// ScaleXYZ returns a per-axis scale. Negative components mirror.
func ScaleXYZ(v Vec3) Matrix { return sdf.Scale3d(v) }

// RotateXYZ returns a rotation by Euler angles in degrees, applied
// X first, then Y, then Z.
func RotateXYZ(x, y, z float64) Matrix {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	return sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
}

// RotateAxis returns a rotation by angle degrees about an arbitrary axis.
func RotateAxis(axis Vec3, angle float64) Matrix {
	return sdf.Rotate3d(axis, angle*math.Pi/180.0)
}

// Mirror returns a reflection across the plane through the origin with
// the given normal. The reflection is built by rotating the normal onto
// the X axis, negating X, and rotating back.
func Mirror(normal Vec3) Matrix {
	n := normal.Normalize()
	ex := Vec3{X: 1}
	flip := sdf.Scale3d(Vec3{X: -1, Y: 1, Z: 1})

	dot := n.Dot(ex)
	if dot > 1-1e-12 || dot < -(1-1e-12) {
		// Normal already along X; -X mirrors across the same plane.
		return flip
	}
	axis := n.Cross(ex).Normalize()
	angle := math.Acos(math.Max(-1, math.Min(1, dot)))
	fwd := sdf.Rotate3d(axis, angle)
	back := sdf.Rotate3d(axis, -angle)
	return back.Mul(flip).Mul(fwd)
}

// FlipsWinding reports whether m inverts orientation (negative
// determinant), in which case transformed faces must reverse their
// vertex order to keep outward winding. The determinant sign is read
// off the images of the basis vectors, so it needs no access to the
// matrix elements.
func FlipsWinding(m Matrix) bool {
	o := m.MulPosition(Vec3{})
	x := m.MulPosition(Vec3{X: 1}).Sub(o)
	y := m.MulPosition(Vec3{Y: 1}).Sub(o)
	z := m.MulPosition(Vec3{Z: 1}).Sub(o)
	return x.Cross(y).Dot(z) < 0
}
