package core

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Transform is an affine 4x4 transform stored together with its inverse.
// Matrices are row-major; points are column vectors.
type Transform struct {
	m   f64.Mat4
	inv f64.Mat4
}

var identityMat4 = f64.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{m: identityMat4, inv: identityMat4}
}

// NewTransform builds a transform from a matrix and its known inverse
func NewTransform(m, inv f64.Mat4) Transform {
	return Transform{m: m, inv: inv}
}

// Translate returns a translation by v
func Translate(v Vec3) Transform {
	return Transform{
		m: f64.Mat4{
			1, 0, 0, v.X,
			0, 1, 0, v.Y,
			0, 0, 1, v.Z,
			0, 0, 0, 1,
		},
		inv: f64.Mat4{
			1, 0, 0, -v.X,
			0, 1, 0, -v.Y,
			0, 0, 1, -v.Z,
			0, 0, 0, 1,
		},
	}
}

// Scale returns a scale by the per-axis factors of v; all factors must be non-zero
func Scale(v Vec3) Transform {
	return Transform{
		m: f64.Mat4{
			v.X, 0, 0, 0,
			0, v.Y, 0, 0,
			0, 0, v.Z, 0,
			0, 0, 0, 1,
		},
		inv: f64.Mat4{
			1 / v.X, 0, 0, 0,
			0, 1 / v.Y, 0, 0,
			0, 0, 1 / v.Z, 0,
			0, 0, 0, 1,
		},
	}
}

// RotateY returns a rotation around the Y axis by angle radians
func RotateY(angle float64) Transform {
	s, c := math.Sincos(angle)
	m := f64.Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
	return Transform{m: m, inv: transpose(m)}
}

// Compose returns the transform that applies inner first and then t
func (t Transform) Compose(inner Transform) Transform {
	return Transform{
		m:   mul(t.m, inner.m),
		inv: mul(inner.inv, t.inv),
	}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform{m: t.inv, inv: t.m}
}

// Matrix returns the forward matrix
func (t Transform) Matrix() f64.Mat4 {
	return t.m
}

// TransformPoint applies the transform to a position
func (t Transform) TransformPoint(p Vec3) Vec3 {
	m := &t.m
	return Vec3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// TransformVector applies the linear part of the transform to a direction
func (t Transform) TransformVector(v Vec3) Vec3 {
	m := &t.m
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// TransformNormal applies the inverse transpose of the linear part, which keeps
// conormal directions perpendicular to transformed surfaces. The result is not normalized.
func (t Transform) TransformNormal(n Vec3) Vec3 {
	inv := &t.inv
	return Vec3{
		X: inv[0]*n.X + inv[4]*n.Y + inv[8]*n.Z,
		Y: inv[1]*n.X + inv[5]*n.Y + inv[9]*n.Z,
		Z: inv[2]*n.X + inv[6]*n.Y + inv[10]*n.Z,
	}
}

// TransformRay maps a ray into the transform's target space. The direction is not
// renormalized, so hit distances are preserved between the two spaces.
func (t Transform) TransformRay(r Ray) Ray {
	return Ray{Origin: t.TransformPoint(r.Origin), Direction: t.TransformVector(r.Direction)}
}

func mul(a, b f64.Mat4) f64.Mat4 {
	var r f64.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i*4+k] * b[k*4+j]
			}
			r[i*4+j] = sum
		}
	}
	return r
}

func transpose(a f64.Mat4) f64.Mat4 {
	var r f64.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[j*4+i] = a[i*4+j]
		}
	}
	return r
}
