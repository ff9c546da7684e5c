package core

import "math"

// Frame is an orthonormal basis with the normal as the local z axis
type Frame struct {
	T, B, N Vec3
}

// NewFrame builds a frame from a normal and a tangent; the tangent is re-orthogonalized against n
func NewFrame(n, tangent Vec3) Frame {
	t := tangent.Subtract(n.Multiply(n.Dot(tangent)))
	if t.LengthSquared() < 1e-16 {
		return NewFrameFromNormal(n)
	}
	t = t.Normalize()
	return Frame{T: t, B: n.Cross(t), N: n}
}

// NewFrameFromNormal builds an arbitrary frame around a unit normal
func NewFrameFromNormal(n Vec3) Frame {
	// Find a vector not parallel to the normal
	var nt Vec3
	if math.Abs(n.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	t := nt.Cross(n).Normalize()
	return Frame{T: t, B: n.Cross(t), N: n}
}

// ToLocal expresses a world-space direction in frame coordinates
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.T), v.Dot(f.B), v.Dot(f.N))
}

// FromLocal converts frame coordinates back to world space
func (f Frame) FromLocal(v Vec3) Vec3 {
	return f.T.Multiply(v.X).Add(f.B.Multiply(v.Y)).Add(f.N.Multiply(v.Z))
}
