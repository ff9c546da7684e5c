package geometry

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// IntersectTriangle intersects a ray with the triangle p0, p1, p2 using the Möller-Trumbore
// algorithm. It returns the ray parameter and the barycentric weights (u, v) of p1 and p2.
func IntersectTriangle(ray core.Ray, p0, p1, p2 core.Vec3, tMin, tMax float64) (float64, float64, float64, bool) {
	const epsilon = 1e-12

	edge1 := p1.Subtract(p0)
	edge2 := p2.Subtract(p0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(p0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t := f * edge2.Dot(q)
	if t <= tMin || t >= tMax {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
