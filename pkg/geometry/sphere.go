package geometry

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/material"
)

// Sphere is the unit sphere placed in the world by a transform.
// Area and area sampling assume a uniform scale.
type Sphere struct {
	ToWorld core.Transform
	toLocal core.Transform
	radius  float64
}

// NewSphere creates a sphere from a center and radius
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return NewTransformedSphere(core.Translate(center).Compose(core.Scale(core.NewVec3(radius, radius, radius))))
}

// NewTransformedSphere creates a sphere from an arbitrary object-to-world transform
func NewTransformedSphere(toWorld core.Transform) *Sphere {
	return &Sphere{
		ToWorld: toWorld,
		toLocal: toWorld.Inverse(),
		radius:  toWorld.TransformVector(core.NewVec3(1, 0, 0)).Length(),
	}
}

// IntersectUnitSphere returns the nearest root of |o + t·d|² = 1 with tMin < t < tMax
func IntersectUnitSphere(ray core.Ray, tMin, tMax float64) (float64, bool) {
	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := ray.Origin.Dot(ray.Direction)
	c := ray.Origin.LengthSquared() - 1.0

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return 0, false
		}
	}
	return root, true
}

// Hit transforms the ray into sphere space without renormalizing, so t is shared
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	t, ok := IntersectUnitSphere(s.toLocal.TransformRay(ray), tMin, tMax)
	if !ok {
		return Hit{}, false
	}
	return Hit{T: t}, true
}

// Interaction builds the surface record at a hit
func (s *Sphere) Interaction(ray core.Ray, hit Hit) material.SurfaceInteraction {
	local := s.toLocal.TransformRay(ray).At(hit.T).Normalize()
	si := s.surfaceAt(local)
	si.Distance = hit.T
	return si
}

// Bounds transforms the corners of the unit sphere's box into the world
func (s *Sphere) Bounds() core.AABB {
	corners := make([]core.Vec3, 0, 8)
	for _, x := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, z := range []float64{-1, 1} {
				corners = append(corners, s.ToWorld.TransformPoint(core.NewVec3(x, y, z)))
			}
		}
	}
	return core.NewAABBFromPoints(corners...)
}

// Area returns 4πR²
func (s *Sphere) Area() float64 {
	return 4.0 * math.Pi * s.radius * s.radius
}

// SamplePoint picks a uniformly distributed point on the sphere
func (s *Sphere) SamplePoint(sample core.Vec3) material.SurfaceInteraction {
	return s.surfaceAt(core.SampleSphereUniform(core.NewVec2(sample.X, sample.Y)))
}

// surfaceAt builds the world-space record for a point on the unit sphere
func (s *Sphere) surfaceAt(local core.Vec3) material.SurfaceInteraction {
	n := s.ToWorld.TransformNormal(local).Normalize()

	// Tangent orthogonal to the local normal, pointing toward +z
	var tangent core.Vec3
	if math.Abs(local.Z) > 1e-6 {
		tangent = local.Negate().Add(core.NewVec3(0, 0, 1.0/local.Z)).Normalize()
		if local.Z < 0 {
			tangent = tangent.Negate()
		}
		tangent = s.ToWorld.TransformVector(tangent)
	} else {
		tangent = core.NewVec3(0, 0, 1)
		tangent = s.ToWorld.TransformVector(tangent)
	}
	frame := core.NewFrame(n, tangent)

	phi := math.Atan2(local.Y, local.X)
	theta := math.Acos(math.Max(-1, math.Min(1, local.Z)))

	return material.SurfaceInteraction{
		Point:     s.ToWorld.TransformPoint(local),
		Ng:        n,
		Ns:        n,
		Tangent:   frame.T,
		Bitangent: frame.B,
		UV:        core.NewVec2((phi+math.Pi)/(2*math.Pi), 1.0-theta/math.Pi),
	}
}
