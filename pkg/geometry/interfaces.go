package geometry

import (
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/material"
)

// Hit is the cheap result of a ray test, enough to rank hits and build the
// surface record later
type Hit struct {
	T    float64 // Ray parameter
	Part int     // Shape-specific part, the face index for meshes
	U, V float64 // Barycentric or parametric coordinates within the part
}

// Shape is world-space geometry that rays can hit and emitters can sample
type Shape interface {
	// Hit returns the nearest intersection with tMin < t < tMax
	Hit(ray core.Ray, tMin, tMax float64) (Hit, bool)

	// Interaction builds the world-space surface record for a hit returned by Hit
	Interaction(ray core.Ray, hit Hit) material.SurfaceInteraction

	// Bounds returns a world-space box containing the whole shape
	Bounds() core.AABB

	// Area returns the world-space surface area
	Area() float64

	// SamplePoint returns a point distributed uniformly by area
	SamplePoint(sample core.Vec3) material.SurfaceInteraction
}
