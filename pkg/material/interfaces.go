package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// SurfaceInteraction is the world-space record of a ray hit.
// Normals always have unit length; Tangent, Bitangent and Ns form the shading frame.
type SurfaceInteraction struct {
	Point     core.Vec3
	Ng        core.Vec3 // Geometric normal
	Ns        core.Vec3 // Shading normal
	Tangent   core.Vec3
	Bitangent core.Vec3
	UV        core.Vec2
	Distance  float64 // Ray parameter of the hit

	Primitive int          // Index of the owning primitive in its scene
	Material  Material     // Material of the owning primitive
	Emitter   *EmitterData // Non-nil when the owning primitive emits light
	BSDF      BSDF         // Nil means the surface absorbs and the walk ends
}

// Frame returns the shading frame with Ns as the local z axis
func (si *SurfaceInteraction) Frame() core.Frame {
	return core.Frame{T: si.Tangent, B: si.Bitangent, N: si.Ns}
}

// FlipFrame turns the normals to the opposite side while keeping the frame right-handed
func (si *SurfaceInteraction) FlipFrame() {
	si.Ng = si.Ng.Negate()
	si.Ns = si.Ns.Negate()
	si.Bitangent = si.Bitangent.Negate()
}

// OffsetPoint moves the hit point along the geometric normal
func (si *SurfaceInteraction) OffsetPoint(eps float64) {
	si.Point = si.Point.Add(si.Ng.Multiply(eps))
}

// IsEmitter reports whether the owning primitive emits light
func (si *SurfaceInteraction) IsEmitter() bool {
	return si.Emitter != nil
}

// BSDF describes how a surface redirects light.
// All directions are unit vectors pointing away from the surface.
type BSDF interface {
	// Evaluate returns the scattering value with respect to projected solid angle.
	// It is zero unless both directions lie on the same side of the geometric and shading normal.
	Evaluate(si *SurfaceInteraction, incoming, outgoing core.Vec3) core.Vec3

	// Density returns the projected-solid-angle density of sampling `sampled` given `given`.
	// Specular distributions return the discrete probability of the matching branch.
	Density(si *SurfaceInteraction, sampled, given core.Vec3) float64

	// Scatter draws a direction given the outgoing direction
	Scatter(si *SurfaceInteraction, outgoing core.Vec3, sampler core.Sampler) (ScatterResult, bool)

	// IsSpecular reports whether sampled directions follow a Dirac delta distribution
	IsSpecular() bool
}

// ScatterResult contains the result of BSDF sampling
type ScatterResult struct {
	Direction core.Vec3 // Sampled direction, pointing away from the surface
	Pdf       float64   // Projected-solid-angle density, or branch probability when Specular
	Value     core.Vec3 // BSDF value; Value/Pdf is the throughput multiplier
	Specular  bool
}

// Material produces the scattering distribution for a hit.
// A nil result means the hit absorbs; materials may choose this probabilistically.
type Material interface {
	BSDF(si *SurfaceInteraction, sampler core.Sampler) BSDF
}

// validSide reports whether w lies on the same side of the geometric and shading normal
func validSide(si *SurfaceInteraction, w core.Vec3) bool {
	return w.Dot(si.Ng)*w.Dot(si.Ns) > 0
}

// sameHemisphere reports whether a and b lie on the same side of both normals
func sameHemisphere(si *SurfaceInteraction, a, b core.Vec3) bool {
	return a.Dot(si.Ng)*b.Dot(si.Ng) > 0 && a.Dot(si.Ns)*b.Dot(si.Ns) > 0
}
