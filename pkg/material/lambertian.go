package material

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// SamplingMode selects how Lambertian scattering importance-samples directions
type SamplingMode int

const (
	SamplingCosine  SamplingMode = iota // cos(θ)/π per solid angle
	SamplingUniform                     // 1/(2π) per solid angle
)

// Lambertian is a perfectly diffuse reflector
type Lambertian struct {
	Albedo core.Vec3
	Mode   SamplingMode
}

// NewLambertian creates a cosine-sampled lambertian distribution
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo, Mode: SamplingCosine}
}

// Evaluate returns albedo/π for directions on the same side of the surface
func (l *Lambertian) Evaluate(si *SurfaceInteraction, incoming, outgoing core.Vec3) core.Vec3 {
	if !sameHemisphere(si, incoming, outgoing) {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// Density returns the projected-solid-angle density of the sampling mode
func (l *Lambertian) Density(si *SurfaceInteraction, sampled, given core.Vec3) float64 {
	if !sameHemisphere(si, sampled, given) {
		return 0.0
	}
	if l.Mode == SamplingUniform {
		cosTheta := sampled.AbsDot(si.Ns)
		if cosTheta == 0 {
			return 0.0
		}
		return 1.0 / (2.0 * math.Pi * cosTheta)
	}
	return 1.0 / math.Pi
}

// Scatter samples a direction in the hemisphere on the outgoing side of the surface
func (l *Lambertian) Scatter(si *SurfaceInteraction, outgoing core.Vec3, sampler core.Sampler) (ScatterResult, bool) {
	if !validSide(si, outgoing) {
		return ScatterResult{}, false
	}

	var local core.Vec3
	if l.Mode == SamplingUniform {
		local = core.SampleHemisphereUniform(sampler.Get2D())
	} else {
		local = core.SampleHemisphereCosine(sampler.Get2D())
	}

	frame := si.Frame()
	if frame.ToLocal(outgoing).Z < 0 {
		local.Z = -local.Z
	}
	direction := frame.FromLocal(local).Normalize()

	// Shading and geometric normals can disagree near silhouettes
	if !sameHemisphere(si, direction, outgoing) {
		return ScatterResult{}, false
	}

	pdf := l.Density(si, direction, outgoing)
	if pdf == 0 {
		return ScatterResult{}, false
	}
	return ScatterResult{
		Direction: direction,
		Pdf:       pdf,
		Value:     l.Albedo.Multiply(1.0 / math.Pi),
	}, true
}

// IsSpecular returns false
func (l *Lambertian) IsSpecular() bool {
	return false
}
