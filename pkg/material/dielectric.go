package material

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Dielectric is a smooth boundary between air (index 1) and a transparent medium.
// It reflects or refracts stochastically according to the exact Fresnel equations.
type Dielectric struct {
	RefractiveIndex float64   // Index of refraction of the inside medium
	Tint            core.Vec3 // Color multiplier applied to both branches
	Outward         core.Vec3 // Surface normal pointing out of the medium; zero uses the shading normal
}

// NewDielectric creates a clear dielectric distribution
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Tint: core.NewVec3(1, 1, 1)}
}

// Evaluate is zero for every finite pair of directions
func (d *Dielectric) Evaluate(si *SurfaceInteraction, incoming, outgoing core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Density returns the Fresnel probability of the branch connecting given to sampled
func (d *Dielectric) Density(si *SurfaceInteraction, sampled, given core.Vec3) float64 {
	n := d.outward(si)
	reflectance := d.reflectance(given, n)
	if sampled.Dot(n)*given.Dot(n) > 0 {
		return reflectance
	}
	return 1.0 - reflectance
}

// Scatter chooses reflection with probability R and refraction otherwise
func (d *Dielectric) Scatter(si *SurfaceInteraction, outgoing core.Vec3, sampler core.Sampler) (ScatterResult, bool) {
	if !validSide(si, outgoing) {
		return ScatterResult{}, false
	}

	// Orient the normal toward the outgoing side
	n := d.outward(si)
	etaI, etaT := 1.0, d.RefractiveIndex
	cosI := outgoing.Dot(n)
	if cosI < 0 {
		n = n.Negate()
		cosI = -cosI
		etaI, etaT = etaT, etaI
	}

	eta := etaI / etaT
	sin2T := eta * eta * (1.0 - cosI*cosI)
	reflectance := 1.0 // Total internal reflection
	var cosT float64
	if sin2T <= 1.0 {
		cosT = math.Sqrt(1.0 - sin2T)
		reflectance = Fresnel(etaI, etaT, cosI, cosT)
	}

	if sampler.Get1D() < reflectance {
		return ScatterResult{
			Direction: reflect(outgoing, n),
			Pdf:       reflectance,
			Value:     d.Tint.Multiply(reflectance),
			Specular:  true,
		}, true
	}

	transmittance := 1.0 - reflectance
	direction := outgoing.Negate().Multiply(eta).Add(n.Multiply(eta*cosI - cosT)).Normalize()
	return ScatterResult{
		Direction: direction,
		Pdf:       transmittance,
		Value:     d.Tint.Multiply(transmittance),
		Specular:  true,
	}, true
}

// IsSpecular returns true
func (d *Dielectric) IsSpecular() bool {
	return true
}

func (d *Dielectric) outward(si *SurfaceInteraction) core.Vec3 {
	if d.Outward.IsZero() {
		return si.Ns
	}
	return d.Outward
}

// reflectance returns the Fresnel reflectance seen from direction w
func (d *Dielectric) reflectance(w, n core.Vec3) float64 {
	etaI, etaT := 1.0, d.RefractiveIndex
	cosI := w.Dot(n)
	if cosI < 0 {
		cosI = -cosI
		etaI, etaT = etaT, etaI
	}
	eta := etaI / etaT
	sin2T := eta * eta * (1.0 - cosI*cosI)
	if sin2T > 1.0 {
		return 1.0
	}
	return Fresnel(etaI, etaT, cosI, math.Sqrt(1.0-sin2T))
}

// Fresnel returns the unpolarized reflectance of a smooth dielectric boundary
func Fresnel(etaI, etaT, cosI, cosT float64) float64 {
	rs := (etaI*cosI - etaT*cosT) / (etaI*cosI + etaT*cosT)
	rp := (etaT*cosI - etaI*cosT) / (etaT*cosI + etaI*cosT)
	return 0.5 * (rs*rs + rp*rp)
}
