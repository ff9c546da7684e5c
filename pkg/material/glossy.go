package material

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Glossy probabilistically chooses per hit between diffuse scattering, mirror
// reflection and absorption
type Glossy struct {
	Color   ColorSource
	Diffuse float64 // Probability of a diffuse bounce
	Mirror  float64 // Probability of a mirror bounce
}

// NewGlossy creates a glossy material; probabilities are clamped so they sum to at most 1
func NewGlossy(color core.Vec3, diffuse, mirror float64) *Glossy {
	diffuse = math.Max(0.0, math.Min(diffuse, 1.0))
	mirror = math.Max(0.0, math.Min(mirror, 1.0-diffuse))
	return &Glossy{
		Color:   NewSolidColor(color),
		Diffuse: diffuse,
		Mirror:  mirror,
	}
}

// BSDF implements the Material interface
func (g *Glossy) BSDF(si *SurfaceInteraction, sampler core.Sampler) BSDF {
	u := sampler.Get1D()
	color := g.Color.Evaluate(si.UV, si.Point)
	switch {
	case u < g.Diffuse:
		return NewLambertian(color)
	case u < g.Diffuse+g.Mirror:
		return NewPerfectMirror(color)
	default:
		return nil
	}
}
