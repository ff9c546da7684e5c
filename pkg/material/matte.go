package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// latexPaintDiffuse is the fraction of hits on latex paint that scatter diffusely
const latexPaintDiffuse = 0.8

// Matte always scatters diffusely
type Matte struct {
	Albedo ColorSource
	Mode   SamplingMode
}

// NewMatte creates a matte material with a solid color
func NewMatte(albedo core.Vec3) *Matte {
	return &Matte{Albedo: NewSolidColor(albedo)}
}

// NewTexturedMatte creates a matte material with a texture
func NewTexturedMatte(albedo ColorSource) *Matte {
	return &Matte{Albedo: albedo}
}

// BSDF returns a lambertian distribution colored at the hit
func (m *Matte) BSDF(si *SurfaceInteraction, sampler core.Sampler) BSDF {
	return &Lambertian{Albedo: m.Albedo.Evaluate(si.UV, si.Point), Mode: m.Mode}
}

// LatexPaint scatters diffusely on most hits and absorbs the rest
type LatexPaint struct {
	Color ColorSource
}

// NewLatexPaint creates a latex paint with a solid color
func NewLatexPaint(color core.Vec3) *LatexPaint {
	return &LatexPaint{Color: NewSolidColor(color)}
}

// BSDF returns a lambertian distribution or nil for an absorbed hit
func (p *LatexPaint) BSDF(si *SurfaceInteraction, sampler core.Sampler) BSDF {
	if sampler.Get1D() >= latexPaintDiffuse {
		return nil
	}
	return NewLambertian(p.Color.Evaluate(si.UV, si.Point))
}
