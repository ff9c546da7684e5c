package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// Mirror is a perfectly reflective material
type Mirror struct {
	Albedo core.Vec3
}

// NewMirror creates a mirror material
func NewMirror(albedo core.Vec3) *Mirror {
	return &Mirror{Albedo: albedo}
}

// BSDF implements the Material interface
func (m *Mirror) BSDF(si *SurfaceInteraction, sampler core.Sampler) BSDF {
	return NewPerfectMirror(m.Albedo)
}

// Glass is a clear or tinted dielectric material surrounded by air
type Glass struct {
	RefractiveIndex float64
	Tint            core.Vec3
}

// NewGlass creates a glass material
func NewGlass(refractiveIndex float64, tint core.Vec3) *Glass {
	return &Glass{RefractiveIndex: refractiveIndex, Tint: tint}
}

// BSDF captures the outward normal of the hit so the distribution stays valid
// after the path vertex reorients its frame
func (g *Glass) BSDF(si *SurfaceInteraction, sampler core.Sampler) BSDF {
	return &Dielectric{RefractiveIndex: g.RefractiveIndex, Tint: g.Tint, Outward: si.Ns}
}
