package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// PerfectMirror reflects every direction about the shading normal
type PerfectMirror struct {
	Albedo core.Vec3
}

// NewPerfectMirror creates a mirror distribution tinted by albedo
func NewPerfectMirror(albedo core.Vec3) *PerfectMirror {
	return &PerfectMirror{Albedo: albedo}
}

// Evaluate is zero for every finite pair of directions
func (m *PerfectMirror) Evaluate(si *SurfaceInteraction, incoming, outgoing core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Density returns the probability of the single reflection branch
func (m *PerfectMirror) Density(si *SurfaceInteraction, sampled, given core.Vec3) float64 {
	if !sameHemisphere(si, sampled, given) {
		return 0.0
	}
	return 1.0
}

// Scatter returns the mirror direction of outgoing
func (m *PerfectMirror) Scatter(si *SurfaceInteraction, outgoing core.Vec3, sampler core.Sampler) (ScatterResult, bool) {
	if !validSide(si, outgoing) {
		return ScatterResult{}, false
	}
	direction := reflect(outgoing, si.Ns)
	if !sameHemisphere(si, direction, outgoing) {
		return ScatterResult{}, false
	}
	return ScatterResult{
		Direction: direction,
		Pdf:       1.0,
		Value:     m.Albedo,
		Specular:  true,
	}, true
}

// IsSpecular returns true
func (m *PerfectMirror) IsSpecular() bool {
	return true
}

// reflect mirrors w, which points away from the surface, about n
func reflect(w, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * w.Dot(n)).Subtract(w).Normalize()
}
