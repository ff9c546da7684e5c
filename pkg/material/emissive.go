package material

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// EmitterData is the emission capability of a primitive.
// Emitters radiate from the front side of their surface with equal intensity in every
// direction of the hemisphere, so radiance grows as 1/cos toward grazing angles.
type EmitterData struct {
	Power       core.Vec3 // Total emitted power per channel
	Area        float64   // World-space surface area, set when the scene is preprocessed
	Probability float64   // Selection probability among the scene's emitters
}

// NewEmitterData creates emitter data with the given power
func NewEmitterData(power core.Vec3) *EmitterData {
	return &EmitterData{Power: power}
}

// Weight returns the unnormalized selection weight, the power sum per unit area
func (e *EmitterData) Weight() float64 {
	if e.Area <= 0 {
		return 0.0
	}
	return e.Power.Sum() / e.Area
}

// AreaDensity returns the area-measure density of choosing this emitter and a point on it
func (e *EmitterData) AreaDensity() float64 {
	if e.Area <= 0 {
		return 0.0
	}
	return e.Probability / e.Area
}

// DirectionDensity returns the projected-solid-angle density of emitting at cosTheta
// from the surface normal. Directions behind the surface have zero density.
func (e *EmitterData) DirectionDensity(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0.0
	}
	return 1.0 / (2.0 * math.Pi * cosTheta)
}

// Radiance returns the emitted radiance leaving the surface at cosTheta from its normal
func (e *EmitterData) Radiance(cosTheta float64) core.Vec3 {
	if e.Area <= 0 || cosTheta <= 0 {
		return core.Vec3{}
	}
	return e.Power.Multiply(e.DirectionDensity(cosTheta) / e.Area)
}
