package scene

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 8

// oklchToRGB converts an OKLCH color (lightness 0-1, chroma, hue in degrees) to
// linear RGB clamped to [0, 1]
func oklchToRGB(lightness, chroma, hue float64) core.Vec3 {
	sinH, cosH := math.Sincos(hue * math.Pi / 180.0)
	a := chroma * cosH
	b := chroma * sinH

	// OKLab to cone responses, then cubed
	lms := core.NewVec3(
		lightness+0.3963377774*a+0.2158037573*b,
		lightness-0.1055613458*a-0.0638541728*b,
		lightness-0.0894841775*a-1.2914855480*b,
	)
	lms = lms.MultiplyVec(lms).MultiplyVec(lms)

	rgb := core.NewVec3(
		+4.0767416621*lms.X-3.3077115913*lms.Y+0.2309699292*lms.Z,
		-1.2684380046*lms.X+2.6097574011*lms.Y-0.3413193965*lms.Z,
		-0.0041960863*lms.X-0.7034186147*lms.Y+1.7076147010*lms.Z,
	)
	return rgb.Clamp(0, 1)
}

// NewSphereGridScene creates a grid of glossy spheres whose hue varies along x and
// chroma along z, lit by a large warm sphere
func NewSphereGridScene() (*Scene, error) {
	camera, err := NewCamera(CameraConfig{
		Position:    core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 16.0 / 9.0,
	})
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)

	sun := geometry.NewSphere(core.NewVec3(20, 25, 20), 8)
	s.Add(geometry.NewEmitter(sun, material.NewMatte(core.NewVec3(0.8, 0.8, 0.8)),
		material.NewEmitterData(PowerForRadiance(core.NewVec3(12.0, 11.5, 10.0), sun.Area()))))

	s.Add(geometry.NewPrimitive(NewGroundQuad(core.NewVec3(4.5, 0, 4.5), 60), material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))))

	// Fit the grid into a 9x9 area around the look-at point
	extent := 9.0
	spacing := extent / float64(sphereGridSize-1)
	radius := math.Min(0.35, spacing*0.35)
	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			center := core.NewVec3(
				float64(i)*spacing-extent/2+4.5,
				radius,
				float64(j)*spacing-extent/2+4.5,
			)
			hue := float64(i) / float64(sphereGridSize-1) * 360.0
			chroma := 0.05 + float64(j)/float64(sphereGridSize-1)*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			mirror := 0.3 + 0.2*float64((i+j)%3)
			s.Add(geometry.NewPrimitive(
				geometry.NewSphere(center, radius),
				material.NewGlossy(oklchToRGB(lightness, chroma, hue), 1.0-mirror, mirror),
			))
		}
	}
	return s, nil
}
