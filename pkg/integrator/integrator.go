package integrator

import (
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/scene"
)

// SplatFunc adds a contribution to an arbitrary pixel of the image being rendered.
// Implementations must be safe for concurrent use.
type SplatFunc func(x, y int, contribution core.Vec3)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Initialize binds the integrator to a preprocessed scene and the rendering settings
	Initialize(scene *scene.Scene, params core.RenderParameters) error

	// RenderPixel returns one radiance estimate for pixel (px, py) during the given pass.
	// Contributions that land on other pixels are passed to splat.
	RenderPixel(px, py, pass int, sampler core.Sampler, splat SplatFunc) core.Vec3
}

// initializeScene validates the settings and prepares the scene for sampling
func initializeScene(s *scene.Scene, params core.RenderParameters) error {
	if s == nil {
		return errNoScene
	}
	if err := params.Validate(); err != nil {
		return err
	}
	return s.Preprocess()
}

// pixelImagePosition returns the stratified image-plane position of a pixel sample.
// Coordinates are in [0, 1] with u to the right and v down.
func pixelImagePosition(px, py, pass int, params core.RenderParameters, sample core.Vec2) core.Vec2 {
	strata := params.PixelSubdivisions * params.PixelSubdivisions
	jitter := core.SampleRectStratified(pass, strata, sample)
	return core.NewVec2(
		(float64(px)+jitter.X)/float64(params.Width),
		(float64(py)+jitter.Y)/float64(params.Height),
	)
}

// imagePixel maps a continuous image position to the pixel containing it
func imagePixel(image core.Vec2, params core.RenderParameters) (int, int) {
	x := int(image.X * float64(params.Width))
	y := int(image.Y * float64(params.Height))
	return min(max(x, 0), params.Width-1), min(max(y, 0), params.Height-1)
}
