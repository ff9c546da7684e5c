package core

import "fmt"

// RenderParameters holds the settings that stay fixed for the whole of one rendering
type RenderParameters struct {
	Width             int     // Image width in pixels
	Height            int     // Image height in pixels
	PixelSubdivisions int     // Pixel footprint strata per side
	LensSubdivisions  int     // Lens strata per side
	MinDepth          int     // Subpath length before Russian roulette can start
	FocusDistance     float64 // Distance from the lens to the plane in focus
	LensRadius        float64 // Zero gives a pinhole camera
}

// DefaultRenderParameters returns a small pinhole configuration
func DefaultRenderParameters() RenderParameters {
	return RenderParameters{
		Width:             400,
		Height:            400,
		PixelSubdivisions: 4,
		LensSubdivisions:  1,
		MinDepth:          3,
		FocusDistance:     1.0,
		LensRadius:        0.0,
	}
}

// Validate checks that the parameters describe a renderable image
func (p RenderParameters) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.PixelSubdivisions <= 0 || p.LensSubdivisions <= 0 {
		return fmt.Errorf("subdivisions must be positive, got pixel=%d lens=%d", p.PixelSubdivisions, p.LensSubdivisions)
	}
	if p.MinDepth <= 0 {
		return fmt.Errorf("minimum depth must be positive, got %d", p.MinDepth)
	}
	if !(p.FocusDistance > 0) {
		return fmt.Errorf("focus distance must be positive, got %v", p.FocusDistance)
	}
	if !(p.LensRadius >= 0) {
		return fmt.Errorf("lens radius must not be negative, got %v", p.LensRadius)
	}
	return nil
}

// PixelCount returns Width * Height
func (p RenderParameters) PixelCount() int {
	return p.Width * p.Height
}
