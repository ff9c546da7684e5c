package renderer

import (
	"time"

	"github.com/df07/go-bdpt/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Number of pixels in the image
	TotalSamples     int           // Pixel samples taken over all committed passes
	Passes           int           // Number of committed passes
	AverageLuminance float64       // Mean luminance of the normalized radiance
	PassDuration     time.Duration // Wall time of the most recent pass, when known
}

// SamplesPerPixel returns the number of samples each pixel has received
func (s RenderStats) SamplesPerPixel() int {
	return s.Passes
}

// CalculateAverageLuminance returns the mean luminance of accumulated radiance
// divided by the number of passes
func CalculateAverageLuminance(pixels []core.Vec3, passes int) float64 {
	if len(pixels) == 0 || passes <= 0 {
		return 0.0
	}
	total := 0.0
	for _, p := range pixels {
		total += p.Luminance()
	}
	return total / float64(len(pixels)) / float64(passes)
}
