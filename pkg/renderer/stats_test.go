package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red (1, 0, 0) -> 0.299, green -> 0.587, blue -> 0.114, black -> 0
	pixels := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 0),
	}

	tests := []struct {
		name     string
		passes   int
		expected float64
	}{
		{"OnePass", 1, 0.25},
		{"TwoPasses", 2, 0.125},
		{"NoPasses", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateAverageLuminance(pixels, tt.passes)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected average luminance %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if got := CalculateAverageLuminance(nil, 3); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
}
