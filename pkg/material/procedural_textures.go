package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// generateTexture fills a width×height texel grid row by row, with y=0 the top row
func generateTexture(width, height int, texel func(x, y int) core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels = append(pixels, texel(x, y))
		}
	}
	return NewImageTexture(width, height, pixels)
}

// NewCheckerboardTexture creates a UV-space checkerboard with squares of checkSize texels
func NewCheckerboardTexture(width, height, checkSize int, even, odd core.Vec3) *ImageTexture {
	checkSize = max(checkSize, 1)
	return generateTexture(width, height, func(x, y int) core.Vec3 {
		if (x/checkSize+y/checkSize)%2 == 1 {
			return odd
		}
		return even
	})
}

// NewGradientTexture blends linearly from top down to bottom along V
func NewGradientTexture(width, height int, top, bottom core.Vec3) *ImageTexture {
	return generateTexture(width, height, func(_, y int) core.Vec3 {
		if height < 2 {
			return top
		}
		t := float64(y) / float64(height-1)
		return top.Multiply(1 - t).Add(bottom.Multiply(t))
	})
}
