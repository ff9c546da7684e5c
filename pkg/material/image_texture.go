package material

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// ImageTexture looks colors up in an in-memory texel grid by UV coordinates.
// Texels are produced procedurally; decoding image files is left to callers.
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new texel-grid texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture at given UV coordinates using nearest-neighbor filtering.
// UVs wrap; V=0 is the bottom row.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	u := wrapUnit(uv.X)
	v := wrapUnit(uv.Y)

	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int((1.0-v)*float64(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+max(x, 0)]
}

func wrapUnit(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x += 1.0
	}
	return x
}
