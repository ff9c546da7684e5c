package scene

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

// cornellBoxSize is the side of the standard Cornell box in scene units
const cornellBoxSize = 555.0

// NewCornellScene creates a classic Cornell box with a ceiling light, a mirror sphere,
// a glass sphere and a rotated painted block
func NewCornellScene() (*Scene, error) {
	camera, err := NewCamera(CameraConfig{
		Position:    core.NewVec3(278, 278, -800), // Outside the open front of the box
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 1.0,
	})
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)

	white := material.NewLatexPaint(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewMatte(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewMatte(core.NewVec3(0.12, 0.45, 0.15))

	size := cornellBoxSize
	s.Add(
		// Floor, facing up
		geometry.NewPrimitive(geometry.NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0)), white),
		// Ceiling, facing down
		geometry.NewPrimitive(geometry.NewQuadMesh(core.NewVec3(0, size, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size)), white),
		// Back wall, facing the camera
		geometry.NewPrimitive(geometry.NewQuadMesh(core.NewVec3(0, 0, size), core.NewVec3(0, size, 0), core.NewVec3(size, 0, 0)), white),
		// Right wall as seen from the camera
		geometry.NewPrimitive(geometry.NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(0, size, 0), core.NewVec3(0, 0, size)), green),
		// Left wall
		geometry.NewPrimitive(geometry.NewQuadMesh(core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), core.NewVec3(0, size, 0)), red),
	)

	// Ceiling light, slightly below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (size - lightSize) / 2.0
	light := geometry.NewQuadMesh(
		core.NewVec3(lightOffset, size-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
	)
	power := PowerForRadiance(core.NewVec3(17, 12, 4), light.Area())
	s.Add(geometry.NewEmitter(light, material.NewMatte(core.NewVec3(0.78, 0.78, 0.78)), material.NewEmitterData(power)))

	s.Add(
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(150, 82.5, 169), 82.5), material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))),
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(400, 90, 200), 90), material.NewGlass(1.5, core.NewVec3(1, 1, 1))),
		geometry.NewPrimitive(geometry.NewBoxMesh(core.NewVec3(265, 120, 420), core.NewVec3(60, 120, 60), 15*math.Pi/180), white),
	)
	return s, nil
}
