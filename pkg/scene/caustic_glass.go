package scene

import (
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

// NewCausticScene creates a glass sphere and a glass block over a pale floor, lit by a
// small lamp so the focused light under the glass dominates the image.
// Light tracing connections are the only strategies that resolve these caustics.
func NewCausticScene() (*Scene, error) {
	camera, err := NewCamera(CameraConfig{
		Position:    core.NewVec3(0, 3.5, 5),
		LookAt:      core.NewVec3(0, 0.4, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        35.0,
		AspectRatio: 4.0 / 3.0,
	})
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)

	floor := material.NewMatte(core.NewVec3(0.75, 0.75, 0.7))
	s.Add(geometry.NewPrimitive(NewGroundQuad(core.NewVec3(0, 0, 0), 12), floor))

	// Tiled back wall so indirect light has somewhere to go
	tiles := material.NewCheckerboardTexture(96, 48, 4, core.NewVec3(0.5, 0.55, 0.6), core.NewVec3(0.35, 0.4, 0.45))
	s.Add(geometry.NewPrimitive(
		geometry.NewQuadMesh(core.NewVec3(-6, 0, -3), core.NewVec3(0, 6, 0), core.NewVec3(12, 0, 0)),
		material.NewTexturedMatte(tiles),
	))

	s.Add(
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(-0.8, 0.7, 0), 0.7), material.NewGlass(1.5, core.NewVec3(1, 1, 1))),
		geometry.NewPrimitive(geometry.NewBoxMesh(core.NewVec3(1.1, 0.4, -0.3), core.NewVec3(0.4, 0.4, 0.4), 0.5), material.NewGlass(1.33, core.NewVec3(0.85, 0.95, 1.0))),
	)

	lamp := geometry.NewSphere(core.NewVec3(-2.5, 4, 1.5), 0.1)
	power := PowerForRadiance(core.NewVec3(300, 280, 250), lamp.Area())
	s.Add(geometry.NewEmitter(lamp, material.NewMatte(core.NewVec3(0.8, 0.8, 0.8)), material.NewEmitterData(power)))
	return s, nil
}
