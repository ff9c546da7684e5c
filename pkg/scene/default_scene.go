package scene

import (
	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

// NewSphereScene creates the default scene: three spheres on a checkered ground lit by
// a small spherical lamp
func NewSphereScene() (*Scene, error) {
	camera, err := NewCamera(CameraConfig{
		Position:    core.NewVec3(0, 0.75, 2),
		LookAt:      core.NewVec3(0, 0.5, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 16.0 / 9.0,
	})
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)

	ground := material.NewTexturedMatte(material.NewChecker(
		core.NewVec3(0.8, 0.8, 0.8),
		core.NewVec3(0.3, 0.3, 0.35),
		0.5,
	))
	s.Add(geometry.NewPrimitive(NewGroundQuad(core.NewVec3(0, 0, -1), 20), ground))

	sunset := material.NewGradientTexture(1, 32, core.NewVec3(0.8, 0.55, 0.2), core.NewVec3(0.65, 0.25, 0.2))
	s.Add(
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5), material.NewTexturedMatte(sunset)),
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(-1.05, 0.5, -1), 0.5), material.NewGlass(1.5, core.NewVec3(1, 1, 1))),
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(1.05, 0.5, -1), 0.5), material.NewGlossy(core.NewVec3(0.8, 0.6, 0.2), 0.3, 0.6)),
	)

	lamp := geometry.NewSphere(core.NewVec3(0.5, 2.5, 0), 0.15)
	power := PowerForRadiance(core.NewVec3(40, 38, 34), lamp.Area())
	s.Add(geometry.NewEmitter(lamp, material.NewMatte(core.NewVec3(0.8, 0.8, 0.8)), material.NewEmitterData(power)))
	return s, nil
}

// NewGroundQuad creates a horizontal square centered at center, facing up
func NewGroundQuad(center core.Vec3, size float64) *geometry.TriangleMesh {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points along +y
	return geometry.NewQuadMesh(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0))
}
