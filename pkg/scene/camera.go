package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// CameraConfig contains the parameters for creating a camera
type CameraConfig struct {
	Position    core.Vec3 // Lens center
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Image plane width / height
}

// Camera is a thin-lens camera. In view space the lens sits at the origin facing +z,
// and the image plane lies at distance 1/tan(vfov/2) spanning [-ratio, ratio] x [-1, 1].
type Camera struct {
	Config CameraConfig

	right, up, forward core.Vec3 // View basis in world space
	imageDistance      float64
	imageArea          float64
}

// NewCamera creates a camera from a configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, fmt.Errorf("vertical field of view must be in (0, 180), got %v", config.VFov)
	}
	if config.AspectRatio <= 0 {
		return nil, fmt.Errorf("aspect ratio must be positive, got %v", config.AspectRatio)
	}
	forward := config.LookAt.Subtract(config.Position).Normalize()
	right := forward.Cross(config.Up).Normalize()
	if forward.IsZero() || right.IsZero() {
		return nil, fmt.Errorf("camera at %v looking at %v has a degenerate view basis", config.Position, config.LookAt)
	}

	halfAngle := config.VFov * math.Pi / 360.0
	return &Camera{
		Config:        config,
		right:         right,
		up:            right.Cross(forward),
		forward:       forward,
		imageDistance: 1.0 / math.Tan(halfAngle),
		imageArea:     4.0 * config.AspectRatio,
	}, nil
}

// Position returns the lens center in world space
func (c *Camera) Position() core.Vec3 {
	return c.Config.Position
}

// Forward returns the lens axis, which is also the lens normal
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// AspectRatio returns the image plane width over its height
func (c *Camera) AspectRatio() float64 {
	return c.Config.AspectRatio
}

// ImageDistance returns the distance from the lens to the image plane in view units
func (c *Camera) ImageDistance() float64 {
	return c.imageDistance
}

// ImageArea returns the area of the image plane in view units
func (c *Camera) ImageArea() float64 {
	return c.imageArea
}

// LensArea returns the area of a lens with the given radius
func (c *Camera) LensArea(lensRadius float64) float64 {
	return math.Pi * lensRadius * lensRadius
}

// LensPoint maps a unit-disk sample to a world-space point on the lens
func (c *Camera) LensPoint(disk core.Vec2, lensRadius float64) core.Vec3 {
	return c.toWorld(core.NewVec3(disk.X*lensRadius, disk.Y*lensRadius, 0))
}

// GenerateRay returns the normalized world direction from lensPoint through the image
// position (u right, v down, both in [0, 1]) refocused at focusDistance.
func (c *Camera) GenerateRay(image core.Vec2, lensPoint core.Vec3, focusDistance float64) core.Vec3 {
	ratio := c.Config.AspectRatio
	onImage := core.NewVec3(-ratio+2.0*ratio*image.X, 1.0-2.0*image.Y, c.imageDistance)
	onFocusPlane := onImage.Multiply(focusDistance / c.imageDistance)
	return c.toWorldDirection(onFocusPlane.Subtract(c.toView(lensPoint))).Normalize()
}

// Project finds where light traveling from target to lensPoint lands on the image.
// The returned position uses the same (u, v) convention as GenerateRay; false means
// the point is behind the lens or falls outside the image.
func (c *Camera) Project(lensPoint, target core.Vec3, focusDistance float64) (core.Vec2, bool) {
	lens := c.toView(lensPoint)
	direction := c.toView(target).Subtract(lens)
	if direction.Z <= 0 {
		return core.Vec2{}, false
	}

	// Where the ray crosses the focus plane, then back through the lens center
	onFocusPlane := lens.Add(direction.Multiply((focusDistance - lens.Z) / direction.Z))
	scale := c.imageDistance / onFocusPlane.Z
	x := onFocusPlane.X * scale
	y := onFocusPlane.Y * scale

	ratio := c.Config.AspectRatio
	u := 0.5 * (x/ratio + 1.0)
	v := 0.5 * (1.0 - y)
	if u < 0 || u >= 1 || v < 0 || v >= 1 {
		return core.Vec2{}, false
	}
	return core.NewVec2(u, v), true
}

// CosTheta returns the cosine between a unit world direction and the lens axis
func (c *Camera) CosTheta(direction core.Vec3) float64 {
	return direction.Dot(c.forward)
}

// DirectionDensity returns the solid-angle density of a direction when image
// positions are chosen uniformly over the whole image plane.
func (c *Camera) DirectionDensity(direction core.Vec3) float64 {
	cosTheta := c.CosTheta(direction)
	if cosTheta <= 0 {
		return 0.0
	}
	d := c.imageDistance
	return d * d / (c.imageArea * cosTheta * cosTheta * cosTheta)
}

// Importance returns the directional importance, the direction density with respect
// to projected solid angle at the lens.
func (c *Camera) Importance(direction core.Vec3) float64 {
	cosTheta := c.CosTheta(direction)
	if cosTheta <= 0 {
		return 0.0
	}
	return c.DirectionDensity(direction) / cosTheta
}

func (c *Camera) toView(p core.Vec3) core.Vec3 {
	d := p.Subtract(c.Config.Position)
	return core.NewVec3(d.Dot(c.right), d.Dot(c.up), d.Dot(c.forward))
}

func (c *Camera) toWorld(v core.Vec3) core.Vec3 {
	return c.Config.Position.Add(c.toWorldDirection(v))
}

func (c *Camera) toWorldDirection(v core.Vec3) core.Vec3 {
	return c.right.Multiply(v.X).Add(c.up.Multiply(v.Y)).Add(c.forward.Multiply(v.Z))
}
