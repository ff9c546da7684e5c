package geometry

import (
	"fmt"

	"github.com/df07/go-bdpt/pkg/material"
)

// Primitive is a shape with a material and an optional emission capability
type Primitive struct {
	Shape    Shape
	Material material.Material
	Emitter  *material.EmitterData // Nil for non-emitting primitives
}

// NewPrimitive creates a non-emitting primitive
func NewPrimitive(shape Shape, mat material.Material) *Primitive {
	return &Primitive{Shape: shape, Material: mat}
}

// NewEmitter creates a primitive that emits the given total power.
// The emitter's area is taken from the shape.
func NewEmitter(shape Shape, mat material.Material, emitter *material.EmitterData) *Primitive {
	emitter.Area = shape.Area()
	return &Primitive{Shape: shape, Material: mat, Emitter: emitter}
}

// IsEmitter reports whether the primitive emits light
func (p *Primitive) IsEmitter() bool {
	return p.Emitter != nil
}

// Validate checks that the primitive can be placed in a scene
func (p *Primitive) Validate() error {
	if p.Shape == nil {
		return fmt.Errorf("primitive has no shape")
	}
	if p.Emitter != nil && p.Shape.Area() <= 0 {
		return fmt.Errorf("emitter has non-positive area %v", p.Shape.Area())
	}
	return nil
}
