package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

// rayEpsilon is the smallest accepted hit distance
const rayEpsilon = 1e-9

// Scene contains the camera and every primitive that can be hit or emit light
type Scene struct {
	Camera     *Camera
	Primitives []*geometry.Primitive

	accel          *bvh
	emitters       []int // Primitive indices of emitters
	emitterSampler *core.WeightedSampler
	preprocessed   bool
}

// NewScene creates an empty scene viewed through camera
func NewScene(camera *Camera) *Scene {
	return &Scene{Camera: camera}
}

// Add appends primitives to the scene and rebuilds the hierarchy used for ray
// queries. Adding invalidates preprocessing.
func (s *Scene) Add(primitives ...*geometry.Primitive) {
	s.Primitives = append(s.Primitives, primitives...)
	s.preprocessed = false
	for _, p := range s.Primitives {
		if p.Shape == nil {
			s.accel = nil
			return
		}
	}
	s.accel = newBVH(s.Primitives)
}

// Preprocess validates the scene and assigns each emitter a selection probability
// proportional to its power per unit area. Calling it again is a no-op until the
// scene changes.
func (s *Scene) Preprocess() error {
	if s.preprocessed {
		return nil
	}
	if s.Camera == nil {
		return fmt.Errorf("scene has no camera")
	}

	s.emitters = s.emitters[:0]
	var weights []float64
	for i, p := range s.Primitives {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		if p.IsEmitter() {
			p.Emitter.Area = p.Shape.Area()
			s.emitters = append(s.emitters, i)
			weights = append(weights, p.Emitter.Weight())
		}
	}
	if len(s.emitters) == 0 {
		return fmt.Errorf("scene has no emitters")
	}

	sampler, err := core.NewWeightedSampler(weights)
	if err != nil {
		return fmt.Errorf("emitter weights: %w", err)
	}
	for i, index := range s.emitters {
		s.Primitives[index].Emitter.Probability = sampler.Probability(i)
	}
	s.emitterSampler = sampler
	s.preprocessed = true
	return nil
}

// Intersect returns the closest hit along ray, with the owning primitive filled in
func (s *Scene) Intersect(ray core.Ray) (material.SurfaceInteraction, bool) {
	if s.accel == nil {
		return material.SurfaceInteraction{}, false
	}
	hitIndex, best, ok := s.accel.closest(ray, rayEpsilon, math.Inf(1))
	if !ok {
		return material.SurfaceInteraction{}, false
	}

	p := s.Primitives[hitIndex]
	si := p.Shape.Interaction(ray, best)
	si.Primitive = hitIndex
	si.Material = p.Material
	si.Emitter = p.Emitter
	return si, true
}

// Visible reports whether the open segment between p0 and p1 is unobstructed.
// The test is symmetric in its arguments.
func (s *Scene) Visible(p0, p1 core.Vec3) bool {
	d := p1.Subtract(p0)
	distance := d.Length()
	if distance <= 2*rayEpsilon {
		return true
	}
	if s.accel == nil {
		return true
	}
	ray := core.NewRay(p0, d.Multiply(1.0/distance))
	return !s.accel.occluded(ray, rayEpsilon, distance-rayEpsilon)
}

// Emitters returns the emitting primitives in scene order
func (s *Scene) Emitters() []*geometry.Primitive {
	emitters := make([]*geometry.Primitive, len(s.emitters))
	for i, index := range s.emitters {
		emitters[i] = s.Primitives[index]
	}
	return emitters
}

// SampleEmitter selects an emitter with its preprocessed probability
func (s *Scene) SampleEmitter(u float64) (*geometry.Primitive, float64) {
	if s.emitterSampler == nil {
		return nil, 0.0
	}
	i, prob := s.emitterSampler.Sample(u)
	return s.Primitives[s.emitters[i]], prob
}

// PrimitiveCount returns the total number of primitives, counting mesh triangles individually
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, p := range s.Primitives {
		if mesh, ok := p.Shape.(*geometry.TriangleMesh); ok {
			count += mesh.TriangleCount()
		} else {
			count++
		}
	}
	return count
}

// PowerForRadiance returns the total power an emitter of the given area needs to
// emit radiance along its normal
func PowerForRadiance(radiance core.Vec3, area float64) core.Vec3 {
	return radiance.Multiply(2.0 * math.Pi * area)
}
