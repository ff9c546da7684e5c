package integrator

import (
	"fmt"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/material"
	"github.com/df07/go-bdpt/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with next event estimation.
// Emitter sampling and BSDF sampling are combined with the power heuristic.
type PathTracingIntegrator struct {
	Verbose bool

	logger core.Logger
	scene  *scene.Scene
	params core.RenderParameters
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(logger core.Logger) *PathTracingIntegrator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &PathTracingIntegrator{logger: logger}
}

// Initialize binds the integrator to a scene
func (pt *PathTracingIntegrator) Initialize(s *scene.Scene, params core.RenderParameters) error {
	if err := initializeScene(s, params); err != nil {
		return fmt.Errorf("path tracing: %w", err)
	}
	pt.scene = s
	pt.params = params
	if pt.Verbose {
		pt.logger.Printf("path tracing: %d primitives, %d emitters\n", s.PrimitiveCount(), len(s.Emitters()))
	}
	return nil
}

// RenderPixel traces one camera path. Path tracing never splats.
func (pt *PathTracingIntegrator) RenderPixel(px, py, pass int, sampler core.Sampler, splat SplatFunc) core.Vec3 {
	camera := pt.scene.Camera
	params := pt.params

	image := pixelImagePosition(px, py, pass, params, sampler.Get2D())
	disk := core.SampleDiskStratified(pass, params.LensSubdivisions*params.LensSubdivisions, sampler.Get2D())
	lens := camera.LensPoint(disk, params.LensRadius)
	ray := core.NewRay(lens, camera.GenerateRay(image, lens, params.FocusDistance))

	var radiance core.Vec3
	beta := core.NewVec3(1, 1, 1)
	prevPoint := lens
	prevPdf := 0.0       // Solid-angle density of the last scattered direction
	prevSpecular := true // The lens sees emitters directly

	for depth := 0; depth < maxSubpathLength; depth++ {
		si, ok := pt.scene.Intersect(ray)
		if !ok {
			break
		}
		toPrev := ray.Direction.Negate()

		if si.IsEmitter() {
			cosTheta := toPrev.Dot(si.Ng)
			emitted := si.Emitter.Radiance(cosTheta)
			if !emitted.IsZero() {
				weight := 1.0
				if !prevSpecular {
					lightPdf := emitterDensity(si.Emitter, prevPoint, si.Point, cosTheta)
					weight = powerHeuristic(prevPdf, lightPdf)
				}
				radiance = radiance.Add(sanitize(beta.MultiplyVec(emitted).Multiply(weight)))
			}
		}

		if si.Material == nil {
			break
		}
		si.BSDF = si.Material.BSDF(&si, sampler)
		if si.BSDF == nil {
			break
		}
		if toPrev.Dot(si.Ng) < 0 {
			si.FlipFrame()
		}
		si.OffsetPoint(surfaceEpsilon)

		if !si.BSDF.IsSpecular() {
			radiance = radiance.Add(pt.sampleDirect(&si, toPrev, beta, sampler))
		}

		scatter, ok := si.BSDF.Scatter(&si, toPrev, sampler)
		if !ok || scatter.Pdf <= 0 {
			break
		}
		weight := scatter.Value.Multiply(1.0 / scatter.Pdf)
		if depth+2 >= params.MinDepth {
			q := min(1.0, weight.Average())
			if q <= 0 || sampler.Get1D() >= q {
				break
			}
			weight = weight.Multiply(1.0 / q)
		}
		beta = sanitize(beta.MultiplyVec(weight))
		if beta.IsZero() {
			break
		}

		if scatter.Direction.Dot(si.Ng) < 0 {
			si.FlipFrame()
			si.OffsetPoint(2 * surfaceEpsilon)
		}
		prevPoint = si.Point
		prevPdf = scatter.Pdf * scatter.Direction.AbsDot(si.Ng)
		prevSpecular = scatter.Specular
		ray = core.NewRay(si.Point, scatter.Direction)
	}
	return radiance
}

// sampleDirect estimates the radiance arriving straight from one sampled emitter point
func (pt *PathTracingIntegrator) sampleDirect(si *material.SurfaceInteraction, toPrev, beta core.Vec3, sampler core.Sampler) core.Vec3 {
	primitive, prob := pt.scene.SampleEmitter(sampler.Get1D())
	if primitive == nil || prob <= 0 {
		return core.Vec3{}
	}
	point := primitive.Shape.SamplePoint(sampler.Get3D())
	point.OffsetPoint(emitterEpsilon)

	g, toLight := geometryTerm(si, &point)
	if g <= 0 {
		return core.Vec3{}
	}
	cosLight := toLight.Negate().Dot(point.Ng)
	emitted := primitive.Emitter.Radiance(cosLight)
	if emitted.IsZero() {
		return core.Vec3{}
	}

	f := si.BSDF.Evaluate(si, toPrev, toLight)
	if f.IsZero() || !pt.scene.Visible(si.Point, point.Point) {
		return core.Vec3{}
	}

	areaPdf := primitive.Emitter.AreaDensity()
	lightPdf := emitterDensity(primitive.Emitter, si.Point, point.Point, cosLight)
	bsdfPdf := si.BSDF.Density(si, toLight, toPrev) * toLight.AbsDot(si.Ng)
	weight := powerHeuristic(lightPdf, bsdfPdf)

	return sanitize(beta.MultiplyVec(f).MultiplyVec(emitted).Multiply(g * weight / areaPdf))
}

// emitterDensity returns the solid-angle density at `from` of sampling `to` on the emitter
func emitterDensity(emitter *material.EmitterData, from, to core.Vec3, cosLight float64) float64 {
	if cosLight <= 0 {
		return 0.0
	}
	return emitter.AreaDensity() * to.Subtract(from).LengthSquared() / cosLight
}

// powerHeuristic returns the weight of the strategy with density a against b
func powerHeuristic(a, b float64) float64 {
	a2 := a * a
	b2 := b * b
	if a2+b2 == 0 {
		return 0.0
	}
	return a2 / (a2 + b2)
}
