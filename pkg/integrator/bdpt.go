package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/material"
	"github.com/df07/go-bdpt/pkg/scene"
)

var errNoScene = errors.New("integrator has no scene")

// BDPTIntegrator implements bidirectional path tracing. Each pixel sample walks
// one eye subpath and one light subpath, evaluates every way of joining them and
// combines the strategies with the power heuristic.
type BDPTIntegrator struct {
	Verbose bool

	logger core.Logger
	scene  *scene.Scene
	params core.RenderParameters
}

// NewBDPTIntegrator creates a new BDPT integrator
func NewBDPTIntegrator(logger core.Logger) *BDPTIntegrator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &BDPTIntegrator{logger: logger}
}

// Initialize binds the integrator to a scene
func (bdpt *BDPTIntegrator) Initialize(s *scene.Scene, params core.RenderParameters) error {
	if err := initializeScene(s, params); err != nil {
		return fmt.Errorf("bdpt: %w", err)
	}
	bdpt.scene = s
	bdpt.params = params
	bdpt.logf("bdpt: %d primitives, %d emitters, %dx%d\n", s.PrimitiveCount(), len(s.Emitters()), params.Width, params.Height)
	return nil
}

// RenderPixel evaluates every connection strategy for one pair of subpaths.
// Strategies with a single eye vertex land wherever the light reaches the lens and
// are handed to splat; the rest are returned for this pixel.
func (bdpt *BDPTIntegrator) RenderPixel(px, py, pass int, sampler core.Sampler, splat SplatFunc) core.Vec3 {
	eye := bdpt.generateEyeSubpath(px, py, pass, sampler)
	light := bdpt.generateLightSubpath(sampler)
	scratch := make([]misVertex, 0, eye.Len()+light.Len())

	var total core.Vec3

	// Eye subpaths that reach an emitter on their own
	for t := 2; t <= eye.Len(); t++ {
		total = total.Add(bdpt.evaluateEmitterHit(&light, &eye, t, scratch))
	}

	for s := 1; s <= light.Len(); s++ {
		for t := 1; t <= eye.Len(); t++ {
			contribution, landed, ok := bdpt.evaluateConnection(&light, &eye, s, t, scratch)
			if !ok {
				continue
			}
			if t == 1 {
				x, y := imagePixel(landed, bdpt.params)
				splat(x, y, contribution)
				continue
			}
			total = total.Add(contribution)
		}
	}
	return total
}

// generateEyeSubpath starts at a stratified lens point and walks through a stratified
// position inside the pixel toward the focus plane
func (bdpt *BDPTIntegrator) generateEyeSubpath(px, py, pass int, sampler core.Sampler) Subpath {
	camera := bdpt.scene.Camera
	params := bdpt.params

	image := pixelImagePosition(px, py, pass, params, sampler.Get2D())
	disk := core.SampleDiskStratified(pass, params.LensSubdivisions*params.LensSubdivisions, sampler.Get2D())
	lens := camera.LensPoint(disk, params.LensRadius)
	direction := camera.GenerateRay(image, lens, params.FocusDistance)

	forward := camera.Forward()
	builder := newSubpathBuilder(false)
	builder.start(PathVertex{
		Beta: core.NewVec3(1, 1, 1),
		kind: lensVertex,
		si:   material.SurfaceInteraction{Point: lens, Ng: forward, Ns: forward},
	})

	// The lens importance is the camera's projected-solid-angle density
	pdf := camera.Importance(direction)
	if pdf > 0 {
		bdpt.walk(&builder, core.NewRay(lens, direction), core.NewVec3(1, 1, 1), pdf, sampler)
	}
	return builder.finish()
}

// generateLightSubpath picks an emitter by its probability, a uniform point on it and a
// uniform direction over its front hemisphere
func (bdpt *BDPTIntegrator) generateLightSubpath(sampler core.Sampler) Subpath {
	builder := newSubpathBuilder(true)

	primitive, prob := bdpt.scene.SampleEmitter(sampler.Get1D())
	if primitive == nil || prob <= 0 {
		return builder.finish()
	}
	emitter := primitive.Emitter

	si := primitive.Shape.SamplePoint(sampler.Get3D())
	si.Material = primitive.Material
	si.Emitter = emitter
	si.OffsetPoint(emitterEpsilon)

	local := core.SampleHemisphereUniform(sampler.Get2D())
	direction := core.NewFrame(si.Ng, si.Tangent).FromLocal(local).Normalize()

	// Le·G/(p(y0)·p(y1)) reduces to Φ/P for the isotropic emission law
	beta := emitter.Power.Multiply(1.0 / prob)
	builder.start(PathVertex{
		Beta:     beta,
		PdfLight: emitter.AreaDensity(),
		kind:     emitterVertex,
		si:       si,
	})

	pdf := emitter.DirectionDensity(direction.Dot(si.Ng))
	if pdf > 0 {
		bdpt.walk(&builder, core.NewRay(si.Point, direction), beta, pdf, sampler)
	}
	return builder.finish()
}

// walk extends a subpath from its newest vertex along ray. pdf is the projected-solid-angle
// density (or branch probability when specular) with which the ray direction was chosen.
func (bdpt *BDPTIntegrator) walk(builder *subpathBuilder, ray core.Ray, beta core.Vec3, pdf float64, sampler core.Sampler) {
	specular := false
	reverse := 0.0 // Density of the vertex before the newest, seen from the opposite walk

	for builder.length() < maxSubpathLength {
		si, ok := bdpt.scene.Intersect(ray)
		if !ok {
			return
		}
		prev := builder.current()
		toPrev := ray.Direction.Negate()

		vertex := PathVertex{Beta: beta, kind: surfaceVertex}
		density := toArea(pdf, specular, &prev.si, &si)
		if builder.fromLight {
			vertex.PdfLight = density
		} else {
			vertex.PdfEye = density
			if si.IsEmitter() {
				vertex.emitted = si.Emitter.Radiance(toPrev.Dot(si.Ng))
			}
		}

		// Distributions read the outward normals, so build them before reorienting
		if si.Material != nil {
			si.BSDF = si.Material.BSDF(&si, sampler)
		}
		if toPrev.Dot(si.Ng) < 0 {
			si.FlipFrame()
		}
		si.OffsetPoint(surfaceEpsilon)
		vertex.si = si

		builder.append(vertex, reverse)
		current := builder.current()
		if current.si.BSDF == nil {
			return
		}
		current.Specular = current.si.BSDF.IsSpecular()

		scatter, ok := current.si.BSDF.Scatter(&current.si, toPrev, sampler)
		if !ok || scatter.Pdf <= 0 {
			return
		}
		reverse = current.si.BSDF.Density(&current.si, toPrev, scatter.Direction)
		reverse = toArea(reverse, scatter.Specular, &current.si, &builder.previous().si)

		weight := scatter.Value.Multiply(1.0 / scatter.Pdf)
		if builder.length() >= bdpt.params.MinDepth {
			q := min(1.0, weight.Average())
			if q <= 0 || sampler.Get1D() >= q {
				return
			}
			weight = weight.Multiply(1.0 / q)
		}
		beta = sanitize(beta.MultiplyVec(weight))
		if beta.IsZero() {
			return
		}

		// Continue from the side the new direction leaves through
		if scatter.Direction.Dot(current.si.Ng) < 0 {
			current.si.FlipFrame()
			current.si.OffsetPoint(2 * surfaceEpsilon)
		}

		ray = core.NewRay(current.si.Point, scatter.Direction)
		pdf = scatter.Pdf
		specular = scatter.Specular
	}
}

// evaluateEmitterHit returns the weighted radiance an eye subpath of t vertices picks up
// by reaching an emitter itself
func (bdpt *BDPTIntegrator) evaluateEmitterHit(light, eye *Subpath, t int, scratch []misVertex) core.Vec3 {
	z := eye.At(t - 1)
	if z.emitted.IsZero() {
		return core.Vec3{}
	}
	contribution := z.Beta.MultiplyVec(z.emitted)
	if contribution.IsZero() {
		return core.Vec3{}
	}
	weight := bdpt.misWeight(light, eye, 0, t, scratch)
	return sanitize(contribution.Multiply(weight))
}

// evaluateConnection joins light vertex s-1 with eye vertex t-1. For t = 1 the returned
// image position tells which pixel the contribution belongs to.
func (bdpt *BDPTIntegrator) evaluateConnection(light, eye *Subpath, s, t int, scratch []misVertex) (core.Vec3, core.Vec2, bool) {
	y := light.At(s - 1)
	z := eye.At(t - 1)
	if !y.IsConnectible() || !z.IsConnectible() {
		return core.Vec3{}, core.Vec2{}, false
	}

	g, toEye := geometryTerm(&y.si, &z.si)
	if g <= 0 {
		return core.Vec3{}, core.Vec2{}, false
	}
	toLight := toEye.Negate()

	// Response at the light end
	var fsLight core.Vec3
	if s == 1 {
		p := y.si.Emitter.DirectionDensity(toEye.Dot(y.si.Ng))
		fsLight = core.NewVec3(p, p, p)
	} else {
		toPrev := direction(&y.si, &light.At(s-2).si)
		fsLight = y.si.BSDF.Evaluate(&y.si, toPrev, toEye)
	}
	if fsLight.IsZero() {
		return core.Vec3{}, core.Vec2{}, false
	}

	// Response at the eye end
	var fsEye core.Vec3
	var landed core.Vec2
	if t == 1 {
		camera := bdpt.scene.Camera
		var ok bool
		landed, ok = camera.Project(z.si.Point, y.si.Point, bdpt.params.FocusDistance)
		if !ok {
			return core.Vec3{}, core.Vec2{}, false
		}
		w := camera.Importance(toLight)
		fsEye = core.NewVec3(w, w, w)
	} else {
		toPrev := direction(&z.si, &eye.At(t-2).si)
		fsEye = z.si.BSDF.Evaluate(&z.si, toPrev, toLight)
	}
	if fsEye.IsZero() {
		return core.Vec3{}, core.Vec2{}, false
	}

	contribution := y.Beta.MultiplyVec(fsLight).MultiplyVec(fsEye).MultiplyVec(z.Beta).Multiply(g)
	if contribution.IsZero() || !bdpt.scene.Visible(y.si.Point, z.si.Point) {
		return core.Vec3{}, core.Vec2{}, false
	}

	weight := bdpt.misWeight(light, eye, s, t, scratch)
	contribution = sanitize(contribution.Multiply(weight))
	return contribution, landed, !contribution.IsZero()
}

// direction returns the unit vector from a to b
func direction(a, b *material.SurfaceInteraction) core.Vec3 {
	return b.Point.Subtract(a.Point).Normalize()
}

func (bdpt *BDPTIntegrator) logf(format string, a ...interface{}) {
	if bdpt.Verbose {
		bdpt.logger.Printf(format, a...)
	}
}
