package integrator

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/material"
)

const (
	// surfaceEpsilon offsets path vertices off their surface along the geometric normal
	surfaceEpsilon = 1e-5
	// emitterEpsilon offsets sampled emitter points
	emitterEpsilon = 1e-4
	// minEdgeLengthSquared is the squared length below which an edge is degenerate
	minEdgeLengthSquared = 1e-12
	// maxSubpathLength bounds walks that Russian roulette never stops, such as light
	// bouncing between clear dielectrics
	maxSubpathLength = 64
)

// vertexKind tells how a path vertex was created
type vertexKind int

const (
	lensVertex vertexKind = iota
	emitterVertex
	surfaceVertex
)

// PathVertex is one bounce of a random walk
type PathVertex struct {
	Beta     core.Vec3 // Throughput from the subpath origin up to this vertex
	Specular bool      // The vertex scattered with a delta distribution
	PdfLight float64   // Area density of reaching this vertex walking from the light
	PdfEye   float64   // Area density of reaching this vertex walking from the camera

	si      material.SurfaceInteraction
	kind    vertexKind
	emitted core.Vec3 // Radiance emitted toward the previous eye vertex
}

// Point returns the world-space position of the vertex
func (v *PathVertex) Point() core.Vec3 {
	return v.si.Point
}

// Interaction returns the surface record of the vertex
func (v *PathVertex) Interaction() *material.SurfaceInteraction {
	return &v.si
}

// IsConnectible reports whether a deterministic connection can end at this vertex
func (v *PathVertex) IsConnectible() bool {
	switch v.kind {
	case lensVertex, emitterVertex:
		return true
	default:
		return v.si.BSDF != nil && !v.Specular
	}
}

// Subpath is an append-only walk; index 0 is the lens or emitter vertex.
// Vertices returned by At must not be modified.
type Subpath struct {
	vertices []PathVertex
}

// Len returns the number of vertices
func (p *Subpath) Len() int {
	return len(p.vertices)
}

// At returns the vertex at index i
func (p *Subpath) At(i int) *PathVertex {
	return &p.vertices[i]
}

// subpathBuilder grows a subpath one vertex at a time. Only the newest vertex is
// mutable. The density of the vertex before it toward the opposite subpath is known
// only once the newest vertex has scattered, so it is written when the next vertex is
// appended; from then on both are frozen.
type subpathBuilder struct {
	vertices  []PathVertex
	fromLight bool
}

func newSubpathBuilder(fromLight bool) subpathBuilder {
	return subpathBuilder{vertices: make([]PathVertex, 0, 8), fromLight: fromLight}
}

// start places the origin vertex
func (b *subpathBuilder) start(origin PathVertex) {
	b.vertices = append(b.vertices[:0], origin)
}

// current returns the newest vertex
func (b *subpathBuilder) current() *PathVertex {
	return &b.vertices[len(b.vertices)-1]
}

// previous returns the vertex before the newest one, or nil
func (b *subpathBuilder) previous() *PathVertex {
	if len(b.vertices) < 2 {
		return nil
	}
	return &b.vertices[len(b.vertices)-2]
}

// length returns the number of vertices so far
func (b *subpathBuilder) length() int {
	return len(b.vertices)
}

// append freezes the vertex before the newest after writing its reverse density,
// then adds next as the newest vertex
func (b *subpathBuilder) append(next PathVertex, reverse float64) {
	if prev := b.previous(); prev != nil {
		if b.fromLight {
			prev.PdfEye = reverse
		} else {
			prev.PdfLight = reverse
		}
	}
	b.vertices = append(b.vertices, next)
}

// finish returns the completed subpath
func (b *subpathBuilder) finish() Subpath {
	return Subpath{vertices: b.vertices}
}

// geometryTerm returns |cos a|·|cos b|/d² between two surface records together with the
// unit direction from a to b. Degenerate edges return zero.
func geometryTerm(a, b *material.SurfaceInteraction) (float64, core.Vec3) {
	d := b.Point.Subtract(a.Point)
	dist2 := d.LengthSquared()
	if dist2 < minEdgeLengthSquared {
		return 0.0, core.Vec3{}
	}
	dir := d.Multiply(1.0 / math.Sqrt(dist2))
	return dir.AbsDot(a.Ng) * dir.AbsDot(b.Ng) / dist2, dir
}

// toArea converts a projected-solid-angle density at `from` into an area density at `to`.
// Specular branch probabilities are discrete and pass through unchanged.
func toArea(pdf float64, specular bool, from, to *material.SurfaceInteraction) float64 {
	if specular {
		return pdf
	}
	g, _ := geometryTerm(from, to)
	return pdf * g
}

// sanitize turns NaN, infinite or negative contributions into zero
func sanitize(c core.Vec3) core.Vec3 {
	if !c.IsFinite() || c.X < 0 || c.Y < 0 || c.Z < 0 {
		return core.Vec3{}
	}
	return c
}
