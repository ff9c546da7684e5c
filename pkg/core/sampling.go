package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewWorkerSampler creates an independently seeded stream for one worker goroutine.
// Streams for different worker ids never share a generator.
func NewWorkerSampler(seed int64, worker int) *RandomSampler {
	mixed := uint64(seed) + uint64(worker+1)*0x9E3779B97F4A7C15
	mixed ^= mixed >> 31
	return NewRandomSampler(rand.New(rand.NewSource(int64(mixed))))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// strataDivisions returns the side length of the square stratum grid for n strata
func strataDivisions(n int) int {
	divs := int(math.Sqrt(float64(n)))
	if divs < 1 {
		return 1
	}
	return divs
}

// SampleRectStratified jitters a sample inside stratum id of an n-cell square grid over [0,1)².
// Cells are numbered row by row; id wraps around the grid size.
func SampleRectStratified(id, n int, sample Vec2) Vec2 {
	divs := strataDivisions(n)
	id %= divs * divs
	if id < 0 {
		id += divs * divs
	}
	d := 1.0 / float64(divs)
	x := id % divs
	y := id / divs
	return NewVec2(d*(float64(x)+sample.X), d*(float64(y)+sample.Y))
}

// SampleDiskStratified maps a stratified rectangle sample onto the unit disk using polar coordinates
func SampleDiskStratified(id, n int, sample Vec2) Vec2 {
	rect := SampleRectStratified(id, n, sample)
	theta := 2.0 * math.Pi * rect.X
	r := math.Sqrt(rect.Y)
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleHemisphereUniform returns a direction uniformly distributed over the z-up hemisphere.
// Density is 1/(2π) per unit solid angle.
func SampleHemisphereUniform(sample Vec2) Vec3 {
	z := sample.Y
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.X
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SampleHemisphereCosine returns a cosine-weighted direction over the z-up hemisphere.
// Density is cos(θ)/π per unit solid angle.
func SampleHemisphereCosine(sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)
	z := math.Sqrt(math.Max(0, 1.0-sample.Y))
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SampleSphereUniform generates a uniform random direction on the unit sphere
func SampleSphereUniform(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SampleTriangleBarycentric returns barycentric weights (b1, b2) of a uniformly distributed
// point on a triangle; the point is (1-b1-b2)·p0 + b1·p1 + b2·p2.
func SampleTriangleBarycentric(sample Vec2) (float64, float64) {
	s := math.Sqrt(sample.X)
	m := s * sample.Y
	return s - m, m
}

// SampleTriangle returns a uniformly distributed point on the triangle p0, p1, p2
func SampleTriangle(sample Vec2, p0, p1, p2 Vec3) Vec3 {
	b1, b2 := SampleTriangleBarycentric(sample)
	return p0.Multiply(1 - b1 - b2).Add(p1.Multiply(b1)).Add(p2.Multiply(b2))
}
