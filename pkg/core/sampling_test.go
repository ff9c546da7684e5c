package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleRectStratified_StaysInStratum(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const n = 16 // 4x4 grid

	for id := 0; id < n; id++ {
		cellX := float64(id % 4)
		cellY := float64(id / 4)
		for i := 0; i < 100; i++ {
			p := SampleRectStratified(id, n, NewVec2(random.Float64(), random.Float64()))
			if p.X < cellX/4 || p.X >= (cellX+1)/4 || p.Y < cellY/4 || p.Y >= (cellY+1)/4 {
				t.Fatalf("Stratum %d: sample %v outside its cell", id, p)
			}
		}
	}

	// Ids wrap around the stratum count
	a := SampleRectStratified(3, n, NewVec2(0.5, 0.5))
	b := SampleRectStratified(3+n, n, NewVec2(0.5, 0.5))
	if a != b {
		t.Errorf("Expected wrapped stratum to match, got %v and %v", a, b)
	}
}

func TestSampleDiskStratified_InsideUnitDisk(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		p := SampleDiskStratified(i, 9, NewVec2(random.Float64(), random.Float64()))
		if p.X*p.X+p.Y*p.Y > 1+1e-12 {
			t.Fatalf("Sample %v outside unit disk", p)
		}
	}
}

func TestSampleHemisphereCosine_PolarMarginal(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const strata = 64
	const perStratum = 1000
	const bins = 10

	counts := make([]int, bins)
	total := 0
	for id := 0; id < strata; id++ {
		for i := 0; i < perStratum; i++ {
			u := SampleRectStratified(id, strata, NewVec2(random.Float64(), random.Float64()))
			dir := SampleHemisphereCosine(u)
			if math.Abs(dir.Length()-1) > 1e-9 || dir.Z < 0 {
				t.Fatalf("Invalid hemisphere direction %v", dir)
			}
			theta := math.Acos(math.Min(1, dir.Z))
			bin := int(theta / (math.Pi / 2) * bins)
			if bin == bins {
				bin--
			}
			counts[bin]++
			total++
		}
	}

	// The polar density cos(θ)sin(θ) has CDF sin²(θ)
	for b := 0; b < bins; b++ {
		lo := float64(b) * math.Pi / 2 / bins
		hi := float64(b+1) * math.Pi / 2 / bins
		expected := math.Pow(math.Sin(hi), 2) - math.Pow(math.Sin(lo), 2)
		got := float64(counts[b]) / float64(total)
		if math.Abs(got-expected) > 0.01 {
			t.Errorf("Bin %d: expected fraction %.4f, got %.4f", b, expected, got)
		}
	}
}

func TestSampleHemisphereUniform_MeanCosine(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const n = 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := SampleHemisphereUniform(NewVec2(random.Float64(), random.Float64()))
		if dir.Z < 0 || math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Invalid hemisphere direction %v", dir)
		}
		sum += dir.Z
	}
	// E[cos θ] over the uniform hemisphere is 1/2
	if mean := sum / n; math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Expected mean cosine 0.5, got %v", mean)
	}
}

func TestSampleSphereUniform_ZeroMean(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const n = 100000
	var sum Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(SampleSphereUniform(NewVec2(random.Float64(), random.Float64())))
	}
	if mean := sum.Multiply(1.0 / n); mean.Length() > 0.01 {
		t.Errorf("Expected mean near origin, got %v", mean)
	}
}

func TestSampleTriangle_UniformInside(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	p0 := NewVec3(0, 0, 0)
	p1 := NewVec3(1, 0, 0)
	p2 := NewVec3(0, 1, 0)

	const n = 50000
	var centroid Vec3
	for i := 0; i < n; i++ {
		p := SampleTriangle(NewVec2(random.Float64(), random.Float64()), p0, p1, p2)
		if p.X < -1e-12 || p.Y < -1e-12 || p.X+p.Y > 1+1e-12 {
			t.Fatalf("Sample %v outside triangle", p)
		}
		centroid = centroid.Add(p)
	}
	centroid = centroid.Multiply(1.0 / n)
	if centroid.Subtract(NewVec3(1.0/3, 1.0/3, 0)).Length() > 0.01 {
		t.Errorf("Expected centroid near (1/3,1/3,0), got %v", centroid)
	}
}

func TestNewWorkerSampler_IndependentStreams(t *testing.T) {
	a := NewWorkerSampler(7, 0)
	b := NewWorkerSampler(7, 1)
	c := NewWorkerSampler(7, 0)

	same := true
	for i := 0; i < 8; i++ {
		x, y, z := a.Get1D(), b.Get1D(), c.Get1D()
		if x != z {
			t.Fatalf("Expected identical seeds to reproduce the stream")
		}
		if x != y {
			same = false
		}
	}
	if same {
		t.Error("Expected different workers to draw different streams")
	}
}
