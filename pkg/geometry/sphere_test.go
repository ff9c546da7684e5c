package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
)

func TestIntersectUnitSphere(t *testing.T) {
	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
		expectedT float64
	}{
		{"FrontHit", core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1)), true, 2},
		{"FromInside", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), true, 1},
		{"Miss", core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)), false, 0},
		{"Behind", core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1)), false, 0},
		{"UnnormalizedDirection", core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -2)), true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntersectUnitSphere(tt.ray, 1e-9, math.Inf(1))
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if ok && math.Abs(got-tt.expectedT) > 1e-12 {
				t.Errorf("Expected t=%v, got %v", tt.expectedT, got)
			}
		})
	}
}

func TestSphere_TransformedHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2)
	ray := core.NewRay(core.NewVec3(1, 2, 10), core.NewVec3(0, 0, -1))

	hit, ok := sphere.Hit(ray, 1e-9, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected world distance 5, got %v", hit.T)
	}

	si := sphere.Interaction(ray, hit)
	if si.Point.Subtract(core.NewVec3(1, 2, 5)).Length() > 1e-9 {
		t.Errorf("Expected point (1,2,5), got %v", si.Point)
	}
	if si.Ng.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected outward normal +z, got %v", si.Ng)
	}
	if math.Abs(si.Tangent.Dot(si.Ns)) > 1e-9 || math.Abs(si.Bitangent.Dot(si.Ns)) > 1e-9 {
		t.Errorf("Expected tangent frame orthogonal to the normal")
	}
	if math.Abs(sphere.Area()-16*math.Pi) > 1e-9 {
		t.Errorf("Expected area 16π, got %v", sphere.Area())
	}
}

func TestSphere_SamplePointOnSurface(t *testing.T) {
	center := core.NewVec3(-1, 0.5, 2)
	sphere := NewSphere(center, 0.5)
	random := rand.New(rand.NewSource(42))

	var mean core.Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		si := sphere.SamplePoint(core.NewVec3(random.Float64(), random.Float64(), random.Float64()))
		offset := si.Point.Subtract(center)
		if math.Abs(offset.Length()-0.5) > 1e-9 {
			t.Fatalf("Sample %v not on the sphere", si.Point)
		}
		if offset.Normalize().Subtract(si.Ng).Length() > 1e-9 {
			t.Fatalf("Expected outward normal at %v, got %v", si.Point, si.Ng)
		}
		mean = mean.Add(si.Point)
	}
	if mean.Multiply(1.0/n).Subtract(center).Length() > 0.01 {
		t.Errorf("Expected samples centered on %v", center)
	}
}
