package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
)

func TestQuadMesh_HitAndInteraction(t *testing.T) {
	quad := NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -3))
	if math.Abs(quad.Area()-6) > 1e-12 {
		t.Errorf("Expected area 6, got %v", quad.Area())
	}

	ray := core.NewRay(core.NewVec3(1.5, 4, -2.5), core.NewVec3(0, -1, 0))
	hit, ok := quad.Hit(ray, 1e-9, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	si := quad.Interaction(ray, hit)
	if math.Abs(si.Distance-4) > 1e-12 {
		t.Errorf("Expected distance 4, got %v", si.Distance)
	}
	if si.Point.Subtract(core.NewVec3(1.5, 0, -2.5)).Length() > 1e-12 {
		t.Errorf("Expected point (1.5,0,-2.5), got %v", si.Point)
	}
	// (2,0,0) × (0,0,-3) points up
	if si.Ng.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected normal +y, got %v", si.Ng)
	}
	if math.Abs(si.UV.X-0.75) > 1e-12 || math.Abs(si.UV.Y-2.5/3) > 1e-12 {
		t.Errorf("Expected uv (0.75, 0.833), got %v", si.UV)
	}
}

func TestBoxMesh_OutwardNormals(t *testing.T) {
	center := core.NewVec3(1, 1, 1)
	box := NewBoxMesh(center, core.NewVec3(1, 2, 0.5), 0.3)
	if box.TriangleCount() != 12 {
		t.Fatalf("Expected 12 triangles, got %d", box.TriangleCount())
	}
	if math.Abs(box.Area()-2*(2*4+2*1+4*1)) > 1e-9 {
		t.Errorf("Expected area 28, got %v", box.Area())
	}

	random := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		si := box.SamplePoint(core.NewVec3(random.Float64(), random.Float64(), random.Float64()))
		if si.Ng.Dot(si.Point.Subtract(center)) <= 0 {
			t.Fatalf("Expected outward normal at %v, got %v", si.Point, si.Ng)
		}
	}

	// A ray from the center leaves through exactly one face
	ray := core.NewRay(center, core.NewVec3(0, 1, 0))
	hit, ok := box.Hit(ray, 1e-9, math.Inf(1))
	if !ok || math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected exit at distance 2, got %v (hit=%v)", hit.T, ok)
	}
}

func TestTriangleMesh_AreaWeightedSampling(t *testing.T) {
	// One face has three times the area of the other
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(5, 0, 0), core.NewVec3(8, 0, 0), core.NewVec3(5, 1, 0),
	}
	mesh, err := NewTriangleMesh(vertices, [][3]int{{0, 1, 2}, {3, 4, 5}}, nil, core.Identity())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	random := rand.New(rand.NewSource(42))
	large := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if mesh.SamplePoint(core.NewVec3(random.Float64(), random.Float64(), random.Float64())).Point.X >= 5 {
			large++
		}
	}
	if got := float64(large) / n; math.Abs(got-0.75) > 0.02 {
		t.Errorf("Expected 75%% of samples on the large face, got %.3f", got)
	}
}

func TestNewTriangleMesh_Errors(t *testing.T) {
	v := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}
	tests := []struct {
		name  string
		faces [][3]int
		uvs   []core.Vec2
	}{
		{"NoFaces", nil, nil},
		{"BadIndex", [][3]int{{0, 1, 3}}, nil},
		{"UVCount", [][3]int{{0, 1, 2}}, []core.Vec2{{X: 0, Y: 0}}},
		{"Degenerate", [][3]int{{0, 0, 1}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(v, tt.faces, tt.uvs, core.Identity()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
