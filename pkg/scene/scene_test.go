package scene

import (
	"math"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
	"github.com/df07/go-bdpt/pkg/material"
)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	camera, err := NewCamera(CameraConfig{
		Position:    core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	})
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	return NewScene(camera)
}

func TestScene_PreprocessEmitterProbabilities(t *testing.T) {
	s := newTestScene(t)
	matte := material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))

	// Same power, the smaller emitter has four times the power per area
	small := geometry.NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1))
	large := geometry.NewQuadMesh(core.NewVec3(5, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -2))
	s.Add(
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, -3, 0), 1), matte),
		geometry.NewEmitter(small, matte, material.NewEmitterData(core.NewVec3(1, 1, 1))),
		geometry.NewEmitter(large, matte, material.NewEmitterData(core.NewVec3(1, 1, 1))),
	)

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	emitters := s.Emitters()
	if len(emitters) != 2 {
		t.Fatalf("Expected 2 emitters, got %d", len(emitters))
	}
	if math.Abs(emitters[0].Emitter.Probability-0.8) > 1e-12 {
		t.Errorf("Expected probability 0.8, got %v", emitters[0].Emitter.Probability)
	}
	if math.Abs(emitters[1].Emitter.Probability-0.2) > 1e-12 {
		t.Errorf("Expected probability 0.2, got %v", emitters[1].Emitter.Probability)
	}
	if math.Abs(emitters[1].Emitter.Area-4) > 1e-12 {
		t.Errorf("Expected area 4, got %v", emitters[1].Emitter.Area)
	}

	got, prob := s.SampleEmitter(0.9)
	if got != emitters[1] || math.Abs(prob-0.2) > 1e-12 {
		t.Errorf("Expected second emitter with probability 0.2, got %v with %v", got, prob)
	}
}

func TestScene_PreprocessErrors(t *testing.T) {
	matte := material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))

	t.Run("NoEmitters", func(t *testing.T) {
		s := newTestScene(t)
		s.Add(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 1), matte))
		if err := s.Preprocess(); err == nil {
			t.Error("Expected error for a scene without emitters")
		}
	})

	t.Run("NoCamera", func(t *testing.T) {
		s := NewScene(nil)
		s.Add(geometry.NewEmitter(geometry.NewSphere(core.NewVec3(0, 0, 0), 1), matte, material.NewEmitterData(core.NewVec3(1, 1, 1))))
		if err := s.Preprocess(); err == nil {
			t.Error("Expected error for a scene without a camera")
		}
	})

	t.Run("MissingShape", func(t *testing.T) {
		s := newTestScene(t)
		s.Add(&geometry.Primitive{Material: matte})
		if err := s.Preprocess(); err == nil {
			t.Error("Expected error for a primitive without a shape")
		}
	})
}

func TestScene_IntersectFillsOwner(t *testing.T) {
	s := newTestScene(t)
	matte := material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))
	emitter := material.NewEmitterData(core.NewVec3(1, 1, 1))
	s.Add(
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0, -5), 1), matte),
		geometry.NewEmitter(geometry.NewSphere(core.NewVec3(0, 0, 0), 1), matte, emitter),
	)

	si, ok := s.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if si.Primitive != 1 {
		t.Errorf("Expected closest primitive 1, got %d", si.Primitive)
	}
	if si.Emitter != emitter {
		t.Errorf("Expected emitter data on the hit")
	}
	if math.Abs(si.Distance-4) > 1e-9 {
		t.Errorf("Expected distance 4, got %v", si.Distance)
	}

	if _, ok := s.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 1, 0))); ok {
		t.Error("Expected miss")
	}
}

func TestScene_VisibleSymmetric(t *testing.T) {
	s := newTestScene(t)
	s.Add(geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 1), material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))))

	tests := []struct {
		name     string
		p0, p1   core.Vec3
		expected bool
	}{
		{"Blocked", core.NewVec3(-3, 0, 0), core.NewVec3(3, 0, 0), false},
		{"Clear", core.NewVec3(-3, 2, 0), core.NewVec3(3, 2, 0), true},
		{"EndsBeforeSphere", core.NewVec3(-3, 0, 0), core.NewVec3(-2, 0, 0), true},
		{"Coincident", core.NewVec3(-3, 0, 0), core.NewVec3(-3, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward := s.Visible(tt.p0, tt.p1)
			backward := s.Visible(tt.p1, tt.p0)
			if forward != tt.expected {
				t.Errorf("Expected visible=%v, got %v", tt.expected, forward)
			}
			if forward != backward {
				t.Errorf("Expected symmetric visibility, got %v and %v", forward, backward)
			}
		})
	}
}

func TestScene_PrimitiveCount(t *testing.T) {
	s := newTestScene(t)
	matte := material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(
		geometry.NewPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 1), matte),
		geometry.NewPrimitive(geometry.NewBoxMesh(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 0), matte),
	)
	if s.PrimitiveCount() != 13 {
		t.Errorf("Expected 13 primitives, got %d", s.PrimitiveCount())
	}
}

func TestBuiltinScenes(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("Expected 4 built-in scenes, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Expected sorted names, got %v", names)
		}
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}
			if len(s.Emitters()) == 0 {
				t.Errorf("Expected at least one emitter")
			}
			total := 0.0
			for _, e := range s.Emitters() {
				total += e.Emitter.Probability
			}
			if math.Abs(total-1) > 1e-9 {
				t.Errorf("Expected emitter probabilities to sum to 1, got %v", total)
			}
		})
	}

	if _, err := New("missing"); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestPowerForRadiance(t *testing.T) {
	e := material.NewEmitterData(PowerForRadiance(core.NewVec3(2, 2, 2), 3))
	e.Area = 3
	got := e.Radiance(1)
	if got.Subtract(core.NewVec3(2, 2, 2)).Length() > 1e-12 {
		t.Errorf("Expected radiance (2,2,2) along the normal, got %v", got)
	}
}
