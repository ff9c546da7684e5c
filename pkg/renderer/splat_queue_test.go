package renderer

import (
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
)

func TestSplatQueue(t *testing.T) {
	queue := NewSplatQueue()

	// Test initial state
	if count := queue.GetSplatCount(); count != 0 {
		t.Errorf("Expected empty queue, got %d splats", count)
	}

	queue.AddSplat(1, 2, core.Vec3{X: 0.5, Y: 0.3, Z: 0.1})
	queue.AddSplat(3, 0, core.Vec3{X: 0.8, Y: 0.2, Z: 0.4})
	queue.AddSplat(1, 2, core.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
	queue.AddSplat(100, 150, core.Vec3{X: 0.1, Y: 0.9, Z: 0.6}) // Outside the buffer

	if count := queue.GetSplatCount(); count != 4 {
		t.Errorf("Expected 4 splats, got %d", count)
	}

	buffer := NewPixelBuffer(4, 4)
	if applied := queue.Drain(buffer); applied != 3 {
		t.Errorf("Expected 3 splats applied, got %d", applied)
	}
	if count := queue.GetSplatCount(); count != 0 {
		t.Errorf("Expected empty queue after drain, got %d", count)
	}

	expected := core.NewVec3(1.0, 0.8, 0.6)
	if got := buffer.At(1, 2); got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if got := buffer.At(3, 0); got != core.NewVec3(0.8, 0.2, 0.4) {
		t.Errorf("Expected %v, got %v", core.NewVec3(0.8, 0.2, 0.4), got)
	}
}

func TestSplatQueueClear(t *testing.T) {
	queue := NewSplatQueue()

	queue.AddSplat(10, 20, core.Vec3{X: 0.5, Y: 0.3, Z: 0.1})
	queue.AddSplat(50, 60, core.Vec3{X: 0.8, Y: 0.2, Z: 0.4})

	if count := queue.GetSplatCount(); count != 2 {
		t.Errorf("Expected 2 splats, got %d", count)
	}

	queue.Clear()

	if count := queue.GetSplatCount(); count != 0 {
		t.Errorf("Expected empty queue after clear, got %d", count)
	}
}

func TestSplatQueueConcurrency(t *testing.T) {
	queue := NewSplatQueue()

	// Test concurrent adds
	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 10; j++ {
				queue.AddSplat(id, j, core.Vec3{X: 1, Y: 1, Z: 1})
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if count := queue.GetSplatCount(); count != 100 {
		t.Errorf("Expected 100 splats from concurrent adds, got %d", count)
	}

	buffer := NewPixelBuffer(10, 10)
	queue.Drain(buffer)
	for _, p := range buffer.Pixels() {
		if p != core.NewVec3(1, 1, 1) {
			t.Fatalf("Expected every pixel to receive one splat, got %v", p)
		}
	}
}
