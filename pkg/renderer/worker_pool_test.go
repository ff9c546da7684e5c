package renderer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/integrator"
	"github.com/df07/go-bdpt/pkg/scene"
)

// countingIntegrator records how often each pixel is rendered
type countingIntegrator struct {
	mu     sync.Mutex
	counts map[[2]int]int
}

func (c *countingIntegrator) Initialize(s *scene.Scene, params core.RenderParameters) error {
	return nil
}

func (c *countingIntegrator) RenderPixel(px, py, pass int, sampler core.Sampler, splat integrator.SplatFunc) core.Vec3 {
	c.mu.Lock()
	c.counts[[2]int{px, py}]++
	c.mu.Unlock()
	splat(0, 0, core.NewVec3(0, 0, 1))
	return core.NewVec3(1, 0, 0)
}

func TestWorkerPool_EveryPixelOnce(t *testing.T) {
	tests := []struct {
		name          string
		workers       int
		width, height int
	}{
		{"SingleWorker", 1, 7, 5},
		{"ManyWorkers", 8, 13, 11},
		{"MoreWorkersThanPixels", 16, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &countingIntegrator{counts: map[[2]int]int{}}
			buffer := NewPixelBuffer(tt.width, tt.height)
			splats := NewSplatQueue()
			var stop atomic.Bool

			pool := NewWorkerPool(tt.workers, &stop)
			finished := pool.Run(context.Background(), PassTask{
				Integrator: counter,
				Buffer:     buffer,
				Splats:     splats,
			})
			if !finished {
				t.Fatalf("Expected the pass to finish")
			}

			pixels := tt.width * tt.height
			if len(counter.counts) != pixels {
				t.Errorf("Expected %d distinct pixels, got %d", pixels, len(counter.counts))
			}
			for p, n := range counter.counts {
				if n != 1 {
					t.Errorf("Pixel %v rendered %d times", p, n)
				}
			}
			for _, c := range buffer.Pixels() {
				if c != core.NewVec3(1, 0, 0) {
					t.Fatalf("Expected every pixel to hold one sample, got %v", c)
				}
			}
			if got := splats.GetSplatCount(); got != pixels {
				t.Errorf("Expected %d queued splats, got %d", pixels, got)
			}
			if pool.Completed() != int64(pixels) || pool.Total() != int64(pixels) {
				t.Errorf("Expected %d completed pixels, got %d of %d", pixels, pool.Completed(), pool.Total())
			}
		})
	}
}

func TestWorkerPool_StopFlag(t *testing.T) {
	counter := &countingIntegrator{counts: map[[2]int]int{}}
	var stop atomic.Bool
	stop.Store(true)

	pool := NewWorkerPool(4, &stop)
	finished := pool.Run(context.Background(), PassTask{
		Integrator: counter,
		Buffer:     NewPixelBuffer(4, 4),
		Splats:     NewSplatQueue(),
	})
	if finished {
		t.Errorf("Expected a stopped pass to report unfinished")
	}
	if len(counter.counts) != 0 {
		t.Errorf("Expected no pixels rendered, got %d", len(counter.counts))
	}
}
