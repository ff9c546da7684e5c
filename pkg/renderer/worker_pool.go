package renderer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/integrator"
)

// PassTask describes one pass over every pixel of the image
type PassTask struct {
	Integrator integrator.Integrator
	Buffer     *PixelBuffer // Write buffer that receives per-pixel estimates
	Splats     *SplatQueue  // Receives contributions landing on other pixels
	PassNumber int
	Seed       int64
}

// WorkerPool evaluates the pixels of a pass in parallel. Workers claim pixels
// from a shared atomic cursor, so every pixel is rendered exactly once per
// completed pass regardless of how the work ends up distributed.
type WorkerPool struct {
	numWorkers int
	cursor     atomic.Int64
	completed  atomic.Int64
	total      atomic.Int64
	stop       *atomic.Bool
}

// Worker renders the pixels it claims with its own random stream
type Worker struct {
	ID      int
	sampler core.Sampler
	pool    *WorkerPool
}

// NewWorkerPool creates a pool of numWorkers workers that watch the stop flag
func NewWorkerPool(numWorkers int, stop *atomic.Bool) *WorkerPool {
	return &WorkerPool{
		numWorkers: max(1, numWorkers),
		stop:       stop,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Completed returns the number of pixels finished in the current pass
func (wp *WorkerPool) Completed() int64 {
	return wp.completed.Load()
}

// Total returns the number of pixels in the current pass
func (wp *WorkerPool) Total() int64 {
	return wp.total.Load()
}

// Run renders every pixel of task and waits for all workers to finish.
// It reports false when the stop flag was raised or ctx was cancelled before
// every pixel was claimed.
func (wp *WorkerPool) Run(ctx context.Context, task PassTask) bool {
	total := int64(task.Buffer.Width * task.Buffer.Height)
	wp.total.Store(total)
	wp.cursor.Store(0)
	wp.completed.Store(0)

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		worker := &Worker{
			ID:      i,
			sampler: core.NewWorkerSampler(task.Seed+int64(task.PassNumber), i),
			pool:    wp,
		}
		wg.Add(1)
		go worker.run(ctx, task, &wg)
	}
	wg.Wait()

	return wp.completed.Load() == total
}

// run claims and renders pixels until none are left or the pass is stopped
func (w *Worker) run(ctx context.Context, task PassTask, wg *sync.WaitGroup) {
	defer wg.Done()

	width := int64(task.Buffer.Width)
	total := w.pool.total.Load()
	splat := integrator.SplatFunc(task.Splats.AddSplat)

	for {
		if w.pool.stop.Load() || ctx.Err() != nil {
			return
		}
		i := w.pool.cursor.Add(1) - 1
		if i >= total {
			return
		}
		px, py := int(i%width), int(i/width)
		radiance := task.Integrator.RenderPixel(px, py, task.PassNumber, w.sampler, splat)
		task.Buffer.Add(px, py, radiance)
		w.pool.completed.Add(1)
	}
}
