package renderer

import (
	"sync"

	"github.com/df07/go-bdpt/pkg/core"
)

// SplatXY is a contribution that landed on an arbitrary pixel
type SplatXY struct {
	X, Y  int
	Color core.Vec3
}

// SplatQueue collects light-tracing contributions while a pass runs.
// Workers append concurrently; the queue is drained into the image after they join,
// so splats never race with per-pixel accumulation.
type SplatQueue struct {
	mu     sync.Mutex
	splats []SplatXY
}

// NewSplatQueue creates a new splat queue with a pre-allocated buffer
func NewSplatQueue() *SplatQueue {
	return &SplatQueue{splats: make([]SplatXY, 0, 4096)}
}

// AddSplat queues a contribution for pixel (x, y)
func (sq *SplatQueue) AddSplat(x, y int, color core.Vec3) {
	sq.mu.Lock()
	sq.splats = append(sq.splats, SplatXY{X: x, Y: y, Color: color})
	sq.mu.Unlock()
}

// GetSplatCount returns the number of pending splats
func (sq *SplatQueue) GetSplatCount() int {
	sq.mu.Lock()
	defer sq.mu.Unlock()
	return len(sq.splats)
}

// Drain adds every pending splat to buffer and empties the queue.
// Splats outside the buffer are dropped.
func (sq *SplatQueue) Drain(buffer *PixelBuffer) int {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	applied := 0
	for _, s := range sq.splats {
		if s.X < 0 || s.X >= buffer.Width || s.Y < 0 || s.Y >= buffer.Height {
			continue
		}
		buffer.Add(s.X, s.Y, s.Color)
		applied++
	}
	sq.splats = sq.splats[:0]
	return applied
}

// Clear discards all pending splats
func (sq *SplatQueue) Clear() {
	sq.mu.Lock()
	sq.splats = sq.splats[:0]
	sq.mu.Unlock()
}
