package renderer

import (
	"sync"

	"github.com/df07/go-bdpt/pkg/core"
)

// bufferStripes is the number of locks guarding a pixel buffer
const bufferStripes = 64

// PixelBuffer holds accumulated radiance for every pixel in row-major order.
// Add is safe for concurrent use; pixels are guarded by striped locks.
type PixelBuffer struct {
	Width, Height int
	pixels        []core.Vec3
	locks         [bufferStripes]sync.Mutex
}

// NewPixelBuffer creates a zeroed buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Index returns the row-major index of pixel (x, y)
func (b *PixelBuffer) Index(x, y int) int {
	return y*b.Width + x
}

// At returns the accumulated radiance of pixel (x, y)
func (b *PixelBuffer) At(x, y int) core.Vec3 {
	i := b.Index(x, y)
	lock := &b.locks[i%bufferStripes]
	lock.Lock()
	defer lock.Unlock()
	return b.pixels[i]
}

// Add accumulates radiance into pixel (x, y)
func (b *PixelBuffer) Add(x, y int, radiance core.Vec3) {
	i := b.Index(x, y)
	lock := &b.locks[i%bufferStripes]
	lock.Lock()
	b.pixels[i] = b.pixels[i].Add(radiance)
	lock.Unlock()
}

// CopyFrom overwrites every pixel with the contents of other.
// Callers must ensure no concurrent Add is running on either buffer.
func (b *PixelBuffer) CopyFrom(other *PixelBuffer) {
	copy(b.pixels, other.pixels)
}

// Reset zeroes every pixel.
// Callers must ensure no concurrent Add is running.
func (b *PixelBuffer) Reset() {
	clear(b.pixels)
}

// Pixels returns the underlying row-major slice.
// Callers must ensure no concurrent Add is running.
func (b *PixelBuffer) Pixels() []core.Vec3 {
	return b.pixels
}

// Clone returns an independent copy of the buffer
func (b *PixelBuffer) Clone() *PixelBuffer {
	clone := NewPixelBuffer(b.Width, b.Height)
	clone.CopyFrom(b)
	return clone
}
