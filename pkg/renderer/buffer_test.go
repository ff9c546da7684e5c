package renderer

import (
	"sync"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
)

func TestPixelBuffer_RowMajor(t *testing.T) {
	b := NewPixelBuffer(3, 2)
	tests := []struct {
		x, y     int
		expected int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{0, 1, 3},
		{2, 1, 5},
	}
	for _, tt := range tests {
		if got := b.Index(tt.x, tt.y); got != tt.expected {
			t.Errorf("Index(%d,%d): expected %d, got %d", tt.x, tt.y, tt.expected, got)
		}
	}

	b.Add(2, 1, core.NewVec3(1, 2, 3))
	if got := b.Pixels()[5]; got != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected %v, got %v", core.NewVec3(1, 2, 3), got)
	}
}

func TestPixelBuffer_ConcurrentAdd(t *testing.T) {
	b := NewPixelBuffer(8, 8)
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				b.Add(i%8, (i/8)%8, core.NewVec3(1, 0, 0))
			}
		}()
	}
	wg.Wait()

	total := 0.0
	for _, p := range b.Pixels() {
		total += p.X
	}
	if total != 1600 {
		t.Errorf("Expected 1600, got %v", total)
	}
}

func TestPixelBuffer_CloneAndReset(t *testing.T) {
	b := NewPixelBuffer(2, 2)
	b.Add(1, 1, core.NewVec3(1, 1, 1))

	clone := b.Clone()
	b.Reset()

	if got := b.At(1, 1); !got.IsZero() {
		t.Errorf("Expected reset pixel to be zero, got %v", got)
	}
	if got := clone.At(1, 1); got != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected clone to keep its data, got %v", got)
	}
}
