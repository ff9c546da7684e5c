package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-bdpt/pkg/spectrum"
)

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.MaxPasses != 16 {
		t.Errorf("Expected default max passes 16, got %d", config.MaxPasses)
	}
	if config.NumWorkers != 0 {
		t.Errorf("Expected auto-detected workers, got %d", config.NumWorkers)
	}
	if config.Format != spectrum.FormatSRGB {
		t.Errorf("Expected sRGB output, got %v", config.Format)
	}
	if config.Gamma != spectrum.DefaultGamma {
		t.Errorf("Expected gamma %v, got %v", spectrum.DefaultGamma, config.Gamma)
	}
}

func TestRenderProgressive(t *testing.T) {
	engine := newTestEngine(t, RendererBDPT)
	config := DefaultProgressiveConfig()
	config.MaxPasses = 3
	config.NumWorkers = 2

	passes, errs := RenderProgressive(context.Background(), engine, config)

	var results []PassResult
	for result := range passes {
		results = append(results, result)
	}
	for err := range errs {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 pass results, got %d", len(results))
	}
	for i, result := range results {
		if result.PassNumber != i+1 {
			t.Errorf("Expected pass %d, got %d", i+1, result.PassNumber)
		}
		if result.Image == nil {
			t.Errorf("Pass %d: expected an image", result.PassNumber)
		}
		if result.Stats.TotalSamples != 48*(i+1) {
			t.Errorf("Pass %d: expected %d samples, got %d", result.PassNumber, 48*(i+1), result.Stats.TotalSamples)
		}
		if result.IsLast != (i == 2) {
			t.Errorf("Pass %d: unexpected IsLast %v", result.PassNumber, result.IsLast)
		}
	}
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	engine := newTestEngine(t, RendererPathTracing)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passes, errs := RenderProgressive(ctx, engine, DefaultProgressiveConfig())
	for range passes {
		t.Errorf("Expected no pass results after cancellation")
	}
	err := <-errs
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if engine.Pass() != 0 {
		t.Errorf("Expected pass 0, got %d", engine.Pass())
	}
}
