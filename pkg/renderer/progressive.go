package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/spectrum"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	MaxPasses  int             // Passes to render before stopping
	NumWorkers int             // Number of parallel workers (0 = use CPU count)
	Format     spectrum.Format // Display color format of the pass images
	Gamma      float64         // Display gamma of the pass images
	Images     bool            // Whether each pass result carries an image
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		MaxPasses:  16,
		NumWorkers: 0, // Auto-detect CPU count
		Format:     spectrum.FormatSRGB,
		Gamma:      spectrum.DefaultGamma,
		Images:     true,
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA // Nil unless images were requested
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders passes on engine until config.MaxPasses passes are
// committed or ctx is cancelled. The engine must already hold a rendering.
// Results arrive on the pass channel; a failure, including cancellation, is sent
// on the error channel. Both channels are closed when rendering ends.
func RenderProgressive(ctx context.Context, engine *Engine, config ProgressiveConfig) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	workers := config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	go func() {
		defer close(passChan)
		defer close(errChan)

		// Stop the running pass as soon as the caller goes away
		stopWatcher := context.AfterFunc(ctx, engine.Stop)
		defer stopWatcher()

		engine.logger.Printf("Starting progressive rendering with %d passes...\n", config.MaxPasses)

		for engine.Pass() < config.MaxPasses {
			select {
			case <-ctx.Done():
				engine.logger.Printf("Rendering cancelled before pass %d\n", engine.Pass()+1)
				errChan <- ctx.Err()
				return
			default:
			}

			start := time.Now()
			if err := engine.RenderPass(ctx, workers, nil); err != nil {
				if errors.Is(err, ErrStopped) && ctx.Err() != nil {
					err = ctx.Err()
				}
				errChan <- err
				return
			}

			stats := engine.Stats()
			stats.PassDuration = time.Since(start)
			result := PassResult{
				PassNumber: stats.Passes,
				Stats:      stats,
				IsLast:     stats.Passes >= config.MaxPasses,
			}
			if config.Images {
				img, err := engine.Image(config.Format, config.Gamma)
				if err != nil {
					errChan <- err
					return
				}
				result.Image = img
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
