package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/integrator"
	"github.com/df07/go-bdpt/pkg/scene"
	"github.com/df07/go-bdpt/pkg/spectrum"
)

// MaxThreads is the largest number of workers a pass may use
const MaxThreads = 64

// progressInterval is how often a running pass reports progress
const progressInterval = 100 * time.Millisecond

// RenderParameters holds the settings that stay fixed for the whole of one rendering
type RenderParameters = core.RenderParameters

// DefaultRenderParameters returns a small pinhole configuration
func DefaultRenderParameters() RenderParameters {
	return core.DefaultRenderParameters()
}

// RendererType selects the light transport algorithm
type RendererType int

const (
	RendererBDPT        RendererType = iota // Bidirectional path tracing
	RendererPathTracing                     // Unidirectional path tracing with next event estimation
)

// String returns the command-line name of the renderer type
func (t RendererType) String() string {
	switch t {
	case RendererBDPT:
		return "bdpt"
	case RendererPathTracing:
		return "path-tracing"
	default:
		return fmt.Sprintf("RendererType(%d)", int(t))
	}
}

// ParseRendererType maps a command-line name to a renderer type
func ParseRendererType(name string) (RendererType, error) {
	switch strings.ToLower(name) {
	case "bdpt":
		return RendererBDPT, nil
	case "path-tracing", "pt":
		return RendererPathTracing, nil
	default:
		return 0, fmt.Errorf("unknown renderer %q: %w", name, ErrInvalidFormat)
	}
}

// newIntegrator creates the integrator for a renderer type
func newIntegrator(t RendererType, logger core.Logger) (integrator.Integrator, error) {
	switch t {
	case RendererBDPT:
		return integrator.NewBDPTIntegrator(logger), nil
	case RendererPathTracing:
		return integrator.NewPathTracingIntegrator(logger), nil
	default:
		return nil, fmt.Errorf("renderer type %d: %w", int(t), ErrInvalidFormat)
	}
}

// Engine accumulates passes of a rendering into a double-buffered image.
// Completed passes live in the read buffer; a running pass writes into the other
// buffer and the two swap roles only when the pass finishes.
type Engine struct {
	Seed int64 // Base seed for the per-worker random streams

	logger       core.Logger
	scene        *scene.Scene
	integrator   integrator.Integrator
	params       RenderParameters
	rendererType RendererType
	splats       *SplatQueue

	passMu sync.Mutex // Serializes passes, new renderings and loads

	stateMu sync.RWMutex // Guards the buffers and pass counter
	read    *PixelBuffer
	write   *PixelBuffer
	pass    int

	stop atomic.Bool
	pool atomic.Pointer[WorkerPool]
}

// NewEngine creates an engine with no scene bound; a nil logger discards output
func NewEngine(logger core.Logger) *Engine {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Engine{logger: logger, splats: NewSplatQueue()}
}

// BindScene sets the scene that subsequent renderings use
func (e *Engine) BindScene(s *scene.Scene) error {
	if s == nil {
		return ErrInvalidScene
	}
	e.passMu.Lock()
	defer e.passMu.Unlock()
	e.scene = s
	return nil
}

// NewRendering discards any previous image and prepares an integrator of the
// given type for params
func (e *Engine) NewRendering(params RenderParameters, rendererType RendererType) error {
	e.passMu.Lock()
	defer e.passMu.Unlock()
	return e.startRendering(params, rendererType)
}

// startRendering initializes a fresh integrator and zeroed buffers. Callers hold passMu.
func (e *Engine) startRendering(params RenderParameters, rendererType RendererType) error {
	if e.scene == nil {
		return ErrInvalidScene
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("render parameters: %w", err)
	}
	integ, err := newIntegrator(rendererType, e.logger)
	if err != nil {
		return err
	}
	if err := integ.Initialize(e.scene, params); err != nil {
		return fmt.Errorf("initialize %v: %w", rendererType, err)
	}

	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.integrator = integ
	e.params = params
	e.rendererType = rendererType
	e.read = NewPixelBuffer(params.Width, params.Height)
	e.write = NewPixelBuffer(params.Width, params.Height)
	e.pass = 0
	e.splats.Clear()
	return nil
}

// RenderPass renders one more sample for every pixel using up to threads workers.
// progress, if non-nil, is called with the completed fraction from a separate
// goroutine while the pass runs. A pass interrupted by Stop or ctx returns
// ErrStopped and leaves the image and pass counter untouched.
func (e *Engine) RenderPass(ctx context.Context, threads int, progress func(float64)) error {
	e.passMu.Lock()
	defer e.passMu.Unlock()

	if e.integrator == nil {
		return ErrUninitialized
	}
	e.stop.Store(false)

	// Continue from the committed image; the first pass starts from zero
	if e.pass > 0 {
		e.write.CopyFrom(e.read)
	} else {
		e.write.Reset()
	}
	e.splats.Clear()

	threads = min(max(threads, 1), MaxThreads)
	pool := NewWorkerPool(threads, &e.stop)
	e.pool.Store(pool)

	e.logger.Printf("Pass %d: %dx%d pixels with %d workers (%v)\n",
		e.pass+1, e.params.Width, e.params.Height, threads, e.rendererType)
	start := time.Now()

	done := make(chan struct{})
	var reporter sync.WaitGroup
	if progress != nil {
		reporter.Add(1)
		go func() {
			defer reporter.Done()
			ticker := time.NewTicker(progressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					progress(e.Progress())
				}
			}
		}()
	}

	finished := pool.Run(ctx, PassTask{
		Integrator: e.integrator,
		Buffer:     e.write,
		Splats:     e.splats,
		PassNumber: e.pass,
		Seed:       e.Seed,
	})
	close(done)
	reporter.Wait()

	if !finished {
		e.splats.Clear()
		e.logger.Printf("Pass %d stopped after %d of %d pixels\n", e.pass+1, pool.Completed(), pool.Total())
		return ErrStopped
	}

	splatCount := e.splats.Drain(e.write)

	e.stateMu.Lock()
	e.pass++
	e.read, e.write = e.write, e.read
	pass := e.pass
	e.stateMu.Unlock()

	if progress != nil {
		progress(1.0)
	}
	e.logger.Printf("Pass %d completed in %v (%d splats)\n", pass, time.Since(start), splatCount)
	return nil
}

// Stop asks the running pass to finish early. Pixels already being rendered complete,
// but the pass is discarded.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Progress returns the completed fraction of the current or most recent pass
func (e *Engine) Progress() float64 {
	pool := e.pool.Load()
	if pool == nil || pool.Total() == 0 {
		return 0.0
	}
	return float64(pool.Completed()) / float64(pool.Total())
}

// Pass returns the number of completed passes
func (e *Engine) Pass() int {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.pass
}

// Parameters returns the settings of the current rendering
func (e *Engine) Parameters() RenderParameters {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.params
}

// RendererType returns the algorithm of the current rendering
func (e *Engine) RendererType() RendererType {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.rendererType
}

// Radiance returns the mean radiance per pixel over the completed passes
func (e *Engine) Radiance() ([]core.Vec3, error) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.pass == 0 || e.read == nil {
		return nil, ErrNoData
	}
	scale := 1.0 / float64(e.pass)
	pixels := e.read.Pixels()
	radiance := make([]core.Vec3, len(pixels))
	for i, p := range pixels {
		radiance[i] = p.Multiply(scale)
	}
	return radiance, nil
}

// RadianceToRGB returns the display color of every pixel in row-major order
func (e *Engine) RadianceToRGB(format spectrum.Format, gamma float64) ([]core.Vec3, error) {
	if !(gamma > 0) || math.IsInf(gamma, 0) {
		return nil, fmt.Errorf("gamma %v: %w", gamma, ErrNoData)
	}
	radiance, err := e.Radiance()
	if err != nil {
		return nil, err
	}
	for i, r := range radiance {
		radiance[i] = spectrum.RadianceToRGB(r, format, gamma)
	}
	return radiance, nil
}

// Image returns the display colors as an 8-bit image
func (e *Engine) Image(format spectrum.Format, gamma float64) (*image.RGBA, error) {
	rgb, err := e.RadianceToRGB(format, gamma)
	if err != nil {
		return nil, err
	}
	params := e.Parameters()
	return spectrum.ToImage(rgb, params.Width, params.Height), nil
}

// Stats summarizes the committed passes
func (e *Engine) Stats() RenderStats {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	stats := RenderStats{
		TotalPixels: e.params.PixelCount(),
		Passes:      e.pass,
	}
	stats.TotalSamples = stats.TotalPixels * e.pass
	if e.read != nil && e.pass > 0 {
		stats.AverageLuminance = CalculateAverageLuminance(e.read.Pixels(), e.pass)
	}
	return stats
}
