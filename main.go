package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/imageio"
	"github.com/df07/go-bdpt/pkg/renderer"
	"github.com/df07/go-bdpt/pkg/scene"
	"github.com/df07/go-bdpt/pkg/spectrum"
)

// Config holds the command line settings
type Config struct {
	Scene        string
	Renderer     string
	Passes       int
	Threads      int
	Width        int
	Height       int
	PixelSubdiv  int
	LensSubdiv   int
	MinDepth     int
	Focus        float64
	LensRadius   float64
	Gamma        float64
	Seed         int64
	Output       string
	Resume       string
	Checkpoint   string
	PreviewWidth int
	Verbose      bool
	List         bool
}

// parseFlags reads the command line into a Config
func parseFlags(args []string, output io.Writer) (Config, error) {
	defaults := renderer.DefaultRenderParameters()
	var cfg Config

	fs := flag.NewFlagSet("go-bdpt", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Scene, "scene", "cornell", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&cfg.Renderer, "renderer", "bdpt", "Light transport: 'bdpt' or 'path-tracing'")
	fs.IntVar(&cfg.Passes, "passes", 16, "Number of passes (samples per pixel) to render")
	fs.IntVar(&cfg.Threads, "threads", runtime.NumCPU(), fmt.Sprintf("Worker threads (1-%d)", renderer.MaxThreads))
	fs.IntVar(&cfg.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&cfg.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&cfg.PixelSubdiv, "pixel-subdiv", defaults.PixelSubdivisions, "Pixel strata per side")
	fs.IntVar(&cfg.LensSubdiv, "lens-subdiv", defaults.LensSubdivisions, "Lens strata per side")
	fs.IntVar(&cfg.MinDepth, "min-depth", defaults.MinDepth, "Subpath length before Russian roulette")
	fs.Float64Var(&cfg.Focus, "focus", defaults.FocusDistance, "Focus distance")
	fs.Float64Var(&cfg.LensRadius, "lens-radius", defaults.LensRadius, "Lens radius (0 = pinhole)")
	fs.Float64Var(&cfg.Gamma, "gamma", spectrum.DefaultGamma, "Display gamma")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Base random seed")
	fs.StringVar(&cfg.Output, "output", "", "Output image (.png, .tif, .bmp, .jpg); default output/<scene>/render_<timestamp>.png")
	fs.StringVar(&cfg.Resume, "resume", "", "Checkpoint to resume from")
	fs.StringVar(&cfg.Checkpoint, "checkpoint", "", "Checkpoint to write after rendering (.zz compresses)")
	fs.IntVar(&cfg.PreviewWidth, "preview-width", 0, "Also write a resized preview of this width")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Structured logging with integrator details")
	fs.BoolVar(&cfg.List, "list", false, "List built-in scenes and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.Passes <= 0 {
		return Config{}, fmt.Errorf("passes must be positive, got %d", cfg.Passes)
	}
	if cfg.Output != "" && !imageio.Supported(filepath.Ext(cfg.Output)) {
		return Config{}, fmt.Errorf("unsupported output format %q", filepath.Ext(cfg.Output))
	}
	return cfg, nil
}

// renderParameters combines the flags with the scene's suggested resolution
func renderParameters(cfg Config, info scene.SceneInfo) renderer.RenderParameters {
	params := renderer.DefaultRenderParameters()
	params.Width = info.Width
	params.Height = info.Height
	if cfg.Width > 0 {
		params.Width = cfg.Width
	}
	if cfg.Height > 0 {
		params.Height = cfg.Height
	}
	params.PixelSubdivisions = cfg.PixelSubdiv
	params.LensSubdivisions = cfg.LensSubdiv
	params.MinDepth = cfg.MinDepth
	params.FocusDistance = cfg.Focus
	params.LensRadius = cfg.LensRadius
	return params
}

// createOutputDir returns the default output directory for a scene
func createOutputDir(sceneID string) string {
	if sceneID == "" {
		sceneID = "scene"
	}
	return filepath.Join("output", filepath.Base(sceneID))
}

// defaultOutputPath returns a timestamped image path for a scene
func defaultOutputPath(sceneID string, now time.Time) string {
	return filepath.Join(createOutputDir(sceneID), fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// previewPath inserts a suffix before the extension of path
func previewPath(path string, width int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_preview%d%s", strings.TrimSuffix(path, ext), width, ext)
}

func newLogger(verbose bool) core.Logger {
	if verbose {
		return core.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return renderer.NewDefaultLogger()
}

// run renders according to cfg. Cancelling ctx stops the current pass; passes
// already committed are still written out.
func run(ctx context.Context, cfg Config, logger core.Logger, out io.Writer) error {
	printer := message.NewPrinter(language.English)

	if cfg.List {
		for _, info := range scene.ListScenes() {
			printer.Fprintf(out, "  %-12s %dx%d  %s\n", info.ID, info.Width, info.Height, info.Description)
		}
		return nil
	}

	info, err := scene.Lookup(cfg.Scene)
	if err != nil {
		return err
	}
	rendererType, err := renderer.ParseRendererType(cfg.Renderer)
	if err != nil {
		return err
	}
	s, err := scene.New(cfg.Scene)
	if err != nil {
		return err
	}

	engine := renderer.NewEngine(logger)
	engine.Seed = cfg.Seed
	if err := engine.BindScene(s); err != nil {
		return err
	}

	if cfg.Resume != "" {
		if err := engine.LoadFile(cfg.Resume); err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		printer.Fprintf(out, "Resumed %s at pass %d (%v)\n", cfg.Resume, engine.Pass(), engine.RendererType())
	} else {
		if err := engine.NewRendering(renderParameters(cfg, info), rendererType); err != nil {
			return err
		}
	}

	params := engine.Parameters()
	printer.Fprintf(out, "Rendering %s (%dx%d, %d pixels) with %v to %d passes\n",
		info.DisplayName, params.Width, params.Height, params.PixelCount(), engine.RendererType(), cfg.Passes)

	start := time.Now()
	config := renderer.ProgressiveConfig{
		MaxPasses:  cfg.Passes,
		NumWorkers: cfg.Threads,
		Format:     spectrum.FormatSRGB,
		Gamma:      cfg.Gamma,
	}
	passes, errs := renderer.RenderProgressive(ctx, engine, config)
	for result := range passes {
		printer.Fprintf(out, "Pass %d/%d in %v, %d samples so far\n",
			result.PassNumber, cfg.Passes, result.Stats.PassDuration.Round(time.Millisecond), result.Stats.TotalSamples)
	}
	if err := <-errs; err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, renderer.ErrStopped) {
			return err
		}
		printer.Fprintf(out, "Interrupted after %d passes\n", engine.Pass())
	}
	elapsed := time.Since(start)

	if cfg.Checkpoint != "" {
		if err := engine.SaveFile(cfg.Checkpoint); err != nil {
			return err
		}
		printer.Fprintf(out, "Checkpoint saved as %s\n", cfg.Checkpoint)
	}

	img, err := engine.Image(spectrum.FormatSRGB, cfg.Gamma)
	if errors.Is(err, renderer.ErrNoData) {
		printer.Fprintf(out, "No completed passes, nothing to save\n")
		return nil
	}
	if err != nil {
		return err
	}

	output := cfg.Output
	if output == "" {
		output = defaultOutputPath(cfg.Scene, time.Now())
	}
	if err := imageio.Save(output, img); err != nil {
		return err
	}
	if cfg.PreviewWidth > 0 {
		if err := imageio.Save(previewPath(output, cfg.PreviewWidth), imageio.Scale(img, cfg.PreviewWidth)); err != nil {
			return err
		}
	}

	stats := engine.Stats()
	printer.Fprintf(out, "Rendered %d samples (%d per pixel) in %v (%.0f samples/s), average luminance %.4f\n",
		stats.TotalSamples, stats.SamplesPerPixel(), elapsed.Round(time.Millisecond),
		float64(stats.TotalSamples)/elapsed.Seconds(), stats.AverageLuminance)
	printer.Fprintf(out, "Render saved as %s\n", output)
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// The first interrupt stops the current pass; results so far are still saved
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, newLogger(cfg.Verbose), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
