package renderer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/df07/go-bdpt/pkg/core"
)

// CompressedExtension marks checkpoint files wrapped in a zlib stream
const CompressedExtension = ".zz"

// maxCheckpointPixels bounds the image size a checkpoint may claim
const maxCheckpointPixels = 1 << 28

// checkpointHeader is the fixed-size prefix of a checkpoint, written little-endian
type checkpointHeader struct {
	Pass              uint64
	Width             int64
	Height            int64
	PixelSubdivisions int64
	LensSubdivisions  int64
	MinDepth          int64
	FocusDistance     float64
	LensRadius        float64
	Renderer          int64
}

// Save writes the committed state of the rendering: pass counter, parameters,
// renderer type and the unnormalized accumulated radiance in row-major order
func (e *Engine) Save(w io.Writer) error {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.read == nil {
		return ErrUninitialized
	}

	p := e.params
	header := checkpointHeader{
		Pass:              uint64(e.pass),
		Width:             int64(p.Width),
		Height:            int64(p.Height),
		PixelSubdivisions: int64(p.PixelSubdivisions),
		LensSubdivisions:  int64(p.LensSubdivisions),
		MinDepth:          int64(p.MinDepth),
		FocusDistance:     p.FocusDistance,
		LensRadius:        p.LensRadius,
		Renderer:          int64(e.rendererType),
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write checkpoint header: %w", err)
	}
	pixels := e.read.Pixels()
	data := make([]float64, 0, 3*len(pixels))
	for _, c := range pixels {
		data = append(data, c.X, c.Y, c.Z)
	}
	if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("write checkpoint pixels: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Load replaces the current rendering with a checkpoint. A scene must be bound;
// a fresh integrator of the stored type is initialized against it.
func (e *Engine) Load(r io.Reader) error {
	e.passMu.Lock()
	defer e.passMu.Unlock()
	if e.scene == nil {
		return ErrInvalidScene
	}

	br := bufio.NewReader(r)
	var header checkpointHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("read checkpoint header: %w", unexpectedEOF(err))
	}

	rendererType := RendererType(header.Renderer)
	if rendererType != RendererBDPT && rendererType != RendererPathTracing {
		return fmt.Errorf("checkpoint renderer type %d: %w", header.Renderer, ErrInvalidFormat)
	}
	if header.Width <= 0 || header.Height <= 0 || header.Width > maxCheckpointPixels ||
		header.Height > maxCheckpointPixels || header.Width*header.Height > maxCheckpointPixels {
		return fmt.Errorf("checkpoint resolution %dx%d: %w", header.Width, header.Height, ErrInvalidFormat)
	}
	if header.Pass > math.MaxInt32 {
		return fmt.Errorf("checkpoint pass count %d: %w", header.Pass, ErrInvalidFormat)
	}
	params := RenderParameters{
		Width:             int(header.Width),
		Height:            int(header.Height),
		PixelSubdivisions: int(header.PixelSubdivisions),
		LensSubdivisions:  int(header.LensSubdivisions),
		MinDepth:          int(header.MinDepth),
		FocusDistance:     header.FocusDistance,
		LensRadius:        header.LensRadius,
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("checkpoint parameters: %w", err)
	}

	data := make([]float64, 3*params.PixelCount())
	if err := binary.Read(br, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("read checkpoint pixels (%dx%d): %w", params.Width, params.Height, unexpectedEOF(err))
	}
	if _, err := br.ReadByte(); err == nil {
		return fmt.Errorf("checkpoint holds more data than %dx%d pixels: %w", params.Width, params.Height, ErrInvalidFormat)
	}

	if err := e.startRendering(params, rendererType); err != nil {
		return fmt.Errorf("restore checkpoint: %w", err)
	}

	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	pixels := e.read.Pixels()
	for i := range pixels {
		pixels[i] = core.NewVec3(data[3*i], data[3*i+1], data[3*i+2])
	}
	e.pass = int(header.Pass)
	return nil
}

// SaveFile writes a checkpoint to path, compressed when the name ends in .zz
func (e *Engine) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, CompressedExtension) {
		if err := e.Save(f); err != nil {
			return err
		}
		return f.Close()
	}

	zw := zlib.NewWriter(f)
	if err := e.Save(zw); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress checkpoint: %w", err)
	}
	return f.Close()
}

// LoadFile reads a checkpoint written by SaveFile
func (e *Engine) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, CompressedExtension) {
		return e.Load(f)
	}

	zr, err := zlib.NewReader(f)
	if err != nil {
		return fmt.Errorf("decompress checkpoint: %w", err)
	}
	defer zr.Close()
	return e.Load(zr)
}

// unexpectedEOF reports a clean EOF inside fixed-size data as truncation
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
