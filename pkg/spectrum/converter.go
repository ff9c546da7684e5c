// Package spectrum converts accumulated radiance into display colors.
//
// The three radiance channels are treated as equal-width wavelength bins
// covering the visible range; each bin is integrated against analytic fits of
// the CIE 1931 color matching functions to obtain XYZ, which is then mapped to
// a display color space.
package spectrum

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Format selects the display color space
type Format int

const (
	FormatSRGB Format = iota // sRGB primaries and transfer curve
)

// DefaultGamma is the exponent of the standard sRGB transfer curve
const DefaultGamma = 2.4

// String returns the command-line name of the format
func (f Format) String() string {
	switch f {
	case FormatSRGB:
		return "srgb"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a command-line name to a format
func ParseFormat(name string) (Format, error) {
	switch name {
	case "srgb", "sRGB":
		return FormatSRGB, nil
	default:
		return 0, fmt.Errorf("unknown color format %q", name)
	}
}

// Wavelength bins in nanometers, one per radiance channel
const (
	binWidth = 123
	redStart = 626
	grnStart = 503
	bluStart = 380
)

// lobe evaluates a piecewise Gaussian with separate widths on each side of its peak
func lobe(wavelength, peak, invLeft, invRight float64) float64 {
	inv := invRight
	if wavelength < peak {
		inv = invLeft
	}
	t := (wavelength - peak) * inv
	return math.Exp(-0.5 * t * t)
}

// Multi-lobe fits of the CIE 1931 2° observer
func xFit(w float64) float64 {
	return 0.362*lobe(w, 442.0, 0.0624, 0.0374) + 1.056*lobe(w, 599.8, 0.0264, 0.0323) - 0.065*lobe(w, 501.1, 0.0490, 0.0382)
}

func yFit(w float64) float64 {
	return 0.821*lobe(w, 568.8, 0.0213, 0.0247) + 0.286*lobe(w, 530.9, 0.0613, 0.0322)
}

func zFit(w float64) float64 {
	return 1.217*lobe(w, 437.0, 0.0845, 0.0278) + 0.681*lobe(w, 459.0, 0.0385, 0.0725)
}

// binSums integrates a matching function over each bin at 1 nm steps
func binSums(fit func(float64) float64) core.Vec3 {
	var sum core.Vec3
	for l := 0; l < binWidth; l++ {
		sum.X += fit(float64(redStart + l))
		sum.Y += fit(float64(grnStart + l))
		sum.Z += fit(float64(bluStart + l))
	}
	return sum.Multiply(1.0 / binWidth)
}

// Bin averages of each matching function, indexed by radiance channel
var (
	binX = binSums(xFit)
	binY = binSums(yFit)
	binZ = binSums(zFit)
)

// RadianceToXYZ returns the CIE XYZ tristimulus values of a radiance triple
func RadianceToXYZ(radiance core.Vec3) core.Vec3 {
	return core.NewVec3(radiance.Dot(binX), radiance.Dot(binY), radiance.Dot(binZ))
}

// RadianceToRGB converts radiance to a display color with components in [0, 1].
// Non-finite input yields black.
func RadianceToRGB(radiance core.Vec3, format Format, gamma float64) core.Vec3 {
	if !radiance.IsFinite() {
		return core.Vec3{}
	}
	switch format {
	case FormatSRGB:
		return xyzToSRGB(RadianceToXYZ(radiance), gamma)
	default:
		return core.Vec3{}
	}
}

// xyzToSRGB applies the sRGB primaries and the companding curve with the given gamma
func xyzToSRGB(xyz core.Vec3, gamma float64) core.Vec3 {
	linear := core.NewVec3(
		3.2404542*xyz.X-1.5371385*xyz.Y-0.4985314*xyz.Z,
		-0.9692660*xyz.X+1.8760108*xyz.Y+0.0415560*xyz.Z,
		0.0556434*xyz.X-0.2040259*xyz.Y+1.0572252*xyz.Z,
	).Clamp(0, 1)

	return core.NewVec3(
		compand(linear.X, gamma),
		compand(linear.Y, gamma),
		compand(linear.Z, gamma),
	).Clamp(0, 1)
}

// compand applies the sRGB transfer curve to one linear component
func compand(c, gamma float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/gamma) - 0.055
}

// ToImage packs row-major display colors in [0, 1] into an 8-bit image
func ToImage(rgb []core.Vec3, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if i >= len(rgb) {
				return img
			}
			c := rgb[i].Clamp(0, 1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}
