package integrator

import (
	"math"
)

// misExponent is the power heuristic exponent
const misExponent = 2.0

// misVertex holds the densities of one vertex of a complete path
type misVertex struct {
	pdfLight, pdfEye float64
	specular         bool
}

// misWeight returns the power-heuristic weight of the strategy that uses s light
// vertices and t eye vertices. The densities that depend on the connection itself are
// recomputed; every other density was recorded while walking.
func (bdpt *BDPTIntegrator) misWeight(light, eye *Subpath, s, t int, scratch []misVertex) float64 {
	// Lay the path out from the light end: x_j = y_j for j < s, then z_{t-1} ... z_0
	path := scratch[:0]
	for j := 0; j < s; j++ {
		v := light.At(j)
		path = append(path, misVertex{pdfLight: v.PdfLight, pdfEye: v.PdfEye, specular: v.Specular})
	}
	for j := t - 1; j >= 0; j-- {
		v := eye.At(j)
		path = append(path, misVertex{pdfLight: v.PdfLight, pdfEye: v.PdfEye, specular: v.Specular})
	}
	k := len(path) - 1

	// The path endpoints and the connected vertices are never specular
	path[0].specular = false
	path[k].specular = false
	path[s].specular = false
	if s > 0 {
		path[s-1].specular = false
	}

	z := eye.At(t - 1)
	switch {
	case s == 0:
		// z_{t-1} is the emitter end of the path
		path[s].pdfLight = z.si.Emitter.AreaDensity()
		if t > 2 {
			zPrev := eye.At(t - 2)
			cosTheta := math.Abs(direction(&z.si, &zPrev.si).Dot(z.si.Ng))
			path[s+1].pdfLight = toArea(z.si.Emitter.DirectionDensity(cosTheta), false, &z.si, &zPrev.si)
		}

	default:
		y := light.At(s - 1)
		toEye := direction(&y.si, &z.si)
		toLight := toEye.Negate()

		// Light side generating z_{t-1}
		if s == 1 {
			path[s].pdfLight = toArea(y.si.Emitter.DirectionDensity(toEye.Dot(y.si.Ng)), false, &y.si, &z.si)
		} else {
			yPrev := light.At(s - 2)
			pdf := y.si.BSDF.Density(&y.si, toEye, direction(&y.si, &yPrev.si))
			path[s].pdfLight = toArea(pdf, false, &y.si, &z.si)
		}

		// Light side continuing from z_{t-1} to z_{t-2}; the lens itself is never hit
		if t > 2 {
			zPrev := eye.At(t - 2)
			pdf := z.si.BSDF.Density(&z.si, direction(&z.si, &zPrev.si), toLight)
			path[s+1].pdfLight = toArea(pdf, false, &z.si, &zPrev.si)
		}

		// Eye side generating y_{s-1}
		if t == 1 {
			camera := bdpt.scene.Camera
			path[s-1].pdfEye = toArea(camera.Importance(toLight), false, &z.si, &y.si)
		} else {
			zPrev := eye.At(t - 2)
			pdf := z.si.BSDF.Density(&z.si, toLight, direction(&z.si, &zPrev.si))
			path[s-1].pdfEye = toArea(pdf, false, &z.si, &y.si)
		}

		// Eye side continuing from y_{s-1} to y_{s-2}
		if s > 1 {
			yPrev := light.At(s - 2)
			pdf := y.si.BSDF.Density(&y.si, direction(&y.si, &yPrev.si), toEye)
			path[s-2].pdfEye = toArea(pdf, false, &y.si, &yPrev.si)
		}
	}

	return strategyWeight(path, s, misExponent)
}

// strategyWeight returns 1/Σ(p_i/p_s)^β over the strategies that can produce the path,
// where strategy i samples x_0..x_{i-1} from the light and the rest from the eye.
// Strategies with t = 0 and those whose connection touches a specular vertex are skipped.
func strategyWeight(path []misVertex, s int, beta float64) float64 {
	k := len(path) - 1
	sum := 1.0

	// Toward more light vertices
	r := 1.0
	for j := s; j < k; j++ {
		r *= densityRatio(path[j].pdfLight, path[j].pdfEye)
		if !path[j].specular && !path[j+1].specular {
			sum += math.Pow(r, beta)
		}
	}

	// Toward fewer light vertices
	r = 1.0
	for j := s - 1; j >= 0; j-- {
		r *= densityRatio(path[j].pdfEye, path[j].pdfLight)
		if j == 0 || (!path[j-1].specular && !path[j].specular) {
			sum += math.Pow(r, beta)
		}
	}

	weight := 1.0 / sum
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0.0
	}
	return weight
}

// densityRatio divides two densities, treating a zero denominator as an unreachable strategy
func densityRatio(num, den float64) float64 {
	if den == 0 {
		return 0.0
	}
	return num / den
}
