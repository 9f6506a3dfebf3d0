package shading

import (
	"github.com/chewxy/math32"

	"github.com/T-Dawg138/rg3d/core"
)

const invGamma = 1.0 / 2.2

// ToneMap compresses an HDR color to display range: exposure scale,
// Reinhard operator, then gamma encoding. Matches the compositor shader.
func ToneMap(c core.Color, exposure float32) core.Color {
	return core.Color{
		R: toneChannel(c.R, exposure),
		G: toneChannel(c.G, exposure),
		B: toneChannel(c.B, exposure),
		A: 1,
	}
}

func toneChannel(v, exposure float32) float32 {
	v *= exposure
	if v < 0 {
		v = 0
	}
	v = v / (1 + v)
	return math32.Pow(v, invGamma)
}

// BloomExtract keeps only the energy above threshold, the input of the
// bloom blur chain.
func BloomExtract(c core.Color, threshold float32) core.Color {
	lum := 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
	if lum <= threshold {
		return core.Color{A: 1}
	}
	scale := (lum - threshold) / lum
	return core.Color{R: c.R * scale, G: c.G * scale, B: c.B * scale, A: 1}
}
