// based on:
// https://en.wikipedia.org/wiki/SRGB#Transfer_function_(%22gamma%22)

package rgb

import "math"

const pow float64 = 1.0 / 2.4

// Expand converts an sRGB pixel to linear RGB via gamma expansion. Each linear
// channel is stored as a truncated byte, so dark tones lose precision.
func Expand(p Pixel) Pixel {
	return mapChannels(p, toLinear)
}

// Compress converts a linear RGB pixel back to sRGB via gamma compression.
func Compress(p Pixel) Pixel {
	return mapChannels(p, fromLinear)
}

// ExpandChannel applies gamma expansion to a single channel value.
func ExpandChannel(c uint8) uint8 {
	return rescale(toLinear(normalize(c)))
}

// CompressChannel applies gamma compression to a single channel value, e.g. a
// luminance byte.
func CompressChannel(c uint8) uint8 {
	return rescale(fromLinear(normalize(c)))
}

func mapChannels(p Pixel, f func(float32) float32) Pixel {
	return Pack(RGB{
		R: rescale(f(normalize(p.R()))),
		G: rescale(f(normalize(p.G()))),
		B: rescale(f(normalize(p.B()))),
	})
}

// single precision keeps 1.055 - 0.055 at exactly 1, so 255 survives a
// compression unchanged
func normalize(c uint8) float32 {
	return float32(c) / 255
}

func rescale(x float32) uint8 {
	v := x * 255
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func toLinear(x float32) float32 {
	if x <= 0.04045 {
		return float32(float64(x) / 12.92)
	}
	return float32(math.Pow((float64(x)+0.055)/1.055, 2.4))
}

func fromLinear(x float32) float32 {
	if x <= 0.0031308 {
		return float32(float64(x) * 12.92)
	}
	return float32(math.Pow(float64(x), pow)*1.055 - 0.055)
}
