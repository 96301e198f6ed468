// Package gray projects linear RGB pixels onto relative luminance.
package gray

import (
	"math"

	"picquant/raster"
	"picquant/rgb"
)

// Rec. 709 relative luminance weights
const (
	WeightR = 0.2126
	WeightG = 0.7152
	WeightB = 0.0722
)

// Luminance returns the relative luminance of a linear RGB pixel as a byte.
// The weights are applied to whatever space p is in; callers feed it linear
// values.
func Luminance(p rgb.Pixel) uint8 {
	y := WeightR*(float64(p.R())/255) +
		WeightG*(float64(p.G())/255) +
		WeightB*(float64(p.B())/255)

	return uint8(min(math.Round(y*255), 255))
}

// Convert returns the luminance raster of r.
func Convert(r raster.Raster) (raster.Gray, error) {
	if err := r.Validate(); err != nil {
		return raster.Gray{}, err
	}
	return r.MapGray(Luminance), nil
}
