package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"picquant/rgb"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Raster is a row-major grid of pixels. The pixel at (x, y) is
// Pix[y*Width+x].
type Raster struct {
	Width  int
	Height int
	Pix    []rgb.Pixel
}

// Gray is a row-major grid of 8-bit luminance values.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

var (
	_ image.Image = Raster{}
	_ image.Image = Gray{}
)

func checkDims(width, height, n int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: raster dimensions must be positive, got %dx%d", ErrInvalidArgument, width, height)
	}
	if width*height != n {
		return fmt.Errorf("%w: %d pixels do not fill a %dx%d raster", ErrInvalidArgument, n, width, height)
	}
	return nil
}

// New wraps pix as a width x height raster. The slice is owned by the
// returned raster.
func New(width, height int, pix []rgb.Pixel) (Raster, error) {
	if err := checkDims(width, height, len(pix)); err != nil {
		return Raster{}, err
	}
	return Raster{Width: width, Height: height, Pix: pix}, nil
}

func NewGray(width, height int, pix []uint8) (Gray, error) {
	if err := checkDims(width, height, len(pix)); err != nil {
		return Gray{}, err
	}
	return Gray{Width: width, Height: height, Pix: pix}, nil
}

func (r Raster) Validate() error {
	return checkDims(r.Width, r.Height, len(r.Pix))
}

func (g Gray) Validate() error {
	return checkDims(g.Width, g.Height, len(g.Pix))
}

// Map returns a new raster holding f applied to every pixel of r.
func (r Raster) Map(f func(rgb.Pixel) rgb.Pixel) Raster {
	out := make([]rgb.Pixel, len(r.Pix))
	for i, p := range r.Pix {
		out[i] = f(p)
	}
	return Raster{Width: r.Width, Height: r.Height, Pix: out}
}

// MapGray returns a new gray raster holding f applied to every pixel of r.
func (r Raster) MapGray(f func(rgb.Pixel) uint8) Gray {
	out := make([]uint8, len(r.Pix))
	for i, p := range r.Pix {
		out[i] = f(p)
	}
	return Gray{Width: r.Width, Height: r.Height, Pix: out}
}

func (g Gray) Map(f func(uint8) uint8) Gray {
	out := make([]uint8, len(g.Pix))
	for i, v := range g.Pix {
		out[i] = f(v)
	}
	return Gray{Width: g.Width, Height: g.Height, Pix: out}
}

func (r Raster) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(r.Bounds())) {
		return rgb.Pixel(0)
	}
	return r.Pix[y*r.Width+x]
}

func (r Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

func (r Raster) ColorModel() color.Model {
	return rgb.Model
}

func (g Gray) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(g.Bounds())) {
		return color.Gray{}
	}
	return color.Gray{Y: g.Pix[y*g.Width+x]}
}

func (g Gray) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

func (g Gray) ColorModel() color.Model {
	return color.GrayModel
}
