package raster

import (
	"fmt"
	"image"
	"image/color"

	"picquant/rgb"
)

// FromImage reads every pixel of img into a new raster. Alpha is dropped.
func FromImage(img image.Image) (Raster, error) {
	b := img.Bounds()
	if b.Empty() {
		return Raster{}, fmt.Errorf("%w: empty image bounds %v", ErrInvalidArgument, b)
	}

	w, h := b.Dx(), b.Dy()
	pix := make([]rgb.Pixel, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, rgb.Model.Convert(img.At(x, y)).(rgb.Pixel))
		}
	}

	return Raster{Width: w, Height: h, Pix: pix}, nil
}

func (r Raster) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(r.Bounds())
	for i, p := range r.Pix {
		o := i * 4
		dst.Pix[o+0] = p.R()
		dst.Pix[o+1] = p.G()
		dst.Pix[o+2] = p.B()
		dst.Pix[o+3] = 0xFF
	}
	return dst
}

// ToPaletted encodes r against pal. Every pixel of r must already be one of
// the palette colors for the result to be lossless.
func (r Raster) ToPaletted(pal color.Palette) *image.Paletted {
	dst := image.NewPaletted(r.Bounds(), pal)
	for i, p := range r.Pix {
		dst.Pix[i] = uint8(pal.Index(p))
	}
	return dst
}

func (g Gray) ToGray() *image.Gray {
	dst := image.NewGray(g.Bounds())
	copy(dst.Pix, g.Pix)
	return dst
}
