package palette

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"picquant/raster"
	"picquant/rgb"
)

// Palette is an ordered set of colors used for nearest color lookup.
type Palette []rgb.Pixel

type PaletteConverter interface {
	From(color.Palette) int64
	To(color.Model) (int64, color.Palette)
}

type PaletteRIFFReaderWriter interface {
	ReadRIFF(io.Reader) (int64, error)
	WriteRIFF(io.Writer) (int64, error)
}

var (
	_ PaletteRIFFReaderWriter = &Palette{}
	_ PaletteConverter        = &Palette{}
)

// Index returns the position of the palette color closest to p. Ties go to
// the first closest color. It returns -1 for an empty palette.
func (p Palette) Index(px rgb.Pixel) int {
	ret, bestSum := -1, math.MaxInt
	c := px.RGB()
	for i, v := range p {
		sum := c.DistSq(v.RGB())
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

func (p Palette) Convert(px rgb.Pixel) rgb.Pixel {
	if len(p) == 0 {
		return px
	}
	return p[p.Index(px)]
}

// Quantize maps every pixel of r to its nearest palette color. The result is
// a new raster of the same size.
func (p Palette) Quantize(r raster.Raster) (raster.Raster, error) {
	if len(p) == 0 {
		return raster.Raster{}, fmt.Errorf("%w: empty palette", raster.ErrInvalidArgument)
	}
	if err := r.Validate(); err != nil {
		return raster.Raster{}, err
	}

	return r.Map(p.Convert), nil
}

func (p Palette) Map(f func(rgb.Pixel) rgb.Pixel) Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		out[i] = f(c)
	}
	return out
}

func (p *Palette) From(pal color.Palette) int64 {
	for _, col := range pal {
		*p = append(*p, rgb.Model.Convert(col).(rgb.Pixel))
	}

	return int64(len(pal))
}

func (p Palette) To(m color.Model) (int64, color.Palette) {
	pal := make(color.Palette, len(p))
	for i, c := range p {
		pal[i] = m.Convert(c)
	}

	return int64(len(pal)), pal
}

func (p *Palette) ReadRIFF(r io.Reader) (int64, error) {
	pals, err := ReadFrom(r)
	if err != nil {
		return 0, fmt.Errorf("could not load palettes: %w", err)
	}

	var n int64
	for _, pal := range pals {
		n += p.From(pal)
	}

	return n, nil
}

func (p Palette) WriteRIFF(w io.Writer) (int64, error) {
	_, pal := p.To(color.RGBAModel)

	if n, err := WriteTo(w, []color.Palette{pal}); err != nil {
		return n, fmt.Errorf("could not save palette: %w", err)
	} else {
		return n, nil
	}
}
