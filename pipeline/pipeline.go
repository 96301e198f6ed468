// Package pipeline chains the codec, median cut, quantizer, grayscale and
// glyph stages into the raster and text outputs.
package pipeline

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"picquant/glyph"
	"picquant/gray"
	"picquant/palette"
	"picquant/raster"
	"picquant/rgb"
)

type config struct {
	strategy palette.Strategy
	fixed    palette.Palette
	logger   *slog.Logger
}

type Option func(*config)

func WithStrategy(s palette.Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithPalette skips median cut and quantizes against pal, given in sRGB.
func WithPalette(pal palette.Palette) Option {
	return func(c *config) { c.fixed = pal }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	c := config{
		strategy: palette.SinglePass,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c config) check(numColors int) error {
	if c.fixed != nil {
		if len(c.fixed) == 0 {
			return fmt.Errorf("%w: empty palette", raster.ErrInvalidArgument)
		}
		return nil
	}
	if numColors <= 0 || numColors&(numColors-1) != 0 {
		return fmt.Errorf("%w: number of colors must be a power of 2, got %d", raster.ErrInvalidArgument, numColors)
	}
	return nil
}

// reduce expands r to linear RGB and quantizes it. Both returned values are
// linear.
func (c config) reduce(r raster.Raster, numColors int) (raster.Raster, palette.Palette, error) {
	linear := r.Map(rgb.Expand)

	pal := c.fixed.Map(rgb.Expand)
	if c.fixed == nil {
		var err error
		if pal, err = palette.BuildWith(c.strategy, linear.Pix, numColors); err != nil {
			return raster.Raster{}, nil, err
		}
		c.logger.Debug("built palette", "colors", len(pal), "strategy", c.strategy)
	}

	quantized, err := pal.Quantize(linear)
	if err != nil {
		return raster.Raster{}, nil, err
	}
	return quantized, pal, nil
}

// Quantize reduces r to at most numColors colors and returns the reduced
// sRGB raster with the sRGB palette it was mapped onto.
func Quantize(r raster.Raster, numColors int, opts ...Option) (raster.Raster, palette.Palette, error) {
	c := newConfig(opts)
	if err := r.Validate(); err != nil {
		return raster.Raster{}, nil, err
	}
	if err := c.check(numColors); err != nil {
		return raster.Raster{}, nil, err
	}

	quantized, pal, err := c.reduce(r, numColors)
	if err != nil {
		return raster.Raster{}, nil, err
	}

	if c.fixed != nil {
		// hand back the caller's exact colors, compressing the expanded
		// entries would be lossy in the dark tones
		return quantized.Map(func(p rgb.Pixel) rgb.Pixel {
			return c.fixed[pal.Index(p)]
		}), c.fixed, nil
	}
	return quantized.Map(rgb.Compress), pal.Map(rgb.Compress), nil
}

// Grayscale returns the luminance of r, computed in linear RGB and gamma
// compressed back for display.
func Grayscale(r raster.Raster) (raster.Gray, error) {
	if err := r.Validate(); err != nil {
		return raster.Gray{}, err
	}

	return r.MapGray(func(p rgb.Pixel) uint8 {
		return gray.Luminance(rgb.Expand(p))
	}).Map(rgb.CompressChannel), nil
}

// Text renders r as a cols x rows grid of glyphs after reducing it to
// numColors colors. All arguments are checked before any stage runs.
func Text(r raster.Raster, numColors int, chars string, cols, rows int, opts ...Option) (glyph.Grid, error) {
	c := newConfig(opts)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := c.check(numColors); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(chars) == 0 {
		return nil, fmt.Errorf("%w: empty glyph palette", raster.ErrInvalidArgument)
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: grid dimensions must be positive, got %dx%d", raster.ErrInvalidArgument, cols, rows)
	}

	quantized, _, err := c.reduce(r, numColors)
	if err != nil {
		return nil, err
	}

	g, err := gray.Convert(quantized)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("rendering", "cols", cols, "rows", rows, "glyphs", utf8.RuneCountInString(chars))
	return glyph.Render(g, chars, cols, rows)
}
