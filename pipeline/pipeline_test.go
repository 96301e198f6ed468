package pipeline

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picquant/glyph"
	"picquant/palette"
	"picquant/raster"
	"picquant/rgb"
)

var (
	black = rgb.Pack(rgb.RGB{})
	white = rgb.Pack(rgb.RGB{R: 255, G: 255, B: 255})
)

func checkerboard(t *testing.T) raster.Raster {
	t.Helper()
	r, err := raster.New(2, 2, []rgb.Pixel{black, white, black, white})
	require.NoError(t, err)
	return r
}

func photo(t *testing.T, w, h int) raster.Raster {
	t.Helper()
	pix := make([]rgb.Pixel, w*h)
	for y := range h {
		for x := range w {
			pix[y*w+x] = rgb.Pack(rgb.RGB{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x * y) % 256),
			})
		}
	}
	r, err := raster.New(w, h, pix)
	require.NoError(t, err)
	return r
}

func TestQuantizeBimodal(t *testing.T) {
	r := checkerboard(t)

	for _, s := range []palette.Strategy{palette.SinglePass, palette.Recursive} {
		out, pal, err := Quantize(r, 2, WithStrategy(s))
		require.NoError(t, err)
		require.Len(t, pal, 2)
		assert.ElementsMatch(t, palette.Palette{black, white}, pal, "strategy %v", s)
		assert.Equal(t, r, out, "strategy %v", s)
	}
}

func TestQuantizeDoesNotModifyInput(t *testing.T) {
	r := photo(t, 16, 9)
	orig := append([]rgb.Pixel(nil), r.Pix...)

	out, pal, err := Quantize(r, 8)
	require.NoError(t, err)
	assert.Equal(t, orig, r.Pix)
	assert.Equal(t, r.Width, out.Width)
	assert.Equal(t, r.Height, out.Height)
	assert.Len(t, pal, 8)
	for _, p := range out.Pix {
		assert.Contains(t, pal, p)
	}
}

func TestQuantizeFixedPalette(t *testing.T) {
	// dark entries would not survive expand then compress
	fixed := palette.Palette{
		rgb.Pack(rgb.RGB{R: 5, G: 6, B: 7}),
		rgb.Pack(rgb.RGB{R: 250, G: 10, B: 10}),
		white,
	}
	r := photo(t, 10, 10)

	out, pal, err := Quantize(r, 0, WithPalette(fixed))
	require.NoError(t, err)
	assert.Equal(t, fixed, pal)
	for _, p := range out.Pix {
		assert.Contains(t, fixed, p)
	}
	assert.Equal(t, fixed[0], out.Pix[0])

	_, _, err = Quantize(r, 4, WithPalette(palette.Palette{}))
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestQuantizeInvalidArguments(t *testing.T) {
	r := checkerboard(t)
	for _, n := range []int{0, 3, 5, 6, 7} {
		_, _, err := Quantize(r, n)
		assert.ErrorIs(t, err, raster.ErrInvalidArgument, "%d colors", n)
	}

	_, _, err := Quantize(raster.Raster{Width: 2, Height: 2, Pix: []rgb.Pixel{black}}, 2)
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestGrayscale(t *testing.T) {
	r, err := raster.New(4, 1, []rgb.Pixel{
		rgb.Pack(rgb.RGB{R: 255}),
		rgb.Pack(rgb.RGB{G: 255}),
		rgb.Pack(rgb.RGB{B: 255}),
		white,
	})
	require.NoError(t, err)

	g, err := Grayscale(r)
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		rgb.CompressChannel(54),
		rgb.CompressChannel(182),
		rgb.CompressChannel(18),
		255,
	}, g.Pix)

	_, err = Grayscale(raster.Raster{})
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestTextBimodal(t *testing.T) {
	grid, err := Text(checkerboard(t), 2, " @", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, glyph.Grid{" @"}, grid)
}

func TestTextShape(t *testing.T) {
	r := photo(t, 123, 77)
	cols, rows, err := glyph.DefaultScreen.Grid()
	require.NoError(t, err)

	grid, err := Text(r, 8, glyph.DefaultChars, cols, rows)
	require.NoError(t, err)
	require.Len(t, grid, rows)
	for _, line := range grid {
		assert.Equal(t, cols, utf8.RuneCountInString(line))
	}
}

func TestTextFailsFast(t *testing.T) {
	r := photo(t, 8, 8)
	tests := []struct {
		name       string
		r          raster.Raster
		colors     int
		chars      string
		cols, rows int
	}{
		{"colors", r, 6, glyph.DefaultChars, 10, 10},
		{"chars", r, 8, "", 10, 10},
		{"cols", r, 8, glyph.DefaultChars, 0, 10},
		{"rows", r, 8, glyph.DefaultChars, 10, 0},
		{"raster", raster.Raster{Width: 3, Height: 3}, 8, glyph.DefaultChars, 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := Text(tc.r, tc.colors, tc.chars, tc.cols, tc.rows)
			assert.ErrorIs(t, err, raster.ErrInvalidArgument)
			assert.Nil(t, grid)
		})
	}
}
