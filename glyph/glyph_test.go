package glyph

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picquant/raster"
)

func ramp(w, h int) raster.Gray {
	pix := make([]uint8, w*h)
	for y := range h {
		for x := range w {
			pix[y*w+x] = uint8((x + y) * 255 / max(w+h-2, 1))
		}
	}
	return raster.Gray{Width: w, Height: h, Pix: pix}
}

func TestRenderGridShape(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
	}{
		{"even", 100, 100, 10, 5},
		{"uneven", 97, 61, 13, 7},
		{"more columns than pixels", 3, 2, 40, 20},
		{"single pixel", 1, 1, 7, 3},
		{"default screen", 641, 479, 237, 67},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := Render(ramp(tc.w, tc.h), DefaultChars, tc.cols, tc.rows)
			require.NoError(t, err)
			require.Len(t, grid, tc.rows)
			for _, line := range grid {
				assert.Equal(t, tc.cols, utf8.RuneCountInString(line))
			}
		})
	}
}

func TestRenderGlyphBoundaries(t *testing.T) {
	// 8 glyphs, 32 levels each
	values := []uint8{0, 31, 32, 63, 64, 127, 128, 224, 255}
	g := raster.Gray{Width: len(values), Height: 1, Pix: values}

	grid, err := Render(g, DefaultChars, len(values), 1)
	require.NoError(t, err)
	assert.Equal(t, Grid{"  ..,:=@@"}, grid)
}

func TestRenderClampsUnevenPalette(t *testing.T) {
	// 256/3 = 85, so 255/85 = 3 which is clamped to the last glyph
	g := raster.Gray{Width: 4, Height: 1, Pix: []uint8{0, 85, 170, 255}}
	grid, err := Render(g, "abc", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, Grid{"abcc"}, grid)
}

func TestRenderLargePalette(t *testing.T) {
	chars := make([]rune, 300)
	for i := range chars {
		chars[i] = rune('a' + i%26)
	}
	g := raster.Gray{Width: 2, Height: 1, Pix: []uint8{0, 255}}
	grid, err := Render(g, string(chars), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, string([]rune{chars[0], chars[255]}), grid[0])
}

func TestRenderMultibyteGlyphs(t *testing.T) {
	g := raster.Gray{Width: 4, Height: 1, Pix: []uint8{0, 64, 128, 255}}
	grid, err := Render(g, "░▒▓█", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "░▒▓█", grid[0])
}

func TestRenderSampling(t *testing.T) {
	// 4x8 raster, 2x2 grid: sampleWidth 2, sampleHeight (8/2)/2 = 2
	pix := make([]uint8, 4*8)
	pix[0*4+0] = 255
	pix[0*4+2] = 0
	pix[2*4+0] = 0
	pix[2*4+2] = 255
	g := raster.Gray{Width: 4, Height: 8, Pix: pix}

	grid, err := Render(g, " @", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, Grid{"@ ", " @"}, grid)
}

func TestRenderHalvedRowStep(t *testing.T) {
	// the row step is halved, so the bottom rows are never sampled
	g := raster.Gray{Width: 1, Height: 2, Pix: []uint8{0, 255}}
	grid, err := Render(g, " @", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Grid{" "}, grid)

	g = raster.Gray{Width: 1, Height: 9, Pix: []uint8{0, 0, 0, 0, 0, 0, 0, 0, 255}}
	grid, err = Render(g, " @", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, Grid{" ", " "}, grid)
}

func TestRenderInvalidArguments(t *testing.T) {
	g := ramp(4, 4)
	tests := []struct {
		name       string
		g          raster.Gray
		chars      string
		cols, rows int
	}{
		{"no glyphs", g, "", 2, 2},
		{"zero columns", g, DefaultChars, 0, 2},
		{"zero rows", g, DefaultChars, 2, 0},
		{"empty raster", raster.Gray{}, DefaultChars, 2, 2},
		{"short raster", raster.Gray{Width: 2, Height: 2, Pix: []uint8{1}}, DefaultChars, 2, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := Render(tc.g, tc.chars, tc.cols, tc.rows)
			assert.ErrorIs(t, err, raster.ErrInvalidArgument)
			assert.Nil(t, grid)
		})
	}
}

func TestScreenGrid(t *testing.T) {
	cols, rows, err := DefaultScreen.Grid()
	require.NoError(t, err)
	assert.Equal(t, 237, cols)
	assert.Equal(t, 67, rows)

	_, _, err = Screen{Width: 100, Height: 100, FontHeight: 1}.Grid()
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)

	_, _, err = Screen{Width: 10, Height: 10, Scrollbar: 20, FontHeight: 8}.Grid()
	assert.ErrorIs(t, err, raster.ErrInvalidArgument)
}

func TestGridString(t *testing.T) {
	assert.Equal(t, "ab\ncd", Grid{"ab", "cd"}.String())
}
