package glyph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"picquant/raster"
)

// DefaultChars orders glyphs from darkest to brightest.
const DefaultChars = " .,:=#$@"

// Grid is rendered text art, one string per line.
type Grid []string

func (g Grid) String() string {
	return strings.Join(g, "\n")
}

// Render point-samples g onto a cols x rows character grid and maps every
// sample to a glyph of chars, darkest first. Rows are sampled at half the
// vertical step to make up for character cells being about twice as tall as
// they are wide.
func Render(g raster.Gray, chars string, cols, rows int) (Grid, error) {
	glyphs := []rune(chars)
	if err := checkArgs(g, len(glyphs), cols, rows); err != nil {
		return nil, err
	}

	sampleWidth := g.Width / cols
	sampleHeight := (g.Height / rows) / 2
	step := max(256/len(glyphs), 1)

	grid := make(Grid, rows)
	var line strings.Builder
	for y := range rows {
		line.Reset()
		line.Grow(cols * utf8.UTFMax)

		sy := min(y*sampleHeight, g.Height-1)
		row := g.Pix[sy*g.Width : (sy+1)*g.Width]
		for x := range cols {
			idx := min(int(row[x*sampleWidth])/step, len(glyphs)-1)
			line.WriteRune(glyphs[idx])
		}
		grid[y] = line.String()
	}

	return grid, nil
}

func checkArgs(g raster.Gray, numGlyphs, cols, rows int) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if numGlyphs == 0 {
		return fmt.Errorf("%w: empty glyph palette", raster.ErrInvalidArgument)
	}
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive, got %dx%d", raster.ErrInvalidArgument, cols, rows)
	}
	return nil
}
