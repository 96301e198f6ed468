package glyph

import (
	"fmt"

	"picquant/raster"
)

// Screen describes a display window in pixels and the font drawn on it.
type Screen struct {
	Width     int
	Height    int
	Scrollbar int
	// FontHeight is the glyph cell height; cells are half as wide.
	FontHeight int
}

var DefaultScreen = Screen{
	Width:      1920,
	Height:     1080,
	Scrollbar:  24,
	FontHeight: 16,
}

// Grid returns the number of characters per line and the number of lines
// that fit on s.
func (s Screen) Grid() (cols, rows int, err error) {
	fontWidth := s.FontHeight / 2
	if fontWidth <= 0 {
		return 0, 0, fmt.Errorf("%w: font height %d too small", raster.ErrInvalidArgument, s.FontHeight)
	}

	cols = (s.Width - s.Scrollbar) / fontWidth
	rows = s.Height / s.FontHeight
	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("%w: screen %dx%d fits no characters", raster.ErrInvalidArgument, s.Width, s.Height)
	}
	return cols, rows, nil
}
