package ascii

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// terminalGrid sizes the grid to the terminal attached to stdout, keeping the
// last line free for the prompt.
func terminalGrid() (cols, rows int, err error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, fmt.Errorf("stdout is not a terminal")
	}

	cols, rows, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("could not read terminal size: %w", err)
	}
	if rows > 1 {
		rows--
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("terminal reports no space: %dx%d", cols, rows)
	}
	return cols, rows, nil
}
