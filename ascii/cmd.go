package ascii

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"picquant/glyph"
	"picquant/imgfile"
	"picquant/palette"
	"picquant/parallel"
	"picquant/pipeline"
	"picquant/raster"

	"github.com/alecthomas/kong"
)

type ScreenParams struct {
	ScreenWidth  int `help:"Display width in pixels" default:"1920" group:"screen"`
	ScreenHeight int `help:"Display height in pixels" default:"1080" group:"screen"`
	Scrollbar    int `help:"Scrollbar width in pixels" default:"24" group:"screen"`
	FontHeight   int `help:"Font height in pixels, characters are half as wide" default:"16" group:"screen"`
}

type CLICmd struct {
	Scan      string `help:"Source folder to scan" default:"."`
	Dest      string `help:"Destination folder for text files. Relative to scan dir if not absolute." default:"ascii"`
	Chars     string `help:"Glyphs ordered from darkest to brightest" default:"${default_chars}"`
	Colors    int    `help:"Number of colors to reduce to before rendering, a power of 2" default:"8"`
	Strategy  string `help:"Median cut strategy" enum:"single,recursive" default:"single"`
	Cols      int    `help:"Characters per line, overrides the screen geometry" group:"grid"`
	Rows      int    `help:"Number of lines, overrides the screen geometry" group:"grid"`
	Terminal  bool   `help:"Size the grid to the current terminal" default:"false" group:"grid"`
	Stdout    bool   `help:"Print the art instead of writing text files" default:"false"`
	Overwrite bool   `help:"Replace existing text files" default:"false"`
	ScreenParams

	split palette.Strategy `kong:"-"`
	out   io.Writer        `kong:"-"`
	outMu sync.Mutex       `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if utf8.RuneCountInString(c.Chars) == 0 {
		return fmt.Errorf("%w: no glyphs given", raster.ErrInvalidArgument)
	}
	if c.Colors <= 0 || c.Colors&(c.Colors-1) != 0 {
		return fmt.Errorf("%w: number of colors must be a power of 2, got %d", raster.ErrInvalidArgument, c.Colors)
	}
	if c.Cols < 0 || c.Rows < 0 {
		return fmt.Errorf("%w: invalid grid %dx%d", raster.ErrInvalidArgument, c.Cols, c.Rows)
	}

	if c.split, err = palette.ParseStrategy(c.Strategy); err != nil {
		return err
	}

	cols, rows, err := c.grid()
	if err != nil {
		return err
	}
	c.Cols, c.Rows = cols, rows

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if c.Stdout {
		if c.out == nil {
			c.out = os.Stdout
		}
	} else if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := imgfile.ListImages(c.Scan)
	if err != nil {
		return err
	}

	slog.Info("rendering", "cols", c.Cols, "rows", c.Rows, "colors", c.Colors)

	var renderedCount, errCount atomic.Uint64
	for _, fileName := range files {
		worker(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, fileName))
			if err := c.render(logger, fileName); err != nil {
				errCount.Add(1)
				logger.Error("could not render image", "error", err)
				return
			}
			renderedCount.Add(1)
		})
	}

	wait()

	rendered := renderedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "rendered", rendered, "errors", errors, "total", rendered+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) render(logger *slog.Logger, fileName string) error {
	img, _, err := imgfile.Decode(filepath.Join(c.Scan, fileName))
	if err != nil {
		return err
	}

	r, err := raster.FromImage(img)
	if err != nil {
		return err
	}

	grid, err := pipeline.Text(r, c.Colors, c.Chars, c.Cols, c.Rows,
		pipeline.WithStrategy(c.split), pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	if c.Stdout {
		c.outMu.Lock()
		defer c.outMu.Unlock()
		if _, err = fmt.Fprintln(c.out, grid.String()); err != nil {
			return fmt.Errorf("could not print %q: %w", fileName, err)
		}
		return nil
	}

	return imgfile.WriteLines(filepath.Join(c.Dest, imgfile.DestName(fileName, "txt")), grid, c.Overwrite)
}

// grid resolves the character grid: explicit sizes first, then the terminal,
// then the screen geometry.
func (c *CLICmd) grid() (int, int, error) {
	cols, rows := c.Cols, c.Rows
	if cols > 0 && rows > 0 {
		return cols, rows, nil
	}

	var derivedCols, derivedRows int
	var err error
	if c.Terminal {
		derivedCols, derivedRows, err = terminalGrid()
	} else {
		derivedCols, derivedRows, err = glyph.Screen{
			Width:      c.ScreenWidth,
			Height:     c.ScreenHeight,
			Scrollbar:  c.Scrollbar,
			FontHeight: c.FontHeight,
		}.Grid()
	}
	if err != nil {
		return 0, 0, err
	}

	if cols == 0 {
		cols = derivedCols
	}
	if rows == 0 {
		rows = derivedRows
	}
	return cols, rows, nil
}
