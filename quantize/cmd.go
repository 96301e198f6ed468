package quantize

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"picquant/imgfile"
	"picquant/palette"
	"picquant/parallel"
	"picquant/pipeline"
	"picquant/raster"
	"picquant/rgb"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan          string           `help:"Source folder to scan" default:"."`
	Dest          string           `help:"Destination folder for quantized pictures. Relative to scan dir if not absolute." default:"quantized"`
	Colors        int              `help:"Number of palette colors, a power of 2" default:"16" group:"palette"`
	Strategy      string           `help:"Median cut strategy" enum:"single,recursive" default:"single" group:"palette"`
	Palette       string           `help:"PAL file in RIFF format to apply instead of computing a palette" type:"existingfile" group:"palette"`
	ExportPalette bool             `help:"Save the computed palette next to every output as a .pal file" default:"false" group:"palette"`
	Gray          bool             `help:"Write the luminance image instead of a reduced color one" default:"false"`
	Width         int              `help:"Max width, the image is scaled down to fit before quantizing" group:"resize"`
	Height        int              `help:"Max height, the image is scaled down to fit before quantizing" group:"resize"`
	Format        string           `help:"Output format. If prefixed with 'unsup:' will convert only unsupported formats. jpeg is only accepted with --gray" enum:"same,gif,unsup:gif,jpeg,unsup:jpeg,png,unsup:png,bmp,unsup:bmp,tiff,unsup:tiff" default:"unsup:png"`
	Overwrite     bool             `help:"Replace existing output files" default:"false"`
	Fixed         palette.Palette  `kong:"-"`
	Split         palette.Strategy `kong:"-"`
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

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid resize width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid resize height: %d", c.Height)
	}

	if !c.Gray && strings.TrimPrefix(c.Format, "unsup:") == "jpeg" {
		return fmt.Errorf("%w: lossy format %q would not keep the reduced palette, use it with --gray only", raster.ErrInvalidArgument, c.Format)
	}

	if c.Split, err = palette.ParseStrategy(c.Strategy); err != nil {
		return err
	}

	if c.Palette != "" {
		if c.Fixed, err = palette.Load(c.Palette); err != nil {
			return err
		}
		if c.ExportPalette {
			return fmt.Errorf("--export-palette cannot be combined with --palette")
		}
		return nil
	}

	if c.Colors <= 0 || c.Colors&(c.Colors-1) != 0 {
		return fmt.Errorf("%w: number of colors must be a power of 2, got %d", raster.ErrInvalidArgument, c.Colors)
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := imgfile.ListImages(c.Scan)
	if err != nil {
		return err
	}

	var processedCount, errCount atomic.Uint64
	for _, fileName := range files {
		worker(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, fileName))
			if err := c.process(logger, fileName); err != nil {
				errCount.Add(1)
				logger.Error("could not quantize image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) process(logger *slog.Logger, fileName string) error {
	img, imgType, err := imgfile.Decode(filepath.Join(c.Scan, fileName))
	if err != nil {
		return err
	}

	if c.Width > 0 || c.Height > 0 {
		img = fit(logger, img, c.Width, c.Height)
	}

	r, err := raster.FromImage(img)
	if err != nil {
		return err
	}

	keep := imgfile.LosslessFormats
	if c.Gray {
		keep = imgfile.Formats
	}
	format := imgfile.OutputFormat(imgType, c.Format, keep)
	destName := imgfile.DestName(fileName, format)

	if c.Gray {
		g, err := pipeline.Grayscale(r)
		if err != nil {
			return err
		}
		return imgfile.Save(g.ToGray(), format, c.Dest, destName, c.Overwrite)
	}

	opts := []pipeline.Option{pipeline.WithStrategy(c.Split), pipeline.WithLogger(logger)}
	if c.Fixed != nil {
		opts = append(opts, pipeline.WithPalette(c.Fixed))
		logger.Info("quantizing", "colors", len(c.Fixed), "palette", c.Palette, "width", r.Width, "height", r.Height)
	} else {
		logger.Info("quantizing", "colors", c.Colors, "strategy", c.Split, "width", r.Width, "height", r.Height)
	}
	out, pal, err := pipeline.Quantize(r, c.Colors, opts...)
	if err != nil {
		return err
	}

	var dest image.Image = out.ToNRGBA()
	if len(pal) <= 256 {
		_, cp := pal.To(rgb.Model)
		dest = out.ToPaletted(cp)
	}
	if err = imgfile.Save(dest, format, c.Dest, destName, c.Overwrite); err != nil {
		return err
	}

	if c.ExportPalette {
		palPath := filepath.Join(c.Dest, imgfile.DestName(fileName, "pal"))
		logger.Info("exporting palette", "path", palPath, "colors", len(pal))
		if err = palette.Save(pal, palPath); err != nil {
			return err
		}
	}
	return nil
}
