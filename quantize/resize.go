package quantize

import (
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// fit scales img down so it fits within width x height, keeping its aspect
// ratio. A zero bound leaves that dimension unconstrained. Images already
// inside the bounds are returned unchanged.
func fit(logger *slog.Logger, img image.Image, width, height int) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())

	scale := 1.0
	if width > 0 {
		scale = min(scale, float64(width)/srcWidth)
	}
	if height > 0 {
		scale = min(scale, float64(height)/srcHeight)
	}
	if scale >= 1 {
		return img
	}

	destBounds := image.Rect(0, 0,
		max(1, int(math.Round(srcWidth*scale))),
		max(1, int(math.Round(srcHeight*scale))))

	logger.Info("resizing", "width", destBounds.Dx(), "height", destBounds.Dy())
	dest := image.NewNRGBA(destBounds)
	draw.CatmullRom.Scale(dest, destBounds, img, srcBounds, draw.Src, nil)

	return dest
}
