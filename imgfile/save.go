package imgfile

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Formats lists the encodable output formats.
var Formats = []string{"gif", "jpeg", "png", "bmp", "tiff"}

// LosslessFormats lists the encodable formats that store every pixel as
// given, so a reduced palette survives encoding.
var LosslessFormats = []string{"gif", "png", "bmp", "tiff"}

// OutputFormat resolves the requested format for a source of type imgType.
// "same" keeps the source format and an "unsup:" prefix keeps it too, both
// only when imgType is one of keep. A "same" source outside keep is written
// as png, an "unsup:" one in the prefixed format.
func OutputFormat(imgType, outType string, keep []string) string {
	outType, unsupOnly := strings.CutPrefix(outType, "unsup:")
	if (outType == "same" || unsupOnly) && slices.Contains(keep, imgType) {
		return imgType
	}
	if outType == "same" {
		return "png"
	}
	return outType
}

// DestName replaces the extension of srcName with ext.
func DestName(srcName, ext string) string {
	oldExt := filepath.Ext(srcName)
	return fmt.Sprintf("%s.%s", srcName[:len(srcName)-len(oldExt)], ext)
}

// Save encodes img as format into destDir/destName. The image is written to
// a temporary file first and moved into place once complete. Unless
// overwrite is set an existing destination is an error and is left as is.
func Save(img image.Image, format, destDir, destName string, overwrite bool) (err error) {
	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			err = place(outFile.Name(), filepath.Join(destDir, destName), overwrite)
		}
		_ = os.Remove(outFile.Name())
	}()

	if err = encode(outFile, img, format); err != nil {
		return fmt.Errorf("could not encode destination %q: %w", destName, err)
	}

	canRename = true
	return nil
}

// place moves the finished temporary file to dest. Without overwrite it is
// hard linked instead, which fails atomically when dest already exists.
func place(tmp, dest string, overwrite bool) error {
	if overwrite {
		if err := os.Rename(tmp, dest); err != nil {
			return fmt.Errorf("could not rename destination file %q: %w", dest, err)
		}
		return nil
	}

	if err := os.Link(tmp, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("destination file already exists: %q: %w", dest, err)
		}
		return fmt.Errorf("could not link destination file %q: %w", dest, err)
	}
	return nil
}

func encode(f *os.File, img image.Image, format string) error {
	switch format {
	case "gif":
		return gif.Encode(f, img, nil)
	case "jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 100})
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		return enc.Encode(f, img)
	case "bmp":
		return bmp.Encode(f, img)
	case "tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
