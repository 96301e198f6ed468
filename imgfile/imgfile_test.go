package imgfile

import (
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		src, out string
		keep     []string
		want     string
	}{
		{"png", "same", Formats, "png"},
		{"jpeg", "same", Formats, "jpeg"},
		{"jpeg", "unsup:png", Formats, "jpeg"},
		{"webp", "unsup:png", Formats, "png"},
		{"jpeg", "gif", Formats, "gif"},
		{"jpeg", "unsup:png", LosslessFormats, "png"},
		{"jpeg", "unsup:tiff", LosslessFormats, "tiff"},
		{"jpeg", "same", LosslessFormats, "png"},
		{"webp", "same", LosslessFormats, "png"},
		{"bmp", "unsup:png", LosslessFormats, "bmp"},
		{"gif", "same", LosslessFormats, "gif"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, OutputFormat(tc.src, tc.out, tc.keep), "%s -> %s", tc.src, tc.out)
	}
}

func TestDestName(t *testing.T) {
	assert.Equal(t, "cat.png", DestName("cat.jpg", "png"))
	assert.Equal(t, "a.b.txt", DestName("a.b.webp", "txt"))
	assert.Equal(t, "noext.gif", DestName("noext", "gif"))
}

func TestSaveDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	for _, format := range []string{"png", "bmp", "tiff", "gif"} {
		t.Run(format, func(t *testing.T) {
			name := DestName("out", format)
			require.NoError(t, Save(img, format, dir, name, false))

			got, decoded, err := Decode(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.Equal(t, format, decoded)
			assert.Equal(t, img.Bounds(), got.Bounds())
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "temporary files must be renamed away")
}

func TestSaveUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	err := Save(image.NewGray(image.Rect(0, 0, 1, 1)), "webp", dir, "x.webp", false)
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveKeepsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	first := image.NewGray(image.Rect(0, 0, 2, 2))
	second := image.NewGray(image.Rect(0, 0, 5, 5))

	require.NoError(t, Save(first, "png", dir, "a.png", false))

	err := Save(second, "png", dir, "a.png", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	got, _, err := Decode(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, first.Bounds(), got.Bounds())

	require.NoError(t, Save(second, "png", dir, "a.png", true))
	got, _, err = Decode(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, second.Bounds(), got.Bounds())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be removed")
}

func TestWriteLinesExclusive(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "art.txt")

	var wg sync.WaitGroup
	var written atomic.Int64
	for i := range 8 {
		wg.Go(func() {
			if WriteLines(dest, []string{strconv.Itoa(i)}, false) == nil {
				written.Add(1)
			}
		})
	}
	wg.Wait()

	assert.EqualValues(t, 1, written.Load())
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Len(t, data, 2)
}

func TestWriteLines(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "art.txt")
	require.NoError(t, WriteLines(dest, []string{"ab", "cd"}, false))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "ab\ncd\n", string(data))

	assert.Error(t, WriteLines(dest, []string{"x"}, false))
	require.NoError(t, WriteLines(dest, []string{"x"}, true))

	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, names)

	_, err = ListImages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Decode(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, _, err = Decode(bad)
	assert.Error(t, err)
}
