package palette

import (
	"cmp"
	"fmt"
	"math/bits"
	"slices"

	"picquant/raster"
	"picquant/rgb"
)

// Strategy selects how the pixel population is partitioned into buckets.
type Strategy int

const (
	// SinglePass sorts the whole population once along its widest channel
	// and cuts it into equally sized runs.
	SinglePass Strategy = iota
	// Recursive halves every bucket at its median along the bucket's own
	// widest channel until there are enough buckets.
	Recursive
)

func (s Strategy) String() string {
	switch s {
	case SinglePass:
		return "single"
	case Recursive:
		return "recursive"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "single", "":
		return SinglePass, nil
	case "recursive":
		return Recursive, nil
	}
	return 0, fmt.Errorf("%w: unknown median cut strategy %q", raster.ErrInvalidArgument, s)
}

func isPowerOf2(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

func checkArgs(pix []rgb.Pixel, numColors int) error {
	if !isPowerOf2(numColors) {
		return fmt.Errorf("%w: number of colors must be a power of 2, got %d", raster.ErrInvalidArgument, numColors)
	}
	if len(pix) == 0 {
		return fmt.Errorf("%w: no pixels to build a palette from", raster.ErrInvalidArgument)
	}
	return nil
}

// Build reduces pix to numColors representative colors with the single pass
// median cut. pix is not modified.
func Build(pix []rgb.Pixel, numColors int) (Palette, error) {
	return BuildWith(SinglePass, pix, numColors)
}

// BuildRecursive reduces pix to numColors representative colors with the
// classic recursive median cut.
func BuildRecursive(pix []rgb.Pixel, numColors int) (Palette, error) {
	return BuildWith(Recursive, pix, numColors)
}

func BuildWith(s Strategy, pix []rgb.Pixel, numColors int) (Palette, error) {
	if err := checkArgs(pix, numColors); err != nil {
		return nil, err
	}

	sorted := slices.Clone(pix)
	switch s {
	case SinglePass:
		return singlePass(sorted, numColors), nil
	case Recursive:
		return recursive(sorted, numColors), nil
	}
	return nil, fmt.Errorf("%w: unknown median cut strategy %v", raster.ErrInvalidArgument, s)
}

func singlePass(sorted []rgb.Pixel, numColors int) Palette {
	sortByChannel(sorted, widestChannel(sorted))

	n := len(sorted)
	chunk := n / numColors
	pal := make(Palette, numColors)
	for i := range numColors {
		start := i * chunk
		end := start + chunk
		if i == numColors-1 {
			// last bucket takes the remainder
			end = n
		}
		pal[i] = bucketColor(sorted, start, end)
	}
	return pal
}

func recursive(sorted []rgb.Pixel, numColors int) Palette {
	type span struct{ start, end int }

	buckets := []span{{0, len(sorted)}}
	for len(buckets) < numColors {
		next := make([]span, 0, 2*len(buckets))
		for _, b := range buckets {
			if b.end-b.start > 1 {
				bucket := sorted[b.start:b.end]
				sortByChannel(bucket, widestChannel(bucket))
			}
			mid := b.start + (b.end-b.start)/2
			next = append(next, span{b.start, mid}, span{mid, b.end})
		}
		buckets = next
	}

	pal := make(Palette, numColors)
	for i, b := range buckets {
		pal[i] = bucketColor(sorted, b.start, b.end)
	}
	return pal
}

// bucketColor averages sorted[start:end]. An empty bucket, which only happens
// when there are fewer pixels than colors, borrows the pixel at its start
// offset.
func bucketColor(sorted []rgb.Pixel, start, end int) rgb.Pixel {
	if start >= end {
		return sorted[min(start, len(sorted)-1)]
	}

	var sum [rgb.NumChannels]int
	for _, p := range sorted[start:end] {
		sum[0] += int(p.R())
		sum[1] += int(p.G())
		sum[2] += int(p.B())
	}

	// divided by the true bucket size, the remainder bucket included
	n := end - start
	return rgb.Pack(rgb.RGB{
		R: uint8(sum[0] / n),
		G: uint8(sum[1] / n),
		B: uint8(sum[2] / n),
	})
}

// widestChannel returns 0 for red, 1 for green or 2 for blue, whichever has
// the greatest range in pix. Ties go to the lowest channel.
func widestChannel(pix []rgb.Pixel) int {
	lo := [rgb.NumChannels]uint8{255, 255, 255}
	var hi [rgb.NumChannels]uint8

	for _, p := range pix {
		for i, c := range p.Channels() {
			lo[i] = min(lo[i], c)
			hi[i] = max(hi[i], c)
		}
	}

	best, bestRange := 0, -1
	for i := range rgb.NumChannels {
		if r := int(hi[i]) - int(lo[i]); r > bestRange {
			best, bestRange = i, r
		}
	}
	return best
}

func sortByChannel(pix []rgb.Pixel, ch int) {
	slices.SortStableFunc(pix, func(a, b rgb.Pixel) int {
		return cmp.Compare(a.Channel(ch), b.Channel(ch))
	})
}
