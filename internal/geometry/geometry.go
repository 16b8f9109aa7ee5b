// Package geometry rotates and resamples RGB images. Every operation
// allocates a fresh destination buffer; the source is never modified.
package geometry

import (
	"fmt"

	"github.com/davesmith10/pixelbench/internal/ir"
)

// Default target resolution for ResampleTo (1080p).
const (
	DefaultTargetWidth  = 1920
	DefaultTargetHeight = 1080
)

// Rotate90 rotates src by 90 degrees. Source pixel (x, y) is written to
// (src.Height-1-y, x) of a src.Height x src.Width destination.
func Rotate90(src *ir.RGBImage) (*ir.RGBImage, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}

	dst, err := ir.New(src.Height, src.Width)
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	dst.ICC = src.ICC

	for y := 0; y < src.Height; y++ {
		row := src.Row(y)
		dx := src.Height - 1 - y
		for x := 0; x < src.Width; x++ {
			si := x * ir.Channels
			di := (x*dst.Width + dx) * ir.Channels
			copy(dst.Pixels[di:di+ir.Channels], row[si:si+ir.Channels])
		}
	}
	return dst, nil
}

// ResampleTo scales src to width x height with nearest-neighbour sampling.
// Destination (x, y) reads source (x*src.Width/width, y*src.Height/height),
// truncated and clamped to the source bounds.
func ResampleTo(src *ir.RGBImage, width, height int) (*ir.RGBImage, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resample: invalid target %dx%d", width, height)
	}
	if src.Width == 0 || src.Height == 0 {
		return nil, fmt.Errorf("resample: empty %dx%d source", src.Width, src.Height)
	}

	dst, err := ir.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	dst.ICC = src.ICC

	// Column lookup is shared by every row.
	cols := make([]int, width)
	for x := range cols {
		cols[x] = clamp(x*src.Width/width, src.Width-1) * ir.Channels
	}

	for y := 0; y < height; y++ {
		srow := src.Row(clamp(y*src.Height/height, src.Height-1))
		drow := dst.Row(y)
		for x, si := range cols {
			di := x * ir.Channels
			copy(drow[di:di+ir.Channels], srow[si:si+ir.Channels])
		}
	}
	return dst, nil
}

func clamp(v, hi int) int {
	if v > hi {
		return hi
	}
	if v < 0 {
		return 0
	}
	return v
}
