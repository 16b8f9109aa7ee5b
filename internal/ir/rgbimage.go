package ir

import (
	"errors"
	"fmt"
	"math"
)

// Channels is the number of interleaved bytes per pixel (R, G, B).
const Channels = 3

// ErrInvalidBuffer is returned when an image's pixel slice does not match
// its declared dimensions.
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// AllocationError reports dimensions whose pixel buffer cannot be allocated.
type AllocationError struct {
	Width  int
	Height int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("cannot allocate %dx%d RGB buffer", e.Width, e.Height)
}

// RGBImage is the intermediate representation passed between the codec,
// the geometry stage and the color runners. Pixels are stored as
// interleaved R,G,B bytes (3 bytes per pixel, row-major order).
type RGBImage struct {
	Width  int
	Height int
	Pixels []byte // len = Width * Height * 3
	ICC    []byte // RGB ICC profile to embed in output, nil if absent
}

// New allocates a zeroed width x height image.
func New(width, height int) (*RGBImage, error) {
	n, err := bufferLen(width, height)
	if err != nil {
		return nil, err
	}
	return &RGBImage{
		Width:  width,
		Height: height,
		Pixels: make([]byte, n),
	}, nil
}

func bufferLen(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, &AllocationError{Width: width, Height: height}
	}
	if width != 0 && height > math.MaxInt/Channels/width {
		return 0, &AllocationError{Width: width, Height: height}
	}
	return width * height * Channels, nil
}

// Stride is the number of bytes in one row.
func (im *RGBImage) Stride() int {
	return im.Width * Channels
}

// Validate checks that len(Pixels) == Width*Height*3.
func (im *RGBImage) Validate() error {
	if im == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidBuffer)
	}
	n, err := bufferLen(im.Width, im.Height)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBuffer, err)
	}
	if len(im.Pixels) != n {
		return fmt.Errorf("%w: expected %d bytes for %dx%d RGB, got %d",
			ErrInvalidBuffer, n, im.Width, im.Height, len(im.Pixels))
	}
	return nil
}

// Row returns the pixels of row y. The slice aliases the image.
func (im *RGBImage) Row(y int) []byte {
	s := im.Stride()
	return im.Pixels[y*s : (y+1)*s : (y+1)*s]
}

// At returns the pixel at (x, y).
func (im *RGBImage) At(x, y int) (r, g, b uint8) {
	i := (y*im.Width + x) * Channels
	return im.Pixels[i], im.Pixels[i+1], im.Pixels[i+2]
}

// Set stores the pixel at (x, y).
func (im *RGBImage) Set(x, y int, r, g, b uint8) {
	i := (y*im.Width + x) * Channels
	im.Pixels[i], im.Pixels[i+1], im.Pixels[i+2] = r, g, b
}

// Clone returns a deep copy, including the ICC profile.
func (im *RGBImage) Clone() *RGBImage {
	c := &RGBImage{
		Width:  im.Width,
		Height: im.Height,
		Pixels: append([]byte(nil), im.Pixels...),
	}
	if im.ICC != nil {
		c.ICC = append([]byte(nil), im.ICC...)
	}
	return c
}
