// Package codec reads and writes image files as 3-channel RGB buffers.
// JPEG goes through libjpeg; PNG, GIF, BMP, TIFF and WebP use Go decoders.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/davesmith10/pixelbench/internal/ir"
	"github.com/davesmith10/pixelbench/internal/jpeg"
)

// DecodeError reports an unreadable or undecodable input file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not load image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports an output file that could not be encoded or written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("could not save image %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ErrUnsupportedFormat is returned for output extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies an output container.
type Format string

// Output formats.
const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Ext returns the canonical file extension for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return "jpg"
	case TIFF:
		return "tiff"
	default:
		return string(f)
	}
}

// ParseFormat maps an extension or format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath returns the output format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Decode reads path and returns its pixels as RGB. Alpha is discarded.
func Decode(path string) (*ir.RGBImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (*ir.RGBImage, error) {
	if jpeg.IsJPEG(data) {
		return jpeg.DecodeRGB(data)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return FromImage(src)
}

// FromImage converts any image.Image to an RGBImage, dropping alpha
// without compositing.
func FromImage(src image.Image) (*ir.RGBImage, error) {
	b := src.Bounds()
	dst, err := ir.New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < dst.Height; y++ {
			row := s.Pix[y*s.Stride : y*s.Stride+dst.Width*4]
			out := dst.Row(y)
			for x := 0; x < dst.Width; x++ {
				copy(out[x*3:x*3+3], row[x*4:x*4+3])
			}
		}
	case *image.RGBA:
		// Fully opaque RGBA equals NRGBA; un-premultiply otherwise.
		if s.Opaque() {
			for y := 0; y < dst.Height; y++ {
				row := s.Pix[y*s.Stride : y*s.Stride+dst.Width*4]
				out := dst.Row(y)
				for x := 0; x < dst.Width; x++ {
					copy(out[x*3:x*3+3], row[x*4:x*4+3])
				}
			}
			break
		}
		fromGeneric(dst, src)
	default:
		fromGeneric(dst, src)
	}
	return dst, nil
}

func fromGeneric(dst *ir.RGBImage, src image.Image) {
	b := src.Bounds()
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst.Set(x, y, c.R, c.G, c.B)
		}
	}
}

// ToImage wraps img as an opaque *image.NRGBA for the Go encoders.
func ToImage(img *ir.RGBImage) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		src := img.Row(y)
		dst := out.Pix[y*out.Stride : y*out.Stride+img.Width*4]
		for x := 0; x < img.Width; x++ {
			copy(dst[x*4:x*4+3], src[x*3:x*3+3])
			dst[x*4+3] = 0xFF
		}
	}
	return out
}

// EncodeBytes encodes img in format f. quality only applies to JPEG.
func EncodeBytes(img *ir.RGBImage, f Format, quality int) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	if f == JPEG {
		return jpeg.EncodeRGB(img, jpeg.EncoderOptions{Quality: quality})
	}

	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		err = png.Encode(&buf, ToImage(img))
	case BMP:
		err = bmp.Encode(&buf, ToImage(img))
	case TIFF:
		err = tiff.Encode(&buf, ToImage(img), &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes img to path in the format implied by its extension.
func Encode(path string, img *ir.RGBImage, quality int) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	data, err := EncodeBytes(img, f, quality)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// Files is the file-system codec used by the pipeline.
type Files struct{}

// Decode implements pipeline.Codec.
func (Files) Decode(path string) (*ir.RGBImage, error) { return Decode(path) }

// Encode implements pipeline.Codec.
func (Files) Encode(path string, img *ir.RGBImage, quality int) error {
	return Encode(path, img, quality)
}
