package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} header_err_mgr;

static void header_error_exit(j_common_ptr cinfo) {
    header_err_mgr *e = (header_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    int  width;
    int  height;
    int  components;
    int  color_space; // J_COLOR_SPACE of the stream, before any conversion
    int  progressive;
    char msg[JMSG_LENGTH_MAX];
} jpeg_header;

// read_jpeg_header parses up to the first SOS. Returns 0 on success.
static int read_jpeg_header(const unsigned char *buf, unsigned long size, jpeg_header *h) {
    struct jpeg_decompress_struct cinfo;
    header_err_mgr jerr;

    memset(h, 0, sizeof(*h));
    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = header_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        memcpy(h->msg, jerr.msg, sizeof(h->msg));
        jpeg_destroy_decompress(&cinfo);
        return -1;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, size);
    jpeg_read_header(&cinfo, TRUE);

    h->width = cinfo.image_width;
    h->height = cinfo.image_height;
    h->components = cinfo.num_components;
    h->color_space = cinfo.jpeg_color_space;
    h->progressive = cinfo.progressive_mode ? 1 : 0;

    jpeg_destroy_decompress(&cinfo);
    return 0;
}
*/
import "C"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// ErrUnsupportedColorSpace is returned for streams that cannot be expanded
// to RGB, such as CMYK and YCCK.
var ErrUnsupportedColorSpace = errors.New("unsupported JPEG color space")

// ColorSpace is the color space a JPEG stream is stored in. Values follow
// libjpeg's J_COLOR_SPACE.
type ColorSpace int

const (
	ColorUnknown ColorSpace = iota
	ColorGray
	ColorRGB
	ColorYCbCr
	ColorCMYK
	ColorYCCK
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorUnknown:
		return "Unknown"
	case ColorGray:
		return "Grayscale"
	case ColorRGB:
		return "RGB"
	case ColorYCbCr:
		return "YCbCr"
	case ColorCMYK:
		return "CMYK"
	case ColorYCCK:
		return "YCCK"
	default:
		return fmt.Sprintf("J_COLOR_SPACE(%d)", int(cs))
	}
}

// ExpandsToRGB reports whether libjpeg can decode cs to 3-channel RGB.
func (cs ColorSpace) ExpandsToRGB() bool {
	return cs == ColorGray || cs == ColorRGB || cs == ColorYCbCr
}

// Header is what a JPEG declares before its first scan.
type Header struct {
	Width       int
	Height      int
	Components  int
	ColorSpace  ColorSpace
	Progressive bool
	ICC         []byte // reassembled from APP2, nil if absent
}

// IsJPEG reports whether data starts with a JPEG SOI marker.
func IsJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

// ReadHeader parses the frame header and any ICC profile without decoding
// pixel data.
func ReadHeader(data []byte) (*Header, error) {
	if !IsJPEG(data) {
		return nil, errors.New("not a JPEG stream")
	}

	var h C.jpeg_header
	if C.read_jpeg_header((*C.uchar)(unsafe.Pointer(&data[0])), C.ulong(len(data)), &h) != 0 {
		return nil, fmt.Errorf("libjpeg header: %s", C.GoString(&h.msg[0]))
	}

	segs, err := app2Segments(data)
	if err != nil {
		return nil, err
	}
	icc, err := ExtractICC(segs)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}

	return &Header{
		Width:       int(h.width),
		Height:      int(h.height),
		Components:  int(h.components),
		ColorSpace:  ColorSpace(h.color_space),
		Progressive: h.progressive != 0,
		ICC:         icc,
	}, nil
}

// CheckRGB returns an error wrapping ErrUnsupportedColorSpace unless the
// stream decodes to 3-channel RGB.
func (h *Header) CheckRGB() error {
	if !h.ColorSpace.ExpandsToRGB() {
		return fmt.Errorf("%w: %s with %d components", ErrUnsupportedColorSpace, h.ColorSpace, h.Components)
	}
	return nil
}

// app2Segments returns the APP2 payloads found before the first scan. The
// payloads alias data.
func app2Segments(data []byte) ([][]byte, error) {
	var segs [][]byte
	i := 2 // past SOI
	for i+1 < len(data) {
		if data[i] != 0xFF {
			return nil, fmt.Errorf("expected marker at offset %d, found 0x%02X", i, data[i])
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF: // fill
			i++
			continue
		case marker == 0x01, marker >= 0xD0 && marker <= 0xD8: // TEM, RSTn, SOI
			i += 2
			continue
		case marker == 0xDA, marker == 0xD9: // SOS, EOI
			return segs, nil
		}
		if i+4 > len(data) {
			break
		}
		n := int(binary.BigEndian.Uint16(data[i+2:]))
		if n < 2 || i+2+n > len(data) {
			return nil, fmt.Errorf("truncated segment 0x%02X at offset %d", marker, i)
		}
		if marker == 0xE2 {
			segs = append(segs, data[i+4:i+2+n])
		}
		i += 2 + n
	}
	return nil, errors.New("no scan found")
}
