package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
    unsigned char        *pixels; // owned until handed to the caller
} decode_err_mgr;

static void decode_error_exit(j_common_ptr cinfo) {
    decode_err_mgr *e = (decode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    int            width;
    int            height;
    int            num_components;
    unsigned char *pixels;       // RGB output
    unsigned long  pixels_size;
    int            has_error;
    char           error_msg[256];
} decode_result;

static decode_result decode_rgb_jpeg(const unsigned char *buf, unsigned long buf_size) {
    decode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_decompress_struct cinfo;
    decode_err_mgr jerr;
    jerr.pixels = NULL;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = decode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        free(jerr.pixels);
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    // Gray and YCbCr sources are expanded to 3-channel RGB.
    cinfo.out_color_space = JCS_RGB;

    jpeg_start_decompress(&cinfo);

    if (cinfo.output_components != 3) {
        snprintf(res.error_msg, sizeof(res.error_msg),
                 "expected 3 output components, got %d", cinfo.output_components);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    unsigned long row_stride = (unsigned long)cinfo.output_width * 3;
    unsigned long size = row_stride * cinfo.output_height;
    jerr.pixels = (unsigned char *)malloc(size > 0 ? size : 1);
    if (jerr.pixels == NULL) {
        strncpy(res.error_msg, "malloc failed for pixel buffer", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    while (cinfo.output_scanline < cinfo.output_height) {
        JSAMPROW row = jerr.pixels + cinfo.output_scanline * row_stride;
        jpeg_read_scanlines(&cinfo, &row, 1);
    }

    res.width = cinfo.output_width;
    res.height = cinfo.output_height;
    res.num_components = 3;

    jpeg_finish_decompress(&cinfo);
    jpeg_destroy_decompress(&cinfo);

    res.pixels = jerr.pixels;
    res.pixels_size = size;
    return res;
}

static void free_decode_pixels(unsigned char *p) {
    free(p);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/davesmith10/pixelbench/internal/ir"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// DecodeRGB decodes a JPEG file from memory into a 3-channel RGB image.
// Grayscale and YCbCr sources are expanded to RGB; CMYK and YCCK sources are
// rejected from the header alone with ErrUnsupportedColorSpace. Any embedded
// ICC profile is returned in the image's ICC field.
func DecodeRGB(data []byte) (*ir.RGBImage, error) {
	hdr, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	if err := hdr.CheckRGB(); err != nil {
		return nil, err
	}
	if _, err := ir.New(hdr.Width, hdr.Height); err != nil {
		return nil, err
	}

	res := C.decode_rgb_jpeg((*C.uchar)(unsafe.Pointer(&data[0])), C.ulong(len(data)))
	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg decode: %s", C.GoString(&res.error_msg[0]))
	}
	defer C.free_decode_pixels(res.pixels)

	img, err := ir.New(int(res.width), int(res.height))
	if err != nil {
		return nil, err
	}
	if len(img.Pixels) != int(res.pixels_size) {
		return nil, fmt.Errorf("libjpeg decode: %d pixel bytes for %dx%d", int(res.pixels_size), img.Width, img.Height)
	}
	copy(img.Pixels, unsafe.Slice((*byte)(unsafe.Pointer(res.pixels)), len(img.Pixels)))
	img.ICC = hdr.ICC
	return img, nil
}
