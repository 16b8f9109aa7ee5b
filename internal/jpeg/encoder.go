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
} encode_err_mgr;

static void encode_error_exit(j_common_ptr cinfo) {
    encode_err_mgr *e = (encode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    unsigned char *buf;
    unsigned long  size;
    int            has_error;
    char           error_msg[256];
} encode_result;

// encode_rgb_jpeg encodes interleaved RGB pixels as a YCbCr JPEG using the
// given luma/chroma quantization tables. markers holds pre-built APP2
// payloads laid end to end; marker_lens gives the length of each.
static encode_result encode_rgb_jpeg(
    const unsigned char *pixels, int width, int height,
    const unsigned int *luma_qtable, const unsigned int *chroma_qtable,
    int full_chroma,
    const unsigned char *markers, const unsigned int *marker_lens, int marker_count
) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_compress_struct cinfo;
    encode_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = encode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_compress(&cinfo);
        free(res.buf);
        res.buf = NULL;
        return res;
    }

    jpeg_create_compress(&cinfo);
    jpeg_mem_dest(&cinfo, &res.buf, &res.size);

    cinfo.image_width = width;
    cinfo.image_height = height;
    cinfo.input_components = 3;
    cinfo.in_color_space = JCS_RGB;

    jpeg_set_defaults(&cinfo);
    cinfo.optimize_coding = TRUE;

    if (full_chroma) {
        for (int i = 0; i < 3; i++) {
            cinfo.comp_info[i].h_samp_factor = 1;
            cinfo.comp_info[i].v_samp_factor = 1;
        }
    }

    // Set quantization tables directly (pre-scaled values).
    if (cinfo.quant_tbl_ptrs[0] == NULL)
        cinfo.quant_tbl_ptrs[0] = jpeg_alloc_quant_table((j_common_ptr)&cinfo);
    if (cinfo.quant_tbl_ptrs[1] == NULL)
        cinfo.quant_tbl_ptrs[1] = jpeg_alloc_quant_table((j_common_ptr)&cinfo);

    for (int i = 0; i < 64; i++) {
        cinfo.quant_tbl_ptrs[0]->quantval[i] = (UINT16)luma_qtable[i];
        cinfo.quant_tbl_ptrs[1]->quantval[i] = (UINT16)chroma_qtable[i];
    }

    cinfo.comp_info[0].quant_tbl_no = 0;
    cinfo.comp_info[1].quant_tbl_no = 1;
    cinfo.comp_info[2].quant_tbl_no = 1;

    jpeg_start_compress(&cinfo, TRUE);

    unsigned long off = 0;
    for (int i = 0; i < marker_count; i++) {
        jpeg_write_marker(&cinfo, JPEG_APP0 + 2, markers + off, marker_lens[i]);
        off += marker_lens[i];
    }

    int row_stride = width * 3;
    while (cinfo.next_scanline < cinfo.image_height) {
        JSAMPROW row = (JSAMPROW)(pixels + (unsigned long)cinfo.next_scanline * row_stride);
        jpeg_write_scanlines(&cinfo, &row, 1);
    }

    jpeg_finish_compress(&cinfo);
    jpeg_destroy_compress(&cinfo);
    return res;
}

static void free_encode_buf(unsigned char *buf) {
    free(buf);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/davesmith10/pixelbench/internal/ir"
)

// DefaultQuality is the maximum JPEG quality.
const DefaultQuality = 100

// EncoderOptions controls RGB JPEG encoding.
type EncoderOptions struct {
	Quality int // 1-100, default 100
}

// fullChromaQuality is the quality from which chroma is not subsampled.
const fullChromaQuality = 90

// EncodeRGB encodes img to JPEG. The image's ICC profile, if any, is
// embedded as APP2 chunks.
func EncodeRGB(img *ir.RGBImage, opts EncoderOptions) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("cannot encode empty %dx%d image", img.Width, img.Height)
	}

	if opts.Quality == 0 {
		opts.Quality = DefaultQuality
	}

	lumaTable, chromaTable := GenerateQuantTables(opts.Quality)

	var lumaC, chromaC [64]C.uint
	for i := 0; i < 64; i++ {
		lumaC[i] = C.uint(lumaTable[i])
		chromaC[i] = C.uint(chromaTable[i])
	}

	var markers []byte
	var lens []C.uint
	if len(img.ICC) > 0 {
		chunks, err := ChunkICC(img.ICC)
		if err != nil {
			return nil, fmt.Errorf("embedding ICC: %w", err)
		}
		for _, c := range chunks {
			markers = append(markers, c...)
			lens = append(lens, C.uint(len(c)))
		}
	}

	var markersPtr *C.uchar
	var lensPtr *C.uint
	if len(lens) > 0 {
		markersPtr = (*C.uchar)(unsafe.Pointer(&markers[0]))
		lensPtr = &lens[0]
	}

	fullChroma := C.int(0)
	if opts.Quality >= fullChromaQuality {
		fullChroma = 1
	}

	res := C.encode_rgb_jpeg(
		(*C.uchar)(unsafe.Pointer(&img.Pixels[0])),
		C.int(img.Width), C.int(img.Height),
		&lumaC[0], &chromaC[0],
		fullChroma,
		markersPtr, lensPtr, C.int(len(lens)),
	)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg encode: %s", C.GoString(&res.error_msg[0]))
	}

	defer C.free_encode_buf(res.buf)

	return C.GoBytes(unsafe.Pointer(res.buf), C.int(res.size)), nil
}
