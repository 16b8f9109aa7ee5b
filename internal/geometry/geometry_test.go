package geometry

import (
	"bytes"
	"errors"
	"testing"

	"github.com/davesmith10/pixelbench/internal/ir"
)

// gradient builds a w x h image whose pixels encode their own coordinates.
func gradient(t *testing.T, w, h int) *ir.RGBImage {
	t.Helper()
	im, err := ir.New(w, h)
	if err != nil {
		t.Fatalf("ir.New: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, uint8(x), uint8(y), uint8(x*7+y*13))
		}
	}
	return im
}

func TestRotate90Mapping(t *testing.T) {
	src := gradient(t, 4, 3)
	dst, err := Rotate90(src)
	if err != nil {
		t.Fatalf("Rotate90: %v", err)
	}
	if dst.Width != 3 || dst.Height != 4 {
		t.Fatalf("expected 3x4, got %dx%d", dst.Width, dst.Height)
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			sr, sg, sb := src.At(x, y)
			dr, dg, db := dst.At(src.Height-1-y, x)
			if sr != dr || sg != dg || sb != db {
				t.Fatalf("src(%d,%d) not found at dst(%d,%d)", x, y, src.Height-1-y, x)
			}
		}
	}
}

func TestRotate90TwiceIsHalfTurn(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {4, 3}, {7, 2}, {5, 5}} {
		w, h := dims[0], dims[1]
		src := gradient(t, w, h)
		once, err := Rotate90(src)
		if err != nil {
			t.Fatalf("Rotate90: %v", err)
		}
		twice, err := Rotate90(once)
		if err != nil {
			t.Fatalf("Rotate90: %v", err)
		}
		if twice.Width != w || twice.Height != h {
			t.Fatalf("%dx%d: expected same dims after two turns, got %dx%d", w, h, twice.Width, twice.Height)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r1, g1, b1 := twice.At(x, y)
				r2, g2, b2 := src.At(w-1-x, h-1-y)
				if r1 != r2 || g1 != g2 || b1 != b2 {
					t.Fatalf("%dx%d: pixel (%d,%d) is not the 180° image of the source", w, h, x, y)
				}
			}
		}
	}
}

func TestRotate90DoesNotAlias(t *testing.T) {
	src := gradient(t, 2, 2)
	before := append([]byte(nil), src.Pixels...)
	dst, err := Rotate90(src)
	if err != nil {
		t.Fatalf("Rotate90: %v", err)
	}
	dst.Pixels[0] = 0xAB
	if !bytes.Equal(src.Pixels, before) {
		t.Error("Rotate90 modified or aliased its source")
	}
}

func TestRotate90RejectsInvalidBuffer(t *testing.T) {
	bad := &ir.RGBImage{Width: 3, Height: 3, Pixels: make([]byte, 10)}
	if _, err := Rotate90(bad); !errors.Is(err, ir.ErrInvalidBuffer) {
		t.Fatalf("expected ErrInvalidBuffer, got %v", err)
	}
}

func TestResampleToSameSizeIsIdentity(t *testing.T) {
	src := gradient(t, 9, 5)
	dst, err := ResampleTo(src, 9, 5)
	if err != nil {
		t.Fatalf("ResampleTo: %v", err)
	}
	if !bytes.Equal(src.Pixels, dst.Pixels) {
		t.Error("same-size resample changed pixels")
	}
}

func TestResampleToUpscaleRepeatsPixels(t *testing.T) {
	src := gradient(t, 2, 2)
	dst, err := ResampleTo(src, 4, 4)
	if err != nil {
		t.Fatalf("ResampleTo: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r1, g1, b1 := dst.At(x, y)
			r2, g2, b2 := src.At(x/2, y/2)
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Fatalf("dst(%d,%d) should sample src(%d,%d)", x, y, x/2, y/2)
			}
		}
	}
}

func TestResampleToDownscaleStaysInBounds(t *testing.T) {
	src := gradient(t, 7, 5)
	dst, err := ResampleTo(src, 3, 2)
	if err != nil {
		t.Fatalf("ResampleTo: %v", err)
	}
	if err := dst.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// x=2 -> 2*7/3 = 4, y=1 -> 1*5/2 = 2
	r, g, _ := dst.At(2, 1)
	if r != 4 || g != 2 {
		t.Errorf("dst(2,1) sampled (%d,%d), want (4,2)", r, g)
	}
}

func TestResampleToDefaultTarget(t *testing.T) {
	src := gradient(t, 64, 36)
	dst, err := ResampleTo(src, DefaultTargetWidth, DefaultTargetHeight)
	if err != nil {
		t.Fatalf("ResampleTo: %v", err)
	}
	if dst.Width != 1920 || dst.Height != 1080 {
		t.Fatalf("expected 1920x1080, got %dx%d", dst.Width, dst.Height)
	}
	r, g, _ := dst.At(1919, 1079)
	if r != 63 || g != 35 {
		t.Errorf("bottom-right sampled (%d,%d), want (63,35)", r, g)
	}
}

func TestResampleToErrors(t *testing.T) {
	src := gradient(t, 2, 2)
	if _, err := ResampleTo(src, 0, 10); err == nil {
		t.Error("expected error for zero target width")
	}
	empty := &ir.RGBImage{}
	if _, err := ResampleTo(empty, 4, 4); err == nil {
		t.Error("expected error for empty source")
	}
	bad := &ir.RGBImage{Width: 1, Height: 1, Pixels: []byte{1}}
	if _, err := ResampleTo(bad, 4, 4); !errors.Is(err, ir.ErrInvalidBuffer) {
		t.Errorf("expected ErrInvalidBuffer, got %v", err)
	}
}

func TestGeometryCarriesICC(t *testing.T) {
	src := gradient(t, 3, 2)
	src.ICC = []byte("profile")
	rot, _ := Rotate90(src)
	res, _ := ResampleTo(rot, 4, 4)
	if string(res.ICC) != "profile" {
		t.Errorf("ICC profile lost through geometry: %q", res.ICC)
	}
}

func BenchmarkRotate90_1080p(b *testing.B) {
	src, _ := ir.New(DefaultTargetWidth, DefaultTargetHeight)
	b.SetBytes(int64(len(src.Pixels)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Rotate90(src); err != nil {
			b.Fatal(err)
		}
	}
}
