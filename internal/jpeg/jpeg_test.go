package jpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/davesmith10/pixelbench/internal/ir"
)

func TestLibjpegLinkage(t *testing.T) {
	ver := LibjpegVersion()
	if ver == 0 {
		t.Fatal("libjpeg version returned 0")
	}
	t.Logf("libjpeg version: %d", ver)
}

func solidImage(t *testing.T, w, h int, r, g, b uint8) *ir.RGBImage {
	t.Helper()
	img, err := ir.New(w, h)
	if err != nil {
		t.Fatalf("ir.New: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, r, g, b)
		}
	}
	return img
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := solidImage(t, 16, 9, 200, 100, 50)

	data, err := EncodeRGB(src, EncoderOptions{Quality: 100})
	if err != nil {
		t.Fatalf("EncodeRGB: %v", err)
	}
	if !IsJPEG(data) {
		t.Fatal("output is not a valid JPEG (bad magic)")
	}
	if data[len(data)-2] != 0xFF || data[len(data)-1] != 0xD9 {
		t.Error("output does not end with FFD9 (EOI marker)")
	}

	dec, err := DecodeRGB(data)
	if err != nil {
		t.Fatalf("DecodeRGB: %v", err)
	}
	if dec.Width != 16 || dec.Height != 9 {
		t.Fatalf("unexpected dimensions: %dx%d", dec.Width, dec.Height)
	}
	if err := dec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// A flat image survives quality 100 within a couple of levels.
	r, g, b := dec.At(8, 4)
	if absDiff(r, 200) > 3 || absDiff(g, 100) > 3 || absDiff(b, 50) > 3 {
		t.Errorf("center pixel drifted: (%d,%d,%d)", r, g, b)
	}
	if dec.ICC != nil {
		t.Errorf("unexpected ICC profile of %d bytes", len(dec.ICC))
	}
}

func TestEncodeEmbedsICC(t *testing.T) {
	src := solidImage(t, 4, 4, 10, 20, 30)
	src.ICC = make([]byte, 200)
	binary.BigEndian.PutUint32(src.ICC[0:4], 200)
	copy(src.ICC[16:20], "RGB ")

	data, err := EncodeRGB(src, EncoderOptions{Quality: 75})
	if err != nil {
		t.Fatalf("EncodeRGB: %v", err)
	}

	hdr, err := ReadHeader(data)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Width != 4 || hdr.Height != 4 || hdr.Components != 3 || hdr.ColorSpace != ColorYCbCr || hdr.Progressive {
		t.Errorf("unexpected header %+v", hdr)
	}
	if err := hdr.CheckRGB(); err != nil {
		t.Errorf("CheckRGB: %v", err)
	}
	if !bytes.Equal(hdr.ICC, src.ICC) {
		t.Errorf("embedded ICC mismatch: got %d bytes", len(hdr.ICC))
	}

	dec, err := DecodeRGB(data)
	if err != nil {
		t.Fatalf("DecodeRGB: %v", err)
	}
	if !bytes.Equal(dec.ICC, src.ICC) {
		t.Error("DecodeRGB did not return the embedded ICC profile")
	}
}

func TestEncodeRejectsInvalid(t *testing.T) {
	if _, err := EncodeRGB(&ir.RGBImage{Width: 2, Height: 2, Pixels: make([]byte, 3)}, EncoderOptions{}); err == nil {
		t.Error("expected error for short pixel buffer")
	}
	if _, err := EncodeRGB(&ir.RGBImage{}, EncoderOptions{}); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeRGB([]byte("not a jpeg")); err == nil {
		t.Error("expected error for non-JPEG data")
	}
	if _, err := DecodeRGB([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}); err == nil {
		t.Error("expected error for truncated JPEG")
	}
}

func TestChunkAndExtractICC(t *testing.T) {
	profile := make([]byte, maxChunkDataSize*2+10)
	for i := range profile {
		profile[i] = byte(i)
	}
	chunks, err := ChunkICC(profile)
	if err != nil {
		t.Fatalf("ChunkICC: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	// out of order, with an unrelated APP2 payload mixed in
	markers := [][]byte{chunks[2], []byte("MPF\x00junk"), chunks[0], chunks[1]}
	got, err := ExtractICC(markers)
	if err != nil {
		t.Fatalf("ExtractICC: %v", err)
	}
	if !bytes.Equal(got, profile) {
		t.Error("reassembled profile differs")
	}

	if _, err := ExtractICC([][]byte{chunks[0], chunks[0], chunks[1]}); err == nil {
		t.Error("expected error for duplicate chunk")
	}
	if _, err := ExtractICC(chunks[:2]); err == nil {
		t.Error("expected error for missing chunk")
	}
	if p, err := ExtractICC(nil); p != nil || err != nil {
		t.Errorf("no markers: got %v, %v", p, err)
	}
	if _, err := ChunkICC(nil); err == nil {
		t.Error("expected error for empty profile")
	}
}

func TestGenerateQuantTables(t *testing.T) {
	luma, chroma := GenerateQuantTables(100)
	for i := range luma {
		if luma[i] != 1 || chroma[i] != 1 {
			t.Fatalf("quality 100 should give all-ones tables, got luma[%d]=%d chroma[%d]=%d", i, luma[i], i, chroma[i])
		}
	}
	luma, _ = GenerateQuantTables(50)
	if luma != ScaleQuantTable(stdLuminanceQuant, 50) || luma[0] != 16 {
		t.Errorf("quality 50 should reproduce the Annex K table, luma[0]=%d", luma[0])
	}
}

func TestCheckRGB(t *testing.T) {
	tests := []struct {
		cs ColorSpace
		ok bool
	}{
		{ColorGray, true},
		{ColorRGB, true},
		{ColorYCbCr, true},
		{ColorCMYK, false},
		{ColorYCCK, false},
		{ColorUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.cs.String(), func(t *testing.T) {
			err := (&Header{Components: 4, ColorSpace: tt.cs}).CheckRGB()
			if tt.ok && err != nil {
				t.Errorf("CheckRGB: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrUnsupportedColorSpace) {
				t.Errorf("CheckRGB = %v, want ErrUnsupportedColorSpace", err)
			}
		})
	}
}

// segment builds a marker segment with a big-endian length prefix.
func segment(marker byte, payload string) []byte {
	n := len(payload) + 2
	return append([]byte{0xFF, marker, byte(n >> 8), byte(n)}, payload...)
}

func TestApp2Segments(t *testing.T) {
	var data []byte
	data = append(data, 0xFF, 0xD8)
	data = append(data, segment(0xE0, "JFIF\x00")...)
	data = append(data, segment(0xE2, "ICC_PROFILE\x00\x01\x01abc")...)
	data = append(data, 0xFF) // fill byte
	data = append(data, segment(0xE2, "MPF\x00")...)
	data = append(data, segment(0xDA, "scan")...)
	data = append(data, segment(0xE2, "after scan")...)

	segs, err := app2Segments(data)
	if err != nil {
		t.Fatalf("app2Segments: %v", err)
	}
	if len(segs) != 2 || string(segs[0]) != "ICC_PROFILE\x00\x01\x01abc" || string(segs[1]) != "MPF\x00" {
		t.Errorf("segments = %q", segs)
	}

	truncated := append([]byte{0xFF, 0xD8}, segment(0xE2, "ICC_PROFILE")...)
	if _, err := app2Segments(truncated[:len(truncated)-3]); err == nil {
		t.Error("expected error for truncated segment")
	}
	if _, err := app2Segments([]byte{0xFF, 0xD8, 0x12, 0x34}); err == nil {
		t.Error("expected error for missing marker")
	}
}

func TestReadHeaderRejectsGarbage(t *testing.T) {
	if _, err := ReadHeader([]byte("GIF89a")); err == nil {
		t.Error("expected error for non-JPEG data")
	}
	if _, err := ReadHeader([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}); err == nil {
		t.Error("expected error for truncated header")
	}
}
