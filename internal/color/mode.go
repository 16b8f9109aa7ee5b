package color

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the per-pixel transform applied by the runners.
type Mode int

// Mode constants, in menu order.
const (
	Grayscale Mode = iota
	IsolateRed
	IsolateGreen
	IsolateBlue
)

// Modes lists every valid mode in menu order.
var Modes = []Mode{Grayscale, IsolateRed, IsolateGreen, IsolateBlue}

func (m Mode) String() string {
	switch m {
	case Grayscale:
		return "grayscale"
	case IsolateRed:
		return "red"
	case IsolateGreen:
		return "green"
	case IsolateBlue:
		return "blue"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= Grayscale && m <= IsolateBlue
}

// ParseMode converts a mode name or menu number (1-4) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grayscale", "greyscale", "gray", "grey":
		return Grayscale, nil
	case "red":
		return IsolateRed, nil
	case "green":
		return IsolateGreen, nil
	case "blue":
		return IsolateBlue, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if m, ok := ModeFromChoice(n); ok {
			return m, nil
		}
	}
	return Grayscale, fmt.Errorf("unknown color mode: %q", s)
}

// ModeFromChoice maps a 1-based menu choice to a Mode. Out-of-range
// choices return Grayscale and false.
func ModeFromChoice(choice int) (Mode, bool) {
	if choice < 1 || choice > len(Modes) {
		return Grayscale, false
	}
	return Modes[choice-1], true
}

// Luma weights for Grayscale.
const (
	wR = 0.3
	wG = 0.59
	wB = 0.11
)

// Gray returns the truncated luma of (r, g, b). Each product is rounded to
// float64 on its own so no fused multiply-add can shift the truncation.
func Gray(r, g, b uint8) uint8 {
	return uint8(float64(wR*float64(r)) + float64(wG*float64(g)) + float64(wB*float64(b)))
}

// Pixel applies m to a single triple. Unknown modes return the input.
func (m Mode) Pixel(r, g, b uint8) (uint8, uint8, uint8) {
	switch m {
	case Grayscale:
		v := Gray(r, g, b)
		return v, v, v
	case IsolateRed:
		return r, 0, 0
	case IsolateGreen:
		return 0, g, 0
	case IsolateBlue:
		return 0, 0, b
	default:
		return r, g, b
	}
}

// Apply transforms interleaved RGB pixels in place. len(pixels) must be a
// multiple of 3.
func Apply(m Mode, pixels []byte) error {
	if !m.Valid() {
		return fmt.Errorf("apply: unknown color mode %d", int(m))
	}
	if len(pixels)%3 != 0 {
		return fmt.Errorf("apply: %d bytes is not a whole number of RGB pixels", len(pixels))
	}

	switch m {
	case Grayscale:
		for i := 0; i < len(pixels); i += 3 {
			v := Gray(pixels[i], pixels[i+1], pixels[i+2])
			pixels[i], pixels[i+1], pixels[i+2] = v, v, v
		}
	case IsolateRed:
		for i := 0; i < len(pixels); i += 3 {
			pixels[i+1], pixels[i+2] = 0, 0
		}
	case IsolateGreen:
		for i := 0; i < len(pixels); i += 3 {
			pixels[i], pixels[i+2] = 0, 0
		}
	case IsolateBlue:
		for i := 0; i < len(pixels); i += 3 {
			pixels[i], pixels[i+1] = 0, 0
		}
	}
	return nil
}
