package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/davesmith10/pixelbench/internal/color"
	"github.com/davesmith10/pixelbench/internal/config"
)

var testTarget = config.Size{Width: 1920, Height: 1080}

func TestPromptAnswers(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("photo.jpg\n3\ny\nN\n")

	a, err := promptAnswers(in, &out, testTarget)
	if err != nil {
		t.Fatalf("promptAnswers: %v", err)
	}
	want := answers{Path: "photo.jpg", Mode: color.IsolateGreen, Upscale: true, Rotate: false}
	if a != want {
		t.Errorf("answers = %+v, want %+v", a, want)
	}

	for _, s := range []string{
		"Enter the path to the input image: ",
		"1. Grayscale",
		"4. Blue",
		"upscale the image to 1920x1080",
		"rotate the image by 90 degrees",
	} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("prompt output missing %q", s)
		}
	}
}

func TestPromptAnswersInvalidChoice(t *testing.T) {
	var out bytes.Buffer
	a, err := promptAnswers(strings.NewReader("in.png 9 n y"), &out, testTarget)
	if err != nil {
		t.Fatalf("promptAnswers: %v", err)
	}
	if a.Mode != color.Grayscale {
		t.Errorf("mode = %v, want grayscale", a.Mode)
	}
	if !a.Rotate || a.Upscale {
		t.Errorf("upscale=%v rotate=%v, want false/true", a.Upscale, a.Rotate)
	}
	if !strings.Contains(out.String(), "Invalid choice. Defaulting to Grayscale.") {
		t.Error("missing invalid choice warning")
	}
}

func TestPromptAnswersErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no mode", "in.png"},
		{"non-numeric mode", "in.png red y y"},
		{"no rotate answer", "in.png 1 y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if _, err := promptAnswers(strings.NewReader(tt.input), &out, testTarget); err == nil {
				t.Error("expected error")
			}
		})
	}
}
