package main

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesmith10/pixelbench/internal/codec"
	"github.com/davesmith10/pixelbench/internal/color"
	"github.com/davesmith10/pixelbench/internal/jpeg"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect image dimensions, format and ICC profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		return &codec.DecodeError{Path: path, Err: err}
	}

	fmt.Fprintf(out, "File:       %s\n", path)

	var icc []byte
	if jpeg.IsJPEG(data) {
		hdr, err := jpeg.ReadHeader(data)
		if err != nil {
			return &codec.DecodeError{Path: path, Err: err}
		}
		fmt.Fprintf(out, "Format:     jpeg (progressive: %v)\n", hdr.Progressive)
		fmt.Fprintf(out, "Dimensions: %d x %d\n", hdr.Width, hdr.Height)
		fmt.Fprintf(out, "Components: %d\n", hdr.Components)
		fmt.Fprintf(out, "Color space: %s\n", hdr.ColorSpace)
		if err := hdr.CheckRGB(); err != nil {
			fmt.Fprintf(out, "Decodable:  no (%v)\n", err)
		}
		icc = hdr.ICC
	} else {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return &codec.DecodeError{Path: path, Err: err}
		}
		fmt.Fprintf(out, "Format:     %s\n", format)
		fmt.Fprintf(out, "Dimensions: %d x %d\n", cfg.Width, cfg.Height)
	}
	fmt.Fprintf(out, "File size:  %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))

	if icc != nil {
		pi, err := color.ParseProfileInfo(icc)
		if err != nil {
			fmt.Fprintf(out, "ICC profile: present (%d bytes) but invalid: %v\n", len(icc), err)
		} else {
			fmt.Fprintf(out, "ICC profile: %d bytes\n", len(icc))
			fmt.Fprintf(out, "  Version:     %s\n", pi.Version)
			fmt.Fprintf(out, "  Color space: %s\n", color.ColorSpaceName(pi.ColorSpace))
			fmt.Fprintf(out, "  PCS:         %s\n", color.ColorSpaceName(pi.PCS))
			fmt.Fprintf(out, "  Class:       %s\n", color.ProfileClassName(pi.Class))
		}
	} else {
		fmt.Fprintln(out, "ICC profile: none")
	}

	return nil
}
