package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesmith10/pixelbench/internal/codec"
	"github.com/davesmith10/pixelbench/internal/ir"
	"github.com/davesmith10/pixelbench/internal/jpeg"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode raw interleaved RGB data to an image file",
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringP("input", "i", "", "Input raw RGB file (3 bytes per pixel)")
	encodeCmd.Flags().StringP("output", "o", "", "Output image (format from extension)")
	encodeCmd.Flags().String("icc", "", "ICC profile to embed (JPEG only)")
	encodeCmd.Flags().Int("width", 0, "Image width")
	encodeCmd.Flags().Int("height", 0, "Image height")
	encodeCmd.Flags().Int("quality", jpeg.DefaultQuality, "JPEG quality (1-100)")
	encodeCmd.MarkFlagRequired("input")
	encodeCmd.MarkFlagRequired("output")
	encodeCmd.MarkFlagRequired("width")
	encodeCmd.MarkFlagRequired("height")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	iccPath, _ := cmd.Flags().GetString("icc")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	quality, _ := cmd.Flags().GetInt("quality")

	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	pixels, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	img := &ir.RGBImage{Width: width, Height: height, Pixels: pixels}
	if err := img.Validate(); err != nil {
		return fmt.Errorf("raw input %s: %w", inputPath, err)
	}

	if iccPath != "" {
		img.ICC, err = os.ReadFile(iccPath)
		if err != nil {
			return fmt.Errorf("reading ICC profile: %w", err)
		}
	}

	if err := codec.Encode(outputPath, img, quality); err != nil {
		return err
	}

	st, err := os.Stat(outputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Encoded %dx%d RGB → %s (%d bytes)\n", width, height, outputPath, st.Size())
	return nil
}
