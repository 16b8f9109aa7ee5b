package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesmith10/pixelbench/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "pixelbench",
	Short:         "Compare single- and multi-threaded per-pixel color transforms",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (workers, target, quality, format, outputDir, barWidth)")
}

// loadConfig returns the defaults, overlaid with --config if given.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
