package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/davesmith10/pixelbench/internal/codec"
	"github.com/davesmith10/pixelbench/internal/color"
	"github.com/davesmith10/pixelbench/internal/config"
	"github.com/davesmith10/pixelbench/internal/pipeline"
	"github.com/davesmith10/pixelbench/internal/report"
	"github.com/davesmith10/pixelbench/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark a color transform sequentially and across parallel workers",
	Long: `Run decodes the input, optionally rotates it 90 degrees and resamples it to
the target resolution, then applies the color mode twice: once on a single
goroutine and once split by rows across the configured workers. Each run
starts from a freshly decoded copy. Both results are written
(output_single.<ext>, output_multi.<ext>) and the timings compared.

Without --input the options are asked for interactively.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("input", "i", "", "Input image (prompted for if empty)")
	runCmd.Flags().StringP("mode", "m", "grayscale", "Color mode: grayscale, red, green, blue (or 1-4)")
	runCmd.Flags().Bool("upscale", false, "Resample to the target resolution")
	runCmd.Flags().Bool("rotate", false, "Rotate 90 degrees before resampling")
	runCmd.Flags().Bool("interactive", false, "Prompt for options even if --input is set")
	runCmd.Flags().Bool("json", false, "Print the comparison as JSON")
	runCmd.Flags().BoolP("verbose", "v", false, "Print the rows each worker processes")
	addRunConfigFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// addRunConfigFlags registers the flags that override config file values.
func addRunConfigFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().Int("workers", def.Workers, "Number of parallel workers")
	cmd.Flags().Int("width", def.Target.Width, "Target width for --upscale")
	cmd.Flags().Int("height", def.Target.Height, "Target height for --upscale")
	cmd.Flags().Int("quality", def.Quality, "JPEG quality (1-100)")
	cmd.Flags().String("format", def.Format, "Output format: jpg, png, bmp, tiff")
	cmd.Flags().String("out-dir", def.OutputDir, "Directory for output files")
}

// resolveConfig loads --config and applies any explicitly set flags on top.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("width") {
		cfg.Target.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.Target.Height, _ = f.GetInt("height")
	}
	if f.Changed("quality") {
		cfg.Quality, _ = f.GetInt("quality")
	}
	if f.Changed("format") {
		cfg.Format, _ = f.GetString("format")
	}
	if f.Changed("out-dir") {
		cfg.OutputDir, _ = f.GetString("out-dir")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// pipelineOptions builds pipeline options from the resolved config.
func pipelineOptions(cfg config.Config) (pipeline.Options, error) {
	format, err := codec.ParseFormat(cfg.Format)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		TargetWidth:  cfg.Target.Width,
		TargetHeight: cfg.Target.Height,
		Workers:      cfg.Workers,
		Quality:      cfg.Quality,
		OutputDir:    cfg.OutputDir,
		Format:       format,
	}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	modeStr, _ := cmd.Flags().GetString("mode")
	upscale, _ := cmd.Flags().GetBool("upscale")
	rotate, _ := cmd.Flags().GetBool("rotate")
	interactive, _ := cmd.Flags().GetBool("interactive")
	asJSON, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}

	if inputPath == "" || interactive {
		a, err := promptAnswers(cmd.InOrStdin(), out, cfg.Target)
		if err != nil {
			return err
		}
		inputPath = a.Path
		opts.Mode, opts.Upscale, opts.Rotate = a.Mode, a.Upscale, a.Rotate
	} else {
		mode, err := color.ParseMode(modeStr)
		if err != nil {
			return err
		}
		opts.Mode, opts.Upscale, opts.Rotate = mode, upscale, rotate
	}

	if !asJSON {
		opts.Progress = out
	}
	if verbose {
		var mu sync.Mutex
		opts.Trace = func(worker int, rows runner.RowRange) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(cmd.ErrOrStderr(), "Worker %d processing rows %d to %d\n", worker, rows.Start, rows.End-1)
		}
		opts.TraceDone = func(worker int, _ runner.RowRange) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(cmd.ErrOrStderr(), "Worker %d completed processing.\n", worker)
		}
	}

	result, err := pipeline.Run(codec.Files{}, inputPath, opts)
	if err != nil {
		return err
	}

	if asJSON {
		return report.WriteJSON(out, result.Comparison)
	}
	fmt.Fprintf(out, "\nProcessed %dx%d image, mode %s, %d workers\n", result.Width, result.Height, opts.Mode, opts.Workers)
	return report.Render(out, result.Comparison, cfg.BarWidth)
}
