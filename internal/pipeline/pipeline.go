package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/davesmith10/pixelbench/internal/codec"
	"github.com/davesmith10/pixelbench/internal/color"
	"github.com/davesmith10/pixelbench/internal/geometry"
	"github.com/davesmith10/pixelbench/internal/ir"
	"github.com/davesmith10/pixelbench/internal/jpeg"
	"github.com/davesmith10/pixelbench/internal/report"
	"github.com/davesmith10/pixelbench/internal/runner"
)

// Output file base names, completed with the format's extension.
const (
	SingleOutputName = "output_single"
	MultiOutputName  = "output_multi"
)

// Codec loads and stores images for the pipeline.
type Codec interface {
	Decode(path string) (*ir.RGBImage, error)
	Encode(path string, img *ir.RGBImage, quality int) error
}

// Options controls a benchmark run.
type Options struct {
	Mode    color.Mode
	Upscale bool // resample to TargetWidth x TargetHeight
	Rotate  bool // rotate 90° before resampling

	TargetWidth  int // default geometry.DefaultTargetWidth
	TargetHeight int // default geometry.DefaultTargetHeight
	Workers      int // default runner.DefaultWorkers
	Quality      int // JPEG quality, default jpeg.DefaultQuality

	OutputDir string       // default "."
	Format    codec.Format // default JPEG

	// Progress receives human-readable progress messages.
	Progress io.Writer
	// Trace and TraceDone, if set, are passed to the parallel runner as its
	// Trace and Done hooks.
	Trace     func(worker int, rows runner.RowRange)
	TraceDone func(worker int, rows runner.RowRange)
}

func (o Options) withDefaults() Options {
	if o.TargetWidth == 0 {
		o.TargetWidth = geometry.DefaultTargetWidth
	}
	if o.TargetHeight == 0 {
		o.TargetHeight = geometry.DefaultTargetHeight
	}
	if o.Workers == 0 {
		o.Workers = runner.DefaultWorkers
	}
	if o.Quality == 0 {
		o.Quality = jpeg.DefaultQuality
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Format == "" {
		o.Format = codec.JPEG
	}
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	return o
}

func (o Options) parallel() runner.Parallel {
	return runner.Parallel{Workers: o.Workers, Trace: o.Trace, Done: o.TraceDone}
}

// Result holds the output of a benchmark run.
type Result struct {
	Width        int // dimensions after geometry
	Height       int
	SingleOutput string
	MultiOutput  string
	Comparison   report.Comparison
}

// Prepare decodes path and applies the requested rotation and resampling.
// Each call returns an independent buffer.
func Prepare(c Codec, path string, opts Options) (*ir.RGBImage, error) {
	opts = opts.withDefaults()

	img, err := c.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	// Gray or CMYK profiles no longer describe the decoded RGB pixels.
	img.ICC = color.RGBProfile(img.ICC)

	if opts.Rotate {
		if img, err = geometry.Rotate90(img); err != nil {
			return nil, err
		}
	}
	if opts.Upscale {
		if img, err = geometry.ResampleTo(img, opts.TargetWidth, opts.TargetHeight); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Run executes the benchmark: the sequential and parallel runners each
// process their own freshly prepared copy of inputPath, each result is
// encoded, and the two timings are compared.
func Run(c Codec, inputPath string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("unknown color mode %d", int(opts.Mode))
	}
	out := opts.Progress
	res := &Result{
		SingleOutput: filepath.Join(opts.OutputDir, SingleOutputName+"."+opts.Format.Ext()),
		MultiOutput:  filepath.Join(opts.OutputDir, MultiOutputName+"."+opts.Format.Ext()),
	}

	// 1. Sequential
	img, err := Prepare(c, inputPath, opts)
	if err != nil {
		return nil, err
	}
	res.Width, res.Height = img.Width, img.Height

	fmt.Fprintf(out, "\nStarting %s Processing...\n", report.LabelSingle)
	elapsed, err := runner.Sequential(img, opts.Mode)
	if err != nil {
		return nil, err
	}
	single := report.Timing{Label: report.LabelSingle, Elapsed: elapsed}
	fmt.Fprintf(out, "%s Processing Time: %.6f seconds\n", single.Label, single.Seconds())

	if err := c.Encode(res.SingleOutput, img, opts.Quality); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintf(out, "%s Output saved as %s\n", single.Label, res.SingleOutput)

	// 2. Parallel, from a fresh decode so the sequential result is not reused
	fmt.Fprintf(out, "\nReloading image for %s Processing...\n", report.LabelMulti)
	img, err = Prepare(c, inputPath, opts)
	if err != nil {
		return nil, err
	}
	if img.Width != res.Width || img.Height != res.Height {
		return nil, fmt.Errorf("reloaded image is %dx%d, first load was %dx%d",
			img.Width, img.Height, res.Width, res.Height)
	}

	fmt.Fprintf(out, "\nStarting %s Processing...\n", report.LabelMulti)
	elapsed, err = opts.parallel().Run(img, opts.Mode)
	if err != nil {
		return nil, err
	}
	multi := report.Timing{Label: report.LabelMulti, Elapsed: elapsed}
	fmt.Fprintf(out, "%s Processing Time: %.6f seconds\n", multi.Label, multi.Seconds())

	if err := c.Encode(res.MultiOutput, img, opts.Quality); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintf(out, "%s Output saved as %s\n", multi.Label, res.MultiOutput)

	res.Comparison = report.Compare(single, multi)
	return res, nil
}

// Processed describes a single transform written by Process.
type Processed struct {
	Width  int
	Height int
	Timing report.Timing
}

// Process prepares inputPath, applies opts.Mode with one runner and writes
// the result to outputPath. parallel selects the row-partitioned runner.
func Process(c Codec, inputPath, outputPath string, opts Options, parallel bool) (*Processed, error) {
	opts = opts.withDefaults()

	img, err := Prepare(c, inputPath, opts)
	if err != nil {
		return nil, err
	}

	var t report.Timing
	if parallel {
		t.Label = report.LabelMulti
		t.Elapsed, err = opts.parallel().Run(img, opts.Mode)
	} else {
		t.Label = report.LabelSingle
		t.Elapsed, err = runner.Sequential(img, opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	if err := c.Encode(outputPath, img, opts.Quality); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return &Processed{Width: img.Width, Height: img.Height, Timing: t}, nil
}
