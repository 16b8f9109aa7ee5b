// Package runner applies a color mode to every pixel of an image, either on
// the calling goroutine or split by rows across a fixed set of workers.
package runner

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davesmith10/pixelbench/internal/color"
	"github.com/davesmith10/pixelbench/internal/ir"
)

// WorkerError reports a failed parallel worker. Any worker failure fails
// the whole run.
type WorkerError struct {
	Worker int
	Rows   RowRange
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d (rows %s): %v", e.Worker, e.Rows, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// Sequential applies mode to img in row-major order on the calling
// goroutine and returns the wall-clock time of the pass.
func Sequential(img *ir.RGBImage, mode color.Mode) (time.Duration, error) {
	if err := img.Validate(); err != nil {
		return 0, fmt.Errorf("sequential: %w", err)
	}
	if !mode.Valid() {
		return 0, fmt.Errorf("sequential: unknown color mode %d", int(mode))
	}

	start := time.Now()
	for y := 0; y < img.Height; y++ {
		if err := color.Apply(mode, img.Row(y)); err != nil {
			return 0, fmt.Errorf("sequential: row %d: %w", y, err)
		}
	}
	return time.Since(start), nil
}

// Parallel applies a color mode with one goroutine per row range.
type Parallel struct {
	// Workers is the number of row ranges and goroutines. Zero means DefaultWorkers.
	Workers int

	// Trace, if set, is called by each worker before it touches its rows.
	// It runs concurrently and must be safe for that.
	Trace func(worker int, rows RowRange)

	// Done, if set, is called by each worker after its rows are written.
	// Same concurrency rules as Trace.
	Done func(worker int, rows RowRange)
}

func (p Parallel) workers() int {
	if p.Workers == 0 {
		return DefaultWorkers
	}
	return p.Workers
}

// Run partitions img into row ranges, hands each worker the sub-slice of
// Pixels covering only its rows, and waits for all of them. The returned
// duration covers spawn, work and join.
func (p Parallel) Run(img *ir.RGBImage, mode color.Mode) (time.Duration, error) {
	if err := img.Validate(); err != nil {
		return 0, fmt.Errorf("parallel: %w", err)
	}
	if !mode.Valid() {
		return 0, fmt.Errorf("parallel: unknown color mode %d", int(mode))
	}
	ranges, err := Partition(img.Height, p.workers())
	if err != nil {
		return 0, fmt.Errorf("parallel: %w", err)
	}

	stride := img.Stride()
	start := time.Now()

	var g errgroup.Group
	for i, rr := range ranges {
		i, rr := i, rr
		lo, hi := rr.Start*stride, rr.End*stride
		// Capacity is capped so no worker can reach past its own rows.
		chunk := img.Pixels[lo:hi:hi]
		g.Go(func() error {
			return p.work(i, rr, mode, chunk)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("parallel: %w", err)
	}
	return time.Since(start), nil
}

func (p Parallel) work(id int, rows RowRange, mode color.Mode, chunk []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerError{Worker: id, Rows: rows, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if p.Trace != nil {
		p.Trace(id, rows)
	}
	if err := color.Apply(mode, chunk); err != nil {
		return &WorkerError{Worker: id, Rows: rows, Err: err}
	}
	if p.Done != nil {
		p.Done(id, rows)
	}
	return nil
}
