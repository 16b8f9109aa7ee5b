package runner

import "fmt"

// DefaultWorkers is the number of parallel workers used when none is configured.
const DefaultWorkers = 4

// RowRange is a half-open span of image rows [Start, End).
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Partition splits [0, height) into exactly workers contiguous ranges of
// height/workers rows. The last range always ends at height and absorbs
// the remainder.
func Partition(height, workers int) ([]RowRange, error) {
	if workers < 1 {
		return nil, fmt.Errorf("partition: need at least 1 worker, got %d", workers)
	}
	if height < 0 {
		return nil, fmt.Errorf("partition: negative height %d", height)
	}

	per := height / workers
	ranges := make([]RowRange, workers)
	for i := range ranges {
		ranges[i] = RowRange{Start: i * per, End: (i + 1) * per}
	}
	ranges[workers-1].End = height
	return ranges, nil
}
