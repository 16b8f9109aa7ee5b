// Package report compares sequential and parallel timings and renders the
// comparison as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Labels used by the pipeline for its two runs.
const (
	LabelSingle = "Single-Threaded"
	LabelMulti  = "Multi-Threaded"
)

// DefaultBarWidth is the number of columns of the longest bar.
const DefaultBarWidth = 50

// Timing is the wall-clock cost of one runner.
type Timing struct {
	Label   string
	Elapsed time.Duration
}

// Seconds returns the elapsed time in seconds.
func (t Timing) Seconds() float64 {
	return t.Elapsed.Seconds()
}

// Comparison is the outcome of comparing the two runs.
type Comparison struct {
	Single      Timing
	Multi       Timing
	Faster      string  // label of the faster run
	Slower      string  // label of the slower run
	Improvement float64 // (slower - faster) / slower * 100
}

// Compare computes which run was faster and by how much. A tie is reported
// in favour of the single-threaded run with a 0% improvement.
func Compare(single, multi Timing) Comparison {
	c := Comparison{Single: single, Multi: multi}
	fast, slow := single, multi
	if multi.Elapsed < single.Elapsed {
		fast, slow = multi, single
	}
	c.Faster, c.Slower = fast.Label, slow.Label
	if slow.Elapsed > 0 {
		c.Improvement = float64(slow.Elapsed-fast.Elapsed) / float64(slow.Elapsed) * 100
	}
	return c
}

// Bar returns a width-column bar whose filled length is proportional to
// elapsed/longest.
func Bar(elapsed, longest time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	n := 0
	if longest > 0 {
		n = int(float64(elapsed) / float64(longest) * float64(width))
	}
	n = min(max(n, 0), width)
	return strings.Repeat("#", n) + strings.Repeat(" ", width-n)
}

// Render writes the human-readable comparison.
func Render(w io.Writer, c Comparison, barWidth int) error {
	longest := max(c.Single.Elapsed, c.Multi.Elapsed)
	pad := max(len(c.Single.Label), len(c.Multi.Label)) + 1

	var b strings.Builder
	fmt.Fprintf(&b, "\nPerformance Comparison:\n\n")
	for _, t := range []Timing{c.Single, c.Multi} {
		fmt.Fprintf(&b, "%-*s %.6f seconds\n", pad, t.Label+":", t.Seconds())
	}
	fmt.Fprintf(&b, "\nExecution Time Comparison:\n\n")
	for _, t := range []Timing{c.Single, c.Multi} {
		fmt.Fprintf(&b, "%-*s [%s] %.6f s\n", pad, t.Label+":", Bar(t.Elapsed, longest, barWidth), t.Seconds())
	}
	fmt.Fprintf(&b, "\nConclusion:\n")
	fmt.Fprintf(&b, "%s processing is faster by %.2f%% compared to %s processing.\n",
		c.Faster, c.Improvement, strings.ToLower(c.Slower))

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonTiming struct {
	Label   string  `json:"label"`
	Seconds float64 `json:"elapsedSeconds"`
}

type jsonComparison struct {
	Single         jsonTiming `json:"single"`
	Multi          jsonTiming `json:"multi"`
	Faster         string     `json:"faster"`
	ImprovementPct float64    `json:"improvementPercent"`
}

// WriteJSON writes the comparison as indented JSON.
func WriteJSON(w io.Writer, c Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonComparison{
		Single:         jsonTiming{Label: c.Single.Label, Seconds: c.Single.Seconds()},
		Multi:          jsonTiming{Label: c.Multi.Label, Seconds: c.Multi.Seconds()},
		Faster:         c.Faster,
		ImprovementPct: c.Improvement,
	})
}
