package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/davesmith10/pixelbench/internal/color"
	"github.com/davesmith10/pixelbench/internal/config"
)

// answers is what the interactive prompt collects.
type answers struct {
	Path    string
	Mode    color.Mode
	Upscale bool
	Rotate  bool
}

// prompter reads whitespace-separated answers, like a terminal scanf.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &prompter{sc: sc, out: out}
}

func (p *prompter) next(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errors.New("reading input: unexpected end of input")
	}
	return p.sc.Text(), nil
}

func (p *prompter) yesNo(question string) (bool, error) {
	s, err := p.next(question)
	if err != nil {
		return false, err
	}
	return s[0] == 'y' || s[0] == 'Y', nil
}

// promptAnswers asks for the image path, color mode, upscale and rotate.
// Menu choices outside 1-4 fall back to grayscale with a warning.
func promptAnswers(in io.Reader, out io.Writer, target config.Size) (answers, error) {
	var a answers
	p := newPrompter(in, out)

	fmt.Fprintf(out, "Single and Multi-Threaded Image Processor\n\n")

	path, err := p.next("Enter the path to the input image: ")
	if err != nil {
		return a, err
	}
	a.Path = path

	fmt.Fprintf(out, "\nSelect Color Mode:\n")
	for i, m := range color.Modes {
		fmt.Fprintf(out, "%d. %s\n", i+1, modeTitle(m))
	}
	choice, err := p.next(fmt.Sprintf("Enter choice (1-%d): ", len(color.Modes)))
	if err != nil {
		return a, err
	}
	n, err := strconv.Atoi(choice)
	if err != nil {
		return a, fmt.Errorf("invalid mode choice %q", choice)
	}
	m, ok := color.ModeFromChoice(n)
	if !ok {
		fmt.Fprintf(out, "Invalid choice. Defaulting to Grayscale.\n")
	}
	a.Mode = m

	if a.Upscale, err = p.yesNo(fmt.Sprintf("\nDo you want to upscale the image to %dx%d? (y/n): ", target.Width, target.Height)); err != nil {
		return a, err
	}
	if a.Rotate, err = p.yesNo("Do you want to rotate the image by 90 degrees? (y/n): "); err != nil {
		return a, err
	}
	return a, nil
}

func modeTitle(m color.Mode) string {
	switch m {
	case color.Grayscale:
		return "Grayscale"
	case color.IsolateRed:
		return "Red"
	case color.IsolateGreen:
		return "Green"
	case color.IsolateBlue:
		return "Blue"
	default:
		return m.String()
	}
}
