package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/yuwenliu/ytman/internal/catalog"
)

// Decision is the reviewer's verdict on a single proposed change.
type Decision int

const (
	Approve Decision = iota
	Reject
	Quit
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Comparison is one proposed change shown to the reviewer: the current
// metadata next to the generated draft.
type Comparison struct {
	VideoID     string
	Position    int // 1-based position in the run
	Total       int
	Title       string
	Description string
	Tags        []string
	Draft       *catalog.MetadataDraft
}

// Reviewer decides the fate of each proposed change.
type Reviewer interface {
	Present(c Comparison) (Decision, error)
}

// Terminal prompts a human on the terminal for each comparison.
type Terminal struct {
	in      *bufio.Reader
	out     io.Writer
	theme   theme
	autoYes bool
}

// NewTerminal creates a reviewer reading answers from in and rendering to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		theme: defaultTheme,
	}
}

// NewAutoApprove creates a reviewer that approves everything without
// prompting. Used by non-interactive runs.
func NewAutoApprove(out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		theme:   defaultTheme,
		autoYes: true,
	}
}

// Present renders the before/after comparison and asks for y/n/q.
func (t *Terminal) Present(c Comparison) (Decision, error) {
	fmt.Fprint(t.out, t.renderComparison(c))

	if t.autoYes {
		fmt.Fprintln(t.out, t.theme.hintStyle().Render("auto-approved"))
		return Approve, nil
	}

	for {
		fmt.Fprint(t.out, t.theme.promptStyle().Render("Apply this update? [y/n/q] "))
		line, err := t.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return Quit, nil
			}
			return Quit, fmt.Errorf("read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return Approve, nil
		case "n", "no":
			return Reject, nil
		case "q", "quit":
			return Quit, nil
		}
		fmt.Fprintln(t.out, t.theme.hintStyle().Render("please answer y, n, or q"))
	}
}
