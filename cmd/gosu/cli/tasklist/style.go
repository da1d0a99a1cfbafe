package tasklist

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var statusColors = map[Status]lipgloss.Color{
	StatusPending:    "11",
	StatusInProgress: "12",
	StatusDone:       "10",
	StatusReview:     "14",
	StatusDeferred:   "9",
}

// Styler colors statuses when output goes to a terminal.
type Styler struct {
	renderer *lipgloss.Renderer
	color    bool
}

// NewStyler returns a Styler for w. Colors are on only when w is a terminal.
func NewStyler(w io.Writer) *Styler {
	color := false
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		color = true
	}
	return newStyler(w, color)
}

func newStyler(w io.Writer, color bool) *Styler {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI
	}
	return &Styler{
		renderer: lipgloss.NewRenderer(w, termenv.WithProfile(profile)),
		color:    color,
	}
}

// Status renders a status name, colored when enabled.
func (s *Styler) Status(st Status) string {
	if !s.color {
		return string(st)
	}
	return s.renderer.NewStyle().Foreground(statusColors[st]).Render(string(st))
}

// quoted renders a status for sentences: colored, or in single quotes
// when colors are off.
func (s *Styler) quoted(st Status) string {
	if !s.color {
		return "'" + string(st) + "'"
	}
	return s.Status(st)
}
