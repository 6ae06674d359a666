package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/grovetools/phantomit/tui/theme"
)

const defaultDividerWidth = 60

// PrettyLogger writes human-facing console output.
type PrettyLogger struct {
	writer io.Writer
	theme  *theme.Theme
	width  int
}

// NewPrettyLogger creates a pretty logger writing to stderr.
func NewPrettyLogger() *PrettyLogger {
	return NewPrettyLoggerTo(os.Stderr)
}

// NewPrettyLoggerTo creates a pretty logger writing to w. Colour is dropped
// when w is not a terminal.
func NewPrettyLoggerTo(w io.Writer) *PrettyLogger {
	r := lipgloss.NewRenderer(w)
	width := defaultDividerWidth

	if f, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 && cols < width {
			width = cols
		}
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &PrettyLogger{
		writer: w,
		theme:  theme.New(r),
		width:  width,
	}
}

// Writer returns the underlying writer.
func (p *PrettyLogger) Writer() io.Writer {
	return p.writer
}

// Success logs a success message with a checkmark.
func (p *PrettyLogger) Success(message string) {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.theme.Success.Render(theme.IconSuccess),
		p.theme.Success.Render(message))
}

// InfoPretty logs an informational line.
func (p *PrettyLogger) InfoPretty(message string) {
	fmt.Fprintf(p.writer, "%s\n", p.theme.Info.Render(message))
}

// Muted logs a de-emphasised line.
func (p *PrettyLogger) Muted(message string) {
	fmt.Fprintf(p.writer, "%s\n", p.theme.Muted.Render(message))
}

// WarnPretty logs a warning.
func (p *PrettyLogger) WarnPretty(message string) {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.theme.Warning.Render(theme.IconWarning),
		p.theme.Warning.Render(message))
}

// ErrorPretty logs an error with an optional cause.
func (p *PrettyLogger) ErrorPretty(message string, err error) {
	fmt.Fprintf(p.writer, "%s %s",
		p.theme.Error.Render(theme.IconError),
		p.theme.Error.Render(message))
	if err != nil {
		fmt.Fprintf(p.writer, ": %s", p.theme.Error.Render(err.Error()))
	}
	fmt.Fprintln(p.writer)
}

// Field logs a key-value pair.
func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.writer, "%s: %s\n",
		p.theme.Muted.Render(key),
		p.theme.Bold.Render(fmt.Sprint(value)))
}

// Path logs a labelled file path.
func (p *PrettyLogger) Path(label string, path string) {
	fmt.Fprintf(p.writer, "%s: %s\n",
		p.theme.Muted.Render(label),
		p.theme.Path.Render(path))
}

// Code logs indented command output or a message body.
func (p *PrettyLogger) Code(content string) {
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.writer, "  %s\n", p.theme.Code.Render(line))
	}
}

// Divider prints a rule no wider than the terminal.
func (p *PrettyLogger) Divider() {
	fmt.Fprintln(p.writer, p.theme.Muted.Render(strings.Repeat("─", p.width)))
}

// Blank prints a blank line.
func (p *PrettyLogger) Blank() {
	fmt.Fprintln(p.writer)
}
