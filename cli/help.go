package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/grovetools/phantomit/tui/theme"
)

const maxWidth = 72
const minWidth = 40

// helpWidth returns the terminal width of w capped at maxWidth.
func helpWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return maxWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minWidth || width > maxWidth {
		return maxWidth
	}
	return width
}

func helpTheme(w io.Writer) *theme.Theme {
	r := lipgloss.NewRenderer(w)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		r.SetColorProfile(termenv.Ascii)
	}
	return theme.New(r)
}

// wrapText wraps text to width, preserving existing line breaks.
func wrapText(text string, width int) string {
	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies phantomit's help layout to cmd and every command
// added below it later.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// PrintError prints a styled error with a usage hint.
func PrintError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	t := helpTheme(w)
	fmt.Fprintf(w, "%s %s\n", t.Error.Render("Error:"), err.Error())
	fmt.Fprintln(w, t.Muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()
	t := helpTheme(w)
	width := helpWidth(w) - 2
	section := t.Warning.Italic(true)

	fmt.Fprintln(w, " "+t.Accent.Bold(true).Render(strings.ToUpper(cmd.CommandPath())))
	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			fmt.Fprintln(w, " "+t.Muted.Italic(true).Render(line))
		}
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintln(w)
		for _, line := range strings.Split(wrapText(cmd.Long, width), "\n") {
			fmt.Fprintln(w, " "+line)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Fprintln(w, "\n "+section.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Fprintf(w, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(w, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}
		fmt.Fprintln(w, "\n "+section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Fprintf(w, " %s%s  %s\n", t.Info.Bold(true).Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	var flags []*pflag.Flag
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	if len(flags) > 0 {
		fmt.Fprintln(w, "\n "+section.Render("FLAGS"))
		maxLen := 0
		for _, f := range flags {
			if n := len(formatFlagName(f)); n > maxLen {
				maxLen = n
			}
		}
		for _, f := range flags {
			name := formatFlagName(f)
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
				usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			fmt.Fprintf(w, " %s%s  %s\n", t.Code.Render(name), strings.Repeat(" ", maxLen-len(name)), usage)
		}
	}

	if cmd.Example != "" {
		fmt.Fprintln(w, "\n "+section.Render("EXAMPLES"))
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				fmt.Fprintln(w)
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintln(w, "  "+t.Muted.Render(trimmed))
			default:
				fmt.Fprintln(w, "  "+t.Info.Render(trimmed))
			}
		}
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// formatFlagName returns "-f, --flag" or "    --flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
