package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa palette (dark / light) ---
const (
	kanagawaDarkGreen      = "#98BB6C"
	kanagawaDarkYellow     = "#FF9E3B"
	kanagawaDarkRed        = "#FF5D62"
	kanagawaDarkCyan       = "#7E9CD8"
	kanagawaDarkViolet     = "#957FB8"
	kanagawaDarkMutedText  = "#727169"
	kanagawaDarkBorder     = "#363646"
	kanagawaLightGreen     = "#4E7C5A"
	kanagawaLightYellow    = "#A68A64"
	kanagawaLightRed       = "#C34043"
	kanagawaLightCyan      = "#5B8BBE"
	kanagawaLightViolet    = "#674D7A"
	kanagawaLightMutedText = "#6C7086"
	kanagawaLightBorder    = "#B5BDC5"
)

// --- Terminal ANSI palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalViolet    = "5"
	terminalMutedText = "8"
	terminalBorder    = "8"
)

// Icons used across console output.
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconArrow   = "→"
	IconBullet  = "•"
)

// Colors is the palette a theme is built from.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// Theme holds the pre-configured styles for console and TUI output.
type Theme struct {
	Colors Colors

	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Code   lipgloss.Style
	Path   lipgloss.Style

	Box   lipgloss.Style
	Input lipgloss.Style
}

var palettes = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

// DefaultTheme renders through lipgloss' default renderer.
var DefaultTheme = New(lipgloss.DefaultRenderer())

// New builds the theme selected by PHANTOMIT_THEME for renderer r.
func New(r *lipgloss.Renderer) *Theme {
	return NewWithName(r, os.Getenv("PHANTOMIT_THEME"))
}

// NewWithName builds the named theme for renderer r. Unknown names fall back to
// the default palette.
func NewWithName(r *lipgloss.Renderer, name string) *Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	palette, ok := palettes[name]
	if !ok {
		palette = palettes[defaultThemeName]
	}
	colors := palette()

	return &Theme{
		Colors: colors,

		Header:  r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   r.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: r.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    r.NewStyle().Foreground(colors.Cyan),

		Bold:   r.NewStyle().Bold(true),
		Muted:  r.NewStyle().Foreground(colors.MutedText),
		Accent: r.NewStyle().Foreground(colors.Violet),
		Code:   r.NewStyle().Foreground(colors.Violet),
		Path:   r.NewStyle().Foreground(colors.Cyan).Italic(true),

		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),
		Input: r.NewStyle().Foreground(colors.Green),
	}
}

func newKanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
		Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
		Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
		Violet:    lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
		MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMutedText, Dark: kanagawaDarkMutedText},
		Border:    lipgloss.AdaptiveColor{Light: kanagawaLightBorder, Dark: kanagawaDarkBorder},
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color(terminalGreen),
		Yellow:    lipgloss.Color(terminalYellow),
		Red:       lipgloss.Color(terminalRed),
		Cyan:      lipgloss.Color(terminalCyan),
		Violet:    lipgloss.Color(terminalViolet),
		MutedText: lipgloss.Color(terminalMutedText),
		Border:    lipgloss.Color(terminalBorder),
	}
}
