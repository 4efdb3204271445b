package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorBlue    = lipgloss.Color("#5F87FF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorBlack   = lipgloss.Color("#000000")
	ColorMagenta = lipgloss.Color("#FF00FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SpeakerStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	CommentStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Italic(true)

	AdjustedMarkStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta)

	AdjustWordStyle = lipgloss.NewStyle().
			Foreground(ColorBlack).
			Background(ColorYellow)

	CommandLineStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	DebugStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	PlayingBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)
)

// modeColors maps a mode label to its badge background.
var modeColors = map[string]lipgloss.Color{
	"NORMAL":  ColorBlue,
	"COMMAND": ColorYellow,
	"INSERT":  ColorGreen,
	"ADJUST":  ColorMagenta,
	"VISUAL":  ColorCyan,
}

// ModeBadge renders a mode label as a coloured badge.
func ModeBadge(mode string) string {
	bg, ok := modeColors[mode]
	if !ok {
		bg = ColorGray
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBlack).
		Background(bg).
		Padding(0, 1).
		Render(mode)
}
