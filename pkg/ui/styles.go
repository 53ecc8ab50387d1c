package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette colors, so the user's theme decides the exact shades
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}  // Green
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}  // Red
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}  // Magenta
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}  // Cyan
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}  // Gray
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}  // Yellow
	ColorAccent  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}  // Blue
	ColorDefault = lipgloss.AdaptiveColor{Light: "0", Dark: "7"}  // Foreground
	ColorChanged = lipgloss.AdaptiveColor{Light: "3", Dark: "11"} // Changed rows
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style
	StyleTitle   lipgloss.Style

	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style

	// StyleHighlight marks assets that changed in the last snapshot
	StyleHighlight   lipgloss.Style
	StyleDetailPanel lipgloss.Style

	badgeStyles map[StatusLevel]lipgloss.Style
)

const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconAsset   = "📦"
	IconLive    = "●"
	IconRetry   = "↻"
)

// StatusLevel picks the badge color of a connection indicator
type StatusLevel int

const (
	StatusDown StatusLevel = iota
	StatusPending
	StatusOK
)

func init() {
	SetTheme("auto")
}

// SetTheme applies "auto", "dark" or "light" and rebuilds every style
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	StyleSuccess = fg(ColorSuccess).Bold(true)
	StyleError = fg(ColorError).Bold(true)
	StylePrimary = fg(ColorPrimary).Bold(true)
	StyleInfo = fg(ColorInfo)
	StyleMuted = fg(ColorMuted)
	StyleWarning = fg(ColorWarning).Bold(true)
	StyleAccent = fg(ColorAccent)
	StyleTitle = fg(ColorPrimary).Bold(true).Underline(true)

	StyleTableHeader = fg(ColorPrimary).Bold(true)
	StyleTableRow = fg(ColorDefault)
	StyleTableRowAlt = fg(ColorDefault).Faint(true)
	StyleTableBorder = fg(ColorMuted)

	StyleHighlight = fg(ColorChanged).Bold(true)
	StyleDetailPanel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)

	badgeStyles = map[StatusLevel]lipgloss.Style{
		StatusOK:      fg(ColorSuccess).Bold(true),
		StatusPending: fg(ColorWarning).Bold(true),
		StatusDown:    fg(ColorError).Bold(true),
	}
}

// FormatSuccess returns a success message with icon
func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

// FormatError returns an error message with icon
func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

// FormatInfo returns an info message with icon
func FormatInfo(msg string) string {
	return StyleInfo.Render(IconInfo + " " + msg)
}

// FormatWarning returns a warning message with icon
func FormatWarning(msg string) string {
	return StyleWarning.Render(IconWarning + " " + msg)
}

func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

// FormatHighlight marks recently changed content
func FormatHighlight(text string) string {
	return StyleHighlight.Render(text)
}

// RenderBadge renders a connection indicator such as "● WEBSOCKET Connected".
// Pending states use the retry icon.
func RenderBadge(transport, state string, level StatusLevel) string {
	icon := IconLive
	if level == StatusPending {
		icon = IconRetry
	}
	return badgeStyles[level].Render(icon+" "+transport) + " " + StyleMuted.Render(state)
}
