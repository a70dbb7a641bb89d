package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/dashpanel/internal/version"
)

// Application branding constants
const (
	AppName = "DASHPANEL"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72 // Minimum supported terminal width
	cardListWidth    = 34 // Width of the card list pane
	changeLogLines   = 5  // Visible change log lines
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

var (
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// List item style (unselected)
	ListItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Selected list item style
	SelectedListItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Width(14).
			Foreground(SubtleColor)

	ChoiceStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	ChosenStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Bold(true)

	// Option under the cursor while a choice row is focused
	CursorChoiceStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Underline(true)

	MixedStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	ChangeLogStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Box style for the panes
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)

	FocusedPaneStyle = PaneStyle.
				BorderForeground(BorderColor)
)

// RenderApplicationContainer wraps a screen with the application header
// and a footer carrying help text.
func RenderApplicationContainer(content, title, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())
	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(title)

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Foreground(SubtleColor).
		Render(footerText)

	body := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Render(content)

	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		border = border.Height(terminalHeight - 2)
	}

	return border.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

// RenderModal centers modal content on the screen.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// InlineEditorStyle returns styling for the title and description editors
func InlineEditorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.Border{
			Top:    "━",
			Bottom: "━",
			Left:   "┃",
			Right:  "┃",
		}).
		BorderForeground(PrimaryColor).
		Padding(0, 1)
}
