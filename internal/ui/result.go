package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/dashpanel/internal/dashboard"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Theme applied to 12 cards"
	Details         []Param    // Key-value details to display, in order
	Error           error      // Error (for failure results)
	Troubleshooting []string   // Troubleshooting tips (for failure results)
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewEditFailureResult creates a failure box for a rejected edit, with the
// troubleshooting hint that matches the error.
func NewEditFailureResult(title string, err error) *Result {
	hint := dashboard.GetTroubleshootingHint(err)
	return NewFailureResult(title, err, strings.Split(hint, "\n"))
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail adds a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := boxWidth(r.Width)

	var lines []string
	var border lipgloss.Color

	switch r.Type {
	case ResultFailure:
		border = ErrorColor
		lines = append(lines, "", ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title)), "")
		if r.Error != nil {
			lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
		}
		if len(r.Troubleshooting) > 0 {
			lines = append(lines, r.renderTroubleshootingBox(width), "")
		}
	case ResultWarning:
		border = WarningColor
		lines = append(lines, "", WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, r.Title)), "")
		lines = append(lines, r.renderDetails()...)
		lines = append(lines, "")
	default:
		border = SuccessColor
		lines = append(lines, "", SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title)), "")
		lines = append(lines, r.renderDetails()...)
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (r *Result) renderDetails() []string {
	lines := make([]string, 0, len(r.Details))
	for _, d := range r.Details {
		key := ResultKeyStyle.Render(fmt.Sprintf("   %s:", d.Key))
		lines = append(lines, key+" "+ResultValueStyle.Render(d.Value))
	}
	return lines
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		if strings.HasPrefix(tip, " ") {
			// Continuation lines keep their own indentation
			lines = append(lines, TroubleshootingItemStyle.Render("  "+tip))
			continue
		}
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12 // Indent within outer box
	if innerWidth < 40 {
		innerWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
