package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmAnswer is the word the user types to go ahead.
const ConfirmAnswer = "yes"

// Confirm displays a warning box and asks the user to type "yes" to go
// ahead with an operation that rewrites many cards. It reads one line
// from in.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string) bool {
	width := boxWidth(p.width)

	lines := []string{
		"",
		WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	if p.plain {
		p.Println(title)
		for _, warning := range warnings {
			p.Println("  " + warning)
		}
	} else {
		p.Println(lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Width(width-2).
			Padding(0, 2).
			Render(strings.Join(lines, "\n")))
	}
	p.Newline()

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	p.Print(promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", ConfirmAnswer)))

	input, err := bufio.NewReader(in).ReadString('\n')
	p.Newline()
	if err != nil && input == "" {
		return false
	}

	if strings.EqualFold(strings.TrimSpace(input), ConfirmAnswer) {
		return true
	}

	p.Println(lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}
