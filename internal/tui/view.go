package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/panel"
)

// View renders the editor
func (m AppModel) View() string {
	width, height := m.Width, m.Height
	if width == 0 {
		width = 100
	}

	if m.ShowingHelp {
		return RenderModal(m.renderHelpModalContent(), width, max(height, 24))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderCardList(), m.renderPanel()),
		m.renderStatusLine(),
	)
	return RenderApplicationContainer(content, m.headerTitle(), m.Help.View(m.Keys), width, height)
}

func (m AppModel) headerTitle() string {
	doc := m.store.Document()
	title := doc.Name
	if title == "" {
		title = "Untitled dashboard"
	}
	if m.Dirty {
		title += " •"
	}
	if m.previewAddr != "" {
		title += "  preview: " + m.previewAddr
	}
	return title
}

func (m AppModel) panelWidth() int {
	width := m.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	return width - cardListWidth - 8
}

func (m AppModel) renderCardList() string {
	doc := m.store.Document()
	selected := m.panel.Selection().Card

	lines := []string{SectionTitleStyle.Render(fmt.Sprintf("Cards (%d)", len(doc.Cards))), ""}
	if len(doc.Cards) == 0 {
		lines = append(lines, SubtitleStyle.Render("No cards. Press n to add one."))
	}
	for i, c := range doc.Cards {
		marker := "  "
		if c == selected {
			marker = "● "
		}
		label := truncate(c.Label(), cardListWidth-6)
		line := marker + label
		switch {
		case i == m.CardCursor && m.Focus == FocusCards:
			line = SelectedListItemStyle.Render("→ " + marker + label)
		case i == m.CardCursor:
			line = ListItemStyle.Bold(true).Render("  " + line)
		default:
			line = ListItemStyle.Render("  " + line)
		}
		lines = append(lines, line)
	}

	style := PaneStyle
	if m.Focus == FocusCards {
		style = FocusedPaneStyle
	}
	return style.Width(cardListWidth).Render(strings.Join(lines, "\n"))
}

func (m AppModel) renderPanel() string {
	width := m.panelWidth()
	doc := m.store.Document()
	sel := m.panel.Selection()

	var heading string
	if panel.IsGlobalMode(sel) {
		heading = SectionTitleStyle.Render(fmt.Sprintf("All cards (%d)", len(doc.Cards)))
	} else {
		heading = SectionTitleStyle.Render("Card: " + sel.Card.Label())
	}
	parts := []string{heading, SubtitleStyle.Render(m.modeHint()), ""}

	for i, row := range m.Rows() {
		focused := m.Focus == FocusPanel && i == m.RowCursor
		parts = append(parts, m.renderRow(row, focused, width))
	}

	parts = append(parts, "", SectionTitleStyle.Render("Changes"), m.log.view())

	style := PaneStyle
	if m.Focus == FocusPanel {
		style = FocusedPaneStyle
	}
	return style.Width(width).Render(strings.Join(parts, "\n"))
}

func (m AppModel) modeHint() string {
	if panel.IsGlobalMode(m.panel.Selection()) {
		return "Theme and layout changes apply to every card"
	}
	return "Changes apply to this card; press a to apply to all"
}

func (m AppModel) renderRow(row Row, focused bool, width int) string {
	card := m.panel.Selection().Card

	switch row {
	case RowTitle:
		if m.Editing == RowTitle {
			return renderLabel("Title", focused) + "\n" + InlineEditorStyle().Render(m.TitleInput.View())
		}
		return renderLabel("Title", focused) + valueOrNone(card.Content.Title)

	case RowDescription:
		if m.Editing == RowDescription {
			return renderLabel("Description", focused) + SubtitleStyle.Render("ctrl+s to save, esc to cancel") +
				"\n" + InlineEditorStyle().Render(m.DescriptionInput.View())
		}
		text := valueOrNone(card.Content.Text)
		return renderLabel("Description", focused) + wordwrap.String(text, max(width-16, 20))

	case RowTheme:
		appearance, ok, _, _ := dashboard.UniformConfig(m.store.Document())
		return renderLabel("Theme", focused) +
			m.renderChoices(m.panel.ThemeOptions(), focused) +
			m.uniformHint(appearance.DisplayName(), ok)

	case RowLayout:
		_, _, align, ok := dashboard.UniformConfig(m.store.Document())
		return renderLabel("Layout", focused) +
			m.renderChoices(m.panel.LayoutOptions(), focused) +
			m.uniformHint(align.String(), ok)

	case RowTabs:
		current := m.panel.SubViews().Current()
		tabs := make([]string, 0, len(panel.SupportedSubViews))
		for _, v := range panel.SupportedSubViews {
			name := v.DisplayName()
			if v == current {
				tabs = append(tabs, ChosenStyle.Render("["+name+"]"))
			} else {
				tabs = append(tabs, ChoiceStyle.Render(" "+name+" "))
			}
		}
		line := renderLabel("Tabs", focused) + strings.Join(tabs, " ")
		if body := m.host.body(card, m.store.Document(), width-4); body != "" {
			line += "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(body)
		}
		return line

	case RowFilters:
		return renderLabel("Filters", focused) + SubtitleStyle.Render("Edited in the filter panel")
	}
	return ""
}

func (m AppModel) renderChoices(choices []panel.Choice, focused bool) string {
	out := make([]string, 0, len(choices))
	for i, c := range choices {
		mark := "○ "
		style := ChoiceStyle
		if c.Selected {
			mark = "● "
			style = ChosenStyle
		}
		if focused && i == m.OptionCursor {
			style = CursorChoiceStyle
		}
		out = append(out, style.Render(mark+c.Text))
	}
	return strings.Join(out, "  ")
}

// uniformHint shows whether every card agrees, in global mode only.
func (m AppModel) uniformHint(value string, ok bool) string {
	if !panel.IsGlobalMode(m.panel.Selection()) || len(m.store.Document().Cards) == 0 {
		return ""
	}
	if ok {
		return "\n" + SubtitleStyle.Render("                (all "+value+")")
	}
	return "\n" + MixedStyle.Render("                (mixed)")
}

func (m AppModel) renderStatusLine() string {
	if m.Status == "" {
		return ""
	}
	if m.StatusError {
		return StatusErrorStyle.Render("✗ " + m.Status)
	}
	return StatusStyle.Render("✓ " + m.Status)
}

func (m AppModel) renderHelpModalContent() string {
	subtitle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)

	content := lipgloss.JoinVertical(lipgloss.Left,
		SectionTitleStyle.Render("DASHPANEL HELP"),
		"",
		subtitle.Render("Editing modes:"),
		"  No card selected  Theme and layout apply to every card",
		"  Card selected     Changes apply to that card only",
		"                    Press a on a theme or layout to apply it to all",
		"",
		subtitle.Render("Themes:"),
		"  "+joinOptionTexts(dashboard.AppearanceOptions()),
		subtitle.Render("Layouts:"),
		"  "+joinOptionTexts(dashboard.AlignOptions()),
		"",
		m.Help.FullHelpView(m.Keys.FullHelp()),
		"",
		"Press any key to close this help screen",
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(70).
		Render(content)
}

func renderLabel(label string, focused bool) string {
	arrow := "  "
	style := LabelStyle
	if focused {
		arrow = "→ "
		style = style.Foreground(HighlightColor).Bold(true)
	}
	return arrow + style.Render(label)
}

func valueOrNone(s *string) string {
	if s == nil {
		return SubtitleStyle.Render("(none)")
	}
	return *s
}

func joinOptionTexts(opts []dashboard.Option) string {
	texts := make([]string, len(opts))
	for i, o := range opts {
		texts[i] = o.Text
	}
	return strings.Join(texts, ", ")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
