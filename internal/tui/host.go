package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/wordwrap"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/panel"
)

// tabHost receives mount events from the panel's sub-view machine and
// renders the body of the mounted tab.
type tabHost struct {
	mounted panel.SubView
	active  bool
	mounts  int
}

func (h *tabHost) Mount(v panel.SubView) {
	h.mounted = v
	h.active = true
	h.mounts++
}

func (h *tabHost) Unmount(panel.SubView) {
	h.active = false
}

// body renders the mounted tab for card. Nothing renders while unmounted.
func (h *tabHost) body(card *dashboard.Card, doc *dashboard.Document, width int) string {
	if !h.active || card == nil {
		return ""
	}

	switch h.mounted {
	case panel.SubViewCollection:
		// Cards sharing this card's theme
		var same []string
		for _, c := range doc.Cards {
			if c != card && c.Config.Appearance == card.Config.Appearance {
				same = append(same, "  • "+c.Label())
			}
		}
		if len(same) == 0 {
			return SubtitleStyle.Render("No other card uses this theme")
		}
		return strings.Join(append([]string{
			fmt.Sprintf("Also %s:", card.Config.Appearance.DisplayName()),
		}, same...), "\n")

	case panel.SubViewEditor:
		if card.Content.Text == nil {
			return SubtitleStyle.Render("No description. Select Description and press enter to write one.")
		}
		return wordwrap.String(*card.Content.Text, max(width, 20))
	}
	return ""
}

// changeLog observes the store and keeps a short history of committed
// changes for display.
type changeLog struct {
	lines    []string
	viewport viewport.Model
}

const maxChangeLogLines = 50

func newChangeLog(width int) *changeLog {
	vp := viewport.New(width, changeLogLines)
	return &changeLog{viewport: vp}
}

// DocumentChanged implements dashboard.Observer.
func (l *changeLog) DocumentChanged(change dashboard.Change) {
	for _, line := range strings.Split(dashboard.FormatChange(change), "\n") {
		if line != "" {
			l.lines = append(l.lines, line)
		}
	}
	if len(l.lines) > maxChangeLogLines {
		l.lines = l.lines[len(l.lines)-maxChangeLogLines:]
	}
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	l.viewport.GotoBottom()
}

func (l *changeLog) setWidth(width int) {
	l.viewport.Width = width
}

func (l *changeLog) view() string {
	if len(l.lines) == 0 {
		return SubtitleStyle.Render("No changes yet")
	}
	return ChangeLogStyle.Render(l.viewport.View())
}
