package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/panel"
)

func newStore(t *testing.T, n int) *dashboard.Store {
	t.Helper()
	doc := dashboard.NewDocument("tui test")
	for i := 0; i < n; i++ {
		doc.Cards = append(doc.Cards, &dashboard.Card{
			ID:      fmt.Sprintf("c%d", i),
			Content: dashboard.CardContent{Title: dashboard.Text(fmt.Sprintf("Card %d", i))},
			Config:  dashboard.CardConfig{Appearance: dashboard.AppearanceTransparent, Align: dashboard.AlignAuto},
		})
	}
	return dashboard.NewStore(doc)
}

type harness struct {
	model  AppModel
	saved  []string
	copied []string
}

func newHarness(t *testing.T, n int) *harness {
	t.Helper()
	h := &harness{}
	h.model = NewAppModel(Options{
		Store: newStore(t, n),
		Path:  "board.yaml",
		Save: func(path string, store *dashboard.Store) error {
			h.saved = append(h.saved, path)
			return nil
		},
		Copy: func(text string) error {
			h.copied = append(h.copied, text)
			return nil
		},
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send delivers msg. Commands are dropped; cursor blink commands would
// block the test.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(AppModel)
	return cmd
}

// save presses w and feeds the save result back in.
func (h *harness) save(t *testing.T) {
	t.Helper()
	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	require.NotNil(t, cmd)
	h.send(cmd())
}

func (h *harness) key(keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			h.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			h.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			h.send(tea.KeyMsg{Type: tea.KeyTab})
		case "up":
			h.send(tea.KeyMsg{Type: tea.KeyUp})
		case "down":
			h.send(tea.KeyMsg{Type: tea.KeyDown})
		case "left":
			h.send(tea.KeyMsg{Type: tea.KeyLeft})
		case "right":
			h.send(tea.KeyMsg{Type: tea.KeyRight})
		case "ctrl+s":
			h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
		default:
			h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func (h *harness) doc() *dashboard.Document {
	return h.model.store.Document()
}

// focusRow moves the panel cursor to row.
func (h *harness) focusRow(t *testing.T, row Row) {
	t.Helper()
	for i := 0; i < 10 && h.model.CurrentRow() != row; i++ {
		h.key("down")
	}
	require.Equal(t, row, h.model.CurrentRow())
}

func TestStartsInGlobalMode(t *testing.T) {
	h := newHarness(t, 3)

	assert.Equal(t, panel.ModeGlobal, h.model.Panel().Mode())
	assert.Equal(t, FocusCards, h.model.Focus)
	assert.Equal(t, []Row{RowTheme, RowLayout, RowFilters}, h.model.Rows())

	view := h.model.View()
	assert.Contains(t, view, "All cards (3)")
	assert.Contains(t, view, "Filters")
	assert.NotContains(t, view, "Description")
}

func TestSelectCardShowsSingleModeRows(t *testing.T) {
	h := newHarness(t, 3)

	h.key("down", "enter")
	assert.Equal(t, panel.ModeSingle, h.model.Panel().Mode())
	assert.Same(t, h.doc().Cards[1], h.model.Panel().Selection().Card)
	assert.Equal(t, FocusPanel, h.model.Focus)
	assert.Equal(t, []Row{RowTitle, RowDescription, RowTheme, RowLayout, RowTabs}, h.model.Rows())
	assert.True(t, h.model.Panel().SubViews().Mounted())
	assert.Contains(t, h.model.View(), "Card: Card 1")

	h.key("esc")
	assert.Equal(t, panel.ModeGlobal, h.model.Panel().Mode())
	assert.False(t, h.model.Panel().SubViews().Mounted())
}

func TestThemeChangeInSingleModeTouchesOneCard(t *testing.T) {
	h := newHarness(t, 3)
	h.key("enter") // select card 0
	h.focusRow(t, RowTheme)

	h.key("right", "enter") // transparent -> outline
	assert.Equal(t, dashboard.AppearanceOutline, h.doc().Cards[0].Config.Appearance)
	assert.Equal(t, dashboard.AppearanceTransparent, h.doc().Cards[1].Config.Appearance)
	assert.Equal(t, dashboard.AppearanceTransparent, h.doc().Cards[2].Config.Appearance)
	assert.False(t, h.model.StatusError)
	assert.True(t, h.model.Dirty)
}

func TestApplyToAllFromSingleMode(t *testing.T) {
	h := newHarness(t, 3)
	h.key("enter")
	h.focusRow(t, RowLayout)

	h.key("right", "right", "a") // Auto -> Row, applied to all
	for _, c := range h.doc().Cards {
		assert.Equal(t, dashboard.AlignRow, c.Config.Align)
	}
	assert.Equal(t, panel.ModeSingle, h.model.Panel().Mode(), "selection is kept")
	assert.Contains(t, h.model.Status, "applied to 3 cards")
}

func TestGlobalModeBroadcasts(t *testing.T) {
	h := newHarness(t, 3)
	h.key("tab")
	require.Equal(t, RowTheme, h.model.CurrentRow())
	assert.Equal(t, 0, h.model.OptionCursor, "nothing is selected in global mode")

	h.key("left", "enter") // wraps to neumorphism
	for _, c := range h.doc().Cards {
		assert.Equal(t, dashboard.AppearanceNeumorphism, c.Config.Appearance)
	}
	assert.Contains(t, h.model.View(), "(all Neumorphism)")
}

func TestGlobalModeShowsMixed(t *testing.T) {
	h := newHarness(t, 2)
	h.doc().Cards[1].Config.Align = dashboard.AlignColumn

	assert.Contains(t, h.model.View(), "(mixed)")
}

func TestEditTitle(t *testing.T) {
	h := newHarness(t, 2)
	h.key("enter")
	require.Equal(t, RowTitle, h.model.CurrentRow())

	h.key("enter")
	assert.Equal(t, RowTitle, h.model.Editing)
	assert.Equal(t, "Card 0", h.model.TitleInput.Value())

	h.key(" ", "x", "enter")
	assert.Equal(t, Row(""), h.model.Editing)
	assert.Equal(t, "Card 0 x", h.doc().Cards[0].TitleOrEmpty())
	assert.Equal(t, "Card 1", h.doc().Cards[1].TitleOrEmpty())
}

func TestEditTitleCancel(t *testing.T) {
	h := newHarness(t, 1)
	h.key("enter", "enter", "z", "esc")

	assert.Equal(t, Row(""), h.model.Editing)
	assert.Equal(t, "Card 0", h.doc().Cards[0].TitleOrEmpty())
	assert.Equal(t, panel.ModeSingle, h.model.Panel().Mode(), "esc while editing only closes the editor")
}

func TestEditDescription(t *testing.T) {
	h := newHarness(t, 1)
	h.key("enter")
	h.focusRow(t, RowDescription)

	h.key("enter")
	require.Equal(t, RowDescription, h.model.Editing)
	h.key("H", "i")
	h.key("ctrl+s")

	assert.Equal(t, Row(""), h.model.Editing)
	assert.Equal(t, "Hi", h.doc().Cards[0].TextOrEmpty())

	// Saving an empty description clears it
	h.key("enter")
	h.model.DescriptionInput.Reset()
	h.key("ctrl+s")
	assert.Nil(t, h.doc().Cards[0].Content.Text)
}

func TestTabsSwitchAndPersist(t *testing.T) {
	h := newHarness(t, 2)
	h.key("enter")
	h.focusRow(t, RowTabs)

	h.key("right")
	assert.Equal(t, panel.SubViewEditor, h.model.Panel().SubViews().Current())
	assert.Equal(t, panel.SubViewEditor, h.model.host.mounted)

	h.key("tab", "down", "enter") // select the other card
	assert.Same(t, h.doc().Cards[1], h.model.Panel().Selection().Card)
	assert.Equal(t, panel.SubViewEditor, h.model.Panel().SubViews().Current())
}

func TestUndo(t *testing.T) {
	h := newHarness(t, 2)
	h.key("tab", "right", "enter") // broadcast outline
	for _, c := range h.doc().Cards {
		require.Equal(t, dashboard.AppearanceOutline, c.Config.Appearance)
	}

	h.key("u")
	for _, c := range h.doc().Cards {
		assert.Equal(t, dashboard.AppearanceTransparent, c.Config.Appearance)
	}
	assert.Contains(t, h.model.Status, "Undid broadcast appearance")

	h.key("u")
	assert.Equal(t, "Nothing to undo", h.model.Status)
}

func TestUndoNewCardReturnsToGlobal(t *testing.T) {
	h := newHarness(t, 1)
	h.key("n")
	require.Len(t, h.doc().Cards, 2)
	assert.Equal(t, 1, h.model.CardCursor)

	h.key("enter")
	require.Equal(t, panel.ModeSingle, h.model.Panel().Mode())

	h.key("u")
	assert.Len(t, h.doc().Cards, 1)
	assert.Equal(t, panel.ModeGlobal, h.model.Panel().Mode())
	assert.Equal(t, 0, h.model.CardCursor)
	assert.Equal(t, []Row{RowTheme, RowLayout, RowFilters}, h.model.Rows())
}

func TestChangeLogListsTransactions(t *testing.T) {
	h := newHarness(t, 2)
	h.key("tab", "down", "right", "enter") // broadcast align Column

	assert.Len(t, h.model.log.lines, 3, "one change line and two writes")
	assert.True(t, strings.HasPrefix(h.model.log.lines[0], "#1 broadcast align"))
	assert.Contains(t, h.model.View(), "broadcast align")
}

func TestSaveAndCopy(t *testing.T) {
	h := newHarness(t, 2)

	h.save(t)
	assert.Equal(t, []string{"board.yaml"}, h.saved)
	assert.Contains(t, h.model.Status, "Saved board.yaml")

	h.key("y")
	require.Len(t, h.copied, 1)
	assert.Contains(t, h.copied[0], "Document: tui test (2 cards)")

	h.key("enter", "y")
	require.Len(t, h.copied, 2)
	assert.Equal(t, "Card 0 [Transparent, Auto]", h.copied[1])
}

func TestSaveAndCopyFailures(t *testing.T) {
	h := newHarness(t, 1)
	h.model.save = func(string, *dashboard.Store) error { return errors.New("read-only") }
	h.model.copy = func(string) error { return errors.New("no clipboard") }

	h.save(t)
	assert.True(t, h.model.StatusError)
	assert.Contains(t, h.model.Status, "read-only")

	h.key("y")
	assert.True(t, h.model.StatusError)
	assert.Contains(t, h.model.Status, "no clipboard")
}

func TestHelpModal(t *testing.T) {
	h := newHarness(t, 1)
	h.key("?")
	assert.True(t, h.model.ShowingHelp)
	assert.Contains(t, h.model.View(), "DASHPANEL HELP")

	h.key("q") // closes help instead of quitting
	assert.False(t, h.model.ShowingHelp)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, 1)
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestContentRowsAbsentInGlobalMode(t *testing.T) {
	h := newHarness(t, 2)
	h.key("tab")
	for _, row := range h.model.Rows() {
		assert.NotEqual(t, RowTitle, row)
		assert.NotEqual(t, RowDescription, row)
	}

	h.focusRow(t, RowFilters)
	h.key("a")
	assert.Contains(t, h.model.Status, "Only theme and layout")
}
