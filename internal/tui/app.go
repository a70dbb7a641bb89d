package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/docstore"
	"github.com/muurk/dashpanel/internal/logging"
	"github.com/muurk/dashpanel/internal/panel"
)

// Focus is the pane receiving navigation keys
type Focus int

const (
	FocusCards Focus = iota
	FocusPanel
)

// Row is one focusable line of the panel pane
type Row string

const (
	RowTitle       Row = "title"
	RowDescription Row = "description"
	RowTheme       Row = "theme"
	RowLayout      Row = "layout"
	RowTabs        Row = "tabs"
	RowFilters     Row = "filters"
)

// Messages for async operations
type savedMsg struct {
	path string
	err  error
}

// Options configures the editor.
type Options struct {
	Store       *dashboard.Store
	Path        string // Document file written by save
	Panel       panel.Config
	PreviewAddr string // Shown in the header when the preview server runs

	// Overridable for tests
	Save func(path string, store *dashboard.Store) error
	Copy func(text string) error
}

// AppModel is the editor: a card list next to the editing side panel.
type AppModel struct {
	store *dashboard.Store
	panel *panel.Panel
	ops   *dashboard.Operators
	host  *tabHost
	log   *changeLog

	path        string
	previewAddr string
	save        func(path string, store *dashboard.Store) error
	copy        func(text string) error

	// UI state
	Width  int
	Height int

	Focus        Focus
	CardCursor   int
	RowCursor    int
	OptionCursor int // Position within a theme or layout row

	// Inline editing of the selected card's content
	Editing          Row
	TitleInput       textinput.Model
	DescriptionInput textarea.Model

	Status      string
	StatusError bool
	Dirty       bool
	ShowingHelp bool

	Help help.Model
	Keys keyMap
}

// NewAppModel creates the editor for opts.Store, starting in global mode.
func NewAppModel(opts Options) AppModel {
	host := &tabHost{}
	log := newChangeLog(60)
	opts.Store.Subscribe(log)

	titleInput := textinput.New()
	titleInput.Placeholder = "Card title"
	titleInput.CharLimit = 200
	titleInput.Width = 40

	descInput := textarea.New()
	descInput.Placeholder = "Card description"
	descInput.ShowLineNumbers = false
	descInput.SetWidth(50)
	descInput.SetHeight(4)

	save := opts.Save
	if save == nil {
		save = docstore.SaveStore
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return AppModel{
		store:            opts.Store,
		panel:            panel.New(opts.Store, host, opts.Panel),
		ops:              dashboard.NewOperators(opts.Store),
		host:             host,
		log:              log,
		path:             opts.Path,
		previewAddr:      opts.PreviewAddr,
		save:             save,
		copy:             copyFn,
		Focus:            FocusCards,
		TitleInput:       titleInput,
		DescriptionInput: descInput,
		Help:             help.New(),
		Keys:             newKeyMap(),
	}
}

// Run starts the editor on the terminal and blocks until it quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Panel returns the side panel driven by the editor.
func (m AppModel) Panel() *panel.Panel {
	return m.panel
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.log.setWidth(max(m.panelWidth()-4, 20))
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.Dirty = false
		m.setStatus("Saved " + msg.path)
		return m, nil

	case tea.KeyMsg:
		if m.ShowingHelp {
			// Any key closes the help modal
			m.ShowingHelp = false
			return m, nil
		}
		if m.Editing != "" {
			return m.updateEditor(msg)
		}
		return m.updateNormalMode(msg)
	}

	return m, nil
}

// updateNormalMode handles keys when no text editor is open
func (m AppModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.ShowingHelp = true

	case key.Matches(msg, m.Keys.Focus):
		if m.Focus == FocusCards {
			m.Focus = FocusPanel
			m.RowCursor = 0
			m.syncOptionCursor()
		} else {
			m.Focus = FocusCards
		}

	case key.Matches(msg, m.Keys.Global):
		m.selectGlobal()

	case key.Matches(msg, m.Keys.Undo):
		m.undo()

	case key.Matches(msg, m.Keys.Copy):
		m.copySummary()

	case key.Matches(msg, m.Keys.Save):
		return m, m.saveCmd()

	case key.Matches(msg, m.Keys.NewCard):
		m.addCard()

	case m.Focus == FocusCards:
		m.updateCardList(msg)

	default:
		return m.updatePanel(msg)
	}

	return m, nil
}

func (m *AppModel) updateCardList(msg tea.KeyMsg) {
	count := len(m.store.Document().Cards)
	if count == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		m.CardCursor = (m.CardCursor - 1 + count) % count
	case key.Matches(msg, m.Keys.Down):
		m.CardCursor = (m.CardCursor + 1) % count
	case key.Matches(msg, m.Keys.Enter):
		card := m.store.Document().Cards[m.CardCursor]
		if err := m.panel.SetSelection(panel.Single(card)); err != nil {
			m.setError(err)
			return
		}
		m.Focus = FocusPanel
		m.RowCursor = 0
		m.syncOptionCursor()
		m.setStatus("Editing " + card.Label())
	}
}

func (m AppModel) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.Rows()
	if m.RowCursor >= len(rows) {
		m.RowCursor = 0
	}
	row := rows[m.RowCursor]

	switch {
	case key.Matches(msg, m.Keys.Up):
		m.RowCursor = (m.RowCursor - 1 + len(rows)) % len(rows)
		m.syncOptionCursor()

	case key.Matches(msg, m.Keys.Down):
		m.RowCursor = (m.RowCursor + 1) % len(rows)
		m.syncOptionCursor()

	case key.Matches(msg, m.Keys.Left):
		m.moveOption(row, -1)

	case key.Matches(msg, m.Keys.Right):
		m.moveOption(row, 1)

	case key.Matches(msg, m.Keys.Enter):
		return m.activateRow(row)

	case key.Matches(msg, m.Keys.ApplyAll):
		m.applyToAll(row)
	}

	return m, nil
}

// Rows returns the focusable rows of the panel for the current mode.
func (m AppModel) Rows() []Row {
	var rows []Row
	for _, s := range m.panel.Sections() {
		switch s {
		case panel.SectionContent:
			rows = append(rows, RowTitle, RowDescription)
		case panel.SectionTheme:
			rows = append(rows, RowTheme)
		case panel.SectionLayout:
			rows = append(rows, RowLayout)
		case panel.SectionTabs:
			rows = append(rows, RowTabs)
		case panel.SectionFilters:
			rows = append(rows, RowFilters)
		}
	}
	return rows
}

// CurrentRow returns the focused panel row.
func (m AppModel) CurrentRow() Row {
	rows := m.Rows()
	if m.RowCursor >= len(rows) {
		return rows[0]
	}
	return rows[m.RowCursor]
}

func (m AppModel) rowChoices(row Row) []panel.Choice {
	switch row {
	case RowTheme:
		return m.panel.ThemeOptions()
	case RowLayout:
		return m.panel.LayoutOptions()
	}
	return nil
}

// syncOptionCursor puts the option cursor on the selected choice of the
// focused row, or the first choice when none is selected.
func (m *AppModel) syncOptionCursor() {
	m.OptionCursor = 0
	if m.Focus != FocusPanel {
		return
	}
	switch row := m.CurrentRow(); row {
	case RowTabs:
		for i, v := range panel.SupportedSubViews {
			if v == m.panel.SubViews().Current() {
				m.OptionCursor = i
			}
		}
	default:
		for i, c := range m.rowChoices(row) {
			if c.Selected {
				m.OptionCursor = i
			}
		}
	}
}

func (m *AppModel) moveOption(row Row, delta int) {
	var count int
	switch row {
	case RowTheme, RowLayout:
		count = len(m.rowChoices(row))
	case RowTabs:
		count = len(panel.SupportedSubViews)
	default:
		return
	}
	m.OptionCursor = (m.OptionCursor + delta + count) % count

	if row == RowTabs {
		// Tabs switch as the cursor moves
		if _, err := m.panel.SelectSubView(panel.SupportedSubViews[m.OptionCursor]); err != nil {
			m.setError(err)
		}
	}
}

func (m AppModel) activateRow(row Row) (tea.Model, tea.Cmd) {
	switch row {
	case RowTitle:
		m.Editing = RowTitle
		m.TitleInput.Reset()
		m.TitleInput.SetValue(m.panel.Selection().Card.TitleOrEmpty())
		m.TitleInput.CursorEnd()
		return m, m.TitleInput.Focus()

	case RowDescription:
		m.Editing = RowDescription
		m.DescriptionInput.Reset()
		m.DescriptionInput.SetValue(m.panel.Selection().Card.TextOrEmpty())
		return m, m.DescriptionInput.Focus()

	case RowTheme:
		option := m.rowChoices(row)[m.OptionCursor].Key
		m.report(m.panel.ChangeTheme(option), "Theme set to "+option)

	case RowLayout:
		option := m.rowChoices(row)[m.OptionCursor].Key
		m.report(m.panel.ChangeLayout(option), "Layout set to "+option)

	case RowTabs:
		if _, err := m.panel.SelectSubView(panel.SupportedSubViews[m.OptionCursor]); err != nil {
			m.setError(err)
		}

	case RowFilters:
		m.setStatus("Filters are edited in the filter panel")
	}
	return m, nil
}

func (m *AppModel) applyToAll(row Row) {
	choices := m.rowChoices(row)
	if choices == nil {
		m.setStatus("Only theme and layout can be applied to all cards")
		return
	}
	option := choices[m.OptionCursor].Key
	count := len(m.store.Document().Cards)

	switch row {
	case RowTheme:
		m.report(m.panel.ApplyThemeToAll(option), fmt.Sprintf("Theme %s applied to %d cards", option, count))
	case RowLayout:
		m.report(m.panel.ApplyLayoutToAll(option), fmt.Sprintf("Layout %s applied to %d cards", option, count))
	}
}

// updateEditor handles keys while the title or description editor is open
func (m AppModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		m.setStatus("Edit cancelled")
		return m, nil

	case "enter":
		if m.Editing == RowTitle {
			err := m.panel.ChangeTitle(m.TitleInput.Value())
			m.closeEditor()
			m.report(err, "Title updated")
			return m, nil
		}

	case "ctrl+s":
		if m.Editing == RowDescription {
			err := m.panel.ChangeDescription(m.DescriptionInput.Value())
			m.closeEditor()
			m.report(err, "Description updated")
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.Editing == RowTitle {
		m.TitleInput, cmd = m.TitleInput.Update(msg)
	} else {
		m.DescriptionInput, cmd = m.DescriptionInput.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) closeEditor() {
	m.Editing = ""
	m.TitleInput.Blur()
	m.DescriptionInput.Blur()
}

func (m *AppModel) selectGlobal() {
	if err := m.panel.SetSelection(panel.Global()); err != nil {
		m.setError(err)
		return
	}
	m.RowCursor = 0
	m.syncOptionCursor()
	m.setStatus("Editing all cards")
}

func (m *AppModel) undo() {
	label, err := m.store.Undo()
	if errors.Is(err, dashboard.ErrNothingToUndo) {
		m.setStatus("Nothing to undo")
		return
	}
	if err != nil {
		m.setError(err)
		return
	}

	// The selected card may have been removed by the undo
	m.panel.Reconcile()
	if n := len(m.store.Document().Cards); m.CardCursor >= n {
		m.CardCursor = max(n-1, 0)
	}
	if m.RowCursor >= len(m.Rows()) {
		m.RowCursor = 0
	}
	m.syncOptionCursor()
	m.Dirty = true
	m.setStatus("Undid " + label)
}

func (m *AppModel) addCard() {
	card, err := m.ops.AddCard(dashboard.CardContent{})
	if err != nil {
		m.setError(err)
		return
	}
	m.CardCursor = len(m.store.Document().Cards) - 1
	m.Dirty = true
	m.setStatus("Added card " + card.Label())
}

func (m *AppModel) copySummary() {
	text := dashboard.FormatCompact(m.store.Document())
	if card := m.panel.Selection().Card; card != nil {
		text = card.Summary()
	}
	if err := m.copy(text); err != nil {
		logging.Warn("Clipboard copy failed", zap.Error(err))
		m.setError(fmt.Errorf("clipboard unavailable: %w", err))
		return
	}
	m.setStatus("Copied to clipboard")
}

func (m AppModel) saveCmd() tea.Cmd {
	if m.path == "" {
		return func() tea.Msg {
			return savedMsg{err: errors.New("no document file to save to")}
		}
	}
	path, store, save := m.path, m.store, m.save
	return func() tea.Msg {
		return savedMsg{path: path, err: save(path, store)}
	}
}

// report sets the status line from the outcome of an edit.
func (m *AppModel) report(err error, success string) {
	if err != nil {
		m.setError(err)
		return
	}
	m.Dirty = true
	m.setStatus(success)
}

func (m *AppModel) setStatus(s string) {
	m.Status = s
	m.StatusError = false
}

func (m *AppModel) setError(err error) {
	m.Status = dashboard.GetShortErrorMessage(err)
	m.StatusError = true
	logging.Debug("Editor action rejected", zap.Error(err))
}
