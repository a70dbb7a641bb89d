package panel

import (
	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/logging"
)

// Choice is one entry of a theme or layout choice list.
type Choice struct {
	Key      string
	Text     string
	Selected bool
}

// Section is a block of controls shown by the panel.
type Section string

const (
	SectionContent Section = "content"
	SectionTheme   Section = "theme"
	SectionLayout  Section = "layout"
	SectionTabs    Section = "tabs"
	SectionFilters Section = "filters"
)

// Config holds the panel preferences.
type Config struct {
	ResetSubViewOnCardChange bool
}

// Panel binds a store, the host's selection and the sub-view machine, and
// exposes the handlers a rendering layer calls from its controls.
type Panel struct {
	store     *dashboard.Store
	selection Selection
	subViews  *SubViewMachine
}

// New creates a panel in global mode. host receives tab mount events and
// may be nil.
func New(store *dashboard.Store, host SubViewHost, cfg Config) *Panel {
	return &Panel{
		store:    store,
		subViews: NewSubViewMachine(host, cfg.ResetSubViewOnCardChange),
	}
}

// Store returns the store the panel writes to.
func (p *Panel) Store() *dashboard.Store {
	return p.store
}

// Selection returns the current selection.
func (p *Panel) Selection() Selection {
	return p.selection
}

// Mode returns the editing mode of the current selection.
func (p *Panel) Mode() Mode {
	return ModeOf(p.selection)
}

// SubViews returns the tab state machine.
func (p *Panel) SubViews() *SubViewMachine {
	return p.subViews
}

// SetSelection replaces the selection. The card must belong to the
// document; use Global() to clear it.
func (p *Panel) SetSelection(sel Selection) error {
	if sel.Card != nil && !p.store.Document().Contains(sel.Card) {
		return dashboard.NewForeignCardError(dashboard.FieldCards, sel.Card)
	}

	prev := p.selection
	p.selection = sel
	p.subViews.OnSelectionChange(prev, sel)

	cardID := ""
	if sel.Card != nil {
		cardID = sel.Card.ID
	}
	logging.LogSelection(cardID, p.Mode().String())
	return nil
}

// Reconcile drops the selection when the selected card is no longer part
// of the document (for example after an undo removed it).
func (p *Panel) Reconcile() {
	if p.selection.Card != nil && !p.store.Document().Contains(p.selection.Card) {
		_ = p.SetSelection(Global())
	}
}

// ConfigSource returns where the displayed configuration comes from.
func (p *Panel) ConfigSource() ConfigSource {
	return CurrentConfigSource(p.selection, p.store.Document())
}

// Sections returns the control blocks for the current mode.
func (p *Panel) Sections() []Section {
	if IsGlobalMode(p.selection) {
		return []Section{SectionTheme, SectionLayout, SectionFilters}
	}
	return []Section{SectionContent, SectionTheme, SectionLayout, SectionTabs}
}

// ThemeOptions returns the theme choices. In single mode the card's theme
// is selected; global mode selects nothing.
func (p *Panel) ThemeOptions() []Choice {
	var current string
	if p.selection.Card != nil {
		current = string(p.selection.Card.Config.Appearance)
	}
	return choices(dashboard.AppearanceOptions(), current)
}

// LayoutOptions returns the layout choices, selected as ThemeOptions does.
func (p *Panel) LayoutOptions() []Choice {
	var current string
	if p.selection.Card != nil {
		current = p.selection.Card.Config.Align.String()
	}
	return choices(dashboard.AlignOptions(), current)
}

func choices(opts []dashboard.Option, selected string) []Choice {
	out := make([]Choice, len(opts))
	for i, o := range opts {
		out[i] = Choice{Key: o.Key, Text: o.Text, Selected: selected != "" && o.Key == selected}
	}
	return out
}

// ChangeTheme handles a theme choice: the selected card in single mode,
// every card in global mode.
func (p *Panel) ChangeTheme(optionKey string) error {
	a, ok := dashboard.ResolveAppearanceOption(optionKey)
	if !ok {
		return dashboard.NewInvalidValueError(dashboard.FieldAppearance, optionKey)
	}
	if IsGlobalMode(p.selection) {
		return dashboard.BroadcastAppearance(p.store, a)
	}
	return dashboard.SetAppearance(p.store, p.selection.Card, a)
}

// ApplyThemeToAll writes the theme to every card regardless of mode.
func (p *Panel) ApplyThemeToAll(optionKey string) error {
	a, ok := dashboard.ResolveAppearanceOption(optionKey)
	if !ok {
		return dashboard.NewInvalidValueError(dashboard.FieldAppearance, optionKey)
	}
	return dashboard.BroadcastAppearance(p.store, a)
}

// ChangeLayout handles a layout choice like ChangeTheme.
func (p *Panel) ChangeLayout(optionKey string) error {
	a, ok := dashboard.ResolveAlignOption(optionKey)
	if !ok {
		return dashboard.NewInvalidValueError(dashboard.FieldAlign, optionKey)
	}
	if IsGlobalMode(p.selection) {
		return dashboard.BroadcastAlign(p.store, a)
	}
	return dashboard.SetAlign(p.store, p.selection.Card, a)
}

// ApplyLayoutToAll writes the layout to every card regardless of mode.
func (p *Panel) ApplyLayoutToAll(optionKey string) error {
	a, ok := dashboard.ResolveAlignOption(optionKey)
	if !ok {
		return dashboard.NewInvalidValueError(dashboard.FieldAlign, optionKey)
	}
	return dashboard.BroadcastAlign(p.store, a)
}

// ChangeTitle sets the selected card's title. Not available in global mode.
func (p *Panel) ChangeTitle(text string) error {
	if IsGlobalMode(p.selection) {
		return dashboard.NewGlobalContentError(dashboard.FieldTitle)
	}
	return dashboard.SetTitle(p.store, p.selection.Card, text)
}

// ChangeDescription sets the selected card's description. Not available in
// global mode.
func (p *Panel) ChangeDescription(text string) error {
	if IsGlobalMode(p.selection) {
		return dashboard.NewGlobalContentError(dashboard.FieldText)
	}
	return dashboard.SetDescription(p.store, p.selection.Card, text)
}

// SelectSubView switches the card tab. Tabs exist only in single mode.
func (p *Panel) SelectSubView(v SubView) (bool, error) {
	if IsGlobalMode(p.selection) {
		return false, dashboard.NewNoCardError(fieldSubView)
	}
	return p.subViews.Select(v)
}
