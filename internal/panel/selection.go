package panel

import (
	"github.com/muurk/dashpanel/internal/dashboard"
)

// Selection is the card the panel edits. A nil Card means global mode.
// The host owns the selection and hands it to the panel.
type Selection struct {
	Card *dashboard.Card
}

// Global returns the empty selection.
func Global() Selection {
	return Selection{}
}

// Single returns a selection of one card.
func Single(card *dashboard.Card) Selection {
	return Selection{Card: card}
}

// IsGlobalMode reports whether no card is selected.
func IsGlobalMode(sel Selection) bool {
	return sel.Card == nil
}

// Mode is the editing mode derived from a selection.
type Mode int

const (
	ModeGlobal Mode = iota
	ModeSingle
)

// String returns "global" or "single".
func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "global"
}

// ModeOf returns the mode for sel.
func ModeOf(sel Selection) Mode {
	if IsGlobalMode(sel) {
		return ModeGlobal
	}
	return ModeSingle
}

// ConfigSource is where the panel reads the configuration it displays:
// the selected card, or the document defaults in global mode.
type ConfigSource struct {
	Card     *dashboard.Card
	Defaults *dashboard.CardConfig
}

// Config returns the configuration held by the source.
func (s ConfigSource) Config() dashboard.CardConfig {
	if s.Card != nil {
		return s.Card.Config
	}
	if s.Defaults != nil {
		return *s.Defaults
	}
	return dashboard.DefaultCardConfig()
}

// IsCard reports whether the source is a card.
func (s ConfigSource) IsCard() bool {
	return s.Card != nil
}

// CurrentConfigSource resolves the configuration source for sel.
func CurrentConfigSource(sel Selection, doc *dashboard.Document) ConfigSource {
	if sel.Card != nil {
		return ConfigSource{Card: sel.Card}
	}
	return ConfigSource{Defaults: &doc.Defaults}
}
