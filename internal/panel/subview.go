package panel

import (
	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/logging"
)

// SubView is a tab inside single-card editing.
type SubView string

const (
	// SubViewCollection hosts the data source and query panel
	SubViewCollection SubView = "collection"
	// SubViewEditor hosts the free-form card editor
	SubViewEditor SubView = "editor"
	// SubViewLOA is reserved. It is never selectable and renders nothing.
	SubViewLOA SubView = "loa"
)

// fieldSubView names the sub-view in validation errors
const fieldSubView dashboard.Field = "subview"

// SupportedSubViews lists the selectable tabs in display order.
var SupportedSubViews = []SubView{SubViewCollection, SubViewEditor}

// Selectable reports whether v may be chosen by the user.
func (v SubView) Selectable() bool {
	for _, s := range SupportedSubViews {
		if v == s {
			return true
		}
	}
	return false
}

// DisplayName returns the tab label.
func (v SubView) DisplayName() string {
	switch v {
	case SubViewCollection:
		return "Collection"
	case SubViewEditor:
		return "Editor"
	case SubViewLOA:
		return "LoA"
	default:
		return string(v)
	}
}

// SubViewHost mounts and unmounts the panels behind each tab.
// It is called only on real transitions.
type SubViewHost interface {
	Mount(v SubView)
	Unmount(v SubView)
}

// SubViewMachine tracks the active tab of single-card editing.
//
// The machine starts in SubViewCollection. A tab is mounted only while a
// card is selected: switching to global mode unmounts it and selecting a
// card again mounts it. By default the active tab persists across
// selection changes; with reset enabled it returns to SubViewCollection
// whenever a different card is selected.
type SubViewMachine struct {
	current SubView
	mounted bool
	host    SubViewHost

	resetOnCardChange bool
	lastCard          *dashboard.Card
}

// NewSubViewMachine creates a machine in its initial state. host may be nil.
func NewSubViewMachine(host SubViewHost, resetOnCardChange bool) *SubViewMachine {
	return &SubViewMachine{
		current:           SubViewCollection,
		host:              host,
		resetOnCardChange: resetOnCardChange,
	}
}

// Current returns the active tab.
func (m *SubViewMachine) Current() SubView {
	return m.current
}

// Mounted reports whether the active tab is mounted.
func (m *SubViewMachine) Mounted() bool {
	return m.mounted
}

// ResetOnCardChange reports whether the tab resets when the card changes.
func (m *SubViewMachine) ResetOnCardChange() bool {
	return m.resetOnCardChange
}

// Select activates v. Selecting the active tab is a no-op and reports
// changed=false. Reserved or unknown tabs are rejected.
func (m *SubViewMachine) Select(v SubView) (changed bool, err error) {
	if !v.Selectable() {
		return false, dashboard.NewInvalidValueError(fieldSubView, string(v))
	}
	if v == m.current {
		return false, nil
	}

	logging.LogSubView(string(m.current), string(v), "select")
	m.transition(v)
	return true, nil
}

// OnSelectionChange applies a selection change to the machine.
func (m *SubViewMachine) OnSelectionChange(prev, next Selection) {
	switch {
	case IsGlobalMode(next):
		if m.mounted {
			m.unmount()
		}

	case IsGlobalMode(prev) || !m.mounted:
		if m.shouldReset(next.Card) {
			logging.LogSubView(string(m.current), string(SubViewCollection), "reset")
			m.current = SubViewCollection
		}
		m.mount()

	case prev.Card != next.Card:
		if m.shouldReset(next.Card) {
			logging.LogSubView(string(m.current), string(SubViewCollection), "reset")
			m.transition(SubViewCollection)
		}
	}

	if next.Card != nil {
		m.lastCard = next.Card
	}
}

func (m *SubViewMachine) shouldReset(card *dashboard.Card) bool {
	return m.resetOnCardChange &&
		m.lastCard != nil &&
		card != m.lastCard &&
		m.current != SubViewCollection
}

// transition switches tabs, remounting only when a tab is mounted.
func (m *SubViewMachine) transition(v SubView) {
	if !m.mounted {
		m.current = v
		return
	}
	m.unmount()
	m.current = v
	m.mount()
}

func (m *SubViewMachine) mount() {
	m.mounted = true
	if m.host != nil {
		m.host.Mount(m.current)
	}
}

func (m *SubViewMachine) unmount() {
	m.mounted = false
	if m.host != nil {
		m.host.Unmount(m.current)
	}
}
