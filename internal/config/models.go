package config

import (
	"path/filepath"
	"time"
)

// maxRecentDocuments is the number of recently opened documents remembered.
const maxRecentDocuments = 10

// DefaultPreviewAddr is the listen address used when preview is enabled
// without an explicit address.
const DefaultPreviewAddr = "127.0.0.1:8765"

// Settings represents the entire user configuration file.
type Settings struct {
	Version         int               `yaml:"version"`
	Panel           *PanelPrefs       `yaml:"panel,omitempty"`
	Preview         *PreviewPrefs     `yaml:"preview,omitempty"`
	RecentDocuments []*RecentDocument `yaml:"recent_documents,omitempty"`
}

// PanelPrefs controls the behaviour of the editing panel.
type PanelPrefs struct {
	// ResetSubViewOnCardChange returns the card tabs to the collection
	// view whenever a different card is selected
	ResetSubViewOnCardChange bool `yaml:"reset_subview_on_card_change"`
}

// PreviewPrefs controls the live preview server.
type PreviewPrefs struct {
	Addr        string `yaml:"addr"`                   // Listen address (host:port)
	Advertise   bool   `yaml:"advertise"`              // Announce the server over mDNS
	ServiceName string `yaml:"service_name,omitempty"` // mDNS instance name
}

// RecentDocument is a document opened in the editor.
type RecentDocument struct {
	Path       string    `yaml:"path"`
	Name       string    `yaml:"name,omitempty"`
	LastOpened time.Time `yaml:"last_opened"`
}

// NewSettings creates a new Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:         1,
		Panel:           defaultPanelPrefs(),
		Preview:         defaultPreviewPrefs(),
		RecentDocuments: make([]*RecentDocument, 0),
	}
}

func defaultPanelPrefs() *PanelPrefs {
	return &PanelPrefs{
		ResetSubViewOnCardChange: false,
	}
}

func defaultPreviewPrefs() *PreviewPrefs {
	return &PreviewPrefs{
		Addr:        DefaultPreviewAddr,
		Advertise:   false,
		ServiceName: "dashpanel",
	}
}

// TouchRecent records that the document at path was opened now.
// The entry moves to the front; the list is capped.
func (s *Settings) TouchRecent(path, name string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	entries := make([]*RecentDocument, 0, len(s.RecentDocuments)+1)
	entries = append(entries, &RecentDocument{
		Path:       path,
		Name:       name,
		LastOpened: time.Now(),
	})
	for _, doc := range s.RecentDocuments {
		if doc.Path != path {
			entries = append(entries, doc)
		}
	}

	if len(entries) > maxRecentDocuments {
		entries = entries[:maxRecentDocuments]
	}
	s.RecentDocuments = entries
}

// MostRecent returns the last opened document, or nil.
func (s *Settings) MostRecent() *RecentDocument {
	if len(s.RecentDocuments) == 0 {
		return nil
	}
	return s.RecentDocuments[0]
}
