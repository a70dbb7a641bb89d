// Package docstore reads and writes dashboard documents as YAML files.
package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/logging"
)

// FormatVersion is the document file version written by Save.
const FormatVersion = 1

// ErrInvalidDocument is wrapped by Load when validation finds errors.
var ErrInvalidDocument = errors.New("invalid document")

var fileMutex sync.Mutex

// LoadResult carries a loaded document and the non-fatal issues found in it.
type LoadResult struct {
	Document *dashboard.Document
	Warnings []error
}

// Load reads the document at path. Empty titles and descriptions are
// cleared; any other validation error fails the load.
func Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes a document. source names the input in error messages.
func Parse(data []byte, source string) (*LoadResult, error) {
	var doc dashboard.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", source, err)
	}

	if doc.Version == 0 {
		doc.Version = FormatVersion
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported document version: %d (expected %d)", doc.Version, FormatVersion)
	}
	if doc.Cards == nil {
		doc.Cards = make([]*dashboard.Card, 0)
	}
	// Files written by hand may omit the defaults section
	if doc.Defaults.Appearance == "" {
		doc.Defaults.Appearance = dashboard.DefaultCardConfig().Appearance
	}

	warnings, errs := dashboard.SeparateWarningsAndErrors(dashboard.ValidateDocument(&doc))
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w %s:\n%s", ErrInvalidDocument, source, dashboard.FormatValidationErrors(errs))
	}
	dashboard.NormalizeDocument(&doc)

	logging.LogDocumentIO("loaded", source, len(doc.Cards))
	return &LoadResult{Document: &doc, Warnings: warnings}, nil
}

// Marshal encodes doc as YAML with a header comment.
func Marshal(doc *dashboard.Document) ([]byte, error) {
	out := *doc
	out.Version = FormatVersion

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	header := []byte("# dashpanel document\n# Cards are listed in layout order.\n\n")
	return append(header, data...), nil
}

// Save writes doc to path atomically.
func Save(path string, doc *dashboard.Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create document directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary document file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save document: %w", err)
	}

	logging.LogDocumentIO("saved", path, len(doc.Cards))
	return nil
}

// SaveStore writes the store's document while no transaction is running.
func SaveStore(path string, store *dashboard.Store) error {
	var err error
	store.Read(func(doc *dashboard.Document) {
		err = Save(path, doc)
	})
	return err
}

// Create builds a new document named name with count empty cards and
// writes it to path. Existing files are not overwritten.
func Create(path, name string, count int) (*dashboard.Document, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("document %s already exists", path)
	}

	doc := dashboard.NewDocument(name)
	store := dashboard.NewStore(doc)
	ops := dashboard.NewOperators(store)
	for i := 0; i < count; i++ {
		title := fmt.Sprintf("Card %d", i+1)
		if _, err := ops.AddCard(dashboard.CardContent{Title: dashboard.Text(title)}); err != nil {
			return nil, err
		}
	}

	if err := Save(path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
