package dashboard

import (
	"errors"
	"sync"
	"time"
)

// DefaultHistorySize is the number of undo steps kept by a store.
const DefaultHistorySize = 10

// ErrNothingToUndo is returned by Undo when the history is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// HistoryEntry is the document state saved before a committed transaction.
type HistoryEntry struct {
	// Label of the transaction this entry undoes
	Label string

	// Timestamp when the transaction committed
	Timestamp time.Time

	snapshot *documentSnapshot
}

// History keeps a bounded list of pre-transaction snapshots for undo.
type History struct {
	// entries in chronological order, oldest first
	entries []*HistoryEntry

	// maxEntries is the maximum number of entries to retain
	maxEntries int

	mutex sync.RWMutex
}

// NewHistory creates a history that keeps at most size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = DefaultHistorySize
	}
	return &History{
		entries:    make([]*HistoryEntry, 0, size),
		maxEntries: size,
	}
}

func (h *History) push(snap *documentSnapshot, label string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.entries = append(h.entries, &HistoryEntry{
		Label:     label,
		Timestamp: time.Now(),
		snapshot:  snap,
	})

	// Drop the oldest entry once over the limit
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[1:]
	}
}

// remove drops entry if it is still held.
func (h *History) remove(entry *HistoryEntry) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of undo steps available.
func (h *History) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.entries)
}

// Latest returns the entry Undo would restore, or nil.
func (h *History) Latest() *HistoryEntry {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns all entries in chronological order (oldest first).
func (h *History) Entries() []*HistoryEntry {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	result := make([]*HistoryEntry, len(h.entries))
	copy(result, h.entries)
	return result
}

// Clear removes every entry.
func (h *History) Clear() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.entries = make([]*HistoryEntry, 0, h.maxEntries)
}

// Undo restores the document to its state before the last committed
// transaction. The restore is itself one transaction, so observers see a
// single change; it is not recorded in the history.
func (s *Store) Undo() (label string, err error) {
	entry := s.history.Latest()
	if entry == nil {
		return "", ErrNothingToUndo
	}

	// The entry leaves the history only if the outermost transaction
	// commits; a rollback keeps it for the next attempt.
	err = s.WithTransaction("undo "+entry.Label, func() error {
		s.noRecord = true
		s.undoing = entry
		recordRestore(s, entry.snapshot)
		entry.snapshot.restore(s.doc)
		return nil
	})
	if err != nil {
		return "", err
	}
	return entry.Label, nil
}

// recordRestore records the writes a snapshot restore is about to make.
func recordRestore(s *Store, snap *documentSnapshot) {
	doc := s.doc
	kept := make(map[*Card]bool, len(snap.cards))
	for i, card := range snap.cards {
		kept[card] = true
		old := card
		want := &snap.values[i]
		if !doc.Contains(card) {
			s.record(Write{CardID: card.ID, Field: FieldCards, Old: "", New: card.ID})
		}
		s.record(Write{CardID: card.ID, Field: FieldTitle, Old: derefOrEmpty(old.Content.Title), New: derefOrEmpty(want.Content.Title)})
		s.record(Write{CardID: card.ID, Field: FieldText, Old: derefOrEmpty(old.Content.Text), New: derefOrEmpty(want.Content.Text)})
		s.record(Write{CardID: card.ID, Field: FieldAppearance, Old: string(old.Config.Appearance), New: string(want.Config.Appearance)})
		s.record(Write{CardID: card.ID, Field: FieldAlign, Old: old.Config.Align.String(), New: want.Config.Align.String()})
	}
	for _, card := range doc.Cards {
		if !kept[card] {
			s.record(Write{CardID: card.ID, Field: FieldCards, Old: card.ID, New: ""})
		}
	}
}
