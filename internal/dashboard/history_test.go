package dashboard

import (
	"errors"
	"fmt"
	"testing"
)

func TestUndoRestoresPreviousState(t *testing.T) {
	store := newTestStore(t, 3)
	doc := store.Document()
	before := snapshotValues(doc)

	if err := BroadcastAlign(store, AlignRow); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.History().Len() != 1 {
		t.Fatalf("Expected 1 history entry, got %d", store.History().Len())
	}

	rec := record(store)
	label, err := store.Undo()
	if err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if label != "broadcast align" {
		t.Errorf("Expected label 'broadcast align', got '%s'", label)
	}

	for i, c := range doc.Cards {
		if !sameCard(*c, before[i]) {
			t.Errorf("Card %d not restored by undo", i+1)
		}
	}
	if len(rec.changes) != 1 {
		t.Errorf("Expected undo to notify once, got %d", len(rec.changes))
	}
	if store.History().Len() != 0 {
		t.Errorf("Undo should not record itself, got %d entries", store.History().Len())
	}
}

func TestUndoRemovesAddedCard(t *testing.T) {
	store := newTestStore(t, 1)
	card, err := NewOperators(store).AddCard(CardContent{Title: Text("New")})
	if err != nil {
		t.Fatalf("AddCard() error: %v", err)
	}

	rec := record(store)
	if _, err := store.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}

	if store.Document().Contains(card) {
		t.Error("Added card should be gone after undo")
	}
	if len(rec.changes) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(rec.changes))
	}
	found := false
	for _, w := range rec.changes[0].Writes {
		if w.Field == FieldCards && w.Old == card.ID && w.New == "" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a removal write for %s, got %+v", card.ID, rec.changes[0].Writes)
	}
}

func TestUndoKeptWhenRolledBack(t *testing.T) {
	store := newTestStore(t, 2)
	doc := store.Document()
	before := snapshotValues(doc)

	if err := BroadcastAlign(store, AlignRow); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	failure := errors.New("abort")
	err := store.WithTransaction("outer", func() error {
		if _, err := store.Undo(); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("Expected the outer failure, got %v", err)
	}

	for i, c := range doc.Cards {
		if c.Config.Align != AlignRow {
			t.Errorf("Card %d: rolled-back undo should leave Row, got %v", i+1, c.Config.Align)
		}
	}
	if store.History().Len() != 1 {
		t.Fatalf("Expected the undo step to survive the rollback, got %d entries", store.History().Len())
	}

	label, err := store.Undo()
	if err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if label != "broadcast align" {
		t.Errorf("Expected label 'broadcast align', got '%s'", label)
	}
	for i, c := range doc.Cards {
		if !sameCard(*c, before[i]) {
			t.Errorf("Card %d not restored by undo", i+1)
		}
	}
	if store.History().Len() != 0 {
		t.Errorf("Expected empty history, got %d entries", store.History().Len())
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	store := newTestStore(t, 1)
	if _, err := store.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Expected ErrNothingToUndo, got %v", err)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	store := newTestStore(t, 1)
	card := store.Document().Cards[0]

	for i := 0; i < DefaultHistorySize+5; i++ {
		if err := SetTitle(store, card, fmt.Sprintf("Title %d", i)); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if store.History().Len() != DefaultHistorySize {
		t.Errorf("Expected %d entries, got %d", DefaultHistorySize, store.History().Len())
	}

	entries := store.History().Entries()
	if entries[0].Timestamp.After(entries[len(entries)-1].Timestamp) {
		t.Error("Entries should be oldest first")
	}
	if store.History().Latest() != entries[len(entries)-1] {
		t.Error("Latest() should return the newest entry")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(3)
	h.push(&documentSnapshot{}, "a")
	h.push(&documentSnapshot{}, "b")
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Expected empty history, got %d", h.Len())
	}
	if h.Latest() != nil {
		t.Error("Latest() should be nil after Clear()")
	}
}

func TestNewHistoryDefaultsSize(t *testing.T) {
	h := NewHistory(0)
	if h.maxEntries != DefaultHistorySize {
		t.Errorf("Expected maxEntries=%d, got %d", DefaultHistorySize, h.maxEntries)
	}
}

func TestNoOpTransactionsAreNotRecorded(t *testing.T) {
	store := newTestStore(t, 2)
	_ = BroadcastAlign(store, AlignRow)
	_ = BroadcastAlign(store, AlignRow)

	if store.History().Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", store.History().Len())
	}
}
