package dashboard

import (
	"errors"
	"sync"
	"testing"
)

func TestWithTransactionBatchesWrites(t *testing.T) {
	store := newTestStore(t, 3)
	rec := record(store)
	doc := store.Document()

	err := store.WithTransaction("batch", func() error {
		if err := SetTitle(store, doc.Cards[0], "One"); err != nil {
			return err
		}
		if err := SetAlign(store, doc.Cards[2], AlignRow); err != nil {
			return err
		}
		return BroadcastAppearance(store, AppearanceDropping)
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rec.changes) != 1 {
		t.Fatalf("Expected 1 notification for nested calls, got %d", len(rec.changes))
	}
	change := rec.changes[0]
	if change.Label != "batch" {
		t.Errorf("Expected label 'batch', got '%s'", change.Label)
	}
	// title + align + 3 appearances
	if len(change.Writes) != 5 {
		t.Errorf("Expected 5 writes, got %d", len(change.Writes))
	}
	if store.Seq() != 1 {
		t.Errorf("Expected seq 1, got %d", store.Seq())
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	store := newTestStore(t, 3)
	rec := record(store)
	doc := store.Document()
	before := snapshotValues(doc)
	cards := append([]*Card(nil), doc.Cards...)
	boom := errors.New("boom")

	err := store.WithTransaction("failing", func() error {
		if err := BroadcastAlign(store, AlignRow); err != nil {
			return err
		}
		if _, err := NewOperators(store).AddCard(CardContent{}); err != nil {
			return err
		}
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("Expected error wrapping boom, got %v", err)
	}
	if !IsTransactionError(err) {
		t.Errorf("Expected transaction error, got %v", err)
	}
	if len(doc.Cards) != 3 {
		t.Fatalf("Expected 3 cards after rollback, got %d", len(doc.Cards))
	}
	for i, c := range doc.Cards {
		if c != cards[i] {
			t.Errorf("Card %d identity changed by rollback", i+1)
		}
		if !sameCard(*c, before[i]) {
			t.Errorf("Card %d not restored by rollback", i+1)
		}
	}
	if len(rec.changes) != 0 {
		t.Errorf("Expected no notification after rollback, got %d", len(rec.changes))
	}
	if store.History().Len() != 0 {
		t.Errorf("Expected empty history after rollback, got %d", store.History().Len())
	}
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	store := newTestStore(t, 2)
	before := snapshotValues(store.Document())

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic to propagate")
			}
		}()
		_ = store.WithTransaction("panics", func() error {
			_ = BroadcastAppearance(store, AppearanceDropping)
			panic("bad")
		})
	}()

	for i, c := range store.Document().Cards {
		if !sameCard(*c, before[i]) {
			t.Errorf("Card %d not restored after panic", i+1)
		}
	}
	if store.InTransaction() {
		t.Error("Transaction should be closed after panic")
	}

	// The store is usable again
	if err := SetAlign(store, store.Document().Cards[0], AlignRow); err != nil {
		t.Fatalf("Unexpected error after panic: %v", err)
	}
}

func TestCoalesceRepeatedWrites(t *testing.T) {
	store := newTestStore(t, 1)
	rec := record(store)
	card := store.Document().Cards[0]

	err := store.WithTransaction("flip", func() error {
		_ = SetAlign(store, card, AlignRow)
		_ = SetAlign(store, card, AlignColumn)
		_ = SetTitle(store, card, "Temp")
		return SetTitle(store, card, "Card 1")
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rec.changes) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(rec.changes))
	}
	writes := rec.changes[0].Writes
	if len(writes) != 1 {
		t.Fatalf("Expected 1 coalesced write, got %d: %v", len(writes), writes)
	}
	if writes[0].Field != FieldAlign || writes[0].Old != "Auto" || writes[0].New != "Column" {
		t.Errorf("Unexpected write %+v", writes[0])
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	store := newTestStore(t, 1)
	var calls []string

	unsubA := store.Subscribe(ObserverFunc(func(Change) { calls = append(calls, "a") }))
	store.Subscribe(ObserverFunc(func(Change) { calls = append(calls, "b") }))

	_ = SetTitle(store, store.Document().Cards[0], "x")
	unsubA()
	_ = SetTitle(store, store.Document().Cards[0], "y")

	want := []string{"a", "b", "b"}
	if len(calls) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("Expected calls %v, got %v", want, calls)
			break
		}
	}
}

func TestObserverCanReadAfterCommit(t *testing.T) {
	store := newTestStore(t, 2)
	var seen Appearance

	store.Subscribe(ObserverFunc(func(Change) {
		store.Read(func(doc *Document) {
			seen = doc.Cards[1].Config.Appearance
		})
	}))

	if err := BroadcastAppearance(store, AppearanceDropping); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if seen != AppearanceDropping {
		t.Errorf("Expected observer to read dropping, got %s", seen)
	}
}

func TestConcurrentReadersSeeWholeBatches(t *testing.T) {
	store := newTestStore(t, 8)
	if err := BroadcastAppearance(store, AppearanceOutline); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	mixed := make(chan struct{}, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			store.Read(func(doc *Document) {
				if _, ok, _, _ := UniformConfig(doc); !ok {
					select {
					case mixed <- struct{}{}:
					default:
					}
				}
			})
		}
	}()

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			_ = BroadcastAppearance(store, AppearanceDropping)
		} else {
			_ = BroadcastAppearance(store, AppearanceOutline)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case <-mixed:
		t.Error("Reader observed a partially applied broadcast")
	default:
	}
}

func TestAddCardStampsDefaults(t *testing.T) {
	store := newTestStore(t, 1)
	rec := record(store)
	ops := NewOperators(store)
	ops.newID = func() string { return "fixed-id" }

	card, err := ops.AddCard(CardContent{Title: Text(""), Text: Text("Body")})
	if err != nil {
		t.Fatalf("AddCard() error: %v", err)
	}

	if card.ID != "fixed-id" {
		t.Errorf("Expected ID 'fixed-id', got '%s'", card.ID)
	}
	if card.Config != store.Document().Defaults {
		t.Errorf("Expected defaults %+v, got %+v", store.Document().Defaults, card.Config)
	}
	if card.Content.Title != nil {
		t.Error("Expected empty title to be unset")
	}
	if card.TextOrEmpty() != "Body" {
		t.Errorf("Expected text 'Body', got '%s'", card.TextOrEmpty())
	}
	if store.Document().Cards[1] != card {
		t.Error("Expected card appended at the end")
	}
	if len(rec.changes) != 1 || rec.changes[0].Writes[0].Field != FieldCards {
		t.Errorf("Expected one structural change, got %+v", rec.changes)
	}
}

func TestAddCardGeneratesUniqueIDs(t *testing.T) {
	store := newTestStore(t, 0)
	ops := NewOperators(store)

	a, _ := ops.AddCard(CardContent{})
	b, _ := ops.AddCard(CardContent{})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestRecordOutsideTransactionPanics(t *testing.T) {
	store := newTestStore(t, 1)
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a write outside a transaction")
		}
	}()
	assignAlign(store, store.Document().Cards[0], AlignRow)
}
