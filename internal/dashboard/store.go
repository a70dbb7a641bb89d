package dashboard

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/muurk/dashpanel/internal/logging"
)

// Write records one field write made during a transaction.
// Old and New use the text form of the value; "" means unset.
type Write struct {
	CardID string
	Field  Field
	Old    string
	New    string
}

// Change describes a committed transaction.
type Change struct {
	Seq       uint64
	Label     string
	Writes    []Write
	Timestamp time.Time
}

// CardIDs returns the distinct cards touched by the change, in write order.
func (c Change) CardIDs() []string {
	seen := make(map[string]bool, len(c.Writes))
	ids := make([]string, 0, len(c.Writes))
	for _, w := range c.Writes {
		if w.CardID == "" || seen[w.CardID] {
			continue
		}
		seen[w.CardID] = true
		ids = append(ids, w.CardID)
	}
	return ids
}

// Observer is notified once per committed transaction that changed the document.
type Observer interface {
	DocumentChanged(change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(change Change)

// DocumentChanged calls f(change).
func (f ObserverFunc) DocumentChanged(change Change) {
	f(change)
}

// Store owns a document and serializes every mutation of it into transactions.
type Store struct {
	doc *Document

	// mu is held for the whole outermost transaction so readers on other
	// goroutines never see a half-applied batch
	mu sync.RWMutex

	// transaction state, touched only by the writer goroutine
	depth    int
	label    string
	pending  []Write
	snapshot *documentSnapshot
	noRecord bool
	undoing  *HistoryEntry // dropped from history when the transaction commits

	seq uint64

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int

	history *History
}

// NewStore creates a store for doc. The store keeps a bounded undo history.
func NewStore(doc *Document) *Store {
	return &Store{
		doc:       doc,
		observers: make(map[int]Observer),
		history:   NewHistory(DefaultHistorySize),
	}
}

// Document returns the owned document. Callers on the writer goroutine may
// read it freely; other goroutines must use Read.
func (s *Store) Document() *Document {
	return s.doc
}

// History returns the undo history recorded by the store.
func (s *Store) History() *History {
	return s.history
}

// Seq returns the number of committed transactions that changed the document.
func (s *Store) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Read runs fn with the document while no transaction is in progress.
// It must not be called from inside a transaction.
func (s *Store) Read(fn func(doc *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// ReadSeq is Read that also passes the sequence number of the last
// committed transaction, taken under the same lock as the document.
func (s *Store) ReadSeq(fn func(doc *Document, seq uint64)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc, s.seq)
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// InTransaction reports whether a transaction is currently open.
func (s *Store) InTransaction() bool {
	return s.depth > 0
}

// WithTransaction runs fn as one atomic batch. Observers are notified once,
// after fn returns, with every write fn made. Nested calls join the
// outermost transaction.
//
// If the outermost fn returns an error (or panics) the document is restored
// to its state before the transaction and no observer is notified.
func (s *Store) WithTransaction(label string, fn func() error) (err error) {
	if s.depth > 0 {
		s.depth++
		defer func() { s.depth-- }()
		return fn()
	}

	s.mu.Lock()
	s.depth = 1
	s.label = label
	s.pending = s.pending[:0]
	s.snapshot = takeSnapshot(s.doc)

	committed := false
	defer func() {
		if !committed {
			s.snapshot.restore(s.doc)
			s.resetTransaction()
			s.mu.Unlock()
			logging.LogRollback(label, err)
		}
	}()

	if err = fn(); err != nil {
		return NewTransactionError(label, err)
	}

	writes := coalesce(s.pending)
	var change Change
	if len(writes) > 0 {
		s.seq++
		change = Change{
			Seq:       s.seq,
			Label:     label,
			Writes:    writes,
			Timestamp: time.Now(),
		}
		if !s.noRecord {
			s.history.push(s.snapshot, label)
		}
	}
	if s.undoing != nil {
		s.history.remove(s.undoing)
	}
	committed = true
	s.resetTransaction()
	s.mu.Unlock()

	logging.LogTransaction(label, change.Seq, len(writes))
	if len(writes) > 0 {
		s.notify(change)
	}
	return nil
}

func (s *Store) resetTransaction() {
	s.depth = 0
	s.label = ""
	s.pending = s.pending[:0]
	s.snapshot = nil
	s.noRecord = false
	s.undoing = nil
}

func (s *Store) notify(change Change) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	observers := make([]Observer, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		observers = append(observers, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, o := range observers {
		o.DocumentChanged(change)
	}
}

// record appends a write to the open transaction.
func (s *Store) record(w Write) {
	if s.depth == 0 {
		panic(fmt.Sprintf("dashboard: %s write outside a transaction", w.Field))
	}
	s.pending = append(s.pending, w)
}

// coalesce merges repeated writes to the same card field, keeping the first
// old value and the last new one, and drops writes that end where they began.
func coalesce(pending []Write) []Write {
	type key struct {
		card  string
		field Field
	}
	index := make(map[key]int, len(pending))
	merged := make([]Write, 0, len(pending))
	for _, w := range pending {
		if w.Field == FieldCards {
			merged = append(merged, w)
			continue
		}
		k := key{w.CardID, w.Field}
		if i, ok := index[k]; ok {
			merged[i].New = w.New
			continue
		}
		index[k] = len(merged)
		merged = append(merged, w)
	}

	out := merged[:0]
	for _, w := range merged {
		if w.Old != w.New {
			out = append(out, w)
		}
	}
	return out
}

// documentSnapshot captures a document by value while keeping card identity.
type documentSnapshot struct {
	name     string
	defaults CardConfig
	cards    []*Card
	values   []Card
}

func takeSnapshot(doc *Document) *documentSnapshot {
	snap := &documentSnapshot{
		name:     doc.Name,
		defaults: doc.Defaults,
		cards:    make([]*Card, len(doc.Cards)),
		values:   make([]Card, len(doc.Cards)),
	}
	copy(snap.cards, doc.Cards)
	for i, c := range doc.Cards {
		snap.values[i] = cloneCard(c)
	}
	return snap
}

func (snap *documentSnapshot) restore(doc *Document) {
	doc.Name = snap.name
	doc.Defaults = snap.defaults
	doc.Cards = make([]*Card, len(snap.cards))
	copy(doc.Cards, snap.cards)
	for i, c := range snap.cards {
		*c = cloneCard(&snap.values[i])
	}
}

func cloneCard(c *Card) Card {
	out := *c
	if c.Content.Title != nil {
		out.Content.Title = normalizeText(*c.Content.Title)
	}
	if c.Content.Text != nil {
		out.Content.Text = normalizeText(*c.Content.Text)
	}
	return out
}
