package dashboard

import (
	"github.com/google/uuid"
)

// Operators performs structural edits on the card sequence.
// Only appending is supported; the new card takes the document defaults.
type Operators struct {
	store *Store

	// newID generates card IDs; replaced in tests
	newID func() string
}

// NewOperators creates the structural operators for a store.
func NewOperators(store *Store) *Operators {
	return &Operators{
		store: store,
		newID: uuid.NewString,
	}
}

// AddCard appends a card with the given content and the document's default
// configuration. Empty title or text is stored as unset.
func (o *Operators) AddCard(content CardContent) (*Card, error) {
	card := &Card{
		ID: o.newID(),
		Content: CardContent{
			Title: normalizeText(derefOrEmpty(content.Title)),
			Text:  normalizeText(derefOrEmpty(content.Text)),
		},
	}

	err := o.store.WithTransaction("add card", func() error {
		doc := o.store.doc
		card.Config = doc.Defaults
		o.store.record(Write{CardID: card.ID, Field: FieldCards, Old: "", New: card.ID})
		doc.Cards = append(doc.Cards, card)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Text returns a pointer to s, or nil when s is empty.
func Text(s string) *string {
	return normalizeText(s)
}
