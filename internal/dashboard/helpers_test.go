package dashboard

import (
	"fmt"
	"testing"
)

// newTestStore builds a store over n cards with predictable IDs.
// Cards alternate between two configurations so broadcasts have work to do.
func newTestStore(t *testing.T, n int) *Store {
	t.Helper()

	doc := NewDocument("Test")
	doc.Defaults = CardConfig{Appearance: AppearanceNeumorphism, Align: AlignRow}
	for i := 0; i < n; i++ {
		card := &Card{
			ID:      fmt.Sprintf("card-%d", i+1),
			Content: CardContent{Title: Text(fmt.Sprintf("Card %d", i+1))},
			Config:  CardConfig{Appearance: AppearanceTransparent, Align: AlignAuto},
		}
		if i%2 == 1 {
			card.Config = CardConfig{Appearance: AppearanceOutline, Align: AlignColumn}
		}
		doc.Cards = append(doc.Cards, card)
	}
	return NewStore(doc)
}

// changeRecorder counts observer notifications.
type changeRecorder struct {
	changes []Change
}

func (r *changeRecorder) DocumentChanged(change Change) {
	r.changes = append(r.changes, change)
}

func record(store *Store) *changeRecorder {
	r := &changeRecorder{}
	store.Subscribe(r)
	return r
}

func snapshotValues(doc *Document) []Card {
	out := make([]Card, len(doc.Cards))
	for i, c := range doc.Cards {
		out[i] = cloneCard(c)
	}
	return out
}

func sameCard(a, b Card) bool {
	return a.ID == b.ID &&
		derefOrEmpty(a.Content.Title) == derefOrEmpty(b.Content.Title) &&
		(a.Content.Title == nil) == (b.Content.Title == nil) &&
		derefOrEmpty(a.Content.Text) == derefOrEmpty(b.Content.Text) &&
		(a.Content.Text == nil) == (b.Content.Text == nil) &&
		a.Config == b.Config
}
