package dashboard

import (
	"github.com/muurk/dashpanel/internal/logging"
)

// SetTitle sets the card title. An empty value clears it.
func SetTitle(store *Store, card *Card, value string) error {
	if err := checkTarget(store, card, FieldTitle); err != nil {
		return err
	}
	return store.WithTransaction("set title", func() error {
		assignTitle(store, card, normalizeText(value))
		return nil
	})
}

// SetDescription sets the card description. An empty value clears it.
func SetDescription(store *Store, card *Card, value string) error {
	if err := checkTarget(store, card, FieldText); err != nil {
		return err
	}
	return store.WithTransaction("set description", func() error {
		assignText(store, card, normalizeText(value))
		return nil
	})
}

// SetAppearance sets the theme of a single card.
func SetAppearance(store *Store, card *Card, value Appearance) error {
	if !value.Valid() {
		return NewInvalidValueError(FieldAppearance, string(value))
	}
	if err := checkTarget(store, card, FieldAppearance); err != nil {
		return err
	}
	return store.WithTransaction("set appearance", func() error {
		assignAppearance(store, card, value)
		return nil
	})
}

// SetAlign sets the layout of a single card.
func SetAlign(store *Store, card *Card, value Align) error {
	if !value.Valid() {
		return NewInvalidValueError(FieldAlign, value.String())
	}
	if err := checkTarget(store, card, FieldAlign); err != nil {
		return err
	}
	return store.WithTransaction("set align", func() error {
		assignAlign(store, card, value)
		return nil
	})
}

// Broadcast writes value to field on every card currently in the document.
// Only FieldAppearance and FieldAlign can be broadcast; value is the option
// key of the enumeration member. Document defaults are not touched, so cards
// created later keep their own defaults.
func Broadcast(store *Store, field Field, value string) error {
	switch field {
	case FieldAppearance:
		a, ok := ResolveAppearanceOption(value)
		if !ok {
			return NewInvalidValueError(field, value)
		}
		return BroadcastAppearance(store, a)
	case FieldAlign:
		a, ok := ResolveAlignOption(value)
		if !ok {
			return NewInvalidValueError(field, value)
		}
		return BroadcastAlign(store, a)
	default:
		return NewUnknownFieldError(field)
	}
}

// BroadcastAppearance sets the theme of every card in one transaction.
func BroadcastAppearance(store *Store, value Appearance) error {
	if !value.Valid() {
		return NewInvalidValueError(FieldAppearance, string(value))
	}
	return store.WithTransaction("broadcast appearance", func() error {
		cards := store.doc.Cards
		for _, card := range cards {
			assignAppearance(store, card, value)
		}
		logging.LogBroadcast(string(FieldAppearance), string(value), len(cards))
		return nil
	})
}

// BroadcastAlign sets the layout of every card in one transaction.
func BroadcastAlign(store *Store, value Align) error {
	if !value.Valid() {
		return NewInvalidValueError(FieldAlign, value.String())
	}
	return store.WithTransaction("broadcast align", func() error {
		cards := store.doc.Cards
		for _, card := range cards {
			assignAlign(store, card, value)
		}
		logging.LogBroadcast(string(FieldAlign), value.String(), len(cards))
		return nil
	})
}

func checkTarget(store *Store, card *Card, field Field) error {
	if card == nil {
		return NewNoCardError(field)
	}
	if !store.doc.Contains(card) {
		return NewForeignCardError(field, card)
	}
	return nil
}

// The assign helpers perform the actual write and must run inside a transaction.

func assignTitle(store *Store, card *Card, value *string) {
	store.record(Write{CardID: card.ID, Field: FieldTitle, Old: derefOrEmpty(card.Content.Title), New: derefOrEmpty(value)})
	card.Content.Title = value
	logging.LogMutation(card.ID, string(FieldTitle), derefOrEmpty(value))
}

func assignText(store *Store, card *Card, value *string) {
	store.record(Write{CardID: card.ID, Field: FieldText, Old: derefOrEmpty(card.Content.Text), New: derefOrEmpty(value)})
	card.Content.Text = value
	logging.LogMutation(card.ID, string(FieldText), derefOrEmpty(value))
}

func assignAppearance(store *Store, card *Card, value Appearance) {
	store.record(Write{CardID: card.ID, Field: FieldAppearance, Old: string(card.Config.Appearance), New: string(value)})
	card.Config.Appearance = value
	logging.LogMutation(card.ID, string(FieldAppearance), string(value))
}

func assignAlign(store *Store, card *Card, value Align) {
	store.record(Write{CardID: card.ID, Field: FieldAlign, Old: card.Config.Align.String(), New: value.String()})
	card.Config.Align = value
	logging.LogMutation(card.ID, string(FieldAlign), value.String())
}
