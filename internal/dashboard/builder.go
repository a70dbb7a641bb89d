package dashboard

// CardEdit is a validated set of field changes for one card.
// Nil fields are left unchanged.
type CardEdit struct {
	Card       *Card
	Title      *string
	Text       *string
	Appearance *Appearance
	Align      *Align
}

// EditBuilder provides a fluent API for building a multi-field card edit.
// It tracks which fields changed and applies them in one transaction.
//
// Example usage:
//
//	edit, err := dashboard.NewEditBuilder(card).
//	    SetTitle("Revenue").
//	    SetAppearance(dashboard.AppearanceOutline).
//	    Build()
//	if err == nil {
//	    err = edit.Apply(store)
//	}
type EditBuilder struct {
	card *Card

	titleChanged bool
	title        string

	textChanged bool
	text        string

	appearanceChanged bool
	appearance        Appearance

	alignChanged bool
	align        Align
}

// NewEditBuilder creates a builder for card.
func NewEditBuilder(card *Card) *EditBuilder {
	return &EditBuilder{card: card}
}

// SetTitle sets the title. An empty string clears it.
func (b *EditBuilder) SetTitle(title string) *EditBuilder {
	b.titleChanged = true
	b.title = title
	return b
}

// SetDescription sets the description. An empty string clears it.
func (b *EditBuilder) SetDescription(text string) *EditBuilder {
	b.textChanged = true
	b.text = text
	return b
}

// SetAppearance sets the theme.
func (b *EditBuilder) SetAppearance(a Appearance) *EditBuilder {
	b.appearanceChanged = true
	b.appearance = a
	return b
}

// SetAlign sets the layout.
func (b *EditBuilder) SetAlign(a Align) *EditBuilder {
	b.alignChanged = true
	b.align = a
	return b
}

// HasChanges returns true if any field has been set.
func (b *EditBuilder) HasChanges() bool {
	return b.titleChanged || b.textChanged || b.appearanceChanged || b.alignChanged
}

// Validate checks the card and every changed field.
func (b *EditBuilder) Validate() error {
	if b.card == nil {
		return NewNoCardError(FieldCards)
	}
	if b.appearanceChanged && !b.appearance.Valid() {
		return NewInvalidValueError(FieldAppearance, string(b.appearance))
	}
	if b.alignChanged && !b.align.Valid() {
		return NewInvalidValueError(FieldAlign, b.align.String())
	}
	return nil
}

// Build creates a CardEdit holding only the changed fields.
func (b *EditBuilder) Build() (*CardEdit, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	edit := &CardEdit{Card: b.card}
	if b.titleChanged {
		title := b.title
		edit.Title = &title
	}
	if b.textChanged {
		text := b.text
		edit.Text = &text
	}
	if b.appearanceChanged {
		appearance := b.appearance
		edit.Appearance = &appearance
	}
	if b.alignChanged {
		align := b.align
		edit.Align = &align
	}
	return edit, nil
}

// Reset clears all changes.
func (b *EditBuilder) Reset() *EditBuilder {
	b.titleChanged = false
	b.textChanged = false
	b.appearanceChanged = false
	b.alignChanged = false
	b.title = ""
	b.text = ""
	b.appearance = ""
	b.align = AlignAuto
	return b
}

// Apply writes the edit to the store as a single transaction.
func (e *CardEdit) Apply(store *Store) error {
	if err := checkTarget(store, e.Card, FieldCards); err != nil {
		return err
	}
	return store.WithTransaction("edit card", func() error {
		if e.Title != nil {
			if err := SetTitle(store, e.Card, *e.Title); err != nil {
				return err
			}
		}
		if e.Text != nil {
			if err := SetDescription(store, e.Card, *e.Text); err != nil {
				return err
			}
		}
		if e.Appearance != nil {
			if err := SetAppearance(store, e.Card, *e.Appearance); err != nil {
				return err
			}
		}
		if e.Align != nil {
			if err := SetAlign(store, e.Card, *e.Align); err != nil {
				return err
			}
		}
		return nil
	})
}

// FieldCount returns how many fields the edit changes.
func (e *CardEdit) FieldCount() int {
	n := 0
	for _, set := range []bool{e.Title != nil, e.Text != nil, e.Appearance != nil, e.Align != nil} {
		if set {
			n++
		}
	}
	return n
}
