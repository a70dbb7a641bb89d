package dashboard

import (
	"fmt"
	"strings"
)

// Appearance is the visual theme of a card.
type Appearance string

const (
	AppearanceTransparent Appearance = "transparent"
	AppearanceOutline     Appearance = "outline"
	AppearanceDropping    Appearance = "dropping"
	AppearanceNeumorphism Appearance = "neumorphism"
)

// Appearances lists every theme in display order.
var Appearances = []Appearance{
	AppearanceTransparent,
	AppearanceOutline,
	AppearanceDropping,
	AppearanceNeumorphism,
}

// Valid reports whether a is a member of the enumeration.
func (a Appearance) Valid() bool {
	for _, known := range Appearances {
		if a == known {
			return true
		}
	}
	return false
}

// DisplayName returns the label shown to users (e.g. "Outline").
func (a Appearance) DisplayName() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// Align is the inset layout of a card body.
type Align int

const (
	AlignAuto Align = iota
	AlignColumn
	AlignRow
)

// Aligns lists every layout in display order.
var Aligns = []Align{
	AlignAuto,
	AlignColumn,
	AlignRow,
}

var alignNames = map[Align]string{
	AlignAuto:   "Auto",
	AlignColumn: "Column",
	AlignRow:    "Row",
}

// Valid reports whether a is a member of the enumeration.
func (a Align) Valid() bool {
	_, ok := alignNames[a]
	return ok
}

// String returns the layout name ("Auto", "Column", "Row").
func (a Align) String() string {
	if name, ok := alignNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Align(%d)", int(a))
}

// MarshalText encodes the layout by name so document files stay readable.
func (a Align) MarshalText() ([]byte, error) {
	name, ok := alignNames[a]
	if !ok {
		return nil, NewInvalidValueError(FieldAlign, a.String())
	}
	return []byte(name), nil
}

// UnmarshalText decodes a layout name. Unknown names are rejected.
func (a *Align) UnmarshalText(text []byte) error {
	parsed, ok := ResolveAlignOption(string(text))
	if !ok {
		return NewInvalidValueError(FieldAlign, string(text))
	}
	*a = parsed
	return nil
}

// Field names a card attribute that can be written.
type Field string

const (
	FieldTitle      Field = "title"
	FieldText       Field = "text"
	FieldAppearance Field = "appearance"
	FieldAlign      Field = "align"

	// FieldCards marks a structural write to the card sequence itself.
	FieldCards Field = "cards"
)

// Broadcastable reports whether the field may be written to every card at once.
func (f Field) Broadcastable() bool {
	return f == FieldAppearance || f == FieldAlign
}

// CardContent is the free-form content of a card.
// A nil field is unset; an empty string is never stored.
type CardContent struct {
	Title *string `yaml:"title,omitempty" json:"title,omitempty"`
	Text  *string `yaml:"text,omitempty" json:"text,omitempty"`
}

// CardConfig is the presentation configuration of a card.
type CardConfig struct {
	Appearance Appearance `yaml:"appearance" json:"appearance"`
	Align      Align      `yaml:"align" json:"align"`
}

// Card is a single visual unit of a document. Its identity is the pointer;
// ID is the persisted form of that identity.
type Card struct {
	ID      string      `yaml:"id" json:"id"`
	Content CardContent `yaml:"content" json:"content"`
	Config  CardConfig  `yaml:"config" json:"config"`
}

// TitleOrEmpty returns the title, or "" when unset.
func (c *Card) TitleOrEmpty() string {
	return derefOrEmpty(c.Content.Title)
}

// TextOrEmpty returns the description, or "" when unset.
func (c *Card) TextOrEmpty() string {
	return derefOrEmpty(c.Content.Text)
}

// Label returns a short human-readable name for the card.
func (c *Card) Label() string {
	if c.Content.Title != nil {
		return *c.Content.Title
	}
	if len(c.ID) > 8 {
		return "card " + c.ID[:8]
	}
	return "card " + c.ID
}

// Document is an ordered collection of cards plus the defaults stamped on
// new cards by the card-creation operator.
type Document struct {
	Version  int        `yaml:"version" json:"version"`
	Name     string     `yaml:"name,omitempty" json:"name,omitempty"`
	Defaults CardConfig `yaml:"defaults" json:"defaults"`
	Cards    []*Card    `yaml:"cards" json:"cards"`
}

// NewDocument creates an empty document with the standard defaults.
func NewDocument(name string) *Document {
	return &Document{
		Version:  1,
		Name:     name,
		Defaults: DefaultCardConfig(),
		Cards:    make([]*Card, 0),
	}
}

// DefaultCardConfig returns the configuration new documents start with.
func DefaultCardConfig() CardConfig {
	return CardConfig{
		Appearance: AppearanceTransparent,
		Align:      AlignAuto,
	}
}

// IndexOf returns the position of card in the sequence, or -1.
func (d *Document) IndexOf(card *Card) int {
	for i, c := range d.Cards {
		if c == card {
			return i
		}
	}
	return -1
}

// Contains reports whether card belongs to the document.
func (d *Document) Contains(card *Card) bool {
	return d.IndexOf(card) >= 0
}

// CardByID looks a card up by its persisted ID.
func (d *Document) CardByID(id string) *Card {
	for _, c := range d.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// UniformConfig reports the value shared by every card for each broadcastable
// field. A field whose value differs between cards (or an empty document)
// reports ok=false.
func UniformConfig(d *Document) (appearance Appearance, appearanceOK bool, align Align, alignOK bool) {
	if len(d.Cards) == 0 {
		return "", false, 0, false
	}
	appearance, align = d.Cards[0].Config.Appearance, d.Cards[0].Config.Align
	appearanceOK, alignOK = true, true
	for _, c := range d.Cards[1:] {
		if c.Config.Appearance != appearance {
			appearanceOK = false
		}
		if c.Config.Align != align {
			alignOK = false
		}
	}
	return appearance, appearanceOK, align, alignOK
}

// normalizeText maps "" to unset.
func normalizeText(value string) *string {
	if value == "" {
		return nil
	}
	v := value
	return &v
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
