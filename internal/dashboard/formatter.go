package dashboard

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// descriptionWidth is the wrap width for descriptions in text output
const descriptionWidth = 60

// Summary returns a one-line summary of the card
func (c *Card) Summary() string {
	return fmt.Sprintf("%s [%s, %s]", c.Label(), c.Config.Appearance.DisplayName(), c.Config.Align)
}

// FormatCard returns a formatted block with every field of the card
func FormatCard(c *Card) string {
	var b strings.Builder

	title := "(none)"
	if c.Content.Title != nil {
		title = *c.Content.Title
	}
	b.WriteString(fmt.Sprintf("ID:          %s\n", c.ID))
	b.WriteString(fmt.Sprintf("Title:       %s\n", title))
	b.WriteString(fmt.Sprintf("Theme:       %s\n", c.Config.Appearance.DisplayName()))
	b.WriteString(fmt.Sprintf("Layout:      %s\n", c.Config.Align))
	if c.Content.Text != nil {
		b.WriteString("Description:\n")
		b.WriteString(indent.String(wordwrap.String(*c.Content.Text, descriptionWidth), 2))
		b.WriteString("\n")
	} else {
		b.WriteString("Description: (none)\n")
	}

	return b.String()
}

// FormatCompact returns one line per card, suitable for terminal display
func FormatCompact(doc *Document) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Document: %s (%d cards)\n", displayName(doc), len(doc.Cards)))
	for i, c := range doc.Cards {
		b.WriteString(fmt.Sprintf("%3d. %s\n", i+1, c.Summary()))
	}

	return b.String()
}

// FormatDetailed returns every card of the document with a header
func FormatDetailed(doc *Document) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString(fmt.Sprintf("║ %-62s ║\n", strings.ToUpper(displayName(doc))))
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n")
	b.WriteString("\n")

	b.WriteString("=== Defaults for New Cards ===\n")
	b.WriteString(fmt.Sprintf("Theme:  %s\n", doc.Defaults.Appearance.DisplayName()))
	b.WriteString(fmt.Sprintf("Layout: %s\n", doc.Defaults.Align))
	b.WriteString("\n")

	appearance, appearanceOK, align, alignOK := UniformConfig(doc)
	b.WriteString("=== All Cards ===\n")
	b.WriteString(fmt.Sprintf("Theme:  %s\n", uniformLabel(appearance.DisplayName(), appearanceOK, len(doc.Cards))))
	b.WriteString(fmt.Sprintf("Layout: %s\n", uniformLabel(align.String(), alignOK, len(doc.Cards))))

	for i, c := range doc.Cards {
		b.WriteString(fmt.Sprintf("\n=== Card %d ===\n", i+1))
		b.WriteString(FormatCard(c))
	}

	return b.String()
}

// FormatChange returns one line per write of a committed transaction
func FormatChange(change Change) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("#%d %s (%d write(s))\n", change.Seq, change.Label, len(change.Writes)))
	for _, w := range change.Writes {
		b.WriteString("  " + FormatWrite(w) + "\n")
	}

	return b.String()
}

// FormatWrite returns a single write as "card field: old → new"
func FormatWrite(w Write) string {
	id := w.CardID
	if len(id) > 8 {
		id = id[:8]
	}
	if w.Field == FieldCards {
		if w.Old == "" {
			return fmt.Sprintf("%s added", id)
		}
		return fmt.Sprintf("%s removed", id)
	}
	return fmt.Sprintf("%s %s: %s → %s", id, w.Field, orNone(w.Old), orNone(w.New))
}

// FormatDiff returns the differences between two states of a document.
// Cards are matched by ID; text fields show an inline character diff.
func FormatDiff(old, new *Document) string {
	var b strings.Builder

	b.WriteString("=== Document Differences ===\n")
	hasChanges := false

	for _, nc := range new.Cards {
		oc := old.CardByID(nc.ID)
		if oc == nil {
			b.WriteString(fmt.Sprintf("\n+ %s\n", nc.Summary()))
			hasChanges = true
			continue
		}

		var lines []string
		if oc.TitleOrEmpty() != nc.TitleOrEmpty() {
			lines = append(lines, "  Title:       "+InlineDiff(oc.TitleOrEmpty(), nc.TitleOrEmpty()))
		}
		if oc.TextOrEmpty() != nc.TextOrEmpty() {
			lines = append(lines, "  Description: "+InlineDiff(oc.TextOrEmpty(), nc.TextOrEmpty()))
		}
		if oc.Config.Appearance != nc.Config.Appearance {
			lines = append(lines, fmt.Sprintf("  Theme:       %s → %s", oc.Config.Appearance.DisplayName(), nc.Config.Appearance.DisplayName()))
		}
		if oc.Config.Align != nc.Config.Align {
			lines = append(lines, fmt.Sprintf("  Layout:      %s → %s", oc.Config.Align, nc.Config.Align))
		}
		if len(lines) > 0 {
			b.WriteString(fmt.Sprintf("\n%s:\n", nc.Label()))
			b.WriteString(strings.Join(lines, "\n"))
			b.WriteString("\n")
			hasChanges = true
		}
	}

	for _, oc := range old.Cards {
		if new.CardByID(oc.ID) == nil {
			b.WriteString(fmt.Sprintf("\n- %s\n", oc.Summary()))
			hasChanges = true
		}
	}

	if !hasChanges {
		b.WriteString("\n(no differences detected)\n")
	}

	return b.String()
}

// InlineDiff renders a character diff of two strings using [-removed-] and
// {+added+} markers.
func InlineDiff(before, after string) string {
	d := dmp.New()
	diffs := d.DiffMain(before, after, false)
	diffs = d.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, df := range diffs {
		switch df.Type {
		case dmp.DiffDelete:
			b.WriteString("[-" + df.Text + "-]")
		case dmp.DiffInsert:
			b.WriteString("{+" + df.Text + "+}")
		case dmp.DiffEqual:
			b.WriteString(df.Text)
		}
	}
	return b.String()
}

// CloneDocument returns a deep copy of doc with new card pointers.
// It is used to compute diffs for dry runs.
func CloneDocument(doc *Document) *Document {
	out := &Document{
		Version:  doc.Version,
		Name:     doc.Name,
		Defaults: doc.Defaults,
		Cards:    make([]*Card, len(doc.Cards)),
	}
	for i, c := range doc.Cards {
		cc := cloneCard(c)
		out.Cards[i] = &cc
	}
	return out
}

func displayName(doc *Document) string {
	if doc.Name == "" {
		return "Untitled dashboard"
	}
	return doc.Name
}

func uniformLabel(value string, ok bool, cards int) string {
	if cards == 0 {
		return "(no cards)"
	}
	if !ok {
		return "(mixed)"
	}
	return value
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
