package main

import (
	"strings"
	"testing"

	"github.com/muurk/dashpanel/internal/dashboard"
)

func testDocument() *dashboard.Document {
	doc := dashboard.NewDocument("cli")
	for _, c := range []struct{ id, title string }{
		{"a1b2c3", "Revenue"},
		{"a1ffff", "Costs"},
		{"d4e5f6", "Costs"},
	} {
		doc.Cards = append(doc.Cards, &dashboard.Card{
			ID:      c.id,
			Content: dashboard.CardContent{Title: dashboard.Text(c.title)},
			Config:  dashboard.DefaultCardConfig(),
		})
	}
	return doc
}

func TestFindCard(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		ref     string
		want    string
		wantErr string
	}{
		{ref: "1", want: "a1b2c3"},
		{ref: "3", want: "d4e5f6"},
		{ref: "0", wantErr: "out of range"},
		{ref: "4", wantErr: "out of range"},
		{ref: "d4e5f6", want: "d4e5f6"},
		{ref: "a1b", want: "a1b2c3"},
		{ref: "a1", wantErr: "matches 2 cards"},
		{ref: "Revenue", want: "a1b2c3"},
		{ref: "Costs", wantErr: "matches 2 cards"},
		{ref: "nope", wantErr: "no card matches"},
		{ref: " ", wantErr: "no card given"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			card, err := findCard(doc, tt.ref)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("findCard(%q) error = %v, want %q", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("findCard(%q) error = %v", tt.ref, err)
			}
			if card.ID != tt.want {
				t.Errorf("findCard(%q) = %s, want %s", tt.ref, card.ID, tt.want)
			}
		})
	}
}

func TestEditCard(t *testing.T) {
	doc := testDocument()

	before, err := editCard(doc, "2", func(b *dashboard.EditBuilder) error {
		b.SetTitle("Spend").SetAlign(dashboard.AlignRow)
		return nil
	})
	if err != nil {
		t.Fatalf("editCard() error = %v", err)
	}

	if got := doc.Cards[1].TitleOrEmpty(); got != "Spend" {
		t.Errorf("title = %q, want Spend", got)
	}
	if doc.Cards[1].Config.Align != dashboard.AlignRow {
		t.Errorf("align = %v, want Row", doc.Cards[1].Config.Align)
	}
	if doc.Cards[0].Config.Align != dashboard.AlignAuto {
		t.Error("other cards must not change")
	}
	if got := before.Cards[1].TitleOrEmpty(); got != "Costs" {
		t.Errorf("before title = %q, want Costs", got)
	}

	diff := dashboard.FormatDiff(before, doc)
	if !strings.Contains(diff, "Auto → Row") {
		t.Errorf("diff missing layout change:\n%s", diff)
	}
}

func TestEditCardNothingToChange(t *testing.T) {
	doc := testDocument()
	_, err := editCard(doc, "1", func(*dashboard.EditBuilder) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Fatalf("editCard() error = %v, want nothing to change", err)
	}
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		check func(*dashboard.Card) bool
	}{
		{"theme", "theme", "Outline", func(c *dashboard.Card) bool { return c.Config.Appearance == dashboard.AppearanceOutline }},
		{"appearance", "appearance", "dropping", func(c *dashboard.Card) bool { return c.Config.Appearance == dashboard.AppearanceDropping }},
		{"layout", "layout", "column", func(c *dashboard.Card) bool { return c.Config.Align == dashboard.AlignColumn }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDocument()
			defaults := doc.Defaults

			if _, err := broadcast(doc, tt.field, tt.value); err != nil {
				t.Fatalf("broadcast() error = %v", err)
			}
			for _, c := range doc.Cards {
				if !tt.check(c) {
					t.Errorf("card %s not updated: %+v", c.ID, c.Config)
				}
			}
			if doc.Defaults != defaults {
				t.Error("broadcast must not touch document defaults")
			}
		})
	}
}

func TestBroadcastRejects(t *testing.T) {
	doc := testDocument()

	if _, err := broadcast(doc, "title", "x"); !dashboard.IsValidationError(err) {
		t.Errorf("broadcast(title) error = %v, want validation error", err)
	}
	if _, err := broadcast(doc, "theme", "glass"); !dashboard.IsValidationError(err) {
		t.Errorf("broadcast(glass) error = %v, want validation error", err)
	}
	for _, c := range doc.Cards {
		if c.Config != dashboard.DefaultCardConfig() {
			t.Errorf("card %s changed after rejected broadcast", c.ID)
		}
	}
}
