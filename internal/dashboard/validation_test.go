package dashboard

import (
	"strings"
	"testing"
)

func TestValidateCardConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  CardConfig
		wantErr int
	}{
		{"valid", CardConfig{Appearance: AppearanceOutline, Align: AlignRow}, 0},
		{"bad appearance", CardConfig{Appearance: "glass", Align: AlignRow}, 1},
		{"bad align", CardConfig{Appearance: AppearanceOutline, Align: Align(7)}, 1},
		{"both bad", CardConfig{Appearance: "", Align: Align(-1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCardConfig(tt.config)
			if len(errs) != tt.wantErr {
				t.Errorf("Expected %d errors, got %d: %v", tt.wantErr, len(errs), errs)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		store := newTestStore(t, 3)
		if errs := ValidateDocument(store.Document()); len(errs) != 0 {
			t.Errorf("Expected no errors, got %v", errs)
		}
	})

	t.Run("duplicate IDs", func(t *testing.T) {
		store := newTestStore(t, 3)
		doc := store.Document()
		doc.Cards[2].ID = doc.Cards[0].ID

		errs := ValidateDocument(doc)
		if len(errs) != 1 {
			t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
		}
		if !strings.Contains(errs[0].Error(), "duplicate ID") {
			t.Errorf("Expected duplicate ID error, got %v", errs[0])
		}
		if !strings.Contains(errs[0].Error(), "card 3") {
			t.Errorf("Expected error to name card 3, got %v", errs[0])
		}
	})

	t.Run("empty strings are warnings", func(t *testing.T) {
		store := newTestStore(t, 1)
		empty := ""
		store.Document().Cards[0].Content.Title = &empty
		store.Document().Cards[0].Content.Text = &empty

		warnings, errs := SeparateWarningsAndErrors(ValidateDocument(store.Document()))
		if len(errs) != 0 {
			t.Errorf("Expected no critical errors, got %v", errs)
		}
		if len(warnings) != 2 {
			t.Errorf("Expected 2 warnings, got %d", len(warnings))
		}
	})

	t.Run("invalid defaults and cards", func(t *testing.T) {
		store := newTestStore(t, 2)
		doc := store.Document()
		doc.Defaults.Appearance = "glass"
		doc.Cards[1].Config.Align = Align(9)
		doc.Cards = append(doc.Cards, nil)

		_, errs := SeparateWarningsAndErrors(ValidateDocument(doc))
		if len(errs) != 3 {
			t.Fatalf("Expected 3 errors, got %d: %v", len(errs), errs)
		}
		if !strings.HasPrefix(errs[0].Error(), "defaults:") {
			t.Errorf("Expected defaults error first, got %v", errs[0])
		}
	})
}

func TestNormalizeDocument(t *testing.T) {
	store := newTestStore(t, 2)
	doc := store.Document()
	empty := ""
	doc.Cards[0].Content.Title = &empty
	doc.Cards[1].Content.Text = &empty

	NormalizeDocument(doc)

	if doc.Cards[0].Content.Title != nil {
		t.Error("Expected empty title to be cleared")
	}
	if doc.Cards[1].Content.Text != nil {
		t.Error("Expected empty text to be cleared")
	}
	if doc.Cards[1].Content.Title == nil {
		t.Error("Non-empty title should be kept")
	}
}

func TestFormatValidationErrors(t *testing.T) {
	if got := FormatValidationErrors(nil); got != "No validation errors" {
		t.Errorf("Expected 'No validation errors', got %q", got)
	}

	errs := ValidateCardConfig(CardConfig{Appearance: "glass", Align: Align(5)})
	got := FormatValidationErrors(errs)
	if !strings.Contains(got, "2 error(s)") {
		t.Errorf("Expected error count in output, got %q", got)
	}
	if !strings.Contains(got, "  1. ") || !strings.Contains(got, "  2. ") {
		t.Errorf("Expected numbered errors, got %q", got)
	}
}
