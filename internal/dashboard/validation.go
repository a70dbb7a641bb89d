package dashboard

import (
	"fmt"
	"strings"
)

// ValidateCardConfig validates that both fields are enumeration members.
// Returns a slice of validation errors (empty if valid).
func ValidateCardConfig(config CardConfig) []error {
	var errors []error

	if !config.Appearance.Valid() {
		errors = append(errors, NewInvalidValueError(FieldAppearance, string(config.Appearance)))
	}
	if !config.Align.Valid() {
		errors = append(errors, NewInvalidValueError(FieldAlign, config.Align.String()))
	}

	return errors
}

// ValidateCard validates a single card.
// Empty title or text is reported as a warning since loading normalizes it.
func ValidateCard(card *Card) []error {
	var errors []error

	if card.ID == "" {
		errors = append(errors, newValidationMessage("card ID is empty"))
	}
	errors = append(errors, ValidateCardConfig(card.Config)...)
	if card.Content.Title != nil && *card.Content.Title == "" {
		errors = append(errors, newValidationMessage("warning: empty title will be cleared"))
	}
	if card.Content.Text != nil && *card.Content.Text == "" {
		errors = append(errors, newValidationMessage("warning: empty description will be cleared"))
	}

	return errors
}

// ValidateDocument validates the defaults and every card of a document.
// Card errors are prefixed with the card position.
func ValidateDocument(doc *Document) []error {
	var errors []error

	for _, err := range ValidateCardConfig(doc.Defaults) {
		errors = append(errors, fmt.Errorf("defaults: %w", err))
	}

	seen := make(map[string]int, len(doc.Cards))
	for i, card := range doc.Cards {
		if card == nil {
			errors = append(errors, fmt.Errorf("card %d: %w", i+1, newValidationMessage("card is empty")))
			continue
		}
		for _, err := range ValidateCard(card) {
			errors = append(errors, fmt.Errorf("card %d: %w", i+1, err))
		}
		if card.ID == "" {
			continue
		}
		if first, dup := seen[card.ID]; dup {
			errors = append(errors, fmt.Errorf("card %d: %w", i+1,
				newValidationMessage(fmt.Sprintf("duplicate ID %s (first used by card %d)", card.ID, first+1))))
			continue
		}
		seen[card.ID] = i
	}

	return errors
}

// NormalizeDocument clears empty titles and descriptions in place.
// It runs outside any store, before the document is handed to one.
func NormalizeDocument(doc *Document) {
	for _, card := range doc.Cards {
		if card == nil {
			continue
		}
		if card.Content.Title != nil && *card.Content.Title == "" {
			card.Content.Title = nil
		}
		if card.Content.Text != nil && *card.Content.Text == "" {
			card.Content.Text = nil
		}
	}
}

// FormatValidationErrors formats a slice of validation errors into a user-friendly message.
func FormatValidationErrors(errors []error) string {
	if len(errors) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document validation failed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return sb.String()
}

// IsWarning checks if a validation error is a warning (non-fatal).
// Warnings have messages starting with "warning:".
func IsWarning(err error) bool {
	if editErr, ok := asEditError(err); ok {
		return strings.HasPrefix(editErr.Message, "warning:")
	}
	return strings.Contains(err.Error(), "warning:")
}

// SeparateWarningsAndErrors splits validation results into warnings and
// errors that prevent the document from being used.
func SeparateWarningsAndErrors(errors []error) (warnings []error, criticalErrors []error) {
	for _, err := range errors {
		if IsWarning(err) {
			warnings = append(warnings, err)
		} else {
			criticalErrors = append(criticalErrors, err)
		}
	}
	return warnings, criticalErrors
}

func newValidationMessage(message string) *EditError {
	return &EditError{
		Type:    ErrTypeInvalidValue,
		Message: message,
	}
}
