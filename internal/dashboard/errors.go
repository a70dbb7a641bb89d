package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of an edit failure
type ErrorType int

const (
	// ErrTypeInvalidValue indicates a value outside a closed enumeration
	ErrTypeInvalidValue ErrorType = iota
	// ErrTypeUnknownField indicates a field that cannot be written by the operation
	ErrTypeUnknownField
	// ErrTypeNoCard indicates a single-card edit without a target card
	ErrTypeNoCard
	// ErrTypeForeignCard indicates a card that does not belong to the document
	ErrTypeForeignCard
	// ErrTypeGlobalContent indicates a content edit attempted in global mode
	ErrTypeGlobalContent
	// ErrTypeTransaction indicates a transaction that was rolled back
	ErrTypeTransaction
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeInvalidValue:
		return "Invalid Value"
	case ErrTypeUnknownField:
		return "Unknown Field"
	case ErrTypeNoCard:
		return "No Card Selected"
	case ErrTypeForeignCard:
		return "Foreign Card"
	case ErrTypeGlobalContent:
		return "Global Content Edit"
	case ErrTypeTransaction:
		return "Transaction Failed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// EditError is returned when a mutation is rejected or rolled back
type EditError struct {
	Type    ErrorType // Category of error
	Field   Field     // Field the edit targeted (if any)
	Value   string    // Offending value (if any)
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *EditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *EditError) Unwrap() error {
	return e.Err
}

// NewInvalidValueError creates an error for a value outside the field's enumeration
func NewInvalidValueError(field Field, value string) *EditError {
	return &EditError{
		Type:    ErrTypeInvalidValue,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("%q is not a valid %s", value, field),
	}
}

// NewUnknownFieldError creates an error for a field the operation cannot write
func NewUnknownFieldError(field Field) *EditError {
	return &EditError{
		Type:    ErrTypeUnknownField,
		Field:   field,
		Value:   string(field),
		Message: fmt.Sprintf("field %q cannot be broadcast", field),
	}
}

// NewNoCardError creates an error for a single-card edit without a card
func NewNoCardError(field Field) *EditError {
	return &EditError{
		Type:    ErrTypeNoCard,
		Field:   field,
		Message: fmt.Sprintf("no card to write %s to", field),
	}
}

// NewForeignCardError creates an error for a card outside the document
func NewForeignCardError(field Field, card *Card) *EditError {
	return &EditError{
		Type:    ErrTypeForeignCard,
		Field:   field,
		Value:   card.ID,
		Message: fmt.Sprintf("card %s is not part of the document", card.ID),
	}
}

// NewGlobalContentError creates an error for a title/description edit with no card selected
func NewGlobalContentError(field Field) *EditError {
	return &EditError{
		Type:    ErrTypeGlobalContent,
		Field:   field,
		Message: fmt.Sprintf("%s can only be edited on a selected card", field),
	}
}

// NewTransactionError wraps the error that caused a transaction to roll back
func NewTransactionError(label string, err error) *EditError {
	return &EditError{
		Type:    ErrTypeTransaction,
		Message: fmt.Sprintf("transaction %q rolled back", label),
		Err:     err,
	}
}

func asEditError(err error) (*EditError, bool) {
	var editErr *EditError
	if errors.As(err, &editErr) {
		return editErr, true
	}
	return nil, false
}

// IsValidationError checks if an error rejects a value or field
func IsValidationError(err error) bool {
	if editErr, ok := asEditError(err); ok {
		return editErr.Type == ErrTypeInvalidValue || editErr.Type == ErrTypeUnknownField
	}
	return false
}

// IsSelectionError checks if an error was caused by the current selection
func IsSelectionError(err error) bool {
	if editErr, ok := asEditError(err); ok {
		return editErr.Type == ErrTypeNoCard ||
			editErr.Type == ErrTypeForeignCard ||
			editErr.Type == ErrTypeGlobalContent
	}
	return false
}

// IsTransactionError checks if an error came from a rolled-back transaction
func IsTransactionError(err error) bool {
	if editErr, ok := asEditError(err); ok {
		return editErr.Type == ErrTypeTransaction
	}
	return false
}

// GetTroubleshootingHint returns user-facing advice for an error
func GetTroubleshootingHint(err error) string {
	editErr, ok := asEditError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch editErr.Type {
	case ErrTypeInvalidValue:
		switch editErr.Field {
		case FieldAppearance:
			return "Valid themes: " + joinAppearances(", ")
		case FieldAlign:
			return "Valid layouts: " + joinAligns(", ")
		}
		return "The value is not accepted for this field."

	case ErrTypeUnknownField:
		return strings.Join([]string{
			"Only card configuration can be applied to every card.",
			"Broadcastable fields:",
			"  • " + string(FieldAppearance),
			"  • " + string(FieldAlign),
		}, "\n")

	case ErrTypeNoCard, ErrTypeGlobalContent:
		return "Select a card first. Titles and descriptions belong to a single card."

	case ErrTypeForeignCard:
		return "The card was removed or belongs to another document. Reload and select it again."

	case ErrTypeTransaction:
		return "No changes were applied. The document is unchanged."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise message for a status line
func GetShortErrorMessage(err error) string {
	editErr, ok := asEditError(err)
	if !ok {
		return err.Error()
	}

	switch editErr.Type {
	case ErrTypeInvalidValue:
		return fmt.Sprintf("Invalid %s: %q", editErr.Field, editErr.Value)
	case ErrTypeUnknownField:
		return fmt.Sprintf("Cannot apply %s to all cards", editErr.Field)
	case ErrTypeNoCard, ErrTypeGlobalContent:
		return "Select a card first"
	case ErrTypeForeignCard:
		return "Card is not in this document"
	case ErrTypeTransaction:
		if editErr.Err != nil {
			return "Rolled back: " + GetShortErrorMessage(editErr.Err)
		}
		return "Rolled back"
	default:
		return editErr.Message
	}
}

func joinAppearances(sep string) string {
	names := make([]string, len(Appearances))
	for i, a := range Appearances {
		names[i] = string(a)
	}
	return strings.Join(names, sep)
}

func joinAligns(sep string) string {
	names := make([]string, len(Aligns))
	for i, a := range Aligns {
		names[i] = a.String()
	}
	return strings.Join(names, sep)
}
