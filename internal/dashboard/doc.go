// Package dashboard implements the card configuration and broadcast-mutation
// model for dashboard documents.
//
// A Document is an ordered sequence of cards. Each Card carries free-form
// content (an optional title and description) and a configuration made of two
// closed enumerations: an Appearance (the card theme) and an Align (the inset
// layout of the card body).
//
// # Mutation Contract
//
// All writes go through a Store, which owns the document and provides the
// transaction boundary observers rely on:
//
//	store := dashboard.NewStore(doc)
//
//	// One card, one field
//	err := dashboard.SetAppearance(store, card, dashboard.AppearanceOutline)
//
//	// Every card, one field
//	err = dashboard.BroadcastAlign(store, dashboard.AlignColumn)
//
// Every mutation runs inside exactly one Store.WithTransaction call. Observers
// registered with Store.Subscribe receive a single Change per committed
// transaction, listing the field writes it made. A transaction whose function
// returns an error is rolled back and nobody is notified.
//
// # Text Normalization
//
// Titles and descriptions are either a non-empty string or unset (nil).
// Setting an empty string clears the field.
//
// # Option Keys
//
// User interfaces offer the enumerations as option lists (AppearanceOptions,
// AlignOptions). ResolveAppearanceOption and ResolveAlignOption map an option
// key back to the enumeration member; both the single-card and the broadcast
// code paths must resolve through them so they never disagree.
//
// # Error Handling
//
// Invalid input is reported as *EditError with an ErrorType describing the
// category. Use IsValidationError and IsSelectionError to branch on them.
//
// # Thread Safety
//
// Transactions must be issued from a single goroutine (the UI event loop).
// Store.Read may be used from any goroutine to inspect the document between
// transactions.
package dashboard
