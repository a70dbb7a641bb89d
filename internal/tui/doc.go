// Package tui implements the interactive dashboard editor using Bubble Tea.
//
// The screen has two panes. The card list on the left selects a card
// (enter) or returns to editing every card at once (esc). The side panel on
// the right is driven by a panel.Panel and shows different rows per mode:
//
//	single card:  Title, Description, Theme, Layout, Tabs
//	all cards:    Theme, Layout, Filters
//
// On the Theme and Layout rows, left/right move between options, enter
// applies the option through the panel's change handler and a applies it
// to every card. Title is edited with a text input (enter to save) and
// Description with a text area (ctrl+s to save); esc cancels either.
//
// Every committed transaction is listed in the change log pane, which is
// a dashboard.Observer. u undoes the last transaction, w saves the document
// and y copies the selected card's summary to the clipboard.
package tui
