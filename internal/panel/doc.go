// Package panel implements the editing side panel's selection context and
// its tab state machine.
//
// The panel edits either one selected card (single mode) or every card at
// once (global mode, no selection). Control handlers route to the
// dashboard mutations:
//
//	Handler            single mode              global mode
//	ChangeTheme        SetAppearance(card)      BroadcastAppearance
//	ApplyThemeToAll    BroadcastAppearance      BroadcastAppearance
//	ChangeLayout       SetAlign(card)           BroadcastAlign
//	ApplyLayoutToAll   BroadcastAlign           BroadcastAlign
//	ChangeTitle        SetTitle(card)           rejected
//	ChangeDescription  SetDescription(card)     rejected
//
// Single mode also shows tabs (collection, editor) driven by a
// SubViewMachine; the panels behind the tabs belong to the host and are
// told about transitions through SubViewHost.
package panel
