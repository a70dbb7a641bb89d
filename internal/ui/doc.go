// Package ui provides styled terminal output for the dashpanel CLI.
//
// The interactive editor lives in package tui. This package covers the
// "run once and exit" commands (show, set, broadcast, new) and renders with
// Lipgloss:
//
//   - Header: command banner with ordered parameters
//   - Result: success, failure and warning boxes; failures carry
//     troubleshooting tips taken from dashboard.GetTroubleshootingHint
//   - Printer: writes headers, results and colored diffs to any io.Writer,
//     with a plain mode for piped output
//   - Confirm: the "type yes" prompt shown before a broadcast
//
// # Logging Integration
//
// Logging is controlled via the DASHPANEL_LOG_LEVEL environment variable.
// When unset or empty, zap logging is silent so only the curated output is
// shown.
package ui
