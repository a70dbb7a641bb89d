// Package logging provides structured logging for dashpanel.
//
// This package wraps zap logger with convenience functions for the events
// the editor produces: transactions, field writes, broadcasts, selection
// changes and preview clients.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed events (every field write, sub-view transitions)
//   - Info: Normal operations (broadcasts, document load/save, preview clients)
//   - Warn: Non-fatal issues (rolled-back transactions, dropped clients)
//   - Error: Failures (save errors, server startup)
//
// Logging is silent unless DASHPANEL_LOG_LEVEL (or --log-level) is set.
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Document saved",
//	    zap.String("path", "dashboard.yaml"),
//	    zap.Int("cards", 12),
//	)
//
// # Specialized Logging
//
//	logging.LogTransaction("broadcast appearance", seq, writes)
//	logging.LogMutation(cardID, "title", "Revenue")
//	logging.LogBroadcast("align", "Column", 12)
//	logging.LogPreviewClient(remoteAddr, "connected")
//
// # Configuration
//
//	if err := logging.Initialize("debug", "/tmp/dashpanel.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The interactive editor owns the terminal, so its logs should be sent to a
// file (argument or DASHPANEL_LOG_FILE). CLI commands log to stderr.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
