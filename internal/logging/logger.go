package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "DASHPANEL_LOG_LEVEL"

// LogFileEnvVar names a file that receives log output instead of stderr.
// The interactive editor owns the terminal, so logs must go to a file there.
const LogFileEnvVar = "DASHPANEL_LOG_FILE"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks DASHPANEL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
//
// Output goes to outputPath when given, then DASHPANEL_LOG_FILE, then stderr.
func Initialize(level string, outputPath string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		// Unknown level - use info when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	if outputPath == "" {
		outputPath = os.Getenv(LogFileEnvVar)
	}
	if outputPath == "" {
		outputPath = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{outputPath},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if outputPath == "stderr" || outputPath == "stdout" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the environment only.
// This is the recommended way to initialize logging for CLI commands that
// want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("", "")
}

// ParseLevel maps a level name to its zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLogger replaces the global logger (used by tests to observe output).
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogTransaction logs a committed transaction
func LogTransaction(label string, seq uint64, writes int) {
	Debug("Transaction committed",
		zap.String("label", label),
		zap.Uint64("seq", seq),
		zap.Int("writes", writes),
	)
}

// LogRollback logs a transaction that was rolled back
func LogRollback(label string, err error) {
	Warn("Transaction rolled back",
		zap.String("label", label),
		zap.Error(err),
	)
}

// LogMutation logs a single field write
func LogMutation(cardID string, field string, value string) {
	Debug("Card field written",
		zap.String("card_id", cardID),
		zap.String("field", field),
		zap.String("value", truncate(value, 64)),
	)
}

// LogBroadcast logs a write applied to every card
func LogBroadcast(field string, value string, cards int) {
	Info("Broadcast applied",
		zap.String("field", field),
		zap.String("value", value),
		zap.Int("cards", cards),
	)
}

// LogSelection logs a selection change in the editing panel
func LogSelection(cardID string, mode string) {
	Debug("Selection changed",
		zap.String("card_id", cardID),
		zap.String("mode", mode),
	)
}

// LogSubView logs a sub-view transition
func LogSubView(from string, to string, event string) {
	Debug("Sub-view transition",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("event", event),
	)
}

// LogPreviewClient logs a preview client event
func LogPreviewClient(remoteAddr string, event string) {
	Info("Preview client event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogDocumentIO logs a document load or save
func LogDocumentIO(op string, path string, cards int) {
	Info("Document "+op,
		zap.String("path", path),
		zap.Int("cards", cards),
	)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
