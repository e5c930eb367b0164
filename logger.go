package keydex

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with keydex-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogPut logs a put operation.
func (l *Logger) LogPut(key any, replaced bool) {
	l.Debug("put completed",
		"key", key,
		"replaced", replaced,
	)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(key any, found bool) {
	l.Debug("delete completed",
		"key", key,
		"found", found,
	)
}

// LogQuery logs a secondary index query.
func (l *Logger) LogQuery(index int, matches int) {
	l.Debug("query completed",
		"index", index,
		"matches", matches,
	)
}

// LogSnapshotSave logs a snapshot save.
func (l *Logger) LogSnapshotSave(entries int, err error) {
	if err != nil {
		l.Error("snapshot save failed",
			"entries", entries,
			"error", err,
		)
	} else {
		l.Info("snapshot saved",
			"entries", entries,
		)
	}
}

// LogSnapshotLoad logs a snapshot load.
func (l *Logger) LogSnapshotLoad(entries int, err error) {
	if err != nil {
		l.Error("snapshot load failed",
			"entries", entries,
			"error", err,
		)
	} else {
		l.Info("snapshot loaded",
			"entries", entries,
		)
	}
}
