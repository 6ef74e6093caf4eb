// Package log provides the structured logger used by the RPC surface and
// the node command: a slog wrapper with a "module" attribute and
// optional file rotation, in the style of the execution client it was
// pulled from.
package log

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps an *slog.Logger so callers get Module/With without pulling
// in slog directly everywhere.
type Logger struct {
	sl *slog.Logger
}

// FileConfig configures rotation for a file-backed logger. A zero value
// (MaxSizeMB == 0) disables rotation bookkeeping and just appends.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a Logger that writes leveled JSON to stderr.
func New(level slog.Level) *Logger {
	return NewWithHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewRotating builds a Logger that writes JSON to a rotated file via
// lumberjack, in addition to stderr. Used for the RPC server's access log,
// which can run unattended long enough to need rotation where a plain
// stderr stream would not.
func NewRotating(level slog.Level, cfg FileConfig) *Logger {
	rotator := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	out := io.MultiWriter(os.Stderr, rotator)
	return NewWithHandler(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

// NewWithHandler builds a Logger around an arbitrary slog.Handler.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{sl: slog.New(h)}
}

var defaultLogger = New(slog.LevelInfo)

// SetDefault replaces the package-level logger used by the convenience
// functions below.
func SetDefault(l *Logger) { defaultLogger = l }

// Default returns the package-level logger.
func Default() *Logger { return defaultLogger }

// Module returns a child logger tagged with a "module" attribute, so every
// record it emits can be filtered by subsystem (simulate, rpc, trie, ...).
func (l *Logger) Module(name string) *Logger {
	return &Logger{sl: l.sl.With("module", name)}
}

// With returns a child logger carrying the given key/value attributes on
// every subsequent record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
