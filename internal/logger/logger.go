package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// New returns a JSON logger at the given level. With an empty logPath it
// writes to stderr; otherwise it writes to a rotating file. The returned
// closer flushes and closes the file and must be called on shutdown.
func New(level, logPath string) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var w io.WriteCloser = nopCloser{os.Stderr}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		// Use lumberjack for log rotation
		w = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
	}

	return NewWithWriter(w, lvl), w, nil
}

// NewWithWriter returns a JSON logger writing to w.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
