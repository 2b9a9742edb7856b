// Package logging sets up the process logger. The TUI owns the terminal, so
// the primary sink is a JSON log file; warnings and errors are additionally
// fanned out to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New builds the logger. path empty means file logging is disabled. The
// returned func closes the log file.
func New(path string) (*slog.Logger, func(), error) {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})

	if path == "" {
		return slog.New(stderrHandler), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogmulti.Fanout(fileHandler, stderrHandler))
	return logger, func() { _ = f.Close() }, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
