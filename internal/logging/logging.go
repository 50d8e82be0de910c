package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// OpenFile returns a JSON logger appending to path and a closer for the file.
// An empty path returns a no-op logger; the TUI owns the terminal, so logs
// never go to stdout or stderr there.
func OpenFile(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a timestamped JSON logger writing to w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("app", "echograde").Logger()
}

// Console returns a human-readable logger for command-line use. When
// verbose is false it only reports warnings and errors.
func Console(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}
