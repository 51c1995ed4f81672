package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// NewLogger builds the CLI logger: human-readable text on stderr plus a JSON
// line per record appended to the configured log file, both filtered at level.
// The returned closer releases the log file; call it when the command ends.
// When the log file cannot be opened the logger degrades to stderr only.
func (c Config) NewLogger(level slog.Level) (*slog.Logger, func() error) {
	stderr := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	file, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Warn("log file unavailable, logging to stderr only", "file", c.LogFile, "error", err)
		return slog.New(stderr), func() error { return nil }
	}

	fanout := slogmulti.Fanout(
		stderr,
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
	)
	return slog.New(fanout), file.Close
}

// NewLoggerWithWriters is the testing seam for NewLogger's handler wiring.
func NewLoggerWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slogmulti.Fanout(
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
	))
}
