package logging

import "context"

// Level is a log severity, ordered so a numeric comparison decides
// whether an entry meets a configured floor.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

// Fields carries the structured key/value pairs attached to one entry —
// the source/dest paths, skip reasons, and run IDs that spec.md §7's
// per-file outcomes need, without forcing every call site to build a
// message string by hand.
type Fields map[string]interface{}

// Logger is what pkg/orchestrator writes its per-run diagnostics
// through. kosmokopy never surfaces logs to stdout — the JSON summary
// line (spec.md §6) is the only required output — so a Logger only
// matters when the caller asked for --log-file or enabled logging in the
// config file.
type Logger interface {
	Debug(ctx context.Context, msg string, fields Fields)
	Info(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a derived logger that merges fields into every
	// entry it writes, without mutating the receiver.
	WithFields(fields Fields) Logger

	Close() error
}
