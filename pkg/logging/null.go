package logging

import "context"

// NullLogger discards everything written to it. orchestrator.New falls back to
// one when a caller passes a nil Logger, and internal/cli uses one
// whenever --log-file is unset — the common case, since the JSON summary
// line is the only output most invocations care about.
type NullLogger struct{}

func NewNullLogger() *NullLogger { return &NullLogger{} }

func (l *NullLogger) Debug(ctx context.Context, msg string, fields Fields)            {}
func (l *NullLogger) Info(ctx context.Context, msg string, fields Fields)             {}
func (l *NullLogger) Error(ctx context.Context, msg string, err error, fields Fields) {}

func (l *NullLogger) WithFields(fields Fields) Logger { return l }

func (l *NullLogger) Close() error { return nil }
