package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Format selects how a FileLogger renders one entry.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig configures a FileLogger. MaxSize of 0 disables
// rotation; the logger internal/cli builds rotates at 10 MiB and keeps
// 5 backups.
type FileLoggerConfig struct {
	Path       string
	Format     Format
	Level      Level
	MaxSize    int64
	MaxBackups int
}

// FileLogger writes newline-delimited entries (JSON or text) to a file,
// rotating it once MaxSize is exceeded. It is the Logger internal/cli
// builds behind --log-file or a config file with logging enabled;
// NullLogger covers every other invocation.
type FileLogger struct {
	cfg  FileLoggerConfig
	mu   sync.Mutex
	file *os.File
	size int64

	fields Fields
}

// NewFileLogger opens (creating if needed) the log file at cfg.Path in
// append mode.
func NewFileLogger(cfg FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	return &FileLogger{cfg: cfg, file: f, size: info.Size()}, nil
}

func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	if l.cfg.Level <= DebugLevel {
		l.write(DebugLevel, msg, nil, fields)
	}
}

func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	if l.cfg.Level <= InfoLevel {
		l.write(InfoLevel, msg, nil, fields)
	}
}

func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	if l.cfg.Level <= ErrorLevel {
		l.write(ErrorLevel, msg, err, fields)
	}
}

// WithFields returns a logger sharing this one's open file but carrying
// its own field set merged on top of the parent's — orchestrator.Run
// uses this once per run to attach run_id to every subsequent entry.
func (l *FileLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &FileLogger{cfg: l.cfg, file: l.file, size: l.size, fields: merged}
}

func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *FileLogger) write(level Level, msg string, err error, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.MaxSize > 0 && l.size >= l.cfg.MaxSize {
		l.rotate()
	}

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	var line []byte
	var encodeErr error
	if l.cfg.Format == FormatJSON {
		line, encodeErr = encodeJSON(level, msg, err, merged)
	} else {
		line = encodeText(level, msg, err, merged)
	}
	if encodeErr != nil {
		return
	}

	n, _ := l.file.Write(line)
	l.size += int64(n)
}

func encodeJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := make(map[string]interface{}, len(fields)+4)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = levelString(level)
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeText(level Level, msg string, err error, fields Fields) []byte {
	var b []byte
	b = append(b, time.Now().UTC().Format("2006-01-02T15:04:05.000Z")...)
	b = append(b, fmt.Sprintf(" [%s] %s", levelString(level), msg)...)
	if err != nil {
		b = append(b, fmt.Sprintf(" error=%q", err.Error())...)
	}
	for k, v := range fields {
		b = append(b, fmt.Sprintf(" %s=%v", k, v)...)
	}
	return append(b, '\n')
}

// rotate closes the current file, shifts .1..MaxBackups-1 up by one,
// drops whatever now falls past MaxBackups, and reopens Path fresh.
// Failures here are swallowed — losing rotation is not worth aborting an
// otherwise-successful transfer over (write, above, silently drops an
// entry it cannot write too).
func (l *FileLogger) rotate() {
	l.file.Close()

	for i := l.cfg.MaxBackups - 1; i >= 1; i-- {
		os.Rename(backupPath(l.cfg.Path, i), backupPath(l.cfg.Path, i+1))
	}
	os.Rename(l.cfg.Path, backupPath(l.cfg.Path, 1))
	if l.cfg.MaxBackups > 0 {
		os.Remove(backupPath(l.cfg.Path, l.cfg.MaxBackups+1))
	}

	f, err := os.OpenFile(l.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.file = nil
		return
	}
	l.file = f
	l.size = 0
}

func backupPath(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}

func levelString(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a --log-level flag value to a Level, defaulting to
// InfoLevel for anything unrecognized rather than rejecting the flag.
// validateTransferFlags does not check --log-level, so an unknown flag
// value reaches here unchanged; a config file's logging.level has
// already been checked by config.Validate.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DebugLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
