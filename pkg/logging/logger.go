// Package logging provides the leveled stderr logger and an optional JSONL
// record of training runs.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for per-row detail.
const LevelTrace = slog.LevelDebug - 4

var levels = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to a slog.Level (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	if lvl, ok := levels[strings.ToLower(s)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	_, ok := levels[strings.ToLower(s)]
	return ok
}

// NewLogger creates a leveled slog.Logger writing text to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RunLog appends one JSON line per training or benchmark run. A nil RunLog
// is safe to use; all methods are no-ops on nil receiver.
type RunLog struct {
	mu   sync.Mutex
	file *os.File
}

// OpenRunLog opens path for append. An empty path disables the log.
func OpenRunLog(path string) (*RunLog, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &RunLog{file: f}, nil
}

// Log writes event as a single line with a "time" field added.
// The caller's map is not mutated.
func (l *RunLog) Log(event map[string]any) error {
	if l == nil || l.file == nil {
		return nil
	}
	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.file.Write(data)
	return err
}

func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}
