// Package errlog is the append-only diagnostic channel every subsystem
// funnels failures through (spec §4.10). It never panics and never returns
// an error the caller is expected to act on: a logging failure is always
// swallowed, per spec §7.
package errlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxLines     = 1000
	keepOnRotate = 500
)

// Level is the severity of an ErrorLogEntry.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
)

// Entry is one JSONL record, per spec §3.
type Entry struct {
	ID        string            `json:"id,omitempty"`
	Timestamp string            `json:"ts"`
	Level     Level             `json:"level"`
	Component string            `json:"component"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Tool      string            `json:"tool,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	Attempt   int               `json:"attempt,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

// Log is bound to a single file path, serialized by an in-process mutex
// (spec §5: "single-file-append is acceptable; concurrent appends tolerate
// interleaving at line boundaries" — we go further and hold a mutex for the
// whole append+rotate sequence so a line is never split).
type Log struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Log {
	return &Log{path: path, logger: logger}
}

// Append writes one entry, stamping the timestamp if absent, then rotates
// if the file has grown past maxLines. Failures are logged to stderr via
// the fallback logger and otherwise swallowed.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.Message = scrub(e.Message)
	for k, v := range e.Context {
		e.Context[k] = scrub(v)
	}

	if err := l.appendLocked(e); err != nil {
		l.warn("failed to append error log entry", err)
		return
	}

	if err := l.rotateLocked(); err != nil {
		l.warn("failed to rotate error log", err)
	}
}

func (l *Log) appendLocked(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	_, err = f.Write(append(data, '\n'))
	return err
}

func (l *Log) rotateLocked() error {
	lines, err := readLines(l.path)
	if err != nil {
		return err
	}
	if len(lines) <= maxLines {
		return nil
	}

	kept := lines[len(lines)-keepOnRotate:]
	tmp := l.path + ".rotate.tmp"
	if err := os.WriteFile(tmp, []byte(joinLines(kept)), 0600); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

// Read returns up to limit entries, newest first. Malformed lines are
// skipped rather than aborting the read.
func (l *Log) Read(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := readLines(l.path)
	if err != nil {
		return nil
	}

	var entries []Entry
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(lines[i]), &e); err != nil {
			continue
		}
		entries = append(entries, e)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}

	return entries
}

// Clear removes entries strictly before cutoff (an ISO-8601 instant). An
// empty cutoff clears everything.
func (l *Log) Clear(cutoff string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cutoff == "" {
		return os.WriteFile(l.path, nil, 0600)
	}

	cutoffTime, err := time.Parse(time.RFC3339, cutoff)
	if err != nil {
		return err
	}

	lines, err := readLines(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var kept []string
	for _, line := range lines {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			kept = append(kept, line)
			continue
		}
		t, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil || !t.Before(cutoffTime) {
			kept = append(kept, line)
		}
	}

	return os.WriteFile(l.path, []byte(joinLines(kept)), 0600)
}

func (l *Log) warn(msg string, err error) {
	if l.logger != nil {
		l.logger.Warn(msg, zap.Error(err))
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func joinLines(lines []string) string {
	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	return out
}
