// Package logbook records review activity to a plain text file that the
// terminal UI tails and reviewers can inspect after the program exits.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook appends timestamped lines to a single file.
type Logbook struct {
	path  string
	clock func() time.Time

	mu   sync.Mutex
	file *os.File
}

// Option customizes a Logbook.
type Option func(*Logbook)

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Logbook) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New opens (or creates) the logbook at path.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open log file: %w", err)
	}
	l := &Logbook{path: path, file: f, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Append writes a single entry. Multi-line messages are folded onto one line.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	message = strings.Join(strings.Fields(message), " ")
	line := fmt.Sprintf("%s %-5s %s\n",
		l.clock().UTC().Format(time.RFC3339),
		string(level),
		message,
	)
	_, _ = l.file.WriteString(line)
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > maxLines {
			lines = lines[1:]
		}
	}
	return lines
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Printf logs at info level so the logbook can stand in for a plain printf logger.
func (l *Logbook) Printf(format string, args ...any) {
	l.Info(format, args...)
}
