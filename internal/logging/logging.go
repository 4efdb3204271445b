// Package logging builds the process logger. The terminal belongs to the TUI,
// so output goes to a file in debug mode and is discarded otherwise.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultRingSize is how many entries the debug panel keeps.
const DefaultRingSize = 200

// Logger is the configured logger plus its debug ring.
type Logger struct {
	*logrus.Logger
	Ring *Ring
	file *os.File
}

// New returns a logger. With debug set it logs at Debug level to path,
// creating parent directories; otherwise only the ring records Warn and above.
func New(debug bool, path string) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)

	ring := NewRing(DefaultRingSize)
	l.AddHook(ring)
	out := &Logger{Logger: l, Ring: ring}

	if !debug {
		return out, nil
	}
	l.SetLevel(logrus.DebugLevel)
	if path == "" {
		return out, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	out.file = f
	return out, nil
}

// Component returns an entry tagged with the component name.
func (l *Logger) Component(name string) *logrus.Entry {
	return l.WithField("component", name)
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns an entry that drops everything, for tests and optional
// loggers.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Ring is a logrus hook keeping the most recent messages in memory.
type Ring struct {
	mu    sync.Mutex
	lines []string
	size  int
	next  int
	full  bool
}

// NewRing returns a ring holding up to size lines.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{lines: make([]string, size), size: size}
}

// Levels implements logrus.Hook.
func (r *Ring) Levels() []logrus.Level { return logrus.AllLevels }

// Fire implements logrus.Hook.
func (r *Ring) Fire(e *logrus.Entry) error {
	var b strings.Builder
	b.WriteString(strings.ToUpper(e.Level.String()[:4]))
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, k := range sortedKeys(e.Data) {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	r.mu.Lock()
	r.lines[r.next] = b.String()
	r.next = (r.next + 1) % r.size
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
	return nil
}

// Lines returns the recorded lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]string(nil), r.lines[:r.next]...)
	}
	out := make([]string, 0, r.size)
	out = append(out, r.lines[r.next:]...)
	return append(out, r.lines[:r.next]...)
}

// Tail returns at most n of the newest lines, oldest first.
func (r *Ring) Tail(n int) []string {
	lines := r.Lines()
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "component" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
