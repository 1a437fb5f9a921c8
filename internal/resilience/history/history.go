// Package history keeps a bounded, in-memory record of classified failures.
package history

import (
	"sync"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/classify"
)

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 100

// Entry is an immutable record of a single classified failure.
type Entry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Operation string            `json:"operation"`
	Path      string            `json:"path"`
	Kind      classify.Kind     `json:"kind"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message"`
	Stack     string            `json:"stack,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// Filter narrows a history query. Zero fields match everything.
type Filter struct {
	Kinds     []classify.Kind
	Operation string
	Since     time.Time
}

func (f Filter) matches(e Entry) bool {
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if e.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Operation != "" && e.Operation != f.Operation {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

// Log is a capacity-bounded FIFO record of classified failures. Appending at
// capacity evicts the oldest entry. Safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewLog creates a log with the given capacity; non-positive values use
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Append records an entry, evicting the oldest one when at capacity.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.capacity {
		drop := len(l.entries) - l.capacity + 1
		l.entries = append(l.entries[:0], l.entries[drop:]...)
	}
	l.entries = append(l.entries, e)
}

// List returns matching entries, newest first.
func (l *Log) List(f Filter) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		if f.matches(l.entries[i]) {
			out = append(out, l.entries[i])
		}
	}
	return out
}

// Recent returns up to n of the most recent entries, newest first.
func (l *Log) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Size returns the current number of entries.
func (l *Log) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Capacity returns the configured bound.
func (l *Log) Capacity() int {
	return l.capacity
}
