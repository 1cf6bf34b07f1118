package logger

import (
	"sync"
	"time"
)

// LogEntry is one captured log line.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Caller  string    `json:"caller,omitempty"`
}

// RingWriter keeps the last N log entries in memory. Oldest entries are
// overwritten once the ring is full.
type RingWriter struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

func NewRingWriter(size int) *RingWriter {
	if size <= 0 {
		size = 64
	}
	return &RingWriter{entries: make([]LogEntry, size)}
}

func (w *RingWriter) Add(entry LogEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[w.next] = entry
	w.next = (w.next + 1) % len(w.entries)
	if w.next == 0 {
		w.full = true
	}
}

// Recent returns the captured entries, oldest first.
func (w *RingWriter) Recent() []LogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.full {
		out := make([]LogEntry, w.next)
		copy(out, w.entries[:w.next])
		return out
	}
	out := make([]LogEntry, 0, len(w.entries))
	out = append(out, w.entries[w.next:]...)
	out = append(out, w.entries[:w.next]...)
	return out
}
