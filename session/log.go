package session

import (
	"sync"
	"time"
)

const defaultMaxEntries = 100

// Entry records one explained term and the operator's reaction to it.
type Entry struct {
	Term     string
	Feedback string
	At       time.Time
}

// Log is the session-scoped feedback record. It lives in memory only and is
// discarded when the process exits; a sliding window caps its size so a long
// session cannot grow it without bound.
type Log struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
}

// NewLog creates an empty feedback log.
func NewLog() *Log {
	return &Log{maxEntries: defaultMaxEntries}
}

// Add appends one feedback record, evicting the oldest entries past the cap.
func (l *Log) Add(term, feedback string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Term: term, Feedback: feedback, At: time.Now()})
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}
}

// Entries returns a copy of the recorded feedback.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many records the log currently holds.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
