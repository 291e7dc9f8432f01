package session

import (
	"fmt"
	"testing"
)

func TestLogSlidingWindow(t *testing.T) {
	l := NewLog()

	for i := 0; i < defaultMaxEntries+10; i++ {
		l.Add(fmt.Sprintf("term-%d", i), "yes")
	}

	if l.Len() != defaultMaxEntries {
		t.Fatalf("expected window of %d entries, got %d", defaultMaxEntries, l.Len())
	}

	entries := l.Entries()
	if entries[0].Term != "term-10" {
		t.Errorf("oldest entries not evicted, first is %q", entries[0].Term)
	}
	if last := entries[len(entries)-1].Term; last != fmt.Sprintf("term-%d", defaultMaxEntries+9) {
		t.Errorf("newest entry missing, last is %q", last)
	}
}

func TestLogEntriesIsCopy(t *testing.T) {
	l := NewLog()
	l.Add("dropout", "no")

	entries := l.Entries()
	entries[0].Feedback = "mutated"

	if l.Entries()[0].Feedback != "no" {
		t.Error("Entries returned a reference into the log's backing slice")
	}
}
