// Package memory provides the bounded action log that gives the decision
// engine recent context. It is intentionally in-process only: a recent-context
// window, not an audit log.
package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// Capacity is the maximum number of entries retained.
	Capacity = 20
	// summaryWindow is how many recent entries Summary renders.
	summaryWindow = 5
	// resultLimit caps the rendered result text per entry.
	resultLimit = 80

	emptySummary = "No recent actions."
)

// Entry is one recorded action and its result.
type Entry struct {
	Action    string
	Result    any
	Timestamp time.Time
}

// ActionLog is a strict-FIFO bounded log of recent agent actions.
type ActionLog struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewActionLog creates an empty action log.
func NewActionLog() *ActionLog {
	return &ActionLog{now: time.Now}
}

// Record appends an entry, evicting the oldest once the log exceeds Capacity.
func (l *ActionLog) Record(action string, result any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Action:    action,
		Result:    result,
		Timestamp: l.now(),
	})
	if len(l.entries) > Capacity {
		l.entries = l.entries[1:]
	}
}

// Len returns the number of retained entries.
func (l *ActionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a snapshot of the retained entries, oldest first.
func (l *ActionLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Summary renders the most recent entries as one line each, most-recent-last,
// for injection into the decision prompt. Returns a fixed sentinel when the
// log is empty.
func (l *ActionLog) Summary() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return emptySummary
	}

	start := len(l.entries) - summaryWindow
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, summaryWindow)
	for _, e := range l.entries[start:] {
		result := fmt.Sprintf("%v", e.Result)
		if len(result) > resultLimit {
			result = result[:resultLimit]
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", e.Timestamp.Format(time.RFC3339), e.Action, result))
	}
	return strings.Join(lines, "\n")
}
