package transform

import "fmt"

// FixLog is the ordered, append-only record of automatic corrections
// applied during a transformation. Every repair is logged so a caller
// can audit what was changed; nothing is silently applied.
type FixLog struct {
	entries []string
}

// NewFixLog returns an empty fix log.
func NewFixLog() *FixLog {
	return &FixLog{}
}

// Addf appends a formatted fix description.
func (l *FixLog) Addf(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns the fixes in application order.
func (l *FixLog) Entries() []string {
	return l.entries
}

// Len returns the number of logged fixes.
func (l *FixLog) Len() int {
	return len(l.entries)
}

// Merge appends another log's entries, preserving order.
func (l *FixLog) Merge(other *FixLog) {
	if other != nil {
		l.entries = append(l.entries, other.entries...)
	}
}
