package requestlog

import "strings"

// Logger is the minimal interface for recording entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for call history storage.
type Store interface {
	Logger

	// Get retrieves an entry by ID.
	Get(id string) *Entry

	// List returns entries in the order they were logged, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for filtering entries.
type Filter struct {
	// Method filters by method, case-insensitively.
	Method string

	// Target filters by exact target.
	Target string

	// MatchedEntryID filters by the expectation that answered.
	MatchedEntryID string

	// Unmatched keeps only calls no expectation answered.
	Unmatched bool

	// Limit is the maximum number of entries to return.
	Limit int
}

// matches checks if an entry matches all filter criteria.
func (f *Filter) matches(e *Entry) bool {
	if f.Method != "" && !strings.EqualFold(f.Method, e.Method) {
		return false
	}
	if f.Target != "" && f.Target != e.Target {
		return false
	}
	if f.MatchedEntryID != "" && f.MatchedEntryID != e.MatchedEntryID {
		return false
	}
	if f.Unmatched && e.Matched() {
		return false
	}
	return true
}
