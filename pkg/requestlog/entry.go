package requestlog

import "time"

// Entry captures one intercepted call.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the call was intercepted.
	Timestamp time.Time `json:"timestamp"`

	// Method is the lowercased HTTP method.
	Method string `json:"method"`

	// Target is the URL as passed by the caller.
	Target string `json:"target"`

	// Options are the normalized request options the call was matched with.
	Options map[string]any `json:"options,omitempty"`

	// MatchedEntryID is the ID of the expectation that answered (empty if none).
	MatchedEntryID string `json:"matchedEntryId,omitempty"`

	// Status is the status code returned, by the stub or the fall-through path.
	Status int `json:"status,omitempty"`

	// Error contains the error message if the call failed.
	Error string `json:"error,omitempty"`

	// NearMisses summarizes expectations that almost matched an unmatched call.
	NearMisses []NearMissInfo `json:"nearMisses,omitempty"`
}

// Matched reports whether an expectation answered the call.
func (e *Entry) Matched() bool {
	return e.MatchedEntryID != ""
}
