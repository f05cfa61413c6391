package requestlog

// NearMissInfo is a log-friendly summary of a near-miss match.
// Stored on entries for unmatched calls.
type NearMissInfo struct {
	// EntryID is the ID of the expectation that partially matched.
	EntryID string `json:"entryId"`

	// Target is the expectation's literal URL or pattern.
	Target string `json:"target"`

	// MatchPercentage is how close the match was (0-100).
	MatchPercentage int `json:"matchPercentage"`

	// Reason is a human-readable explanation of why it didn't fully match.
	Reason string `json:"reason"`
}
