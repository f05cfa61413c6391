package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBreakdown_AllFieldsMatch(t *testing.T) {
	nm := MatchBreakdown(
		Candidate{EntryID: "e1", Method: "get", Target: "http://a", TargetMatched: true, Options: map[string]any{"data": "x"}},
		Call{Method: "GET", Target: "http://a", Options: map[string]any{"data": "x"}},
	)

	assert.Equal(t, "e1", nm.EntryID)
	assert.Equal(t, ScoreMethod+ScoreTarget+ScoreOption, nm.Score)
	assert.Equal(t, 100, nm.MatchPercentage)
	assert.Equal(t, "all specified fields matched", nm.Reason)
}

func TestMatchBreakdown_OptionMismatch(t *testing.T) {
	nm := MatchBreakdown(
		Candidate{Method: "post", Target: "http://a", TargetMatched: true, Options: map[string]any{"data": "x"}},
		Call{Method: "post", Target: "http://a", Options: map[string]any{"data": "y"}},
	)

	assert.Equal(t, ScoreMethod+ScoreTarget, nm.Score)
	assert.Equal(t, ScoreMethod+ScoreTarget+ScoreOption, nm.MaxPossibleScore)
	assert.Equal(t, "method and url matched, but data expected x, got y", nm.Reason)
}

func TestMatchBreakdown_OptionOnlyOnOneSide(t *testing.T) {
	nm := MatchBreakdown(
		Candidate{Method: "get", Target: "http://a", TargetMatched: true},
		Call{Method: "get", Target: "http://a", Options: map[string]any{"headers": "h"}},
	)

	require.Len(t, nm.Fields, 3)
	assert.Equal(t, "headers", nm.Fields[2].Field)
	assert.Equal(t, "(missing)", nm.Fields[2].Expected)
	assert.False(t, nm.Fields[2].Matched)
}

func TestMatchBreakdown_URLMismatch(t *testing.T) {
	nm := MatchBreakdown(
		Candidate{Method: "get", Target: "http://a"},
		Call{Method: "get", Target: "http://b"},
	)
	assert.Equal(t, `method matched, but url expected "http://a", got "http://b"`, nm.Reason)
	assert.Equal(t, 50, nm.MatchPercentage)
}

func TestMatchBreakdown_InvalidCandidate(t *testing.T) {
	nm := MatchBreakdown(
		Candidate{Method: "get", Target: "http://a", TargetMatched: true, Invalid: errors.New("bad json")},
		Call{Method: "get", Target: "http://a"},
	)
	assert.Contains(t, nm.Reason, "expectation is invalid: bad json")
}

func TestCollectNearMisses(t *testing.T) {
	call := Call{Method: "get", Target: "http://a", Options: map[string]any{"data": "x"}}
	candidates := []Candidate{
		{EntryID: "nothing", Method: "post", Target: "http://z"},
		{EntryID: "method-only", Method: "get", Target: "http://z"},
		{EntryID: "close", Method: "get", Target: "http://a", TargetMatched: true, Options: map[string]any{"data": "y"}},
		{EntryID: "url-only", Method: "put", Target: "http://a", TargetMatched: true},
	}

	got := CollectNearMisses(candidates, call, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "close", got[0].EntryID)
	assert.Equal(t, "method-only", got[1].EntryID)

	all := CollectNearMisses(candidates, call, 0)
	assert.Len(t, all, 3)
}

func TestGenerateReason_Empty(t *testing.T) {
	assert.Equal(t, "no fields to compare", GenerateReason(nil))
}

func TestJoinFields(t *testing.T) {
	assert.Equal(t, "", joinFields(nil))
	assert.Equal(t, "a", joinFields([]string{"a"}))
	assert.Equal(t, "a and b", joinFields([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", joinFields([]string{"a", "b", "c"}))
}
