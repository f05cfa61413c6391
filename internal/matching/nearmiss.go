package matching

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// FieldResult describes whether a single field of an expectation matched the call.
type FieldResult struct {
	Field    string `json:"field"`
	Matched  bool   `json:"matched"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
}

// NearMiss is an expectation that partially matched a call.
type NearMiss struct {
	EntryID          string        `json:"entryId"`
	Target           string        `json:"target"`
	Score            int           `json:"score"`
	MaxPossibleScore int           `json:"maxPossibleScore"`
	MatchPercentage  int           `json:"matchPercentage"`
	Fields           []FieldResult `json:"fields"`
	Reason           string        `json:"reason"`
}

// Candidate is the view of an expectation needed to explain a mismatch.
type Candidate struct {
	EntryID string
	Method  string
	Target  string

	// TargetMatched is the caller's verdict on the URL, since literal and
	// pattern targets compare differently.
	TargetMatched bool

	// Options are the expectation's normalized options. Invalid is set
	// instead when normalization failed.
	Options map[string]any
	Invalid error
}

// Call is the incoming side of a comparison.
type Call struct {
	Method  string
	Target  string
	Options map[string]any
}

// MatchBreakdown evaluates every field of the candidate against the call
// without short-circuiting.
func MatchBreakdown(c Candidate, call Call) *NearMiss {
	result := &NearMiss{EntryID: c.EntryID, Target: c.Target}

	add := func(field string, matched bool, maxScore int, expected, actual any) {
		score := 0
		if matched {
			score = maxScore
		}
		result.Fields = append(result.Fields, FieldResult{
			Field:    field,
			Matched:  matched,
			Score:    score,
			MaxScore: maxScore,
			Expected: expected,
			Actual:   actual,
		})
		result.Score += score
		result.MaxPossibleScore += maxScore
	}

	add("method", strings.EqualFold(c.Method, call.Method), ScoreMethod, c.Method, call.Method)
	add("url", c.TargetMatched, ScoreTarget, c.Target, call.Target)

	if c.Invalid != nil {
		add("options", false, ScoreOption, c.Invalid.Error(), "(expectation never matches)")
	} else {
		for _, name := range optionNames(c.Options, call.Options) {
			expected, hasExpected := c.Options[name]
			actual, hasActual := call.Options[name]
			matched := hasExpected && hasActual && reflect.DeepEqual(expected, actual)
			add(name, matched, ScoreOption, describe(expected, hasExpected), describe(actual, hasActual))
		}
	}

	if result.MaxPossibleScore > 0 {
		result.MatchPercentage = (result.Score * 100) / result.MaxPossibleScore
	}
	result.Reason = GenerateReason(result.Fields)

	return result
}

// CollectNearMisses evaluates all candidates against the call and returns
// the top N by partial match score. Candidates with nothing in common with
// the call are left out. Only called for unmatched calls.
func CollectNearMisses(candidates []Candidate, call Call, topN int) []NearMiss {
	if topN <= 0 {
		topN = 3
	}

	var misses []NearMiss
	for _, c := range candidates {
		nm := MatchBreakdown(c, call)
		if nm.Score == 0 {
			continue
		}
		misses = append(misses, *nm)
	}

	sort.SliceStable(misses, func(i, j int) bool {
		if misses[i].Score != misses[j].Score {
			return misses[i].Score > misses[j].Score
		}
		return misses[i].MatchPercentage > misses[j].MatchPercentage
	})

	if len(misses) > topN {
		misses = misses[:topN]
	}
	return misses
}

// GenerateReason creates a human-readable explanation of why an expectation
// partially matched but ultimately failed.
func GenerateReason(fields []FieldResult) string {
	if len(fields) == 0 {
		return "no fields to compare"
	}

	var matched []string
	var firstMismatch *FieldResult

	for i := range fields {
		if fields[i].Matched {
			matched = append(matched, fields[i].Field)
		} else if firstMismatch == nil {
			firstMismatch = &fields[i]
		}
	}

	if firstMismatch == nil {
		return "all specified fields matched"
	}

	if len(matched) == 0 {
		return formatMismatch(firstMismatch)
	}

	return joinFields(matched) + " matched, but " + formatMismatch(firstMismatch)
}

func formatMismatch(f *FieldResult) string {
	switch f.Field {
	case "method":
		return fmt.Sprintf("method expected %q, got %q", f.Expected, f.Actual)
	case "url":
		return fmt.Sprintf("url expected %q, got %q", f.Expected, f.Actual)
	case "options":
		return fmt.Sprintf("expectation is invalid: %v", f.Expected)
	default:
		return fmt.Sprintf("%s expected %v, got %v", f.Field, f.Expected, f.Actual)
	}
}

// joinFields joins field names with commas and "and".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}

func optionNames(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var names []string
	for _, m := range []map[string]any{a, b} {
		for k := range m {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

func describe(v any, present bool) any {
	if !present {
		return "(missing)"
	}
	return truncate(fmt.Sprintf("%v", v), 200)
}

// truncate shortens a string to maxLen, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
