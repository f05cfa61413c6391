package stubtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/getmockd/httpstub/internal/matching"
	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/requestlog"
	"github.com/stretchr/testify/assert"
)

// CallsTo returns the recorded calls for method and target, oldest first.
func (s *Stub) CallsTo(method, target string) []*requestlog.Entry {
	return s.Calls(&requestlog.Filter{Method: method, Target: target})
}

// LastCall returns the most recent call for method and target, or nil.
func (s *Stub) LastCall(method, target string) *requestlog.Entry {
	calls := s.CallsTo(method, target)
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

// AssertCalled asserts that method and target were called at least once.
func (s *Stub) AssertCalled(t testing.TB, method, target string) bool {
	t.Helper()
	return assert.NotEmpty(t, s.CallsTo(method, target),
		"expected %s %s to be called\n%s", strings.ToUpper(method), target, s.describeCalls())
}

// AssertCalledTimes asserts that method and target were called exactly n times.
func (s *Stub) AssertCalledTimes(t testing.TB, method, target string, n int) bool {
	t.Helper()
	return assert.Len(t, s.CallsTo(method, target), n,
		"unexpected call count for %s %s\n%s", strings.ToUpper(method), target, s.describeCalls())
}

// AssertNotCalled asserts that method and target were never called.
func (s *Stub) AssertNotCalled(t testing.TB, method, target string) bool {
	t.Helper()
	return assert.Empty(t, s.CallsTo(method, target),
		"expected %s %s not to be called", strings.ToUpper(method), target)
}

// AssertAllCalled asserts that every registered expectation answered at
// least one call.
func (s *Stub) AssertAllCalled(t testing.TB) bool {
	t.Helper()

	used := make(map[string]struct{})
	for _, c := range s.Calls(nil) {
		if c.Matched() {
			used[c.MatchedEntryID] = struct{}{}
		}
	}

	var unused []string
	for _, e := range s.Entries("") {
		if _, ok := used[e.ID()]; !ok {
			unused = append(unused, e.String())
		}
	}
	return assert.Empty(t, unused, "expectations never called")
}

// AssertNoUnmatched asserts that every call was answered by an expectation.
func (s *Stub) AssertNoUnmatched(t testing.TB) bool {
	t.Helper()

	var lines []string
	for _, c := range s.Calls(&requestlog.Filter{Unmatched: true}) {
		line := fmt.Sprintf("%s %s", strings.ToUpper(c.Method), c.Target)
		for _, nm := range c.NearMisses {
			line += fmt.Sprintf("\n    near miss %s (%d%%): %s", nm.Target, nm.MatchPercentage, nm.Reason)
		}
		lines = append(lines, line)
	}
	return assert.Empty(t, lines, "calls without a matching expectation")
}

// AssertJSONPath asserts that the json option of call holds expected at path.
// When path selects several values, any of them may match. An invalid path
// fails the assertion before call is inspected.
func (s *Stub) AssertJSONPath(t testing.TB, call *requestlog.Entry, path string, expected any) bool {
	t.Helper()

	if err := matching.ValidateJSONPathExpression(path); err != nil {
		return assert.Fail(t, err.Error())
	}
	if !assert.NotNil(t, call, "no call to inspect") {
		return false
	}
	body, ok := call.Options[client.OptJSON]
	if !assert.True(t, ok, "%s %s has no json option", strings.ToUpper(call.Method), call.Target) {
		return false
	}

	result := matching.MatchJSONPath(map[string]any{path: expected}, body)
	if result.OK() {
		return true
	}

	values, _ := matching.Lookup(path, body)
	return assert.Fail(t, fmt.Sprintf("json path %s: expected %v, got %v", path, expected, values))
}

func (s *Stub) describeCalls() string {
	calls := s.Calls(nil)
	if len(calls) == 0 {
		return "no calls were recorded"
	}
	var b strings.Builder
	b.WriteString("recorded calls:")
	for _, c := range calls {
		status := "unmatched"
		if c.Matched() {
			status = "matched " + c.MatchedEntryID
		}
		fmt.Fprintf(&b, "\n  %s %s (%s)", strings.ToUpper(c.Method), c.Target, status)
	}
	return b.String()
}
