package stub

import (
	"net/http"
	"strings"

	"github.com/getmockd/httpstub/internal/matching"
	"github.com/getmockd/httpstub/pkg/client"
)

// MatchResult is the outcome of a successful Match.
type MatchResult struct {
	// Incoming is the normalized entry built for the call.
	Incoming *Entry
	// Entry is the registered entry that matched.
	Entry *Entry
	// Response is the response bound to Entry.
	Response *Response
}

// Add registers an expectation and returns it so a response can be bound.
// With useRegex the target is a pattern matched from the start of the
// incoming URL. Configuration errors are available from Entry.Err.
func (m *Mock) Add(method, target string, useRegex bool, opts ...client.RequestOption) *Entry {
	e := newEntry(m.cfg, method, target, client.BuildOptions(opts...), useRegex)
	m.entries.Add(e.method, e)

	if err := e.Err(); err != nil {
		m.logger.Warn("registered invalid expectation", "entry", e.String(), "error", err)
	} else {
		m.logger.Debug("registered expectation", "id", e.id, "entry", e.String())
	}
	return e
}

// Get registers a GET expectation for a literal target.
func (m *Mock) Get(target string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodGet, target, false, opts...)
}

// Post registers a POST expectation for a literal target.
func (m *Mock) Post(target string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodPost, target, false, opts...)
}

// Put registers a PUT expectation for a literal target.
func (m *Mock) Put(target string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodPut, target, false, opts...)
}

// Patch registers a PATCH expectation for a literal target.
func (m *Mock) Patch(target string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodPatch, target, false, opts...)
}

// Delete registers a DELETE expectation for a literal target.
func (m *Mock) Delete(target string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodDelete, target, false, opts...)
}

// GetPattern registers a GET expectation for a pattern target.
func (m *Mock) GetPattern(pattern string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodGet, pattern, true, opts...)
}

// PostPattern registers a POST expectation for a pattern target.
func (m *Mock) PostPattern(pattern string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodPost, pattern, true, opts...)
}

// PutPattern registers a PUT expectation for a pattern target.
func (m *Mock) PutPattern(pattern string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodPut, pattern, true, opts...)
}

// PatchPattern registers a PATCH expectation for a pattern target.
func (m *Mock) PatchPattern(pattern string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodPatch, pattern, true, opts...)
}

// DeletePattern registers a DELETE expectation for a pattern target.
func (m *Mock) DeletePattern(pattern string, opts ...client.RequestOption) *Entry {
	return m.Add(http.MethodDelete, pattern, true, opts...)
}

// Match finds the response for a call. Entries registered for the method are
// scanned in registration order and the first one that matches decides the
// outcome: if it has a bound response, its callback (if any) runs with
// (response, incoming, matched) and the result is returned; otherwise the
// call is unmatched.
//
// No match returns (nil, nil). An error is returned only when the incoming
// options cannot be normalized; it wraps ErrConfiguration.
func (m *Mock) Match(method, target string, opts client.Options) (*MatchResult, error) {
	incoming := newEntry(m.cfg, method, target, opts, false)
	if err := incoming.Err(); err != nil {
		return nil, err
	}
	return m.match(incoming), nil
}

func (m *Mock) match(incoming *Entry) *MatchResult {
	for _, e := range m.entries.List(incoming.method) {
		if !e.IsMatch(incoming) {
			continue
		}
		resp, ok := e.GetResponse()
		if !ok {
			m.logger.Debug("matched expectation has no response", "id", e.id, "entry", e.String())
			return nil
		}
		if cb := resp.Callback(); cb != nil {
			cb(resp, incoming, e)
		}
		return &MatchResult{Incoming: incoming, Entry: e, Response: resp}
	}
	return nil
}

// NearMiss describes an expectation that partially matched a call.
type NearMiss = matching.NearMiss

// NearMisses explains why a call matches no expectation, best candidates first.
func (m *Mock) NearMisses(method, target string, opts client.Options) []NearMiss {
	incoming := newEntry(m.cfg, method, target, opts, false)
	return m.nearMisses(incoming)
}

func (m *Mock) nearMisses(incoming *Entry) []NearMiss {
	all := m.entries.All()
	candidates := make([]matching.Candidate, 0, len(all))
	for _, e := range all {
		candidates = append(candidates, e.candidate(incoming))
	}
	return matching.CollectNearMisses(candidates, matching.Call{
		Method:  incoming.method,
		Target:  incoming.target.String(),
		Options: incoming.options,
	}, m.cfg.nearMisses)
}

// Entries returns the entries registered for method in registration order.
// An empty method returns every entry.
func (m *Mock) Entries(method string) []*Entry {
	if method == "" {
		return m.entries.All()
	}
	return m.entries.List(strings.ToLower(method))
}

// Remove unregisters an entry by ID.
func (m *Mock) Remove(id string) bool {
	return m.entries.Delete(id)
}

// Reset removes every registered entry.
func (m *Mock) Reset() {
	m.entries.Clear()
}
