package stub

import (
	"bytes"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/getmockd/httpstub/internal/matching"
	"github.com/getmockd/httpstub/pkg/client"
	"github.com/google/uuid"
)

// Entry is one registered expectation: a method, a target, the normalized
// request options and the response bound to it.
//
// Entries are also built for incoming calls so both sides of a comparison
// go through the same normalization.
type Entry struct {
	id      string
	method  string
	target  Target
	options client.Options
	cfg     *config
	err     error // first configuration error, immutable after construction

	mu       sync.RWMutex
	response *Response
}

func newEntry(cfg *config, method, target string, raw client.Options, useRegex bool) *Entry {
	e := &Entry{
		id:     uuid.NewString(),
		method: strings.ToLower(method),
		cfg:    cfg,
	}

	if useRegex {
		p, err := CompilePattern(target)
		if err != nil {
			e.setError(err)
			p = &Pattern{src: target}
		}
		e.target = p
	} else {
		e.target = Literal(target)
	}

	opts, err := cfg.normalize(raw)
	if err != nil {
		e.setError(err)
	}
	e.options = opts

	return e
}

// setError records the first error encountered during construction.
func (e *Entry) setError(err error) {
	if e.err == nil {
		e.err = err
	}
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() string { return e.id }

// Method returns the lowercased method.
func (e *Entry) Method() string { return e.method }

// Target returns the literal or pattern target.
func (e *Entry) Target() Target { return e.target }

// IsPattern reports whether the target is a pattern.
func (e *Entry) IsPattern() bool {
	_, ok := e.target.(*Pattern)
	return ok
}

// Options returns a deep copy of the normalized options.
func (e *Entry) Options() client.Options { return cloneOptions(e.options) }

// Err returns the configuration error recorded at construction, if any.
// An entry with an error never matches.
func (e *Entry) Err() error { return e.err }

// IsMatch reports whether this entry answers incoming: the target matches
// incoming's target and the normalized options are equal.
func (e *Entry) IsMatch(incoming *Entry) bool {
	if incoming == nil || e.err != nil || incoming.err != nil {
		return false
	}
	if !e.target.Matches(incoming.target.String()) {
		return false
	}
	return matching.OptionsEqual(e.options, incoming.options)
}

// Response builds a response and binds it to the entry, replacing any
// previous one. Nothing is bound when an error is returned.
func (e *Entry) Response(opts ...ResponseOption) (*Response, error) {
	if e.err != nil {
		return nil, e.err
	}
	r, err := newResponse(e.cfg, e.target.String(), opts...)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.response = r
	e.mu.Unlock()
	return r, nil
}

// GetResponse returns the bound response. The second result is false if
// Response has not been called yet.
func (e *Entry) GetResponse() (*Response, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.response, e.response != nil
}

func (e *Entry) String() string {
	kind := "literal"
	if e.IsPattern() {
		kind = "pattern"
	}
	return fmt.Sprintf("%s %s (%s, options=%v)", strings.ToUpper(e.method), e.target, kind, e.options)
}

// Clone returns a deep copy of the entry and its bound response.
func (e *Entry) Clone() *Entry {
	e.mu.RLock()
	resp := e.response
	e.mu.RUnlock()

	return &Entry{
		id:       e.id,
		method:   e.method,
		target:   e.target,
		options:  cloneOptions(e.options),
		cfg:      e.cfg,
		err:      e.err,
		response: resp.clone(),
	}
}

func (e *Entry) candidate(incoming *Entry) matching.Candidate {
	return matching.Candidate{
		EntryID:       e.id,
		Method:        e.method,
		Target:        e.target.String(),
		TargetMatched: e.target.Matches(incoming.target.String()),
		Options:       e.options,
		Invalid:       e.err,
	}
}

// cloneOptions copies the container types the client uses for options.
// A nil container stays nil.
// Values round-tripped from json are freshly allocated and not copied.
func cloneOptions(o client.Options) client.Options {
	if o == nil {
		return nil
	}
	out := make(client.Options, len(o))
	for k, v := range o {
		switch t := v.(type) {
		case url.Values:
			out[k] = url.Values(http.Header(t).Clone())
		case map[string][]string:
			out[k] = map[string][]string(http.Header(t).Clone())
		case http.Header:
			out[k] = t.Clone()
		case map[string]string:
			out[k] = maps.Clone(t)
		case []byte:
			out[k] = bytes.Clone(t)
		default:
			out[k] = v
		}
	}
	return out
}
