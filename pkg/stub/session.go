package stub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getmockd/httpstub/internal/matching"
	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/requestlog"
)

var errNoTransport = errors.New("no fall-through transport")

// Activate starts a session on c: the registered expectations are
// snapshotted, the call log is cleared and c's transport is replaced by one
// that consults the mock first.
func (m *Mock) Activate(c *client.Client) error {
	if c == nil {
		return fmt.Errorf("%w: nil client", ErrConfiguration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return ErrSessionActive
	}

	s := m.begin()
	s.client = c
	s.real = c.Transport()
	c.SetTransport(m.Transport(s.real))
	m.session = s

	m.logger.Debug("session activated", "entries", s.snapshot.Len())
	return nil
}

// ActivateHTTP starts a session on a plain *http.Client by replacing its
// RoundTripper. Unmatched requests go to the previous RoundTripper, or
// http.DefaultTransport when it was nil.
func (m *Mock) ActivateHTTP(hc *http.Client) error {
	if hc == nil {
		return fmt.Errorf("%w: nil http client", ErrConfiguration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return ErrSessionActive
	}

	s := m.begin()
	s.httpClient = hc
	s.realRT = hc.Transport
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = m.RoundTripper(next)
	m.session = s

	m.logger.Debug("http session activated", "entries", s.snapshot.Len())
	return nil
}

func (m *Mock) begin() *session {
	m.calls.Clear()
	return &session{snapshot: m.entries.Snapshot()}
}

// Deactivate ends the session: the intercepted client gets its previous
// transport back and the expectations are restored to the snapshot taken by
// Activate. The call log is kept until the next activation.
func (m *Mock) Deactivate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	if s == nil {
		return ErrSessionInactive
	}

	if s.client != nil {
		s.client.SetTransport(s.real)
	}
	if s.httpClient != nil {
		s.httpClient.Transport = s.realRT
	}
	m.entries.Restore(s.snapshot)
	m.session = nil

	m.logger.Debug("session deactivated", "calls", m.calls.Count())
	return nil
}

// Active reports whether a session is active.
func (m *Mock) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// With activates a session on c, runs fn and deactivates, even if fn panics.
// fn's error takes precedence over a deactivation error.
func (m *Mock) With(c *client.Client, fn func() error) (err error) {
	if err := m.Activate(c); err != nil {
		return err
	}
	defer func() {
		if derr := m.Deactivate(); err == nil {
			err = derr
		}
	}()
	return fn()
}

// Transport returns a client.Transport that answers from the mock and sends
// unmatched calls to next. A nil next fails unmatched calls with a
// *client.ConnectionError. It can be passed to client.New directly when no
// session bookkeeping is wanted.
func (m *Mock) Transport(next client.Transport) client.Transport {
	return &interceptor{mock: m, next: next}
}

type interceptor struct {
	mock *Mock
	next client.Transport
}

func (t *interceptor) Send(ctx context.Context, method, target string, opts client.Options) (client.Response, error) {
	res, call, err := t.mock.dispatch(method, target, opts)
	if err != nil || res != nil {
		t.mock.calls.Log(call)
		if err != nil {
			return nil, err
		}
		return res.Response, nil
	}

	if t.next == nil {
		err := &client.ConnectionError{Method: strings.ToUpper(method), URL: target, Err: errNoTransport}
		call.Error = err.Error()
		t.mock.calls.Log(call)
		return nil, err
	}

	resp, err := t.next.Send(ctx, method, target, opts)
	if err != nil {
		call.Error = err.Error()
	} else {
		call.Status = resp.StatusCode()
	}
	t.mock.calls.Log(call)
	return resp, err
}

// dispatch matches a call and prepares its call log entry. On a match the
// response URL is stamped with target. The caller logs the entry once the
// outcome is known.
func (m *Mock) dispatch(method, target string, opts client.Options) (*MatchResult, *requestlog.Entry, error) {
	incoming := newEntry(m.cfg, method, target, opts, false)
	call := &requestlog.Entry{
		ID:      incoming.id,
		Method:  incoming.method,
		Target:  target,
		Options: incoming.Options(),
	}

	if err := incoming.Err(); err != nil {
		call.Error = err.Error()
		m.logger.Debug("call options rejected", "method", call.Method, "url", target, "error", err)
		return nil, call, err
	}

	res := m.match(incoming)
	if res != nil {
		res.Response.setURL(target)
		call.MatchedEntryID = res.Entry.id
		call.Status = res.Response.StatusCode()
		m.logger.Debug("call matched", "method", call.Method, "url", target, "entry", res.Entry.id, "response", res.Response)
		return res, call, nil
	}

	misses := m.nearMisses(incoming)
	call.NearMisses = nearMissInfo(misses)
	if m.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{"method", call.Method, "url", target, "registered", m.entries.Count()}
		for i, nm := range misses {
			attrs = append(attrs, slog.Group(fmt.Sprintf("nearMiss%d", i+1),
				"entry", nm.EntryID,
				"match", nm.MatchPercentage,
				"reason", nm.Reason,
			))
		}
		m.logger.Debug("no expectation matched, falling through", attrs...)
	}
	return nil, call, nil
}

func nearMissInfo(misses []matching.NearMiss) []requestlog.NearMissInfo {
	if len(misses) == 0 {
		return nil
	}
	out := make([]requestlog.NearMissInfo, 0, len(misses))
	for _, nm := range misses {
		out = append(out, requestlog.NearMissInfo{
			EntryID:         nm.EntryID,
			Target:          nm.Target,
			MatchPercentage: nm.MatchPercentage,
			Reason:          nm.Reason,
		})
	}
	return out
}
