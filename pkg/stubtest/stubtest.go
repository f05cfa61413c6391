package stubtest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/logging"
	"github.com/getmockd/httpstub/pkg/stub"
)

// ErrOffline is the cause of every connection error returned by Offline.
var ErrOffline = errors.New("network access disabled in tests")

// Stub is a stub.Mock whose session ends with the test.
type Stub struct {
	*stub.Mock
	t testing.TB
}

// New creates a Mock, activates it on c and deactivates it in t.Cleanup.
// Mock logs go to t.Log at debug level unless a logger is passed in opts.
func New(t testing.TB, c *client.Client, opts ...stub.Option) *Stub {
	t.Helper()
	s := newStub(t, opts)
	if err := s.Activate(c); err != nil {
		t.Fatalf("stubtest: activate: %v", err)
	}
	t.Cleanup(s.cleanup)
	return s
}

// NewHTTP is like New for a plain *http.Client.
func NewHTTP(t testing.TB, hc *http.Client, opts ...stub.Option) *Stub {
	t.Helper()
	s := newStub(t, opts)
	if err := s.ActivateHTTP(hc); err != nil {
		t.Fatalf("stubtest: activate: %v", err)
	}
	t.Cleanup(s.cleanup)
	return s
}

// NewOffline creates a client whose real transport is Offline and
// intercepts it.
func NewOffline(t testing.TB, opts ...stub.Option) (*Stub, *client.Client) {
	t.Helper()
	c, err := client.New(client.Config{Transport: Offline(), Logger: logging.ForTest(t, logging.LevelDebug)})
	if err != nil {
		t.Fatalf("stubtest: create client: %v", err)
	}
	return New(t, c, opts...), c
}

// Offline returns a transport that fails every call with a
// *client.ConnectionError wrapping ErrOffline.
func Offline() client.Transport {
	return client.TransportFunc(func(_ context.Context, method, target string, _ client.Options) (client.Response, error) {
		return nil, &client.ConnectionError{Method: method, URL: target, Err: ErrOffline}
	})
}

func newStub(t testing.TB, opts []stub.Option) *Stub {
	all := append([]stub.Option{stub.WithLogger(logging.ForTest(t, logging.LevelDebug))}, opts...)
	return &Stub{Mock: stub.New(all...), t: t}
}

func (s *Stub) cleanup() {
	if !s.Active() {
		return
	}
	if err := s.Deactivate(); err != nil {
		s.t.Errorf("stubtest: deactivate: %v", err)
	}
}

// Respond binds a response to e and returns it, failing the test if e or
// the response is misconfigured.
func (s *Stub) Respond(e *stub.Entry, opts ...stub.ResponseOption) *stub.Response {
	s.t.Helper()
	r, err := e.Response(opts...)
	if err != nil {
		s.t.Fatalf("stubtest: %s: %v", e, err)
	}
	return r
}
