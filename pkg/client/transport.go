package client

import (
	"context"
	"net/http"
)

// Transport is the low-level send operation of a Client.
// It is the single interception point used by stubs.
type Transport interface {
	Send(ctx context.Context, method, target string, opts Options) (Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, method, target string, opts Options) (Response, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, method, target string, opts Options) (Response, error) {
	return f(ctx, method, target, opts)
}

// Response is the response returned by a Transport.
//
// Body accessors never block on the network once the response was obtained
// from a stub. For HTTPTransport the body is read on first access and cached.
type Response interface {
	StatusCode() int
	// OK reports whether the status is below 400.
	OK() bool
	URL() string
	Header() http.Header

	Text() (string, error)
	Read() ([]byte, error)
	// JSON decodes the body into v.
	JSON(v any) error

	// RaiseForStatus returns a *ResponseError when OK is false.
	RaiseForStatus() error

	Release()
	WaitForClose(ctx context.Context) error
	Close() error
}
