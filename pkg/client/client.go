package client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/getmockd/httpstub/pkg/logging"
)

// Config configures a Client.
type Config struct {
	// Transport is the send path. An HTTPTransport is created when nil.
	Transport Transport

	// HTTP configures the default HTTPTransport. Ignored when Transport is set.
	HTTP HTTPTransportConfig

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Client sends requests through a replaceable Transport.
type Client struct {
	mu        sync.RWMutex
	transport Transport
	logger    *slog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	t := cfg.Transport
	if t == nil {
		httpCfg := cfg.HTTP
		if httpCfg.Logger == nil {
			httpCfg.Logger = logger
		}
		ht, err := NewHTTPTransport(httpCfg)
		if err != nil {
			return nil, err
		}
		t = ht
	}

	return &Client{transport: t, logger: logger}, nil
}

// Transport returns the currently installed transport.
func (c *Client) Transport() Transport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transport
}

// SetTransport installs t and returns the transport it replaced.
func (c *Client) SetTransport(t Transport) Transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.transport
	c.transport = t
	return prev
}

// Do sends a request with the given method.
func (c *Client) Do(ctx context.Context, method, target string, opts ...RequestOption) (Response, error) {
	method = strings.ToUpper(method)
	c.logger.Debug("request", "method", method, "url", target)
	return c.Transport().Send(ctx, method, target, BuildOptions(opts...))
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, target string, opts ...RequestOption) (Response, error) {
	return c.Do(ctx, http.MethodGet, target, opts...)
}

// Post sends a POST request.
func (c *Client) Post(ctx context.Context, target string, opts ...RequestOption) (Response, error) {
	return c.Do(ctx, http.MethodPost, target, opts...)
}

// Put sends a PUT request.
func (c *Client) Put(ctx context.Context, target string, opts ...RequestOption) (Response, error) {
	return c.Do(ctx, http.MethodPut, target, opts...)
}

// Patch sends a PATCH request.
func (c *Client) Patch(ctx context.Context, target string, opts ...RequestOption) (Response, error) {
	return c.Do(ctx, http.MethodPatch, target, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, target string, opts ...RequestOption) (Response, error) {
	return c.Do(ctx, http.MethodDelete, target, opts...)
}
