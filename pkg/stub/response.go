package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/getmockd/httpstub/pkg/client"
)

// ReservedPrefix marks extension attribute keys that callers may not set.
const ReservedPrefix = "_"

// Callback is invoked by the dispatcher on every match of the entry the
// response is bound to, before the response is handed back to the caller.
type Callback func(resp *Response, incoming, matched *Entry)

// Response is a canned response. It implements client.Response without any
// I/O: every body accessor returns immediately.
type Response struct {
	status   int
	jsonBody any
	hasJSON  bool
	text     string
	body     []byte
	header   http.Header
	callback Callback

	mu    sync.RWMutex
	url   string
	attrs map[string]slog.Value
}

var _ client.Response = (*Response)(nil)

type responseSpec struct {
	status   int
	json     any
	hasJSON  bool
	text     string
	hasText  bool
	body     []byte
	hasBody  bool
	header   http.Header
	callback Callback
	attrs    []slog.Attr
}

// ResponseOption configures a Response.
type ResponseOption func(*responseSpec)

// WithStatus sets the status code. Default is 200.
func WithStatus(status int) ResponseOption {
	return func(s *responseSpec) {
		s.status = status
	}
}

// WithJSON sets the JSON body. Text and bytes are derived from it unless set
// explicitly, and Content-Type defaults to application/json.
func WithJSON(v any) ResponseOption {
	return func(s *responseSpec) {
		s.json = v
		s.hasJSON = true
	}
}

// WithText sets the text body.
func WithText(text string) ResponseOption {
	return func(s *responseSpec) {
		s.text = text
		s.hasText = true
	}
}

// WithBytes sets the binary body.
func WithBytes(b []byte) ResponseOption {
	return func(s *responseSpec) {
		s.body = bytes.Clone(b)
		s.hasBody = true
	}
}

// WithHeader adds a response header.
func WithHeader(key, value string) ResponseOption {
	return func(s *responseSpec) {
		if s.header == nil {
			s.header = make(http.Header)
		}
		s.header.Add(key, value)
	}
}

// WithHeaders adds all of h to the response headers.
func WithHeaders(h http.Header) ResponseOption {
	return func(s *responseSpec) {
		if s.header == nil {
			s.header = make(http.Header, len(h))
		}
		for k, vs := range h {
			for _, v := range vs {
				s.header.Add(k, v)
			}
		}
	}
}

// WithCallback sets a function run on every match.
func WithCallback(cb Callback) ResponseOption {
	return func(s *responseSpec) {
		s.callback = cb
	}
}

// WithAttrs attaches extension attributes.
// Keys starting with ReservedPrefix are rejected with ErrConfiguration.
func WithAttrs(attrs ...slog.Attr) ResponseOption {
	return func(s *responseSpec) {
		s.attrs = append(s.attrs, attrs...)
	}
}

// NewResponse builds a standalone Response with the default serializer.
// Entries build theirs with Entry.Response.
func NewResponse(opts ...ResponseOption) (*Response, error) {
	return newResponse(newConfig(), "", opts...)
}

func newResponse(cfg *config, url string, opts ...ResponseOption) (*Response, error) {
	spec := responseSpec{status: http.StatusOK}
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}

	attrs := make(map[string]slog.Value, len(spec.attrs))
	for _, a := range spec.attrs {
		if err := checkAttrKey(a.Key); err != nil {
			return nil, err
		}
		attrs[a.Key] = a.Value.Resolve()
	}

	r := &Response{
		status:   spec.status,
		jsonBody: spec.json,
		hasJSON:  spec.hasJSON,
		header:   spec.header,
		callback: spec.callback,
		url:      url,
		attrs:    attrs,
	}

	switch {
	case spec.hasText:
		r.text = spec.text
	case spec.hasBody:
		r.text = string(spec.body)
	default:
		data, err := cfg.serializer(spec.json)
		if err != nil {
			return nil, fmt.Errorf("%w: serialize json body: %v", ErrConfiguration, err)
		}
		r.text = string(data)
	}

	if spec.hasBody {
		r.body = spec.body
	} else {
		r.body = []byte(r.text)
	}

	if spec.hasJSON && r.header.Get("Content-Type") == "" {
		if r.header == nil {
			r.header = make(http.Header)
		}
		r.header.Set("Content-Type", "application/json")
	}

	return r, nil
}

func checkAttrKey(key string) error {
	if strings.HasPrefix(key, ReservedPrefix) {
		return fmt.Errorf("%w: attribute %q uses reserved prefix %q", ErrConfiguration, key, ReservedPrefix)
	}
	return nil
}

// StatusCode returns the status code.
func (r *Response) StatusCode() int { return r.status }

// OK reports whether the status is below 400.
func (r *Response) OK() bool { return client.IsOK(r.status) }

// URL returns the URL of the call that was answered, or the registered
// target before the first match.
func (r *Response) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.url
}

func (r *Response) setURL(url string) {
	r.mu.Lock()
	r.url = url
	r.mu.Unlock()
}

// Header returns a copy of the response headers.
func (r *Response) Header() http.Header { return r.header.Clone() }

// Text returns the text body.
func (r *Response) Text() (string, error) { return r.text, nil }

// Read returns a copy of the binary body.
func (r *Response) Read() ([]byte, error) { return bytes.Clone(r.body), nil }

// JSON decodes the binary body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// JSONBody returns the value registered with WithJSON, or nil.
func (r *Response) JSONBody() any { return r.jsonBody }

// RaiseForStatus returns a *client.ResponseError when the status is 400 or above.
func (r *Response) RaiseForStatus() error {
	return client.CheckStatus(r.status, r.URL())
}

// Release is a no-op.
func (r *Response) Release() {}

// WaitForClose is a no-op.
func (r *Response) WaitForClose(context.Context) error { return nil }

// Close is a no-op so deferred closes work unmodified.
func (r *Response) Close() error { return nil }

// Callback returns the match callback, or nil.
func (r *Response) Callback() Callback { return r.callback }

// Attr returns the extension attribute stored under key.
func (r *Response) Attr(key string) (slog.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.attrs[key]
	return v, ok
}

// Attrs returns a copy of the extension attributes.
func (r *Response) Attrs() map[string]slog.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.attrs)
}

// SetAttr sets an extension attribute. Keys starting with ReservedPrefix fail
// with ErrConfiguration and leave the response unchanged.
func (r *Response) SetAttr(key string, v slog.Value) error {
	if err := checkAttrKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs[key] = v.Resolve()
	return nil
}

// LogValue implements slog.LogValuer.
func (r *Response) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("status", r.status),
		slog.String("url", r.URL()),
		slog.Int("bytes", len(r.body)),
	)
}

// HTTPResponse converts r into an *http.Response answering req.
func (r *Response) HTTPResponse(req *http.Request) *http.Response {
	header := r.Header()
	if header == nil {
		header = make(http.Header)
	}
	if header.Get("Content-Length") == "" {
		header.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.status, http.StatusText(r.status)),
		StatusCode:    r.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.body)),
		ContentLength: int64(len(r.body)),
		Request:       req,
	}
}

// clone returns a deep copy. The JSON value is shared; it is never mutated.
func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Response{
		status:   r.status,
		jsonBody: r.jsonBody,
		hasJSON:  r.hasJSON,
		text:     r.text,
		body:     bytes.Clone(r.body),
		header:   r.header.Clone(),
		callback: r.callback,
		url:      r.url,
		attrs:    maps.Clone(r.attrs),
	}
}
