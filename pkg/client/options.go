package client

import (
	"net/http"
	"net/url"
)

// Recognized request option names.
const (
	OptParams  = "params"
	OptData    = "data"
	OptJSON    = "json"
	OptCookies = "cookies"
	OptHeaders = "headers"
)

// Options holds the options of a single send call keyed by option name.
type Options map[string]any

// RequestOption sets a single request option.
type RequestOption func(Options)

// BuildOptions collects opts into a new Options map.
func BuildOptions(opts ...RequestOption) Options {
	o := make(Options, len(opts))
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Clone returns a shallow copy of o.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Has reports whether the option name is set.
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// WithOption sets an arbitrary named option.
func WithOption(name string, value any) RequestOption {
	return func(o Options) {
		o[name] = value
	}
}

// WithParams sets query parameters appended to the target URL.
func WithParams(params url.Values) RequestOption {
	return WithOption(OptParams, params)
}

// WithData sets a raw request body.
// Accepts string, []byte, url.Values (form encoded) or io.Reader.
func WithData(data any) RequestOption {
	return WithOption(OptData, data)
}

// WithJSON sets a request body encoded as JSON.
// Content-Type is set to application/json by HTTPTransport.
func WithJSON(v any) RequestOption {
	return WithOption(OptJSON, v)
}

// WithCookies sets request cookies.
func WithCookies(cookies map[string]string) RequestOption {
	return WithOption(OptCookies, cookies)
}

// WithHeaders sets request headers.
func WithHeaders(headers http.Header) RequestOption {
	return WithOption(OptHeaders, headers)
}
