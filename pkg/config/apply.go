package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/stub"
)

// Apply registers every expectation on m in file order and binds its
// response. It stops at the first expectation m rejects.
func (f *Fixture) Apply(m *stub.Mock) ([]*stub.Entry, error) {
	entries := make([]*stub.Entry, 0, len(f.Expectations))
	for i := range f.Expectations {
		e := &f.Expectations[i]

		opts, err := e.requestOptions()
		if err != nil {
			return entries, fmt.Errorf("expectation %d (%s): %w", i, e.Label(), err)
		}
		entry := m.Add(e.Method, e.URL, e.Regex, opts...)
		if err := entry.Err(); err != nil {
			return entries, fmt.Errorf("expectation %d (%s): %w", i, e.Label(), err)
		}

		respOpts, err := e.Response.options()
		if err != nil {
			return entries, fmt.Errorf("expectation %d (%s): %w", i, e.Label(), err)
		}
		if _, err := entry.Response(respOpts...); err != nil {
			return entries, fmt.Errorf("expectation %d (%s): %w", i, e.Label(), err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ApplyAll applies fixtures in order.
func ApplyAll(m *stub.Mock, fixtures []*Fixture) ([]*stub.Entry, error) {
	var all []*stub.Entry
	for _, f := range fixtures {
		entries, err := f.Apply(m)
		all = append(all, entries...)
		if err != nil {
			if f.Path != "" {
				return all, fmt.Errorf("%s: %w", f.Path, err)
			}
			return all, err
		}
	}
	return all, nil
}

// RequestOptions returns the request options the expectation requires, in
// the shapes the client sends.
func (e *Expectation) RequestOptions() (client.Options, error) {
	opts, err := e.requestOptions()
	if err != nil {
		return nil, err
	}
	return client.BuildOptions(opts...), nil
}

func (e *Expectation) requestOptions() ([]client.RequestOption, error) {
	r := e.Request
	if r == nil {
		return nil, nil
	}

	var opts []client.RequestOption
	if len(r.Params) > 0 {
		params := make(url.Values, len(r.Params))
		for name, v := range r.Params {
			values, err := stringList(v)
			if err != nil {
				return nil, fmt.Errorf("params.%s: %w", name, err)
			}
			params[name] = values
		}
		opts = append(opts, client.WithParams(params))
	}
	if len(r.Headers) > 0 {
		header := make(http.Header, len(r.Headers))
		for name, v := range r.Headers {
			values, err := stringList(v)
			if err != nil {
				return nil, fmt.Errorf("headers.%s: %w", name, err)
			}
			for _, hv := range values {
				header.Add(name, hv)
			}
		}
		opts = append(opts, client.WithHeaders(header))
	}
	if len(r.Cookies) > 0 {
		opts = append(opts, client.WithCookies(r.Cookies))
	}
	if r.JSON != nil {
		opts = append(opts, client.WithJSON(r.JSON))
	}
	if r.Data != nil {
		data, err := dataOption(r.Data)
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
		opts = append(opts, client.WithData(data))
	}
	for _, name := range sortedKeys(r.Options) {
		opts = append(opts, client.WithOption(name, r.Options[name]))
	}
	return opts, nil
}

func (r *ResponseSpec) options() ([]stub.ResponseOption, error) {
	var opts []stub.ResponseOption
	if r.Status != 0 {
		opts = append(opts, stub.WithStatus(r.Status))
	}
	switch {
	case r.JSON != nil:
		opts = append(opts, stub.WithJSON(r.JSON))
	case r.Text != nil:
		opts = append(opts, stub.WithText(*r.Text))
	case r.Base64 != "":
		b, err := base64.StdEncoding.DecodeString(r.Base64)
		if err != nil {
			return nil, fmt.Errorf("response.base64: %w", err)
		}
		opts = append(opts, stub.WithBytes(b))
	}
	for _, name := range sortedKeys(r.Headers) {
		opts = append(opts, stub.WithHeader(name, r.Headers[name]))
	}
	if len(r.Attrs) > 0 {
		attrs := make([]slog.Attr, 0, len(r.Attrs))
		for _, key := range sortedKeys(r.Attrs) {
			attrs = append(attrs, slog.Any(key, r.Attrs[key]))
		}
		opts = append(opts, stub.WithAttrs(attrs...))
	}
	return opts, nil
}

// stringList accepts a scalar or a list of scalars.
func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, err := scalar(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func scalar(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool, int, int64, float64, uint64:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("expected a string or list of strings, got %T", v)
	}
}

// dataOption converts a data value: strings stay strings and mappings
// become form values.
func dataOption(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case map[string]any:
		form := make(url.Values, len(t))
		for name, raw := range t {
			values, err := stringList(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			form[name] = values
		}
		return form, nil
	default:
		return nil, fmt.Errorf("expected a string or mapping, got %T", v)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
