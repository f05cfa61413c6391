package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/httpstub/pkg/logging"
	"golang.org/x/net/publicsuffix"
)

// DefaultTimeout is used by NewHTTPTransport when no client or timeout is configured.
const DefaultTimeout = 30 * time.Second

// HTTPTransportConfig configures an HTTPTransport.
type HTTPTransportConfig struct {
	// Client is the underlying net/http client. A client with a cookie jar
	// and DefaultTimeout is created when nil.
	Client *http.Client

	// Timeout overrides DefaultTimeout for the created client.
	Timeout time.Duration

	// Logger receives request diagnostics. Defaults to a no-op logger.
	Logger *slog.Logger
}

// HTTPTransport is the real network send path.
type HTTPTransport struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPTransport creates an HTTPTransport.
func NewHTTPTransport(cfg HTTPTransportConfig) (*HTTPTransport, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	hc := cfg.Client
	if hc == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}

	return &HTTPTransport{
		client: hc,
		logger: logger.With("component", "transport"),
	}, nil
}

// HTTPClient returns the underlying *http.Client.
func (t *HTTPTransport) HTTPClient() *http.Client {
	return t.client
}

// Send builds a request from opts and executes it over the network.
func (t *HTTPTransport) Send(ctx context.Context, method, target string, opts Options) (Response, error) {
	req, err := NewRequest(ctx, method, target, opts)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("sending request", "method", req.Method, "url", req.URL.String())

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, &ConnectionError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	return &httpResponse{resp: resp, url: resp.Request.URL.String()}, nil
}

// NewRequest converts a send call into an *http.Request.
// Unknown option names are ignored.
func NewRequest(ctx context.Context, method, target string, opts Options) (*http.Request, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: target %q: %v", ErrInvalidOption, target, err)
	}

	if p, ok := opts[OptParams]; ok && p != nil {
		params, err := toValues(p)
		if err != nil {
			return nil, fmt.Errorf("%w: params: %v", ErrInvalidOption, err)
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	body, contentType, err := requestBody(opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if h, ok := opts[OptHeaders]; ok && h != nil {
		switch v := h.(type) {
		case http.Header:
			for k, vs := range v {
				for _, hv := range vs {
					req.Header.Add(k, hv)
				}
			}
		case map[string]string:
			for k, hv := range v {
				req.Header.Set(k, hv)
			}
		default:
			return nil, fmt.Errorf("%w: headers must be http.Header or map[string]string, got %T", ErrInvalidOption, h)
		}
	}

	if c, ok := opts[OptCookies]; ok && c != nil {
		cookies, ok := c.(map[string]string)
		if !ok {
			return nil, fmt.Errorf("%w: cookies must be map[string]string, got %T", ErrInvalidOption, c)
		}
		names := make([]string, 0, len(cookies))
		for name := range cookies {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			req.AddCookie(&http.Cookie{Name: name, Value: cookies[name]})
		}
	}

	return req, nil
}

// requestBody returns the body reader and implied content type.
// json and data are mutually exclusive.
func requestBody(opts Options) (io.Reader, string, error) {
	j, hasJSON := opts[OptJSON]
	d, hasData := opts[OptData]
	hasJSON = hasJSON && j != nil
	hasData = hasData && d != nil

	if hasJSON && hasData {
		return nil, "", fmt.Errorf("%w: data and json cannot be used together", ErrInvalidOption)
	}

	if hasJSON {
		b, err := json.Marshal(j)
		if err != nil {
			return nil, "", fmt.Errorf("%w: json: %v", ErrInvalidOption, err)
		}
		return bytes.NewReader(b), "application/json", nil
	}

	if !hasData {
		return nil, "", nil
	}

	switch v := d.(type) {
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		return v, "", nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported data type %T", ErrInvalidOption, d)
	}
}

// toValues converts the supported params shapes to url.Values.
func toValues(p any) (url.Values, error) {
	switch v := p.(type) {
	case url.Values:
		return v, nil
	case map[string][]string:
		return url.Values(v), nil
	case map[string]string:
		out := make(url.Values, len(v))
		for k, s := range v {
			out.Set(k, s)
		}
		return out, nil
	case map[string]any:
		out := make(url.Values, len(v))
		for k, raw := range v {
			switch items := raw.(type) {
			case []any:
				for _, item := range items {
					out.Add(k, fmt.Sprint(item))
				}
			case []string:
				for _, item := range items {
					out.Add(k, item)
				}
			default:
				out.Add(k, fmt.Sprint(raw))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported params type %T", p)
	}
}

// httpResponse adapts *http.Response to Response.
type httpResponse struct {
	resp *http.Response
	url  string

	once sync.Once
	body []byte
	err  error
}

func (r *httpResponse) StatusCode() int     { return r.resp.StatusCode }
func (r *httpResponse) OK() bool            { return IsOK(r.resp.StatusCode) }
func (r *httpResponse) URL() string         { return r.url }
func (r *httpResponse) Header() http.Header { return r.resp.Header }

func (r *httpResponse) Read() ([]byte, error) {
	r.once.Do(func() {
		defer func() { _ = r.resp.Body.Close() }()
		r.body, r.err = io.ReadAll(r.resp.Body)
	})
	return r.body, r.err
}

func (r *httpResponse) Text() (string, error) {
	b, err := r.Read()
	return string(b), err
}

func (r *httpResponse) JSON(v any) error {
	b, err := r.Read()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (r *httpResponse) RaiseForStatus() error {
	return CheckStatus(r.resp.StatusCode, r.url)
}

// Release reads the remaining body so the connection can be reused.
func (r *httpResponse) Release() {
	_, _ = r.Read()
}

func (r *httpResponse) WaitForClose(ctx context.Context) error {
	r.Release()
	return ctx.Err()
}

func (r *httpResponse) Close() error {
	r.Release()
	return nil
}
