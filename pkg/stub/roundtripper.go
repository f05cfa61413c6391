package stub

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/getmockd/httpstub/pkg/client"
)

// RoundTripper answers *http.Request values from a Mock. Requests are
// converted to the same option shapes client.NewRequest builds from, so an
// expectation registered with client options matches both kinds of caller.
type RoundTripper struct {
	mock *Mock
	next http.RoundTripper
}

// RoundTripper returns an http.RoundTripper that answers from the mock and
// sends unmatched requests to next. A nil next fails unmatched requests with
// a *client.ConnectionError.
func (m *Mock) RoundTripper(next http.RoundTripper) *RoundTripper {
	return &RoundTripper{mock: m, next: next}
}

// RoundTrip implements http.RoundTripper.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	target, opts, body, err := rt.mock.requestOptions(req)
	if err != nil {
		return nil, err
	}

	res, call, err := rt.mock.dispatch(req.Method, target, opts)
	if err != nil || res != nil {
		rt.mock.calls.Log(call)
		if err != nil {
			return nil, err
		}
		return res.Response.HTTPResponse(req), nil
	}

	if rt.next == nil {
		err := &client.ConnectionError{Method: req.Method, URL: req.URL.String(), Err: errNoTransport}
		call.Error = err.Error()
		rt.mock.calls.Log(call)
		return nil, err
	}

	out := req
	if body != nil {
		out = req.Clone(req.Context())
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	resp, err := rt.next.RoundTrip(out)
	if err != nil {
		call.Error = err.Error()
	} else {
		call.Status = resp.StatusCode
	}
	rt.mock.calls.Log(call)
	return resp, err
}

// requestOptions converts req into a target and options:
//
//   - the target is the URL without query and fragment
//   - the query becomes params (url.Values)
//   - cookies become cookies (map[string]string)
//   - a JSON body becomes json, a form body becomes data (url.Values) and
//     any other body becomes data (string)
//   - the remaining headers become headers (http.Header)
//
// Headers the client adds implicitly for a json or form body are dropped.
// The body is consumed and returned so it can be replayed.
func (m *Mock) requestOptions(req *http.Request) (string, client.Options, []byte, error) {
	u := *req.URL
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	target := u.String()

	opts := make(client.Options)
	if q := req.URL.Query(); len(q) > 0 {
		opts[client.OptParams] = q
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	if cookies := req.Cookies(); len(cookies) > 0 {
		jar := make(map[string]string, len(cookies))
		for _, c := range cookies {
			jar[c.Name] = c.Value
		}
		opts[client.OptCookies] = jar
	}
	header.Del("Cookie")

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return "", nil, nil, &client.ConnectionError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("read request body: %w", err)}
		}
	}

	if len(body) > 0 {
		mediaType, _, _ := mime.ParseMediaType(header.Get("Content-Type"))
		switch {
		case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
			if v, err := m.cfg.deserializer(body); err == nil {
				opts[client.OptJSON] = v
				if header.Get("Content-Type") == "application/json" {
					header.Del("Content-Type")
				}
			} else {
				opts[client.OptData] = string(body)
			}
		case mediaType == "application/x-www-form-urlencoded":
			form, err := url.ParseQuery(string(body))
			if err != nil {
				opts[client.OptData] = string(body)
				break
			}
			opts[client.OptData] = form
			if header.Get("Content-Type") == "application/x-www-form-urlencoded" {
				header.Del("Content-Type")
			}
		default:
			opts[client.OptData] = string(body)
		}
	}

	if len(header) > 0 {
		opts[client.OptHeaders] = header
	}

	return target, opts, body, nil
}
