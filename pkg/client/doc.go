// Package client provides the HTTP client used by application code whose
// outbound calls are stubbed in tests.
//
// Every request goes through a single send operation, the Transport. In
// production the Transport is an HTTPTransport backed by net/http. Tests swap
// it for an intercepting transport (see package stub) for the lifetime of an
// interception session and restore it afterwards.
//
// # Usage
//
//	c, err := client.New(client.Config{})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := c.Post(ctx, "https://api.example.com/items",
//	    client.WithJSON(map[string]any{"name": "widget"}),
//	    client.WithHeaders(http.Header{"X-Token": {"abc"}}),
//	)
//	if err != nil {
//	    return err
//	}
//	defer resp.Close()
//
//	if err := resp.RaiseForStatus(); err != nil {
//	    return err
//	}
//
// # Request Options
//
// Options are keyed by name. The recognized names are params, data, json,
// cookies and headers. Helpers produce them with their canonical Go types:
//
//   - WithParams: url.Values
//   - WithData: string, []byte, url.Values or io.Reader
//   - WithJSON: any JSON-encodable value
//   - WithCookies: map[string]string
//   - WithHeaders: http.Header
//
// WithOption sets an arbitrary option. HTTPTransport ignores names it does not
// know, but stubs may be configured to match on them.
//
// # Errors
//
// Failure to obtain a response is reported as a *ConnectionError, which
// matches ErrConnection with errors.Is. Responses with status >= 400 are not
// errors until RaiseForStatus is called, which returns a *ResponseError.
package client
