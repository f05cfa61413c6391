// Package stub intercepts the outbound send path of a client.Client so tests
// can register expected requests and receive canned responses instead of
// reaching the network.
//
// # Quick Start
//
//	c, _ := client.New(client.Config{})
//	m := stub.New()
//
//	if err := m.Activate(c); err != nil {
//	    t.Fatal(err)
//	}
//	defer m.Deactivate()
//
//	m.Get("https://host/endpoint").Response(stub.WithJSON(map[string]any{"success": true}))
//
//	resp, err := c.Get(ctx, "https://host/endpoint")
//
// # Matching
//
// Expectations are kept per lowercased method in registration order and the
// first one that matches wins. An expectation matches when its target matches
// the incoming URL and its normalized options equal the incoming ones exactly.
//
// Targets are either literal strings, compared with ==, or patterns
// registered through Add with useRegex set (or the GetPattern family). A
// pattern must match from the start of the incoming URL.
//
// Options are filtered to the supported names (params, data, json, cookies,
// headers and any added with WithSupportedOptions) and nil values are
// dropped. The json option is round-tripped through the configured
// serializer and deserializer on both sides, so structurally equal values
// compare equal regardless of their Go types. If that round trip fails the
// expectation records an error wrapping ErrConfiguration and never matches.
//
// # Query Strings
//
// A client.Client passes its target through untouched, so a call to
// "https://host/e?a=1" matches a literal target registered with the same
// query. The RoundTripper installed by ActivateHTTP cannot tell a query
// written into the URL from one built from params: it strips the query from
// the target and matches it as the params option instead. Expectations
// written with client.WithParams, and client calls that pass their query the
// same way, match under both kinds of session.
//
// # Sessions
//
// Activate snapshots the registered expectations and installs an
// intercepting transport on the client. Deactivate restores the client's
// previous transport and the snapshot, discarding everything registered
// while the session was active. Calls that match nothing are passed to the
// client's previous transport; in tests without network access that
// surfaces as a connection error.
//
// ActivateHTTP does the same for a plain *http.Client by replacing its
// RoundTripper.
package stub
