// Package requestlog records the calls seen by an interception session so
// tests can inspect what was sent, which expectation answered it and what
// happened to calls that matched nothing.
//
// It is distinct from operational logging, which uses log/slog.
//
// # Usage
//
//	store := requestlog.NewMemoryStore(1000)
//	store.Log(&requestlog.Entry{
//	    Method: "post",
//	    Target: "https://host/endpoint",
//	})
//
//	posts := store.List(&requestlog.Filter{Method: "post"})
//
// This is a leaf package with no internal dependencies.
package requestlog
