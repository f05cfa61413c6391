package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/httpstub/pkg/stub"
)

// ValidationError describes an invalid field of one expectation.
type ValidationError struct {
	Index   int
	Label   string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("expectation %d (%s): %s: %s", e.Index, e.Label, e.Field, e.Message)
}

// validMethods are the methods an expectation may declare.
var validMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// Validate checks every expectation and returns all problems joined.
func (f *Fixture) Validate() error {
	if len(f.Expectations) == 0 {
		return errors.New("no expectations declared")
	}

	var errs []error
	for i := range f.Expectations {
		errs = append(errs, f.Expectations[i].validate(i)...)
	}
	return errors.Join(errs...)
}

func (e *Expectation) validate(index int) []error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Index:   index,
			Label:   e.Label(),
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	switch {
	case e.Method == "":
		fail("method", "is required")
	case !validMethods[strings.ToUpper(e.Method)]:
		fail("method", "unsupported method %q", e.Method)
	}

	switch {
	case e.URL == "":
		fail("url", "is required")
	case e.Regex:
		if _, err := stub.CompilePattern(e.URL); err != nil {
			fail("url", "%v", err)
		}
	default:
		if _, err := url.Parse(e.URL); err != nil {
			fail("url", "%v", err)
		}
	}

	if r := e.Request; r != nil {
		for name, v := range r.Params {
			if _, err := stringList(v); err != nil {
				fail("request.params."+name, "%v", err)
			}
		}
		for name, v := range r.Headers {
			if _, err := stringList(v); err != nil {
				fail("request.headers."+name, "%v", err)
			}
		}
		if r.Data != nil {
			if _, err := dataOption(r.Data); err != nil {
				fail("request.data", "%v", err)
			}
			if r.JSON != nil {
				fail("request", "data and json cannot be used together")
			}
		}
	}

	resp := e.Response
	bodies := 0
	if resp.JSON != nil {
		bodies++
	}
	if resp.Text != nil {
		bodies++
	}
	if resp.Base64 != "" {
		bodies++
		if _, err := base64.StdEncoding.DecodeString(resp.Base64); err != nil {
			fail("response.base64", "%v", err)
		}
	}
	if bodies > 1 {
		fail("response", "at most one of json, text and base64 may be set")
	}
	if resp.Status != 0 && (resp.Status < 100 || resp.Status > 599) {
		fail("response.status", "must be between 100 and 599, got %d", resp.Status)
	}
	for key := range resp.Attrs {
		if strings.HasPrefix(key, stub.ReservedPrefix) {
			fail("response.attrs."+key, "keys may not start with %q", stub.ReservedPrefix)
		}
	}

	return errs
}
