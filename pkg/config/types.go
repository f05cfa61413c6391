package config

// Fixture is the content of one fixture file.
type Fixture struct {
	// Path is the file the fixture was loaded from, if any.
	Path string `json:"-" yaml:"-"`

	Expectations []Expectation `json:"expectations" yaml:"expectations"`
}

// Expectation declares one expected request and its response.
type Expectation struct {
	// Name is an optional label used in error messages and listings.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Method string `json:"method" yaml:"method"`
	URL    string `json:"url" yaml:"url"`

	// Regex makes URL a pattern matched from the start of the incoming URL.
	Regex bool `json:"regex,omitempty" yaml:"regex,omitempty"`

	Request  *RequestSpec `json:"request,omitempty" yaml:"request,omitempty"`
	Response ResponseSpec `json:"response" yaml:"response"`
}

// RequestSpec holds the request options an expectation requires.
// Unset fields must also be unset on the incoming request.
type RequestSpec struct {
	// Params values are a string or a list of strings.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	// Headers values are a string or a list of strings.
	Headers map[string]any    `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	JSON    any               `json:"json,omitempty" yaml:"json,omitempty"`
	// Data is a raw body string or a mapping sent as a form.
	Data any `json:"data,omitempty" yaml:"data,omitempty"`
	// Options are extra option names enabled with stub.WithSupportedOptions.
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// ResponseSpec declares a canned response. At most one of JSON, Text and
// Base64 may be set.
type ResponseSpec struct {
	// Status defaults to 200.
	Status  int               `json:"status,omitempty" yaml:"status,omitempty"`
	JSON    any               `json:"json,omitempty" yaml:"json,omitempty"`
	Text    *string           `json:"text,omitempty" yaml:"text,omitempty"`
	Base64  string            `json:"base64,omitempty" yaml:"base64,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Attrs   map[string]any    `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Label returns the name, or "METHOD url" when unnamed.
func (e *Expectation) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Method + " " + e.URL
}
