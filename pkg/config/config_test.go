package config

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
expectations:
  - name: create
    method: post
    url: https://host/endpoint
    request:
      json: {param: [1, 2]}
      params: {page: "1", tag: [a, b]}
      headers: {X-Token: abc}
      cookies: {session: s1}
    response:
      status: 201
      json: {success: true}
      headers: {X-Request-Id: r1}
      attrs: {reason: created}
  - method: GET
    url: 'https://host/users/\d+'
    regex: true
    response:
      text: user
  - method: put
    url: https://host/form
    request:
      data: {a: "1"}
    response:
      base64: aGk=
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fixture.yaml", sampleYAML)

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	require.Len(t, f.Expectations, 3)

	first := f.Expectations[0]
	assert.Equal(t, "create", first.Label())
	assert.Equal(t, 201, first.Response.Status)
	assert.True(t, f.Expectations[1].Regex)
	assert.Equal(t, "GET https://host/users/\\d+", f.Expectations[1].Label())
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fixture.json", `{
		"expectations": [
			{"method": "get", "url": "https://host/a", "response": {"json": {"ok": true}}}
		]
	}`)

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Expectations, 1)
	assert.Equal(t, map[string]any{"ok": true}, f.Expectations[0].Response.JSON)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", filepath.Join(dir, "missing.yaml"), ErrFileNotFound},
		{"empty", writeFile(t, dir, "empty.yaml", "  \n"), ErrEmptyFile},
		{"bad json", writeFile(t, dir, "bad.json", `{"expectations": [`), ErrInvalidJSON},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "expectations: [\n"), ErrInvalidYAML},
		{"unknown json field", writeFile(t, dir, "unknown.json", `{"expectations": [], "extra": 1}`), ErrInvalidJSON},
		{"unknown yaml field", writeFile(t, dir, "unknown.yml", "expectations: []\nextra: 1\n"), ErrInvalidYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := LoadFile(dir)
	assert.ErrorContains(t, err, "directory")
}

func TestValidate(t *testing.T) {
	text := "x"
	tests := []struct {
		name  string
		exp   Expectation
		field string
	}{
		{"missing method", Expectation{URL: "u"}, "method"},
		{"bad method", Expectation{Method: "BREW", URL: "u"}, "method"},
		{"missing url", Expectation{Method: "get"}, "url"},
		{"bad pattern", Expectation{Method: "get", URL: "(", Regex: true}, "url"},
		{"two bodies", Expectation{Method: "get", URL: "u", Response: ResponseSpec{JSON: 1, Text: &text}}, "response"},
		{"bad base64", Expectation{Method: "get", URL: "u", Response: ResponseSpec{Base64: "!!"}}, "response.base64"},
		{"bad status", Expectation{Method: "get", URL: "u", Response: ResponseSpec{Status: 42}}, "response.status"},
		{"reserved attr", Expectation{Method: "get", URL: "u", Response: ResponseSpec{Attrs: map[string]any{"_x": 1}}}, "response.attrs._x"},
		{"data and json", Expectation{Method: "post", URL: "u", Request: &RequestSpec{Data: "a", JSON: 1}}, "request"},
		{"bad data", Expectation{Method: "post", URL: "u", Request: &RequestSpec{Data: []any{1}}}, "request.data"},
		{"bad param", Expectation{Method: "get", URL: "u", Request: &RequestSpec{Params: map[string]any{"p": map[string]any{}}}}, "request.params.p"},
		{"bad header", Expectation{Method: "get", URL: "u", Request: &RequestSpec{Headers: map[string]any{"h": []any{[]any{}}}}}, "request.headers.h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Fixture{Expectations: []Expectation{tt.exp}}).Validate()
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, 0, vErr.Index)
		})
	}

	assert.Error(t, (&Fixture{}).Validate())
	assert.NoError(t, (&Fixture{Expectations: []Expectation{{Method: "get", URL: "u"}}}).Validate())
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	err := (&Fixture{Expectations: []Expectation{{}, {Method: "get"}}}).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "expectation 0")
	assert.ErrorContains(t, err, "expectation 1")
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	one := `expectations: [{method: get, url: "https://host/1"}]`
	two := `expectations: [{method: get, url: "https://host/2"}]`
	writeFile(t, dir, "b/two.yaml", two)
	writeFile(t, dir, "a/one.yaml", one)
	writeFile(t, dir, "a/deep/three.yml", `expectations: [{method: get, url: "https://host/3"}]`)

	fixtures, err := LoadGlob(filepath.Join(dir, "**", "*.yaml"))
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, "https://host/1", fixtures[0].Expectations[0].URL)
	assert.Equal(t, "https://host/2", fixtures[1].Expectations[0].URL)

	fixtures, err = LoadGlob(filepath.Join(dir, "b", "*.yaml"), filepath.Join(dir, "a", "one.yaml"))
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, "https://host/2", fixtures[0].Expectations[0].URL)

	fixtures, err = LoadGlob(filepath.Join(dir, "none", "*.yaml"))
	require.NoError(t, err)
	assert.Empty(t, fixtures)

	_, err = LoadGlob(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestApply(t *testing.T) {
	f, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	m := stub.New()
	entries, err := f.Apply(m)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	res, err := m.Match("POST", "https://host/endpoint", client.BuildOptions(
		client.WithJSON(map[string]any{"param": []int{1, 2}}),
		client.WithParams(url.Values{"page": {"1"}, "tag": {"a", "b"}}),
		client.WithHeaders(http.Header{"X-Token": {"abc"}}),
		client.WithCookies(map[string]string{"session": "s1"}),
	))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 201, res.Response.StatusCode())
	assert.Equal(t, "r1", res.Response.Header().Get("X-Request-Id"))
	reason, ok := res.Response.Attr("reason")
	require.True(t, ok)
	assert.Equal(t, slog.KindString, reason.Kind())
	assert.Equal(t, "created", reason.String())

	res, err = m.Match("GET", "https://host/users/9", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	text, _ := res.Response.Text()
	assert.Equal(t, "user", text)

	res, err = m.Match("PUT", "https://host/form", client.BuildOptions(client.WithData(url.Values{"a": {"1"}})))
	require.NoError(t, err)
	require.NotNil(t, res)
	body, _ := res.Response.Read()
	assert.Equal(t, []byte("hi"), body)
}

func TestApply_StopsOnRejectedExpectation(t *testing.T) {
	f := &Fixture{Expectations: []Expectation{
		{Method: "get", URL: "https://host/ok"},
		{Method: "get", URL: "https://host/bad", Response: ResponseSpec{Attrs: map[string]any{"_hidden": 1}}},
	}}

	entries, err := f.Apply(stub.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, stub.ErrConfiguration)
	assert.ErrorContains(t, err, "expectation 1")
	assert.Len(t, entries, 1)
}

func TestApplyAll(t *testing.T) {
	fixtures := []*Fixture{
		{Path: "a.yaml", Expectations: []Expectation{{Method: "get", URL: "https://host/a"}}},
		{Path: "b.yaml", Expectations: []Expectation{{Method: "get", URL: "(", Regex: true}}},
	}

	m := stub.New()
	entries, err := ApplyAll(m, fixtures)
	require.Error(t, err)
	assert.ErrorContains(t, err, "b.yaml")
	assert.Len(t, entries, 1)
}

func TestExpectation_RequestOptions(t *testing.T) {
	e := Expectation{Request: &RequestSpec{
		Params:  map[string]any{"n": 3, "flag": true},
		Data:    "raw",
		Options: map[string]any{"timeout": 5},
	}}

	opts, err := e.RequestOptions()
	require.NoError(t, err)
	assert.Equal(t, url.Values{"n": {"3"}, "flag": {"true"}}, opts[client.OptParams])
	assert.Equal(t, "raw", opts[client.OptData])
	assert.Equal(t, 5, opts["timeout"])

	none, err := (&Expectation{}).RequestOptions()
	require.NoError(t, err)
	assert.Empty(t, none)
}
