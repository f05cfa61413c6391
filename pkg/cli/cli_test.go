package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
expectations:
  - name: create
    method: post
    url: https://host/endpoint
    request:
      json: {param: [1, 2]}
    response:
      status: 201
      json: {success: true}
  - method: get
    url: 'https://host/users/\d+'
    regex: true
    request:
      params: {verbose: "1"}
    response:
      text: user
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	jsonOutput = false
	logLevel = "error"
	logFormat = "text"
	listMethod = ""
	matchMethod = "GET"
	matchURL = ""
	matchParams, matchHeaders, matchCookies = nil, nil, nil
	matchJSON, matchData = "", ""
	matchForm = nil
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestLint(t *testing.T) {
	good := writeFixture(t, "good.yaml", fixtureYAML)
	bad := writeFixture(t, "bad.yaml", "expectations:\n  - method: brew\n    url: https://host/\n")

	out, err := runCLI(t, "lint", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    "+good+" (2 expectations)")

	out, err = runCLI(t, "lint", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 fixture files are invalid")
	assert.Contains(t, out, "FAIL  "+bad)
	assert.Contains(t, out, "expectations.0.method")

	out, err = runCLI(t, "lint", "--json", good)
	require.NoError(t, err)
	var results []lintResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Valid)
	assert.Equal(t, 2, results[0].Expectations)

	_, err = runCLI(t, "lint", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = runCLI(t, "lint")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	path := writeFixture(t, "fixture.yaml", fixtureYAML)

	out, err := runCLI(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "https://host/endpoint")
	assert.Contains(t, out, "pattern")
	assert.Contains(t, out, "201")

	out, err = runCLI(t, "list", "--json", "--method", "GET", path)
	require.NoError(t, err)
	var items []listItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "GET", items[0].Method)
	assert.True(t, items[0].Pattern)
	assert.Equal(t, path, items[0].Source)
	assert.Equal(t, 200, items[0].Status)
}

func TestMatch(t *testing.T) {
	path := writeFixture(t, "fixture.yaml", fixtureYAML)

	out, err := runCLI(t, "match", path, "--json", "-X", "post", "--url", "https://host/endpoint", "--json-body", `{"param": [1, 2]}`)
	require.NoError(t, err)
	var res matchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Matched)
	assert.Equal(t, 201, res.Status)
	assert.JSONEq(t, `{"success": true}`, res.Body)

	out, err = runCLI(t, "match", path, "--url", "https://host/users/42", "--param", "verbose=1")
	require.NoError(t, err)
	assert.Contains(t, out, "matched GET")
	assert.Contains(t, out, "body    user")
}

func TestMatch_FormData(t *testing.T) {
	path := writeFixture(t, "login.yaml", `
expectations:
  - method: post
    url: https://host/login
    request:
      data: {user: ann, scope: [read, write]}
    response:
      text: welcome
`)

	out, err := runCLI(t, "match", path, "-X", "post", "--url", "https://host/login",
		"--form", "user=ann", "--form", "scope=read", "--form", "scope=write")
	require.NoError(t, err)
	assert.Contains(t, out, "body    welcome")

	_, err = runCLI(t, "match", path, "-X", "post", "--url", "https://host/login", "--data", "user=ann&scope=read&scope=write")
	assert.ErrorIs(t, err, errNoMatch)

	_, err = runCLI(t, "match", path, "-X", "post", "--url", "https://host/login", "--form", "user=ann")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestMatch_NoMatch(t *testing.T) {
	path := writeFixture(t, "fixture.yaml", fixtureYAML)

	out, err := runCLI(t, "match", path, "--json", "-X", "post", "--url", "https://host/endpoint", "--json-body", `{"param": [3]}`)
	require.ErrorIs(t, err, errNoMatch)

	var res matchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Matched)
	require.NotEmpty(t, res.NearMisses)
	assert.Equal(t, "https://host/endpoint", res.NearMisses[0].Target)

	out, err = runCLI(t, "match", path, "-X", "post", "--url", "https://host/endpoint")
	require.ErrorIs(t, err, errNoMatch)
	assert.Contains(t, out, "no match for POST https://host/endpoint")
}

func TestMatch_InvalidFlags(t *testing.T) {
	path := writeFixture(t, "fixture.yaml", fixtureYAML)

	_, err := runCLI(t, "match", path, "--url", "https://host/", "--param", "novalue")
	assert.ErrorContains(t, err, "expected key=value")

	_, err = runCLI(t, "match", path, "--url", "https://host/", "--json-body", "{", "--data", "x")
	assert.ErrorContains(t, err, "cannot be used together")

	_, err = runCLI(t, "match", path, "--url", "https://host/", "--data", "x", "--form", "a=1")
	assert.ErrorContains(t, err, "cannot be used together")

	_, err = runCLI(t, "match", path, "--url", "https://host/", "--form", "=1")
	assert.ErrorContains(t, err, "--form")

	_, err = runCLI(t, "match", path, "--url", "https://host/", "--json-body", "{")
	assert.ErrorContains(t, err, "--json-body")

	_, err = runCLI(t, "match", path)
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := runCLI(t, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "httpstub fixture", doc["title"])
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
