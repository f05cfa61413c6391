// Package cli implements the httpstub command: offline tooling for
// expectation fixtures.
//
// Commands:
//   - lint: check fixture files against the schema and load them
//   - schema: print the fixture JSON Schema
//   - list: show the expectations fixtures register
//   - match: replay one call against fixtures and show the verdict
//
// Every command accepts --json for machine-readable output on stdout.
package cli
