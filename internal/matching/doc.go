// Package matching provides the comparison helpers used by the stub registry.
//
// Expectations are matched by exact equality of normalized request options.
// This package supplies the pieces around that rule:
//
//   - Value helpers: nil detection for typed nils and deep option equality
//   - Near-miss diagnostics: per-field breakdowns of why an expectation did
//     not answer a call, ranked by partial score
//   - JSONPath helpers: lookups and conditions over decoded JSON values,
//     used by test assertions
//
// Score constants are defined in scores.go.
package matching
