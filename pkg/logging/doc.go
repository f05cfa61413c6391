// Package logging provides structured logging configuration for httpstub.
//
// This package wraps log/slog so that the client, the stub registry and the
// CLI log the same way. Components accept a *slog.Logger in their config; a
// nil logger means Nop().
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//
//	logger.Debug("stub matched", "method", "get", "url", target)
//
// Inside tests, ForTest routes records to t.Log so that unmatched requests
// and near misses show up next to the failing assertion:
//
//	logger := logging.ForTest(t, logging.LevelDebug)
//
// # Environment
//
// The CLI takes its --log-level and --log-format defaults from
// HTTPSTUB_LOG_LEVEL (debug, info, warn, error) and HTTPSTUB_LOG_FORMAT
// (text, json).
package logging
