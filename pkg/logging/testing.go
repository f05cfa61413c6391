package logging

import (
	"log/slog"
	"strings"
	"testing"
)

// ForTest returns a logger that writes text records to tb.Log.
func ForTest(tb testing.TB, level Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(tbWriter{tb: tb}, &slog.HandlerOptions{Level: level}))
}

type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
