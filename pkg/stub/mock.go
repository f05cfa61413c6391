package stub

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/getmockd/httpstub/internal/storage"
	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/requestlog"
)

// Mock is the expectation registry and dispatcher. It intercepts at most
// one client at a time.
type Mock struct {
	cfg     *config
	logger  *slog.Logger
	entries *storage.MemoryStore[*Entry]
	calls   *requestlog.MemoryStore

	mu      sync.Mutex
	session *session
}

// session holds what Deactivate must put back.
type session struct {
	snapshot *storage.Snapshot[*Entry]

	client *client.Client
	real   client.Transport

	httpClient *http.Client
	realRT     http.RoundTripper
}

// New creates a Mock.
func New(opts ...Option) *Mock {
	cfg := newConfig(opts...)
	return &Mock{
		cfg:     cfg,
		logger:  cfg.logger.With("component", "stub"),
		entries: storage.NewMemoryStore[*Entry](),
		calls:   requestlog.NewMemoryStore(cfg.maxLogEntries),
	}
}

// Calls returns the recorded calls, oldest first, optionally filtered.
func (m *Mock) Calls(filter *requestlog.Filter) []*requestlog.Entry {
	return m.calls.List(filter)
}

// CallLog returns the underlying call log.
func (m *Mock) CallLog() requestlog.Store {
	return m.calls
}
