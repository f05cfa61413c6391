package stub

import "errors"

var (
	// ErrConfiguration is wrapped by errors caused by invalid test setup:
	// reserved attribute keys, uncompilable patterns and json options that
	// cannot be normalized.
	ErrConfiguration = errors.New("invalid stub configuration")

	// ErrSessionActive is returned when activating a mock that already has an active session.
	ErrSessionActive = errors.New("session already active")

	// ErrSessionInactive is returned when deactivating a mock without an active session.
	ErrSessionInactive = errors.New("no active session")
)
