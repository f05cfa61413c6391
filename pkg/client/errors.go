package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConnection is matched by errors that occur before a response was obtained.
	ErrConnection = errors.New("connection failed")

	// ErrInvalidOption is returned when request options cannot be turned into a request.
	ErrInvalidOption = errors.New("invalid request option")
)

// ConnectionError reports a failure to obtain a response from the network.
type ConnectionError struct {
	Method string
	URL    string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, ErrConnection, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConnection) hold for every ConnectionError.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// ResponseError is returned by RaiseForStatus for responses with status >= 400.
type ResponseError struct {
	Status int
	URL    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%d %s for url %s", e.Status, http.StatusText(e.Status), e.URL)
}

// IsOK reports whether status is a non-error HTTP status.
func IsOK(status int) bool {
	return status < http.StatusBadRequest
}

// CheckStatus returns a *ResponseError when status is an error status.
func CheckStatus(status int, url string) error {
	if IsOK(status) {
		return nil
	}
	return &ResponseError{Status: status, URL: url}
}
