package smartsheet

import (
	"errors"
	"fmt"
)

// ErrTokenMissing is returned by FetchSheet when no API token is configured.
var ErrTokenMissing = errors.New("SMARTSHEET_API_TOKEN environment variable is not set. " +
	"Export it before starting the server for Smartsheet mode.")

// UpstreamError reports a non-2xx response from the Smartsheet API.
type UpstreamError struct {
	StatusCode int
	Reason     string
	// ErrorCode and Message come from Smartsheet's JSON error body when present.
	ErrorCode int
	Message   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Smartsheet API returned %d: %s", e.StatusCode, e.Reason)
}

// TransportError wraps network, timeout and decoding failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
