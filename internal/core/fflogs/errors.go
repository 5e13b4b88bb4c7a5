package fflogs

import (
	"fmt"
	"strings"
)

// TransportError reports a failure to reach the API or read its response.
type TransportError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("fflogs %s: status %d: %v", e.Query, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("fflogs %s: unexpected status %d", e.Query, e.StatusCode)
	}
	return fmt.Sprintf("fflogs %s: %v", e.Query, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError carries the errors reported by the API for a query.
type APIError struct {
	Query    string
	Messages []string
}

func (e *APIError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// ProtocolViolationError reports a successful response missing required data.
type ProtocolViolationError struct {
	Query  string
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("fflogs %s: protocol violation: %s", e.Query, e.Reason)
}

func violation(query, reason string) error {
	return &ProtocolViolationError{Query: query, Reason: reason}
}
