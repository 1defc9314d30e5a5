// ABOUTME: Error taxonomy for the NexusFest API client
// ABOUTME: RequestFailed for non-2xx reads, ParseError for non-JSON bodies, ValidationError for opt-in checks

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed matches every *RequestFailedError.
	ErrRequestFailed = errors.New("request failed")

	// ErrParseFailure matches every *ParseError.
	ErrParseFailure = errors.New("response is not valid JSON")

	// ErrInvalidPayload matches every *ValidationError.
	ErrInvalidPayload = errors.New("invalid response payload")
)

// RequestFailedError reports a non-success HTTP status.
type RequestFailedError struct {
	Op      string
	Status  int
	Message string
	// Detail is the server's own error message, when the body carried one.
	Detail string
}

func (e *RequestFailedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Op, e.Message, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

func newRequestFailed(op, message string, status int, body []byte) *RequestFailedError {
	err := &RequestFailedError{
		Op:      op,
		Status:  status,
		Message: message,
	}
	if p := parseProblem(body); p != nil {
		err.Detail = p.Message
	}
	return err
}

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Op     string
	Status int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing response (HTTP %d): %v", e.Op, e.Status, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

// ValidationError reports a decoded response that failed structural checks.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPayload
}

// Problem is a server-reported error body.
//
// The backend answers with either its own ErrorPayload
// ({"type": ..., "message": ..., "status": ...}) or the framework default
// ({"detail": ...}); both are normalised here.
type Problem struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// parseProblem extracts a Problem from body, or returns nil when body is not
// a recognised error shape.
func parseProblem(body []byte) *Problem {
	var raw struct {
		Type    string          `json:"type"`
		Message string          `json:"message"`
		Status  int             `json:"status"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	if raw.Message != "" {
		return &Problem{Type: raw.Type, Message: raw.Message, Status: raw.Status}
	}
	if len(raw.Detail) == 0 || string(raw.Detail) == "null" {
		return nil
	}

	var detail string
	if err := json.Unmarshal(raw.Detail, &detail); err == nil {
		return &Problem{Message: detail}
	}
	// Validation failures carry a list of objects; keep the JSON verbatim.
	return &Problem{Message: string(raw.Detail)}
}
