// ABOUTME: Reply wraps the unchecked response of a mutating operation
// ABOUTME: Carries status, raw JSON body and a best-effort typed decoding

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Reply is the result of a mutating operation: whatever JSON the server
// returned, regardless of status.
type Reply[T any] struct {
	Status int
	Body   json.RawMessage

	// Value is Body decoded as T. It is the zero value when Body does not
	// have T's shape (for example a JSON array where an object was expected).
	Value T
}

// OK reports whether the status was 2xx.
func (r *Reply[T]) OK() bool {
	return isSuccess(r.Status)
}

// Problem decodes a server error body. It returns nil for successful
// replies and for bodies that are not a recognised error shape.
func (r *Reply[T]) Problem() *Problem {
	if r.OK() {
		return nil
	}
	return parseProblem(r.Body)
}

// Err returns nil for a 2xx reply and a *RequestFailedError otherwise.
func (r *Reply[T]) Err(op, message string) error {
	if r.OK() {
		return nil
	}
	return newRequestFailed(op, message, r.Status, r.Body)
}

// post sends payload as JSON and returns the parsed reply without checking
// the status, unless the client is strict.
func post[T any](ctx context.Context, c *Client, op, rawURL string, header http.Header, payload any) (*Reply[T], error) {
	status, data, err := c.send(ctx, op, http.MethodPost, rawURL, header, payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, &ParseError{Op: op, Status: status, Err: errInvalidJSON(data)}
	}

	reply := &Reply[T]{
		Status: status,
		Body:   json.RawMessage(data),
	}
	if err := json.Unmarshal(data, &reply.Value); err != nil {
		var zero T
		reply.Value = zero
		c.logger.Debug("reply does not match expected shape", "op", op, "status", status, "error", err)
	}

	if c.strict && !reply.OK() {
		return reply, newRequestFailed(op, "request rejected", status, data)
	}
	if reply.OK() {
		if err := c.check(op, &reply.Value); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

// errInvalidJSON returns the decoder's complaint about data.
func errInvalidJSON(data []byte) error {
	var v json.RawMessage
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}
