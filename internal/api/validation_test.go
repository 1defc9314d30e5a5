// ABOUTME: Tests for opt-in response validation and error shapes
// ABOUTME: Default decoding trusts the server; WithValidation rejects incomplete records

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incompleteEventsHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{{"id": 1}})
	})
}

func TestValidation_OffByDefault(t *testing.T) {
	c := newTestClient(t, incompleteEventsHandler(t))

	events, err := c.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestValidation_RejectsIncompleteRecords(t *testing.T) {
	c := newTestClient(t, incompleteEventsHandler(t), WithValidation())

	_, err := c.ListEvents(context.Background())
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Contains(t, err.Error(), "missing title")
}

func TestValidation_AppliesToSuccessfulRepliesOnly(t *testing.T) {
	status := http.StatusOK
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, status, map[string]string{"detail": "nope"})
	}), WithValidation())

	_, err := c.SecurePublicAgent(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	status = http.StatusConflict
	reply, err := c.SecurePublicAgent(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "nope", reply.Problem().Message)
}

func TestValidation_NestedThreads(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id": 1, "title": "ok", "start_time": 1,
			"threads": []map[string]any{{"id": 2, "title": "orphan"}},
		})
	}), WithValidation())

	_, err := c.GetEvent(context.Background(), "1")
	require.ErrorIs(t, err, ErrInvalidPayload)
	assert.Contains(t, err.Error(), "missing event_id")
}

func TestUserValidate(t *testing.T) {
	full := User{ID: 1, Username: "fry", Email: "f@pe.com", CreatedAt: 1, APIKey: "k"}
	assert.NoError(t, full.Validate())

	partial := full
	partial.APIKey = ""
	assert.ErrorIs(t, partial.Validate(), ErrIncompleteUser)
}

func TestParseProblem(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *Problem
	}{
		{"error payload", `{"type":"NOT_FOUND","message":"gone","status":404}`, &Problem{Type: "NOT_FOUND", Message: "gone", Status: 404}},
		{"string detail", `{"detail":"Event not found"}`, &Problem{Message: "Event not found"}},
		{"list detail", `{"detail":[{"msg":"field required"}]}`, &Problem{Message: `[{"msg":"field required"}]`}},
		{"null detail", `{"detail":null}`, nil},
		{"unrelated object", `{"id":3}`, nil},
		{"array", `[1,2]`, nil},
		{"not json", `oops`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseProblem([]byte(tt.body)))
		})
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	var err error = &RequestFailedError{Op: "list_events", Status: 500, Message: "failed to load events"}
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Equal(t, "list_events: failed to load events (HTTP 500)", err.Error())

	err = &ParseError{Op: "get_event", Status: 200, Err: errors.New("bad")}
	assert.True(t, errors.Is(err, ErrParseFailure))

	err = &ValidationError{Op: "list_events", Err: errors.New("item 0: event: missing id")}
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}
