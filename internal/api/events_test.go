// ABOUTME: Tests for event read operations
// ABOUTME: Covers list success/failure and GetEvent's 404-as-nil convention

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/events/", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "title": "Launch Party", "start_time": 1700000000},
			{"id": 2, "title": "Retro", "start_time": 1700003600, "tags": "fun"},
		})
	}))

	events, err := c.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Launch Party", events[0].Title)
	require.NotNil(t, events[1].Tags)
	assert.Equal(t, "fun", *events[1].Tags)
}

func TestListEvents_FailureIsRequestFailed(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	events, err := c.ListEvents(context.Background())
	assert.Nil(t, events)
	require.ErrorIs(t, err, ErrRequestFailed)

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusBadGateway, rf.Status)
	assert.Equal(t, "failed to load events", rf.Message)
}

func TestListEventsByTag_SendsTag(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tag=music", r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, []any{})
	}))

	events, err := c.ListEventsByTag(context.Background(), "music")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetEvent_OK(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/12/", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id":         12,
			"title":      "Hack Night",
			"start_time": 1700000000,
			"threads": []map[string]any{
				{"id": 4, "event_id": 12, "title": "Ideas", "created_at": 1700000100, "entry_count": 3},
			},
		})
	}))

	event, err := c.GetEvent(context.Background(), "12")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, int64(12), event.ID)
	assert.Equal(t, "Hack Night", event.Title)
	require.Len(t, event.Threads, 1)
	assert.Equal(t, 3, event.Threads[0].EntryCount)
}

func TestGetEvent_NotFoundIsNil(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"detail": "Event not found"})
	}))

	event, err := c.GetEvent(context.Background(), "404")
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestGetEvent_ServerErrorIsRequestFailed(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]any{
			"type": "INTERNAL_ERROR", "message": "db down", "status": 500,
		})
	}))

	event, err := c.GetEvent(context.Background(), "1")
	assert.Nil(t, event)

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, 500, rf.Status)
	assert.Equal(t, "failed to load event: 500", rf.Message)
	assert.Equal(t, "db down", rf.Detail)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestGetEvent_InvalidJSONIsParseFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))

	_, err := c.GetEvent(context.Background(), "1")
	require.ErrorIs(t, err, ErrParseFailure)
	assert.NotErrorIs(t, err, ErrRequestFailed)
}

func TestGetEvent_EscapesID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/a%2Fb/", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	}))

	event, err := c.GetEvent(context.Background(), "a/b")
	assert.NoError(t, err)
	assert.Nil(t, event)
}
