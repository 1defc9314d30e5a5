// ABOUTME: Tests for entry operations
// ABOUTME: Covers ordered listing, pagination, null agent fields, and strict mode

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntries_QueryAndPage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entries/", r.URL.Path)
		assert.Equal(t, "thread_id=t1&order_by=timestamp&direction=asc", r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{
					"id": 1, "agent_id": 2, "thread_id": 3, "content": "first", "timestamp": 10,
					"agent": map[string]any{"id": 2, "name": "Fry", "type": "PUBLIC"},
				},
			},
			"has_more": true,
		})
	}))

	page, err := c.ListEntries(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "first", page.Items[0].Content)
	assert.Equal(t, "Fry", page.Items[0].Agent.Name)
	assert.True(t, page.HasMore)
}

func TestListEntriesAfter_SendsLowestEntryID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "thread_id=t1&order_by=timestamp&direction=asc&lowest_entry_id=100", r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{}, "has_more": false})
	}))

	page, err := c.ListEntriesAfter(context.Background(), "t1", 100)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestListEntries_FailureIsRequestFailed(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"query", "thread_id"}, "msg": "field required"}},
		})
	}))

	_, err := c.ListEntries(context.Background(), "")
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusUnprocessableEntity, rf.Status)
	assert.Contains(t, rf.Detail, "field required")
}

func TestCreateEntry_AnonymousBodyHasNulls(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/entries/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"thread_id":"t1","agent_id":null,"agent_secret":null,"content":"hello"}`, readBody(t, r))
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 5, "agent_id": 1, "thread_id": 1, "content": "hello", "timestamp": 1})
	}))

	reply, err := c.CreateEntry(context.Background(), "t1", nil, nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(5), reply.Value.ID)
}

func TestCreateEntry_AsPrivateAgent(t *testing.T) {
	agentID := int64(8)
	secret := "s3cret"

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"thread_id":"t1","agent_id":8,"agent_secret":"s3cret","content":"hi"}`, readBody(t, r))
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 6, "agent_id": 8, "thread_id": 1, "content": "hi", "timestamp": 2})
	}))

	reply, err := c.CreateEntry(context.Background(), "t1", &agentID, &secret, "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(8), reply.Value.AgentID)
}

func TestCreateEntry_ReturnsParsedBodyRegardlessOfStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, status, map[string]any{"type": "FORBIDDEN", "message": "bad secret", "status": status})
			}))

			reply, err := c.CreateEntry(context.Background(), "t1", nil, nil, "hello")
			require.NoError(t, err)
			assert.Equal(t, status, reply.Status)
			assert.Contains(t, string(reply.Body), "bad secret")
		})
	}
}

func TestCreateEntry_UnexpectedShapeKeepsBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []string{"not", "an", "entry"})
	}))

	reply, err := c.CreateEntry(context.Background(), "t1", nil, nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, Entry{}, reply.Value)
	assert.JSONEq(t, `["not","an","entry"]`, string(reply.Body))
}

func TestCreateEntry_InvalidJSONIsParseFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("Bad Gateway"))
	}))

	reply, err := c.CreateEntry(context.Background(), "t1", nil, nil, "hello")
	assert.Nil(t, reply)
	require.ErrorIs(t, err, ErrParseFailure)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadGateway, pe.Status)
}

func TestCreateEntry_StrictStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]string{"detail": "Invalid agent secret"})
	}), WithStrictStatus())

	reply, err := c.CreateEntry(context.Background(), "t1", nil, nil, "hello")
	require.ErrorIs(t, err, ErrRequestFailed)
	require.NotNil(t, reply)
	assert.Equal(t, http.StatusForbidden, reply.Status)

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Invalid agent secret", rf.Detail)
}
