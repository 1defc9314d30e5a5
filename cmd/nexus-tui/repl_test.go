// ABOUTME: Tests for the nexus-tui REPL driven by scripted input
// ABOUTME: Uses a fake backend and in-memory state with color disabled

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/nexus-client/internal/app"
	"github.com/2389/nexus-client/internal/config"
	"github.com/2389/nexus-client/internal/selection"
	"github.com/2389/nexus-client/internal/storage"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fakeBackend struct {
	mu      sync.Mutex
	posted  []map[string]any
	queries []string
}

func (fb *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{$}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `[{"id":7,"title":"Launch Party","description":null,"tags":null,"max_thread_amount":null,"start_time":0,"end_time":null}]`)
	})
	mux.HandleFunc("GET /events/{id}/", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusNotFound, `{"detail":"Event not found"}`)
	})
	mux.HandleFunc("GET /threads/", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `[{"id":12,"event_id":7,"title":"Snack table","created_at":0,"entry_count":1}]`)
	})
	mux.HandleFunc("GET /entries/", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.queries = append(fb.queries, r.URL.RawQuery)
		fb.mu.Unlock()
		if r.URL.Query().Get("lowest_entry_id") != "" {
			reply(w, http.StatusOK, `{"items":[],"has_more":false}`)
			return
		}
		reply(w, http.StatusOK, `{"items":[{"id":3,"agent_id":5,"thread_id":12,"content":"Chips are **here**","tags":null,"timestamp":0,
			"agent":{"id":5,"name":"Leela","type":"public","capabilities":null}}],"has_more":true}`)
	})
	mux.HandleFunc("POST /entries/", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		fb.mu.Lock()
		fb.posted = append(fb.posted, body)
		fb.mu.Unlock()
		reply(w, http.StatusOK, `{"id":4,"agent_id":5,"thread_id":12,"content":"hi","tags":null,"timestamp":0}`)
	})
	mux.HandleFunc("POST /agents/secure_public_agent", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"id":5,"name":"Leela","type":"public","capabilities":null}`)
	})
	mux.HandleFunc("POST /api/forge/auth/login", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"id":1,"username":"fry","email":"fry@planex.com","created_at":0,"api_key":"key-1"}`)
	})
	mux.HandleFunc("POST /api/forge/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// runScript feeds lines to a REPL wired to a fresh fake backend.
func runScript(t *testing.T, lines ...string) (string, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL

	var out bytes.Buffer
	r := newREPL(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	a, err := app.New(cfg, app.WithStorage(storage.NewMemoryStorage()), app.WithNavigator(r))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	r.attach(a)

	require.NoError(t, r.run(context.Background()))
	return out.String(), fb
}

func TestREPL_Browse(t *testing.T) {
	out, _ := runScript(t, "/events", "/threads 7", "/event 99")

	assert.Contains(t, out, "7: Launch Party")
	assert.Contains(t, out, "Snack table")
	assert.Contains(t, out, "1 entries")
	assert.Contains(t, out, "Event 99 not found")
}

func TestREPL_PostRequiresThread(t *testing.T) {
	out, fb := runScript(t, "hello")

	assert.Contains(t, out, "[error] no active thread")
	assert.Empty(t, fb.posted)
}

func TestREPL_UseAgentAndPost(t *testing.T) {
	out, fb := runScript(t,
		"/use 12",
		"/agent public Leela",
		"hello **world**",
		"/agent",
		"anonymous now",
	)

	assert.Contains(t, out, "Chips are here")
	assert.Contains(t, out, "more entries available")
	assert.Contains(t, out, "Now posting as Leela (public agent)")
	assert.Contains(t, out, "[Leela #12]> ")
	assert.Contains(t, out, "posted #4")
	assert.Contains(t, out, "Posting anonymously")

	require.Len(t, fb.posted, 2)
	assert.Equal(t, "12", fb.posted[0]["thread_id"])
	assert.Equal(t, float64(5), fb.posted[0]["agent_id"])
	assert.Equal(t, "hello **world**", fb.posted[0]["content"])
	assert.Nil(t, fb.posted[1]["agent_id"])
}

func TestREPL_MoreUsesLastShownEntry(t *testing.T) {
	out, fb := runScript(t, "/use 12", "/more")

	assert.Contains(t, out, "No entries")
	require.Len(t, fb.queries, 2)
	assert.Contains(t, fb.queries[1], "lowest_entry_id=3")
}

func TestREPL_LoginLogout(t *testing.T) {
	out, _ := runScript(t, "/whoami", "/login fry secret", "/whoami", "/logout", "/whoami")

	assert.Contains(t, out, "Signed in as fry")
	assert.Contains(t, out, "fry <fry@planex.com> (user 1)")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "/forge/login")
	assert.Equal(t, 2, strings.Count(out, "Not signed in"))
}

func TestREPL_UnknownAndUsage(t *testing.T) {
	out, _ := runScript(t, "/dance", "/event", "/agent private onlyname", "/quit", "/events")

	assert.Contains(t, out, "unknown command /dance")
	assert.Contains(t, out, "usage: /event <event-id>")
	assert.Contains(t, out, "usage: /agent")
	assert.NotContains(t, out, "Launch Party", "nothing runs after /quit")
}

func TestREPL_AnnouncesAgentWithoutName(t *testing.T) {
	var out bytes.Buffer
	r := newREPL(strings.NewReader(""), &out)
	a, err := app.New(config.Default(), app.WithStorage(storage.NewMemoryStorage()), app.WithNavigator(r))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	r.attach(a)
	t.Cleanup(r.detach)

	id := int64(5)
	require.NotPanics(t, func() {
		a.Selection.SelectAgent(selection.AgentSelection{ID: &id})
	})
	assert.Contains(t, out.String(), "Now posting as unnamed (public agent)")
	assert.Equal(t, "> ", r.prompt())
}
