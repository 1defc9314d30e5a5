// ABOUTME: Wire records exchanged with the NexusFest backend
// ABOUTME: Events, threads, entries, agents and users with opt-in structural validation

package api

import (
	"errors"
	"fmt"
)

// Event is a scheduled happening that groups discussion threads.
type Event struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Tags            *string `json:"tags"`
	MaxThreadAmount *int    `json:"max_thread_amount"`
	StartTime       int64   `json:"start_time"`
	EndTime         *int64  `json:"end_time"`
}

// Validate checks the fields every event must carry.
func (e Event) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("event: missing id")
	}
	if e.Title == "" {
		return fmt.Errorf("event %d: missing title", e.ID)
	}
	return nil
}

// EventWithThreads is the single-event view, including its threads.
type EventWithThreads struct {
	Event
	Threads []ThreadWithCount `json:"threads"`
}

// Validate checks the event and each of its threads.
func (e EventWithThreads) Validate() error {
	if err := e.Event.Validate(); err != nil {
		return err
	}
	return validateEach(e.Threads)
}

// Thread is a discussion inside an event.
type Thread struct {
	ID        int64  `json:"id"`
	EventID   int64  `json:"event_id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
}

// Validate checks the fields every thread must carry.
func (t Thread) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("thread: missing id")
	}
	if t.EventID <= 0 {
		return fmt.Errorf("thread %d: missing event_id", t.ID)
	}
	return nil
}

// ThreadWithCount is a thread annotated with its number of entries.
type ThreadWithCount struct {
	Thread
	EntryCount int `json:"entry_count"`
}

// Entry is a single post in a thread.
type Entry struct {
	ID        int64   `json:"id"`
	AgentID   int64   `json:"agent_id"`
	ThreadID  int64   `json:"thread_id"`
	Content   string  `json:"content"`
	Tags      *string `json:"tags"`
	Timestamp int64   `json:"timestamp"`
}

// Validate checks the fields every entry must carry.
func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("entry: missing id")
	}
	if e.ThreadID <= 0 {
		return fmt.Errorf("entry %d: missing thread_id", e.ID)
	}
	return nil
}

// EntryWithAgent is an entry joined with the agent that wrote it.
type EntryWithAgent struct {
	Entry
	Agent Agent `json:"agent"`
}

// Validate checks the entry and its agent.
func (e EntryWithAgent) Validate() error {
	if err := e.Entry.Validate(); err != nil {
		return err
	}
	return e.Agent.Validate()
}

// EntryPage is one page of a thread's entries in timestamp order.
type EntryPage struct {
	Items   []EntryWithAgent `json:"items"`
	HasMore bool             `json:"has_more"`
}

// Validate checks every entry on the page.
func (p EntryPage) Validate() error {
	return validateEach(p.Items)
}

// Agent is the public view of an agent. The secret is never returned.
type Agent struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Capabilities *string `json:"capabilities"`
}

// Validate checks the fields every agent must carry.
func (a Agent) Validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("agent: missing id")
	}
	if a.Name == "" {
		return fmt.Errorf("agent %d: missing name", a.ID)
	}
	return nil
}

// User is an authenticated account and its API key.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
	APIKey    string `json:"api_key"`
}

// ErrIncompleteUser is returned for a user record missing required fields.
var ErrIncompleteUser = errors.New("incomplete user record")

// Validate reports whether the user is fully populated.
func (u User) Validate() error {
	switch {
	case u.ID <= 0:
		return fmt.Errorf("%w: missing id", ErrIncompleteUser)
	case u.Username == "":
		return fmt.Errorf("%w: missing username", ErrIncompleteUser)
	case u.Email == "":
		return fmt.Errorf("%w: missing email", ErrIncompleteUser)
	case u.APIKey == "":
		return fmt.Errorf("%w: missing api_key", ErrIncompleteUser)
	}
	return nil
}

type validator interface {
	Validate() error
}

func validateEach[T validator](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Request bodies.

type createThreadRequest struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
}

type createEntryRequest struct {
	ThreadID    string  `json:"thread_id"`
	AgentID     *int64  `json:"agent_id"`
	AgentSecret *string `json:"agent_secret"`
	Content     string  `json:"content"`
}

type publicAgentRequest struct {
	AgentName string `json:"agent_name"`
}

type privateAgentRequest struct {
	AgentName   string `json:"agent_name"`
	AgentSecret string `json:"agent_secret"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
