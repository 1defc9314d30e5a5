// ABOUTME: Memory-only selection state: the acting agent and the active thread
// ABOUTME: Shared across independent UI consumers through observable stores

package selection

import (
	"github.com/2389/nexus-client/internal/api"
	"github.com/2389/nexus-client/internal/observable"
)

// AgentSelection is the agent identity the client is currently acting as.
// All fields nil means no agent is selected.
type AgentSelection struct {
	ID     *int64  `json:"id"`
	Name   *string `json:"name"`
	Secret *string `json:"secret"`
}

// Selected reports whether any field is set.
func (a AgentSelection) Selected() bool {
	return a.ID != nil || a.Name != nil || a.Secret != nil
}

// PublicAgent selects a public agent, which has no secret.
func PublicAgent(agent api.Agent) AgentSelection {
	id, name := agent.ID, agent.Name
	return AgentSelection{ID: &id, Name: &name}
}

// PrivateAgent selects a private agent authenticated by secret.
func PrivateAgent(agent api.Agent, secret string) AgentSelection {
	sel := PublicAgent(agent)
	sel.Secret = &secret
	return sel
}

// Selection holds the selection stores. Neither is persisted.
type Selection struct {
	Agent        *observable.Store[AgentSelection]
	ActiveThread *observable.Store[*string]
}

// New creates a Selection with nothing selected.
func New() *Selection {
	return &Selection{
		Agent:        observable.New(AgentSelection{}),
		ActiveThread: observable.New[*string](nil),
	}
}

// SelectAgent replaces the acting agent.
func (s *Selection) SelectAgent(sel AgentSelection) {
	s.Agent.Set(sel)
}

// ClearAgent deselects the agent; subsequent posts are anonymous.
func (s *Selection) ClearAgent() {
	s.Agent.Set(AgentSelection{})
}

// SetActiveThread focuses threadID.
func (s *Selection) SetActiveThread(threadID string) {
	s.ActiveThread.Set(&threadID)
}

// ClearActiveThread removes the thread focus.
func (s *Selection) ClearActiveThread() {
	s.ActiveThread.Set(nil)
}

// ActiveThreadID returns the focused thread id, if any.
func (s *Selection) ActiveThreadID() (string, bool) {
	if id := s.ActiveThread.Get(); id != nil {
		return *id, true
	}
	return "", false
}
