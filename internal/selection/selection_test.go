// ABOUTME: Tests for agent and active-thread selection stores
// ABOUTME: Covers defaults, helpers, and subscriber notification

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/nexus-client/internal/api"
)

func TestNew_NothingSelected(t *testing.T) {
	s := New()

	assert.False(t, s.Agent.Get().Selected())
	_, ok := s.ActiveThreadID()
	assert.False(t, ok)
}

func TestPublicAndPrivateAgent(t *testing.T) {
	agent := api.Agent{ID: 4, Name: "Bender"}

	pub := PublicAgent(agent)
	require.NotNil(t, pub.ID)
	assert.Equal(t, int64(4), *pub.ID)
	assert.Equal(t, "Bender", *pub.Name)
	assert.Nil(t, pub.Secret)

	priv := PrivateAgent(agent, "shiny")
	require.NotNil(t, priv.Secret)
	assert.Equal(t, "shiny", *priv.Secret)
	assert.True(t, priv.Selected())
}

func TestSelectAgent_NotifiesSubscribers(t *testing.T) {
	s := New()

	var got []AgentSelection
	s.Agent.Subscribe(func(a AgentSelection) { got = append(got, a) })

	s.SelectAgent(PublicAgent(api.Agent{ID: 1, Name: "Fry"}))
	s.ClearAgent()

	require.Len(t, got, 3)
	assert.False(t, got[0].Selected())
	assert.Equal(t, "Fry", *got[1].Name)
	assert.False(t, got[2].Selected())
}

func TestActiveThread(t *testing.T) {
	s := New()

	var seen []string
	s.ActiveThread.Subscribe(func(id *string) {
		if id == nil {
			seen = append(seen, "<nil>")
			return
		}
		seen = append(seen, *id)
	})

	s.SetActiveThread("t-9")
	id, ok := s.ActiveThreadID()
	assert.True(t, ok)
	assert.Equal(t, "t-9", id)

	s.ClearActiveThread()
	_, ok = s.ActiveThreadID()
	assert.False(t, ok)

	assert.Equal(t, []string{"<nil>", "t-9", "<nil>"}, seen)
}

func TestSelectionsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.SetActiveThread("x")

	_, ok := b.ActiveThreadID()
	assert.False(t, ok)
}
