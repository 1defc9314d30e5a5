// ABOUTME: Tests for the Storage implementations
// ABOUTME: Runs the same contract against SQLite (file and :memory:) and MemoryStorage

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations(t *testing.T) map[string]func(t *testing.T) Storage {
	t.Helper()
	return map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage {
			return NewMemoryStorage()
		},
		"sqlite-memory": func(t *testing.T) Storage {
			s, err := NewSQLiteStorage(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"sqlite-file": func(t *testing.T) Storage {
			s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "state.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStorage_GetMissingKey(t *testing.T) {
	for name, open := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			value, ok, err := s.Get("absent")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, value)
		})
	}
}

func TestStorage_SetGetOverwrite(t *testing.T) {
	for name, open := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			require.NoError(t, s.Set("nexus_user", `{"id":1}`))
			value, ok, err := s.Get("nexus_user")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"id":1}`, value)

			require.NoError(t, s.Set("nexus_user", `{"id":2}`))
			value, _, err = s.Get("nexus_user")
			require.NoError(t, err)
			assert.Equal(t, `{"id":2}`, value)
		})
	}
}

func TestStorage_Delete(t *testing.T) {
	for name, open := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			require.NoError(t, s.Set("k", "v"))
			require.NoError(t, s.Delete("k"))

			_, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting again is a no-op.
			require.NoError(t, s.Delete("k"))
		})
	}
}

func TestStorage_ClosedReturnsErrClosed(t *testing.T) {
	for name, open := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			require.NoError(t, s.Close())

			_, _, err := s.Get("k")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Set("k", "v"), ErrClosed)
			assert.ErrorIs(t, s.Delete("k"), ErrClosed)
		})
	}
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("nexus_user", `{"username":"chillie"}`))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("nexus_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"username":"chillie"}`, value)
}

func TestDefaultPath_UsesXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	assert.Equal(t, filepath.Join("/tmp/xdg-state", "nexus", "state.db"), DefaultPath())
}
