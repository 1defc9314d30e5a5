// ABOUTME: Storage interface for the persistent key-value medium
// ABOUTME: Shared by the SQLite and in-memory implementations

package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrClosed is returned when a storage is used after Close.
var ErrClosed = errors.New("storage closed")

// Storage is a string key-value medium with localStorage semantics.
type Storage interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value at key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	Close() error
}

// DefaultPath returns the default location of the client state database.
// Priority: XDG_STATE_HOME/nexus > ~/.local/state/nexus
func DefaultPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "state.db"
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, "nexus", "state.db")
}
