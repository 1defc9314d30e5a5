// Package storage provides the persistent key-value medium behind persisted
// client state.
//
// # Overview
//
// Storage mirrors the shape of a browser's localStorage: string keys map to
// string values, values are replaced wholesale, and removal deletes the key
// entirely. Persisted observable stores write their JSON-encoded value here on
// every change and read it back once at construction.
//
// Two implementations are provided:
//
//   - SQLiteStorage: file-backed storage using modernc.org/sqlite
//   - MemoryStorage: in-process map, used by tests and ephemeral sessions
//
// # SQLite Configuration
//
// The SQLite database uses WAL mode and a single table:
//
//	CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TEXT NOT NULL);
//
// Default file location is $XDG_STATE_HOME/nexus/state.db, falling back to
// ~/.local/state/nexus/state.db. Use ":memory:" for a throwaway database.
//
// # Error Handling
//
// A missing key is not an error: Get reports it through its ok result.
// Operations on a closed storage return ErrClosed.
package storage
