// ABOUTME: Observable value mirrored into a storage.Storage key as JSON
// ABOUTME: Seeds from storage once at construction, then writes through on every Set

package observable

import (
	"encoding/json"
	"log/slog"
	"reflect"

	"github.com/2389/nexus-client/internal/storage"
)

// Persisted is a Store whose value is mirrored into storage under a fixed key.
type Persisted[T any] struct {
	*Store[T]

	key     string
	storage storage.Storage
	logger  *slog.Logger
}

type persistConfig struct {
	storage storage.Storage
	logger  *slog.Logger
}

// PersistOption configures a Persisted store.
type PersistOption func(*persistConfig)

// WithStorage sets the storage medium. Without it the store is memory-only.
func WithStorage(s storage.Storage) PersistOption {
	return func(c *persistConfig) {
		c.storage = s
	}
}

// WithLogger sets the logger used to report storage failures.
func WithLogger(logger *slog.Logger) PersistOption {
	return func(c *persistConfig) {
		c.logger = logger
	}
}

// NewPersisted creates a store for key. When storage holds a decodable value
// at key it becomes the initial value, otherwise fallback is used.
func NewPersisted[T any](key string, fallback T, opts ...PersistOption) *Persisted[T] {
	cfg := persistConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	p := &Persisted[T]{
		key:     key,
		storage: cfg.storage,
		logger:  cfg.logger.With("component", "observable", "key", key),
	}

	p.Store = New(p.load(fallback))
	p.Store.afterSet = p.persist
	return p
}

// Key returns the storage key this store mirrors into.
func (p *Persisted[T]) Key() string {
	return p.key
}

func (p *Persisted[T]) load(fallback T) T {
	if p.storage == nil {
		return fallback
	}

	raw, ok, err := p.storage.Get(p.key)
	if err != nil {
		p.logger.Warn("reading persisted value", "error", err)
		return fallback
	}
	if !ok {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		p.logger.Warn("decoding persisted value", "error", err)
		return fallback
	}
	return value
}

func (p *Persisted[T]) persist(value T) {
	if p.storage == nil {
		return
	}

	if isNil(value) {
		if err := p.storage.Delete(p.key); err != nil {
			p.logger.Warn("removing persisted value", "error", err)
		}
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		p.logger.Warn("encoding persisted value", "error", err)
		return
	}
	if err := p.storage.Set(p.key, string(data)); err != nil {
		p.logger.Warn("writing persisted value", "error", err)
	}
}

// isNil reports whether v is a nil pointer, map, slice, interface, chan or func.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
