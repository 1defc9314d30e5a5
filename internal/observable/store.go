// ABOUTME: In-memory observable value with ordered synchronous subscribers
// ABOUTME: Base for selection state and for storage-backed persisted stores

package observable

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type subscriber[T any] struct {
	id string
	fn func(T)
}

// Store is an observable value of type T.
type Store[T any] struct {
	// setMu serialises Set and Subscribe so each subscriber sees values in order.
	setMu sync.Mutex

	mu    sync.RWMutex
	value T
	subs  []subscriber[T]

	// afterSet runs after subscribers are notified, still under setMu.
	afterSet func(T)
}

// New creates a Store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies all subscribers before returning.
func (s *Store[T]) Set(value T) {
	s.setMu.Lock()
	defer s.setMu.Unlock()
	s.setLocked(value)
}

// Update replaces the value with fn applied to the current value.
func (s *Store[T]) Update(fn func(T) T) {
	s.setMu.Lock()
	defer s.setMu.Unlock()
	s.setLocked(fn(s.Get()))
}

func (s *Store[T]) setLocked(value T) {
	s.mu.Lock()
	s.value = value
	targets := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range targets {
		sub.fn(value)
	}

	if s.afterSet != nil {
		s.afterSet(value)
	}
}

// Subscribe registers fn and calls it immediately with the current value.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	id := uuid.NewString()

	s.mu.Lock()
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// SubscribeContext is Subscribe with automatic removal when ctx is done.
// Calling the returned function also stops the watcher goroutine.
func (s *Store[T]) SubscribeContext(ctx context.Context, fn func(T)) (unsubscribe func()) {
	remove := s.Subscribe(fn)
	done := make(chan struct{})

	var once sync.Once
	unsubscribe = func() {
		once.Do(func() {
			close(done)
			remove()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-done:
		}
	}()
	return unsubscribe
}

// SubscriberCount returns the number of active subscriptions.
func (s *Store[T]) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Store[T]) unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = slices.DeleteFunc(s.subs, func(sub subscriber[T]) bool {
		return sub.id == id
	})
}
