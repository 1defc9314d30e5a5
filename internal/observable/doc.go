// Package observable provides shared values that notify subscribers on change,
// optionally mirrored into persistent storage.
//
// # Overview
//
// Store holds a single value of type T. Any number of independent consumers
// can read it, replace it, and subscribe to it:
//
//	s := observable.New[*string](nil)
//	unsubscribe := s.Subscribe(func(v *string) { ... }) // called now with nil
//	s.Set(&id)                                          // called again with &id
//	unsubscribe()
//
// Persisted wraps a Store and mirrors every change into a storage.Storage
// under a fixed key. It seeds its initial value from that key once, at
// construction; afterwards memory is authoritative and storage is a mirror.
//
//	user := observable.NewPersisted[*User]("nexus_user", nil,
//		observable.WithStorage(kv))
//
// Without WithStorage a Persisted store behaves exactly like a Store, which
// lets the same code run with and without a storage medium.
//
// # Ordering
//
// Set updates the value, calls every subscriber in subscription order, and
// (for Persisted) writes storage before returning. Concurrent Set calls are
// serialised per store. Callbacks run outside the value lock and may call
// Get or unsubscribe, but must not call Set or Subscribe on the store that
// invoked them.
//
// # Persistence Format
//
// Values are JSON-encoded. A nil value (nil pointer, map, slice or interface)
// removes the key instead of storing a literal "null".
package observable
