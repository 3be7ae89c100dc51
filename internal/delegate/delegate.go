// Package delegate provides ordered multicast callback lists.
//
// A Multicast holds callbacks in registration order. Each registration
// returns a Handle for removal, and may name an owner so a subscriber can
// drop all of its callbacks at once when it goes away.
package delegate

import (
	"slices"
	"sync"
)

// Handle identifies one registration.
type Handle uint64

// InvalidHandle is never returned by Add.
const InvalidHandle Handle = 0

type binding[T any] struct {
	handle Handle
	owner  any
	fn     func(T)
}

// Multicast is an ordered list of callbacks taking a T.
// The zero value is ready to use.
type Multicast[T any] struct {
	mu       sync.Mutex
	bindings []binding[T]
	nextID   Handle
}

// Add registers fn under owner and returns its handle. Owner may be nil;
// it must be comparable if RemoveAll is used with it.
func (m *Multicast[T]) Add(owner any, fn func(T)) Handle {
	if fn == nil {
		return InvalidHandle
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.bindings = append(m.bindings, binding[T]{handle: m.nextID, owner: owner, fn: fn})
	return m.nextID
}

// Remove unregisters one callback. It returns false if h is unknown.
func (m *Multicast[T]) Remove(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.bindings, func(b binding[T]) bool { return b.handle == h })
	if i < 0 {
		return false
	}
	m.bindings = slices.Delete(m.bindings, i, i+1)
	return true
}

// RemoveAll unregisters every callback added under owner and returns how
// many were removed.
func (m *Multicast[T]) RemoveAll(owner any) int {
	if owner == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.bindings)
	m.bindings = slices.DeleteFunc(m.bindings, func(b binding[T]) bool { return b.owner == owner })
	return n - len(m.bindings)
}

// Clear unregisters every callback.
func (m *Multicast[T]) Clear() {
	m.mu.Lock()
	m.bindings = nil
	m.mu.Unlock()
}

// Broadcast calls every callback with v in registration order.
//
// The list is snapshotted first: callbacks added during a broadcast are not
// called, and callbacks removed during it still are.
func (m *Multicast[T]) Broadcast(v T) {
	m.mu.Lock()
	snapshot := slices.Clone(m.bindings)
	m.mu.Unlock()

	for _, b := range snapshot {
		b.fn(v)
	}
}

// Len returns the number of registered callbacks.
func (m *Multicast[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bindings)
}

// IsBound returns true if at least one callback is registered.
func (m *Multicast[T]) IsBound() bool {
	return m.Len() > 0
}
