// Package slotmap provides a generational slot table: inserted values are
// addressed by a (slot, generation) Handle, and removing a value invalidates
// every outstanding Handle to it even after its slot is reused.
package slotmap

import "fmt"

// Handle addresses one value in a Map. The zero Handle never resolves.
type Handle struct {
	Slot       uint32
	Generation uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Slot, h.Generation)
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

type entry[T any] struct {
	value      *T
	generation uint32
}

// Map is a generational slot table. It is not safe for concurrent use; the
// caller must serialise access.
type Map[T any] struct {
	entries []entry[T]
	free    []uint32
	count   int
}

// New returns an empty Map.
func New[T any]() *Map[T] {
	return &Map[T]{}
}

// Insert stores v and returns its Handle.
//
// Precondition: v must not be nil.
// Postcondition: Get(handle) returns v until Remove(handle) is called.
func (m *Map[T]) Insert(v *T) Handle {
	m.count++
	if n := len(m.free); n > 0 {
		slot := m.free[n-1]
		m.free = m.free[:n-1]
		e := &m.entries[slot]
		e.generation++
		e.value = v
		return Handle{Slot: slot, Generation: e.generation}
	}
	m.entries = append(m.entries, entry[T]{value: v, generation: 1})
	return Handle{Slot: uint32(len(m.entries) - 1), Generation: 1}
}

// Get returns the value addressed by h, or (nil, false) if h is stale or unknown.
func (m *Map[T]) Get(h Handle) (*T, bool) {
	if int(h.Slot) >= len(m.entries) {
		return nil, false
	}
	e := m.entries[h.Slot]
	if e.value == nil || e.generation != h.Generation {
		return nil, false
	}
	return e.value, true
}

// MustGet returns the value addressed by h and panics if h is stale.
func (m *Map[T]) MustGet(h Handle) *T {
	v, ok := m.Get(h)
	if !ok {
		panic(fmt.Sprintf("slotmap: stale or unknown handle %s", h))
	}
	return v
}

// Remove deletes the value addressed by h.
//
// Postcondition: Get(h) reports false; a later Insert may reuse the slot under
// a new generation.
func (m *Map[T]) Remove(h Handle) (*T, bool) {
	v, ok := m.Get(h)
	if !ok {
		return nil, false
	}
	m.entries[h.Slot].value = nil
	m.entries[h.Slot].generation++
	m.free = append(m.free, h.Slot)
	m.count--
	return v, true
}

// Len returns the number of live values.
func (m *Map[T]) Len() int { return m.count }

// Handles returns the Handle of every live value in slot order.
func (m *Map[T]) Handles() []Handle {
	out := make([]Handle, 0, m.count)
	for i, e := range m.entries {
		if e.value != nil {
			out = append(out, Handle{Slot: uint32(i), Generation: e.generation})
		}
	}
	return out
}

// Each calls fn for every live value in slot order.
func (m *Map[T]) Each(fn func(Handle, *T)) {
	for _, h := range m.Handles() {
		fn(h, m.entries[h.Slot].value)
	}
}
