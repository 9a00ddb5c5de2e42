package formz

import (
	"slices"
	"sync"
)

// Subject holds a current value and broadcasts every replacement to its
// subscribers in order. New subscribers receive the current value
// immediately.
//
// Subscribers run synchronously on the emitting goroutine and must not call
// Next or Subscribe on the same Subject from inside the callback.
type Subject[T any] struct {
	emit    sync.Mutex
	mu      sync.Mutex
	current T
	subs    map[uint64]func(T)
	nextID  uint64
}

// NewSubject creates a Subject seeded with initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		current: initial,
		subs:    make(map[uint64]func(T)),
	}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Next replaces the current value and delivers it to every subscriber.
func (s *Subject[T]) Next(v T) {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	s.current = v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the subscription; calling it twice is safe.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshot copies subscribers in registration order. Callers hold s.mu.
func (s *Subject[T]) snapshot() []func(T) {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}
