package formz

import (
	"sync"
	"time"
)

// Failure records one validator or submit error.
type Failure struct {
	Stage string
	Err   error
	At    time.Time
}

// failureRing is a bounded, thread-safe history of recent failures.
type failureRing struct {
	mu      sync.RWMutex
	entries []Failure
	size    int
	head    int
	count   int
}

// newFailureRing creates a ring holding up to size failures.
// A size of 0 or less disables the history.
func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{
		entries: make([]Failure, size),
		size:    size,
	}
}

func (r *failureRing) push(f Failure) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = f
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

func (r *failureRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.entries)
	r.head = 0
	r.count = 0
}

// all returns recorded failures, oldest first.
func (r *failureRing) all() []Failure {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	out := make([]Failure, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := range r.count {
		out[i] = r.entries[(start+i)%r.size]
	}
	return out
}
