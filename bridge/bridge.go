// Package bridge exposes an asynchronous source as observable state: the
// latest value, a loading flag and the last error.
package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/formz"
)

// Snapshot is the observable state of a Bridge.
type Snapshot[T any] struct {
	Value    T
	HasValue bool
	Loading  bool
	Err      error
}

// Bridge subscribes to the Source built by its factory and republishes
// every result as a Snapshot. Reloading, changing dependencies or closing
// severs the previous subscription; results it delivers afterwards are
// dropped.
type Bridge[T any] struct {
	factory func() Source[T]
	subject *formz.Subject[Snapshot[T]]

	mu         sync.Mutex
	parent     context.Context
	cancel     context.CancelFunc
	generation int
	deps       []any
	hasDeps    bool
	started    bool
	closed     bool
}

// New creates a Bridge. The factory is invoked on Start and on every reload.
func New[T any](factory func() Source[T]) *Bridge[T] {
	return &Bridge[T]{
		factory: factory,
		subject: formz.NewSubject(Snapshot[T]{}),
	}
}

// Start subscribes to the first source. Canceling ctx severs it like Close.
// Start can only be called once. Subsequent calls return an error.
func (b *Bridge[T]) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return errors.New("bridge already started")
	}
	if b.closed {
		return errors.New("bridge closed")
	}
	b.started = true
	b.parent = ctx
	b.reload()
	return nil
}

// SetDeps records the dependencies of the factory. When any of them differs
// by identity from the previous call, the source is reloaded.
func (b *Bridge[T]) SetDeps(deps ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasDeps && sameDeps(b.deps, deps) {
		return
	}
	b.deps = append([]any(nil), deps...)
	b.hasDeps = true
	if b.started && !b.closed {
		b.reload()
	}
}

// Reload re-invokes the factory, marks the bridge as loading and clears the
// last error. A bridge that is not started or already closed is unchanged.
func (b *Bridge[T]) Reload() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started && !b.closed {
		b.reload()
	}
}

// Set replaces the value directly. A pending source result still applies
// when it arrives.
func (b *Bridge[T]) Set(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := b.subject.Value()
	snap.Value = v
	snap.HasValue = true
	b.subject.Next(snap)
}

// Snapshot returns the current state.
func (b *Bridge[T]) Snapshot() Snapshot[T] {
	return b.subject.Value()
}

// Subscribe registers fn for every snapshot and calls it immediately with
// the current one. fn must not call Bridge methods synchronously.
func (b *Bridge[T]) Subscribe(fn func(Snapshot[T])) func() {
	return b.subject.Subscribe(fn)
}

// Close severs the current subscription. The last snapshot stays readable.
func (b *Bridge[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.generation++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// reload cancels the current subscription and starts a new one. Callers
// hold b.mu.
func (b *Bridge[T]) reload() {
	if b.cancel != nil {
		b.cancel()
	}
	b.generation++
	gen := b.generation

	ctx, cancel := context.WithCancel(b.parent)
	b.cancel = cancel

	snap := b.subject.Value()
	snap.Loading = true
	snap.Err = nil
	b.subject.Next(snap)

	capitan.Emit(ctx, BridgeReloading, KeyGeneration.Field(gen))

	ch := b.factory()(ctx)
	go b.consume(ctx, gen, ch)
}

// consume applies results from one subscription until it ends or is
// severed.
func (b *Bridge[T]) consume(ctx context.Context, gen int, ch <-chan Result[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-ch:
			if !ok {
				b.finish(gen)
				return
			}
			b.apply(ctx, gen, r)
		}
	}
}

func (b *Bridge[T]) apply(ctx context.Context, gen int, r Result[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return
	}

	snap := b.subject.Value()
	snap.Loading = false
	if r.Err != nil {
		snap.Err = r.Err
		b.subject.Next(snap)
		capitan.Emit(ctx, BridgeFailed,
			KeyGeneration.Field(gen),
			formz.KeyError.Field(r.Err.Error()),
		)
		return
	}
	snap.Value = r.Value
	snap.HasValue = true
	snap.Err = nil
	b.subject.Next(snap)
	capitan.Emit(ctx, BridgeLoaded, KeyGeneration.Field(gen))
}

// finish clears the loading flag of a source that ended without a result.
func (b *Bridge[T]) finish(gen int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return
	}
	snap := b.subject.Value()
	if !snap.Loading {
		return
	}
	snap.Loading = false
	b.subject.Next(snap)
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !formz.Same(a[i], b[i]) {
			return false
		}
	}
	return true
}
