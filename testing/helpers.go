// Package testing provides test utilities and helpers for formz stores and
// bridges.
package testing

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/zoobzio/formz"
	"github.com/zoobzio/formz/bridge"
)

// RequiredFields returns a validator reporting "required" for every listed
// top-level field that is nil or an empty string.
func RequiredFields(fields ...string) formz.ValidatorFunc {
	return func(_ context.Context, values any) (map[string]any, error) {
		errs := make(map[string]any, len(fields))
		for _, f := range fields {
			v := formz.DeepGet(values, formz.Path{f})
			if v == nil || v == "" {
				errs[f] = "required"
			} else {
				errs[f] = nil
			}
		}
		return errs, nil
	}
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForValid waits until the store's Valid flag equals want and no
// validation is in flight.
func WaitForValid(t *testing.T, s *formz.Store, want bool, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		st := s.State()
		return st.Valid == want && !st.Validating
	})
}

// WaitForSnapshot waits until the bridge snapshot satisfies cond.
func WaitForSnapshot[T any](t *testing.T, b *bridge.Bridge[T], timeout time.Duration, cond func(bridge.Snapshot[T]) bool) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return cond(b.Snapshot())
	})
}

// RequireValue fails the test immediately if the value at path differs
// from want.
func RequireValue(t *testing.T, s *formz.Store, path formz.Path, want any) {
	t.Helper()
	if got := s.State().Value(path); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected value %v at %s, got %v", want, path, got)
	}
}

// RequireError fails the test immediately if the error at path differs
// from want.
func RequireError(t *testing.T, s *formz.Store, path formz.Path, want any) {
	t.Helper()
	if got := s.State().Error(path); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected error %v at %s, got %v", want, path, got)
	}
}

// NewSyncStore creates a started sync-mode store that is closed when the
// test ends. Call Process to run pending validation.
func NewSyncStore(t *testing.T, validator formz.ValidatorFunc, opts ...formz.Option) *formz.Store {
	t.Helper()
	s := formz.New(validator, opts...).SyncMode()
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// Recorder collects every snapshot a store emits.
type Recorder struct {
	states chan formz.FormState
	unsub  func()
}

// Record subscribes to s. The replayed current snapshot is the first entry.
func Record(t *testing.T, s *formz.Store) *Recorder {
	t.Helper()
	r := &Recorder{states: make(chan formz.FormState, 256)}
	r.unsub = s.Subscribe(func(st formz.FormState) {
		select {
		case r.states <- st:
		default:
		}
	})
	t.Cleanup(r.unsub)
	return r
}

// States drains and returns the snapshots recorded so far.
func (r *Recorder) States() []formz.FormState {
	var out []formz.FormState
	for {
		select {
		case st := <-r.states:
			out = append(out, st)
		default:
			return out
		}
	}
}
