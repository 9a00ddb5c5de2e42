package formz

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// observe forwards values that changed by reference to the pipeline. It
// runs inside the store's emission and never blocks: a value still waiting
// in the channel is replaced by the newer one.
func (s *Store) observe(st FormState) {
	if Same(st.Values, s.observed) {
		return
	}
	s.observed = st.Values

	select {
	case s.changes <- st.Values:
	default:
		select {
		case <-s.changes:
		default:
		}
		s.changes <- st.Values
	}
}

// Process runs validation for the latest pending change.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if nothing was pending.
func (s *Store) Process(ctx context.Context) bool {
	if !s.syncMode {
		return false
	}

	select {
	case values := <-s.changes:
		s.run(ctx, values)
		return true
	default:
		return false
	}
}

// watch debounces value changes and validates the last one in each burst.
func (s *Store) watch(ctx context.Context) {
	defer func() {
		capitan.Emit(ctx, StoreStopped,
			KeyStoreID.Field(s.id),
			KeyPhase.Field(s.State().Phase.String()),
		)
	}()

	var (
		timer      clockz.Timer
		pending    any
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case values := <-s.changes:
			pending = values
			hasPending = true

			if timer == nil {
				timer = s.clock.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(s.debounce)
			}

		case <-timerC:
			if hasPending {
				s.run(ctx, pending)
				pending = nil
				hasPending = false
			}
		}
	}
}

// run validates values and writes the outcome. Results are applied
// unconditionally; a slow run can overwrite the outcome of a newer one.
func (s *Store) run(ctx context.Context, values any) {
	if s.pipeline == nil {
		s.mutate(func(st *FormState) bool {
			if len(st.Errors) == 0 {
				return false
			}
			st.Errors = nil
			st.Valid = true
			return true
		})
		return
	}
	if values == nil {
		return
	}

	s.mutate(func(st *FormState) bool {
		st.Validating = true
		return true
	})
	capitan.Emit(ctx, ValidationStarted, KeyStoreID.Field(s.id))

	start := s.clock.Now()
	req, err := s.pipeline.Process(ctx, &Request{Values: values})
	elapsed := s.clock.Since(start)

	if err != nil {
		s.mutate(func(st *FormState) bool {
			st.Validating = false
			st.Valid = false
			return true
		})
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		s.recordFailure("validate", err)
		capitan.Emit(ctx, ValidationFailed,
			KeyStoreID.Field(s.id),
			KeyError.Field(err.Error()),
			KeyDuration.Field(elapsed),
		)
		if s.metrics != nil {
			s.metrics.OnValidationFailure(elapsed)
		}
		return
	}

	errs := req.Errors
	valid := !HasError(errs)
	if len(errs) == 0 {
		errs = nil
	}
	s.mutate(func(st *FormState) bool {
		st.Validating = false
		st.Valid = valid
		st.Errors = errs
		return true
	})
	capitan.Emit(ctx, ValidationSucceeded,
		KeyStoreID.Field(s.id),
		KeyErrorCount.Field(len(errs)),
		KeyDuration.Field(elapsed),
	)
	if s.metrics != nil {
		s.metrics.OnValidation(valid, elapsed)
	}
}
