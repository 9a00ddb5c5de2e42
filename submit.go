package formz

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/capitan"
)

func noopSubmit(context.Context, any) error {
	return nil
}

// Submit marks the form as submitting and calls fn with the current values.
//
// On success the form is marked as submitted (and re-initialized when
// ReinitializeOnSubmit is set). A *ValidationError anywhere in the returned
// chain has its field errors merged into the form and Submit returns nil.
// Any other error clears the submitting flag first and is then returned as
// a *SubmissionError.
//
// A nil fn submits nothing and succeeds.
func (s *Store) Submit(ctx context.Context, fn SubmitFunc) error {
	if fn == nil {
		fn = noopSubmit
	}

	st := s.mutate(func(st *FormState) bool {
		st.Submitting = true
		st.Phase = PhaseSubmitting
		return true
	})
	capitan.Emit(ctx, SubmitStarted, KeyStoreID.Field(s.id))

	start := s.clock.Now()
	err := fn(ctx, st.Values)
	elapsed := s.clock.Since(start)

	var rejected *ValidationError
	switch {
	case err == nil:
		s.mutate(func(st *FormState) bool {
			st.Submitting = false
			st.SubmitSucceeded = true
			st.Phase = PhaseSucceeded
			if s.reinitialize {
				st.InitialValues = st.Values
			}
			return true
		})
		capitan.Emit(ctx, SubmitSucceeded,
			KeyStoreID.Field(s.id),
			KeyDuration.Field(elapsed),
		)
		s.observeSubmit(PhaseSucceeded, elapsed)
		return nil

	case errors.As(err, &rejected):
		s.mutate(func(st *FormState) bool {
			st.Errors = mergeErrors(st.Errors, rejected.Errors)
			st.Submitting = false
			st.SubmitSucceeded = false
			st.Phase = PhaseRejected
			return true
		})
		capitan.Emit(ctx, SubmitRejected,
			KeyStoreID.Field(s.id),
			KeyErrorCount.Field(len(rejected.Errors)),
		)
		s.observeSubmit(PhaseRejected, elapsed)
		return nil

	default:
		s.mutate(func(st *FormState) bool {
			st.Submitting = false
			st.SubmitSucceeded = false
			st.Phase = PhaseFailed
			return true
		})
		s.recordFailure("submit", err)
		capitan.Emit(ctx, SubmitFailed,
			KeyStoreID.Field(s.id),
			KeyError.Field(err.Error()),
		)
		s.observeSubmit(PhaseFailed, elapsed)
		return &SubmissionError{StoreID: s.id, Err: err}
	}
}

func (s *Store) observeSubmit(phase Phase, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.OnSubmit(phase, elapsed)
	}
}
