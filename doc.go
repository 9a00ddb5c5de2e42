/*
Package formz provides reactive form state with debounced validation.

A Store owns one form. Every operation replaces the whole FormState snapshot
and broadcasts it to subscribers in order; new subscribers receive the
current snapshot immediately.

# Basic Usage

	store := formz.New(func(_ context.Context, v any) (map[string]any, error) {
	    if formz.DeepGet(v, formz.Path{"name"}) == "" {
	        return map[string]any{"name": "required"}, nil
	    }
	    return map[string]any{}, nil
	})

	if err := store.Start(ctx); err != nil {
	    return err
	}
	defer store.Close()

	store.Initialize(map[string]any{"name": ""})
	store.Change(formz.Path{"name"}, "Bob")

Values are nested trees of map[string]any and []any addressed with a Path.
DeepSet never mutates its input: the containers on the path are copied and
everything else is shared, so unchanged branches keep their identity.

# Validation

Validation runs after value changes settle for the debounce window (50ms by
default). Only a change of the Values tree by reference triggers a run;
writes to errors or flags do not. The validator returns an error tree of the
same shape as the values and the form is valid when no leaf is truthy.

Pipeline options wrap the validator call:

	store := formz.New(validate,
	    formz.WithTimeout(2*time.Second),
	    formz.WithBackoff(3, 100*time.Millisecond),
	)

StructValidator adapts `validate` struct tags:

	store := formz.New(formz.StructValidator[Signup]())

# Submission

Submit hands the current values to a SubmitFunc. A *ValidationError returned
from it is merged into the form errors; any other error is returned wrapped
in a *SubmissionError. The Phase field tracks the outcome.

# Testing

SyncMode disables the background goroutine so validation only runs when
Process is called. Combine with clockz.FakeClock to drive the debounce
deterministically:

	clock := clockz.NewFakeClock()
	store := formz.New(validate).Clock(clock)

# Observability

Stores emit capitan signals for lifecycle, value changes, validation and
submission. See signals.go for the full list and fields.go for the keys
carried by each event.
*/
package formz
