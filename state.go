package formz

// Phase is the submit lifecycle position of a Store.
type Phase int32

const (
	// PhaseIdle indicates no submission has run since the last initialize
	// or clear.
	PhaseIdle Phase = iota

	// PhaseSubmitting indicates a submit function is in flight.
	PhaseSubmitting

	// PhaseSucceeded indicates the last submission completed without error.
	PhaseSucceeded

	// PhaseRejected indicates the last submission returned field errors that
	// were merged into the form. The form remains usable.
	PhaseRejected

	// PhaseFailed indicates the last submission failed with an error that
	// was returned to the caller.
	PhaseFailed
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseRejected:
		return "rejected"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FormState is an immutable snapshot of a form. A nil Values, InitialValues
// or Errors is the cleared sentinel.
type FormState struct {
	Values          any
	InitialValues   any
	Errors          map[string]any
	Valid           bool
	HasValidator    bool
	Validating      bool
	Submitting      bool
	SubmitSucceeded bool
	Phase           Phase
}

// defaultState returns the cleared snapshot.
func defaultState(hasValidator bool) FormState {
	return FormState{
		Valid:        true,
		HasValidator: hasValidator,
	}
}

// Error returns the error recorded at path, or nil.
func (s FormState) Error(path Path) any {
	return DeepGet(s.Errors, path)
}

// Value returns the value at path, or nil.
func (s FormState) Value(path Path) any {
	return DeepGet(s.Values, path)
}

// Pristine reports whether Values is still the tree supplied to Initialize.
func (s FormState) Pristine() bool {
	return Same(s.Values, s.InitialValues)
}
