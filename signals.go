package formz

import "github.com/zoobzio/capitan"

// Store lifecycle signals.
var (
	// StoreStarted is emitted when a Store attaches its validation pipeline.
	StoreStarted = capitan.NewSignal(
		"formz.store.started",
		"Store validation pipeline started",
	)

	// StoreStopped is emitted when the validation pipeline detaches.
	StoreStopped = capitan.NewSignal(
		"formz.store.stopped",
		"Store validation pipeline stopped",
	)

	// StorePhaseChanged is emitted when a Store moves between submit phases.
	StorePhaseChanged = capitan.NewSignal(
		"formz.store.phase.changed",
		"Store submit phase transition",
	)
)

// State mutation signals.
var (
	// StoreChanged is emitted when a field value is written.
	StoreChanged = capitan.NewSignal(
		"formz.store.changed",
		"Field value changed",
	)

	// StoreInitialized is emitted when values are seeded.
	StoreInitialized = capitan.NewSignal(
		"formz.store.initialized",
		"Form values initialized",
	)

	// StoreReset is emitted when values are restored from initial values.
	StoreReset = capitan.NewSignal(
		"formz.store.reset",
		"Form values reset",
	)

	// StoreCleared is emitted when the store returns to its default state.
	StoreCleared = capitan.NewSignal(
		"formz.store.cleared",
		"Form state cleared",
	)
)

// Validation signals.
var (
	// ValidationStarted is emitted when the debounced validator is invoked.
	ValidationStarted = capitan.NewSignal(
		"formz.validation.started",
		"Validator invoked",
	)

	// ValidationSucceeded is emitted when the validator returns an error map.
	ValidationSucceeded = capitan.NewSignal(
		"formz.validation.succeeded",
		"Validator returned",
	)

	// ValidationFailed is emitted when the validator itself fails.
	ValidationFailed = capitan.NewSignal(
		"formz.validation.failed",
		"Validator failed",
	)
)

// Submission signals.
var (
	// SubmitStarted is emitted when a submit function is invoked.
	SubmitStarted = capitan.NewSignal(
		"formz.submit.started",
		"Submission started",
	)

	// SubmitSucceeded is emitted when a submission completes.
	SubmitSucceeded = capitan.NewSignal(
		"formz.submit.succeeded",
		"Submission succeeded",
	)

	// SubmitRejected is emitted when a submission returns field errors.
	SubmitRejected = capitan.NewSignal(
		"formz.submit.rejected",
		"Submission rejected with field errors",
	)

	// SubmitFailed is emitted when a submission fails outright.
	SubmitFailed = capitan.NewSignal(
		"formz.submit.failed",
		"Submission failed",
	)
)
