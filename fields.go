package formz

import "github.com/zoobzio/capitan"

// Field keys for Store events.
var (
	// KeyStoreID is the unique identifier of the Store.
	KeyStoreID = capitan.NewStringKey("store_id")

	// KeyPhase is the current submit phase of the Store.
	KeyPhase = capitan.NewStringKey("phase")

	// KeyOldPhase is the previous phase before a transition.
	KeyOldPhase = capitan.NewStringKey("old_phase")

	// KeyNewPhase is the new phase after a transition.
	KeyNewPhase = capitan.NewStringKey("new_phase")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured validation debounce.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyPath is the dotted path written by a change.
	KeyPath = capitan.NewStringKey("path")

	// KeyErrorCount is the number of top-level error entries.
	KeyErrorCount = capitan.NewIntKey("error_count")

	// KeyDuration is how long a validator or submit call took.
	KeyDuration = capitan.NewDurationKey("duration")
)
