package formz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key store events.
type MetricsProvider interface {
	// OnPhaseChange is called when the store transitions between submit phases.
	OnPhaseChange(from, to Phase)

	// OnValidation is called when the validator returns an error map.
	OnValidation(valid bool, duration time.Duration)

	// OnValidationFailure is called when the validator itself fails.
	OnValidationFailure(duration time.Duration)

	// OnSubmit is called when a submission settles in phase.
	OnSubmit(phase Phase, duration time.Duration)

	// OnChangeReceived is called for every Change.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnPhaseChange(_, _ Phase)             {}
func (NoOpMetricsProvider) OnValidation(_ bool, _ time.Duration) {}
func (NoOpMetricsProvider) OnValidationFailure(_ time.Duration)  {}
func (NoOpMetricsProvider) OnSubmit(_ Phase, _ time.Duration)    {}
func (NoOpMetricsProvider) OnChangeReceived()                    {}
