package formz

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Request carries one validation run through the validator pipeline.
type Request struct {
	// Values is the tree being validated.
	Values any

	// Errors is filled by the validator. Middleware after the validator may
	// rewrite it before it reaches the store.
	Errors map[string]any
}

// Option configures the validation pipeline of a Store. Pipeline options
// wrap the validator call with retry, timeout and other reliability patterns.
//
// Instance configuration (debounce, sync mode, clock, etc.) is handled via
// chainable methods on the Store before calling Start().
type Option func(pipz.Chainable[*Request]) pipz.Chainable[*Request]

var (
	validateID   = pipz.NewIdentity("formz:validate", "Runs the form validator")
	fallbackVID  = pipz.NewIdentity("formz:validate-fallback", "Runs a fallback form validator")
	retryID      = pipz.NewIdentity("formz:retry", "Retries a failing validator")
	backoffID    = pipz.NewIdentity("formz:backoff", "Retries a failing validator with exponential backoff")
	timeoutID    = pipz.NewIdentity("formz:timeout", "Bounds each validator call")
	fallbackID   = pipz.NewIdentity("formz:fallback", "Falls back to alternate validators")
	breakerID    = pipz.NewIdentity("formz:circuit-breaker", "Stops calling a failing validator")
	handlerID    = pipz.NewIdentity("formz:error-handler", "Observes validator failures")
	middlewareID = pipz.NewIdentity("formz:middleware", "Runs middleware before the validator")
	rateLimitID  = pipz.NewIdentity("formz:rate-limiter", "Limits the rate of validator calls")
)

// buildPipeline wraps the validator terminal with pipeline options.
func buildPipeline(validator ValidatorFunc, opts []Option) pipz.Chainable[*Request] {
	if validator == nil {
		return nil
	}
	pipeline := validatorStep(validateID, validator)
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// validatorStep adapts a ValidatorFunc to a pipeline processor.
func validatorStep(id pipz.Identity, validator ValidatorFunc) pipz.Chainable[*Request] {
	return pipz.Apply(id, func(ctx context.Context, req *Request) (*Request, error) {
		errs, err := validator(ctx, req.Values)
		if err != nil {
			return req, err
		}
		return &Request{Values: req.Values, Errors: errs}, nil
	})
}

// -----------------------------------------------------------------------------
// Pipeline Options - Reliability
// -----------------------------------------------------------------------------

// WithRetry retries a failing validator immediately up to maxAttempts times.
// A validator returning an error map is not a failure and is never retried.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries a failing validator with exponential backoff:
// baseDelay, 2*baseDelay, 4*baseDelay, etc.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithTimeout bounds each validator call. A call exceeding d fails the run
// and leaves the form invalid until the next change.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithFallback tries each fallback validator in order when the primary
// validator fails.
func WithFallback(fallbacks ...ValidatorFunc) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		all := make([]pipz.Chainable[*Request], 0, len(fallbacks)+1)
		all = append(all, p)
		for _, fb := range fallbacks {
			all = append(all, validatorStep(fallbackVID, fb))
		}
		return pipz.NewFallback(fallbackID, all...)
	}
}

// WithCircuitBreaker stops calling a failing validator. After 'failures'
// consecutive failures the circuit opens and runs fail immediately until
// 'recovery' has passed.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewCircuitBreaker(breakerID, p, failures, recovery)
	}
}

// WithErrorHandler observes validator failures for logging or alerting.
// The failure still reaches the store.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Request]]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewHandle(handlerID, p, handler)
	}
}

// -----------------------------------------------------------------------------
// Pipeline Options - Middleware Composition
// -----------------------------------------------------------------------------

// WithMiddleware runs processors in order before the validator. They may
// rewrite Values (trimming, normalizing) for validation only; the form keeps
// the values as entered.
//
// Example:
//
//	formz.New(validate,
//	    formz.WithMiddleware(
//	        formz.UseEffect("log", logFn),
//	        formz.UseTransform("trim", trimFn),
//	    ),
//	)
func WithMiddleware(processors ...pipz.Chainable[*Request]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		all := make([]pipz.Chainable[*Request], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// WithRateLimit limits validator calls with a token bucket of the given
// rate per second and burst. When tokens are exhausted the run waits.
func WithRateLimit(rate float64, burst int) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewRateLimiter(rateLimitID, rate, burst, p)
	}
}

// UseTransform creates a processor that rewrites the request and cannot fail.
func UseTransform(name string, fn func(context.Context, *Request) *Request) pipz.Chainable[*Request] {
	return pipz.Transform(pipz.NewIdentity(name, "Transforms the validation request"), fn)
}

// UseApply creates a processor that can rewrite the request and fail.
func UseApply(name string, fn func(context.Context, *Request) (*Request, error)) pipz.Chainable[*Request] {
	return pipz.Apply(pipz.NewIdentity(name, "Rewrites the validation request"), fn)
}

// UseEffect creates a processor that performs a side effect.
// The request passes through unchanged.
func UseEffect(name string, fn func(context.Context, *Request) error) pipz.Chainable[*Request] {
	return pipz.Effect(pipz.NewIdentity(name, "Side effect on the validation request"), fn)
}

// UseFilter runs processor only when condition returns true; otherwise the
// request passes through unchanged.
func UseFilter(name string, condition func(context.Context, *Request) bool, processor pipz.Chainable[*Request]) pipz.Chainable[*Request] {
	return pipz.NewFilter(pipz.NewIdentity(name, "Conditionally runs a processor"), condition, processor)
}
