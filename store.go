package formz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default delay between the last value change and
// the validator call.
const DefaultDebounce = 50 * time.Millisecond

// ValidatorFunc inspects form values and returns an error tree of the same
// shape. A truthy leaf marks an error at that path. A non-nil error means
// the validator itself could not run.
type ValidatorFunc func(ctx context.Context, values any) (map[string]any, error)

// SubmitFunc receives form values on submit. Returning a *ValidationError
// merges its field errors into the form; any other error is returned from
// Store.Submit.
type SubmitFunc func(ctx context.Context, values any) error

// ParseFunc converts a raw input value before it is written.
type ParseFunc func(any) any

// Store is the single writer of a form's state. Every operation replaces
// the whole FormState and broadcasts it to subscribers in order.
type Store struct {
	id           string
	subject      *Subject[FormState]
	pipeline     pipz.Chainable[*Request]
	debounce     time.Duration
	syncMode     bool
	clock        clockz.Clock
	metrics      MetricsProvider
	middleware   func(prev, next FormState) FormState
	reinitialize bool

	// mu serializes state replacement and emission.
	mu sync.Mutex

	lastError atomic.Pointer[error]
	failures  *failureRing

	startMu sync.Mutex
	started bool
	cancel  context.CancelFunc
	unsub   func()

	// changes holds the latest values awaiting validation.
	changes  chan any
	observed any
}

// New creates a Store. A nil validator produces a store that is always
// valid. Pipeline options wrap the validator call.
//
// Validation only runs once the store is started. Until Start is called,
// Change on a store with a validator leaves Valid false and the validator
// is never invoked; Start then validates the current values.
//
// Example:
//
//	store := formz.New(
//	    func(_ context.Context, v any) (map[string]any, error) {
//	        if formz.DeepGet(v, formz.Path{"name"}) == "" {
//	            return map[string]any{"name": "required"}, nil
//	        }
//	        return map[string]any{"name": nil}, nil
//	    },
//	    formz.WithTimeout(2*time.Second),
//	).Debounce(100 * time.Millisecond)
//
//	if err := store.Start(ctx); err != nil {
//	    return err
//	}
//	defer store.Close()
func New(validator ValidatorFunc, opts ...Option) *Store {
	return &Store{
		id:       uuid.New().String(),
		subject:  NewSubject(defaultState(validator != nil)),
		pipeline: buildPipeline(validator, opts),
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		changes:  make(chan any, 1),
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the delay between the last value change and the validator
// call. Default: 50ms. Must be called before Start().
func (s *Store) Debounce(d time.Duration) *Store {
	s.debounce = d
	return s
}

// SyncMode disables the background pipeline. Pending validation runs only
// when Process is called, making tests deterministic. Must be called before Start().
func (s *Store) SyncMode() *Store {
	s.syncMode = true
	return s
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (s *Store) Clock(clock clockz.Clock) *Store {
	s.clock = clock
	return s
}

// Metrics sets a metrics provider for observability integration.
func (s *Store) Metrics(provider MetricsProvider) *Store {
	s.metrics = provider
	return s
}

// ReinitializeOnSubmit makes a successful submit adopt the submitted values
// as the new initial values, so a later Reset returns to them.
func (s *Store) ReinitializeOnSubmit() *Store {
	s.reinitialize = true
	return s
}

// Middleware installs a function that rewrites every snapshot before it
// becomes current. It receives the previous snapshot and the proposed one.
func (s *Store) Middleware(fn func(prev, next FormState) FormState) *Store {
	s.middleware = fn
	return s
}

// ErrorHistorySize sets how many recent validator and submit failures are
// retained for ErrorHistory. Default 0 keeps only LastError.
func (s *Store) ErrorHistorySize(n int) *Store {
	s.failures = newFailureRing(n)
	return s
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// ID returns the unique identifier of the store.
func (s *Store) ID() string {
	return s.id
}

// State returns the current snapshot.
func (s *Store) State() FormState {
	return s.subject.Value()
}

// Subscribe registers fn for every snapshot and calls it immediately with
// the current one. fn runs while the store is locked and must not call
// store operations synchronously.
func (s *Store) Subscribe(fn func(FormState)) func() {
	return s.subject.Subscribe(fn)
}

// LastError returns the last validator or submit failure, or nil.
func (s *Store) LastError() error {
	ptr := s.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent failures, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (s *Store) ErrorHistory() []Failure {
	return s.failures.all()
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// Change writes a value at path. input may be a UI event carrying the value
// (see Valuer and InputEvent) or the value itself. parse functions run in
// order on the unwrapped value.
func (s *Store) Change(path Path, input any, parse ...ParseFunc) {
	value := unwrapEvent(input)
	for _, fn := range parse {
		if fn != nil {
			value = fn(value)
		}
	}

	s.mutate(func(st *FormState) bool {
		st.Values = DeepSet(st.Values, path, value)
		st.Valid = !st.HasValidator
		return true
	})

	capitan.Emit(context.Background(), StoreChanged,
		KeyStoreID.Field(s.id),
		KeyPath.Field(path.String()),
	)
	if s.metrics != nil {
		s.metrics.OnChangeReceived()
	}
}

// Initialize seeds values and initial values with the same tree. The tree
// is stored by reference.
func (s *Store) Initialize(values any) {
	s.mutate(func(st *FormState) bool {
		st.Values = values
		st.InitialValues = values
		st.Submitting = false
		st.SubmitSucceeded = false
		st.Validating = false
		st.Phase = PhaseIdle
		return true
	})
	capitan.Emit(context.Background(), StoreInitialized, KeyStoreID.Field(s.id))
}

// Reset restores values from initial values. Errors are kept.
func (s *Store) Reset() {
	s.mutate(func(st *FormState) bool {
		st.Values = st.InitialValues
		return true
	})
	capitan.Emit(context.Background(), StoreReset, KeyStoreID.Field(s.id))
}

// Clear returns the store to its default snapshot and forgets recorded
// failures.
func (s *Store) Clear() {
	s.mutate(func(st *FormState) bool {
		*st = defaultState(st.HasValidator)
		return true
	})
	s.lastError.Store(nil)
	s.failures.clear()
	capitan.Emit(context.Background(), StoreCleared, KeyStoreID.Field(s.id))
}

// mutate applies fn to a copy of the current snapshot and, when fn reports
// a change, publishes the result. It returns the snapshot now current.
func (s *Store) mutate(fn func(st *FormState) bool) FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.subject.Value()
	next := prev
	if !fn(&next) {
		return prev
	}
	if s.middleware != nil {
		next = s.middleware(prev, next)
	}
	if !next.HasValidator {
		next.Valid = true
	}

	s.subject.Next(next)

	if prev.Phase != next.Phase {
		capitan.Emit(context.Background(), StorePhaseChanged,
			KeyStoreID.Field(s.id),
			KeyOldPhase.Field(prev.Phase.String()),
			KeyNewPhase.Field(next.Phase.String()),
		)
		if s.metrics != nil {
			s.metrics.OnPhaseChange(prev.Phase, next.Phase)
		}
	}
	return next
}

// recordFailure stores err as the last error and adds it to the history.
func (s *Store) recordFailure(stage string, err error) {
	e := err
	s.lastError.Store(&e)
	s.failures.push(Failure{Stage: stage, Err: err, At: s.clock.Now()})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start attaches the validation pipeline. Value changes from now on (and
// the current values) are debounced and validated until ctx is canceled or
// Close is called.
//
// In sync mode no goroutine is started; use Process to run pending
// validation.
//
// Start can only be called once. Subsequent calls return an error.
func (s *Store) Start(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		return fmt.Errorf("store %s already started", s.id)
	}
	s.started = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	capitan.Emit(ctx, StoreStarted,
		KeyStoreID.Field(s.id),
		KeyDebounce.Field(s.debounce),
	)

	s.unsub = s.subject.Subscribe(s.observe)

	if !s.syncMode {
		go s.watch(ctx)
	}
	return nil
}

// Close detaches the validation pipeline. The store stays readable and
// writable; values are no longer validated.
func (s *Store) Close() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	if s.cancel != nil {
		s.cancel()
	}
}
