package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker rejects a call outright.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState is the breaker's operating mode.
type CircuitState int

const (
	StateClosed   CircuitState = iota // normal operation
	StateOpen                         // calls fail immediately
	StateHalfOpen                     // probing for recovery
)

// String returns the state name.
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreaker guards an unreliable call path. For the outbound media
// sink, an open breaker is the signal that a transport failure is
// persistent rather than transient.
type CircuitBreaker struct {
	name         string
	maxFailures  int
	resetTimeout time.Duration

	mu           sync.Mutex
	state        CircuitState
	failureCount int
	lastFailTime time.Time

	// onOpen fires once per transition into the open state (from closed or
	// half-open), outside the lock.
	onOpen func()
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// OnOpen registers a callback invoked when the breaker opens.
func (cb *CircuitBreaker) OnOpen(fn func()) {
	cb.mu.Lock()
	cb.onOpen = fn
	cb.mu.Unlock()
}

// Call executes fn under breaker protection.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(err == nil)
	return err
}

// allow decides whether a call may proceed, moving open to half-open after
// the reset timeout.
func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if time.Since(cb.lastFailTime) >= cb.resetTimeout {
			cb.state = StateHalfOpen
			return true
		}
		return false
	}
	return false
}

// record updates breaker state from a call outcome.
func (cb *CircuitBreaker) record(success bool) {
	cb.mu.Lock()

	var opened func()
	if success {
		cb.state = StateClosed
		cb.failureCount = 0
	} else {
		cb.failureCount++
		cb.lastFailTime = time.Now()

		opensNow := cb.state == StateHalfOpen || cb.failureCount >= cb.maxFailures
		if opensNow && cb.state != StateOpen {
			cb.state = StateOpen
			opened = cb.onOpen
		}
	}
	cb.mu.Unlock()

	if opened != nil {
		opened()
	}
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset closes the breaker and clears its failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failureCount = 0
}
