package errors

import (
	"fmt"
	"sync"
	"time"

	"cassandra/internal/logging"
)

// CircuitState is the position of a breaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{"closed", "open", "half-open"}

func (s CircuitState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// CircuitBreakerConfig configures circuit breaker behavior
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the circuit
	SuccessThreshold int           // half-open successes that close it
	Timeout          time.Duration // cool-down before a half-open probe
}

// DefaultCircuitBreakerConfig returns the defaults used for outbound clients.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 5, SuccessThreshold: 1, Timeout: 30 * time.Second}
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	d := DefaultCircuitBreakerConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = d.SuccessThreshold
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// CircuitBreaker stops calling an upstream that keeps failing, so slide
// generation reaches its canned content without waiting on timeouts.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	successes int
	openedAt  time.Time
}

func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:   name,
		config: config.withDefaults(),
		logger: logging.NewComponentLogger("circuit-breaker"),
		now:    time.Now,
	}
}

// Allow returns a degraded error while the circuit is open. Once the
// cool-down has passed one probe is let through.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	remaining := cb.config.Timeout - cb.now().Sub(cb.openedAt)
	if remaining <= 0 {
		cb.transition(StateHalfOpen, nil)
		return nil
	}
	return NewDegradedError(
		fmt.Errorf("circuit breaker open for %s", cb.name),
		fmt.Sprintf("%s is unavailable after repeated failures; next probe in %v", cb.name, remaining.Round(time.Second)),
	)
}

// Mark records a request outcome. Pass nil for success.
func (cb *CircuitBreaker) Mark(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil && cb.state == StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transition(StateClosed, nil)
		}
	case err == nil:
		cb.failures = 0
	case cb.state == StateHalfOpen:
		cb.transition(StateOpen, err)
	case cb.state == StateClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.transition(StateOpen, err)
		}
	}
}

// transition moves to next and resets the counters it owns. Callers hold mu.
func (cb *CircuitBreaker) transition(next CircuitState, cause error) {
	cb.state = next
	cb.successes = 0
	switch next {
	case StateOpen:
		cb.openedAt = cb.now()
		cb.logger.Warn("[%s] circuit open after %d failures: %v", cb.name, cb.failures, cause)
	case StateHalfOpen:
		cb.logger.Info("[%s] circuit half-open, probing upstream", cb.name)
	case StateClosed:
		cb.failures = 0
		cb.logger.Info("[%s] circuit closed", cb.name)
	}
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
