package middleware

import (
	"sync"
	"time"
)

// CircuitBreaker tracks consecutive errors from the shared store:
//   - Open after failureThreshold consecutive failures; while open the
//     in-memory fallback answers and responses carry X-RateLimit-Status: degraded.
//   - While open, the shared store is retried at most once per retryInterval.
//   - Close after successThreshold consecutive successful retries.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            circuitState
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	retryInterval    time.Duration
	lastRetry        time.Time
}

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
)

func newCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{
		state:            circuitClosed,
		failureThreshold: 5,
		successThreshold: 3,
		retryInterval:    time.Second,
	}
}

func (c *CircuitBreaker) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == circuitOpen
}

// AllowPrimary reports whether the shared store should be tried now. Always
// true while closed; while open, true once per retryInterval since the last
// attempt.
func (c *CircuitBreaker) AllowPrimary(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == circuitOpen && now.Sub(c.lastRetry) < c.retryInterval {
		return false
	}
	c.lastRetry = now
	return true
}

// RecordFailure returns true when the circuit is open after the failure.
func (c *CircuitBreaker) RecordFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount++
	c.successCount = 0
	if c.state == circuitOpen {
		return true
	}
	if c.failureCount >= c.failureThreshold {
		c.state = circuitOpen
		return true
	}
	return false
}

// RecordSuccess returns true when the circuit is closed after the success.
func (c *CircuitBreaker) RecordSuccess() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == circuitOpen {
		c.successCount++
		if c.successCount >= c.successThreshold {
			c.state = circuitClosed
			c.failureCount = 0
			c.successCount = 0
			return true
		}
		return false
	}
	c.failureCount = 0
	return true
}
