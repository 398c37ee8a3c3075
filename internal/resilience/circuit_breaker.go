// Copyright 2026 Arkham Advisor Contributors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resilience

import (
	"fmt"
	"sync"
	"time"
)

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// CircuitBreaker trips after maxFailures consecutive failures and
// stays open for resetTimeout before allowing a half-open probe. Each
// subagent's Base holds one breaker wrapped around its whole
// computation, so a subagent whose dependencies keep failing isn't
// hammered by every concurrent request.
type CircuitBreaker struct {
	name            string
	maxFailures     int
	resetTimeout    time.Duration
	halfOpenMax     int
	failures        int
	state           circuitState
	lastFailureTime time.Time
	halfOpenSuccess int
	halfOpenProbing bool
	mu              sync.Mutex
}

// NewCircuitBreaker builds a breaker named name.
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		halfOpenMax:  2,
		state:        circuitClosed,
	}
}

// OpenError indicates the breaker is currently open.
type OpenError struct{ Name string }

func (e *OpenError) Error() string { return fmt.Sprintf("circuit breaker %q is open", e.Name) }

// Execute runs fn if the circuit allows it, recording the outcome. At
// most one caller is ever allowed to probe a half-open breaker at a
// time; concurrent callers arriving during that probe see the breaker
// as open rather than all hammering the recovering dependency at once.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == circuitOpen && time.Since(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = circuitHalfOpen
		cb.halfOpenSuccess = 0
		cb.halfOpenProbing = false
	}

	probing := false
	switch {
	case cb.state == circuitOpen:
		cb.mu.Unlock()
		return &OpenError{Name: cb.name}
	case cb.state == circuitHalfOpen:
		if cb.halfOpenProbing {
			cb.mu.Unlock()
			return &OpenError{Name: cb.name}
		}
		cb.halfOpenProbing = true
		probing = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if probing {
		cb.halfOpenProbing = false
	}

	if err != nil {
		cb.failures++
		cb.lastFailureTime = time.Now()
		if cb.state == circuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = circuitOpen
		}
		return err
	}

	if cb.state == circuitHalfOpen {
		cb.halfOpenSuccess++
		if cb.halfOpenSuccess >= cb.halfOpenMax {
			cb.state = circuitClosed
			cb.failures = 0
		}
	} else {
		cb.failures = 0
	}
	return nil
}

// State reports the breaker's current state as a label.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
