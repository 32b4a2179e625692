package util

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Waiter tracks reception of an initial value and staleness of updates
type Waiter struct {
	mu      sync.Mutex
	updated time.Time
	timeout time.Duration
}

// NewWaiter creates a waiter with the given staleness timeout
func NewWaiter(timeout time.Duration) *Waiter {
	return &Waiter{timeout: timeout}
}

// Update marks reception of a value and resets the staleness timer
func (w *Waiter) Update() {
	w.mu.Lock()
	w.updated = time.Now()
	w.mu.Unlock()
}

// Ready reports whether an initial value has been received
func (w *Waiter) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return !w.updated.IsZero()
}

// Overdue returns an error if no value was received yet or the last
// update exceeds the timeout
func (w *Waiter) Overdue() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.updated.IsZero() {
		return errors.New("initial value not received")
	}

	if elapsed := time.Since(w.updated); w.timeout != 0 && elapsed > w.timeout {
		return fmt.Errorf("timeout: %v", elapsed.Round(time.Second))
	}

	return nil
}
