// Package inflight guards submit-style actions against re-entry while their
// request is still outstanding.
package inflight

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when the guarded action is already running.
var ErrBusy = errors.New("action already in progress")

// Flag is a single-flight guard. The zero value is ready to use.
type Flag struct {
	busy atomic.Bool
}

// Run calls fn unless another Run on the same flag has not returned yet.
func (f *Flag) Run(fn func() error) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)
	return fn()
}

// Busy reports whether an action is in flight.
func (f *Flag) Busy() bool {
	return f.busy.Load()
}
