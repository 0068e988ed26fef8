// Package hw holds types shared by the hardware backends.
package hw

import "fmt"

// InitError reports that a hardware backend could not be acquired at
// construction time (missing driver, busy device, wrong platform).
// It is fatal: the process aborts at startup and never retries.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: initialization failed: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
