// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the module.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// BindError reports that the listening socket could not be opened.
type BindError struct {
	Addr string
	Err  error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

// Unwrap exposes the underlying listen failure.
func (e *BindError) Unwrap() error {
	return e.Err
}
