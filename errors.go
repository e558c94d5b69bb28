package stackboot

import (
	"errors"
	"strconv"
)

var (
	// ErrResourceExhausted is matched (via [errors.Is]) by any error caused
	// by a failure to allocate a bootstrap resource, see also
	// [ResourceExhaustedError].
	ErrResourceExhausted = errors.New(`stackboot: resource exhausted`)

	// ErrAlreadyInitialized is returned by [Once.Exclusive] if the stack has
	// already been started.
	ErrAlreadyInitialized = errors.New(`stackboot: already initialized`)
)

// ResourceExhaustedError indicates that a resource required to bootstrap the
// stack could not be allocated. No part of the stack was started.
type ResourceExhaustedError struct {
	// Cause is the underlying error, if any.
	Cause error
	// Resource names what could not be allocated, e.g. "signal".
	Resource string
	// Limit is the capacity that was exhausted, or 0 if unknown.
	Limit int64
}

// Error implements the error interface.
func (e *ResourceExhaustedError) Error() string {
	msg := `stackboot: resource exhausted`
	if e.Resource != `` {
		msg += `: ` + e.Resource
	}
	if e.Limit > 0 {
		msg += ` (limit ` + strconv.FormatInt(e.Limit, 10) + `)`
	}
	if e.Cause != nil {
		msg += `: ` + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *ResourceExhaustedError) Unwrap() error {
	return e.Cause
}

// Is returns true if target is [ErrResourceExhausted].
func (e *ResourceExhaustedError) Is(target error) bool {
	return target == ErrResourceExhausted
}
