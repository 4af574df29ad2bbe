// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-ipc.

package api

import (
	"errors"
	"fmt"
)

// Caller contract violations, rejected synchronously before any I/O.
var (
	ErrPayloadTooLarge  = errors.New("ipc: payload exceeds frame capacity")
	ErrSelfAddressed    = errors.New("ipc: alert addressed to own slot")
	ErrUnknownSlot      = errors.New("ipc: unknown or inactive slot")
	ErrTooManyProcesses = errors.New("ipc: worker count exceeds process limit")
	ErrQueueFull        = errors.New("ipc: write queue limit reached")
)

// Lifecycle errors.
var (
	ErrNoReactor      = errors.New("ipc: no reactor configured")
	ErrNotStarted     = errors.New("ipc: context not started")
	ErrAlreadyStarted = errors.New("ipc: context already started")
	ErrClosed         = errors.New("ipc: context is closed")
	ErrSlotInUse      = errors.New("ipc: slot already active")
)

// Wire protocol errors.
var (
	ErrShortFrame   = errors.New("ipc: incomplete frame")
	ErrCorruptFrame = errors.New("ipc: corrupt frame")
)

// ErrUnsupported is returned by platform constructors with no implementation.
var ErrUnsupported = errors.New("operation not supported on this platform")

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeNotSupported
	ErrCodeAlreadyExists
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
// Setup paths use it to attach the slot and syscall that failed.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if len(e.Context) != 0 {
		msg = fmt.Sprintf("%s (context: %+v)", msg, e.Context)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Wrap sets the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}
