package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput indicates that input validation failed before any
	// engine or store call was made
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnavailable indicates that a backing store or the reasoning
	// engine could not be reached
	ErrUnavailable = errors.New("service unavailable")

	// ErrExhausted indicates the tool-calling loop hit its iteration
	// bound without producing a final answer
	ErrExhausted = errors.New("max iterations reached")

	// ErrNoResponse indicates the reasoning engine returned neither text
	// nor tool calls
	ErrNoResponse = errors.New("no response generated")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)
