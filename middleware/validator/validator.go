// Package validator rejects invalid input before the orchestration loop
// spends any engine call on it.
package validator

import (
	"fmt"
	"strings"

	cuserrors "github.com/opencivic/civicassist/errors"
	"github.com/opencivic/civicassist/message"
	"github.com/opencivic/civicassist/middleware"
)

// ValidatorFunc validates raw input.
type ValidatorFunc func(string) error

// FilterFunc transforms or filters the final response.
type FilterFunc func(*message.Message) error

// InputValidator runs a validation function against the turn's input.
type InputValidator struct {
	validator ValidatorFunc
}

// NewInputValidator creates an input validation middleware.
func NewInputValidator(validator ValidatorFunc) *InputValidator {
	return &InputValidator{validator: validator}
}

// NewMessageValidator creates an input validator enforcing the chat message
// rules: non-empty after trimming and at most maxChars characters.
func NewMessageValidator(maxChars int) *InputValidator {
	return NewInputValidator(func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%w: message must not be empty", cuserrors.ErrInvalidInput)
		}
		if len(input) > maxChars {
			return fmt.Errorf("%w: message exceeds maximum length of %d characters", cuserrors.ErrInvalidInput, maxChars)
		}
		return nil
	})
}

// Name returns the middleware name.
func (m *InputValidator) Name() string {
	return "InputValidator"
}

// Execute validates the input.
func (m *InputValidator) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.validator != nil {
		if err := m.validator(ctx.Input); err != nil {
			return err
		}
	}
	return next(ctx)
}

// ResponseFilter filters or transforms the final response.
type ResponseFilter struct {
	filter FilterFunc
}

// NewResponseFilter creates a response filtering middleware.
func NewResponseFilter(filter FilterFunc) *ResponseFilter {
	return &ResponseFilter{filter: filter}
}

// Name returns the middleware name.
func (m *ResponseFilter) Name() string {
	return "ResponseFilter"
}

// Execute filters the response.
func (m *ResponseFilter) Execute(ctx *middleware.Context, next middleware.Handler) error {
	err := next(ctx)
	if err != nil {
		return err
	}
	if ctx.Response != nil && m.filter != nil {
		return m.filter(ctx.Response)
	}
	return nil
}
