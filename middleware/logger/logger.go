// Package logger provides request and response logging middlewares.
package logger

import (
	"log/slog"

	"github.com/opencivic/civicassist/middleware"
	"github.com/opencivic/civicassist/pkg/logging"
)

// RequestLogger logs incoming turns. Only the input length is logged so
// resident messages never land in logs verbatim.
type RequestLogger struct {
	logger *slog.Logger
}

// NewRequestLogger creates a request logging middleware.
func NewRequestLogger() *RequestLogger {
	return &RequestLogger{logger: logging.WithComponent("middleware")}
}

// Name returns the middleware name.
func (m *RequestLogger) Name() string {
	return "RequestLogger"
}

// Execute logs the request and continues the chain.
func (m *RequestLogger) Execute(ctx *middleware.Context, next middleware.Handler) error {
	m.logger.Info("conversation turn started", "input_chars", len(ctx.Input))
	return next(ctx)
}

// ResponseLogger logs the outcome of a turn.
type ResponseLogger struct {
	logger *slog.Logger
}

// NewResponseLogger creates a response logging middleware.
func NewResponseLogger() *ResponseLogger {
	return &ResponseLogger{logger: logging.WithComponent("middleware")}
}

// Name returns the middleware name.
func (m *ResponseLogger) Name() string {
	return "ResponseLogger"
}

// Execute runs the chain, then logs the outcome.
func (m *ResponseLogger) Execute(ctx *middleware.Context, next middleware.Handler) error {
	err := next(ctx)
	switch {
	case err != nil:
		m.logger.Error("conversation turn failed", "error", err)
	case ctx.Response != nil:
		m.logger.Info("conversation turn completed", "response_chars", len(ctx.Response.Content))
	}
	return err
}
