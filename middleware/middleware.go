// Package middleware provides an interception chain around the
// conversation pipeline. Middlewares observe or reject a turn before the
// orchestration loop runs and inspect the outcome after it returns.
package middleware

import (
	"context"

	"github.com/opencivic/civicassist/message"
)

// Context carries one conversation turn through the chain.
type Context struct {
	// Original user input
	Input string

	// Messages accumulated for the turn
	Messages []*message.Message

	// Final assistant message
	Response *message.Message

	// Error from the pipeline
	Error error

	// Metadata for passing data between middlewares
	Metadata map[string]any

	context context.Context
}

// NewContext creates a middleware context for one turn.
func NewContext(ctx context.Context) *Context {
	return &Context{
		Metadata: make(map[string]any),
		context:  ctx,
	}
}

// Context returns the underlying context.Context.
func (c *Context) Context() context.Context {
	return c.context
}

// Middleware intercepts a turn. Returning an error stops the chain and the
// turn fails with that error.
type Middleware interface {
	// Name identifies the middleware in logs.
	Name() string

	// Execute runs the middleware, calling next to continue the chain.
	Execute(ctx *Context, next Handler) error
}

// Handler passes control to the next middleware or the final handler.
type Handler func(*Context) error

// Chain is an ordered sequence of middlewares.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a chain from the given middlewares.
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// Add appends a middleware to the chain.
func (c *Chain) Add(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Execute runs the chain, ending at finalHandler.
func (c *Chain) Execute(ctx *Context, finalHandler Handler) error {
	return c.execute(ctx, 0, finalHandler)
}

func (c *Chain) execute(ctx *Context, index int, finalHandler Handler) error {
	if index >= len(c.middlewares) {
		return finalHandler(ctx)
	}
	next := func(ctx *Context) error {
		return c.execute(ctx, index+1, finalHandler)
	}
	return c.middlewares[index].Execute(ctx, next)
}
