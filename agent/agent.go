// Package agent implements the citation-enforcing conversation agent. It
// wraps a reasoning engine in a bounded tool-calling loop: the engine may
// only reach the process graph and the facts registry through the two
// read-only query tools, and every fact surfaced by those tools becomes a
// citation on the final answer.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cuserrors "github.com/opencivic/civicassist/errors"
	"github.com/opencivic/civicassist/message"
	"github.com/opencivic/civicassist/middleware"
	"github.com/opencivic/civicassist/middleware/validator"
	"github.com/opencivic/civicassist/pkg/logging"
	"github.com/opencivic/civicassist/pkg/telemetry"
	"github.com/opencivic/civicassist/tool"
)

const (
	// MaxQuestionChars bounds the accepted input length.
	MaxQuestionChars = 10000

	// Iteration bounds for the tool-calling loop.
	DefaultMaxIterations = 5
	MinIterations        = 1
	MaxIterations        = 20
)

// Engine is the reasoning backend. One Generate call is one model turn; the
// engine signals tool usage through ToolCalls on the returned message.
type Engine interface {
	Generate(ctx context.Context, req *GenerateRequest) (*message.Message, error)
}

// GenerateRequest carries one model turn: the system prompt, the
// conversation so far, and the tools the engine may call.
type GenerateRequest struct {
	System   string
	Messages []*message.Message
	Tools    []tool.Definition
}

// Agent answers resident questions with citations.
type Agent struct {
	engine        Engine
	dispatcher    *tool.Dispatcher
	systemPrompt  string
	maxIterations int
	middlewares   *middleware.Chain
	tracer        trace.Tracer
	logger        *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithEngine sets the reasoning backend.
func WithEngine(engine Engine) Option {
	return func(a *Agent) {
		a.engine = engine
	}
}

// WithMaxIterations bounds the tool-calling loop. Values outside [1, 20]
// are rejected when Ask runs.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		a.maxIterations = n
	}
}

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithMiddleware appends a middleware to the chain.
func WithMiddleware(m middleware.Middleware) Option {
	return func(a *Agent) {
		a.middlewares.Add(m)
	}
}

// New creates an agent over the given tool dispatcher. Input validation is
// always the first link in the middleware chain, so no engine call is spent
// on an empty or oversized question.
func New(dispatcher *tool.Dispatcher, opts ...Option) *Agent {
	a := &Agent{
		dispatcher:    dispatcher,
		systemPrompt:  SystemPrompt,
		maxIterations: DefaultMaxIterations,
		middlewares:   middleware.NewChain(validator.NewMessageValidator(MaxQuestionChars)),
		tracer:        otel.Tracer("civicassist/agent"),
		logger:        logging.WithComponent("agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers one question and returns the cited response. Each call is an
// independent turn; no conversation state is kept between calls.
func (a *Agent) Ask(ctx context.Context, question string) (*Response, error) {
	if a.engine == nil {
		return nil, fmt.Errorf("%w: no engine configured", cuserrors.ErrInternal)
	}
	if a.maxIterations < MinIterations || a.maxIterations > MaxIterations {
		return nil, fmt.Errorf("%w: max_iterations must be between %d and %d",
			cuserrors.ErrInvalidInput, MinIterations, MaxIterations)
	}

	ctx, span := a.tracer.Start(ctx, "agent.ask",
		trace.WithAttributes(attribute.Int("question_chars", len(question))))

	mwCtx := middleware.NewContext(ctx)
	mwCtx.Input = question

	var resp *Response
	err := a.middlewares.Execute(mwCtx, func(mwCtx *middleware.Context) error {
		var loopErr error
		resp, loopErr = a.run(mwCtx.Context(), strings.TrimSpace(mwCtx.Input))
		if loopErr != nil {
			mwCtx.Error = loopErr
			return loopErr
		}
		mwCtx.Response = message.NewMessage(message.RoleAssistant, resp.Answer)
		return nil
	})
	telemetry.End(span, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// run executes the tool-calling loop. Exactly maxIterations engine calls
// are allowed; a turn that still wants tools after the last one fails.
func (a *Agent) run(ctx context.Context, question string) (*Response, error) {
	tools := tool.Definitions()
	messages := []*message.Message{message.NewMessage(message.RoleUser, question)}

	var toolResults []tool.Result
	toolCallsMade := []string{}

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		a.logger.Debug("engine turn", "iteration", iteration+1)

		response, err := a.engine.Generate(ctx, &GenerateRequest{
			System:   a.systemPrompt,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: engine generate: %v", cuserrors.ErrUnavailable, err)
		}

		if len(response.ToolCalls) == 0 {
			answer := response.Text()
			if answer == "" {
				return nil, fmt.Errorf("%w: engine returned no text", cuserrors.ErrNoResponse)
			}
			return &Response{
				Answer:        answer,
				Citations:     ExtractCitations(toolResults),
				ToolCallsMade: toolCallsMade,
			}, nil
		}

		messages = append(messages, response)
		for _, call := range response.ToolCalls {
			toolCallsMade = append(toolCallsMade, call.Name)
			result := a.dispatcher.Dispatch(ctx, call.Name, call.Args)
			toolResults = append(toolResults, result)
			messages = append(messages, message.NewToolResponseMessage(call.ID, result.JSON()))
		}
	}

	return nil, fmt.Errorf("%w: no final response after %d iterations",
		cuserrors.ErrExhausted, a.maxIterations)
}
