package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cuserrors "github.com/opencivic/civicassist/errors"
	"github.com/opencivic/civicassist/facts"
	"github.com/opencivic/civicassist/graph"
	"github.com/opencivic/civicassist/message"
	"github.com/opencivic/civicassist/tool"
)

// memFacts is a fixed in-memory facts store.
type memFacts struct {
	list []*facts.Fact
}

func (s *memFacts) GetByID(id string) *facts.Fact {
	for _, f := range s.list {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (s *memFacts) GetByPrefix(prefix string) []*facts.Fact {
	out := []*facts.Fact{}
	for _, f := range s.list {
		if strings.HasPrefix(f.ID, prefix) {
			out = append(out, f)
		}
	}
	return out
}

func (s *memFacts) GetAll() []*facts.Fact {
	return s.list
}

func testFacts() *memFacts {
	verified := facts.NewDate(time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC))
	return &memFacts{list: []*facts.Fact{
		{
			ID:           "rpp.eligibility.vehicle_class",
			Text:         "The vehicle must be a non-commercial passenger vehicle.",
			SourceURL:    "https://www.boston.gov/departments/parking-clerk",
			LastVerified: verified,
			Confidence:   facts.ConfidenceHigh,
		},
		{
			ID:           "rpp.eligibility.residency_duration",
			Text:         "You must currently reside in the permit neighborhood.",
			SourceURL:    "https://www.boston.gov/departments/parking-clerk",
			LastVerified: verified,
			Confidence:   facts.ConfidenceHigh,
		},
		{
			ID:           "rpp.eligibility.address_match",
			Text:         "Your vehicle registration address must match your Boston residence.",
			SourceURL:    "https://www.boston.gov/departments/parking-clerk",
			LastVerified: verified,
			Confidence:   facts.ConfidenceHigh,
		},
	}}
}

// scriptedEngine replays a fixed sequence of turns. Once the script is
// exhausted it keeps returning the last turn.
type scriptedEngine struct {
	turns []*message.Message
	err   error
	calls int
	seen  []*GenerateRequest
}

func (e *scriptedEngine) Generate(_ context.Context, req *GenerateRequest) (*message.Message, error) {
	e.calls++
	e.seen = append(e.seen, req)
	if e.err != nil {
		return nil, e.err
	}
	idx := e.calls - 1
	if idx >= len(e.turns) {
		idx = len(e.turns) - 1
	}
	return e.turns[idx], nil
}

func textTurn(text string) *message.Message {
	return message.NewMessage(message.RoleAssistant, text)
}

func toolTurn(calls ...message.ToolCall) *message.Message {
	msg := message.NewMessage(message.RoleAssistant, "")
	msg.ToolCalls = calls
	return msg
}

func newTestAgent(engine Engine, opts ...Option) *Agent {
	d := tool.NewDispatcher(testFacts(), graph.BostonRPP())
	opts = append([]Option{WithEngine(engine)}, opts...)
	return New(d, opts...)
}

func TestAskDirectAnswer(t *testing.T) {
	engine := &scriptedEngine{turns: []*message.Message{textTurn("Hello! How can I help?")}}
	a := newTestAgent(engine)

	resp, err := a.Ask(context.Background(), "Hi there")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Answer != "Hello! How can I help?" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Citations) != 0 {
		t.Errorf("expected no citations, got %d", len(resp.Citations))
	}
	if len(resp.ToolCallsMade) != 0 {
		t.Errorf("expected no tool calls, got %v", resp.ToolCallsMade)
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times, want 1", engine.calls)
	}
}

func TestAskInputValidation(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"too long", strings.Repeat("a", MaxQuestionChars+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &scriptedEngine{turns: []*message.Message{textTurn("hi")}}
			a := newTestAgent(engine)

			_, err := a.Ask(context.Background(), tt.question)
			if !errors.Is(err, cuserrors.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if engine.calls != 0 {
				t.Errorf("engine called %d times on invalid input, want 0", engine.calls)
			}
		})
	}
}

func TestAskMaxLengthBoundary(t *testing.T) {
	engine := &scriptedEngine{turns: []*message.Message{textTurn("ok")}}
	a := newTestAgent(engine)

	if _, err := a.Ask(context.Background(), strings.Repeat("a", MaxQuestionChars)); err != nil {
		t.Errorf("question of exactly %d chars rejected: %v", MaxQuestionChars, err)
	}
}

func TestAskMaxIterationsValidation(t *testing.T) {
	for _, n := range []int{0, -1, 21} {
		engine := &scriptedEngine{turns: []*message.Message{textTurn("ok")}}
		a := newTestAgent(engine, WithMaxIterations(n))

		_, err := a.Ask(context.Background(), "question")
		if !errors.Is(err, cuserrors.ErrInvalidInput) {
			t.Errorf("max_iterations=%d: err = %v, want ErrInvalidInput", n, err)
		}
		if engine.calls != 0 {
			t.Errorf("max_iterations=%d: engine called %d times, want 0", n, engine.calls)
		}
	}
}

func TestAskIterationBound(t *testing.T) {
	// Engine wants tools on every turn; the loop must stop after exactly
	// maxIterations engine calls.
	engine := &scriptedEngine{turns: []*message.Message{
		toolTurn(message.ToolCall{ID: "t1", Name: tool.NameQueryFacts,
			Args: map[string]any{"query_type": "all"}}),
	}}
	a := newTestAgent(engine, WithMaxIterations(3))

	_, err := a.Ask(context.Background(), "Am I eligible?")
	if !errors.Is(err, cuserrors.ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if engine.calls != 3 {
		t.Errorf("engine called %d times, want exactly 3", engine.calls)
	}
}

func TestAskEngineFailure(t *testing.T) {
	engine := &scriptedEngine{err: errors.New("api timeout")}
	a := newTestAgent(engine)

	_, err := a.Ask(context.Background(), "question")
	if !errors.Is(err, cuserrors.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestAskEmptyEngineText(t *testing.T) {
	engine := &scriptedEngine{turns: []*message.Message{textTurn("")}}
	a := newTestAgent(engine)

	_, err := a.Ask(context.Background(), "question")
	if !errors.Is(err, cuserrors.ErrNoResponse) {
		t.Fatalf("err = %v, want ErrNoResponse", err)
	}
}

func TestAskEligibilityScenario(t *testing.T) {
	// Turn 1 queries eligibility facts, turn 2 answers.
	engine := &scriptedEngine{turns: []*message.Message{
		toolTurn(message.ToolCall{ID: "t1", Name: tool.NameQueryFacts,
			Args: map[string]any{"query_type": "by_prefix", "prefix": "rpp.eligibility"}}),
		textTurn("To be eligible, your vehicle must be a non-commercial passenger vehicle."),
	}}
	a := newTestAgent(engine)

	resp, err := a.Ask(context.Background(), "Am I eligible for a resident parking permit?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if len(resp.Citations) != 3 {
		t.Fatalf("got %d citations, want 3", len(resp.Citations))
	}
	for _, c := range resp.Citations {
		if !strings.HasPrefix(c.FactID, "rpp.eligibility") {
			t.Errorf("unexpected citation %q", c.FactID)
		}
		if c.URL == "" || c.Text == "" {
			t.Errorf("citation %q missing url or text", c.FactID)
		}
	}
	want := []string{tool.NameQueryFacts}
	if len(resp.ToolCallsMade) != 1 || resp.ToolCallsMade[0] != want[0] {
		t.Errorf("tool_calls_made = %v, want %v", resp.ToolCallsMade, want)
	}
}

func TestAskCombinedLookupOrder(t *testing.T) {
	engine := &scriptedEngine{turns: []*message.Message{
		toolTurn(
			message.ToolCall{ID: "t1", Name: tool.NameQueryGraph,
				Args: map[string]any{"query_type": "get_process_steps", "process_id": "boston_resident_parking_permit"}},
			message.ToolCall{ID: "t2", Name: tool.NameQueryFacts,
				Args: map[string]any{"query_type": "by_id", "fact_id": "rpp.eligibility.vehicle_class"}},
		),
		textTurn("There are three steps, starting with checking eligibility."),
	}}
	a := newTestAgent(engine)

	resp, err := a.Ask(context.Background(), "What are the steps?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	want := []string{tool.NameQueryGraph, tool.NameQueryFacts}
	if len(resp.ToolCallsMade) != 2 {
		t.Fatalf("tool_calls_made = %v, want %v", resp.ToolCallsMade, want)
	}
	for i, name := range want {
		if resp.ToolCallsMade[i] != name {
			t.Errorf("tool_calls_made[%d] = %q, want %q", i, resp.ToolCallsMade[i], name)
		}
	}

	// Graph rows are not citations; only the one queried fact is.
	if len(resp.Citations) != 1 || resp.Citations[0].FactID != "rpp.eligibility.vehicle_class" {
		t.Errorf("unexpected citations: %+v", resp.Citations)
	}
}

func TestAskToolErrorDoesNotAbortTurn(t *testing.T) {
	// An unknown query type yields an error payload; the loop must hand it
	// back to the engine instead of failing the ask.
	engine := &scriptedEngine{turns: []*message.Message{
		toolTurn(message.ToolCall{ID: "t1", Name: tool.NameQueryFacts,
			Args: map[string]any{"query_type": "fuzzy"}}),
		textTurn("I don't have verified information about that."),
	}}
	a := newTestAgent(engine)

	resp, err := a.Ask(context.Background(), "question")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if len(resp.Citations) != 0 {
		t.Errorf("error results must not produce citations, got %+v", resp.Citations)
	}

	// The error payload must reach the engine as a tool message.
	last := engine.seen[1].Messages
	toolMsg := last[len(last)-1]
	if toolMsg.Role != message.RoleTool || !strings.Contains(toolMsg.Content, "unknown_query_type") {
		t.Errorf("tool error payload not in history: %+v", toolMsg)
	}
}

func TestAskTrimsQuestion(t *testing.T) {
	engine := &scriptedEngine{turns: []*message.Message{textTurn("hi")}}
	a := newTestAgent(engine)

	if _, err := a.Ask(context.Background(), "  what are the steps?  "); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if got := engine.seen[0].Messages[0].Content; got != "what are the steps?" {
		t.Errorf("question not trimmed: %q", got)
	}
}

func TestAskSendsSystemPromptAndTools(t *testing.T) {
	engine := &scriptedEngine{turns: []*message.Message{textTurn("hi")}}
	a := newTestAgent(engine)

	if _, err := a.Ask(context.Background(), "hello"); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	req := engine.seen[0]
	if req.System == "" {
		t.Error("system prompt missing from request")
	}
	if len(req.Tools) != 2 {
		t.Errorf("got %d tools, want 2", len(req.Tools))
	}
}
