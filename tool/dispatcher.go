package tool

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/opencivic/civicassist/facts"
	"github.com/opencivic/civicassist/graph"
	"github.com/opencivic/civicassist/pkg/logging"
)

// Fixed user-safe message for backend failures. Store error details are
// logged but must never reach the reasoning engine or the end user.
const internalErrorMessage = "Tool execution failed due to an internal error. " +
	"Please try rephrasing your query or contact support if the issue persists."

// Dispatcher routes one tool invocation to the Fact Store or Graph Store
// and normalizes the outcome into a plain Result. Dispatch never returns an
// error: every failure mode becomes a structured error payload the engine
// can react to.
type Dispatcher struct {
	facts  facts.Store
	graph  graph.Store
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over the two backing stores.
func NewDispatcher(factStore facts.Store, graphStore graph.Store) *Dispatcher {
	return &Dispatcher{
		facts:  factStore,
		graph:  graphStore,
		logger: logging.WithComponent("dispatcher"),
	}
}

func internalError(toolName string) Result {
	return Result{
		"error":   "internal_error",
		"tool":    toolName,
		"message": internalErrorMessage,
	}
}

// Dispatch executes one tool invocation and always returns a Result.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args map[string]any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool dispatch panicked", "tool", toolName, "panic", r)
			result = internalError(toolName)
		}
	}()

	d.logger.Debug("dispatching tool", "tool", toolName, "args", args)

	switch toolName {
	case NameQueryGraph:
		return d.dispatchGraph(ctx, args)
	case NameQueryFacts:
		return d.dispatchFacts(args)
	default:
		d.logger.Warn("unknown tool requested", "tool", toolName)
		return Result{
			"error":   "unknown_tool",
			"tool":    toolName,
			"message": "Unknown tool: " + toolName,
		}
	}
}

func (d *Dispatcher) dispatchGraph(ctx context.Context, args map[string]any) Result {
	q, errResult := decodeGraphQuery(args)
	if errResult != nil {
		return errResult
	}

	switch q.Type {
	case GraphGetProcess:
		process, err := d.graph.ProcessByID(ctx, q.ProcessID)
		if err != nil {
			return d.graphError(q, err)
		}
		if process == nil {
			return Result{"process": nil}
		}
		return Result{"process": entityPayload(process)}
	case GraphGetProcessSteps:
		steps, err := d.graph.ProcessSteps(ctx, q.ProcessID)
		if err != nil {
			return d.graphError(q, err)
		}
		return Result{"steps": entityList(steps)}
	case GraphGetProcessRequirements:
		reqs, err := d.graph.ProcessRequirements(ctx, q.ProcessID)
		if err != nil {
			return d.graphError(q, err)
		}
		return Result{"requirements": entityList(reqs)}
	case GraphGetStepOffice:
		office, err := d.graph.StepOffice(ctx, q.StepID)
		if err != nil {
			return d.graphError(q, err)
		}
		if office == nil {
			return Result{"office": nil}
		}
		return Result{"office": entityPayload(office)}
	case GraphGetStepDocuments:
		docs, err := d.graph.StepDocuments(ctx, q.StepID)
		if err != nil {
			return d.graphError(q, err)
		}
		return Result{"documents": entityList(docs)}
	case GraphGetRequirementDocuments:
		docs, err := d.graph.RequirementDocuments(ctx, q.RequirementID)
		if err != nil {
			return d.graphError(q, err)
		}
		return Result{"documents": entityList(docs)}
	}
	return unknownQueryType(string(q.Type))
}

func (d *Dispatcher) graphError(q *GraphQuery, err error) Result {
	d.logger.Error("graph query failed", "query_type", q.Type, "error", err)
	return internalError(NameQueryGraph)
}

func (d *Dispatcher) dispatchFacts(args map[string]any) Result {
	q, errResult := decodeFactsQuery(args)
	if errResult != nil {
		return errResult
	}

	switch q.Type {
	case FactsByID:
		fact := d.facts.GetByID(q.FactID)
		if fact == nil {
			return Result{"fact": nil}
		}
		return Result{"fact": entityPayload(fact)}
	case FactsByPrefix:
		return Result{"facts": entityList(d.facts.GetByPrefix(q.Prefix))}
	case FactsAll:
		return Result{"facts": entityList(d.facts.GetAll())}
	}
	return unknownQueryType(string(q.Type))
}

// entityPayload converts a typed entity into the plain map shape the
// conversation surface carries. A nil entity stays nil so "not found" is
// visible to the engine.
func entityPayload[T any](entity *T) map[string]any {
	if entity == nil {
		return nil
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return payload
}

func entityList[T any](entities []*T) []map[string]any {
	out := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		if payload := entityPayload(e); payload != nil {
			out = append(out, payload)
		}
	}
	return out
}
