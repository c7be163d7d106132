package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/opencivic/civicassist/agent"
	cuserrors "github.com/opencivic/civicassist/errors"
	"github.com/opencivic/civicassist/facts"
	"github.com/opencivic/civicassist/graph"
)

// Asker answers one question per call. It is satisfied by *agent.Agent.
type Asker interface {
	Ask(ctx context.Context, question string) (*agent.Response, error)
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	agent               Asker
	graph               graph.Store
	facts               facts.Store
	logger              *slog.Logger
	startedAt           time.Time
	version             string
	maxRequestBodyBytes int64
}

// ChatRequest is the body of POST /api/chat/message. SessionID is accepted
// for forward compatibility; every turn is currently independent.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// HandleChatMessage handles POST /api/chat/message.
func (h *Handlers) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	resp, err := h.agent.Ask(r.Context(), req.Message)
	if err != nil {
		h.writeAgentError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// writeAgentError maps pipeline errors to HTTP statuses. Internal detail
// stays in the logs; the client sees a stable code and a generic message.
func (h *Handlers) writeAgentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cuserrors.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, cuserrors.ErrUnavailable):
		h.logger.Error("chat turn failed, backend unavailable", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "unavailable",
			"The assistant is temporarily unavailable. Please try again shortly.")
	default:
		h.logger.Error("chat turn failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error",
			"Failed to generate a response. Please try again.")
	}
}

// HandleListProcesses handles GET /api/processes.
func (h *Handlers) HandleListProcesses(w http.ResponseWriter, r *http.Request) {
	processes, err := h.graph.AllProcesses(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"processes": processes})
}

// HandleGetProcess handles GET /api/processes/{process_id}.
func (h *Handlers) HandleGetProcess(w http.ResponseWriter, r *http.Request) {
	process, err := h.graph.ProcessByID(r.Context(), r.PathValue("process_id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if process == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "process not found")
		return
	}
	writeJSON(w, r, http.StatusOK, process)
}

// HandleGetProcessSteps handles GET /api/processes/{process_id}/steps.
func (h *Handlers) HandleGetProcessSteps(w http.ResponseWriter, r *http.Request) {
	processID := r.PathValue("process_id")
	process, err := h.graph.ProcessByID(r.Context(), processID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if process == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "process not found")
		return
	}
	steps, err := h.graph.ProcessSteps(r.Context(), processID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"process_id": processID, "steps": steps})
}

// HandleListFacts handles GET /api/facts. With a prefix query parameter it
// returns the matching facts, otherwise every loaded fact.
func (h *Handlers) HandleListFacts(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	var result []*facts.Fact
	if prefix != "" {
		result = h.facts.GetByPrefix(prefix)
	} else {
		result = h.facts.GetAll()
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"facts": result})
}

// HandleGetFact handles GET /api/facts/{fact_id}.
func (h *Handlers) HandleGetFact(w http.ResponseWriter, r *http.Request) {
	fact := h.facts.GetByID(r.PathValue("fact_id"))
	if fact == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "fact not found")
		return
	}
	writeJSON(w, r, http.StatusOK, fact)
}

func (h *Handlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("graph lookup failed", "error", err)
	writeError(w, r, http.StatusServiceUnavailable, "unavailable", "backend store unavailable")
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}
