// Package tool defines the two query tools exposed to the reasoning engine
// and the dispatcher that routes tool invocations to the backing stores.
package tool

import "encoding/json"

// Tool names exposed to the reasoning engine.
const (
	NameQueryGraph = "query_graph"
	NameQueryFacts = "query_facts"
)

// Definition describes one tool to the reasoning engine: its name and the
// JSON schema of its input object. Providers translate this into their
// SDK-native tool format.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Result is the structured payload of a single tool invocation. It is
// either an error payload ({"error": ..., ...}) or a domain payload keyed
// by entity type ({"fact": ...}, {"steps": [...]}, ...).
type Result map[string]any

// IsError reports whether the result is an error payload.
func (r Result) IsError() bool {
	_, ok := r["error"]
	return ok
}

// JSON serializes the result for inclusion in conversation history.
func (r Result) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"error":"internal_error"}`
	}
	return string(data)
}

// Definitions returns the fixed two-tool schema. The engine's tool calls
// are only valid against exactly this contract.
func Definitions() []Definition {
	return []Definition{
		{
			Name: NameQueryGraph,
			Description: "Query the government process graph for process structure, steps, " +
				"requirements, offices, and document types. Use this to understand the " +
				"process flow, dependencies, and what entities are involved.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query_type": map[string]any{
						"type": "string",
						"enum": []string{
							"get_process",
							"get_process_steps",
							"get_process_requirements",
							"get_step_office",
							"get_step_documents",
							"get_requirement_documents",
						},
						"description": "Type of graph query to execute",
					},
					"process_id": map[string]any{
						"type":        "string",
						"description": "Process identifier (e.g., 'boston_resident_parking_permit'). Required for process queries.",
					},
					"step_id": map[string]any{
						"type":        "string",
						"description": "Step identifier. Required for step queries.",
					},
					"requirement_id": map[string]any{
						"type":        "string",
						"description": "Requirement identifier. Required for requirement queries.",
					},
				},
				"required": []string{"query_type"},
			},
		},
		{
			Name: NameQueryFacts,
			Description: "Query the Facts Registry for verified regulatory facts. Use this to get " +
				"cited information about eligibility, requirements, costs, timing, office info, " +
				"and all regulatory details. ALL regulatory claims must come from this registry.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query_type": map[string]any{
						"type":        "string",
						"enum":        []string{"by_id", "by_prefix", "all"},
						"description": "Type of facts query: by_id (specific fact), by_prefix (category), or all (all loaded facts)",
					},
					"fact_id": map[string]any{
						"type":        "string",
						"description": "Specific fact ID to retrieve. Required when query_type is 'by_id'. Example: 'rpp.eligibility.vehicle_class'",
					},
					"prefix": map[string]any{
						"type":        "string",
						"description": "Fact ID prefix to match. Required when query_type is 'by_prefix'. Example: 'rpp.eligibility' to get all eligibility facts.",
					},
				},
				"required": []string{"query_type"},
			},
		},
	}
}
