package tool

// Queries are decoded from the engine's loosely-typed argument map into one
// variant per query type before any store is touched, so invalid
// combinations are rejected at the boundary.

// GraphQueryType enumerates the six graph lookups.
type GraphQueryType string

const (
	GraphGetProcess              GraphQueryType = "get_process"
	GraphGetProcessSteps         GraphQueryType = "get_process_steps"
	GraphGetProcessRequirements  GraphQueryType = "get_process_requirements"
	GraphGetStepOffice           GraphQueryType = "get_step_office"
	GraphGetStepDocuments        GraphQueryType = "get_step_documents"
	GraphGetRequirementDocuments GraphQueryType = "get_requirement_documents"
)

// FactsQueryType enumerates the three facts lookups.
type FactsQueryType string

const (
	FactsByID     FactsQueryType = "by_id"
	FactsByPrefix FactsQueryType = "by_prefix"
	FactsAll      FactsQueryType = "all"
)

// GraphQuery is a decoded query_graph invocation. Exactly one companion id
// is set, matching the query type.
type GraphQuery struct {
	Type          GraphQueryType
	ProcessID     string
	StepID        string
	RequirementID string
}

// FactsQuery is a decoded query_facts invocation.
type FactsQuery struct {
	Type   FactsQueryType
	FactID string
	Prefix string
}

func missingParameter(name string) Result {
	return Result{
		"error":   "missing_parameter",
		"message": "Missing required parameter: " + name,
	}
}

func unknownQueryType(queryType string) Result {
	return Result{
		"error":   "unknown_query_type",
		"message": "Unknown query_type: " + queryType,
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// decodeGraphQuery validates a query_graph argument map. It returns either
// a decoded query or an error payload, never both.
func decodeGraphQuery(args map[string]any) (*GraphQuery, Result) {
	queryType := stringArg(args, "query_type")
	if queryType == "" {
		return nil, missingParameter("query_type")
	}

	q := &GraphQuery{Type: GraphQueryType(queryType)}
	switch q.Type {
	case GraphGetProcess, GraphGetProcessSteps, GraphGetProcessRequirements:
		q.ProcessID = stringArg(args, "process_id")
		if q.ProcessID == "" {
			return nil, missingParameter("process_id")
		}
	case GraphGetStepOffice, GraphGetStepDocuments:
		q.StepID = stringArg(args, "step_id")
		if q.StepID == "" {
			return nil, missingParameter("step_id")
		}
	case GraphGetRequirementDocuments:
		q.RequirementID = stringArg(args, "requirement_id")
		if q.RequirementID == "" {
			return nil, missingParameter("requirement_id")
		}
	default:
		return nil, unknownQueryType(queryType)
	}
	return q, nil
}

// decodeFactsQuery validates a query_facts argument map.
func decodeFactsQuery(args map[string]any) (*FactsQuery, Result) {
	queryType := stringArg(args, "query_type")
	if queryType == "" {
		return nil, missingParameter("query_type")
	}

	q := &FactsQuery{Type: FactsQueryType(queryType)}
	switch q.Type {
	case FactsByID:
		q.FactID = stringArg(args, "fact_id")
		if q.FactID == "" {
			return nil, missingParameter("fact_id")
		}
	case FactsByPrefix:
		q.Prefix = stringArg(args, "prefix")
		if q.Prefix == "" {
			return nil, missingParameter("prefix")
		}
	case FactsAll:
	default:
		return nil, unknownQueryType(queryType)
	}
	return q, nil
}
