package agent

// Citation ties one claim in the answer back to a registry fact.
type Citation struct {
	FactID        string `json:"fact_id"`
	URL           string `json:"url"`
	Text          string `json:"text"`
	SourceSection string `json:"source_section,omitempty"`
}

// Response is the result of one conversation turn. Citations lists every
// registry fact surfaced during the turn; ToolCallsMade records the tool
// names in invocation order.
type Response struct {
	Answer        string     `json:"answer"`
	Citations     []Citation `json:"citations"`
	ToolCallsMade []string   `json:"tool_calls_made"`
}
