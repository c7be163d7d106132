package agent

import (
	"testing"

	"github.com/opencivic/civicassist/tool"
)

func factPayload(id string) map[string]any {
	return map[string]any{
		"id":         id,
		"text":       "some regulatory claim",
		"source_url": "https://www.boston.gov/departments/parking-clerk",
	}
}

func TestExtractCitationsSingleFact(t *testing.T) {
	results := []tool.Result{
		{"fact": factPayload("rpp.eligibility.vehicle_class")},
	}
	citations := ExtractCitations(results)
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	c := citations[0]
	if c.FactID != "rpp.eligibility.vehicle_class" || c.URL == "" || c.Text == "" {
		t.Errorf("unexpected citation: %+v", c)
	}
}

func TestExtractCitationsDedupFirstWins(t *testing.T) {
	first := factPayload("rpp.office.location")
	first["text"] = "first occurrence"
	second := factPayload("rpp.office.location")
	second["text"] = "second occurrence"

	results := []tool.Result{
		{"fact": first},
		{"facts": []map[string]any{second, factPayload("rpp.office.hours")}},
	}
	citations := ExtractCitations(results)
	if len(citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(citations))
	}
	if citations[0].Text != "first occurrence" {
		t.Errorf("dedup did not keep first occurrence: %q", citations[0].Text)
	}
	if citations[1].FactID != "rpp.office.hours" {
		t.Errorf("second citation = %q", citations[1].FactID)
	}
}

func TestExtractCitationsSkipsMalformed(t *testing.T) {
	noID := factPayload("")
	noURL := factPayload("rpp.a")
	delete(noURL, "source_url")
	noText := factPayload("rpp.b")
	delete(noText, "text")

	results := []tool.Result{
		{"facts": []map[string]any{noID, noURL, noText, factPayload("rpp.c")}},
	}
	citations := ExtractCitations(results)
	if len(citations) != 1 || citations[0].FactID != "rpp.c" {
		t.Errorf("unexpected citations: %+v", citations)
	}
}

func TestExtractCitationsIgnoresNonFactResults(t *testing.T) {
	results := []tool.Result{
		{"process": map[string]any{"process_id": "boston_resident_parking_permit"}},
		{"steps": []map[string]any{{"step_id": "rpp_step_1_check_eligibility"}}},
		{"error": "internal_error", "tool": "query_graph"},
		{"fact": nil},
	}
	if citations := ExtractCitations(results); len(citations) != 0 {
		t.Errorf("expected no citations, got %+v", citations)
	}
}

func TestExtractCitationsGenericSlice(t *testing.T) {
	// Results decoded from JSON carry []any rather than []map[string]any.
	results := []tool.Result{
		{"facts": []any{factPayload("rpp.x"), "not a map"}},
	}
	citations := ExtractCitations(results)
	if len(citations) != 1 || citations[0].FactID != "rpp.x" {
		t.Errorf("unexpected citations: %+v", citations)
	}
}

func TestExtractCitationsSourceSection(t *testing.T) {
	fact := factPayload("rpp.y")
	fact["source_section"] = "What you'll need"
	citations := ExtractCitations([]tool.Result{{"fact": fact}})
	if len(citations) != 1 || citations[0].SourceSection != "What you'll need" {
		t.Errorf("unexpected citations: %+v", citations)
	}
}
