package agent

import (
	"github.com/opencivic/civicassist/pkg/logging"
	"github.com/opencivic/civicassist/tool"
)

// ExtractCitations collects every registry fact surfaced by the turn's tool
// results into citations. Facts are deduplicated by fact id, first
// occurrence wins. Entries missing an id, source URL, or text are skipped:
// a malformed fact must never become an unverifiable citation.
func ExtractCitations(results []tool.Result) []Citation {
	logger := logging.WithComponent("citations")
	citations := []Citation{}
	seen := make(map[string]bool)

	add := func(data map[string]any) {
		id, _ := data["id"].(string)
		url, _ := data["source_url"].(string)
		text, _ := data["text"].(string)
		if id == "" || url == "" || text == "" {
			logger.Warn("skipping malformed fact data", "fact", data)
			return
		}
		if seen[id] {
			return
		}
		seen[id] = true
		section, _ := data["source_section"].(string)
		citations = append(citations, Citation{
			FactID:        id,
			URL:           url,
			Text:          text,
			SourceSection: section,
		})
	}

	for _, result := range results {
		if fact, ok := result["fact"].(map[string]any); ok && fact != nil {
			add(fact)
			continue
		}
		switch facts := result["facts"].(type) {
		case []map[string]any:
			for _, fact := range facts {
				add(fact)
			}
		case []any:
			for _, item := range facts {
				if fact, ok := item.(map[string]any); ok {
					add(fact)
				}
			}
		}
	}
	return citations
}
