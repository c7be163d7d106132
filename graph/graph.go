// Package graph provides the read-only query surface over the government
// process graph: processes, steps, requirements, offices, and document
// types. Lookups return nil or empty results for "not found"; errors are
// reserved for genuine backend failure.
package graph

import (
	"context"
	"time"

	"github.com/opencivic/civicassist/facts"
)

// Process is a government process a resident can complete.
type Process struct {
	ProcessID    string `json:"process_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Jurisdiction string `json:"jurisdiction"`
	Citation
}

// Step is one ordered action within a process.
type Step struct {
	StepID               string  `json:"step_id"`
	ProcessID            string  `json:"process_id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Order                int     `json:"order"`
	EstimatedTimeMinutes int     `json:"estimated_time_minutes,omitempty"`
	CostUSD              float64 `json:"cost_usd"`
	Optional             bool    `json:"optional"`
	Citation
}

// Requirement is a condition an applicant must satisfy. A hard gate blocks
// process completion when unmet. FactID ties the requirement back to the
// Facts Registry, which remains the citation authority.
type Requirement struct {
	RequirementID    string `json:"requirement_id"`
	Text             string `json:"text"`
	FactID           string `json:"fact_id"`
	AppliesToProcess string `json:"applies_to_process"`
	HardGate         bool   `json:"hard_gate"`
	SourceSection    string `json:"source_section,omitempty"`
	Citation
}

// Office is a physical or administrative office handling one or more steps.
type Office struct {
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Room     string `json:"room,omitempty"`
	Hours    string `json:"hours"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Citation
}

// DocumentType describes an acceptable class of proof document.
type DocumentType struct {
	DocTypeID            string   `json:"doc_type_id"`
	Name                 string   `json:"name"`
	FactID               string   `json:"fact_id"`
	FreshnessDays        int      `json:"freshness_days"`
	NameMatchRequired    bool     `json:"name_match_required"`
	AddressMatchRequired bool     `json:"address_match_required"`
	Examples             []string `json:"examples,omitempty"`
	Citation
}

// Citation carries the source metadata every graph entity must reference.
type Citation struct {
	SourceURL    string           `json:"source_url"`
	LastVerified time.Time        `json:"last_verified"`
	Confidence   facts.Confidence `json:"confidence"`
}

// Store is the graph query surface consumed by the tool dispatcher. All
// implementations must support concurrent reads.
type Store interface {
	ProcessByID(ctx context.Context, processID string) (*Process, error)
	AllProcesses(ctx context.Context) ([]*Process, error)
	ProcessSteps(ctx context.Context, processID string) ([]*Step, error)
	ProcessRequirements(ctx context.Context, processID string) ([]*Requirement, error)
	HardGateRequirements(ctx context.Context, processID string) ([]*Requirement, error)
	StepByID(ctx context.Context, stepID string) (*Step, error)
	StepDependencies(ctx context.Context, stepID string) ([]*Step, error)
	StepOffice(ctx context.Context, stepID string) (*Office, error)
	StepDocuments(ctx context.Context, stepID string) ([]*DocumentType, error)
	RequirementDocuments(ctx context.Context, requirementID string) ([]*DocumentType, error)
}
