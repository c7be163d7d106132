package graph

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store implementation. It is the default
// backend for development and tests; relations are fixed after seeding and
// reads are safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	processes map[string]*Process
	procOrder []string
	steps     map[string]*Step
	reqs      map[string]*Requirement
	docs      map[string]*DocumentType
	offices   map[string]*Office

	processSteps map[string][]string // process_id -> step_ids (insertion order)
	processReqs  map[string][]string
	stepDeps     map[string][]string // step_id -> prerequisite step_ids
	stepOffice   map[string]string   // step_id -> office_id (zero or one)
	stepDocs     map[string][]string
	reqDocs      map[string][]string
}

// NewMemoryStore creates an empty in-memory graph store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		processes:    make(map[string]*Process),
		steps:        make(map[string]*Step),
		reqs:         make(map[string]*Requirement),
		docs:         make(map[string]*DocumentType),
		offices:      make(map[string]*Office),
		processSteps: make(map[string][]string),
		processReqs:  make(map[string][]string),
		stepDeps:     make(map[string][]string),
		stepOffice:   make(map[string]string),
		stepDocs:     make(map[string][]string),
		reqDocs:      make(map[string][]string),
	}
}

// AddProcess registers a process node.
func (m *MemoryStore) AddProcess(p *Process) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.processes[p.ProcessID]; !exists {
		m.procOrder = append(m.procOrder, p.ProcessID)
	}
	m.processes[p.ProcessID] = p
}

// AddStep registers a step and links it to its process.
func (m *MemoryStore) AddStep(s *Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.steps[s.StepID]; !exists {
		m.processSteps[s.ProcessID] = append(m.processSteps[s.ProcessID], s.StepID)
	}
	m.steps[s.StepID] = s
}

// AddRequirement registers a requirement and links it to its process.
func (m *MemoryStore) AddRequirement(r *Requirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.reqs[r.RequirementID]; !exists {
		m.processReqs[r.AppliesToProcess] = append(m.processReqs[r.AppliesToProcess], r.RequirementID)
	}
	m.reqs[r.RequirementID] = r
}

// AddOffice registers an office node.
func (m *MemoryStore) AddOffice(o *Office) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offices[o.OfficeID] = o
}

// AddDocumentType registers a document type node.
func (m *MemoryStore) AddDocumentType(d *DocumentType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[d.DocTypeID] = d
}

// LinkStepDependency records that step depends on prerequisite.
func (m *MemoryStore) LinkStepDependency(stepID, dependsOn string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepDeps[stepID] = append(m.stepDeps[stepID], dependsOn)
}

// LinkStepOffice records the office handling a step.
func (m *MemoryStore) LinkStepOffice(stepID, officeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepOffice[stepID] = officeID
}

// LinkStepDocument records a document type needed by a step.
func (m *MemoryStore) LinkStepDocument(stepID, docTypeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepDocs[stepID] = append(m.stepDocs[stepID], docTypeID)
}

// LinkRequirementDocument records a document type satisfying a requirement.
func (m *MemoryStore) LinkRequirementDocument(requirementID, docTypeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqDocs[requirementID] = append(m.reqDocs[requirementID], docTypeID)
}

// ProcessByID returns the process or nil when not found.
func (m *MemoryStore) ProcessByID(_ context.Context, processID string) (*Process, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processes[processID], nil
}

// AllProcesses returns all processes in insertion order.
func (m *MemoryStore) AllProcesses(_ context.Context) ([]*Process, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Process, 0, len(m.procOrder))
	for _, id := range m.procOrder {
		out = append(out, m.processes[id])
	}
	return out, nil
}

// ProcessSteps returns the steps of a process sorted ascending by Order,
// ties broken by insertion order.
func (m *MemoryStore) ProcessSteps(_ context.Context, processID string) ([]*Step, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.processSteps[processID]
	out := make([]*Step, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.steps[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// ProcessRequirements returns the requirements linked to a process.
func (m *MemoryStore) ProcessRequirements(_ context.Context, processID string) ([]*Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.processReqs[processID]
	out := make([]*Requirement, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.reqs[id])
	}
	return out, nil
}

// HardGateRequirements returns only the requirements that block completion.
func (m *MemoryStore) HardGateRequirements(ctx context.Context, processID string) ([]*Requirement, error) {
	all, err := m.ProcessRequirements(ctx, processID)
	if err != nil {
		return nil, err
	}
	gates := make([]*Requirement, 0, len(all))
	for _, r := range all {
		if r.HardGate {
			gates = append(gates, r)
		}
	}
	return gates, nil
}

// StepByID returns the step or nil when not found.
func (m *MemoryStore) StepByID(_ context.Context, stepID string) (*Step, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.steps[stepID], nil
}

// StepDependencies returns the prerequisite steps, sorted by Order.
func (m *MemoryStore) StepDependencies(_ context.Context, stepID string) ([]*Step, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.stepDeps[stepID]
	out := make([]*Step, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.steps[id]; ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// StepOffice returns the office handling a step, or nil when none is linked.
func (m *MemoryStore) StepOffice(_ context.Context, stepID string) (*Office, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	officeID, ok := m.stepOffice[stepID]
	if !ok {
		return nil, nil
	}
	return m.offices[officeID], nil
}

// StepDocuments returns the document types a step needs.
func (m *MemoryStore) StepDocuments(_ context.Context, stepID string) ([]*DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.stepDocs[stepID]
	out := make([]*DocumentType, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// RequirementDocuments returns the document types satisfying a requirement.
func (m *MemoryStore) RequirementDocuments(_ context.Context, requirementID string) ([]*DocumentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.reqDocs[requirementID]
	out := make([]*DocumentType, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}
