package graph

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	cuserrors "github.com/opencivic/civicassist/errors"
	"github.com/opencivic/civicassist/pkg/logging"
)

// PostgresStore implements Store over a PostgreSQL database. The connection
// is constructed explicitly and injected into consumers; callers own the
// Close lifecycle. One pooled connection per process is preserved by sharing
// a single instance through dependency wiring, not through global state.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenPostgres opens and verifies a connection to the graph database.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open graph database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping graph database: %v", cuserrors.ErrUnavailable, err)
	}

	return &PostgresStore{
		db:     db,
		logger: logging.WithComponent("graph"),
	}, nil
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// storeErr wraps backend failures so the transport layer can map them to an
// unavailable status. Not-found is never an error at this layer.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: graph %s: %v", cuserrors.ErrUnavailable, op, err)
}

const processColumns = `process_id, name, description, category, jurisdiction, source_url, last_verified, confidence`

func scanProcess(row interface{ Scan(...any) error }) (*Process, error) {
	var p Process
	err := row.Scan(&p.ProcessID, &p.Name, &p.Description, &p.Category, &p.Jurisdiction,
		&p.SourceURL, &p.LastVerified, &p.Confidence)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProcessByID returns the process or nil when not found.
func (p *PostgresStore) ProcessByID(ctx context.Context, processID string) (*Process, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+processColumns+` FROM processes WHERE process_id = $1`, processID)
	proc, err := scanProcess(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("process lookup", err)
	}
	return proc, nil
}

// AllProcesses returns every process ordered by name.
func (p *PostgresStore) AllProcesses(ctx context.Context) ([]*Process, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+processColumns+` FROM processes ORDER BY name`)
	if err != nil {
		return nil, storeErr("process list", err)
	}
	defer rows.Close()

	var out []*Process
	for rows.Next() {
		proc, err := scanProcess(rows)
		if err != nil {
			return nil, storeErr("process scan", err)
		}
		out = append(out, proc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("process list", err)
	}
	return out, nil
}

const stepColumns = `step_id, process_id, name, description, step_order, estimated_time_minutes, cost_usd, optional, source_url, last_verified, confidence`

func scanStep(row interface{ Scan(...any) error }) (*Step, error) {
	var s Step
	var estimated sql.NullInt64
	err := row.Scan(&s.StepID, &s.ProcessID, &s.Name, &s.Description, &s.Order,
		&estimated, &s.CostUSD, &s.Optional, &s.SourceURL, &s.LastVerified, &s.Confidence)
	if err != nil {
		return nil, err
	}
	if estimated.Valid {
		s.EstimatedTimeMinutes = int(estimated.Int64)
	}
	return &s, nil
}

func (p *PostgresStore) querySteps(ctx context.Context, op, query string, args ...any) ([]*Step, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*Step
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

// StepByID returns the step or nil when not found.
func (p *PostgresStore) StepByID(ctx context.Context, stepID string) (*Step, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+stepColumns+` FROM steps WHERE step_id = $1`, stepID)
	s, err := scanStep(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("step lookup", err)
	}
	return s, nil
}

// ProcessSteps returns the steps of a process ordered ascending by step_order.
func (p *PostgresStore) ProcessSteps(ctx context.Context, processID string) ([]*Step, error) {
	return p.querySteps(ctx, "process steps",
		`SELECT `+stepColumns+` FROM steps WHERE process_id = $1 ORDER BY step_order ASC`, processID)
}

// StepDependencies returns the prerequisite steps of a step.
func (p *PostgresStore) StepDependencies(ctx context.Context, stepID string) ([]*Step, error) {
	return p.querySteps(ctx, "step dependencies",
		`SELECT `+stepColumns+` FROM steps s
		 JOIN step_dependencies d ON d.depends_on = s.step_id
		 WHERE d.step_id = $1 ORDER BY s.step_order ASC`, stepID)
}

const requirementColumns = `requirement_id, text, fact_id, applies_to_process, hard_gate, source_section, source_url, last_verified, confidence`

func (p *PostgresStore) queryRequirements(ctx context.Context, op, query string, args ...any) ([]*Requirement, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*Requirement
	for rows.Next() {
		var r Requirement
		var section sql.NullString
		if err := rows.Scan(&r.RequirementID, &r.Text, &r.FactID, &r.AppliesToProcess,
			&r.HardGate, &section, &r.SourceURL, &r.LastVerified, &r.Confidence); err != nil {
			return nil, storeErr(op, err)
		}
		r.SourceSection = section.String
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

// ProcessRequirements returns the requirements linked to a process.
func (p *PostgresStore) ProcessRequirements(ctx context.Context, processID string) ([]*Requirement, error) {
	return p.queryRequirements(ctx, "process requirements",
		`SELECT `+requirementColumns+` FROM requirements WHERE applies_to_process = $1`, processID)
}

// HardGateRequirements returns only the requirements that block completion.
func (p *PostgresStore) HardGateRequirements(ctx context.Context, processID string) ([]*Requirement, error) {
	return p.queryRequirements(ctx, "hard gate requirements",
		`SELECT `+requirementColumns+` FROM requirements WHERE applies_to_process = $1 AND hard_gate`, processID)
}

// StepOffice returns the office handling a step, or nil when none is linked.
func (p *PostgresStore) StepOffice(ctx context.Context, stepID string) (*Office, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT o.office_id, o.name, o.address, o.room, o.hours, o.phone, o.email,
		        o.source_url, o.last_verified, o.confidence
		 FROM offices o
		 JOIN step_offices so ON so.office_id = o.office_id
		 WHERE so.step_id = $1`, stepID)

	var o Office
	var room, phone, email sql.NullString
	err := row.Scan(&o.OfficeID, &o.Name, &o.Address, &room, &o.Hours, &phone, &email,
		&o.SourceURL, &o.LastVerified, &o.Confidence)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("step office", err)
	}
	o.Room, o.Phone, o.Email = room.String, phone.String, email.String
	return &o, nil
}

const documentJoinColumns = `d.doc_type_id, d.name, d.fact_id, d.freshness_days, d.name_match_required, d.address_match_required, d.source_url, d.last_verified, d.confidence`

func (p *PostgresStore) queryDocuments(ctx context.Context, op, query string, args ...any) ([]*DocumentType, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*DocumentType
	for rows.Next() {
		var d DocumentType
		if err := rows.Scan(&d.DocTypeID, &d.Name, &d.FactID, &d.FreshnessDays,
			&d.NameMatchRequired, &d.AddressMatchRequired, &d.SourceURL, &d.LastVerified, &d.Confidence); err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

// StepDocuments returns the document types a step needs.
func (p *PostgresStore) StepDocuments(ctx context.Context, stepID string) ([]*DocumentType, error) {
	return p.queryDocuments(ctx, "step documents",
		`SELECT `+documentJoinColumns+` FROM document_types d
		 JOIN step_documents sd ON sd.doc_type_id = d.doc_type_id
		 WHERE sd.step_id = $1`, stepID)
}

// RequirementDocuments returns the document types satisfying a requirement.
func (p *PostgresStore) RequirementDocuments(ctx context.Context, requirementID string) ([]*DocumentType, error) {
	return p.queryDocuments(ctx, "requirement documents",
		`SELECT `+documentJoinColumns+` FROM document_types d
		 JOIN requirement_documents rd ON rd.doc_type_id = d.doc_type_id
		 WHERE rd.requirement_id = $1`, requirementID)
}
