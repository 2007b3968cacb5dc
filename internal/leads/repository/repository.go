package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// Lead statuses as persisted. The urgency status shown to agents is derived,
// never stored; this column tracks the pipeline stage only.
const (
	StatusPending       = "pending"
	StatusContacted     = "contacted"
	StatusAppointment   = "appointment"
	StatusNotInterested = "not_interested"
	StatusCallback      = "callback"
	StatusWon           = "won"
)

// ValidStatus reports whether s is a known pipeline status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusContacted, StatusAppointment, StatusNotInterested, StatusCallback, StatusWon:
		return true
	}
	return false
}

// Lead is the persisted lead row. Phone holds the canonical form for rows
// written by this system; historical rows may carry any legacy representation.
type Lead struct {
	ID              uuid.UUID
	BusinessName    string
	Phone           string
	Status          string
	PotentialLevel  string
	AssignedTo      *uuid.UUID
	AppointmentDate *time.Time
	ProcessedAt     *time.Time
	BatchID         *uuid.UUID
	CreatedAt       time.Time
}

// UploadBatch records one import run. TotalLeads is immutable after creation.
type UploadBatch struct {
	ID         uuid.UUID
	TotalLeads int
	UploadedBy uuid.UUID
	CreatedAt  time.Time
}

// Repository provides database operations for leads, batches, activities and notes.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// existingPhonesChunk caps the predicate list size per query so we never hit
// backend limits on very large imports.
const existingPhonesChunk = 1000

// ExistingPhones returns which of the given phone strings are already present
// in the store, matching the phone column exactly. Queries run in bounded
// chunks; any failure is returned as-is so the caller can abort the import.
func (r *Repository) ExistingPhones(ctx context.Context, phones []string) ([]string, error) {
	found := make([]string, 0)
	for start := 0; start < len(phones); start += existingPhonesChunk {
		end := start + existingPhonesChunk
		if end > len(phones) {
			end = len(phones)
		}

		rows, err := r.pool.Query(ctx,
			`SELECT phone FROM leads WHERE phone = ANY($1)`, phones[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to query existing phones: %w", err)
		}

		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan existing phone: %w", err)
			}
			found = append(found, p)
		}
		rows.Close()
		if rows.Err() != nil {
			return nil, fmt.Errorf("failed to read existing phones: %w", rows.Err())
		}
	}
	return found, nil
}

// CreateBatchWithLeads persists the batch row and all accepted leads in a
// single transaction. The unique index on phone is a backstop against two
// concurrent imports racing the duplicate check; conflicting rows are skipped.
// Returns the number of rows actually inserted.
func (r *Repository) CreateBatchWithLeads(ctx context.Context, batch UploadBatch, leads []Lead) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO upload_batches (id, total_leads, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4)`,
		batch.ID, batch.TotalLeads, batch.UploadedBy, batch.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create upload batch: %w", err)
	}

	inserted := 0
	pgxBatch := &pgx.Batch{}
	for _, lead := range leads {
		pgxBatch.Queue(
			`INSERT INTO leads (id, business_name, phone, status, potential_level, batch_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (phone) DO NOTHING`,
			lead.ID, lead.BusinessName, lead.Phone, lead.Status, lead.PotentialLevel, lead.BatchID, lead.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, pgxBatch)
	for range leads {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert lead: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish lead insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return inserted, nil
}

// GetByID retrieves a lead by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx,
		`SELECT id, business_name, phone, status, potential_level, assigned_to,
		        appointment_date, processed_at, batch_id, created_at
		 FROM leads WHERE id = $1`, id,
	).Scan(
		&lead.ID, &lead.BusinessName, &lead.Phone, &lead.Status, &lead.PotentialLevel,
		&lead.AssignedTo, &lead.AppointmentDate, &lead.ProcessedAt, &lead.BatchID, &lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// ListByBatch returns the leads of a batch in insertion order.
// When unassignedOnly is set, already-assigned leads are excluded.
func (r *Repository) ListByBatch(ctx context.Context, batchID uuid.UUID, unassignedOnly bool) ([]Lead, error) {
	query := `SELECT id, business_name, phone, status, potential_level, assigned_to,
	                 appointment_date, processed_at, batch_id, created_at
	          FROM leads WHERE batch_id = $1`
	if unassignedOnly {
		query += ` AND assigned_to IS NULL`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.BusinessName, &lead.Phone, &lead.Status, &lead.PotentialLevel,
			&lead.AssignedTo, &lead.AppointmentDate, &lead.ProcessedAt, &lead.BatchID, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read batch leads: %w", rows.Err())
	}
	return leads, nil
}

// ListByAgent returns the leads assigned to an agent, newest first. An empty
// status returns all of them.
func (r *Repository) ListByAgent(ctx context.Context, agentID uuid.UUID, status string) ([]Lead, error) {
	query := `SELECT id, business_name, phone, status, potential_level, assigned_to,
	                 appointment_date, processed_at, batch_id, created_at
	          FROM leads WHERE assigned_to = $1`
	args := []interface{}{agentID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.BusinessName, &lead.Phone, &lead.Status, &lead.PotentialLevel,
			&lead.AssignedTo, &lead.AppointmentDate, &lead.ProcessedAt, &lead.BatchID, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read agent leads: %w", rows.Err())
	}
	return leads, nil
}

// AssignLeads sets assigned_to for all the given lead IDs inside one
// transaction, one agent share at a time. The whole plan commits or none of it.
func (r *Repository) AssignLeads(ctx context.Context, shares map[uuid.UUID][]uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin assignment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for agentID, leadIDs := range shares {
		if len(leadIDs) == 0 {
			continue
		}
		_, err := tx.Exec(ctx,
			`UPDATE leads SET assigned_to = $1 WHERE id = ANY($2)`,
			agentID, leadIDs,
		)
		if err != nil {
			return fmt.Errorf("failed to assign leads: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}
	return nil
}

// GetBatch retrieves an upload batch by ID.
func (r *Repository) GetBatch(ctx context.Context, id uuid.UUID) (UploadBatch, error) {
	var batch UploadBatch
	err := r.pool.QueryRow(ctx,
		`SELECT id, total_leads, uploaded_by, created_at FROM upload_batches WHERE id = $1`, id,
	).Scan(&batch.ID, &batch.TotalLeads, &batch.UploadedBy, &batch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UploadBatch{}, ErrNotFound
		}
		return UploadBatch{}, fmt.Errorf("failed to get batch: %w", err)
	}
	return batch, nil
}

// SetAppointment stores the appointment date and moves the lead to the
// appointment status.
func (r *Repository) SetAppointment(ctx context.Context, leadID uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET appointment_date = $2, status = $3 WHERE id = $1`,
		leadID, at, StatusAppointment,
	)
	if err != nil {
		return fmt.Errorf("failed to set appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkProcessed stamps processed_at on a lead if not already set.
func (r *Repository) MarkProcessed(ctx context.Context, leadID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE leads SET processed_at = COALESCE(processed_at, $2) WHERE id = $1`,
		leadID, at,
	)
	if err != nil {
		return fmt.Errorf("failed to mark lead processed: %w", err)
	}
	return nil
}
