package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Note is an append-only free-text note on a lead. Note bodies are also mined
// as a fallback source of appointment dates for legacy rows.
type Note struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	AgentID   uuid.UUID
	Text      string
	CreatedAt time.Time
}

// AddNote appends a note to a lead.
func (r *Repository) AddNote(ctx context.Context, leadID, agentID uuid.UUID, text string) (Note, error) {
	note := Note{
		ID:        uuid.New(),
		LeadID:    leadID,
		AgentID:   agentID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notes (id, lead_id, agent_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		note.ID, note.LeadID, note.AgentID, note.Text, note.CreatedAt,
	)
	if err != nil {
		return Note{}, fmt.Errorf("failed to add note: %w", err)
	}
	return note, nil
}

// LatestNote returns the most recent note for a lead, or ok=false when the
// lead has no notes.
func (r *Repository) LatestNote(ctx context.Context, leadID uuid.UUID) (Note, bool, error) {
	var note Note
	err := r.pool.QueryRow(ctx,
		`SELECT id, lead_id, agent_id, text, created_at FROM notes
		 WHERE lead_id = $1 ORDER BY created_at DESC LIMIT 1`, leadID,
	).Scan(&note.ID, &note.LeadID, &note.AgentID, &note.Text, &note.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, false, nil
		}
		return Note{}, false, fmt.Errorf("failed to get latest note: %w", err)
	}
	return note, true, nil
}
