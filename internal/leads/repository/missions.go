package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MissionCandidate is the read model the urgency classifier consumes: one
// lead plus its aggregated call history and latest note text. It is built
// fresh on every poll and never persisted.
type MissionCandidate struct {
	Lead                Lead
	CallCount           int
	LastCallAt          *time.Time
	LastCallAction      string
	LastCallDurationSec float64
	LatestNoteText      string
}

// ListMissionCandidates returns the agent's leads joined with their call
// aggregates and latest note, in a single query. Leads in terminal
// not-interested state are excluded up front.
func (r *Repository) ListMissionCandidates(ctx context.Context, agentID uuid.UUID) ([]MissionCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.business_name, l.phone, l.status, l.potential_level, l.assigned_to,
		       l.appointment_date, l.processed_at, l.batch_id, l.created_at,
		       COALESCE(calls.call_count, 0),
		       calls.last_call_at,
		       COALESCE(calls.last_call_action, ''),
		       COALESCE(calls.last_call_duration, 0),
		       COALESCE(latest_note.text, '')
		FROM leads l
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS call_count,
			       MAX(a.created_at) AS last_call_at,
			       (ARRAY_AGG(a.action ORDER BY a.created_at DESC))[1] AS last_call_action,
			       (ARRAY_AGG(COALESCE((a.metadata->>'durationSeconds')::float8, 0) ORDER BY a.created_at DESC))[1] AS last_call_duration
			FROM activity_log a
			WHERE a.lead_id = l.id AND a.action IN ('completed', 'call_recording')
		) calls ON TRUE
		LEFT JOIN LATERAL (
			SELECT n.text FROM notes n
			WHERE n.lead_id = l.id
			ORDER BY n.created_at DESC LIMIT 1
		) latest_note ON TRUE
		WHERE l.assigned_to = $1 AND l.status != 'not_interested'
		ORDER BY l.created_at ASC`, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]MissionCandidate, 0)
	for rows.Next() {
		var c MissionCandidate
		if err := rows.Scan(
			&c.Lead.ID, &c.Lead.BusinessName, &c.Lead.Phone, &c.Lead.Status, &c.Lead.PotentialLevel,
			&c.Lead.AssignedTo, &c.Lead.AppointmentDate, &c.Lead.ProcessedAt, &c.Lead.BatchID, &c.Lead.CreatedAt,
			&c.CallCount, &c.LastCallAt, &c.LastCallAction, &c.LastCallDurationSec, &c.LatestNoteText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mission candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read mission candidates: %w", rows.Err())
	}
	return candidates, nil
}
