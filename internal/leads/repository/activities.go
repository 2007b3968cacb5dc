package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Activity actions recorded in the append-only log.
const (
	ActionViewed        = "viewed"
	ActionCompleted     = "completed"
	ActionCallRecording = "call_recording"
)

// ActivityLogEntry is a row of the append-only activity log, the sole source
// of truth for call history and processed counts.
type ActivityLogEntry struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	AgentID   uuid.UUID
	Action    string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// CallDurationSeconds reads the call duration from the entry metadata.
// Entries without a duration count as zero.
func (e ActivityLogEntry) CallDurationSeconds() float64 {
	if e.Metadata == nil {
		return 0
	}
	switch v := e.Metadata["durationSeconds"].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

// AddActivity appends an entry to the activity log.
func (r *Repository) AddActivity(ctx context.Context, leadID, agentID uuid.UUID, action string, metadata map[string]interface{}) error {
	var meta []byte
	if metadata != nil {
		var err error
		meta, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to encode activity metadata: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (id, lead_id, agent_id, action, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), leadID, agentID, action, meta, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	return nil
}

// CallHistory summarizes the call-shaped activity of one lead.
type CallHistory struct {
	CallCount           int
	LastCallAt          *time.Time
	LastCallAction      string
	LastCallDurationSec float64
}

// callActions are the activity actions that count as calls for classification.
var callActions = []string{ActionCompleted, ActionCallRecording}

// GetCallHistory aggregates the call activity for a lead.
func (r *Repository) GetCallHistory(ctx context.Context, leadID uuid.UUID) (CallHistory, error) {
	var history CallHistory
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_log WHERE lead_id = $1 AND action = ANY($2)`,
		leadID, callActions,
	).Scan(&history.CallCount)
	if err != nil {
		return CallHistory{}, fmt.Errorf("failed to count calls: %w", err)
	}

	if history.CallCount == 0 {
		return history, nil
	}

	var entry ActivityLogEntry
	var meta []byte
	err = r.pool.QueryRow(ctx,
		`SELECT action, metadata, created_at FROM activity_log
		 WHERE lead_id = $1 AND action = ANY($2)
		 ORDER BY created_at DESC LIMIT 1`,
		leadID, callActions,
	).Scan(&entry.Action, &meta, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history, nil
		}
		return CallHistory{}, fmt.Errorf("failed to get last call: %w", err)
	}

	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &entry.Metadata)
	}

	history.LastCallAt = &entry.CreatedAt
	history.LastCallAction = entry.Action
	history.LastCallDurationSec = entry.CallDurationSeconds()
	return history, nil
}
