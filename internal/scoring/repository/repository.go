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

var ErrNotFound = errors.New("agent progress not found")

// Agent is the read-only profile row scoring needs.
type Agent struct {
	ID             uuid.UUID
	Name           string
	Role           string
	CommissionRate float64
}

// Progress is one agent's XP ledger row.
type Progress struct {
	AgentID          uuid.UUID
	TotalXP          int64
	CurrentLevel     int
	CurrentStreak    int
	LastActivityDate time.Time
}

// Repository provides database operations for scoring.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new scoring repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAgents returns all agent profiles.
func (r *Repository) ListAgents(ctx context.Context) ([]Agent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, commission_rate FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.CommissionRate); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read agents: %w", rows.Err())
	}
	return agents, nil
}

// CountApprovedSales counts the agent's approved sales. Pending and rejected
// sales never score.
func (r *Repository) CountApprovedSales(ctx context.Context, agentID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE agent_id = $1 AND status = 'approved'`, agentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved sales: %w", err)
	}
	return count, nil
}

// CountAppointments counts leads in appointment status assigned to the agent.
func (r *Repository) CountAppointments(ctx context.Context, agentID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE assigned_to = $1 AND status = 'appointment'`, agentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// CountProcessed counts the agent's completed activity entries.
func (r *Repository) CountProcessed(ctx context.Context, agentID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_log WHERE agent_id = $1 AND action = 'completed'`, agentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count processed activities: %w", err)
	}
	return count, nil
}

// GetProgress returns the agent's XP ledger row.
func (r *Repository) GetProgress(ctx context.Context, agentID uuid.UUID) (Progress, error) {
	var p Progress
	err := r.pool.QueryRow(ctx,
		`SELECT agent_id, total_xp, current_level, current_streak, last_activity_date
		 FROM agent_progress WHERE agent_id = $1`, agentID,
	).Scan(&p.AgentID, &p.TotalXP, &p.CurrentLevel, &p.CurrentStreak, &p.LastActivityDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Progress{}, ErrNotFound
		}
		return Progress{}, fmt.Errorf("failed to get agent progress: %w", err)
	}
	return p, nil
}

// UpsertProgress writes the ledger row atomically: the row is created on the
// first award and fully replaced on subsequent ones.
func (r *Repository) UpsertProgress(ctx context.Context, p Progress) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO agent_progress (agent_id, total_xp, current_level, current_streak, last_activity_date)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (agent_id) DO UPDATE SET
		   total_xp = EXCLUDED.total_xp,
		   current_level = EXCLUDED.current_level,
		   current_streak = EXCLUDED.current_streak,
		   last_activity_date = EXCLUDED.last_activity_date`,
		p.AgentID, p.TotalXP, p.CurrentLevel, p.CurrentStreak, p.LastActivityDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert agent progress: %w", err)
	}
	return nil
}
