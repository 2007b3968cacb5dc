// Package transport defines request and response DTOs for the scoring module.
package transport

import "time"

// ScoreboardEntry is one agent's row on the scoreboard.
type ScoreboardEntry struct {
	AgentID        string  `json:"agent_id"`
	Name           string  `json:"name"`
	Score          int     `json:"score"`
	Level          int     `json:"level"`
	Rank           string  `json:"rank"`
	Sales          int     `json:"sales"`
	Appointments   int     `json:"appointments"`
	Processed      int     `json:"processed"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ScoreboardResponse wraps the scoreboard rows.
type ScoreboardResponse struct {
	Entries []ScoreboardEntry `json:"entries"`
}

// AwardXPRequest grants experience points to an agent.
type AwardXPRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=120"`
}

// XPProgressResponse reports an agent's experience ledger state.
type XPProgressResponse struct {
	AgentID          string     `json:"agent_id"`
	TotalXP          int64      `json:"total_xp"`
	CurrentLevel     int        `json:"current_level"`
	CurrentStreak    int        `json:"current_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
}
