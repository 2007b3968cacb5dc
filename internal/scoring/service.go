package scoring

import (
	"context"
	"errors"
	"sort"

	"coldcall_backend/internal/scoring/repository"
	"coldcall_backend/internal/scoring/transport"
	"coldcall_backend/platform/apperr"

	"github.com/google/uuid"
)

// ScoreboardStore is what the service needs from the repository to
// assemble the scoreboard and read ledger progress.
type ScoreboardStore interface {
	ListAgents(ctx context.Context) ([]repository.Agent, error)
	CountApprovedSales(ctx context.Context, agentID uuid.UUID) (int, error)
	CountAppointments(ctx context.Context, agentID uuid.UUID) (int, error)
	CountProcessed(ctx context.Context, agentID uuid.UUID) (int, error)
	GetProgress(ctx context.Context, agentID uuid.UUID) (repository.Progress, error)
}

// Service assembles scoreboard views and fronts the XP ledger.
type Service struct {
	store  ScoreboardStore
	ledger *Ledger
}

func NewService(store ScoreboardStore, ledger *Ledger) *Service {
	return &Service{store: store, ledger: ledger}
}

// Scoreboard computes the weighted score for every agent and returns the
// rows sorted by score descending. Ties keep the agent list order, which
// the repository returns alphabetically.
func (s *Service) Scoreboard(ctx context.Context) (transport.ScoreboardResponse, error) {
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return transport.ScoreboardResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load agents", err)
	}

	entries := make([]transport.ScoreboardEntry, 0, len(agents))
	for _, agent := range agents {
		counts, err := s.countsFor(ctx, agent.ID)
		if err != nil {
			return transport.ScoreboardResponse{}, err
		}

		score := Weighted(counts)
		level := Level(score)
		entries = append(entries, transport.ScoreboardEntry{
			AgentID:        agent.ID.String(),
			Name:           agent.Name,
			Score:          score,
			Level:          level,
			Rank:           Rank(level),
			Sales:          counts.Sales,
			Appointments:   counts.Appointments,
			Processed:      counts.Processed,
			ConversionRate: counts.ConversionRate(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return transport.ScoreboardResponse{Entries: entries}, nil
}

func (s *Service) countsFor(ctx context.Context, agentID uuid.UUID) (Counts, error) {
	sales, err := s.store.CountApprovedSales(ctx, agentID)
	if err != nil {
		return Counts{}, apperr.Wrap(apperr.KindInternal, "failed to count sales", err)
	}
	appointments, err := s.store.CountAppointments(ctx, agentID)
	if err != nil {
		return Counts{}, apperr.Wrap(apperr.KindInternal, "failed to count appointments", err)
	}
	processed, err := s.store.CountProcessed(ctx, agentID)
	if err != nil {
		return Counts{}, apperr.Wrap(apperr.KindInternal, "failed to count processed leads", err)
	}
	return Counts{Sales: sales, Appointments: appointments, Processed: processed}, nil
}

// XPProgress returns the agent's ledger state. Agents without a ledger
// row yet read as level 1 with zero XP.
func (s *Service) XPProgress(ctx context.Context, agentID uuid.UUID) (transport.XPProgressResponse, error) {
	progress, err := s.store.GetProgress(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.XPProgressResponse{
				AgentID:      agentID.String(),
				CurrentLevel: 1,
			}, nil
		}
		return transport.XPProgressResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load xp progress", err)
	}
	return toXPResponse(progress), nil
}

// AwardXP grants experience points through the ledger.
func (s *Service) AwardXP(ctx context.Context, agentID uuid.UUID, req transport.AwardXPRequest) (transport.XPProgressResponse, error) {
	progress, err := s.ledger.Award(ctx, agentID, req.Amount, req.Reason)
	if err != nil {
		return transport.XPProgressResponse{}, err
	}
	return toXPResponse(progress), nil
}

func toXPResponse(p repository.Progress) transport.XPProgressResponse {
	resp := transport.XPProgressResponse{
		AgentID:       p.AgentID.String(),
		TotalXP:       p.TotalXP,
		CurrentLevel:  p.CurrentLevel,
		CurrentStreak: p.CurrentStreak,
	}
	if !p.LastActivityDate.IsZero() {
		last := p.LastActivityDate
		resp.LastActivityDate = &last
	}
	return resp
}
