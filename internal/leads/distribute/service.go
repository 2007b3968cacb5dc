// Package distribute partitions an imported batch across agents, either
// proportionally or via a validated manual override.
package distribute

import (
	"context"
	"errors"
	"fmt"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/leads/repository"
	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/apperr"

	"github.com/google/uuid"
)

// Share is one agent's slice of a distribution plan.
type Share struct {
	AgentID uuid.UUID
	Count   int
}

// MismatchError reports a manual distribution whose counts do not conserve
// the batch size. Delta is signed: positive means the override assigns more
// leads than exist.
type MismatchError struct {
	Expected int
	Got      int
}

// Delta returns got minus expected.
func (e *MismatchError) Delta() int { return e.Got - e.Expected }

func (e *MismatchError) Error() string {
	return fmt.Sprintf("distribution counts sum to %d, batch has %d unassigned leads (delta %+d)", e.Got, e.Expected, e.Delta())
}

// Plan splits n leads over the agents in list order: the first n%k agents get
// one extra lead. The result always sums to n with max-min at most 1, and is
// deterministic for a given input order.
func Plan(n int, agents []uuid.UUID) []Share {
	k := len(agents)
	if k == 0 {
		return nil
	}

	base := n / k
	remainder := n % k

	shares := make([]Share, k)
	for i, agentID := range agents {
		count := base
		if i < remainder {
			count++
		}
		shares[i] = Share{AgentID: agentID, Count: count}
	}
	return shares
}

// ValidatePlan checks that manual override counts conserve n exactly.
// A mismatch is rejected, never clamped or redistributed.
func ValidatePlan(n int, shares []Share) error {
	total := 0
	for _, share := range shares {
		if share.Count < 0 {
			return fmt.Errorf("agent %s has negative count %d", share.AgentID, share.Count)
		}
		total += share.Count
	}
	if total != n {
		return &MismatchError{Expected: n, Got: total}
	}
	return nil
}

// Repository defines the data access interface needed by distribution.
type Repository interface {
	GetBatch(ctx context.Context, id uuid.UUID) (repository.UploadBatch, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID, unassignedOnly bool) ([]repository.Lead, error)
	AssignLeads(ctx context.Context, shares map[uuid.UUID][]uuid.UUID) error
}

// Service assigns batches of leads to agents.
type Service struct {
	repo     Repository
	eventBus events.Bus
}

// New creates a new distribution service.
func New(repo Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

// Distribute assigns the batch's leads across the given agents. Without the
// reassign flag only currently-unassigned leads are touched, so a retried
// call cannot double-assign. Manual overrides must conserve the lead count
// exactly; auto mode derives the plan.
func (s *Service) Distribute(ctx context.Context, actorID, batchID uuid.UUID, req transport.DistributeRequest) (transport.DistributeResult, error) {
	if len(req.AgentIDs) == 0 {
		return transport.DistributeResult{}, apperr.Validation("at least one agent is required")
	}

	if _, err := s.repo.GetBatch(ctx, batchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DistributeResult{}, apperr.NotFound("batch not found")
		}
		return transport.DistributeResult{}, err
	}

	leads, err := s.repo.ListByBatch(ctx, batchID, !req.Reassign)
	if err != nil {
		return transport.DistributeResult{}, err
	}
	if len(leads) == 0 {
		return transport.DistributeResult{}, apperr.Conflict("batch has no distributable leads")
	}

	var shares []Share
	if len(req.ManualCounts) > 0 {
		shares = make([]Share, 0, len(req.AgentIDs))
		for _, agentID := range req.AgentIDs {
			shares = append(shares, Share{AgentID: agentID, Count: req.ManualCounts[agentID.String()]})
		}
		if err := ValidatePlan(len(leads), shares); err != nil {
			var mismatch *MismatchError
			if errors.As(err, &mismatch) {
				return transport.DistributeResult{}, apperr.Validation(mismatch.Error()).
					WithDetails(map[string]int{"delta": mismatch.Delta()})
			}
			return transport.DistributeResult{}, apperr.Validation(err.Error())
		}
	} else {
		shares = Plan(len(leads), req.AgentIDs)
	}

	assignment := make(map[uuid.UUID][]uuid.UUID, len(shares))
	counts := make(map[uuid.UUID]int, len(shares))
	cursor := 0
	for _, share := range shares {
		ids := make([]uuid.UUID, 0, share.Count)
		for i := 0; i < share.Count; i++ {
			ids = append(ids, leads[cursor].ID)
			cursor++
		}
		assignment[share.AgentID] = ids
		counts[share.AgentID] = share.Count
	}

	if err := s.repo.AssignLeads(ctx, assignment); err != nil {
		return transport.DistributeResult{}, err
	}

	s.eventBus.Publish(ctx, events.LeadsDistributed{
		BaseEvent:     events.NewBaseEvent(),
		BatchID:       batchID,
		DistributedBy: actorID,
		Assignments:   counts,
	})

	result := transport.DistributeResult{BatchID: batchID, Total: len(leads)}
	for _, share := range shares {
		result.Shares = append(result.Shares, transport.AgentShare{
			AgentID: share.AgentID,
			Count:   share.Count,
		})
	}
	return result, nil
}
