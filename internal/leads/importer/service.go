// Package importer handles bulk lead intake: phone identity resolution,
// duplicate detection against the store and within the batch, and the atomic
// persistence of accepted rows.
package importer

import (
	"context"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/leads/repository"
	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/apperr"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

// Store defines the data access interface needed by the import service.
// This is a consumer-driven interface - only what import needs.
type Store interface {
	PhoneStore
	CreateBatchWithLeads(ctx context.Context, batch repository.UploadBatch, leads []repository.Lead) (int, error)
}

// Service runs bulk lead imports.
type Service struct {
	store    Store
	matcher  *Matcher
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new import service.
func New(store Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		matcher:  NewMatcher(store),
		eventBus: eventBus,
		log:      log,
	}
}

// potentialLevels the import accepts as-is; anything else becomes not_assessed.
var potentialLevels = map[string]struct{}{
	"high": {}, "medium": {}, "low": {},
}

// Import dedups the parsed rows and persists the accepted ones together with
// the batch record in a single transaction. A store failure anywhere aborts
// the whole import.
func (s *Service) Import(ctx context.Context, uploadedBy uuid.UUID, rows []ParsedRow) (transport.ImportResult, error) {
	if len(rows) == 0 {
		return transport.ImportResult{}, apperr.Validation("import contains no rows")
	}

	accepted, duplicates, invalid, err := s.matcher.Partition(ctx, rows)
	if err != nil {
		return transport.ImportResult{}, apperr.Wrap(apperr.KindInternal, "duplicate check failed, import aborted", err)
	}

	now := time.Now()
	batch := repository.UploadBatch{
		ID:         uuid.New(),
		TotalLeads: len(accepted),
		UploadedBy: uploadedBy,
		CreatedAt:  now,
	}

	leads := make([]repository.Lead, 0, len(accepted))
	for _, c := range accepted {
		level := c.Row.PotentialLevel
		if _, ok := potentialLevels[level]; !ok {
			level = "not_assessed"
		}
		batchID := batch.ID
		leads = append(leads, repository.Lead{
			ID:             uuid.New(),
			BusinessName:   c.Row.BusinessName,
			Phone:          c.Canonical,
			Status:         repository.StatusPending,
			PotentialLevel: level,
			BatchID:        &batchID,
			CreatedAt:      now,
		})
	}

	inserted, err := s.store.CreateBatchWithLeads(ctx, batch, leads)
	if err != nil {
		return transport.ImportResult{}, apperr.Wrap(apperr.KindInternal, "failed to persist accepted leads", err)
	}

	// Rows the unique-phone backstop skipped were raced by a concurrent
	// import; count them as duplicates rather than accepted.
	raced := len(accepted) - inserted
	if raced > 0 {
		duplicates += raced
	}

	s.log.ImportEvent(batch.ID.String(), inserted, duplicates, invalid)
	s.eventBus.Publish(ctx, events.LeadBatchImported{
		BaseEvent:  events.NewBaseEvent(),
		BatchID:    batch.ID,
		UploadedBy: uploadedBy,
		Accepted:   inserted,
		Duplicates: duplicates,
		Invalid:    invalid,
	})

	return transport.ImportResult{
		BatchID:    batch.ID,
		Accepted:   inserted,
		Duplicates: duplicates,
		Invalid:    invalid,
	}, nil
}
