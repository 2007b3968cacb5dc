// Package scoring provides agent performance scoring and the XP ledger.
// This file defines the module that wires the scoring services and routes.
package scoring

import (
	"context"

	"coldcall_backend/internal/events"
	apphttp "coldcall_backend/internal/http"
	"coldcall_backend/internal/scoring/handler"
	"coldcall_backend/internal/scoring/repository"
	"coldcall_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// XP grants for pipeline milestones, credited through the event bus.
const (
	xpBatchImported    = 50
	xpLeadsDistributed = 25
)

// Module is the scoring bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	ledger  *Ledger
}

// NewModule creates and initializes the scoring module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	ledger := NewLedger(repo, eventBus)
	svc := NewService(repo, ledger)

	// Credit XP for pipeline milestones as they happen elsewhere.
	eventBus.Subscribe(events.LeadBatchImported{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadBatchImported)
		if !ok || e.Accepted == 0 {
			return nil
		}
		_, err := ledger.Award(ctx, e.UploadedBy, xpBatchImported, "batch_imported")
		return err
	}))
	eventBus.Subscribe(events.LeadsDistributed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadsDistributed)
		if !ok {
			return nil
		}
		_, err := ledger.Award(ctx, e.DistributedBy, xpLeadsDistributed, "leads_distributed")
		return err
	}))

	return &Module{
		handler: handler.New(svc, val),
		ledger:  ledger,
	}
}

// Ledger exposes the XP ledger for other modules that grant XP.
func (m *Module) Ledger() *Ledger { return m.ledger }

// Name returns the module identifier.
func (m *Module) Name() string { return "scoring" }

// RegisterRoutes mounts the scoring routes under the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/scores"))
}
