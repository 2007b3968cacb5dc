// Package leads provides the lead intake and prioritization bounded context.
// This file defines the module that encapsulates all leads setup and route
// registration.
package leads

import (
	"coldcall_backend/internal/events"
	apphttp "coldcall_backend/internal/http"
	"coldcall_backend/internal/leads/distribute"
	"coldcall_backend/internal/leads/handler"
	"coldcall_backend/internal/leads/importer"
	"coldcall_backend/internal/leads/repository"
	"coldcall_backend/internal/leads/service"
	"coldcall_backend/platform/logger"
	"coldcall_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, reminders service.ReminderScheduler, log *logger.Logger) *Module {
	repo := repository.New(pool)

	importSvc := importer.New(repo, eventBus, log)
	distributeSvc := distribute.New(repo, eventBus)
	leadSvc := service.New(repo, eventBus, reminders, log)

	return &Module{
		handler: handler.New(importSvc, distributeSvc, leadSvc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts the lead routes under the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	var importLimit gin.HandlerFunc
	if ctx.ImportRateLimiter != nil {
		importLimit = ctx.ImportRateLimiter.RateLimit()
	}
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"), importLimit)
}
