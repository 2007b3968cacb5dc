package handler

import (
	"context"
	"net/http"

	"coldcall_backend/internal/authz"
	"coldcall_backend/internal/scoring/transport"
	"coldcall_backend/platform/httpkit"
	"coldcall_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service is what the handler needs from the scoring service.
type Service interface {
	Scoreboard(ctx context.Context) (transport.ScoreboardResponse, error)
	XPProgress(ctx context.Context, agentID uuid.UUID) (transport.XPProgressResponse, error)
	AwardXP(ctx context.Context, agentID uuid.UUID, req transport.AwardXPRequest) (transport.XPProgressResponse, error)
}

// Handler handles HTTP requests for the scoring module.
type Handler struct {
	svc Service
	val *validator.Validator
}

// New creates a new scoring handler.
func New(svc Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the scoring routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Scoreboard)
	rg.GET("/xp/:agentID", h.XPProgress)
	rg.POST("/xp/:agentID", h.AwardXP)
}

// Scoreboard handles GET /api/v1/scores
func (h *Handler) Scoreboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !authz.Can(identity.Roles(), authz.CapViewAllScores) {
		httpkit.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}

	board, err := h.svc.Scoreboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, board)
}

// XPProgress handles GET /api/v1/scores/xp/:agentID
func (h *Handler) XPProgress(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid agent ID", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	// Agents can read their own ledger; anything else needs the
	// scoreboard capability.
	if identity.UserID() != agentID && !authz.Can(identity.Roles(), authz.CapViewAllScores) {
		httpkit.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}

	progress, err := h.svc.XPProgress(c.Request.Context(), agentID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, progress)
}

// AwardXP handles POST /api/v1/scores/xp/:agentID
func (h *Handler) AwardXP(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid agent ID", nil)
		return
	}

	var req transport.AwardXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !authz.Can(identity.Roles(), authz.CapAwardXP) {
		httpkit.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}

	progress, err := h.svc.AwardXP(c.Request.Context(), agentID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, progress)
}
