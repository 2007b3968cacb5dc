package handler

import (
	"net/http"

	"coldcall_backend/internal/authz"
	"coldcall_backend/internal/leads/distribute"
	"coldcall_backend/internal/leads/importer"
	"coldcall_backend/internal/leads/service"
	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/httpkit"
	"coldcall_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the leads module.
type Handler struct {
	importSvc     *importer.Service
	distributeSvc *distribute.Service
	leadSvc       *service.Service
	val           *validator.Validator
}

// New creates a new leads handler.
func New(importSvc *importer.Service, distributeSvc *distribute.Service, leadSvc *service.Service, val *validator.Validator) *Handler {
	return &Handler{
		importSvc:     importSvc,
		distributeSvc: distributeSvc,
		leadSvc:       leadSvc,
		val:           val,
	}
}

// RegisterRoutes registers the lead routes. importLimit, when set, guards
// the bulk import endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, importLimit gin.HandlerFunc) {
	if importLimit != nil {
		rg.POST("/import", importLimit, h.Import)
	} else {
		rg.POST("/import", h.Import)
	}
	rg.POST("/batches/:batchID/distribute", h.Distribute)
	rg.GET("", h.ListLeads)
	rg.GET("/missions", h.ListMissions)
	rg.GET("/:id", h.GetLead)
	rg.PUT("/:id/appointment", h.ScheduleAppointment)
	rg.POST("/:id/notes", h.AddNote)
	rg.POST("/:id/activities", h.AddActivity)
}

// requireCapability aborts with 403 when the identity lacks the capability.
func requireCapability(c *gin.Context, identity httpkit.Identity, cap authz.Capability) bool {
	if !authz.Can(identity.Roles(), cap) {
		httpkit.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return false
	}
	return true
}

// Import handles POST /api/v1/leads/import
func (h *Handler) Import(c *gin.Context) {
	var req transport.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !requireCapability(c, identity, authz.CapImportLeads) {
		return
	}

	rows := make([]importer.ParsedRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, importer.ParsedRow{
			BusinessName:   row.BusinessName,
			RawPhone:       row.Phone,
			PotentialLevel: row.PotentialLevel,
		})
	}

	result, err := h.importSvc.Import(c.Request.Context(), identity.UserID(), rows)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// Distribute handles POST /api/v1/leads/batches/:batchID/distribute
func (h *Handler) Distribute(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid batch ID", nil)
		return
	}

	var req transport.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !requireCapability(c, identity, authz.CapDistributeLeads) {
		return
	}

	result, err := h.distributeSvc.Distribute(c.Request.Context(), identity.UserID(), batchID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListLeads handles GET /api/v1/leads?status=...
func (h *Handler) ListLeads(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	leads, err := h.leadSvc.ListLeads(c.Request.Context(), identity.UserID(), c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, leads)
}

// ListMissions handles GET /api/v1/leads/missions
func (h *Handler) ListMissions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	records, err := h.leadSvc.ListMissions(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, records)
}

// GetLead handles GET /api/v1/leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	lead, err := h.leadSvc.GetLeadDetail(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// ScheduleAppointment handles PUT /api/v1/leads/:id/appointment
func (h *Handler) ScheduleAppointment(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	var req transport.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	lead, err := h.leadSvc.ScheduleAppointment(c.Request.Context(), leadID, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// AddNote handles POST /api/v1/leads/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.leadSvc.AddNote(c.Request.Context(), leadID, identity.UserID(), req)) {
		return
	}

	c.Status(http.StatusNoContent)
}

// AddActivity handles POST /api/v1/leads/:id/activities
func (h *Handler) AddActivity(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	var req transport.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.leadSvc.AddActivity(c.Request.Context(), leadID, identity.UserID(), req)) {
		return
	}

	c.Status(http.StatusNoContent)
}
