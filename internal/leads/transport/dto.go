// Package transport defines the request and response DTOs for the leads module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ImportLeadRow is one parsed row of an import request.
type ImportLeadRow struct {
	BusinessName   string `json:"businessName" validate:"required,max=200"`
	Phone          string `json:"phone" validate:"required,max=40"`
	PotentialLevel string `json:"potentialLevel" validate:"omitempty,oneof=high medium low not_assessed"`
}

// ImportRequest carries a parsed import batch. File parsing happens upstream;
// the engine only sees rows.
type ImportRequest struct {
	Rows []ImportLeadRow `json:"rows" validate:"required,min=1,dive"`
}

// ImportResult reports the outcome of an import run.
type ImportResult struct {
	BatchID    uuid.UUID `json:"batchId"`
	Accepted   int       `json:"accepted"`
	Duplicates int       `json:"duplicates"`
	Invalid    int       `json:"invalid"`
}

// DistributeRequest asks for a batch to be split across agents.
// ManualCounts, when present, is keyed by agent ID string and must conserve
// the distributable lead count exactly. Reassign is the explicit confirmation
// flag required to touch already-assigned leads.
type DistributeRequest struct {
	AgentIDs     []uuid.UUID    `json:"agentIds" validate:"required,min=1"`
	ManualCounts map[string]int `json:"manualCounts,omitempty"`
	Reassign     bool           `json:"reassign,omitempty"`
}

// AgentShare is one agent's slice of a committed distribution.
type AgentShare struct {
	AgentID uuid.UUID `json:"agentId"`
	Count   int       `json:"count"`
}

// DistributeResult reports a committed distribution.
type DistributeResult struct {
	BatchID uuid.UUID    `json:"batchId"`
	Total   int          `json:"total"`
	Shares  []AgentShare `json:"shares"`
}

// ScheduleAppointmentRequest sets the appointment date on a lead.
type ScheduleAppointmentRequest struct {
	AppointmentDate time.Time `json:"appointmentDate" validate:"required"`
}

// AddNoteRequest appends a note to a lead.
type AddNoteRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// AddActivityRequest appends an activity log entry to a lead.
type AddActivityRequest struct {
	Action   string                 `json:"action" validate:"required,oneof=viewed completed call_recording"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MissionRecord is the flat appointment record served to the mission client.
// AppointmentDate always carries the resolved effective time for the lead.
type MissionRecord struct {
	ID              uuid.UUID  `json:"id"`
	BusinessName    string     `json:"business_name"`
	PhoneNumber     string     `json:"phone_number"`
	AppointmentDate *time.Time `json:"appointment_date"`
	Status          string     `json:"status"`
	CallCount       int        `json:"call_count"`
	LastCallAt      *time.Time `json:"last_call_at"`
}

// NoteResponse is one lead note as returned by the API.
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	AgentID   uuid.UUID `json:"agentId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadResponse is the lead shape returned by the API.
type LeadResponse struct {
	ID              uuid.UUID  `json:"id"`
	BusinessName    string     `json:"businessName"`
	Phone           string     `json:"phone"`
	Status          string     `json:"status"`
	PotentialLevel  string     `json:"potentialLevel"`
	AssignedTo      *uuid.UUID `json:"assignedTo,omitempty"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	BatchID         *uuid.UUID `json:"batchId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// LeadDetailResponse is the single-lead view: the lead plus its call summary
// and the most recent note.
type LeadDetailResponse struct {
	LeadResponse
	CallCount           int           `json:"callCount"`
	LastCallAt          *time.Time    `json:"lastCallAt,omitempty"`
	LastCallDurationSec float64       `json:"lastCallDurationSeconds,omitempty"`
	LatestNote          *NoteResponse `json:"latestNote,omitempty"`
}
