// Package events defines the domain events exchanged between modules.
package events

import (
	"time"

	"github.com/google/uuid"
)

// LeadBatchImported is published after an import run commits its accepted rows.
type LeadBatchImported struct {
	BaseEvent
	BatchID    uuid.UUID
	UploadedBy uuid.UUID
	Accepted   int
	Duplicates int
	Invalid    int
}

// EventName returns the unique event identifier.
func (LeadBatchImported) EventName() string { return "leads.batch_imported" }

// LeadsDistributed is published after a batch has been assigned across agents.
type LeadsDistributed struct {
	BaseEvent
	BatchID       uuid.UUID
	DistributedBy uuid.UUID
	Assignments   map[uuid.UUID]int // agent ID -> lead count
}

// EventName returns the unique event identifier.
func (LeadsDistributed) EventName() string { return "leads.distributed" }

// AppointmentScheduled is published when a lead gets an appointment date.
type AppointmentScheduled struct {
	BaseEvent
	LeadID          uuid.UUID
	AgentID         uuid.UUID
	AppointmentDate time.Time
}

// EventName returns the unique event identifier.
func (AppointmentScheduled) EventName() string { return "leads.appointment_scheduled" }

// AppointmentReminderDue fires when a scheduled appointment is approaching.
type AppointmentReminderDue struct {
	BaseEvent
	LeadID          uuid.UUID
	AgentID         uuid.UUID
	BusinessName    string
	Phone           string
	AppointmentDate time.Time
}

// EventName returns the unique event identifier.
func (AppointmentReminderDue) EventName() string { return "leads.appointment_reminder_due" }

// XPAwarded is published after the XP ledger records an award.
type XPAwarded struct {
	BaseEvent
	AgentID uuid.UUID
	Amount  int64
	Reason  string
}

// EventName returns the unique event identifier.
func (XPAwarded) EventName() string { return "scoring.xp_awarded" }
