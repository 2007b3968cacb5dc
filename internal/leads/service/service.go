// Package service contains lead detail operations: appointment scheduling,
// note and activity appends, and the mission feed assembly.
package service

import (
	"context"
	"errors"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/leads/repository"
	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/internal/leads/urgency"
	"coldcall_backend/platform/apperr"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the lead service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, status string) ([]repository.Lead, error)
	SetAppointment(ctx context.Context, leadID uuid.UUID, at time.Time) error
	MarkProcessed(ctx context.Context, leadID uuid.UUID, at time.Time) error
	AddActivity(ctx context.Context, leadID, agentID uuid.UUID, action string, metadata map[string]interface{}) error
	AddNote(ctx context.Context, leadID, agentID uuid.UUID, text string) (repository.Note, error)
	GetCallHistory(ctx context.Context, leadID uuid.UUID) (repository.CallHistory, error)
	LatestNote(ctx context.Context, leadID uuid.UUID) (repository.Note, bool, error)
	ListMissionCandidates(ctx context.Context, agentID uuid.UUID) ([]repository.MissionCandidate, error)
}

// ReminderScheduler schedules an appointment reminder ahead of the
// appointment time. A nil scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, leadID, agentID uuid.UUID, appointmentAt time.Time) error
}

// Service handles per-lead operations.
type Service struct {
	repo      Repository
	eventBus  events.Bus
	reminders ReminderScheduler
	log       *logger.Logger
}

// New creates a new lead service.
func New(repo Repository, eventBus events.Bus, reminders ReminderScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, reminders: reminders, log: log}
}

// GetLead returns one lead.
func (s *Service) GetLead(ctx context.Context, leadID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// GetLeadDetail returns one lead together with its call summary and the most
// recent note.
func (s *Service) GetLeadDetail(ctx context.Context, leadID uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadDetailResponse{}, err
	}

	history, err := s.repo.GetCallHistory(ctx, leadID)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	detail := transport.LeadDetailResponse{
		LeadResponse:        toLeadResponse(lead),
		CallCount:           history.CallCount,
		LastCallAt:          history.LastCallAt,
		LastCallDurationSec: history.LastCallDurationSec,
	}

	note, ok, err := s.repo.LatestNote(ctx, leadID)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}
	if ok {
		detail.LatestNote = &transport.NoteResponse{
			ID:        note.ID,
			AgentID:   note.AgentID,
			Text:      note.Text,
			CreatedAt: note.CreatedAt,
		}
	}
	return detail, nil
}

// ListLeads returns the agent's assigned leads, optionally filtered to one
// pipeline status.
func (s *Service) ListLeads(ctx context.Context, agentID uuid.UUID, status string) ([]transport.LeadResponse, error) {
	if status != "" && !repository.ValidStatus(status) {
		return nil, apperr.Validation("unknown lead status")
	}

	leads, err := s.repo.ListByAgent(ctx, agentID, status)
	if err != nil {
		return nil, err
	}

	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toLeadResponse(lead))
	}
	return out, nil
}

// ScheduleAppointment stores the appointment date, schedules a reminder and
// publishes the scheduling event.
func (s *Service) ScheduleAppointment(ctx context.Context, leadID, agentID uuid.UUID, req transport.ScheduleAppointmentRequest) (transport.LeadResponse, error) {
	if req.AppointmentDate.Before(time.Now()) {
		return transport.LeadResponse{}, apperr.Validation("cannot schedule an appointment in the past")
	}

	if err := s.repo.SetAppointment(ctx, leadID, req.AppointmentDate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	// A failed enqueue must not undo the appointment itself.
	if s.reminders != nil {
		if err := s.reminders.ScheduleAppointmentReminder(ctx, leadID, agentID, req.AppointmentDate); err != nil {
			s.log.Warn("failed to schedule appointment reminder", "leadId", leadID, "error", err)
		}
	}

	s.eventBus.Publish(ctx, events.AppointmentScheduled{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          leadID,
		AgentID:         agentID,
		AppointmentDate: req.AppointmentDate,
	})

	return s.GetLead(ctx, leadID)
}

// AddNote appends a note to a lead.
func (s *Service) AddNote(ctx context.Context, leadID, agentID uuid.UUID, req transport.AddNoteRequest) error {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}
	_, err := s.repo.AddNote(ctx, leadID, agentID, req.Text)
	return err
}

// AddActivity appends an activity log entry. A completed call also stamps
// processed_at, which is the classifier's third fallback time source.
func (s *Service) AddActivity(ctx context.Context, leadID, agentID uuid.UUID, req transport.AddActivityRequest) error {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	if err := s.repo.AddActivity(ctx, leadID, agentID, req.Action, req.Metadata); err != nil {
		return err
	}

	if req.Action == repository.ActionCompleted {
		_ = s.repo.MarkProcessed(ctx, leadID, time.Now())
	}
	return nil
}

// ListMissions classifies and ranks the agent's leads and returns the
// actionable subset as flat mission records, most urgent first.
func (s *Service) ListMissions(ctx context.Context, agentID uuid.UUID) ([]transport.MissionRecord, error) {
	candidates, err := s.repo.ListMissionCandidates(ctx, agentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	records := make([]transport.MissionRecord, 0, len(candidates))
	for _, r := range urgency.Rank(candidates, now) {
		if !r.Actionable() {
			continue
		}
		effective := r.Effective
		records = append(records, transport.MissionRecord{
			ID:              r.Candidate.Lead.ID,
			BusinessName:    r.Candidate.Lead.BusinessName,
			PhoneNumber:     r.Candidate.Lead.Phone,
			AppointmentDate: &effective,
			Status:          string(r.Status),
			CallCount:       r.Candidate.CallCount,
			LastCallAt:      r.Candidate.LastCallAt,
		})
	}
	return records, nil
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		BusinessName:    lead.BusinessName,
		Phone:           lead.Phone,
		Status:          lead.Status,
		PotentialLevel:  lead.PotentialLevel,
		AssignedTo:      lead.AssignedTo,
		AppointmentDate: lead.AppointmentDate,
		ProcessedAt:     lead.ProcessedAt,
		BatchID:         lead.BatchID,
		CreatedAt:       lead.CreatedAt,
	}
}
