package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/leads/repository"
	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/apperr"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadRepo struct {
	lead        repository.Lead
	getErr      error
	appointment *time.Time
	processedAt *time.Time
	activities  []string
	notes       []string
	candidates  []repository.MissionCandidate
	assigned    []repository.Lead
	listStatus  string
	history     repository.CallHistory
	latestNote  *repository.Note
}

func (r *fakeLeadRepo) GetByID(context.Context, uuid.UUID) (repository.Lead, error) {
	if r.getErr != nil {
		return repository.Lead{}, r.getErr
	}
	return r.lead, nil
}

func (r *fakeLeadRepo) ListByAgent(_ context.Context, _ uuid.UUID, status string) ([]repository.Lead, error) {
	r.listStatus = status
	if status == "" {
		return r.assigned, nil
	}
	out := make([]repository.Lead, 0)
	for _, lead := range r.assigned {
		if lead.Status == status {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (r *fakeLeadRepo) SetAppointment(_ context.Context, _ uuid.UUID, at time.Time) error {
	r.appointment = &at
	return nil
}

func (r *fakeLeadRepo) MarkProcessed(_ context.Context, _ uuid.UUID, at time.Time) error {
	r.processedAt = &at
	return nil
}

func (r *fakeLeadRepo) AddActivity(_ context.Context, _, _ uuid.UUID, action string, _ map[string]interface{}) error {
	r.activities = append(r.activities, action)
	return nil
}

func (r *fakeLeadRepo) AddNote(_ context.Context, leadID, agentID uuid.UUID, text string) (repository.Note, error) {
	r.notes = append(r.notes, text)
	return repository.Note{ID: uuid.New(), LeadID: leadID, AgentID: agentID, Text: text}, nil
}

func (r *fakeLeadRepo) GetCallHistory(context.Context, uuid.UUID) (repository.CallHistory, error) {
	return r.history, nil
}

func (r *fakeLeadRepo) LatestNote(context.Context, uuid.UUID) (repository.Note, bool, error) {
	if r.latestNote == nil {
		return repository.Note{}, false, nil
	}
	return *r.latestNote, true, nil
}

func (r *fakeLeadRepo) ListMissionCandidates(context.Context, uuid.UUID) ([]repository.MissionCandidate, error) {
	return r.candidates, nil
}

type fakeReminders struct {
	scheduled []time.Time
	err       error
}

func (f *fakeReminders) ScheduleAppointmentReminder(_ context.Context, _, _ uuid.UUID, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, at)
	return nil
}

func newLeadService(repo *fakeLeadRepo, reminders ReminderScheduler) *Service {
	log := logger.New("development")
	return New(repo, events.NewInMemoryBus(log), reminders, log)
}

func TestScheduleAppointmentRejectsPast(t *testing.T) {
	repo := &fakeLeadRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := newLeadService(repo, nil)

	_, err := svc.ScheduleAppointment(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleAppointmentRequest{
		AppointmentDate: time.Now().Add(-time.Hour),
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.appointment != nil {
		t.Fatal("past appointment must not be stored")
	}
}

func TestScheduleAppointmentStoresAndSchedulesReminder(t *testing.T) {
	repo := &fakeLeadRepo{lead: repository.Lead{ID: uuid.New(), Status: repository.StatusAppointment}}
	reminders := &fakeReminders{}
	svc := newLeadService(repo, reminders)

	at := time.Now().Add(2 * time.Hour)
	_, err := svc.ScheduleAppointment(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleAppointmentRequest{
		AppointmentDate: at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if repo.appointment == nil || !repo.appointment.Equal(at) {
		t.Fatal("appointment date not stored")
	}
	if len(reminders.scheduled) != 1 || !reminders.scheduled[0].Equal(at) {
		t.Fatalf("expected one reminder for %v, got %v", at, reminders.scheduled)
	}
}

func TestAddActivityCompletedStampsProcessed(t *testing.T) {
	repo := &fakeLeadRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := newLeadService(repo, nil)

	err := svc.AddActivity(context.Background(), repo.lead.ID, uuid.New(), transport.AddActivityRequest{
		Action: repository.ActionCompleted,
	})
	if err != nil {
		t.Fatal(err)
	}
	if repo.processedAt == nil {
		t.Fatal("completed activity must stamp processed_at")
	}
}

func TestAddActivityViewedDoesNotStampProcessed(t *testing.T) {
	repo := &fakeLeadRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := newLeadService(repo, nil)

	err := svc.AddActivity(context.Background(), repo.lead.ID, uuid.New(), transport.AddActivityRequest{
		Action: repository.ActionViewed,
	})
	if err != nil {
		t.Fatal(err)
	}
	if repo.processedAt != nil {
		t.Fatal("viewed activity must not stamp processed_at")
	}
}

func TestListMissionsReturnsRankedActionable(t *testing.T) {
	now := time.Now()
	soon := now.Add(10 * time.Minute)
	later := now.Add(3 * time.Hour)

	repo := &fakeLeadRepo{
		candidates: []repository.MissionCandidate{
			{
				Lead: repository.Lead{
					ID:              uuid.New(),
					BusinessName:    "Sonraki",
					Phone:           "905551110000",
					Status:          repository.StatusAppointment,
					AppointmentDate: &later,
				},
			},
			{
				Lead: repository.Lead{
					ID:              uuid.New(),
					BusinessName:    "Yakın",
					Phone:           "905552220000",
					Status:          repository.StatusAppointment,
					AppointmentDate: &soon,
				},
			},
			{
				Lead: repository.Lead{
					ID:           uuid.New(),
					BusinessName: "Kazanıldı",
					Status:       repository.StatusWon,
				},
			},
		},
	}
	svc := newLeadService(repo, nil)

	records, err := svc.ListMissions(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("won leads are not actionable, expected 2 records, got %d", len(records))
	}
	if records[0].BusinessName != "Yakın" {
		t.Fatalf("expected nearest appointment first, got %q", records[0].BusinessName)
	}
	if records[0].AppointmentDate == nil || !records[0].AppointmentDate.Equal(soon) {
		t.Fatal("record must carry the effective appointment time")
	}
}

func TestGetLeadNotFound(t *testing.T) {
	repo := &fakeLeadRepo{getErr: repository.ErrNotFound}
	svc := newLeadService(repo, nil)

	_, err := svc.GetLead(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListLeadsFiltersByStatus(t *testing.T) {
	agentID := uuid.New()
	repo := &fakeLeadRepo{assigned: []repository.Lead{
		{ID: uuid.New(), BusinessName: "Anka", Status: repository.StatusPending},
		{ID: uuid.New(), BusinessName: "Bora", Status: repository.StatusWon},
		{ID: uuid.New(), BusinessName: "Civa", Status: repository.StatusPending},
	}}
	svc := newLeadService(repo, nil)

	leads, err := svc.ListLeads(context.Background(), agentID, repository.StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 pending leads, got %d", len(leads))
	}
	if repo.listStatus != repository.StatusPending {
		t.Fatalf("status filter not passed to the store, got %q", repo.listStatus)
	}

	all, err := svc.ListLeads(context.Background(), agentID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 leads without a filter, got %d", len(all))
	}
}

func TestListLeadsRejectsUnknownStatus(t *testing.T) {
	svc := newLeadService(&fakeLeadRepo{}, nil)

	_, err := svc.ListLeads(context.Background(), uuid.New(), "paused")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestScheduleAppointmentSurvivesReminderFailure(t *testing.T) {
	repo := &fakeLeadRepo{lead: repository.Lead{ID: uuid.New()}}
	reminders := &fakeReminders{err: errors.New("redis down")}
	svc := newLeadService(repo, reminders)

	at := time.Now().Add(2 * time.Hour)
	_, err := svc.ScheduleAppointment(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleAppointmentRequest{
		AppointmentDate: at,
	})
	if err != nil {
		t.Fatalf("appointment must survive a failed reminder enqueue, got %v", err)
	}
	if repo.appointment == nil || !repo.appointment.Equal(at) {
		t.Fatal("appointment date not stored")
	}
}

func TestGetLeadDetailIncludesCallsAndLatestNote(t *testing.T) {
	lastCall := time.Now().Add(-time.Hour)
	repo := &fakeLeadRepo{
		lead: repository.Lead{ID: uuid.New(), BusinessName: "Kule Cafe"},
		history: repository.CallHistory{
			CallCount:           3,
			LastCallAt:          &lastCall,
			LastCallAction:      repository.ActionCompleted,
			LastCallDurationSec: 95,
		},
		latestNote: &repository.Note{ID: uuid.New(), Text: "tekrar aranacak"},
	}
	svc := newLeadService(repo, nil)

	detail, err := svc.GetLeadDetail(context.Background(), repo.lead.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.BusinessName != "Kule Cafe" {
		t.Fatalf("unexpected lead in detail: %q", detail.BusinessName)
	}
	if detail.CallCount != 3 || detail.LastCallAt == nil || !detail.LastCallAt.Equal(lastCall) {
		t.Fatalf("call summary not carried: %+v", detail)
	}
	if detail.LastCallDurationSec != 95 {
		t.Fatalf("expected last call duration 95s, got %v", detail.LastCallDurationSec)
	}
	if detail.LatestNote == nil || detail.LatestNote.Text != "tekrar aranacak" {
		t.Fatalf("latest note not carried: %+v", detail.LatestNote)
	}
}

func TestGetLeadDetailWithoutNotes(t *testing.T) {
	repo := &fakeLeadRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := newLeadService(repo, nil)

	detail, err := svc.GetLeadDetail(context.Background(), repo.lead.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.LatestNote != nil {
		t.Fatal("a lead without notes must not carry a latest note")
	}
	if detail.CallCount != 0 {
		t.Fatalf("expected zero calls, got %d", detail.CallCount)
	}
}
