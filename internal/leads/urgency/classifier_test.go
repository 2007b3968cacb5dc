package urgency

import (
	"testing"
	"time"

	"coldcall_backend/internal/leads/repository"

	"github.com/google/uuid"
)

func candidateWithAppointment(at time.Time) repository.MissionCandidate {
	return repository.MissionCandidate{
		Lead: repository.Lead{
			ID:              uuid.New(),
			Status:          repository.StatusAppointment,
			AppointmentDate: &at,
		},
	}
}

func TestClassifyMissedVsInterviewed(t *testing.T) {
	now := time.Now()
	overdue := now.Add(-20 * time.Minute)

	// Zero calls, 20 minutes overdue: missed.
	c := candidateWithAppointment(overdue)
	if got := Classify(c, now); got != StatusMissed {
		t.Fatalf("expected missed, got %s", got)
	}

	// Same lead with one 70s call: interviewed, however overdue.
	lastCall := now.Add(-5 * time.Minute)
	c.CallCount = 1
	c.LastCallAt = &lastCall
	c.LastCallAction = repository.ActionCallRecording
	c.LastCallDurationSec = 70
	if got := Classify(c, now); got != StatusInterviewed {
		t.Fatalf("expected interviewed, got %s", got)
	}
}

func TestClassifyAttempted(t *testing.T) {
	now := time.Now()
	lastCall := now.Add(-2 * time.Minute)
	c := candidateWithAppointment(now.Add(-30 * time.Minute))
	c.CallCount = 2
	c.LastCallAt = &lastCall
	c.LastCallAction = repository.ActionCallRecording
	c.LastCallDurationSec = 20

	if got := Classify(c, now); got != StatusAttempted {
		t.Fatalf("expected attempted, got %s", got)
	}
}

func TestClassifyCompletedActionCountsAsInterviewed(t *testing.T) {
	now := time.Now()
	lastCall := now.Add(-1 * time.Minute)
	c := candidateWithAppointment(now.Add(time.Hour))
	c.CallCount = 1
	c.LastCallAt = &lastCall
	c.LastCallAction = repository.ActionCompleted
	c.LastCallDurationSec = 10 // short call, but completed

	if got := Classify(c, now); got != StatusInterviewed {
		t.Fatalf("expected interviewed, got %s", got)
	}
}

func TestClassifyPendingWithinGrace(t *testing.T) {
	now := time.Now()
	c := candidateWithAppointment(now.Add(-10 * time.Minute))
	if got := Classify(c, now); got != StatusPending {
		t.Fatalf("expected pending inside the grace window, got %s", got)
	}
}

func TestClassifyWon(t *testing.T) {
	now := time.Now()
	c := candidateWithAppointment(now)
	c.Lead.Status = repository.StatusWon
	c.CallCount = 3
	if got := Classify(c, now); got != StatusWon {
		t.Fatalf("expected won, got %s", got)
	}
}

func TestEffectiveTimeFallbackChain(t *testing.T) {
	now := time.Now()
	appt := now.Add(2 * time.Hour)
	processed := now.Add(-3 * time.Hour)

	// Appointment date wins over everything.
	c := candidateWithAppointment(appt)
	c.LatestNoteText = "📅 Randevu: 5 Mart 2026 Perşembe 14:30"
	c.Lead.ProcessedAt = &processed
	if got := EffectiveTime(c, now); !got.Equal(appt) {
		t.Fatalf("expected appointment date, got %v", got)
	}

	// Without a stored date, the note is mined.
	c.Lead.AppointmentDate = nil
	want := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.Local)
	if got := EffectiveTime(c, now); !got.Equal(want) {
		t.Fatalf("expected note date %v, got %v", want, got)
	}

	// A note without a recognizable month falls through to processed_at.
	c.LatestNoteText = "📅 Randevu: 5 Marc 2026 Perşembe 14:30"
	if got := EffectiveTime(c, now); !got.Equal(processed) {
		t.Fatalf("expected processed_at, got %v", got)
	}

	// Nothing at all: now.
	c.Lead.ProcessedAt = nil
	c.LatestNoteText = ""
	if got := EffectiveTime(c, now); !got.Equal(now) {
		t.Fatalf("expected now, got %v", got)
	}
}

func TestRankOrdering(t *testing.T) {
	now := time.Now()

	missed := candidateWithAppointment(now.Add(-time.Hour))
	soon := candidateWithAppointment(now.Add(5 * time.Minute))
	later := candidateWithAppointment(now.Add(2 * time.Hour))

	lastCall := now.Add(-time.Minute)
	interviewed := candidateWithAppointment(now.Add(10 * time.Minute))
	interviewed.CallCount = 1
	interviewed.LastCallAt = &lastCall
	interviewed.LastCallDurationSec = 90

	won := candidateWithAppointment(now)
	won.Lead.Status = repository.StatusWon

	ranked := Rank([]repository.MissionCandidate{won, later, interviewed, soon, missed}, now)

	wantOrder := []Status{StatusMissed, StatusPending, StatusPending, StatusInterviewed, StatusWon}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("expected %d ranked leads, got %d", len(wantOrder), len(ranked))
	}
	for i, want := range wantOrder {
		if ranked[i].Status != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, ranked[i].Status)
		}
	}

	// Within the active band, sooner appointments sort first.
	if !ranked[1].Effective.Equal(*soon.Lead.AppointmentDate) {
		t.Fatalf("expected the sooner pending lead first, got effective %v", ranked[1].Effective)
	}

	next, ok := NextMission(ranked)
	if !ok {
		t.Fatal("expected a next mission")
	}
	if next.Status != StatusMissed {
		t.Fatalf("next mission should be the missed lead, got %s", next.Status)
	}
}

func TestNextMissionNoneActionable(t *testing.T) {
	now := time.Now()
	won := candidateWithAppointment(now)
	won.Lead.Status = repository.StatusWon

	ranked := Rank([]repository.MissionCandidate{won}, now)
	if _, ok := NextMission(ranked); ok {
		t.Fatal("expected no actionable mission")
	}
}
