package missions

import (
	"testing"
	"time"

	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

func TestPhaseOfThresholds(t *testing.T) {
	cases := []struct {
		name      string
		remaining time.Duration
		want      Phase
	}{
		{"well ahead", 2 * time.Hour, PhaseHidden},
		{"just over thirty minutes", 30*time.Minute + time.Second, PhaseHidden},
		{"exactly thirty minutes", 30 * time.Minute, PhasePreparation},
		{"twenty minutes", 20 * time.Minute, PhasePreparation},
		{"exactly fifteen minutes", 15 * time.Minute, PhaseCombat},
		{"one second left", time.Second, PhaseCombat},
		{"zero", 0, PhaseCombat},
		{"overdue", -time.Second, PhaseCritical},
		{"long overdue", -time.Hour, PhaseCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PhaseOf(tc.remaining); got != tc.want {
				t.Fatalf("PhaseOf(%v) = %v, want %v", tc.remaining, got, tc.want)
			}
		})
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      string
	}{
		{14*time.Minute + 32*time.Second, "14:32"},
		{5 * time.Second, "00:05"},
		{time.Hour + 5*time.Minute + 9*time.Second, "1:05:09"},
		{-90 * time.Second, "-01:30"},
		{0, "00:00"},
	}

	for _, tc := range cases {
		if got := FormatCountdown(tc.remaining); got != tc.want {
			t.Fatalf("FormatCountdown(%v) = %q, want %q", tc.remaining, got, tc.want)
		}
	}
}

func missionAt(at time.Time) transport.MissionRecord {
	return transport.MissionRecord{
		ID:              uuid.New(),
		BusinessName:    "Lokanta",
		PhoneNumber:     "905551112233",
		AppointmentDate: &at,
		Status:          "appointment",
	}
}

func TestHeadMissionSkipsRecordsWithoutTarget(t *testing.T) {
	at := time.Now().Add(time.Hour)
	records := []transport.MissionRecord{
		{ID: uuid.New(), BusinessName: "No date"},
		missionAt(at),
	}

	head := headMission(records)
	if head == nil {
		t.Fatal("expected a head mission")
	}
	if head.BusinessName != "Lokanta" {
		t.Fatalf("expected the first dated record, got %q", head.BusinessName)
	}
}

func TestApplyDiscardsStalePoll(t *testing.T) {
	tracker := NewTracker(nil, time.Minute, logger.New("development"))

	fresh := missionAt(time.Now().Add(20 * time.Minute))
	stale := missionAt(time.Now().Add(3 * time.Hour))

	genStale := tracker.NextGen()
	genFresh := tracker.NextGen()

	tracker.Apply(genFresh, []transport.MissionRecord{fresh})
	tracker.Apply(genStale, []transport.MissionRecord{stale})

	snapshot := tracker.Snapshot()
	if snapshot.Mission == nil {
		t.Fatal("expected a mission after apply")
	}
	if snapshot.Mission.ID != fresh.ID {
		t.Fatal("stale poll result overwrote a newer one")
	}
}

func TestSnapshotPhaseFollowsClock(t *testing.T) {
	tracker := NewTracker(nil, time.Minute, logger.New("development"))

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	target := base.Add(40 * time.Minute)
	tracker.Apply(tracker.NextGen(), []transport.MissionRecord{missionAt(target)})

	if phase := tracker.Snapshot().Phase; phase != PhaseHidden {
		t.Fatalf("expected hidden 40m out, got %v", phase)
	}

	now = base.Add(12 * time.Minute)
	if phase := tracker.Snapshot().Phase; phase != PhasePreparation {
		t.Fatalf("expected preparation 28m out, got %v", phase)
	}

	now = base.Add(29 * time.Minute)
	if phase := tracker.Snapshot().Phase; phase != PhaseCombat {
		t.Fatalf("expected combat 11m out, got %v", phase)
	}

	now = base.Add(41 * time.Minute)
	snapshot := tracker.Snapshot()
	if snapshot.Phase != PhaseCritical {
		t.Fatalf("expected critical past target, got %v", snapshot.Phase)
	}
	if snapshot.Remaining >= 0 {
		t.Fatalf("expected negative remaining, got %v", snapshot.Remaining)
	}
}

func TestOnChangeFiresOnPhaseTransition(t *testing.T) {
	tracker := NewTracker(nil, time.Minute, logger.New("development"))

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	var transitions []Phase
	tracker.OnChange(func(s Snapshot) {
		transitions = append(transitions, s.Phase)
	})

	target := base.Add(20 * time.Minute)
	tracker.Apply(tracker.NextGen(), []transport.MissionRecord{missionAt(target)})

	if len(transitions) != 1 || transitions[0] != PhasePreparation {
		t.Fatalf("expected a preparation transition after apply, got %v", transitions)
	}

	tracker.tick()
	if len(transitions) != 1 {
		t.Fatalf("tick without a phase change must not fire, got %v", transitions)
	}

	now = base.Add(6 * time.Minute)
	tracker.tick()
	if len(transitions) != 2 || transitions[1] != PhaseCombat {
		t.Fatalf("expected a combat transition, got %v", transitions)
	}
}
