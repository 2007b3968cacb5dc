// Package urgency derives a per-lead status and a sortable urgency score
// from the current time, call history and the best-available appointment
// time. Everything here is a pure function of a snapshot; nothing is ever
// persisted or cached, so a stale score cannot exist.
package urgency

import (
	"sort"
	"time"

	"coldcall_backend/internal/leads/repository"
)

// Status is the derived urgency status of a lead.
type Status string

const (
	StatusMissed      Status = "missed"
	StatusPending     Status = "pending"
	StatusAttempted   Status = "attempted"
	StatusInterviewed Status = "interviewed"
	StatusWon         Status = "won"
)

// missedGrace is how long past the effective time a lead with no calls stays
// pending before it counts as missed.
const missedGrace = 15 * time.Minute

// interviewedMinCall is the call duration beyond which a call counts as a
// real interview regardless of its action type.
const interviewedMinCall = 60 * time.Second

// EffectiveTime resolves the best-available appointment timestamp for a
// candidate. Resolution order: the stored appointment date, a date mined from
// the latest note, the processed_at stamp, and finally now. Each step fails
// soft and cascades to the next.
func EffectiveTime(c repository.MissionCandidate, now time.Time) time.Time {
	if c.Lead.AppointmentDate != nil {
		return *c.Lead.AppointmentDate
	}
	if t, ok := ParseNoteDate(c.LatestNoteText); ok {
		return t
	}
	if c.Lead.ProcessedAt != nil {
		return *c.Lead.ProcessedAt
	}
	return now
}

// Classify derives the urgency status of a candidate at the given time.
func Classify(c repository.MissionCandidate, now time.Time) Status {
	if c.Lead.Status == repository.StatusWon {
		return StatusWon
	}

	if c.CallCount > 0 {
		if c.LastCallDurationSec > interviewedMinCall.Seconds() || c.LastCallAction == repository.ActionCompleted {
			return StatusInterviewed
		}
		return StatusAttempted
	}

	if now.Sub(EffectiveTime(c, now)) > missedGrace {
		return StatusMissed
	}
	return StatusPending
}

// Urgency bands order statuses by actionability. Within the active band the
// tie-break is time-to-appointment; the other bands are uniform.
const (
	bandMissed      = 0
	bandActive      = 1 // pending and attempted
	bandInterviewed = 2
	bandWon         = 3
)

// Score is the ascending sort key for mission ranking: lower is more urgent.
// Band separates missed (always first) from active, interviewed and won;
// DeltaMs is milliseconds until the effective time and may be negative for
// overdue-but-attempted leads.
type Score struct {
	Band    int
	DeltaMs int64
}

// Less orders scores ascending by (band, delta).
func (s Score) Less(other Score) bool {
	if s.Band != other.Band {
		return s.Band < other.Band
	}
	return s.DeltaMs < other.DeltaMs
}

// ScoreOf computes the urgency score for a status and effective time.
func ScoreOf(status Status, effective, now time.Time) Score {
	switch status {
	case StatusMissed:
		return Score{Band: bandMissed}
	case StatusInterviewed:
		return Score{Band: bandInterviewed}
	case StatusWon:
		return Score{Band: bandWon}
	default:
		return Score{Band: bandActive, DeltaMs: effective.Sub(now).Milliseconds()}
	}
}

// Ranked is one classified candidate with its derived fields.
type Ranked struct {
	Candidate repository.MissionCandidate
	Status    Status
	Effective time.Time
	Score     Score
}

// Actionable reports whether the lead still needs a call.
func (r Ranked) Actionable() bool {
	switch r.Status {
	case StatusMissed, StatusPending, StatusAttempted:
		return true
	default:
		return false
	}
}

// Rank classifies and sorts candidates ascending by urgency score. The sort
// is stable so equal scores keep their input order.
func Rank(candidates []repository.MissionCandidate, now time.Time) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		status := Classify(c, now)
		effective := EffectiveTime(c, now)
		ranked = append(ranked, Ranked{
			Candidate: c,
			Status:    status,
			Effective: effective,
			Score:     ScoreOf(status, effective, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Less(ranked[j].Score)
	})
	return ranked
}

// NextMission returns the most urgent actionable lead, or ok=false when
// nothing needs a call.
func NextMission(ranked []Ranked) (Ranked, bool) {
	for _, r := range ranked {
		if r.Actionable() {
			return r, true
		}
	}
	return Ranked{}, false
}
