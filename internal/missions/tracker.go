package missions

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coldcall_backend/internal/leads/transport"
	"coldcall_backend/platform/logger"
)

// Phase is the visibility state of the mission countdown.
type Phase int

const (
	// PhaseHidden means no mission is near enough to show.
	PhaseHidden Phase = iota
	// PhasePreparation starts 30 minutes before the appointment.
	PhasePreparation
	// PhaseCombat starts 15 minutes before the appointment.
	PhaseCombat
	// PhaseCritical means the appointment time has passed.
	PhaseCritical
)

const (
	preparationWindow = 30 * time.Minute
	combatWindow      = 15 * time.Minute

	defaultPollInterval = 45 * time.Second
	tickInterval        = time.Second
)

func (p Phase) String() string {
	switch p {
	case PhasePreparation:
		return "preparation"
	case PhaseCombat:
		return "combat"
	case PhaseCritical:
		return "critical"
	default:
		return "hidden"
	}
}

// PhaseOf derives the phase purely from the remaining time. There is no
// hysteresis: crossing a threshold switches the phase on the next tick.
func PhaseOf(remaining time.Duration) Phase {
	switch {
	case remaining < 0:
		return PhaseCritical
	case remaining <= combatWindow:
		return PhaseCombat
	case remaining <= preparationWindow:
		return PhasePreparation
	default:
		return PhaseHidden
	}
}

// FormatCountdown renders the remaining time as a clock string. Overdue
// durations carry a leading minus.
func FormatCountdown(remaining time.Duration) string {
	sign := ""
	if remaining < 0 {
		sign = "-"
		remaining = -remaining
	}
	remaining = remaining.Round(time.Second)
	h := int(remaining / time.Hour)
	m := int(remaining/time.Minute) % 60
	s := int(remaining/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m, s)
}

// Snapshot is one observation of the tracked mission.
type Snapshot struct {
	Mission   *transport.MissionRecord
	Remaining time.Duration
	Phase     Phase
	PolledAt  time.Time
}

// Tracker follows the head mission of the agent's queue. A poll loop
// refreshes the mission list on an interval and a tick loop recomputes
// the countdown every second from the cached target, so ticks never hit
// the network.
type Tracker struct {
	fetcher  Fetcher
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time

	gen atomic.Uint64

	mu         sync.Mutex
	appliedGen uint64
	mission    *transport.MissionRecord
	polledAt   time.Time
	lastPhase  Phase
	onChange   func(Snapshot)
}

// NewTracker creates a tracker polling at the given interval. A
// non-positive interval falls back to 45 seconds.
func NewTracker(fetcher Fetcher, interval time.Duration, log *logger.Logger) *Tracker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Tracker{
		fetcher:  fetcher,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// OnChange registers a callback fired when the mission or its phase
// changes. Set it before calling Run.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Run polls and ticks until the context is cancelled. Each poll runs in
// its own goroutine so a slow fetch never stalls the countdown.
func (t *Tracker) Run(ctx context.Context) {
	go t.poll(ctx)

	pollTicker := time.NewTicker(t.interval)
	defer pollTicker.Stop()
	tickTicker := time.NewTicker(tickInterval)
	defer tickTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			go t.poll(ctx)
		case <-tickTicker.C:
			t.tick()
		}
	}
}

// poll fetches the mission list and applies it unless a newer poll has
// already landed.
func (t *Tracker) poll(ctx context.Context) {
	gen := t.gen.Add(1)

	records, err := t.fetcher.FetchMissions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			t.log.Warn("mission poll failed", "error", err)
		}
		return
	}

	t.Apply(gen, records)
}

// Apply installs a poll result. Results from polls older than the newest
// applied one are discarded, so delayed responses cannot roll the state
// back.
func (t *Tracker) Apply(gen uint64, records []transport.MissionRecord) {
	t.mu.Lock()
	if gen < t.appliedGen {
		t.mu.Unlock()
		return
	}
	t.appliedGen = gen
	t.mission = headMission(records)
	t.polledAt = t.now()
	snapshot, changed := t.refreshLocked()
	fn := t.onChange
	t.mu.Unlock()

	if changed && fn != nil {
		fn(snapshot)
	}
}

// NextGen issues a poll generation. Exposed for callers that fetch
// outside the built-in poll loop.
func (t *Tracker) NextGen() uint64 {
	return t.gen.Add(1)
}

func (t *Tracker) tick() {
	t.mu.Lock()
	snapshot, changed := t.refreshLocked()
	fn := t.onChange
	t.mu.Unlock()

	if changed && fn != nil {
		fn(snapshot)
	}
}

// refreshLocked recomputes the snapshot and reports whether the phase
// moved since the last observation. Callers hold the mutex.
func (t *Tracker) refreshLocked() (Snapshot, bool) {
	snapshot := t.snapshotLocked()
	changed := snapshot.Phase != t.lastPhase
	t.lastPhase = snapshot.Phase
	return snapshot, changed
}

// Snapshot returns the current mission state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Mission:  t.mission,
		Phase:    PhaseHidden,
		PolledAt: t.polledAt,
	}
	if t.mission != nil && t.mission.AppointmentDate != nil {
		snapshot.Remaining = t.mission.AppointmentDate.Sub(t.now())
		snapshot.Phase = PhaseOf(snapshot.Remaining)
	}
	return snapshot
}

// headMission picks the first record that carries a concrete target time.
// The server already ranks the list, so the head is the next mission.
func headMission(records []transport.MissionRecord) *transport.MissionRecord {
	for i := range records {
		if records[i].AppointmentDate != nil {
			record := records[i]
			return &record
		}
	}
	return nil
}
