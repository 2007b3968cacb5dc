package scoring

import (
	"context"
	"errors"
	"sync"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/scoring/repository"

	"github.com/google/uuid"
)

// LedgerStore is the data access the XP ledger needs.
type LedgerStore interface {
	GetProgress(ctx context.Context, agentID uuid.UUID) (repository.Progress, error)
	UpsertProgress(ctx context.Context, p repository.Progress) error
}

// Ledger is the additive XP/streak accumulator, the only mutable state in
// scoring. Awards per agent are serialized through a keyed mutex so
// concurrent calls cannot lose updates; the upsert itself is a single
// statement.
type Ledger struct {
	store    LedgerStore
	eventBus events.Bus

	locks sync.Map // agent ID -> *sync.Mutex
}

// NewLedger creates a new XP ledger over the given store.
func NewLedger(store LedgerStore, eventBus events.Bus) *Ledger {
	return &Ledger{store: store, eventBus: eventBus}
}

func (l *Ledger) lockFor(agentID uuid.UUID) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(agentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Award adds XP to the agent's ledger and advances the streak. The streak
// increments only when the last recorded activity was exactly yesterday,
// resets to 1 after a longer gap, and is left alone when the agent already
// recorded activity today.
func (l *Ledger) Award(ctx context.Context, agentID uuid.UUID, amount int64, reason string) (repository.Progress, error) {
	mu := l.lockFor(agentID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now()
	progress, err := l.store.GetProgress(ctx, agentID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return repository.Progress{}, err
		}
		progress = repository.Progress{AgentID: agentID, CurrentStreak: 0}
	} else {
		progress.CurrentStreak = nextStreak(progress.CurrentStreak, progress.LastActivityDate, now)
	}

	if progress.CurrentStreak == 0 {
		progress.CurrentStreak = 1
	}

	progress.TotalXP += amount
	progress.CurrentLevel = XPLevel(progress.TotalXP)
	progress.LastActivityDate = now

	if err := l.store.UpsertProgress(ctx, progress); err != nil {
		return repository.Progress{}, err
	}

	l.eventBus.Publish(ctx, events.XPAwarded{
		BaseEvent: events.NewBaseEvent(),
		AgentID:   agentID,
		Amount:    amount,
		Reason:    reason,
	})

	return progress, nil
}

// nextStreak advances a streak given the previous activity date, comparing
// local calendar days, not 24h windows.
func nextStreak(current int, last, now time.Time) int {
	lastDay := localDay(last)
	today := localDay(now)

	switch today.Sub(lastDay) {
	case 0:
		return current // already recorded today
	case 24 * time.Hour:
		return current + 1 // consecutive day
	default:
		return 1 // gap, start over
	}
}

func localDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
