package scoring

import (
	"context"
	"sync"
	"testing"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/scoring/repository"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLedgerStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]repository.Progress
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{rows: make(map[uuid.UUID]repository.Progress)}
}

func (s *fakeLedgerStore) GetProgress(_ context.Context, agentID uuid.UUID) (repository.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[agentID]
	if !ok {
		return repository.Progress{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *fakeLedgerStore) UpsertProgress(_ context.Context, p repository.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.AgentID] = p
	return nil
}

func newTestLedger(store LedgerStore) *Ledger {
	return NewLedger(store, events.NewInMemoryBus(logger.New("development")))
}

func TestAwardCreatesRowLazily(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := newTestLedger(store)
	agentID := uuid.New()

	progress, err := ledger.Award(context.Background(), agentID, 250, "first_call")
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalXP != 250 {
		t.Fatalf("expected 250 XP, got %d", progress.TotalXP)
	}
	if progress.CurrentStreak != 1 {
		t.Fatalf("new row should start streak at 1, got %d", progress.CurrentStreak)
	}
	if progress.CurrentLevel != 1 {
		t.Fatalf("expected level 1, got %d", progress.CurrentLevel)
	}
}

func TestAwardAccumulatesAndLevels(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := newTestLedger(store)
	agentID := uuid.New()

	ctx := context.Background()
	if _, err := ledger.Award(ctx, agentID, 800, "a"); err != nil {
		t.Fatal(err)
	}
	progress, err := ledger.Award(ctx, agentID, 400, "b")
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalXP != 1200 {
		t.Fatalf("expected 1200 XP, got %d", progress.TotalXP)
	}
	if progress.CurrentLevel != 2 {
		t.Fatalf("expected level 2 at 1200 XP, got %d", progress.CurrentLevel)
	}
	if progress.CurrentStreak != 1 {
		t.Fatalf("same-day awards must not grow the streak, got %d", progress.CurrentStreak)
	}
}

func TestStreakIncrementsOnConsecutiveDay(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := newTestLedger(store)
	agentID := uuid.New()

	store.rows[agentID] = repository.Progress{
		AgentID:          agentID,
		TotalXP:          100,
		CurrentLevel:     1,
		CurrentStreak:    4,
		LastActivityDate: time.Now().AddDate(0, 0, -1),
	}

	progress, err := ledger.Award(context.Background(), agentID, 50, "daily")
	if err != nil {
		t.Fatal(err)
	}
	if progress.CurrentStreak != 5 {
		t.Fatalf("expected streak 5 after consecutive day, got %d", progress.CurrentStreak)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := newTestLedger(store)
	agentID := uuid.New()

	store.rows[agentID] = repository.Progress{
		AgentID:          agentID,
		TotalXP:          100,
		CurrentLevel:     1,
		CurrentStreak:    9,
		LastActivityDate: time.Now().AddDate(0, 0, -3),
	}

	progress, err := ledger.Award(context.Background(), agentID, 50, "back_again")
	if err != nil {
		t.Fatal(err)
	}
	if progress.CurrentStreak != 1 {
		t.Fatalf("expected streak reset to 1 after a gap, got %d", progress.CurrentStreak)
	}
}

func TestConcurrentAwardsDoNotLoseUpdates(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := newTestLedger(store)
	agentID := uuid.New()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := ledger.Award(context.Background(), agentID, 10, "burst"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	progress, err := store.GetProgress(context.Background(), agentID)
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalXP != workers*10 {
		t.Fatalf("expected %d XP after %d awards, got %d", workers*10, workers, progress.TotalXP)
	}
}
