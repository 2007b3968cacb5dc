package importer

import (
	"context"
	"errors"
	"testing"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/leads/repository"
	"coldcall_backend/platform/apperr"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeImportStore struct {
	*fakePhoneStore
	batch     repository.UploadBatch
	leads     []repository.Lead
	inserted  int
	createErr error
}

func (s *fakeImportStore) CreateBatchWithLeads(_ context.Context, batch repository.UploadBatch, leads []repository.Lead) (int, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.batch = batch
	s.leads = leads
	if s.inserted >= 0 {
		return s.inserted, nil
	}
	return len(leads), nil
}

func newImportService(store *fakeImportStore) *Service {
	return New(store, events.NewInMemoryBus(logger.New("development")), logger.New("development"))
}

func TestImportPersistsAcceptedRows(t *testing.T) {
	store := &fakeImportStore{fakePhoneStore: newFakePhoneStore(), inserted: -1}
	svc := newImportService(store)

	result, err := svc.Import(context.Background(), uuid.New(), []ParsedRow{
		row("Berber", "0555 123 45 67"),
		row("Market", "0532 111 22 33"),
		{BusinessName: "Değersiz", RawPhone: "123"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Accepted != 2 || result.Duplicates != 0 || result.Invalid != 1 {
		t.Fatalf("got %+v", result)
	}
	if store.batch.TotalLeads != 2 {
		t.Fatalf("expected batch size 2, got %d", store.batch.TotalLeads)
	}
	for _, lead := range store.leads {
		if lead.Status != repository.StatusPending {
			t.Fatalf("imported leads must start pending, got %q", lead.Status)
		}
		if lead.Phone != "905551234567" && lead.Phone != "905321112233" {
			t.Fatalf("leads must persist the canonical phone, got %q", lead.Phone)
		}
	}
}

func TestImportNormalizesUnknownPotentialLevel(t *testing.T) {
	store := &fakeImportStore{fakePhoneStore: newFakePhoneStore(), inserted: -1}
	svc := newImportService(store)

	_, err := svc.Import(context.Background(), uuid.New(), []ParsedRow{
		{BusinessName: "Firma", RawPhone: "0555 123 45 67", PotentialLevel: "çok yüksek"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if store.leads[0].PotentialLevel != "not_assessed" {
		t.Fatalf("unknown level must fall back to not_assessed, got %q", store.leads[0].PotentialLevel)
	}
}

func TestImportCountsRacedRowsAsDuplicates(t *testing.T) {
	// The insert reports one fewer row than accepted: a concurrent import
	// won the unique-phone race for it.
	store := &fakeImportStore{fakePhoneStore: newFakePhoneStore(), inserted: 1}
	svc := newImportService(store)

	result, err := svc.Import(context.Background(), uuid.New(), []ParsedRow{
		row("A", "0555 123 45 67"),
		row("B", "0532 111 22 33"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Accepted != 1 {
		t.Fatalf("expected 1 accepted, got %d", result.Accepted)
	}
	if result.Duplicates != 1 {
		t.Fatalf("raced row must count as duplicate, got %d", result.Duplicates)
	}
}

func TestImportRejectsEmptyBatch(t *testing.T) {
	store := &fakeImportStore{fakePhoneStore: newFakePhoneStore(), inserted: -1}
	svc := newImportService(store)

	_, err := svc.Import(context.Background(), uuid.New(), nil)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportAbortsWhenPersistFails(t *testing.T) {
	store := &fakeImportStore{
		fakePhoneStore: newFakePhoneStore(),
		createErr:      errors.New("deadlock detected"),
	}
	svc := newImportService(store)

	_, err := svc.Import(context.Background(), uuid.New(), []ParsedRow{
		row("Firma", "0555 123 45 67"),
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
