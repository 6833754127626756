package negotiation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"sindesk_negotiation/internal/models"
	"sindesk_negotiation/internal/repository/database"
)

type fakeBilling struct {
	items []models.BillingItem
	err   error
}

func (f *fakeBilling) ListEligible(ctx context.Context, employerID string) ([]models.BillingItem, error) {
	return f.items, f.err
}

type fakeSettings struct {
	settings *models.NegotiationSettings
	err      error
	calls    int
}

func (f *fakeSettings) GetByOrganization(ctx context.Context, organizationID string) (*models.NegotiationSettings, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

type fakeStore struct {
	mu       sync.Mutex
	failures int
	calls    int
	created  []models.Negotiation
	items    [][]models.NegotiationItem
	insts    [][]models.Installment
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeStore) CreateNegotiation(ctx context.Context, n models.Negotiation, items []models.NegotiationItem, insts []models.Installment) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return fmt.Errorf("insert negotiation %s: %w", n.Code, database.ErrCodeTaken)
	}
	f.created = append(f.created, n)
	f.items = append(f.items, items)
	f.insts = append(f.insts, insts)
	return nil
}

type fakeCodes struct {
	n   int
	err error
}

func (f *fakeCodes) NextCode(ctx context.Context, organizationID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.n++
	return fmt.Sprintf("NEG-2026-%06d", f.n), nil
}

func newTestService(store *fakeStore, codes *fakeCodes, settings *fakeSettings) *Service {
	if settings == nil {
		settings = &fakeSettings{err: database.ErrSettingsNotFound}
	}
	return NewService(
		&fakeBilling{items: eligibleSet()},
		settings,
		store,
		codes,
		nil, // cache
		nil, // audit
		nil, // archive
	)
}

func previewedSession(t *testing.T, svc *Service) *Session {
	t.Helper()
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, "org-1", "emp-1", "user-7")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := sess.SelectItems([]string{"it-1", "it-2"}); err != nil {
		t.Fatalf("SelectItems: %v", err)
	}
	if err := sess.Calculate(day(2026, 3, 2)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := sess.PlanInstallments(Plan{InstallmentCount: 3, FirstDueDate: day(2026, 4, 1)}); err != nil {
		t.Fatalf("PlanInstallments: %v", err)
	}
	return sess
}

func TestCommitPersistsOnce(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeCodes{}, nil)
	sess := previewedSession(t, svc)

	result, err := svc.Commit(context.Background(), sess)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d negotiations, want 1", len(store.created))
	}
	n := store.created[0]
	if n.Code != "NEG-2026-000001" {
		t.Errorf("code = %q", n.Code)
	}
	if n.Status != models.NegotiationStatusSimulation {
		t.Errorf("status = %q, want simulation", n.Status)
	}
	if n.TotalNegotiatedCents != 21000 || n.InstallmentValueCents != 7000 {
		t.Errorf("totals wrong: %+v", n)
	}
	if n.CreatedBy != "user-7" {
		t.Errorf("created_by = %q", n.CreatedBy)
	}
	if len(store.items[0]) != 2 || len(store.insts[0]) != 3 {
		t.Errorf("rows wrong: %d items, %d installments", len(store.items[0]), len(store.insts[0]))
	}
	for _, in := range store.insts[0] {
		if in.NegotiationID != n.ID || in.Status != models.InstallmentStatusPending {
			t.Errorf("installment not linked/pending: %+v", in)
		}
	}
	if result.Negotiation.ID != n.ID {
		t.Errorf("result header mismatch")
	}
	if sess.Step() != StepCommitted {
		t.Errorf("step = %s, want committed", sess.Step())
	}
}

func TestCommitRetriesOnCodeCollision(t *testing.T) {
	// Two collisions, success on the third attempt: exactly one header is
	// persisted and it carries the third code.
	store := &fakeStore{failures: 2}
	svc := newTestService(store, &fakeCodes{}, nil)
	sess := previewedSession(t, svc)

	result, err := svc.Commit(context.Background(), sess)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if store.calls != 3 {
		t.Errorf("store calls = %d, want 3", store.calls)
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d negotiations, want exactly 1", len(store.created))
	}
	if result.Negotiation.Code != "NEG-2026-000003" {
		t.Errorf("code = %q, want the third allocation", result.Negotiation.Code)
	}
}

func TestCommitExhaustsCodeRetries(t *testing.T) {
	store := &fakeStore{failures: 100}
	svc := newTestService(store, &fakeCodes{}, nil)
	sess := previewedSession(t, svc)

	_, err := svc.Commit(context.Background(), sess)
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
	if store.calls != maxCodeAttempts {
		t.Errorf("store calls = %d, want %d", store.calls, maxCodeAttempts)
	}
	if sess.Step() != StepPreview {
		t.Errorf("session state lost after failed commit: step = %s", sess.Step())
	}
}

func TestCommitAbortsOnOtherErrors(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeCodes{err: errors.New("sequence unavailable")}, nil)
	sess := previewedSession(t, svc)

	_, err := svc.Commit(context.Background(), sess)
	if err == nil || errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected a fatal non-retry error, got %v", err)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times after code generation failed", store.calls)
	}
	// State preserved so the user can retry without redoing earlier steps.
	if sess.Step() != StepPreview {
		t.Errorf("step = %s, want preview", sess.Step())
	}
}

func TestCommitReentrancyGuard(t *testing.T) {
	store := &fakeStore{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := newTestService(store, &fakeCodes{}, nil)
	sess := previewedSession(t, svc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Commit(context.Background(), sess)
		done <- err
	}()

	<-store.entered // first commit is inside the store call

	if _, err := svc.Commit(context.Background(), sess); !errors.Is(err, ErrCommitInFlight) {
		t.Fatalf("expected ErrCommitInFlight, got %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if len(store.created) != 1 {
		t.Errorf("created %d negotiations, want 1", len(store.created))
	}
}

func TestCommitRequiresPreview(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeCodes{}, nil)
	sess, err := svc.StartSession(context.Background(), "org-1", "emp-1", "user-7")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := svc.Commit(context.Background(), sess); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSettingsForFallsBackToDefaults(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeCodes{}, &fakeSettings{err: database.ErrSettingsNotFound})

	got, err := svc.SettingsFor(context.Background(), "org-9")
	if err != nil {
		t.Fatalf("SettingsFor: %v", err)
	}
	want := models.DefaultSettings("org-9")
	if got != want {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSettingsForSurfacesReadErrors(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeCodes{}, &fakeSettings{err: errors.New("connection reset")})

	if _, err := svc.SettingsFor(context.Background(), "org-9"); err == nil {
		t.Fatal("expected the read error to surface")
	}
}

type fakeCache struct {
	stored map[string]models.NegotiationSettings
}

func (f *fakeCache) Get(ctx context.Context, organizationID string) (*models.NegotiationSettings, bool) {
	if s, ok := f.stored[organizationID]; ok {
		return &s, true
	}
	return nil, false
}

func (f *fakeCache) Set(ctx context.Context, s models.NegotiationSettings) error {
	f.stored[s.OrganizationID] = s
	return nil
}

func TestSettingsForUsesCache(t *testing.T) {
	custom := models.DefaultSettings("org-1")
	custom.MaxInstallments = 12
	repo := &fakeSettings{settings: &custom}
	svc := newTestService(&fakeStore{}, &fakeCodes{}, repo)
	svc.Cache = &fakeCache{stored: map[string]models.NegotiationSettings{}}

	first, err := svc.SettingsFor(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("SettingsFor: %v", err)
	}
	second, err := svc.SettingsFor(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("SettingsFor: %v", err)
	}
	if first != second {
		t.Errorf("cache returned different settings")
	}
	if repo.calls != 1 {
		t.Errorf("repo hit %d times, want 1 (second read from cache)", repo.calls)
	}
}
