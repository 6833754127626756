package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQuerier struct {
	tag pgconn.CommandTag
	err error
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f.tag, f.err
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func TestAttachAllRowsUpdated(t *testing.T) {
	repo := NewBillingItemsRepo(nil)
	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 3")}

	if err := repo.Attach(context.Background(), q, "neg-1", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
}

func TestAttachShortRowCountFailsTheTransaction(t *testing.T) {
	// An item grabbed by a concurrent commit no longer matches the
	// negotiation_id IS NULL guard; the short count must surface as an
	// error so the caller rolls back instead of committing a negotiation
	// over a foreign-owned item.
	repo := NewBillingItemsRepo(nil)
	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 2")}

	err := repo.Attach(context.Background(), q, "neg-1", []string{"a", "b", "c"})
	if !errors.Is(err, ErrItemsUnavailable) {
		t.Fatalf("expected ErrItemsUnavailable, got %v", err)
	}
}

func TestAttachPropagatesExecErrors(t *testing.T) {
	repo := NewBillingItemsRepo(nil)
	execErr := fmt.Errorf("connection reset")
	q := &fakeQuerier{err: execErr}

	err := repo.Attach(context.Background(), q, "neg-1", []string{"a"})
	if !errors.Is(err, execErr) {
		t.Fatalf("expected the exec error, got %v", err)
	}
}
