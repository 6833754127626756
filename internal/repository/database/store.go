package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sindesk_negotiation/internal/config/connections/postgres"
	"sindesk_negotiation/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCodeTaken signals a unique violation on negotiations.code. The commit
// workflow treats it as retryable; everything else aborts the attempt.
var ErrCodeTaken = errors.New("negotiation code already taken")

const uniqueViolation = "23505"

// NegotiationStore persists one negotiation atomically: header, item
// snapshots, installments and the billing-item attachment all commit or
// none of them do.
type NegotiationStore struct {
	pg           *postgres.Postgres
	negotiations *NegotiationsRepo
	items        *NegotiationItemsRepo
	installments *InstallmentsRepo
	billing      *BillingItemsRepo
}

func NewNegotiationStore(pg *postgres.Postgres, billing *BillingItemsRepo) *NegotiationStore {
	return &NegotiationStore{
		pg:           pg,
		negotiations: NewNegotiationsRepo(),
		items:        NewNegotiationItemsRepo(),
		installments: NewInstallmentsRepo(),
		billing:      billing,
	}
}

func (s *NegotiationStore) CreateNegotiation(
	ctx context.Context,
	n models.Negotiation,
	items []models.NegotiationItem,
	insts []models.Installment,
) error {
	tx, err := s.pg.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.negotiations.Insert(ctx, tx, n); err != nil {
		if isCodeConflict(err) {
			return fmt.Errorf("insert negotiation %s: %w", n.Code, ErrCodeTaken)
		}
		return fmt.Errorf("insert negotiation: %w", err)
	}

	if err := s.items.InsertBatch(ctx, tx, items); err != nil {
		return fmt.Errorf("insert negotiation items: %w", err)
	}

	if err := s.installments.InsertBatch(ctx, tx, insts); err != nil {
		return fmt.Errorf("insert installments: %w", err)
	}

	billingIDs := make([]string, 0, len(items))
	for _, it := range items {
		billingIDs = append(billingIDs, it.BillingItemID)
	}
	if err := s.billing.Attach(ctx, tx, n.ID, billingIDs); err != nil {
		return fmt.Errorf("attach billing items: %w", err)
	}

	return tx.Commit(ctx)
}

func isCodeConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && strings.Contains(pgErr.ConstraintName, "code")
}
