package database

import (
	"context"
	"errors"
	"fmt"

	"sindesk_negotiation/internal/config/connections/postgres"
	"sindesk_negotiation/internal/models"
)

// ErrItemsUnavailable signals that some selected billing items were attached
// to another negotiation after the eligibility fetch. The commit transaction
// rolls back; the user has to refresh the selection.
var ErrItemsUnavailable = errors.New("billing items no longer available for negotiation")

type BillingItemsRepo struct {
	pg    *postgres.Postgres
	table string
}

func NewBillingItemsRepo(pg *postgres.Postgres) *BillingItemsRepo {
	return &BillingItemsRepo{
		pg:    pg,
		table: "billing_items",
	}
}

// ListEligible returns the employer's items that can enter a negotiation:
// pending or overdue, not attached to one already, due date ascending.
func (r *BillingItemsRepo) ListEligible(ctx context.Context, employerID string) ([]models.BillingItem, error) {
	query := `
		SELECT id, employer_id, organization_id, category_id, category_name,
		       competence_month, competence_year, value_cents, due_date,
		       status, negotiation_id, created_at
		FROM ` + r.table + `
		WHERE employer_id = $1::uuid
		  AND status IN ($2, $3)
		  AND negotiation_id IS NULL
		ORDER BY due_date ASC
	`

	rows, err := r.pg.Pool.Query(ctx, query,
		employerID, models.BillingStatusPending, models.BillingStatusOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.BillingItem, 0)
	for rows.Next() {
		var it models.BillingItem
		if err := rows.Scan(
			&it.ID, &it.EmployerID, &it.OrganizationID, &it.CategoryID, &it.CategoryName,
			&it.CompetenceMonth, &it.CompetenceYear, &it.ValueCents, &it.DueDate,
			&it.Status, &it.NegotiationID, &it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Attach stamps the committed negotiation onto the selected items. Runs
// inside the commit transaction via q. The negotiation_id IS NULL guard
// loses the race against a concurrent commit on the same items, so a short
// row count is an error and must roll the transaction back.
func (r *BillingItemsRepo) Attach(ctx context.Context, q Querier, negotiationID string, itemIDs []string) error {
	query := `
		UPDATE ` + r.table + `
		SET negotiation_id = $1::uuid, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND negotiation_id IS NULL
	`
	tag, err := q.Exec(ctx, query, negotiationID, itemIDs)
	if err != nil {
		return err
	}
	if got := tag.RowsAffected(); got != int64(len(itemIDs)) {
		return fmt.Errorf("%w: attached %d of %d items", ErrItemsUnavailable, got, len(itemIDs))
	}
	return nil
}
