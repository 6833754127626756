package database

import (
	"context"

	"sindesk_negotiation/internal/models"
)

type NegotiationItemsRepo struct {
	table string
}

func NewNegotiationItemsRepo() *NegotiationItemsRepo {
	return &NegotiationItemsRepo{table: "negotiation_items"}
}

func (r *NegotiationItemsRepo) InsertBatch(ctx context.Context, q Querier, items []models.NegotiationItem) error {
	query := `
		INSERT INTO ` + r.table + ` (
			id, negotiation_id, billing_item_id, category_name,
			competence_month, competence_year, original_cents, due_date,
			days_overdue, interest_cents, correction_cents, late_fee_cents,
			total_cents, created_at
		) VALUES (
			$1::uuid, $2::uuid, $3::uuid, $4,
			$5, $6, $7, $8::date,
			$9, $10, $11, $12,
			$13, NOW()
		)
	`

	for _, it := range items {
		if _, err := q.Exec(ctx, query,
			it.ID, it.NegotiationID, it.BillingItemID, it.CategoryName,
			it.CompetenceMonth, it.CompetenceYear, it.OriginalCents, it.DueDate,
			it.DaysOverdue, it.InterestCents, it.CorrectionCents, it.LateFeeCents,
			it.TotalCents,
		); err != nil {
			return err
		}
	}
	return nil
}
