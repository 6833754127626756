package database

import (
	"context"

	"sindesk_negotiation/internal/models"
)

type NegotiationsRepo struct {
	table string
}

func NewNegotiationsRepo() *NegotiationsRepo {
	return &NegotiationsRepo{table: "negotiations"}
}

func (r *NegotiationsRepo) Insert(ctx context.Context, q Querier, n models.Negotiation) error {
	query := `
		INSERT INTO ` + r.table + ` (
			id, organization_id, employer_id, code, status,
			original_value_cents, total_interest_cents, total_correction_cents,
			total_late_fee_cents, total_negotiated_cents,
			down_payment_cents, installment_count, installment_value_cents,
			first_due_date, interest_rate_monthly, correction_rate_monthly,
			late_fee_percentage, legal_basis, created_by, valid_until, created_at
		) VALUES (
			$1::uuid, $2::uuid, $3::uuid, $4, $5,
			$6, $7, $8,
			$9, $10,
			$11, $12, $13,
			$14::date, $15, $16,
			$17, $18, $19, $20, NOW()
		)
	`

	_, err := q.Exec(ctx, query,
		n.ID, n.OrganizationID, n.EmployerID, n.Code, n.Status,
		n.OriginalValueCents, n.TotalInterestCents, n.TotalCorrectionCents,
		n.TotalLateFeeCents, n.TotalNegotiatedCents,
		n.DownPaymentCents, n.InstallmentCount, n.InstallmentValueCents,
		n.FirstDueDate, n.InterestRateMonthly, n.CorrectionRateMonthly,
		n.LateFeePercentage, n.LegalBasis, n.CreatedBy, n.ValidUntil,
	)
	return err
}

func (r *NegotiationsRepo) GetTableName() string {
	return r.table
}
