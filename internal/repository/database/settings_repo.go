package database

import (
	"context"
	"errors"

	"sindesk_negotiation/internal/config/connections/postgres"
	"sindesk_negotiation/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrSettingsNotFound = errors.New("negotiation settings not found")

type SettingsRepo struct {
	pg    *postgres.Postgres
	table string
}

func NewSettingsRepo(pg *postgres.Postgres) *SettingsRepo {
	return &SettingsRepo{
		pg:    pg,
		table: "negotiation_settings",
	}
}

func (r *SettingsRepo) GetByOrganization(ctx context.Context, organizationID string) (*models.NegotiationSettings, error) {
	query := `
		SELECT organization_id, interest_rate_monthly, correction_rate_monthly,
		       late_fee_percentage, legal_basis, max_installments,
		       min_installment_value_cents, allow_partial_selection,
		       require_down_payment, min_down_payment_percentage, validity_days
		FROM ` + r.table + `
		WHERE organization_id = $1::uuid
		LIMIT 1
	`

	var s models.NegotiationSettings
	err := r.pg.Pool.QueryRow(ctx, query, organizationID).Scan(
		&s.OrganizationID, &s.InterestRateMonthly, &s.CorrectionRateMonthly,
		&s.LateFeePercentage, &s.LegalBasis, &s.MaxInstallments,
		&s.MinInstallmentValueCents, &s.AllowPartialSelection,
		&s.RequireDownPayment, &s.MinDownPaymentPercentage, &s.ValidityDays,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
