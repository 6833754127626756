package models

// NegotiationSettings holds the per-organization negotiation parameters and
// policy constraints. Rates are monthly percentages (1.0 = 1% per month),
// money is in cents. Immutable within one wizard session.
type NegotiationSettings struct {
	OrganizationID           string  `json:"organization_id"`
	InterestRateMonthly      float64 `json:"interest_rate_monthly"`
	CorrectionRateMonthly    float64 `json:"correction_rate_monthly"`
	LateFeePercentage        float64 `json:"late_fee_percentage"`
	LegalBasis               string  `json:"legal_basis"`
	MaxInstallments          int     `json:"max_installments"`
	MinInstallmentValueCents int64   `json:"min_installment_value_cents"`
	AllowPartialSelection    bool    `json:"allow_partial_selection"`
	RequireDownPayment       bool    `json:"require_down_payment"`
	MinDownPaymentPercentage float64 `json:"min_down_payment_percentage"`
	ValidityDays             int     `json:"validity_days"`
}

// DefaultSettings is substituted when the organization has no settings row.
func DefaultSettings(organizationID string) NegotiationSettings {
	return NegotiationSettings{
		OrganizationID:           organizationID,
		InterestRateMonthly:      1.0,
		CorrectionRateMonthly:    0.5,
		LateFeePercentage:        2.0,
		LegalBasis:               "Acordo de parcelamento conforme convenção coletiva vigente.",
		MaxInstallments:          36,
		MinInstallmentValueCents: 5000,
		AllowPartialSelection:    true,
		RequireDownPayment:       false,
		MinDownPaymentPercentage: 10.0,
		ValidityDays:             10,
	}
}
