package models

import "time"

const (
	NegotiationStatusSimulation = "simulation"
	NegotiationStatusAccepted   = "accepted"
	NegotiationStatusExpired    = "expired"
)

const InstallmentStatusPending = "pending"

// Negotiation is the persisted header of a committed payment plan.
// Status transitions past "simulation" belong to the hosted backend.
type Negotiation struct {
	ID                    string    `json:"id"`
	OrganizationID        string    `json:"organization_id"`
	EmployerID            string    `json:"employer_id"`
	Code                  string    `json:"code"`
	Status                string    `json:"status"`
	OriginalValueCents    int64     `json:"original_value_cents"`
	TotalInterestCents    int64     `json:"total_interest_cents"`
	TotalCorrectionCents  int64     `json:"total_correction_cents"`
	TotalLateFeeCents     int64     `json:"total_late_fee_cents"`
	TotalNegotiatedCents  int64     `json:"total_negotiated_cents"`
	DownPaymentCents      int64     `json:"down_payment_cents"`
	InstallmentCount      int       `json:"installment_count"`
	InstallmentValueCents int64     `json:"installment_value_cents"`
	FirstDueDate          time.Time `json:"first_due_date"`
	InterestRateMonthly   float64   `json:"interest_rate_monthly"`
	CorrectionRateMonthly float64   `json:"correction_rate_monthly"`
	LateFeePercentage     float64   `json:"late_fee_percentage"`
	LegalBasis            string    `json:"legal_basis"`
	CreatedBy             string    `json:"created_by"`
	ValidUntil            time.Time `json:"valid_until"`
	CreatedAt             time.Time `json:"created_at"`
}

// NegotiationItem snapshots one billing item as it was computed at commit
// time, so historical negotiations stay stable if rates change later.
type NegotiationItem struct {
	ID              string    `json:"id"`
	NegotiationID   string    `json:"negotiation_id"`
	BillingItemID   string    `json:"billing_item_id"`
	CategoryName    string    `json:"category_name"`
	CompetenceMonth int       `json:"competence_month"`
	CompetenceYear  int       `json:"competence_year"`
	OriginalCents   int64     `json:"original_cents"`
	DueDate         time.Time `json:"due_date"`
	DaysOverdue     int       `json:"days_overdue"`
	InterestCents   int64     `json:"interest_cents"`
	CorrectionCents int64     `json:"correction_cents"`
	LateFeeCents    int64     `json:"late_fee_cents"`
	TotalCents      int64     `json:"total_cents"`
}

// Installment number 0 is reserved for the down payment when present.
type Installment struct {
	ID            string    `json:"id"`
	NegotiationID string    `json:"negotiation_id"`
	Number        int       `json:"number"`
	ValueCents    int64     `json:"value_cents"`
	DueDate       time.Time `json:"due_date"`
	Status        string    `json:"status"`
}
