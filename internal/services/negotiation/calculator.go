package negotiation

import (
	"time"

	"sindesk_negotiation/internal/dates"
	"sindesk_negotiation/internal/models"

	"github.com/shopspring/decimal"
)

// CalculatedItem is the per-item surcharge breakdown as of a fixed instant.
// Invariant: TotalCents = original + interest + correction + late fee.
type CalculatedItem struct {
	Item            models.BillingItem `json:"item"`
	DaysOverdue     int                `json:"days_overdue"`
	InterestCents   int64              `json:"interest_cents"`
	CorrectionCents int64              `json:"correction_cents"`
	LateFeeCents    int64              `json:"late_fee_cents"`
	TotalCents      int64              `json:"total_cents"`
}

type Totals struct {
	OriginalCents   int64 `json:"original_cents"`
	InterestCents   int64 `json:"interest_cents"`
	CorrectionCents int64 `json:"correction_cents"`
	LateFeeCents    int64 `json:"late_fee_cents"`
	NegotiatedCents int64 `json:"negotiated_cents"`
}

var (
	hundred    = decimal.NewFromInt(100)
	thirtyDays = decimal.NewFromInt(30)
)

// Compute derives days overdue and the three surcharges for one billing
// item. Months overdue use a flat 30-day month (daysOverdue/30, fractional),
// not calendar arithmetic. Each component is rounded half-up to the cent.
func Compute(item models.BillingItem, s models.NegotiationSettings, asOf time.Time) (CalculatedItem, error) {
	if item.ValueCents < 0 {
		return CalculatedItem{}, invalid("value", "billing item value cannot be negative")
	}

	daysOverdue := dates.DaysBetween(item.DueDate, asOf)
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	value := decimal.NewFromInt(item.ValueCents)
	months := decimal.NewFromInt(int64(daysOverdue)).Div(thirtyDays)

	interest := value.
		Mul(decimal.NewFromFloat(s.InterestRateMonthly)).Div(hundred).
		Mul(months).Round(0).IntPart()
	correction := value.
		Mul(decimal.NewFromFloat(s.CorrectionRateMonthly)).Div(hundred).
		Mul(months).Round(0).IntPart()

	// The late fee is a one-time flat penalty: applied once if the item is
	// overdue at all, never prorated.
	var lateFee int64
	if daysOverdue > 0 {
		lateFee = value.
			Mul(decimal.NewFromFloat(s.LateFeePercentage)).Div(hundred).
			Round(0).IntPart()
	}

	return CalculatedItem{
		Item:            item,
		DaysOverdue:     daysOverdue,
		InterestCents:   interest,
		CorrectionCents: correction,
		LateFeeCents:    lateFee,
		TotalCents:      item.ValueCents + interest + correction + lateFee,
	}, nil
}

// Aggregate sums the per-item breakdowns. Order-independent.
func Aggregate(items []CalculatedItem) Totals {
	var t Totals
	for _, it := range items {
		t.OriginalCents += it.Item.ValueCents
		t.InterestCents += it.InterestCents
		t.CorrectionCents += it.CorrectionCents
		t.LateFeeCents += it.LateFeeCents
		t.NegotiatedCents += it.TotalCents
	}
	return t
}

// DerivePerInstallment splits the negotiated total minus the down payment
// across installments, rounding half-up to the cent. Any residual cent is
// reconciled by the schedule builder (last installment absorbs it).
func DerivePerInstallment(t Totals, downPaymentCents int64, installmentCount int) (amountToFinance, installmentValue int64, err error) {
	if installmentCount <= 0 {
		return 0, 0, invalid("installment_count", "must be at least 1")
	}
	if downPaymentCents < 0 {
		return 0, 0, invalid("down_payment", "cannot be negative")
	}
	if downPaymentCents > t.NegotiatedCents {
		return 0, 0, invalid("down_payment", "cannot exceed the negotiated total")
	}

	amountToFinance = t.NegotiatedCents - downPaymentCents
	installmentValue = decimal.NewFromInt(amountToFinance).
		Div(decimal.NewFromInt(int64(installmentCount))).
		Round(0).IntPart()
	return amountToFinance, installmentValue, nil
}

// MinimumDownPayment is the policy threshold when a down payment is
// mandatory, rounded half-up to the cent.
func MinimumDownPayment(t Totals, s models.NegotiationSettings) int64 {
	if !s.RequireDownPayment {
		return 0
	}
	return decimal.NewFromInt(t.NegotiatedCents).
		Mul(decimal.NewFromFloat(s.MinDownPaymentPercentage)).Div(hundred).
		Round(0).IntPart()
}
