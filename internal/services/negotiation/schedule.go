package negotiation

import (
	"time"

	"sindesk_negotiation/internal/dates"
)

// Plan is the mutable installment configuration of the wizard's planning
// step. OverrideDates is sparse: absent entries use the computed date,
// entry 0 overrides the down-payment date.
type Plan struct {
	InstallmentCount int
	DownPaymentCents int64
	FirstDueDate     time.Time
	OverrideDates    map[int]time.Time
}

type ScheduleEntry struct {
	Number     int       `json:"number"`
	ValueCents int64     `json:"value_cents"`
	DueDate    time.Time `json:"due_date"`
}

const downPaymentLeadDays = 2

// BuildSchedule produces the ordered installment list. Validation happens
// upstream (PlanInstallments); this builder never fails.
//
// Dates: the down payment falls two days after asOf unless overridden; with
// a down payment, regular installment i falls i calendar months after the
// down-payment date; without one, i-1 months after FirstDueDate. Overrides
// always win. Month addition clamps to month end.
//
// Values: every regular installment carries the rounded per-installment
// value except the last, which absorbs the rounding residual so that
// downPayment + sum(installments) equals the negotiated total exactly.
func BuildSchedule(plan Plan, amountToFinance, installmentValue int64, asOf time.Time) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, plan.InstallmentCount+1)

	hasDown := plan.DownPaymentCents > 0
	var downDate time.Time
	if hasDown {
		downDate = dates.AddDays(asOf, downPaymentLeadDays)
		if ov, ok := plan.OverrideDates[0]; ok {
			downDate = dates.Normalize(ov)
		}
		entries = append(entries, ScheduleEntry{
			Number:     0,
			ValueCents: plan.DownPaymentCents,
			DueDate:    downDate,
		})
	}

	for i := 1; i <= plan.InstallmentCount; i++ {
		var due time.Time
		switch {
		case hasOverride(plan.OverrideDates, i):
			due = dates.Normalize(plan.OverrideDates[i])
		case hasDown:
			due = dates.AddMonths(downDate, i)
		default:
			due = dates.AddMonths(plan.FirstDueDate, i-1)
		}

		value := installmentValue
		if i == plan.InstallmentCount {
			value = amountToFinance - installmentValue*int64(plan.InstallmentCount-1)
		}

		entries = append(entries, ScheduleEntry{Number: i, ValueCents: value, DueDate: due})
	}

	return entries
}

func hasOverride(m map[int]time.Time, i int) bool {
	_, ok := m[i]
	return ok
}
