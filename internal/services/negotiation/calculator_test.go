package negotiation

import (
	"testing"
	"time"

	"sindesk_negotiation/internal/models"
)

func testSettings() models.NegotiationSettings {
	s := models.DefaultSettings("org-1")
	s.InterestRateMonthly = 1.0
	s.CorrectionRateMonthly = 0.5
	s.LateFeePercentage = 2.0
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func item(id string, valueCents int64, due time.Time) models.BillingItem {
	return models.BillingItem{
		ID:           id,
		EmployerID:   "emp-1",
		CategoryName: "mensalidade",
		ValueCents:   valueCents,
		DueDate:      due,
		Status:       models.BillingStatusOverdue,
	}
}

func TestComputeNotYetDue(t *testing.T) {
	asOf := day(2026, 3, 1)
	for _, due := range []time.Time{asOf, day(2026, 3, 15), day(2027, 1, 1)} {
		ci, err := Compute(item("a", 10000, due), testSettings(), asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ci.DaysOverdue != 0 {
			t.Errorf("due %s: daysOverdue = %d, want 0", due, ci.DaysOverdue)
		}
		if ci.InterestCents != 0 || ci.CorrectionCents != 0 || ci.LateFeeCents != 0 {
			t.Errorf("due %s: surcharges on a non-overdue item: %+v", due, ci)
		}
		if ci.TotalCents != 10000 {
			t.Errorf("due %s: total = %d, want 10000", due, ci.TotalCents)
		}
	}
}

func TestComputeSixtyDaysOverdue(t *testing.T) {
	// 10,000 cents, 60 days overdue, 1.0%/mo interest, 0.5%/mo correction,
	// 2.0% flat late fee: months = 2.0, interest 200, correction 100,
	// late fee 200, total 10,500.
	asOf := day(2026, 3, 2)
	due := day(2026, 1, 1)

	ci, err := Compute(item("a", 10000, due), testSettings(), asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ci.DaysOverdue != 60 {
		t.Fatalf("daysOverdue = %d, want 60", ci.DaysOverdue)
	}
	if ci.InterestCents != 200 {
		t.Errorf("interest = %d, want 200", ci.InterestCents)
	}
	if ci.CorrectionCents != 100 {
		t.Errorf("correction = %d, want 100", ci.CorrectionCents)
	}
	if ci.LateFeeCents != 200 {
		t.Errorf("lateFee = %d, want 200", ci.LateFeeCents)
	}
	if ci.TotalCents != 10500 {
		t.Errorf("total = %d, want 10500", ci.TotalCents)
	}
}

func TestComputeLateFeeIsFlat(t *testing.T) {
	s := testSettings()
	asOf := day(2026, 3, 1)

	one, _ := Compute(item("a", 10000, day(2026, 2, 28)), s, asOf) // 1 day overdue
	many, _ := Compute(item("a", 10000, day(2025, 3, 1)), s, asOf) // a year overdue

	if one.LateFeeCents != 200 || many.LateFeeCents != 200 {
		t.Errorf("late fee must not be prorated: 1d=%d 365d=%d, want 200 both",
			one.LateFeeCents, many.LateFeeCents)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	asOf := day(2026, 3, 2)
	it := item("a", 123457, day(2025, 11, 13))

	first, err := Compute(it, testSettings(), asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(it, testSettings(), asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("same inputs gave different results:\n%+v\n%+v", first, second)
	}
	if first.TotalCents != it.ValueCents+first.InterestCents+first.CorrectionCents+first.LateFeeCents {
		t.Errorf("breakdown does not add up: %+v", first)
	}
}

func TestComputeRejectsNegativeValue(t *testing.T) {
	_, err := Compute(item("a", -1, day(2026, 1, 1)), testSettings(), day(2026, 3, 1))
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	asOf := day(2026, 3, 2)
	s := testSettings()

	var items []CalculatedItem
	for i, v := range []int64{10000, 5550, 123457, 999} {
		ci, err := Compute(item(string(rune('a'+i)), v, day(2025, 12, 1+i)), s, asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items = append(items, ci)
	}

	forward := Aggregate(items)

	reversed := make([]CalculatedItem, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}
	if back := Aggregate(reversed); back != forward {
		t.Errorf("aggregation depends on order: %+v vs %+v", forward, back)
	}

	var wantNegotiated int64
	for _, it := range items {
		wantNegotiated += it.TotalCents
	}
	if forward.NegotiatedCents != wantNegotiated {
		t.Errorf("negotiated = %d, want %d", forward.NegotiatedCents, wantNegotiated)
	}
}

func TestDerivePerInstallment(t *testing.T) {
	totals := Totals{NegotiatedCents: 21000}

	amount, value, err := DerivePerInstallment(totals, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 21000 || value != 7000 {
		t.Errorf("got amount=%d value=%d, want 21000/7000", amount, value)
	}

	amount, value, err = DerivePerInstallment(totals, 3000, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 18000 || value != 6000 {
		t.Errorf("got amount=%d value=%d, want 18000/6000", amount, value)
	}

	if _, _, err := DerivePerInstallment(totals, 0, 0); !IsValidation(err) {
		t.Errorf("count 0: expected validation error, got %v", err)
	}
	if _, _, err := DerivePerInstallment(totals, -1, 3); !IsValidation(err) {
		t.Errorf("negative down payment: expected validation error, got %v", err)
	}
	if _, _, err := DerivePerInstallment(totals, 21001, 3); !IsValidation(err) {
		t.Errorf("down payment above total: expected validation error, got %v", err)
	}
}

func TestMinimumDownPayment(t *testing.T) {
	s := testSettings()
	totals := Totals{NegotiatedCents: 21000}

	if got := MinimumDownPayment(totals, s); got != 0 {
		t.Errorf("not required: got %d, want 0", got)
	}

	s.RequireDownPayment = true
	s.MinDownPaymentPercentage = 10
	if got := MinimumDownPayment(totals, s); got != 2100 {
		t.Errorf("got %d, want 2100", got)
	}
}
