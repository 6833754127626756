package negotiation

import (
	"sync/atomic"
	"time"

	"sindesk_negotiation/internal/dates"
	"sindesk_negotiation/internal/models"
)

// The wizard is an explicit state machine. Each transition validates its
// preconditions and either advances the step or returns a *ValidationError;
// navigating back (re-running an earlier transition) resets everything
// downstream of it.
type Step int

const (
	StepSelectEmployer Step = iota
	StepSelectItems
	StepCalculate
	StepPlan
	StepPreview
	StepCommitted
)

func (s Step) String() string {
	switch s {
	case StepSelectEmployer:
		return "select_employer"
	case StepSelectItems:
		return "select_items"
	case StepCalculate:
		return "calculate"
	case StepPlan:
		return "plan_installments"
	case StepPreview:
		return "preview"
	case StepCommitted:
		return "committed"
	}
	return "unknown"
}

// Session holds one user's wizard state. Single-writer: no locking beyond
// the commit re-entrancy guard.
type Session struct {
	OrganizationID string
	CreatorID      string
	Settings       models.NegotiationSettings

	step       Step
	employerID string
	eligible   []models.BillingItem
	selected   []models.BillingItem

	calculatedAt time.Time
	calculated   []CalculatedItem
	totals       Totals

	plan             Plan
	amountToFinance  int64
	installmentValue int64
	schedule         []ScheduleEntry

	committing atomic.Bool
}

func NewSession(organizationID, creatorID string, settings models.NegotiationSettings) *Session {
	return &Session{
		OrganizationID: organizationID,
		CreatorID:      creatorID,
		Settings:       settings,
		step:           StepSelectEmployer,
	}
}

func (s *Session) Step() Step { return s.step }

func (s *Session) EmployerID() string { return s.employerID }

func (s *Session) Eligible() []models.BillingItem { return s.eligible }

func (s *Session) CalculatedAt() time.Time { return s.calculatedAt }

// SelectEmployer fixes the debtor and its eligible items. Selection and all
// later state reset.
func (s *Session) SelectEmployer(employerID string, eligible []models.BillingItem) error {
	if employerID == "" {
		return invalid("employer_id", "an employer must be chosen")
	}

	kept := make([]models.BillingItem, 0, len(eligible))
	for _, it := range eligible {
		if it.Eligible() {
			kept = append(kept, it)
		}
	}

	s.employerID = employerID
	s.eligible = kept
	s.selected = nil
	s.calculated = nil
	s.totals = Totals{}
	s.schedule = nil
	s.step = StepSelectItems
	return nil
}

// SelectItems records the selection. IDs must belong to the eligible set;
// when partial selection is forbidden, the whole eligible set is required.
func (s *Session) SelectItems(itemIDs []string) error {
	if s.step < StepSelectItems {
		return invalid("step", "an employer must be chosen first")
	}
	if len(itemIDs) == 0 {
		return invalid("items", "select at least one contribution")
	}

	byID := make(map[string]models.BillingItem, len(s.eligible))
	for _, it := range s.eligible {
		byID[it.ID] = it
	}

	selected := make([]models.BillingItem, 0, len(itemIDs))
	seen := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		it, ok := byID[id]
		if !ok {
			return invalid("items", "item "+id+" is not eligible for this employer")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		selected = append(selected, it)
	}

	if !s.Settings.AllowPartialSelection && len(selected) != len(s.eligible) {
		return invalid("items", "partial selection is not allowed; all open contributions must be negotiated")
	}

	s.selected = selected
	s.calculated = nil
	s.totals = Totals{}
	s.schedule = nil
	s.step = StepSelectItems
	return nil
}

// Calculate runs the overdue calculator over the selection and freezes the
// evaluation instant. Later steps reuse these results; the instant is never
// re-evaluated within the session.
func (s *Session) Calculate(asOf time.Time) error {
	if len(s.selected) == 0 {
		return invalid("items", "select at least one contribution")
	}
	if !s.Settings.AllowPartialSelection && len(s.selected) != len(s.eligible) {
		return invalid("items", "partial selection is not allowed; all open contributions must be negotiated")
	}

	asOf = dates.Normalize(asOf)
	calculated := make([]CalculatedItem, 0, len(s.selected))
	for _, it := range s.selected {
		ci, err := Compute(it, s.Settings, asOf)
		if err != nil {
			return err
		}
		calculated = append(calculated, ci)
	}

	s.calculatedAt = asOf
	s.calculated = calculated
	s.totals = Aggregate(calculated)
	s.schedule = nil
	s.step = StepCalculate
	return nil
}

// PlanInstallments validates the plan against the policy constraints,
// derives the per-installment value and renders the schedule preview.
func (s *Session) PlanInstallments(p Plan) error {
	if s.step < StepCalculate || len(s.calculated) == 0 {
		return invalid("step", "calculation must run before planning installments")
	}

	if p.InstallmentCount < 1 || p.InstallmentCount > s.Settings.MaxInstallments {
		return invalid("installment_count", "must be between 1 and the configured maximum")
	}

	if min := MinimumDownPayment(s.totals, s.Settings); p.DownPaymentCents < min {
		return invalid("down_payment", "below the mandatory minimum down payment")
	}

	amount, value, err := DerivePerInstallment(s.totals, p.DownPaymentCents, p.InstallmentCount)
	if err != nil {
		return err
	}

	if p.DownPaymentCents == 0 && p.FirstDueDate.IsZero() {
		return invalid("first_due_date", "required when there is no down payment")
	}
	if !p.FirstDueDate.IsZero() {
		p.FirstDueDate = dates.Normalize(p.FirstDueDate)
	}

	// The minimum is checked against the rendered schedule, not just the
	// rounded value: the last installment absorbs the rounding residual and
	// can come out a few cents smaller.
	schedule := BuildSchedule(p, amount, value, s.calculatedAt)
	for _, e := range schedule {
		if e.Number > 0 && e.ValueCents < s.Settings.MinInstallmentValueCents {
			return invalid("installment_value", "below the minimum installment value")
		}
	}

	s.plan = p
	s.amountToFinance = amount
	s.installmentValue = value
	s.schedule = schedule
	s.step = StepPreview
	return nil
}

// PreviewResult is what the wizard renders before commit.
type PreviewResult struct {
	Totals           Totals           `json:"totals"`
	Items            []CalculatedItem `json:"items"`
	AmountToFinance  int64            `json:"amount_to_finance_cents"`
	InstallmentValue int64            `json:"installment_value_cents"`
	Schedule         []ScheduleEntry  `json:"schedule"`
	CalculatedAt     time.Time        `json:"calculated_at"`
}

func (s *Session) Preview() (PreviewResult, error) {
	if s.step < StepPreview {
		return PreviewResult{}, invalid("step", "installments must be planned before preview")
	}
	return PreviewResult{
		Totals:           s.totals,
		Items:            s.calculated,
		AmountToFinance:  s.amountToFinance,
		InstallmentValue: s.installmentValue,
		Schedule:         s.schedule,
		CalculatedAt:     s.calculatedAt,
	}, nil
}
