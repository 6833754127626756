package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sindesk_negotiation/internal/dates"
	"sindesk_negotiation/internal/models"
	"sindesk_negotiation/internal/ports"
	"sindesk_negotiation/internal/repository/database"

	"github.com/google/uuid"
)

const maxCodeAttempts = 5

type EligibleLister interface {
	ListEligible(ctx context.Context, employerID string) ([]models.BillingItem, error)
}

type SettingsGetter interface {
	GetByOrganization(ctx context.Context, organizationID string) (*models.NegotiationSettings, error)
}

type Store interface {
	CreateNegotiation(ctx context.Context, n models.Negotiation, items []models.NegotiationItem, insts []models.Installment) error
}

// Service orchestrates the wizard sessions and the commit workflow.
type Service struct {
	Billing      EligibleLister
	SettingsRepo SettingsGetter
	Store        Store
	Codes        ports.CodeGenerator
	Cache        ports.SettingsCache
	Audit        ports.AuditTrail
	Archive      ports.SnapshotArchiver
}

func NewService(
	billing EligibleLister,
	settings SettingsGetter,
	store Store,
	codes ports.CodeGenerator,
	cache ports.SettingsCache,
	audit ports.AuditTrail,
	archive ports.SnapshotArchiver,
) *Service {
	return &Service{
		Billing:      billing,
		SettingsRepo: settings,
		Store:        store,
		Codes:        codes,
		Cache:        cache,
		Audit:        audit,
		Archive:      archive,
	}
}

// SettingsFor resolves the organization's negotiation settings: redis
// cache, then the settings table, then hard-coded defaults when the
// organization has no row.
func (s *Service) SettingsFor(ctx context.Context, organizationID string) (models.NegotiationSettings, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, organizationID); ok {
			return *cached, nil
		}
	}

	found, err := s.SettingsRepo.GetByOrganization(ctx, organizationID)
	if errors.Is(err, database.ErrSettingsNotFound) {
		return models.DefaultSettings(organizationID), nil
	}
	if err != nil {
		return models.NegotiationSettings{}, fmt.Errorf("fetch settings: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, *found); err != nil {
			log.Printf("[NEG][SETTINGS][WARN] cache set failed: %v", err)
		}
	}
	return *found, nil
}

// StartSession resolves settings, fetches the employer's eligible items and
// returns a session ready for item selection.
func (s *Service) StartSession(ctx context.Context, organizationID, employerID, creatorID string) (*Session, error) {
	settings, err := s.SettingsFor(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.Billing.ListEligible(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("fetch eligible items: %w", err)
	}

	sess := NewSession(organizationID, creatorID, settings)
	if err := sess.SelectEmployer(employerID, eligible); err != nil {
		return nil, err
	}
	return sess, nil
}

// CommitResult is the durable outcome of a successful commit.
type CommitResult struct {
	Negotiation  models.Negotiation       `json:"negotiation"`
	Items        []models.NegotiationItem `json:"items"`
	Installments []models.Installment     `json:"installments"`
}

// Commit persists the previewed negotiation: allocate a code, insert the
// header, item snapshots and installments in one transaction, retrying the
// whole attempt on a code collision up to maxCodeAttempts times. On any
// other failure the session state is left intact so the user can retry
// without redoing earlier steps.
func (s *Service) Commit(ctx context.Context, sess *Session) (CommitResult, error) {
	if sess.Step() != StepPreview {
		return CommitResult{}, invalid("step", "nothing to commit: the preview step was not reached")
	}

	if !sess.committing.CompareAndSwap(false, true) {
		return CommitResult{}, ErrCommitInFlight
	}
	defer sess.committing.Store(false)

	t0 := time.Now()
	log.Printf("[NEG][COMMIT][START] org=%s employer=%s items=%d count=%d",
		sess.OrganizationID, sess.employerID, len(sess.calculated), sess.plan.InstallmentCount)

	preview, err := sess.Preview()
	if err != nil {
		return CommitResult{}, err
	}

	var recordID string
	if s.Audit != nil {
		recordID, err = s.Audit.Start(ctx, sess.OrganizationID, sess.employerID, sess.CreatorID, preview)
		if err != nil {
			log.Printf("[NEG][COMMIT][WARN] audit start failed: %v", err)
		}
	}

	var result CommitResult
	err = withRetry(maxCodeAttempts, isCodeCollision, func(attempt int) error {
		code, cerr := s.Codes.NextCode(ctx, sess.OrganizationID)
		if cerr != nil {
			return fmt.Errorf("generate code: %w", cerr)
		}
		if attempt > 1 {
			log.Printf("[NEG][COMMIT] code collision, retrying attempt=%d code=%s", attempt, code)
		}

		r := s.buildRows(sess, code)
		if serr := s.Store.CreateNegotiation(ctx, r.Negotiation, r.Items, r.Installments); serr != nil {
			return serr
		}
		result = r
		return nil
	})
	if err != nil {
		if isCodeCollision(err) {
			err = fmt.Errorf("%w (after %d attempts)", ErrCodeExhausted, maxCodeAttempts)
		}
		s.finishAudit(recordID, "failed", err.Error())
		log.Printf("[NEG][COMMIT][ERR] org=%s employer=%s err=%v took=%s",
			sess.OrganizationID, sess.employerID, err, time.Since(t0))
		return CommitResult{}, err
	}

	sess.step = StepCommitted
	s.finishAudit(recordID, "done", "")

	if s.Archive != nil {
		if aerr := s.Archive.Archive(ctx, sess.OrganizationID, result.Negotiation.Code, result); aerr != nil {
			log.Printf("[NEG][COMMIT][WARN] snapshot archive failed: %v", aerr)
		}
	}

	log.Printf("[NEG][COMMIT][DONE] org=%s code=%s total=%d installments=%d took=%s",
		sess.OrganizationID, result.Negotiation.Code,
		result.Negotiation.TotalNegotiatedCents, len(result.Installments), time.Since(t0))
	return result, nil
}

func (s *Service) buildRows(sess *Session, code string) CommitResult {
	negID := uuid.NewString()

	firstDue := sess.plan.FirstDueDate
	if len(sess.schedule) > 0 {
		firstDue = sess.schedule[0].DueDate
	}

	n := models.Negotiation{
		ID:                    negID,
		OrganizationID:        sess.OrganizationID,
		EmployerID:            sess.employerID,
		Code:                  code,
		Status:                models.NegotiationStatusSimulation,
		OriginalValueCents:    sess.totals.OriginalCents,
		TotalInterestCents:    sess.totals.InterestCents,
		TotalCorrectionCents:  sess.totals.CorrectionCents,
		TotalLateFeeCents:     sess.totals.LateFeeCents,
		TotalNegotiatedCents:  sess.totals.NegotiatedCents,
		DownPaymentCents:      sess.plan.DownPaymentCents,
		InstallmentCount:      sess.plan.InstallmentCount,
		InstallmentValueCents: sess.installmentValue,
		FirstDueDate:          firstDue,
		InterestRateMonthly:   sess.Settings.InterestRateMonthly,
		CorrectionRateMonthly: sess.Settings.CorrectionRateMonthly,
		LateFeePercentage:     sess.Settings.LateFeePercentage,
		LegalBasis:            sess.Settings.LegalBasis,
		CreatedBy:             sess.CreatorID,
		ValidUntil:            dates.AddDays(sess.calculatedAt, sess.Settings.ValidityDays),
	}

	items := make([]models.NegotiationItem, 0, len(sess.calculated))
	for _, ci := range sess.calculated {
		items = append(items, models.NegotiationItem{
			ID:              uuid.NewString(),
			NegotiationID:   negID,
			BillingItemID:   ci.Item.ID,
			CategoryName:    ci.Item.CategoryName,
			CompetenceMonth: ci.Item.CompetenceMonth,
			CompetenceYear:  ci.Item.CompetenceYear,
			OriginalCents:   ci.Item.ValueCents,
			DueDate:         ci.Item.DueDate,
			DaysOverdue:     ci.DaysOverdue,
			InterestCents:   ci.InterestCents,
			CorrectionCents: ci.CorrectionCents,
			LateFeeCents:    ci.LateFeeCents,
			TotalCents:      ci.TotalCents,
		})
	}

	insts := make([]models.Installment, 0, len(sess.schedule))
	for _, e := range sess.schedule {
		insts = append(insts, models.Installment{
			ID:            uuid.NewString(),
			NegotiationID: negID,
			Number:        e.Number,
			ValueCents:    e.ValueCents,
			DueDate:       e.DueDate,
			Status:        models.InstallmentStatusPending,
		})
	}

	return CommitResult{Negotiation: n, Items: items, Installments: insts}
}

func (s *Service) finishAudit(recordID, status, errText string) {
	if s.Audit == nil || recordID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Audit.Finish(ctx, recordID, status, errText); err != nil {
		log.Printf("[NEG][COMMIT][WARN] audit finish failed: %v", err)
	}
}

func isCodeCollision(err error) bool {
	return errors.Is(err, database.ErrCodeTaken)
}
