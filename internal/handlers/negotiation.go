package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sindesk_negotiation/internal/dates"
	"sindesk_negotiation/internal/services/negotiation"
	"sindesk_negotiation/internal/transport/auth"
	"sindesk_negotiation/internal/utils"
)

type negotiationRequest struct {
	OrganizationID   string            `json:"organization_id"`
	EmployerID       string            `json:"employer_id"`
	ItemIDs          []string          `json:"item_ids"`
	InstallmentCount int               `json:"installment_count"`
	DownPaymentCents int64             `json:"down_payment_cents"`
	FirstDueDate     string            `json:"first_due_date,omitempty"`
	OverrideDates    map[string]string `json:"override_dates,omitempty"`
}

// Eligible lists the employer's contributions that can enter a negotiation.
func (h *Handlers) Eligible(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET"})
		return
	}

	employerID := strings.TrimSpace(r.URL.Query().Get("employer_id"))
	if employerID == "" {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "employer_id is required"})
		return
	}

	items, err := h.Billing.ListEligible(r.Context(), employerID)
	if err != nil {
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{
		"employer_id": employerID,
		"count":       len(items),
		"items":       items,
	})
}

// Settings returns the organization's negotiation parameters (or defaults).
func (h *Handlers) Settings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET"})
		return
	}

	orgID := strings.TrimSpace(r.URL.Query().Get("organization_id"))
	if orgID == "" {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "organization_id is required"})
		return
	}

	settings, err := h.Service.SettingsFor(r.Context(), orgID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, settings)
}

// Simulate walks the wizard through the preview step without writing
// anything; the UI calls it on every relevant input change.
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}

	sess, ok := h.runWizard(w, r)
	if !ok {
		return
	}

	preview, err := sess.Preview()
	if err != nil {
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{
		"preview":                    preview,
		"total_negotiated_formatted": utils.FormatCents(preview.Totals.NegotiatedCents),
	})
}

// Commit walks the wizard through the preview step and persists the
// negotiation.
func (h *Handlers) Commit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}

	sess, ok := h.runWizard(w, r)
	if !ok {
		return
	}

	result, err := h.Service.Commit(r.Context(), sess)
	if err != nil {
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusCreated, result)
}

// runWizard decodes the request and drives the session state machine up to
// the preview step. A false return means the response was already written.
func (h *Handlers) runWizard(w http.ResponseWriter, r *http.Request) (*negotiation.Session, bool) {
	var req negotiationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad JSON: " + err.Error()})
		return nil, false
	}
	if strings.TrimSpace(req.OrganizationID) == "" {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "organization_id is required"})
		return nil, false
	}

	plan, err := planFromRequest(req)
	if err != nil {
		h.Fail(w, err)
		return nil, false
	}

	creator, _ := auth.GetUserID(r.Context())

	sess, err := h.Service.StartSession(r.Context(), req.OrganizationID, req.EmployerID, creator)
	if err != nil {
		h.Fail(w, err)
		return nil, false
	}
	if err := sess.SelectItems(req.ItemIDs); err != nil {
		h.Fail(w, err)
		return nil, false
	}
	if err := sess.Calculate(time.Now().UTC()); err != nil {
		h.Fail(w, err)
		return nil, false
	}
	if err := sess.PlanInstallments(plan); err != nil {
		h.Fail(w, err)
		return nil, false
	}
	return sess, true
}

func planFromRequest(req negotiationRequest) (negotiation.Plan, error) {
	plan := negotiation.Plan{
		InstallmentCount: req.InstallmentCount,
		DownPaymentCents: req.DownPaymentCents,
	}

	if req.FirstDueDate != "" {
		d, ok := dates.Parse(req.FirstDueDate)
		if !ok {
			return plan, &negotiation.ValidationError{Field: "first_due_date", Message: "unrecognized date: " + req.FirstDueDate}
		}
		plan.FirstDueDate = d
	}

	if len(req.OverrideDates) > 0 {
		plan.OverrideDates = make(map[int]time.Time, len(req.OverrideDates))
		for k, v := range req.OverrideDates {
			n, err := strconv.Atoi(k)
			if err != nil || n < 0 {
				return plan, &negotiation.ValidationError{Field: "override_dates", Message: "bad installment number: " + k}
			}
			d, ok := dates.Parse(v)
			if !ok {
				return plan, &negotiation.ValidationError{Field: "override_dates", Message: "unrecognized date: " + v}
			}
			plan.OverrideDates[n] = d
		}
	}

	return plan, nil
}
