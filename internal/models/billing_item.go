package models

import "time"

const (
	BillingStatusPending       = "pending"
	BillingStatusOverdue       = "overdue"
	BillingStatusPaid          = "paid"
	BillingStatusCancelled     = "cancelled"
	BillingStatusAwaitingValue = "awaiting_value"
)

// BillingItem is a single periodic charge of an employer (a "contribution").
// Created by the hosted backend; this service only reads it and, once a
// negotiation commits, stamps negotiation_id on it.
type BillingItem struct {
	ID              string     `json:"id"`
	EmployerID      string     `json:"employer_id"`
	OrganizationID  string     `json:"organization_id"`
	CategoryID      *string    `json:"category_id,omitempty"`
	CategoryName    string     `json:"category_name"`
	CompetenceMonth int        `json:"competence_month"`
	CompetenceYear  int        `json:"competence_year"`
	ValueCents      int64      `json:"value_cents"`
	DueDate         time.Time  `json:"due_date"`
	Status          string     `json:"status"`
	NegotiationID   *string    `json:"negotiation_id,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// Eligible reports whether the item can be pulled into a new negotiation.
func (b BillingItem) Eligible() bool {
	if b.NegotiationID != nil && *b.NegotiationID != "" {
		return false
	}
	return b.Status == BillingStatusPending || b.Status == BillingStatusOverdue
}
