package ports

import (
	"context"

	"sindesk_negotiation/internal/models"
)

// CodeGenerator allocates a fresh human-readable negotiation code scoped to
// an organization. Uniqueness is ultimately enforced by the storage layer;
// the commit workflow retries on collision.
type CodeGenerator interface {
	NextCode(ctx context.Context, organizationID string) (string, error)
}

// SnapshotArchiver stores a machine-readable copy of a committed
// negotiation. Best-effort: callers log failures and move on.
type SnapshotArchiver interface {
	Archive(ctx context.Context, organizationID, code string, payload any) error
}

// SettingsCache is a read-through cache in front of the settings table.
type SettingsCache interface {
	Get(ctx context.Context, organizationID string) (*models.NegotiationSettings, bool)
	Set(ctx context.Context, s models.NegotiationSettings) error
}

// AuditTrail records commit attempts and their outcome.
type AuditTrail interface {
	Start(ctx context.Context, organizationID, employerID, createdBy string, payload any) (string, error)
	Finish(ctx context.Context, recordID, status, errText string) error
}
