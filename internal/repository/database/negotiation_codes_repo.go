package database

import (
	"context"
	"fmt"
	"time"

	"sindesk_negotiation/internal/config/connections/postgres"
)

// NegotiationCodesRepo allocates sequential human-readable codes from an
// org-scoped counter row. The returned code is only reserved once the
// negotiation header insert succeeds; concurrent sessions that race past
// each other are caught by the unique index on negotiations.code and
// retried by the commit workflow.
type NegotiationCodesRepo struct {
	pg    *postgres.Postgres
	table string
}

func NewNegotiationCodesRepo(pg *postgres.Postgres) *NegotiationCodesRepo {
	return &NegotiationCodesRepo{
		pg:    pg,
		table: "negotiation_codes",
	}
}

func (r *NegotiationCodesRepo) NextCode(ctx context.Context, organizationID string) (string, error) {
	query := `
		INSERT INTO ` + r.table + ` (organization_id, last_seq, updated_at)
		VALUES ($1::uuid, 1, NOW())
		ON CONFLICT (organization_id) DO UPDATE
		SET last_seq = ` + r.table + `.last_seq + 1, updated_at = NOW()
		RETURNING last_seq
	`

	var seq int64
	if err := r.pg.Pool.QueryRow(ctx, query, organizationID).Scan(&seq); err != nil {
		return "", err
	}

	return fmt.Sprintf("NEG-%d-%06d", time.Now().UTC().Year(), seq), nil
}
