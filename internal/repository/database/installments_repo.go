package database

import (
	"context"

	"sindesk_negotiation/internal/models"
)

type InstallmentsRepo struct {
	table string
}

func NewInstallmentsRepo() *InstallmentsRepo {
	return &InstallmentsRepo{table: "negotiation_installments"}
}

func (r *InstallmentsRepo) InsertBatch(ctx context.Context, q Querier, insts []models.Installment) error {
	query := `
		INSERT INTO ` + r.table + ` (
			id, negotiation_id, number, value_cents, due_date, status, created_at
		) VALUES (
			$1::uuid, $2::uuid, $3, $4, $5::date, $6, NOW()
		)
	`

	for _, in := range insts {
		if _, err := q.Exec(ctx, query,
			in.ID, in.NegotiationID, in.Number, in.ValueCents, in.DueDate, in.Status,
		); err != nil {
			return err
		}
	}
	return nil
}
