package repository

import (
	"context"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository is append-only.
type AuditRepository interface {
	Append(ctx context.Context, event domain.AuditEvent) error
}

type PGAuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) AuditRepository {
	return &PGAuditRepository{db: db}
}

func (r *PGAuditRepository) Append(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.db.Exec(ctx, `INSERT INTO audit_log (occurred_at, actor_id, context, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5)`, event.Timestamp, event.ActorID, event.Context, event.OldValue, event.NewValue)
	if err != nil {
		return toPersistenceError(err)
	}
	return nil
}

var _ AuditRepository = (*PGAuditRepository)(nil)
