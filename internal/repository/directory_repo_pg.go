package repository

import (
	"context"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DirectoryRepository interface {
	Agencies(ctx context.Context) ([]domain.DirectoryOption, error)
	Users(ctx context.Context) ([]domain.DirectoryOption, error)
}

type PGDirectoryRepository struct {
	db *pgxpool.Pool
}

func NewDirectoryRepository(db *pgxpool.Pool) DirectoryRepository {
	return &PGDirectoryRepository{db: db}
}

func (r *PGDirectoryRepository) Agencies(ctx context.Context) ([]domain.DirectoryOption, error) {
	return r.options(ctx, `SELECT id::text, name FROM agencies WHERE active ORDER BY name`)
}

func (r *PGDirectoryRepository) Users(ctx context.Context) ([]domain.DirectoryOption, error) {
	return r.options(ctx, `SELECT id::text, full_name FROM users WHERE active ORDER BY full_name`)
}

func (r *PGDirectoryRepository) options(ctx context.Context, query string) ([]domain.DirectoryOption, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, toPersistenceError(err)
	}
	defer rows.Close()

	options := make([]domain.DirectoryOption, 0)
	for rows.Next() {
		var o domain.DirectoryOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

var _ DirectoryRepository = (*PGDirectoryRepository)(nil)
