package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository writes already-mapped booking records. Column names are
// trusted to come from the schema allow-list.
type BookingRepository interface {
	Insert(ctx context.Context, rec domain.Record) (string, error)
	Update(ctx context.Context, id string, rec domain.Record) error
	GetByID(ctx context.Context, id string) (domain.Record, error)
}

type PGBookingRepository struct {
	db    *pgxpool.Pool
	table string
}

func NewBookingRepository(db *pgxpool.Pool, table string) BookingRepository {
	return &PGBookingRepository{db: db, table: table}
}

func (r *PGBookingRepository) Insert(ctx context.Context, rec domain.Record) (string, error) {
	query, args := buildInsert(r.table, rec)

	var id string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", toPersistenceError(err)
	}
	return id, nil
}

func (r *PGBookingRepository) Update(ctx context.Context, id string, rec domain.Record) error {
	if len(rec) == 0 {
		return nil
	}
	query, args := buildUpdate(r.table, id, rec)

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return toPersistenceError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (domain.Record, error) {
	query := fmt.Sprintf(`SELECT to_jsonb(b) FROM %s b WHERE b.id = $1`, pgx.Identifier{r.table}.Sanitize())

	var raw []byte
	if err := r.db.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, toPersistenceError(err)
	}

	return decodeRow(raw)
}

// decodeRow keeps numeric columns as their literal text, so a numeric(10,2)
// value of 1234.50 is not reformatted through float64.
func decodeRow(raw []byte) (domain.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec domain.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode booking row: %w", err)
	}
	return rec, nil
}

func sortedColumns(rec domain.Record) []string {
	cols := make([]string, 0, len(rec))
	for c := range rec {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(table string, rec domain.Record) (string, []any) {
	if len(rec) == 0 {
		return fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING id::text`, pgx.Identifier{table}.Sanitize()), nil
	}

	cols := sortedColumns(rec)
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = pgx.Identifier{c}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[c]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id::text`,
		pgx.Identifier{table}.Sanitize(), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	return query, args
}

func buildUpdate(table, id string, rec domain.Record) (string, []any) {
	cols := sortedColumns(rec)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), i+1)
		args = append(args, rec[c])
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s, updated_at = now() WHERE id = $%d`,
		pgx.Identifier{table}.Sanitize(), strings.Join(sets, ", "), len(args))
	return query, args
}

// toPersistenceError keeps the database's code, message, detail and hint so
// the user sees exactly what storage rejected.
func toPersistenceError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.PersistenceError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			Err:     err,
		}
	}
	return &domain.PersistenceError{Code: "UNKNOWN", Message: err.Error(), Err: err}
}

var _ BookingRepository = (*PGBookingRepository)(nil)
