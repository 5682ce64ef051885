package repository

import (
	"context"
	"strings"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository interface {
	Search(ctx context.Context, query string, limit int) ([]domain.CustomerCandidate, error)
}

type PGCustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &PGCustomerRepository{db: db}
}

const searchCustomersSQL = `SELECT id::text, first_name, last_name, passport_number, passport_expiry::text, dob::text, nationality, email, phone
FROM customers
WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR passport_number ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1
   OR (first_name || ' ' || last_name) ILIKE $1
ORDER BY first_name, last_name
LIMIT $2`

func (r *PGCustomerRepository) Search(ctx context.Context, query string, limit int) ([]domain.CustomerCandidate, error) {
	rows, err := r.db.Query(ctx, searchCustomersSQL, likePattern(query), limit)
	if err != nil {
		return nil, toPersistenceError(err)
	}
	defer rows.Close()

	candidates := make([]domain.CustomerCandidate, 0)
	for rows.Next() {
		var c domain.CustomerCandidate
		var passport, expiry, dob, nationality, email, phone *string
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &passport, &expiry, &dob, &nationality, &email, &phone); err != nil {
			return nil, err
		}
		c.PassportNumber = deref(passport)
		c.PassportExpiry = deref(expiry)
		c.DOB = deref(dob)
		c.Nationality = deref(nationality)
		c.Email = deref(email)
		c.Phone = deref(phone)
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// likePattern wraps a free-text query for ILIKE, escaping its wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ CustomerRepository = (*PGCustomerRepository)(nil)
