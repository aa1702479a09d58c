// Package contact handles website contact submissions.
package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the contact store dependency is not configured.
var ErrStoreUnavailable = errors.New("contact: store unavailable")

// ErrNotFound indicates the submission does not exist.
var ErrNotFound = errors.New("contact: not found")

// Submission is a single contact form entry.
type Submission struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store provides database accessors for contact submissions.
type Store interface {
	Insert(ctx context.Context, s Submission) (Submission, error)
	Get(ctx context.Context, id uuid.UUID) (Submission, error)
	List(ctx context.Context, limit, offset int) ([]Submission, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const submissionColumns = `id, name, email, phone, company, message, status, created_at, updated_at`

func scanSubmission(row pgx.Row) (Submission, error) {
	var s Submission
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Company, &s.Message, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	return s, err
}

func (st *pgStore) Insert(ctx context.Context, s Submission) (Submission, error) {
	if st == nil || st.pool == nil {
		return Submission{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `INSERT INTO contacts (name, email, phone, company, message, status)
VALUES ($1, $2, $3, $4, $5, 'new')
RETURNING `+submissionColumns, s.Name, s.Email, s.Phone, s.Company, s.Message)
	return scanSubmission(row)
}

func (st *pgStore) Get(ctx context.Context, id uuid.UUID) (Submission, error) {
	if st == nil || st.pool == nil {
		return Submission{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM contacts WHERE id = $1`, id)
	return scanSubmission(row)
}

func (st *pgStore) List(ctx context.Context, limit, offset int) ([]Submission, int64, error) {
	if st == nil || st.pool == nil {
		return nil, 0, ErrStoreUnavailable
	}
	rows, err := st.pool.Query(ctx, `SELECT `+submissionColumns+` FROM contacts
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Submission, 0, limit)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := st.pool.QueryRow(ctx, `SELECT count(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (st *pgStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Submission, error) {
	if st == nil || st.pool == nil {
		return Submission{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE contacts SET status = $2, updated_at = now()
WHERE id = $1 RETURNING `+submissionColumns, id, status)
	return scanSubmission(row)
}

func (st *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	if st == nil || st.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := st.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
