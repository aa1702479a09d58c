package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the numbering store dependency is not configured.
var ErrStoreUnavailable = errors.New("store: unavailable")

// Numbering allocates sequential document numbers per type and year.
type Numbering interface {
	NextDocumentNumber(ctx context.Context, docType string, year int) (int64, error)
}

// NewNumbering constructs a Numbering backed by a pgx connection pool.
func NewNumbering(pool *pgxpool.Pool) Numbering {
	return &pgNumbering{pool: pool}
}

type pgNumbering struct {
	pool *pgxpool.Pool
}

// NextDocumentNumber increments and returns the counter for the given
// document type and year. The single upsert statement makes allocation atomic
// under concurrent callers; a sequence number is never handed out twice.
func (n *pgNumbering) NextDocumentNumber(ctx context.Context, docType string, year int) (int64, error) {
	if n == nil || n.pool == nil {
		return 0, ErrStoreUnavailable
	}
	var seq int64
	err := n.pool.QueryRow(ctx, `INSERT INTO document_counters (doc_type, year, seq)
VALUES ($1, $2, 1)
ON CONFLICT (doc_type, year) DO UPDATE SET seq = document_counters.seq + 1
RETURNING seq`, docType, year).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// CurrentYear returns the calendar year used for numbering.
func CurrentYear() int {
	return time.Now().Year()
}
