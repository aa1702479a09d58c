// Package quotation implements quotation lifecycle: creation with atomic
// numbering, full-recompute updates, PDF rendering and sending, and
// conversion into invoices.
package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/document"
)

// ErrStoreUnavailable indicates the quotation store dependency is not configured.
var ErrStoreUnavailable = errors.New("quotation: store unavailable")

// ErrNotFound indicates the quotation does not exist.
var ErrNotFound = errors.New("quotation: not found")

// Status vocabulary for a quotation's lifecycle.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusConverted = "converted"
)

// Quotation is a priced proposal. TotalCost and Margin are internal figures
// and never appear on the rendered customer document.
type Quotation struct {
	ID             uuid.UUID           `json:"id"`
	QuoteNumber    string              `json:"quote_number"`
	RevisionNo     int                 `json:"revision_no"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  string              `json:"customer_email"`
	CustomerPhone  string              `json:"customer_phone"`
	ArchitectName  string              `json:"architect_name"`
	SiteLocation   string              `json:"site_location"`
	Items          []document.LineItem `json:"items"`
	Discount       decimal.Decimal     `json:"overall_discount"`
	Installation   decimal.Decimal     `json:"installation_charges"`
	GSTPercent     decimal.Decimal     `json:"gst_percentage"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	NetQuote       decimal.Decimal     `json:"net_quote"`
	GSTAmount      decimal.Decimal     `json:"gst_amount"`
	GrandTotal     decimal.Decimal     `json:"grand_total"`
	TotalCost      decimal.Decimal     `json:"total_cost"`
	Margin         decimal.Decimal     `json:"margin"`
	ValidityDays   int                 `json:"validity_days"`
	PaymentTerms   string              `json:"payment_terms"`
	TermsConds     string              `json:"terms_conditions"`
	Status         string              `json:"status"`
	SentAt         *time.Time          `json:"sent_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Totals returns the stored money summary in the shape the renderer consumes.
func (q Quotation) Totals() document.Totals {
	return document.Totals{
		Subtotal:     q.Subtotal,
		Discount:     q.Discount,
		Net:          q.NetQuote,
		Installation: q.Installation,
		TaxPercent:   q.GSTPercent,
		TaxAmount:    q.GSTAmount,
		GrandTotal:   q.GrandTotal,
		TotalCost:    q.TotalCost,
		Margin:       q.Margin,
	}
}

// Store provides database accessors for quotations.
type Store interface {
	Insert(ctx context.Context, q Quotation) (Quotation, error)
	Get(ctx context.Context, id uuid.UUID) (Quotation, error)
	List(ctx context.Context, status string, limit, offset int) ([]Quotation, int64, error)
	Update(ctx context.Context, q Quotation) (Quotation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (Quotation, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (Quotation, error)
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const quotationColumns = `id, quote_number, revision_no, customer_name, customer_email, customer_phone,
architect_name, site_location, items, overall_discount, installation_charges, gst_percentage,
subtotal, net_quote, gst_amount, grand_total, total_cost, margin,
validity_days, payment_terms, terms_conditions, status, sent_at, created_at, updated_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	var items []byte
	err := row.Scan(&q.ID, &q.QuoteNumber, &q.RevisionNo, &q.CustomerName, &q.CustomerEmail, &q.CustomerPhone,
		&q.ArchitectName, &q.SiteLocation, &items, &q.Discount, &q.Installation, &q.GSTPercent,
		&q.Subtotal, &q.NetQuote, &q.GSTAmount, &q.GrandTotal, &q.TotalCost, &q.Margin,
		&q.ValidityDays, &q.PaymentTerms, &q.TermsConds, &q.Status, &q.SentAt, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quotation{}, ErrNotFound
	}
	if err != nil {
		return Quotation{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &q.Items); err != nil {
			return Quotation{}, err
		}
	}
	return q, nil
}

func (st *pgStore) Insert(ctx context.Context, q Quotation) (Quotation, error) {
	if st == nil || st.pool == nil {
		return Quotation{}, ErrStoreUnavailable
	}
	items, err := json.Marshal(q.Items)
	if err != nil {
		return Quotation{}, err
	}
	row := st.pool.QueryRow(ctx, `INSERT INTO quotations (quote_number, revision_no, customer_name, customer_email, customer_phone,
architect_name, site_location, items, overall_discount, installation_charges, gst_percentage,
subtotal, net_quote, gst_amount, grand_total, total_cost, margin,
validity_days, payment_terms, terms_conditions, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING `+quotationColumns,
		q.QuoteNumber, q.RevisionNo, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.ArchitectName, q.SiteLocation, items, q.Discount, q.Installation, q.GSTPercent,
		q.Subtotal, q.NetQuote, q.GSTAmount, q.GrandTotal, q.TotalCost, q.Margin,
		q.ValidityDays, q.PaymentTerms, q.TermsConds, q.Status)
	return scanQuotation(row)
}

func (st *pgStore) Get(ctx context.Context, id uuid.UUID) (Quotation, error) {
	if st == nil || st.pool == nil {
		return Quotation{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
	return scanQuotation(row)
}

func (st *pgStore) List(ctx context.Context, status string, limit, offset int) ([]Quotation, int64, error) {
	if st == nil || st.pool == nil {
		return nil, 0, ErrStoreUnavailable
	}
	rows, err := st.pool.Query(ctx, `SELECT `+quotationColumns+` FROM quotations
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Quotation, 0, limit)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := st.pool.QueryRow(ctx, `SELECT count(*) FROM quotations WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (st *pgStore) Update(ctx context.Context, q Quotation) (Quotation, error) {
	if st == nil || st.pool == nil {
		return Quotation{}, ErrStoreUnavailable
	}
	items, err := json.Marshal(q.Items)
	if err != nil {
		return Quotation{}, err
	}
	row := st.pool.QueryRow(ctx, `UPDATE quotations SET
revision_no = $2, customer_name = $3, customer_email = $4, customer_phone = $5,
architect_name = $6, site_location = $7, items = $8, overall_discount = $9,
installation_charges = $10, gst_percentage = $11, subtotal = $12, net_quote = $13,
gst_amount = $14, grand_total = $15, total_cost = $16, margin = $17,
validity_days = $18, payment_terms = $19, terms_conditions = $20, status = $21, updated_at = now()
WHERE id = $1 RETURNING `+quotationColumns,
		q.ID, q.RevisionNo, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.ArchitectName, q.SiteLocation, items, q.Discount,
		q.Installation, q.GSTPercent, q.Subtotal, q.NetQuote,
		q.GSTAmount, q.GrandTotal, q.TotalCost, q.Margin,
		q.ValidityDays, q.PaymentTerms, q.TermsConds, q.Status)
	return scanQuotation(row)
}

func (st *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	if st == nil || st.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := st.pool.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSent records the first successful send. sent_at is written only once;
// later sends keep the original timestamp.
func (st *pgStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (Quotation, error) {
	if st == nil || st.pool == nil {
		return Quotation{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE quotations SET
sent_at = COALESCE(sent_at, $2),
status = CASE WHEN status = 'draft' THEN 'sent' ELSE status END,
updated_at = now()
WHERE id = $1 RETURNING `+quotationColumns, id, at)
	return scanQuotation(row)
}

func (st *pgStore) SetStatus(ctx context.Context, id uuid.UUID, status string) (Quotation, error) {
	if st == nil || st.pool == nil {
		return Quotation{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE quotations SET status = $2, updated_at = now()
WHERE id = $1 RETURNING `+quotationColumns, id, status)
	return scanQuotation(row)
}
