// Package invoice implements invoice lifecycle: creation (directly or by
// converting a quotation), payment recording, PDF rendering and sending.
package invoice

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
	"github.com/inhaus-automation/backend/internal/pricing"
)

// ErrStoreUnavailable indicates the invoice store dependency is not configured.
var ErrStoreUnavailable = errors.New("invoice: store unavailable")

// ErrNotFound indicates the invoice does not exist.
var ErrNotFound = errors.New("invoice: not found")

// Status vocabulary for an invoice's lifecycle.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Invoice is a billable document. PaymentStatus is always derived from
// AmountPaid against GrandTotal, never set directly.
type Invoice struct {
	ID             uuid.UUID           `json:"id"`
	InvoiceNumber  string              `json:"invoice_number"`
	QuotationID    *uuid.UUID          `json:"quotation_id,omitempty"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  string              `json:"customer_email"`
	CustomerPhone  string              `json:"customer_phone"`
	BillingAddress string              `json:"billing_address"`
	SiteLocation   string              `json:"site_location"`
	Items          []document.LineItem `json:"items"`
	Discount       decimal.Decimal     `json:"overall_discount"`
	Installation   decimal.Decimal     `json:"installation_charges"`
	GSTPercent     decimal.Decimal     `json:"gst_percentage"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	NetTotal       decimal.Decimal     `json:"net_total"`
	GSTAmount      decimal.Decimal     `json:"gst_amount"`
	GrandTotal     decimal.Decimal     `json:"grand_total"`
	AmountPaid     decimal.Decimal     `json:"amount_paid"`
	PaymentStatus  string              `json:"payment_status"`
	Status         string              `json:"status"`
	InvoiceDate    time.Time           `json:"invoice_date"`
	DueDate        *time.Time          `json:"due_date"`
	SentAt         *time.Time          `json:"sent_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// AmountDue is the outstanding balance, floored at zero.
func (inv Invoice) AmountDue() decimal.Decimal {
	return pricing.AmountDue(inv.GrandTotal, inv.AmountPaid)
}

// Totals returns the stored money summary in the shape the renderer consumes.
func (inv Invoice) Totals() document.Totals {
	return document.Totals{
		Subtotal:     inv.Subtotal,
		Discount:     inv.Discount,
		Net:          inv.NetTotal,
		Installation: inv.Installation,
		TaxPercent:   inv.GSTPercent,
		TaxAmount:    inv.GSTAmount,
		GrandTotal:   inv.GrandTotal,
	}
}

// Store provides database accessors for invoices.
type Store interface {
	Insert(ctx context.Context, inv Invoice) (Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (Invoice, error)
	List(ctx context.Context, paymentStatus string, limit, offset int) ([]Invoice, int64, error)
	Update(ctx context.Context, inv Invoice) (Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (Invoice, error)
	RecordPayment(ctx context.Context, id uuid.UUID, amountPaid decimal.Decimal, status string) (Invoice, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (Invoice, error)
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const invoiceColumns = `id, invoice_number, quotation_id, customer_name, customer_email, customer_phone,
billing_address, site_location, items, overall_discount, installation_charges, gst_percentage,
subtotal, net_total, gst_amount, grand_total, amount_paid, payment_status, status,
invoice_date, due_date, sent_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.QuotationID, &inv.CustomerName, &inv.CustomerEmail, &inv.CustomerPhone,
		&inv.BillingAddress, &inv.SiteLocation, &items, &inv.Discount, &inv.Installation, &inv.GSTPercent,
		&inv.Subtotal, &inv.NetTotal, &inv.GSTAmount, &inv.GrandTotal, &inv.AmountPaid, &inv.PaymentStatus, &inv.Status,
		&inv.InvoiceDate, &inv.DueDate, &inv.SentAt, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	if err != nil {
		return Invoice{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return Invoice{}, err
		}
	}
	return inv, nil
}

func (st *pgStore) Insert(ctx context.Context, inv Invoice) (Invoice, error) {
	if st == nil || st.pool == nil {
		return Invoice{}, ErrStoreUnavailable
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return Invoice{}, err
	}
	row := st.pool.QueryRow(ctx, `INSERT INTO invoices (invoice_number, quotation_id, customer_name, customer_email, customer_phone,
billing_address, site_location, items, overall_discount, installation_charges, gst_percentage,
subtotal, net_total, gst_amount, grand_total, amount_paid, payment_status, status, invoice_date, due_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING `+invoiceColumns,
		inv.InvoiceNumber, inv.QuotationID, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone,
		inv.BillingAddress, inv.SiteLocation, items, inv.Discount, inv.Installation, inv.GSTPercent,
		inv.Subtotal, inv.NetTotal, inv.GSTAmount, inv.GrandTotal, inv.AmountPaid, inv.PaymentStatus,
		inv.Status, inv.InvoiceDate, inv.DueDate)
	return scanInvoice(row)
}

func (st *pgStore) Get(ctx context.Context, id uuid.UUID) (Invoice, error) {
	if st == nil || st.pool == nil {
		return Invoice{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	return scanInvoice(row)
}

func (st *pgStore) List(ctx context.Context, paymentStatus string, limit, offset int) ([]Invoice, int64, error) {
	if st == nil || st.pool == nil {
		return nil, 0, ErrStoreUnavailable
	}
	rows, err := st.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices
WHERE ($1 = '' OR payment_status = $1)
ORDER BY created_at DESC LIMIT $2 OFFSET $3`, paymentStatus, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Invoice, 0, limit)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := st.pool.QueryRow(ctx, `SELECT count(*) FROM invoices WHERE ($1 = '' OR payment_status = $1)`, paymentStatus).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (st *pgStore) Update(ctx context.Context, inv Invoice) (Invoice, error) {
	if st == nil || st.pool == nil {
		return Invoice{}, ErrStoreUnavailable
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return Invoice{}, err
	}
	row := st.pool.QueryRow(ctx, `UPDATE invoices SET
customer_name = $2, customer_email = $3, customer_phone = $4, billing_address = $5,
site_location = $6, items = $7, overall_discount = $8, installation_charges = $9,
gst_percentage = $10, subtotal = $11, net_total = $12, gst_amount = $13, grand_total = $14,
amount_paid = $15, payment_status = $16, status = $17, invoice_date = $18, due_date = $19, updated_at = now()
WHERE id = $1 RETURNING `+invoiceColumns,
		inv.ID, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone, inv.BillingAddress,
		inv.SiteLocation, items, inv.Discount, inv.Installation,
		inv.GSTPercent, inv.Subtotal, inv.NetTotal, inv.GSTAmount, inv.GrandTotal,
		inv.AmountPaid, inv.PaymentStatus, inv.Status, inv.InvoiceDate, inv.DueDate)
	return scanInvoice(row)
}

func (st *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	if st == nil || st.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := st.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSent records the first successful send, keeping the original timestamp
// on later sends. A draft moves to sent; other lifecycle states stay put.
func (st *pgStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (Invoice, error) {
	if st == nil || st.pool == nil {
		return Invoice{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE invoices SET
sent_at = COALESCE(sent_at, $2),
status = CASE WHEN status = 'draft' THEN 'sent' ELSE status END,
updated_at = now()
WHERE id = $1 RETURNING `+invoiceColumns, id, at)
	return scanInvoice(row)
}

// RecordPayment writes the running amount and its derived payment status.
// Settling the invoice in full also advances the lifecycle to paid.
func (st *pgStore) RecordPayment(ctx context.Context, id uuid.UUID, amountPaid decimal.Decimal, status string) (Invoice, error) {
	if st == nil || st.pool == nil {
		return Invoice{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE invoices SET
amount_paid = $2, payment_status = $3,
status = CASE WHEN $3 = 'paid' THEN 'paid' ELSE status END,
updated_at = now()
WHERE id = $1 RETURNING `+invoiceColumns, id, amountPaid, status)
	return scanInvoice(row)
}

func (st *pgStore) SetStatus(ctx context.Context, id uuid.UUID, status string) (Invoice, error) {
	if st == nil || st.pool == nil {
		return Invoice{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE invoices SET status = $2, updated_at = now()
WHERE id = $1 RETURNING `+invoiceColumns, id, status)
	return scanInvoice(row)
}
