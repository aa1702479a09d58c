// Package settings manages the single company profile used on rendered
// documents.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrStoreUnavailable indicates the settings store dependency is not configured.
var ErrStoreUnavailable = errors.New("settings: store unavailable")

// CompanySettings is the singleton company profile. Bank and UPI fields only
// appear on invoices.
type CompanySettings struct {
	CompanyName       string          `json:"company_name"`
	Address           string          `json:"address"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Website           string          `json:"website"`
	GSTIN             string          `json:"gstin"`
	LogoPath          string          `json:"logo_path"`
	BankName          string          `json:"bank_name"`
	BankAccountNo     string          `json:"bank_account_no"`
	BankIFSC          string          `json:"bank_ifsc"`
	UPIID             string          `json:"upi_id"`
	DefaultGSTPercent decimal.Decimal `json:"default_gst_percentage"`
	DefaultPayTerms   string          `json:"default_payment_terms"`
	DefaultTerms      string          `json:"default_terms_conditions"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Defaults returns the profile served before anything has been saved.
func Defaults() CompanySettings {
	return CompanySettings{
		CompanyName:       "Inhaus Automation",
		DefaultGSTPercent: decimal.NewFromInt(18),
		DefaultPayTerms:   "50% advance, 40% on delivery, 10% on handover",
	}
}

// Store provides database accessors for the settings singleton.
type Store interface {
	Get(ctx context.Context) (CompanySettings, error)
	Upsert(ctx context.Context, s CompanySettings) (CompanySettings, error)
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const settingsColumns = `company_name, address, email, phone, website, gstin, logo_path,
bank_name, bank_account_no, bank_ifsc, upi_id,
default_gst_percentage, default_payment_terms, default_terms_conditions, updated_at`

func scanSettings(row pgx.Row) (CompanySettings, error) {
	var s CompanySettings
	err := row.Scan(&s.CompanyName, &s.Address, &s.Email, &s.Phone, &s.Website, &s.GSTIN, &s.LogoPath,
		&s.BankName, &s.BankAccountNo, &s.BankIFSC, &s.UPIID,
		&s.DefaultGSTPercent, &s.DefaultPayTerms, &s.DefaultTerms, &s.UpdatedAt)
	return s, err
}

// Get returns the stored profile, or defaults when nothing has been saved.
func (st *pgStore) Get(ctx context.Context) (CompanySettings, error) {
	if st == nil || st.pool == nil {
		return CompanySettings{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`)
	s, err := scanSettings(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	return s, err
}

// Upsert writes the singleton row, creating it on first save.
func (st *pgStore) Upsert(ctx context.Context, s CompanySettings) (CompanySettings, error) {
	if st == nil || st.pool == nil {
		return CompanySettings{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `INSERT INTO settings (id, company_name, address, email, phone, website, gstin, logo_path,
bank_name, bank_account_no, bank_ifsc, upi_id,
default_gst_percentage, default_payment_terms, default_terms_conditions, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
ON CONFLICT (id) DO UPDATE SET
company_name = EXCLUDED.company_name, address = EXCLUDED.address, email = EXCLUDED.email,
phone = EXCLUDED.phone, website = EXCLUDED.website, gstin = EXCLUDED.gstin, logo_path = EXCLUDED.logo_path,
bank_name = EXCLUDED.bank_name, bank_account_no = EXCLUDED.bank_account_no, bank_ifsc = EXCLUDED.bank_ifsc,
upi_id = EXCLUDED.upi_id, default_gst_percentage = EXCLUDED.default_gst_percentage,
default_payment_terms = EXCLUDED.default_payment_terms, default_terms_conditions = EXCLUDED.default_terms_conditions,
updated_at = now()
RETURNING `+settingsColumns,
		s.CompanyName, s.Address, s.Email, s.Phone, s.Website, s.GSTIN, s.LogoPath,
		s.BankName, s.BankAccountNo, s.BankIFSC, s.UPIID,
		s.DefaultGSTPercent, s.DefaultPayTerms, s.DefaultTerms)
	return scanSettings(row)
}
