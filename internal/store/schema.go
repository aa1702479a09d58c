package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL bootstraps the tables the service needs. Statements are idempotent
// so startup can run them unconditionally.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		model_no TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		image_path TEXT NOT NULL DEFAULT '',
		list_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		cost NUMERIC(14,2) NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS products_model_no_idx ON products (model_no)`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		quote_number TEXT NOT NULL UNIQUE,
		revision_no INT NOT NULL DEFAULT 0,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		architect_name TEXT NOT NULL DEFAULT '',
		site_location TEXT NOT NULL DEFAULT '',
		items JSONB NOT NULL DEFAULT '[]',
		overall_discount NUMERIC(14,2) NOT NULL DEFAULT 0,
		installation_charges NUMERIC(14,2) NOT NULL DEFAULT 0,
		gst_percentage NUMERIC(6,2) NOT NULL DEFAULT 18,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		net_quote NUMERIC(14,2) NOT NULL DEFAULT 0,
		gst_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		grand_total NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_cost NUMERIC(14,2) NOT NULL DEFAULT 0,
		margin NUMERIC(14,2) NOT NULL DEFAULT 0,
		validity_days INT NOT NULL DEFAULT 15,
		payment_terms TEXT NOT NULL DEFAULT '',
		terms_conditions TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		sent_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		invoice_number TEXT NOT NULL UNIQUE,
		quotation_id UUID REFERENCES quotations(id),
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		billing_address TEXT NOT NULL DEFAULT '',
		site_location TEXT NOT NULL DEFAULT '',
		items JSONB NOT NULL DEFAULT '[]',
		overall_discount NUMERIC(14,2) NOT NULL DEFAULT 0,
		installation_charges NUMERIC(14,2) NOT NULL DEFAULT 0,
		gst_percentage NUMERIC(6,2) NOT NULL DEFAULT 18,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		net_total NUMERIC(14,2) NOT NULL DEFAULT 0,
		gst_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		grand_total NUMERIC(14,2) NOT NULL DEFAULT 0,
		amount_paid NUMERIC(14,2) NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		status TEXT NOT NULL DEFAULT 'draft',
		invoice_date DATE NOT NULL DEFAULT CURRENT_DATE,
		due_date DATE,
		sent_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		company_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		gstin TEXT NOT NULL DEFAULT '',
		logo_path TEXT NOT NULL DEFAULT '',
		bank_name TEXT NOT NULL DEFAULT '',
		bank_account_no TEXT NOT NULL DEFAULT '',
		bank_ifsc TEXT NOT NULL DEFAULT '',
		upi_id TEXT NOT NULL DEFAULT '',
		default_gst_percentage NUMERIC(6,2) NOT NULL DEFAULT 18,
		default_payment_terms TEXT NOT NULL DEFAULT '',
		default_terms_conditions TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS document_counters (
		doc_type TEXT NOT NULL,
		year INT NOT NULL,
		seq BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_type, year)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaDDL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
