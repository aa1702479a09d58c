package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/common"
	"github.com/inhaus-automation/backend/internal/document"
	"github.com/inhaus-automation/backend/internal/obs"
	"github.com/inhaus-automation/backend/internal/pricing"
	"github.com/inhaus-automation/backend/internal/quotation"
	"github.com/inhaus-automation/backend/internal/render"
	"github.com/inhaus-automation/backend/internal/settings"
	"github.com/inhaus-automation/backend/internal/store"
)

var validate = validator.New()

// Renderer produces PDF bytes for a document view.
type Renderer interface {
	Render(doc render.Document) ([]byte, error)
}

// ArtifactStore persists rendered PDFs.
type ArtifactStore interface {
	Save(number string, data []byte) (string, error)
}

// Service implements invoice operations on top of the store.
type Service struct {
	store      Store
	quotations quotation.Store
	numbering  store.Numbering
	settings   settings.Store
	renderer   Renderer
	artifacts  ArtifactStore
	mailer     common.EmailSender
	now        func() time.Time
}

// ServiceConfig configures the Service dependencies.
type ServiceConfig struct {
	Store      Store
	Quotations quotation.Store
	Numbering  store.Numbering
	Settings   settings.Store
	Renderer   Renderer
	Artifacts  ArtifactStore
	Mailer     common.EmailSender
	Now        func() time.Time
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("invoice: store is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:      cfg.Store,
		quotations: cfg.Quotations,
		numbering:  cfg.Numbering,
		settings:   cfg.Settings,
		renderer:   cfg.Renderer,
		artifacts:  cfg.Artifacts,
		mailer:     cfg.Mailer,
		now:        now,
	}, nil
}

// Input is the write payload for creating or updating an invoice.
type Input struct {
	CustomerName   string              `json:"customer_name" validate:"required"`
	CustomerEmail  string              `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone  string              `json:"customer_phone"`
	BillingAddress string              `json:"billing_address"`
	SiteLocation   string              `json:"site_location"`
	Items          []document.LineItem `json:"items" validate:"required,min=1"`
	Discount       decimal.Decimal     `json:"overall_discount"`
	Installation   decimal.Decimal     `json:"installation_charges"`
	GSTPercent     *decimal.Decimal    `json:"gst_percentage"`
	DueDate        *time.Time          `json:"due_date"`
}

// Create validates the payload, prices it and persists it under a freshly
// allocated invoice number.
func (s *Service) Create(ctx context.Context, in Input) (Invoice, error) {
	inv, err := s.priced(ctx, in)
	if err != nil {
		return Invoice{}, err
	}
	number, err := s.nextNumber(ctx)
	if err != nil {
		return Invoice{}, err
	}
	inv.InvoiceNumber = number
	inv, err = s.store.Insert(ctx, inv)
	if err != nil {
		return Invoice{}, err
	}
	obs.ObserveDocumentCreated(document.TypeInvoice)
	return inv, nil
}

// CreateFromQuotation copies the customer block, items and totals of a
// quotation into a new invoice and marks the quotation converted.
func (s *Service) CreateFromQuotation(ctx context.Context, quotationID uuid.UUID) (Invoice, error) {
	if s.quotations == nil {
		return Invoice{}, errors.New("invoice: quotation store not configured")
	}
	q, err := s.quotations.Get(ctx, quotationID)
	if err != nil {
		return Invoice{}, err
	}
	number, err := s.nextNumber(ctx)
	if err != nil {
		return Invoice{}, err
	}
	inv := Invoice{
		InvoiceNumber:  number,
		QuotationID:    &q.ID,
		CustomerName:   q.CustomerName,
		CustomerEmail:  q.CustomerEmail,
		CustomerPhone:  q.CustomerPhone,
		BillingAddress: q.SiteLocation,
		SiteLocation:   q.SiteLocation,
		Items:          q.Items,
		Discount:       q.Discount,
		Installation:   q.Installation,
		GSTPercent:     q.GSTPercent,
		Subtotal:       q.Subtotal,
		NetTotal:       q.NetQuote,
		GSTAmount:      q.GSTAmount,
		GrandTotal:     q.GrandTotal,
		PaymentStatus:  pricing.PaymentStatus(decimal.Zero, q.GrandTotal),
		Status:         StatusDraft,
		InvoiceDate:    s.now(),
	}
	inv, err = s.store.Insert(ctx, inv)
	if err != nil {
		return Invoice{}, err
	}
	obs.ObserveDocumentCreated(document.TypeInvoice)
	if _, err := s.quotations.SetStatus(ctx, q.ID, quotation.StatusConverted); err != nil {
		return Invoice{}, fmt.Errorf("mark quotation converted: %w", err)
	}
	return inv, nil
}

// Update replaces the invoice content and recomputes every stored total
// together. Payment status is re-derived against the new grand total.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Invoice, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	inv, err := s.priced(ctx, in)
	if err != nil {
		return Invoice{}, err
	}
	inv.ID = current.ID
	inv.InvoiceNumber = current.InvoiceNumber
	inv.QuotationID = current.QuotationID
	inv.AmountPaid = current.AmountPaid
	inv.PaymentStatus = pricing.PaymentStatus(inv.AmountPaid, inv.GrandTotal)
	inv.Status = current.Status
	inv.InvoiceDate = current.InvoiceDate
	if in.DueDate != nil {
		inv.DueDate = in.DueDate
	} else {
		inv.DueDate = current.DueDate
	}
	return s.store.Update(ctx, inv)
}

// RecordPayment adds a received amount and re-derives the payment status.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (Invoice, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Invoice{}, common.BadRequest("payment amount must be positive", "amount", nil)
	}
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	paid := inv.AmountPaid.Add(amount).Round(2)
	status := pricing.PaymentStatus(paid, inv.GrandTotal)
	return s.store.RecordPayment(ctx, id, paid, status)
}

func (s *Service) priced(ctx context.Context, in Input) (Invoice, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return Invoice{}, common.BadRequest("customer_name is required", "customer_name", nil)
	}
	if err := validate.Struct(in); err != nil {
		return Invoice{}, common.BadRequest("invalid invoice payload", "", err)
	}
	if len(in.Items) == 0 {
		return Invoice{}, common.BadRequest("at least one item is required", "items", nil)
	}
	gst := decimal.NewFromInt(18)
	if in.GSTPercent != nil {
		gst = *in.GSTPercent
	} else if s.settings != nil {
		if profile, err := s.settings.Get(ctx); err == nil {
			gst = profile.DefaultGSTPercent
		}
	}
	if gst.IsNegative() {
		return Invoice{}, common.BadRequest("gst_percentage must not be negative", "gst_percentage", nil)
	}
	items := pricing.NormalizeItems(in.Items)
	totals := pricing.Compute(items, in.Discount, in.Installation, gst)
	return Invoice{
		CustomerName:   in.CustomerName,
		CustomerEmail:  strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:  strings.TrimSpace(in.CustomerPhone),
		BillingAddress: in.BillingAddress,
		SiteLocation:   strings.TrimSpace(in.SiteLocation),
		Items:          items,
		Discount:       totals.Discount,
		Installation:   totals.Installation,
		GSTPercent:     totals.TaxPercent,
		Subtotal:       totals.Subtotal,
		NetTotal:       totals.Net,
		GSTAmount:      totals.TaxAmount,
		GrandTotal:     totals.GrandTotal,
		PaymentStatus:  pricing.PaymentStatus(decimal.Zero, totals.GrandTotal),
		Status:         StatusDraft,
		InvoiceDate:    s.now(),
		DueDate:        in.DueDate,
	}, nil
}

func (s *Service) nextNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	seq, err := s.numbering.NextDocumentNumber(ctx, document.TypeInvoice, year)
	if err != nil {
		return "", fmt.Errorf("allocate invoice number: %w", err)
	}
	return pricing.FormatNumber("INV", year, seq), nil
}

// PDF renders the invoice and stores the artifact under its number.
func (s *Service) PDF(ctx context.Context, id uuid.UUID) (Invoice, []byte, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return Invoice{}, nil, err
	}
	data, err := s.render(ctx, inv)
	if err != nil {
		return Invoice{}, nil, err
	}
	return inv, data, nil
}

// SendResult reports the outcome of a send operation. Email failure is a
// partial success: the document was rendered, stored and marked sent.
type SendResult struct {
	Invoice    Invoice `json:"document"`
	EmailSent  bool    `json:"email_sent"`
	EmailError string  `json:"email_error,omitempty"`
}

// Send renders the invoice, persists the artifact, marks the document sent
// and then attempts email delivery.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (SendResult, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return SendResult{}, err
	}
	data, err := s.render(ctx, inv)
	if err != nil {
		return SendResult{}, err
	}
	inv, err = s.store.MarkSent(ctx, id, s.now())
	if err != nil {
		return SendResult{}, err
	}

	result := SendResult{Invoice: inv}
	if s.mailer == nil || inv.CustomerEmail == "" {
		result.EmailError = "no recipient email configured"
		return result, nil
	}
	subject := fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Please find attached invoice <b>%s</b>. Amount due: %s.</p>",
		inv.CustomerName, inv.InvoiceNumber, inv.AmountDue().StringFixed(2))
	att := &common.Attachment{
		Filename:    inv.InvoiceNumber + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}
	if err := s.mailer.Send(inv.CustomerEmail, subject, body, att); err != nil {
		result.EmailError = err.Error()
		return result, nil
	}
	result.EmailSent = true
	return result, nil
}

func (s *Service) render(ctx context.Context, inv Invoice) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("invoice: renderer not configured")
	}
	company := settings.Defaults()
	if s.settings != nil {
		if profile, err := s.settings.Get(ctx); err == nil {
			company = profile
		}
	}
	totals := inv.Totals()
	doc := render.Document{
		Type:           document.TypeInvoice,
		Number:         inv.InvoiceNumber,
		Date:           inv.InvoiceDate,
		DueDate:        inv.DueDate,
		CustomerName:   inv.CustomerName,
		CustomerEmail:  inv.CustomerEmail,
		CustomerPhone:  inv.CustomerPhone,
		BillingAddress: inv.BillingAddress,
		SiteLocation:   inv.SiteLocation,
		Items:          inv.Items,
		Totals:         &totals,
		AmountPaid:     inv.AmountPaid,
		AmountDue:      inv.AmountDue(),
		PaymentStatus:  inv.PaymentStatus,
		Company:        company,
	}
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, err
	}
	if s.artifacts != nil {
		if _, err := s.artifacts.Save(inv.InvoiceNumber, data); err != nil {
			return nil, fmt.Errorf("store invoice pdf: %w", err)
		}
	}
	return data, nil
}
