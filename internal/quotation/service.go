package quotation

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

// Service implements quotation operations on top of the store.
type Service struct {
	store     Store
	numbering store.Numbering
	settings  settings.Store
	renderer  Renderer
	artifacts ArtifactStore
	mailer    common.EmailSender
	now       func() time.Time
}

// ServiceConfig configures the Service dependencies.
type ServiceConfig struct {
	Store     Store
	Numbering store.Numbering
	Settings  settings.Store
	Renderer  Renderer
	Artifacts ArtifactStore
	Mailer    common.EmailSender
	Now       func() time.Time
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("quotation: store is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     cfg.Store,
		numbering: cfg.Numbering,
		settings:  cfg.Settings,
		renderer:  cfg.Renderer,
		artifacts: cfg.Artifacts,
		mailer:    cfg.Mailer,
		now:       now,
	}, nil
}

// Input is the write payload for creating or updating a quotation.
type Input struct {
	CustomerName  string              `json:"customer_name" validate:"required"`
	CustomerEmail string              `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string              `json:"customer_phone"`
	ArchitectName string              `json:"architect_name"`
	SiteLocation  string              `json:"site_location"`
	Items         []document.LineItem `json:"items" validate:"required,min=1"`
	Discount      decimal.Decimal     `json:"overall_discount"`
	Installation  decimal.Decimal     `json:"installation_charges"`
	GSTPercent    *decimal.Decimal    `json:"gst_percentage"`
	ValidityDays  int                 `json:"validity_days"`
	PaymentTerms  string              `json:"payment_terms"`
	TermsConds    string              `json:"terms_conditions"`
}

// Create validates the payload, prices it and persists it under a freshly
// allocated quotation number.
func (s *Service) Create(ctx context.Context, in Input) (Quotation, error) {
	q, err := s.priced(ctx, in)
	if err != nil {
		return Quotation{}, err
	}
	year := s.now().Year()
	seq, err := s.numbering.NextDocumentNumber(ctx, document.TypeQuotation, year)
	if err != nil {
		return Quotation{}, fmt.Errorf("allocate quote number: %w", err)
	}
	q.QuoteNumber = pricing.FormatNumber("QT", year, seq)
	q.Status = StatusDraft
	if q.ValidityDays == 0 {
		q.ValidityDays = 15
	}
	q, err = s.store.Insert(ctx, q)
	if err != nil {
		return Quotation{}, err
	}
	obs.ObserveDocumentCreated(document.TypeQuotation)
	return q, nil
}

// Update replaces the quotation content and recomputes every stored total
// together. The revision number increments on each edit.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Quotation, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Quotation{}, err
	}
	q, err := s.priced(ctx, in)
	if err != nil {
		return Quotation{}, err
	}
	q.ID = current.ID
	q.QuoteNumber = current.QuoteNumber
	q.RevisionNo = current.RevisionNo + 1
	q.Status = current.Status
	q.ValidityDays = in.ValidityDays
	if q.ValidityDays == 0 {
		q.ValidityDays = current.ValidityDays
	}
	return s.store.Update(ctx, q)
}

// priced normalizes items and computes the full totals block.
func (s *Service) priced(ctx context.Context, in Input) (Quotation, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return Quotation{}, common.BadRequest("customer_name is required", "customer_name", nil)
	}
	if err := validate.Struct(in); err != nil {
		return Quotation{}, common.BadRequest("invalid quotation payload", "", err)
	}
	if len(in.Items) == 0 {
		return Quotation{}, common.BadRequest("at least one item is required", "items", nil)
	}
	for i, it := range in.Items {
		if it.Quantity.IsNegative() {
			return Quotation{}, common.BadRequest(fmt.Sprintf("item %d: quantity must not be negative", i), "items", nil)
		}
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
		return Quotation{}, common.BadRequest("gst_percentage must not be negative", "gst_percentage", nil)
	}
	items := pricing.NormalizeItems(in.Items)
	totals := pricing.Compute(items, in.Discount, in.Installation, gst)
	return Quotation{
		CustomerName:  in.CustomerName,
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		ArchitectName: strings.TrimSpace(in.ArchitectName),
		SiteLocation:  strings.TrimSpace(in.SiteLocation),
		Items:         items,
		Discount:      totals.Discount,
		Installation:  totals.Installation,
		GSTPercent:    totals.TaxPercent,
		Subtotal:      totals.Subtotal,
		NetQuote:      totals.Net,
		GSTAmount:     totals.TaxAmount,
		GrandTotal:    totals.GrandTotal,
		TotalCost:     totals.TotalCost,
		Margin:        totals.Margin,
		ValidityDays:  in.ValidityDays,
		PaymentTerms:  in.PaymentTerms,
		TermsConds:    in.TermsConds,
	}, nil
}

// PDF renders the quotation and stores the artifact under its number.
func (s *Service) PDF(ctx context.Context, id uuid.UUID) (Quotation, []byte, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return Quotation{}, nil, err
	}
	data, err := s.render(ctx, q)
	if err != nil {
		return Quotation{}, nil, err
	}
	return q, data, nil
}

// SendResult reports the outcome of a send operation. Email failure is a
// partial success: the document was rendered, stored and marked sent.
type SendResult struct {
	Quotation  Quotation `json:"document"`
	EmailSent  bool      `json:"email_sent"`
	EmailError string    `json:"email_error,omitempty"`
}

// Send renders the quotation, persists the artifact, marks the document sent
// and then attempts email delivery. Render or persist failures abort; email
// failure does not roll anything back.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (SendResult, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return SendResult{}, err
	}
	data, err := s.render(ctx, q)
	if err != nil {
		return SendResult{}, err
	}
	q, err = s.store.MarkSent(ctx, id, s.now())
	if err != nil {
		return SendResult{}, err
	}

	result := SendResult{Quotation: q}
	if s.mailer == nil || q.CustomerEmail == "" {
		result.EmailError = "no recipient email configured"
		return result, nil
	}
	subject := fmt.Sprintf("Quotation %s from your smart home partner", q.QuoteNumber)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Please find attached quotation <b>%s</b> (revision %d) for your project at %s.</p>",
		q.CustomerName, q.QuoteNumber, q.RevisionNo, q.SiteLocation)
	att := &common.Attachment{
		Filename:    q.QuoteNumber + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}
	if err := s.mailer.Send(q.CustomerEmail, subject, body, att); err != nil {
		result.EmailError = err.Error()
		return result, nil
	}
	result.EmailSent = true
	return result, nil
}

func (s *Service) render(ctx context.Context, q Quotation) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("quotation: renderer not configured")
	}
	company := settings.Defaults()
	if s.settings != nil {
		if profile, err := s.settings.Get(ctx); err == nil {
			company = profile
		}
	}
	totals := q.Totals()
	doc := render.Document{
		Type:          document.TypeQuotation,
		Number:        q.QuoteNumber,
		Revision:      q.RevisionNo,
		Date:          q.CreatedAt,
		CustomerName:  q.CustomerName,
		CustomerEmail: q.CustomerEmail,
		CustomerPhone: q.CustomerPhone,
		ArchitectName: q.ArchitectName,
		SiteLocation:  q.SiteLocation,
		Items:         q.Items,
		Totals:        &totals,
		ValidityDays:  q.ValidityDays,
		PaymentTerms:  q.PaymentTerms,
		Terms:         q.TermsConds,
		Company:       company,
	}
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, err
	}
	if s.artifacts != nil {
		if _, err := s.artifacts.Save(q.QuoteNumber, data); err != nil {
			return nil, fmt.Errorf("store quotation pdf: %w", err)
		}
	}
	return data, nil
}
