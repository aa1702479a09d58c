package invoice_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/inhaus-automation/backend/internal/common"
	"github.com/inhaus-automation/backend/internal/document"
	"github.com/inhaus-automation/backend/internal/invoice"
	"github.com/inhaus-automation/backend/internal/quotation"
	"github.com/inhaus-automation/backend/internal/render"
	"github.com/inhaus-automation/backend/internal/settings"
)

type fakeStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]invoice.Invoice
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[uuid.UUID]invoice.Invoice{}}
}

func (f *fakeStore) Insert(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	f.items[inv.ID] = inv
	return inv, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	return inv, nil
}

func (f *fakeStore) List(_ context.Context, paymentStatus string, limit, offset int) ([]invoice.Invoice, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]invoice.Invoice, 0, len(f.items))
	for _, inv := range f.items {
		if paymentStatus == "" || inv.PaymentStatus == paymentStatus {
			out = append(out, inv)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) Update(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[inv.ID]; !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	f.items[inv.ID] = inv
	return inv, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return invoice.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) MarkSent(_ context.Context, id uuid.UUID, at time.Time) (invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	if inv.SentAt == nil {
		inv.SentAt = &at
	}
	if inv.Status == invoice.StatusDraft {
		inv.Status = invoice.StatusSent
	}
	f.items[id] = inv
	return inv, nil
}

func (f *fakeStore) RecordPayment(_ context.Context, id uuid.UUID, amountPaid decimal.Decimal, status string) (invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	inv.AmountPaid = amountPaid
	inv.PaymentStatus = status
	if status == document.PaymentPaid {
		inv.Status = invoice.StatusPaid
	}
	f.items[id] = inv
	return inv, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id uuid.UUID, status string) (invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	inv.Status = status
	f.items[id] = inv
	return inv, nil
}

type fakeQuotations struct {
	mu    sync.Mutex
	items map[uuid.UUID]quotation.Quotation
}

func (f *fakeQuotations) Insert(_ context.Context, q quotation.Quotation) (quotation.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.ID = uuid.New()
	f.items[q.ID] = q
	return q, nil
}

func (f *fakeQuotations) Get(_ context.Context, id uuid.UUID) (quotation.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.items[id]
	if !ok {
		return quotation.Quotation{}, quotation.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuotations) List(context.Context, string, int, int) ([]quotation.Quotation, int64, error) {
	return nil, 0, nil
}

func (f *fakeQuotations) Update(_ context.Context, q quotation.Quotation) (quotation.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[q.ID] = q
	return q, nil
}

func (f *fakeQuotations) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeQuotations) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) (quotation.Quotation, error) {
	return f.Get(context.Background(), id)
}

func (f *fakeQuotations) SetStatus(_ context.Context, id uuid.UUID, status string) (quotation.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.items[id]
	if !ok {
		return quotation.Quotation{}, quotation.ErrNotFound
	}
	q.Status = status
	f.items[id] = q
	return q, nil
}

type fakeNumbering struct {
	mu  sync.Mutex
	seq map[string]int64
}

func (f *fakeNumbering) NextDocumentNumber(_ context.Context, docType string, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq == nil {
		f.seq = map[string]int64{}
	}
	key := fmt.Sprintf("%s-%d", docType, year)
	f.seq[key]++
	return f.seq[key], nil
}

type fakeSettings struct{}

func (fakeSettings) Get(context.Context) (settings.CompanySettings, error) {
	return settings.Defaults(), nil
}

func (fakeSettings) Upsert(_ context.Context, s settings.CompanySettings) (settings.CompanySettings, error) {
	return s, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(doc render.Document) ([]byte, error) {
	if doc.Totals == nil {
		return nil, render.ErrMissingTotals
	}
	return []byte("%PDF " + doc.Number), nil
}

type fakeArtifacts struct{}

func (fakeArtifacts) Save(number string, _ []byte) (string, error) { return number + ".pdf", nil }

func newTestService(t *testing.T, store invoice.Store, quotations quotation.Store, mailer common.EmailSender) *invoice.Service {
	t.Helper()
	svc, err := invoice.NewService(invoice.ServiceConfig{
		Store:      store,
		Quotations: quotations,
		Numbering:  &fakeNumbering{},
		Settings:   fakeSettings{},
		Renderer:   fakeRenderer{},
		Artifacts:  fakeArtifacts{},
		Mailer:     mailer,
		Now:        func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func testInput() invoice.Input {
	return invoice.Input{
		CustomerName:   "Ravi Kumar",
		CustomerEmail:  "ravi@example.com",
		BillingAddress: "12 MG Road, Bengaluru",
		Items: []document.LineItem{
			{RoomArea: "Hall", ProductName: "Smart Switch", Quantity: decimal.NewFromInt(2), OfferedPrice: decimal.NewFromInt(100)},
			{RoomArea: "Kitchen", ProductName: "Hub", Quantity: decimal.NewFromInt(1), OfferedPrice: decimal.NewFromInt(250)},
		},
	}
}

func TestCreateAssignsNumberAndDerivesPending(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil)

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	require.Equal(t, "INV-2026-0001", inv.InvoiceNumber)
	require.Equal(t, invoice.StatusDraft, inv.Status)
	require.Equal(t, document.PaymentPending, inv.PaymentStatus)
	require.Equal(t, "450.00", inv.Subtotal.StringFixed(2))
	require.Equal(t, "531.00", inv.GrandTotal.StringFixed(2))
	require.Equal(t, "531.00", inv.AmountDue().StringFixed(2))
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil)

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	inv, err = svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(200))
	require.NoError(t, err)
	require.Equal(t, document.PaymentPartial, inv.PaymentStatus)
	require.Equal(t, "331.00", inv.AmountDue().StringFixed(2))

	inv, err = svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromFloat(331.00))
	require.NoError(t, err)
	require.Equal(t, document.PaymentPaid, inv.PaymentStatus)
	require.Equal(t, invoice.StatusPaid, inv.Status)
	require.True(t, inv.AmountDue().IsZero())
}

func TestRecordPaymentRejectsNonPositive(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil)

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, decimal.Zero)
	require.Error(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(-10))
	require.Error(t, err)
}

func TestCreateFromQuotationCopiesAndMarksConverted(t *testing.T) {
	quotations := &fakeQuotations{items: map[uuid.UUID]quotation.Quotation{}}
	q, err := quotations.Insert(context.Background(), quotation.Quotation{
		QuoteNumber:   "QT-2026-0007",
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		SiteLocation:  "HSR Layout, Bengaluru",
		Items: []document.LineItem{
			{RoomArea: "Bedroom", ProductName: "Blind Motor", Quantity: decimal.NewFromInt(2), OfferedPrice: decimal.NewFromInt(5000), LineTotal: decimal.NewFromInt(10000)},
		},
		GSTPercent: decimal.NewFromInt(18),
		Subtotal:   decimal.NewFromInt(10000),
		NetQuote:   decimal.NewFromInt(10000),
		GSTAmount:  decimal.NewFromInt(1800),
		GrandTotal: decimal.NewFromInt(11800),
		Status:     quotation.StatusAccepted,
	})
	require.NoError(t, err)

	svc := newTestService(t, newFakeStore(), quotations, nil)

	inv, err := svc.CreateFromQuotation(context.Background(), q.ID)
	require.NoError(t, err)

	require.Equal(t, "INV-2026-0001", inv.InvoiceNumber)
	require.Equal(t, &q.ID, inv.QuotationID)
	require.Equal(t, "Asha Rao", inv.CustomerName)
	require.Len(t, inv.Items, 1)
	// Totals are copied verbatim, not recomputed.
	require.Equal(t, "11800.00", inv.GrandTotal.StringFixed(2))
	require.Equal(t, document.PaymentPending, inv.PaymentStatus)

	converted, err := quotations.Get(context.Background(), q.ID)
	require.NoError(t, err)
	require.Equal(t, quotation.StatusConverted, converted.Status)
}

func TestUpdateRederivesPaymentStatusAgainstNewTotal(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil)

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	inv, err = svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(531))
	require.NoError(t, err)
	require.Equal(t, document.PaymentPaid, inv.PaymentStatus)

	// Raising the total turns a paid invoice back into partial.
	in := testInput()
	in.Items = append(in.Items, document.LineItem{
		RoomArea: "Terrace", ProductName: "Camera", Quantity: decimal.NewFromInt(1), OfferedPrice: decimal.NewFromInt(1000),
	})
	inv, err = svc.Update(context.Background(), inv.ID, in)
	require.NoError(t, err)
	require.Equal(t, document.PaymentPartial, inv.PaymentStatus)
}

func TestSendInvoiceEmailFailureIsPartialSuccess(t *testing.T) {
	store := newFakeStore()
	mailer := &common.InMemoryEmail{Err: common.ErrEmailUnavailable}
	svc := newTestService(t, store, nil, mailer)

	inv, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	result, err := svc.Send(context.Background(), inv.ID)
	require.NoError(t, err)
	require.False(t, result.EmailSent)
	require.NotEmpty(t, result.EmailError)
	require.NotNil(t, result.Invoice.SentAt)
	require.Equal(t, invoice.StatusSent, result.Invoice.Status)
}

func TestCreateRejectsNegativeGST(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil)

	in := testInput()
	gst := decimal.NewFromInt(-18)
	in.GSTPercent = &gst
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreateRejectsMalformedEmail(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil)

	in := testInput()
	in.CustomerEmail = "not-an-email"
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
}
