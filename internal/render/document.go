package render

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/document"
	"github.com/inhaus-automation/backend/internal/settings"
)

// Document is the renderer's view of a quotation or invoice. Totals are
// rendered verbatim from what the caller stored; the renderer never
// recomputes money. A nil Totals is a hard render error.
type Document struct {
	Type     string
	Number   string
	Revision int
	Date     time.Time
	DueDate  *time.Time

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ArchitectName  string
	SiteLocation   string
	BillingAddress string

	Items  []document.LineItem
	Totals *document.Totals

	ValidityDays int
	PaymentTerms string
	Terms        string

	AmountPaid    decimal.Decimal
	AmountDue     decimal.Decimal
	PaymentStatus string

	Company settings.CompanySettings
}

// Title returns the large heading for the document type.
func (d Document) Title() string {
	if d.Type == document.TypeInvoice {
		return "TAX INVOICE"
	}
	return "QUOTATION"
}
