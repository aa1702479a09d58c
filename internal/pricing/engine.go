// Package pricing implements the pure money arithmetic for quotations and
// invoices. All computation is side-effect free and operates on decimals;
// every published value is rounded to two decimal places at the point it is
// produced, so downstream consumers render stored values verbatim.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/document"
)

var hundred = decimal.NewFromInt(100)

// NormalizeItems recomputes the derived per-line values. The offered price is
// taken as authoritative when present, otherwise it is derived from the list
// price minus the per-line discount. Quantities default to 1.
func NormalizeItems(items []document.LineItem) []document.LineItem {
	out := make([]document.LineItem, len(items))
	for i, it := range items {
		if it.Quantity.IsZero() {
			it.Quantity = decimal.NewFromInt(1)
		}
		if it.OfferedPrice.IsZero() && !it.ListPrice.IsZero() {
			it.OfferedPrice = it.ListPrice.Sub(it.Discount)
		}
		it.LineTotal = it.OfferedPrice.Mul(it.Quantity).Round(2)
		it.LineCost = it.Cost.Mul(it.Quantity).Round(2)
		out[i] = it
	}
	return out
}

// Compute derives document totals from normalized items. Rounding happens per
// value in dependency order: subtotal, then net, then tax, then grand total.
// A discount larger than the subtotal is accepted as given and produces a
// negative net; callers validate business limits before calling.
func Compute(items []document.LineItem, overallDiscount, installation, taxPercent decimal.Decimal) document.Totals {
	// Summing the stored line totals keeps the subtotal equal to the sum of
	// the per-line values the customer sees.
	subtotal := decimal.Zero
	cost := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
		cost = cost.Add(it.LineCost)
	}
	subtotal = subtotal.Round(2)
	cost = cost.Round(2)

	net := subtotal.Sub(overallDiscount).Round(2)
	taxable := net.Add(installation)
	tax := taxable.Mul(taxPercent).Div(hundred).Round(2)
	total := net.Add(installation).Add(tax).Round(2)

	return document.Totals{
		Subtotal:     subtotal,
		Discount:     overallDiscount.Round(2),
		Net:          net,
		Installation: installation.Round(2),
		TaxPercent:   taxPercent,
		TaxAmount:    tax,
		GrandTotal:   total,
		TotalCost:    cost,
		Margin:       net.Sub(cost).Round(2),
	}
}

// PaymentStatus classifies an invoice by how much of the grand total has been
// received. An amount at or above the grand total is paid, which makes a
// zero-total invoice paid from the start.
func PaymentStatus(amountPaid, grandTotal decimal.Decimal) string {
	switch {
	case amountPaid.GreaterThanOrEqual(grandTotal):
		return document.PaymentPaid
	case amountPaid.GreaterThan(decimal.Zero):
		return document.PaymentPartial
	default:
		return document.PaymentPending
	}
}

// AmountDue returns the outstanding balance, floored at zero.
func AmountDue(grandTotal, amountPaid decimal.Decimal) decimal.Decimal {
	due := grandTotal.Sub(amountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due.Round(2)
}

// FormatNumber renders a document number as PREFIX-YEAR-SEQ with the sequence
// zero padded to four digits, e.g. QT-2026-0042.
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}
