// Package document holds the shared line-item and totals types used by
// pricing, rendering and the quotation/invoice services.
package document

import (
	"github.com/shopspring/decimal"
)

// Document type discriminators used for numbering and rendering.
const (
	TypeQuotation = "quotation"
	TypeInvoice   = "invoice"
)

// Payment status values derived from amount_paid against the grand total.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// LineItem is a single priced row of a quotation or invoice. Items carry the
// room they belong to so the renderer can group them per room area.
type LineItem struct {
	RoomArea     string          `json:"room_area"`
	ModelNo      string          `json:"model_no"`
	ProductName  string          `json:"product_name"`
	Description  string          `json:"description"`
	ImagePath    string          `json:"image_path,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	ListPrice    decimal.Decimal `json:"list_price"`
	Discount     decimal.Decimal `json:"discount"`
	OfferedPrice decimal.Decimal `json:"offered_price"`
	Cost         decimal.Decimal `json:"cost"`
	LineTotal    decimal.Decimal `json:"line_total"`
	LineCost     decimal.Decimal `json:"line_cost_total"`
}

// Totals is the computed money summary of a document. All values are rounded
// to two decimal places independently at the time they are computed.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"overall_discount"`
	Net          decimal.Decimal `json:"net_total"`
	Installation decimal.Decimal `json:"installation_charges"`
	TaxPercent   decimal.Decimal `json:"gst_percentage"`
	TaxAmount    decimal.Decimal `json:"gst_amount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Margin       decimal.Decimal `json:"margin"`
}

// RoomGroup is a set of items that share a room area, in first-seen order.
type RoomGroup struct {
	Room  string
	Items []LineItem
	Total decimal.Decimal
}

// GroupByRoom partitions items by room area preserving the order in which
// each room first appears, and the item order within each room.
func GroupByRoom(items []LineItem) []RoomGroup {
	index := make(map[string]int, len(items))
	groups := make([]RoomGroup, 0, 4)
	for _, it := range items {
		room := it.RoomArea
		if room == "" {
			room = "General"
		}
		i, ok := index[room]
		if !ok {
			i = len(groups)
			index[room] = i
			groups = append(groups, RoomGroup{Room: room})
		}
		groups[i].Items = append(groups[i].Items, it)
		groups[i].Total = groups[i].Total.Add(it.LineTotal)
	}
	return groups
}
