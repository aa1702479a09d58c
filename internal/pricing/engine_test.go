package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/inhaus-automation/backend/internal/document"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(room string, qty, offered string) document.LineItem {
	return document.LineItem{
		RoomArea:     room,
		Quantity:     dec(qty),
		OfferedPrice: dec(offered),
	}
}

func TestComputeRoundsEachValueIndependently(t *testing.T) {
	items := NormalizeItems([]document.LineItem{
		item("Hall", "2", "100"),
		item("Hall", "1", "50"),
		item("Kitchen", "1", "200"),
	})

	totals := Compute(items, decimal.Zero, decimal.Zero, dec("18"))

	require.Equal(t, "450.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "450.00", totals.Net.StringFixed(2))
	require.Equal(t, "81.00", totals.TaxAmount.StringFixed(2))
	require.Equal(t, "531.00", totals.GrandTotal.StringFixed(2))
}

func TestComputeWithDiscountAndInstallation(t *testing.T) {
	items := NormalizeItems([]document.LineItem{
		item("Living", "3", "1250.50"),
	})

	totals := Compute(items, dec("251.50"), dec("500"), dec("18"))

	require.Equal(t, "3751.50", totals.Subtotal.StringFixed(2))
	require.Equal(t, "3500.00", totals.Net.StringFixed(2))
	// (3500 + 500) * 0.18
	require.Equal(t, "720.00", totals.TaxAmount.StringFixed(2))
	require.Equal(t, "4720.00", totals.GrandTotal.StringFixed(2))
}

func TestComputeDiscountLargerThanSubtotalGoesNegative(t *testing.T) {
	items := NormalizeItems([]document.LineItem{item("Hall", "1", "100")})

	totals := Compute(items, dec("150"), decimal.Zero, decimal.Zero)

	require.Equal(t, "-50.00", totals.Net.StringFixed(2))
	require.Equal(t, "-50.00", totals.GrandTotal.StringFixed(2))
}

func TestComputeSubtotalMatchesStoredLineTotals(t *testing.T) {
	// 10.005 rounds up to 10.01 per line; the subtotal must agree with what
	// the lines say, not with the unrounded sum (20.01).
	items := NormalizeItems([]document.LineItem{
		item("Hall", "1", "10.005"),
		item("Hall", "1", "10.005"),
	})

	totals := Compute(items, decimal.Zero, decimal.Zero, decimal.Zero)

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal)
	}
	require.Equal(t, "20.02", sum.StringFixed(2))
	require.True(t, totals.Subtotal.Equal(sum), "subtotal %s != sum of line totals %s", totals.Subtotal, sum)
}

func TestComputeZeroItems(t *testing.T) {
	totals := Compute(nil, decimal.Zero, decimal.Zero, dec("18"))

	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.GrandTotal.IsZero())
}

func TestNormalizeItemsDerivesOfferedPriceAndLineTotals(t *testing.T) {
	items := NormalizeItems([]document.LineItem{
		{
			RoomArea:  "Bedroom",
			ListPrice: dec("1000"),
			Discount:  dec("100"),
			Quantity:  dec("2"),
			Cost:      dec("600"),
		},
	})

	require.Equal(t, "900", items[0].OfferedPrice.String())
	require.Equal(t, "1800.00", items[0].LineTotal.StringFixed(2))
	require.Equal(t, "1200.00", items[0].LineCost.StringFixed(2))
}

func TestNormalizeItemsDefaultsQuantityToOne(t *testing.T) {
	items := NormalizeItems([]document.LineItem{
		{RoomArea: "Hall", OfferedPrice: dec("75")},
	})

	require.Equal(t, "1", items[0].Quantity.String())
	require.Equal(t, "75.00", items[0].LineTotal.StringFixed(2))
}

func TestComputeMargin(t *testing.T) {
	items := NormalizeItems([]document.LineItem{
		{RoomArea: "Hall", Quantity: dec("2"), OfferedPrice: dec("100"), Cost: dec("60")},
	})

	totals := Compute(items, decimal.Zero, decimal.Zero, decimal.Zero)

	require.Equal(t, "120.00", totals.TotalCost.StringFixed(2))
	require.Equal(t, "80.00", totals.Margin.StringFixed(2))
}

func TestPaymentStatus(t *testing.T) {
	cases := []struct {
		name  string
		paid  string
		total string
		want  string
	}{
		{"nothing paid", "0", "531.00", document.PaymentPending},
		{"partial", "100", "531.00", document.PaymentPartial},
		{"exact", "531.00", "531.00", document.PaymentPaid},
		{"overpaid", "600", "531.00", document.PaymentPaid},
		{"zero total", "0", "0", document.PaymentPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PaymentStatus(dec(tc.paid), dec(tc.total)))
		})
	}
}

func TestAmountDueFloorsAtZero(t *testing.T) {
	require.Equal(t, "431.00", AmountDue(dec("531.00"), dec("100")).StringFixed(2))
	require.True(t, AmountDue(dec("500"), dec("600")).IsZero())
}

func TestFormatNumber(t *testing.T) {
	require.Equal(t, "QT-2026-0042", FormatNumber("QT", 2026, 42))
	require.Equal(t, "INV-2026-1234", FormatNumber("INV", 2026, 1234))
}

func TestGroupByRoomPreservesFirstSeenOrder(t *testing.T) {
	items := NormalizeItems([]document.LineItem{
		item("Hall", "2", "100"),
		item("Kitchen", "1", "200"),
		item("Hall", "1", "50"),
	})

	groups := document.GroupByRoom(items)

	require.Len(t, groups, 2)
	require.Equal(t, "Hall", groups[0].Room)
	require.Len(t, groups[0].Items, 2)
	require.Equal(t, "250.00", groups[0].Total.StringFixed(2))
	require.Equal(t, "Kitchen", groups[1].Room)
	require.Equal(t, "200.00", groups[1].Total.StringFixed(2))
}
