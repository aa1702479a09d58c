package render

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/inhaus-automation/backend/internal/document"
	"github.com/inhaus-automation/backend/internal/obs"
)

// ErrMissingTotals indicates the document carries no stored totals block.
// Totals are rendered verbatim, so rendering without them is refused.
var ErrMissingTotals = errors.New("render: document has no totals")

// Renderer produces PDF bytes from a Document using a fixed template.
type Renderer struct {
	theme  Theme
	assets *AssetResolver
	log    zerolog.Logger
}

// RendererConfig configures the Renderer dependencies.
type RendererConfig struct {
	Theme  Theme
	Assets *AssetResolver
	Logger zerolog.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	theme := cfg.Theme
	if theme.BodySize == 0 {
		theme = DefaultTheme()
	}
	return &Renderer{theme: theme, assets: cfg.Assets, log: cfg.Logger}
}

// Render lays out the document: header and metadata, per-room item tables on
// a fresh page, summary and footer on a fresh page, and for quotations a
// trailing acknowledgement page.
func (r *Renderer) Render(doc Document) (out []byte, err error) {
	start := time.Now()
	defer func() {
		obs.ObserveRender(doc.Type, obs.DurationMillis(time.Since(start)), err)
	}()

	if doc.Totals == nil {
		return nil, ErrMissingTotals
	}

	builder := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithTopMargin(12).
		WithRightMargin(10)
	if path, ext, ok := r.backgroundArt(); ok {
		if art, readErr := os.ReadFile(path); readErr == nil {
			builder = builder.WithBackgroundImage(art, ext)
		}
	}
	m := maroto.New(builder.Build())

	first := page.New()
	first.Add(r.headerRows(doc)...)
	first.Add(r.metadataRows(doc)...)
	first.Add(r.watermarkRows(doc)...)

	itemsPage := page.New()
	itemsPage.Add(r.roomTableRows(doc)...)

	closing := page.New()
	closing.Add(r.summaryRows(doc)...)
	closing.Add(r.footerRows(doc)...)

	pages := []core.Page{first, itemsPage, closing}
	if doc.Type == document.TypeQuotation {
		ack := page.New()
		ack.Add(r.acknowledgementRows(doc)...)
		pages = append(pages, ack)
	}
	m.AddPages(pages...)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", doc.Type, doc.Number, err)
	}
	return pdf.GetBytes(), nil
}

// backgroundArt looks up the page background in the asset directory. Missing
// art degrades to plain pages.
func (r *Renderer) backgroundArt() (string, extension.Type, bool) {
	candidates := []struct {
		name string
		ext  extension.Type
	}{
		{"background.png", extension.Png},
		{"background.jpg", extension.Jpg},
	}
	for _, c := range candidates {
		if path, ok := r.assets.Resolve(c.name); ok {
			return path, c.ext, true
		}
	}
	return "", extension.Png, false
}

// watermarkRows prints the company name as faint oversized text in the middle
// of the cover page.
func (r *Renderer) watermarkRows(doc Document) []core.Row {
	t := r.theme
	return []core.Row{
		row.New(40),
		row.New(18).Add(col.New(12).Add(text.New(doc.Company.CompanyName, props.Text{
			Size:  t.TitleSize + 14,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: &t.Watermark,
		}))),
	}
}

func (r *Renderer) headerRows(doc Document) []core.Row {
	t := r.theme
	left := col.New(7)
	if logo, ok := r.assets.Resolve(doc.Company.LogoPath); ok {
		left.Add(image.NewFromFile(logo, props.Rect{Percent: 80, Left: 1}))
	} else {
		// Missing logo degrades to the plain company name.
		left.Add(text.New(doc.Company.CompanyName, props.Text{
			Size:  t.TitleSize - 6,
			Style: fontstyle.Bold,
			Color: &t.Primary,
		}))
	}
	right := col.New(5).Add(
		text.New(doc.Title(), props.Text{
			Size:  t.TitleSize,
			Style: fontstyle.Bold,
			Align: align.Right,
			Color: &t.Primary,
		}),
		text.New("# "+doc.Number, props.Text{
			Size:  t.BodySize,
			Top:   11,
			Align: align.Right,
			Color: &t.Muted,
		}),
	)

	companyLines := row.New(14).Add(col.New(12).Add(
		text.New(doc.Company.CompanyName, props.Text{Size: t.BodySize, Style: fontstyle.Bold}),
		text.New(doc.Company.Address, props.Text{Size: t.SmallSize, Top: 4, Color: &t.Muted}),
		text.New(contactLine(doc), props.Text{Size: t.SmallSize, Top: 8, Color: &t.Muted}),
	))

	band := row.New(2).WithStyle(&props.Cell{BackgroundColor: &t.Accent})

	return []core.Row{
		row.New(22).Add(left, right),
		companyLines,
		band,
		row.New(3),
	}
}

func (r *Renderer) metadataRows(doc Document) []core.Row {
	t := r.theme
	leftLines := []core.Component{
		text.New("To: "+doc.CustomerName, props.Text{Size: t.BodySize, Style: fontstyle.Bold}),
	}
	top := 5.0
	if doc.CustomerPhone != "" {
		leftLines = append(leftLines, text.New(doc.CustomerPhone, props.Text{Size: t.SmallSize, Top: top}))
		top += 4
	}
	if doc.CustomerEmail != "" {
		leftLines = append(leftLines, text.New(doc.CustomerEmail, props.Text{Size: t.SmallSize, Top: top}))
		top += 4
	}
	if doc.Type == document.TypeInvoice && doc.BillingAddress != "" {
		leftLines = append(leftLines, text.New(doc.BillingAddress, props.Text{Size: t.SmallSize, Top: top}))
	}

	rightLines := []core.Component{
		text.New("Date: "+doc.Date.Format("02 Jan 2006"), props.Text{Size: t.SmallSize, Align: align.Right}),
	}
	top = 4.0
	if doc.Type == document.TypeQuotation {
		rightLines = append(rightLines,
			text.New(fmt.Sprintf("Revision: %d", doc.Revision), props.Text{Size: t.SmallSize, Top: top, Align: align.Right}))
		top += 4
		if doc.ValidityDays > 0 {
			rightLines = append(rightLines,
				text.New(fmt.Sprintf("Valid for %d days", doc.ValidityDays), props.Text{Size: t.SmallSize, Top: top, Align: align.Right}))
			top += 4
		}
	}
	if doc.DueDate != nil {
		rightLines = append(rightLines,
			text.New("Due: "+doc.DueDate.Format("02 Jan 2006"), props.Text{Size: t.SmallSize, Top: top, Align: align.Right}))
	}

	rows := []core.Row{
		row.New(20).Add(col.New(7).Add(leftLines...), col.New(5).Add(rightLines...)),
	}
	if doc.Type == document.TypeQuotation && (doc.ArchitectName != "" || doc.SiteLocation != "") {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Architect: "+doc.ArchitectName, props.Text{Size: t.SmallSize}),
			text.New("Site: "+doc.SiteLocation, props.Text{Size: t.SmallSize, Top: 4}),
		)))
	}
	return rows
}

func (r *Renderer) roomTableRows(doc Document) []core.Row {
	t := r.theme
	rows := make([]core.Row, 0, len(doc.Items)*2)
	seq := 0
	for _, group := range document.GroupByRoom(doc.Items) {
		rows = append(rows,
			row.New(8).WithStyle(&props.Cell{BackgroundColor: &t.HeaderBg}).Add(
				col.New(12).Add(text.New(group.Room, props.Text{
					Size:  t.BodySize,
					Style: fontstyle.Bold,
					Top:   1.5,
					Color: &t.Primary,
				})),
			),
			r.itemHeaderRow(),
		)
		qtySum := decimal.Zero
		for _, it := range group.Items {
			seq++
			qtySum = qtySum.Add(it.Quantity)
			rows = append(rows, r.itemRow(seq, it))
		}
		rows = append(rows, row.New(t.RowHeight).Add(
			col.New(8).Add(text.New("Room total", props.Text{Size: t.SmallSize, Style: fontstyle.Bold, Align: align.Right})),
			col.New(1).Add(text.New(qtySum.String(), props.Text{Size: t.SmallSize, Style: fontstyle.Bold, Align: align.Center})),
			col.New(3).Add(text.New(money(group.Total), props.Text{Size: t.SmallSize, Style: fontstyle.Bold, Align: align.Right})),
		), row.New(2).Add(line.NewCol(12)))
	}
	return rows
}

func (r *Renderer) itemHeaderRow() core.Row {
	t := r.theme
	header := func(size int, label string, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Size:  t.SmallSize,
			Style: fontstyle.Bold,
			Align: a,
		}))
	}
	return row.New(6).Add(
		header(1, "S.No", align.Center),
		header(1, "Image", align.Center),
		header(2, "Model", align.Left),
		header(4, "Product Details", align.Left),
		header(1, "Qty", align.Center),
		header(1, "Price", align.Right),
		header(2, "Amount", align.Right),
	)
}

func (r *Renderer) itemRow(seq int, it document.LineItem) core.Row {
	t := r.theme
	imageCol := col.New(1)
	if path, ok := r.assets.Resolve(it.ImagePath); ok {
		imageCol.Add(image.NewFromFile(path, props.Rect{Percent: 90, Center: true}))
	} else {
		imageCol.Add(text.New("-", props.Text{Size: t.SmallSize, Align: align.Center, Color: &t.Muted}))
	}
	details := col.New(4).Add(
		text.New(it.ProductName, props.Text{Size: t.SmallSize, Style: fontstyle.Bold}),
	)
	if it.Description != "" {
		details.Add(text.New(t.Truncate(it.Description), props.Text{
			Size:  t.SmallSize - 0.5,
			Top:   3.5,
			Color: &t.Muted,
		}))
	}
	return row.New(10).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", seq), props.Text{Size: t.SmallSize, Align: align.Center})),
		imageCol,
		col.New(2).Add(text.New(it.ModelNo, props.Text{Size: t.SmallSize})),
		details,
		col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: t.SmallSize, Align: align.Center})),
		col.New(1).Add(text.New(money(it.OfferedPrice), props.Text{Size: t.SmallSize, Align: align.Right})),
		col.New(2).Add(text.New(money(it.LineTotal), props.Text{Size: t.SmallSize, Align: align.Right})),
	)
}

// summaryRows renders one row per room, then the stored totals verbatim.
func (r *Renderer) summaryRows(doc Document) []core.Row {
	t := r.theme
	rows := []core.Row{
		row.New(9).Add(col.New(12).Add(text.New("Summary", props.Text{
			Size:  t.BodySize + 2,
			Style: fontstyle.Bold,
			Color: &t.Primary,
		}))),
	}
	for _, group := range document.GroupByRoom(doc.Items) {
		rows = append(rows, summaryLine(t, group.Room, money(group.Total), false))
	}
	rows = append(rows, row.New(2).Add(line.NewCol(12)))

	totals := doc.Totals
	rows = append(rows,
		summaryLine(t, "Subtotal", money(totals.Subtotal), false),
	)
	if !totals.Discount.IsZero() {
		rows = append(rows, summaryLine(t, "Discount", "- "+money(totals.Discount), false))
	}
	rows = append(rows, summaryLine(t, netLabel(doc), money(totals.Net), false))
	if !totals.Installation.IsZero() {
		rows = append(rows, summaryLine(t, "Installation Charges", money(totals.Installation), false))
	}
	rows = append(rows,
		summaryLine(t, fmt.Sprintf("GST (%s%%)", totals.TaxPercent.String()), money(totals.TaxAmount), false),
		summaryLine(t, "Grand Total", money(totals.GrandTotal), true),
	)
	return rows
}

func netLabel(doc Document) string {
	if doc.Type == document.TypeQuotation {
		return "Net Quote"
	}
	return "Net Total"
}

func summaryLine(t Theme, label, amount string, emphasis bool) core.Row {
	size := t.SmallSize
	style := fontstyle.Normal
	height := t.RowHeight
	if emphasis {
		size = t.BodySize
		style = fontstyle.Bold
		height += 2
	}
	rw := row.New(height).Add(
		col.New(8).Add(text.New(label, props.Text{Size: size, Style: style, Align: align.Right})),
		col.New(4).Add(text.New(amount, props.Text{Size: size, Style: style, Align: align.Right})),
	)
	if emphasis {
		rw.WithStyle(&props.Cell{BackgroundColor: &t.HeaderBg})
	}
	return rw
}

func (r *Renderer) footerRows(doc Document) []core.Row {
	t := r.theme
	rows := []core.Row{row.New(4)}

	if doc.Type == document.TypeInvoice {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Payment status: %s", doc.PaymentStatus), props.Text{Size: t.BodySize, Style: fontstyle.Bold}),
			text.New(fmt.Sprintf("Amount paid: %s    Amount due: %s", money(doc.AmountPaid), money(doc.AmountDue)), props.Text{Size: t.SmallSize, Top: 5}),
		)))
	}
	if doc.PaymentTerms != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Payment Terms", props.Text{Size: t.SmallSize, Style: fontstyle.Bold}),
			text.New(doc.PaymentTerms, props.Text{Size: t.SmallSize, Top: 4, Color: &t.Muted}),
		)))
	}
	if doc.Terms != "" {
		rows = append(rows, row.New(14).Add(col.New(12).Add(
			text.New("Terms & Conditions", props.Text{Size: t.SmallSize, Style: fontstyle.Bold}),
			text.New(doc.Terms, props.Text{Size: t.SmallSize, Top: 4, Color: &t.Muted}),
		)))
	}
	if doc.Type == document.TypeInvoice && doc.Company.BankName != "" {
		bank := fmt.Sprintf("%s  A/C %s  IFSC %s", doc.Company.BankName, doc.Company.BankAccountNo, doc.Company.BankIFSC)
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Bank Details", props.Text{Size: t.SmallSize, Style: fontstyle.Bold}),
			text.New(bank, props.Text{Size: t.SmallSize, Top: 4}),
			text.New("UPI: "+doc.Company.UPIID, props.Text{Size: t.SmallSize, Top: 8}),
		)))
	}

	footer := contactLine(doc)
	if doc.Company.GSTIN != "" {
		footer += "  |  GSTIN: " + doc.Company.GSTIN
	}
	rows = append(rows,
		row.New(2).Add(line.NewCol(12)),
		row.New(6).Add(col.New(12).Add(text.New(footer, props.Text{
			Size:  t.SmallSize,
			Align: align.Center,
			Color: &t.Muted,
		}))),
	)
	return rows
}

func (r *Renderer) acknowledgementRows(doc Document) []core.Row {
	t := r.theme
	return []core.Row{
		row.New(60),
		row.New(12).Add(col.New(12).Add(text.New("Thank You", props.Text{
			Size:  t.TitleSize,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: &t.Primary,
		}))),
		row.New(10).Add(col.New(12).Add(text.New(
			fmt.Sprintf("We appreciate the opportunity to quote for your project, %s.", doc.CustomerName),
			props.Text{Size: t.BodySize, Align: align.Center}))),
		row.New(8).Add(col.New(12).Add(text.New(
			"Please reach out with any questions about quotation "+doc.Number+".",
			props.Text{Size: t.SmallSize, Align: align.Center, Color: &t.Muted}))),
	}
}

func contactLine(doc Document) string {
	c := doc.Company
	out := c.Phone
	if c.Email != "" {
		if out != "" {
			out += "  |  "
		}
		out += c.Email
	}
	if c.Website != "" {
		if out != "" {
			out += "  |  "
		}
		out += c.Website
	}
	return out
}

func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}
