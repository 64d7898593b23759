// Package pdf genera la representación imprimible de una factura de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: nombre de la bodega │  N° Factura + Fecha/Hora     │
//	│  CLIENTE + vendedor                                          │
//	│  TABLA: Cant | Producto | Parte/Modelo | Bodega | P.Unit | Total │
//	│  TOTALES: unidades / TOTAL                                   │
//	│  FOOTER: QR con el número de factura                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/billing"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	storeName string
}

// NewMarotoPDFGenerator construye el generador; storeName encabeza el documento.
func NewMarotoPDFGenerator(storeName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{storeName: nonEmpty(storeName, "Bodega")}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, currency string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.Number, true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.storeName, inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(inv.Lines, currency)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, currency))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(inv))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(storeName string, inv *entity.Invoice) core.Row {
	at := inv.CreatedAt.UTC()
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Factura de venta", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(inv.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2}),
			text.New(at.Format("2006-01-02 15:04:05")+" UTC", props.Text{Size: 8, Align: align.Right, Top: 10, Color: colorGray}),
		),
	)
}

func customerRow(inv *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(inv.CustomerName, entity.DefaultCustomerName), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(4).Add(
			text.New("VENDEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(inv.GeneratedBy, "—"), props.Text{Size: 8, Align: align.Right, Top: 7}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 3, align.Left),
		h("Parte / Modelo", 3, align.Left),
		h("Bodega", 1, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func tableLineRows(lines []entity.InvoiceLine, currency string) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(l.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.PartNumber+" / "+l.ModelNo, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(l.Warehouse, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(currency, l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(currency, l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(inv *entity.Invoice, currency string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades:"),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6}),
		),
		col.New(3).Add(
			text.New(strconv.FormatInt(inv.TotalItems, 10), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(money(currency, inv.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6}),
		),
	)
}

func footerRow(inv *entity.Invoice) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(inv.Number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Conserve este documento como soporte de su compra.", props.Text{Size: 8, Top: 6, Left: 3, Color: colorGray}),
			text.New(inv.Number, props.Text{Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func money(currency string, d decimal.Decimal) string {
	return strings.TrimSpace(currency + " " + formatMoney(d))
}

// formatMoney separa miles con coma y deja dos decimales.
// Ej: 25000 → "25,000.00", 1234567.5 → "1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
