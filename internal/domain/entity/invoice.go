package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Numeración de facturas: INV-<n>, primer número 1000.
const (
	InvoicePrefix      = "INV-"
	FirstInvoiceNumber = int64(1000)
)

// DefaultCustomerName cliente usado cuando la venta no indica uno.
const DefaultCustomerName = "Walk-in Customer"

// Invoice cabecera inmutable de una venta confirmada.
type Invoice struct {
	ID            string
	Number        string // INV-<Seq>
	Seq           int64
	CustomerName  string
	Lines         []InvoiceLine
	TotalItems    int64
	TotalAmount   decimal.Decimal
	GeneratedBy   string // email del actor
	GeneratedByID string
	CreatedAt     time.Time
}

// InvoiceLine línea de la factura con los datos de la celda al momento de la venta.
type InvoiceLine struct {
	CellID     string
	Name       string
	PartNumber string
	ModelNo    string
	Warehouse  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal
}

// FormatInvoiceNumber devuelve INV-<n>.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%s%d", InvoicePrefix, n)
}

// ParseInvoiceNumber extrae n de INV-<n>.
func ParseInvoiceNumber(s string) (int64, bool) {
	if !strings.HasPrefix(s, InvoicePrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(s, InvoicePrefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// InvoiceFilter filtros del historial de ventas.
type InvoiceFilter struct {
	Search    string // número, email del vendedor, cliente o datos de las líneas
	Warehouse string
	Date      *time.Time
	Limit     int
	Offset    int
}

// Matches aplica el filtro a la factura (usado por adaptadores en memoria).
func (f InvoiceFilter) Matches(inv *Invoice) bool {
	if f.Date != nil && !SameDay(inv.CreatedAt, *f.Date) {
		return false
	}
	if f.Warehouse != "" {
		found := false
		for _, l := range inv.Lines {
			if EqualFold(l.Warehouse, f.Warehouse) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search == "" {
		return true
	}
	if ContainsFold(inv.Number, f.Search) || ContainsFold(inv.GeneratedBy, f.Search) || ContainsFold(inv.CustomerName, f.Search) {
		return true
	}
	for _, l := range inv.Lines {
		if ContainsFold(l.Name, f.Search) || ContainsFold(l.PartNumber, f.Search) || ContainsFold(l.ModelNo, f.Search) {
			return true
		}
	}
	return false
}
