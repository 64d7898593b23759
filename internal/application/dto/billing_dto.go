package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// AddCartLineRequest body para POST /api/cart/lines.
type AddCartLineRequest struct {
	CellID    string          `json:"cell_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CheckoutRequest body para POST /api/cart/checkout.
type CheckoutRequest struct {
	CustomerName string `json:"customer_name" validate:"omitempty,max=200"`
}

// SaleLineRequest línea de una venta directa.
type SaleLineRequest struct {
	CellID    string          `json:"cell_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerName string            `json:"customer_name" validate:"omitempty,max=200"`
	Items        []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ID         string          `json:"id"`
	CellID     string          `json:"cell_id"`
	Name       string          `json:"name"`
	PartNumber string          `json:"part_number"`
	ModelNo    string          `json:"model_no"`
	Warehouse  string          `json:"warehouse"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
}

// CartResponse carrito del usuario.
type CartResponse struct {
	Lines       []CartLineResponse `json:"lines"`
	TotalItems  int64              `json:"total_items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

// InvoiceLineResponse línea de factura.
type InvoiceLineResponse struct {
	CellID     string          `json:"cell_id"`
	Name       string          `json:"name"`
	PartNumber string          `json:"part_number"`
	ModelNo    string          `json:"model_no"`
	Warehouse  string          `json:"warehouse"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"invoice_number"`
	CustomerName string                `json:"customer_name"`
	Items        []InvoiceLineResponse `json:"items"`
	TotalItems   int64                 `json:"total_items"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	Currency     string                `json:"currency"`
	GeneratedBy  string                `json:"generated_by"`
	Date         string                `json:"date"`
	Time         string                `json:"time"`
	CreatedAt    time.Time             `json:"created_at"`
}

// InvoiceListResponse historial de ventas con totales del conjunto filtrado.
type InvoiceListResponse struct {
	Invoices    []InvoiceResponse `json:"invoices"`
	TotalItems  int64             `json:"total_items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Currency    string            `json:"currency"`
}

// InvoiceFromEntity mapea una factura.
func InvoiceFromEntity(inv *entity.Invoice, currency string) InvoiceResponse {
	items := make([]InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, InvoiceLineResponse{
			CellID:     l.CellID,
			Name:       l.Name,
			PartNumber: l.PartNumber,
			ModelNo:    l.ModelNo,
			Warehouse:  l.Warehouse,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Total:      l.Total,
		})
	}
	return InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		CustomerName: inv.CustomerName,
		Items:        items,
		TotalItems:   inv.TotalItems,
		TotalAmount:  inv.TotalAmount,
		Currency:     currency,
		GeneratedBy:  inv.GeneratedBy,
		Date:         inv.CreatedAt.UTC().Format("2006-01-02"),
		Time:         inv.CreatedAt.UTC().Format("15:04:05"),
		CreatedAt:    inv.CreatedAt,
	}
}
