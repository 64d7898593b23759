package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// InvoiceQuery consultas del historial de ventas.
type InvoiceQuery struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceQuery construye el caso de uso.
func NewInvoiceQuery(invoiceRepo repository.InvoiceRepository) *InvoiceQuery {
	return &InvoiceQuery{invoiceRepo: invoiceRepo}
}

// Get devuelve la factura o ErrNotFound.
func (q *InvoiceQuery) Get(ctx context.Context, actor entity.Actor, id string) (*entity.Invoice, error) {
	if err := access.RequireRead(actor); err != nil {
		return nil, err
	}
	inv, err := q.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return inv, nil
}

// InvoiceList página de facturas con el total del conjunto filtrado.
type InvoiceList struct {
	Invoices    []*entity.Invoice
	TotalAmount decimal.Decimal
	TotalItems  int64
}

// List filtra por búsqueda, bodega y fecha; más recientes primero.
func (q *InvoiceQuery) List(ctx context.Context, actor entity.Actor, filter entity.InvoiceFilter) (*InvoiceList, error) {
	if err := access.RequireRead(actor); err != nil {
		return nil, err
	}
	invoices, err := q.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &InvoiceList{Invoices: invoices, TotalAmount: decimal.Zero}
	for _, inv := range invoices {
		out.TotalAmount = out.TotalAmount.Add(inv.TotalAmount)
		out.TotalItems += inv.TotalItems
	}
	return out, nil
}
