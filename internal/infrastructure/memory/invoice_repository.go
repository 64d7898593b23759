package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas y contador en memoria.
type InvoiceRepo struct{ base }

func (r *InvoiceRepo) NextNumber(_ context.Context) (int64, error) {
	var n int64
	err := r.with(func(st *state) error {
		st.counter++
		n = st.counter
		return nil
	})
	return n, err
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	return r.with(func(st *state) error {
		if invoice.ID == "" {
			invoice.ID = uuid.New().String()
		}
		inv := *invoice
		inv.Lines = append([]entity.InvoiceLine(nil), invoice.Lines...)
		st.invoices[inv.ID] = inv
		st.invoiceOrder = append(st.invoiceOrder, inv.ID)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.with(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) List(_ context.Context, filter entity.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.with(func(st *state) error {
		for i := len(st.invoiceOrder) - 1; i >= 0; i-- {
			inv := st.invoices[st.invoiceOrder[i]]
			if filter.Matches(&inv) {
				out = append(out, &inv)
			}
		}
		return nil
	})
	lo, hi := window(len(out), filter.Limit, filter.Offset)
	return out[lo:hi], err
}
