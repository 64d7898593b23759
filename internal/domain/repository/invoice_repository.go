package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de facturas.
type InvoiceRepository interface {
	// NextNumber incrementa el contador transaccional y devuelve el siguiente número (desde 1000).
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List devuelve las facturas más recientes primero.
	List(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.Invoice, error)
}
