package billing

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CartStore persistencia de carritos por usuario (Redis o memoria).
type CartStore interface {
	// Get devuelve el carrito del usuario o nil si no existe.
	Get(ctx context.Context, ownerID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, ownerID string) error
}

// InvoicePDFGenerator puerto para la representación imprimible de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, currency string) ([]byte, error)
}
