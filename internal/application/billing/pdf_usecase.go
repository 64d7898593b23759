package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// PDFUseCase genera la representación imprimible de una factura.
type PDFUseCase struct {
	query     *InvoiceQuery
	generator InvoicePDFGenerator
	currency  string
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(query *InvoiceQuery, generator InvoicePDFGenerator, currency string) *PDFUseCase {
	return &PDFUseCase{query: query, generator: generator, currency: currency}
}

// DownloadInvoicePDF devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrPermissionDenied si el actor no puede consultar facturas.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, actor entity.Actor, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.query.Get(ctx, actor, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, uc.currency)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar factura %s: %w", inv.Number, err)
	}
	return pdfBytes, inv.Number + ".pdf", nil
}
