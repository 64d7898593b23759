package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/application/events"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/pkg/metrics"
)

// SaleUseCase confirma ventas: descuenta inventario, escribe bitácora y crea la factura
// en una sola transacción.
type SaleUseCase struct {
	txRunner  ports.TxRunner
	cellRepo  repository.CellRepository
	publisher events.Publisher
	log       zerolog.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner ports.TxRunner,
	cellRepo repository.CellRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:  txRunner,
		cellRepo:  cellRepo,
		publisher: publisher,
		log:       log.With().Str("component", "billing").Logger(),
	}
}

// AddLine lee la celda y agrega la línea al carrito. Valida solo la línea contra la
// cantidad leída; la validación agregada se repite al confirmar.
func (uc *SaleUseCase) AddLine(ctx context.Context, actor entity.Actor, cart *Cart, cellID string, quantity int64, unitPrice decimal.Decimal) (*CartLine, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	if err := validateLine(quantity, unitPrice); err != nil {
		return nil, err
	}
	cell, err := uc.cellRepo.GetByID(ctx, cellID)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, fmt.Errorf("%w: celda %s", domain.ErrNotFound, cellID)
	}
	if quantity > cell.Quantity {
		return nil, fmt.Errorf("%w: %s en %s tiene %d, solicitado %d",
			domain.ErrInsufficientStock, cell.Name, cell.Warehouse, cell.Quantity, quantity)
	}
	line := cart.addLine(CartLine{
		CellID:     cell.ID,
		Name:       cell.Name,
		PartNumber: cell.PartNumber,
		ModelNo:    cell.ModelNo,
		Warehouse:  cell.Warehouse,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	})
	return &line, nil
}

func validateLine(quantity int64, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidArgument)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidArgument)
	}
	return nil
}

// Commit confirma la venta del carrito. Todo o nada: si alguna celda no tiene
// stock suficiente para la suma de sus líneas no se aplica ningún cambio.
func (uc *SaleUseCase) Commit(ctx context.Context, actor entity.Actor, cart *Cart, customerName string) (*entity.Invoice, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidArgument)
	}
	for _, l := range cart.Lines {
		if err := validateLine(l.Quantity, l.UnitPrice); err != nil {
			return nil, err
		}
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = entity.DefaultCustomerName
	}

	requested, err := cart.quantitiesByCell()
	if err != nil {
		return nil, err
	}
	cellIDs := make([]string, 0, len(requested))
	for id := range requested {
		cellIDs = append(cellIDs, id)
	}
	// Orden fijo de bloqueo para evitar interbloqueos entre ventas concurrentes.
	sort.Strings(cellIDs)

	var (
		now     time.Time
		invoice *entity.Invoice
	)
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		locked := make(map[string]*entity.Cell, len(cellIDs))
		for _, id := range cellIDs {
			cell, err := tx.Cells.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if cell == nil {
				return fmt.Errorf("%w: celda %s", domain.ErrNotFound, id)
			}
			if requested[id] > cell.Quantity {
				return fmt.Errorf("%w: %s en %s tiene %d, solicitado %d",
					domain.ErrInsufficientStock, cell.Name, cell.Warehouse, cell.Quantity, requested[id])
			}
			locked[id] = cell
		}

		// Marca de tiempo tomada con las filas bloqueadas: la bitácora queda ordenada.
		now = time.Now().UTC()
		seq, err := tx.Invoices.NextNumber(ctx)
		if err != nil {
			return err
		}
		number := entity.FormatInvoiceNumber(seq)

		inv := &entity.Invoice{
			ID:            uuid.New().String(),
			Number:        number,
			Seq:           seq,
			CustomerName:  customerName,
			Lines:         make([]entity.InvoiceLine, 0, len(cart.Lines)),
			TotalAmount:   decimal.Zero,
			GeneratedBy:   actor.Email,
			GeneratedByID: actor.ID,
			CreatedAt:     now,
		}
		for _, l := range cart.Lines {
			cell := locked[l.CellID]
			before := cell.Quantity
			after := before - l.Quantity
			if after < 0 {
				return fmt.Errorf("%w: %s en %s tiene %d, solicitado %d",
					domain.ErrInsufficientStock, cell.Name, cell.Warehouse, before, l.Quantity)
			}
			if err := tx.Cells.UpdateQuantity(ctx, cell.ID, after, now); err != nil {
				return err
			}
			cell.Quantity = after
			entry := entity.NewAuditEntry(cell, entity.AuditSale, before, after, entity.ChangeSale(l.Quantity), actor, now)
			entry.InvoiceNumber = &number
			if err := tx.Audit.Append(ctx, entry); err != nil {
				return err
			}
			line := entity.InvoiceLine{
				CellID:     cell.ID,
				Name:       cell.Name,
				PartNumber: cell.PartNumber,
				ModelNo:    cell.ModelNo,
				Warehouse:  cell.Warehouse,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Total:      l.Total(),
			}
			inv.Lines = append(inv.Lines, line)
			inv.TotalItems += line.Quantity
			inv.TotalAmount = inv.TotalAmount.Add(line.Total)
		}
		if err := tx.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrNotFound) {
			metrics.SalesTotal.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	metrics.SalesTotal.WithLabelValues("committed").Inc()
	metrics.SoldUnitsTotal.Add(float64(invoice.TotalItems))
	metrics.InventoryMutationsTotal.WithLabelValues(string(entity.AuditSale)).Add(float64(len(invoice.Lines)))
	uc.log.Info().Str("invoice", invoice.Number).Int64("items", invoice.TotalItems).
		Str("amount", invoice.TotalAmount.String()).Str("actor", actor.Email).Msg("venta confirmada")

	uc.publish(ctx, events.Event{Type: events.InvoiceCreated, EntityID: invoice.ID, ActorID: actor.ID, At: now,
		Data: map[string]any{"number": invoice.Number, "total_items": invoice.TotalItems}})
	for _, id := range cellIDs {
		uc.publish(ctx, events.Event{Type: events.CellUpdated, EntityID: id, ActorID: actor.ID, At: now,
			Data: map[string]any{"kind": string(entity.AuditSale), "invoice": invoice.Number}})
	}
	return invoice, nil
}

func (uc *SaleUseCase) publish(ctx context.Context, e events.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.log.Warn().Err(err).Str("event", string(e.Type)).Msg("no se pudo publicar el evento")
	}
}
