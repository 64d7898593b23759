package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/application/events"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/pkg/metrics"
)

// LedgerUseCase registra las mutaciones de inventario de forma transaccional:
// bloqueo de fila (SELECT FOR UPDATE), validación, escritura y entrada de bitácora
// en la misma transacción.
type LedgerUseCase struct {
	txRunner  ports.TxRunner
	cellRepo  repository.CellRepository
	auditRepo repository.AuditRepository
	publisher events.Publisher
	log       zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	cellRepo repository.CellRepository,
	auditRepo repository.AuditRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		cellRepo:  cellRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		log:       log.With().Str("component", "inventory").Logger(),
	}
}

// CreateCellInput datos de una celda nueva.
type CreateCellInput struct {
	Name            string
	PartNumber      string
	ModelNo         string
	Warehouse       string
	InitialQuantity int64
	Category        string
	ImageURL        *string
}

// CreateCell crea la celda conservando mayúsculas y registra "+N (New Product)".
// ErrDuplicateCell si ya existe otra con la misma identidad (sin distinguir mayúsculas).
func (uc *LedgerUseCase) CreateCell(ctx context.Context, actor entity.Actor, in CreateCellInput) (*entity.Cell, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.PartNumber = strings.TrimSpace(in.PartNumber)
	in.ModelNo = strings.TrimSpace(in.ModelNo)
	in.Warehouse = strings.TrimSpace(in.Warehouse)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || in.PartNumber == "" || in.ModelNo == "" || in.Warehouse == "" {
		return nil, fmt.Errorf("%w: nombre, número de parte, modelo y bodega son obligatorios", domain.ErrInvalidArgument)
	}
	for _, v := range []string{in.Name, in.PartNumber, in.ModelNo, in.Warehouse} {
		if entity.HasControlChars(v) {
			return nil, fmt.Errorf("%w: %q contiene caracteres de control", domain.ErrInvalidArgument, v)
		}
	}
	if in.InitialQuantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrInvalidArgument)
	}

	var now time.Time
	cell := &entity.Cell{
		ID:         uuid.New().String(),
		Name:       in.Name,
		PartNumber: in.PartNumber,
		ModelNo:    in.ModelNo,
		Warehouse:  in.Warehouse,
		Quantity:   in.InitialQuantity,
		Category:   in.Category,
		ImageURL:   in.ImageURL,
	}

	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		now = time.Now().UTC()
		cell.CreatedAt, cell.UpdatedAt = now, now
		if err := tx.Cells.Create(ctx, cell); err != nil {
			return err
		}
		entry := entity.NewAuditEntry(cell, entity.AuditCreate, 0, cell.Quantity,
			entity.ChangeNewProduct(cell.Quantity), actor, now)
		return tx.Audit.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	metrics.InventoryMutationsTotal.WithLabelValues(string(entity.AuditCreate)).Inc()
	uc.log.Info().Str("cell_id", cell.ID).Str("warehouse", cell.Warehouse).Int64("quantity", cell.Quantity).
		Str("actor", actor.Email).Msg("celda creada")
	uc.publish(ctx, events.Event{Type: events.CellCreated, EntityID: cell.ID, ActorID: actor.ID, At: now,
		Data: map[string]any{"quantity": cell.Quantity, "warehouse": cell.Warehouse}})
	return cell, nil
}

// AddQuantity suma amount (> 0) a la celda y registra "+amount".
func (uc *LedgerUseCase) AddQuantity(ctx context.Context, actor entity.Actor, cellID string, amount int64) (*entity.Cell, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidArgument)
	}
	return uc.mutate(ctx, actor, cellID, entity.AuditAdd, func(c *entity.Cell) (int64, string, error) {
		if c.Quantity > math.MaxInt64-amount {
			return 0, "", fmt.Errorf("%w: la cantidad excede el máximo permitido", domain.ErrInvalidArgument)
		}
		return c.Quantity + amount, entity.ChangeAdd(amount), nil
	})
}

// ReduceQuantity resta amount (> 0); ErrInsufficientStock si amount supera la cantidad actual.
func (uc *LedgerUseCase) ReduceQuantity(ctx context.Context, actor entity.Actor, cellID string, amount int64) (*entity.Cell, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidArgument)
	}
	return uc.mutate(ctx, actor, cellID, entity.AuditReduce, func(c *entity.Cell) (int64, string, error) {
		if amount > c.Quantity {
			return 0, "", fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, c.Quantity, amount)
		}
		return c.Quantity - amount, entity.ChangeReduce(amount), nil
	})
}

// ReplaceQuantity fija la cantidad en newAmount (>= 0) y registra "old → new (Replaced)".
func (uc *LedgerUseCase) ReplaceQuantity(ctx context.Context, actor entity.Actor, cellID string, newAmount int64) (*entity.Cell, error) {
	if err := access.RequireStockWrite(actor); err != nil {
		return nil, err
	}
	if newAmount < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidArgument)
	}
	return uc.mutate(ctx, actor, cellID, entity.AuditReplace, func(c *entity.Cell) (int64, string, error) {
		return newAmount, entity.ChangeReplace(c.Quantity, newAmount), nil
	})
}

// DeleteCell borra la celda y registra "Product Deleted".
func (uc *LedgerUseCase) DeleteCell(ctx context.Context, actor entity.Actor, cellID string) error {
	if err := access.RequireStockWrite(actor); err != nil {
		return err
	}
	var (
		now     time.Time
		deleted *entity.Cell
	)
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		cell, err := tx.Cells.GetForUpdate(ctx, cellID)
		if err != nil {
			return err
		}
		if cell == nil {
			return fmt.Errorf("%w: celda %s", domain.ErrNotFound, cellID)
		}
		now = time.Now().UTC()
		if err := tx.Cells.Delete(ctx, cellID); err != nil {
			return err
		}
		deleted = cell
		entry := entity.NewAuditEntry(cell, entity.AuditDelete, cell.Quantity, 0, entity.ChangeDeleted, actor, now)
		return tx.Audit.Append(ctx, entry)
	})
	if err != nil {
		return err
	}

	metrics.InventoryMutationsTotal.WithLabelValues(string(entity.AuditDelete)).Inc()
	uc.log.Info().Str("cell_id", cellID).Str("actor", actor.Email).Msg("celda eliminada")
	uc.publish(ctx, events.Event{Type: events.CellDeleted, EntityID: cellID, ActorID: actor.ID, At: now,
		Data: map[string]any{"name": deleted.Name, "warehouse": deleted.Warehouse}})
	return nil
}

// apply calcula la nueva cantidad y el texto de cambio a partir de la celda bloqueada.
type apply func(c *entity.Cell) (newQty int64, change string, err error)

// mutate bloquea la fila, aplica fn, persiste la cantidad y la entrada de bitácora.
// La marca de tiempo se toma con la fila ya bloqueada.
func (uc *LedgerUseCase) mutate(ctx context.Context, actor entity.Actor, cellID string, kind entity.AuditKind, fn apply) (*entity.Cell, error) {
	var (
		now    time.Time
		result *entity.Cell
	)
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		cell, err := tx.Cells.GetForUpdate(ctx, cellID)
		if err != nil {
			return err
		}
		if cell == nil {
			return fmt.Errorf("%w: celda %s", domain.ErrNotFound, cellID)
		}
		newQty, change, err := fn(cell)
		if err != nil {
			return err
		}
		before := cell.Quantity
		now = time.Now().UTC()
		if err := tx.Cells.UpdateQuantity(ctx, cell.ID, newQty, now); err != nil {
			return err
		}
		cell.Quantity = newQty
		cell.UpdatedAt = now
		result = cell
		return tx.Audit.Append(ctx, entity.NewAuditEntry(cell, kind, before, newQty, change, actor, now))
	})
	if err != nil {
		return nil, err
	}

	metrics.InventoryMutationsTotal.WithLabelValues(string(kind)).Inc()
	uc.log.Info().Str("cell_id", cellID).Str("kind", string(kind)).Int64("quantity", result.Quantity).
		Str("actor", actor.Email).Msg("stock actualizado")
	uc.publish(ctx, events.Event{Type: events.CellUpdated, EntityID: cellID, ActorID: actor.ID, At: now,
		Data: map[string]any{"kind": string(kind), "quantity": result.Quantity}})
	return result, nil
}

func (uc *LedgerUseCase) publish(ctx context.Context, e events.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.log.Warn().Err(err).Str("event", string(e.Type)).Msg("no se pudo publicar el evento")
	}
}
