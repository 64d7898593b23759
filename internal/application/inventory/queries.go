package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// GetCell devuelve la celda o ErrNotFound.
func (uc *LedgerUseCase) GetCell(ctx context.Context, actor entity.Actor, cellID string) (*entity.Cell, error) {
	if err := access.RequireRead(actor); err != nil {
		return nil, err
	}
	cell, err := uc.cellRepo.GetByID(ctx, cellID)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, fmt.Errorf("%w: celda %s", domain.ErrNotFound, cellID)
	}
	return cell, nil
}

// ListCells lista celdas con filtros de búsqueda, bodega y categoría.
func (uc *LedgerUseCase) ListCells(ctx context.Context, actor entity.Actor, filter entity.CellFilter) ([]*entity.Cell, error) {
	if err := access.RequireRead(actor); err != nil {
		return nil, err
	}
	return uc.cellRepo.List(ctx, filter)
}

// ListVariants devuelve las celdas del mismo producto lógico (nombre + número de parte)
// ordenadas por bodega.
func (uc *LedgerUseCase) ListVariants(ctx context.Context, actor entity.Actor, cellID string) ([]*entity.Cell, error) {
	cell, err := uc.GetCell(ctx, actor, cellID)
	if err != nil {
		return nil, err
	}
	return uc.cellRepo.ListByGroup(ctx, cell.GroupKey())
}

// History lee la bitácora con filtros de búsqueda, bodega y fecha.
func (uc *LedgerUseCase) History(ctx context.Context, actor entity.Actor, filter entity.AuditFilter) ([]*entity.AuditEntry, error) {
	if err := access.RequireRead(actor); err != nil {
		return nil, err
	}
	return uc.auditRepo.List(ctx, filter)
}

// WarehouseTotal totales de una bodega.
type WarehouseTotal struct {
	Warehouse string
	Cells     int
	Units     int64
}

// Summary resumen del inventario para el tablero.
type Summary struct {
	TotalCells        int
	TotalUnits        int64
	Warehouses        []WarehouseTotal
	LowStockThreshold int64
	LowStock          []*entity.Cell
}

// Summary calcula totales por bodega y las celdas con cantidad <= threshold.
func (uc *LedgerUseCase) Summary(ctx context.Context, actor entity.Actor, threshold int64) (*Summary, error) {
	if err := access.RequireRead(actor); err != nil {
		return nil, err
	}
	cells, err := uc.cellRepo.List(ctx, entity.CellFilter{})
	if err != nil {
		return nil, err
	}

	s := &Summary{LowStockThreshold: threshold, LowStock: []*entity.Cell{}}
	byWarehouse := make(map[string]*WarehouseTotal)
	for _, c := range cells {
		s.TotalCells++
		s.TotalUnits += c.Quantity
		wt, ok := byWarehouse[c.Warehouse]
		if !ok {
			wt = &WarehouseTotal{Warehouse: c.Warehouse}
			byWarehouse[c.Warehouse] = wt
		}
		wt.Cells++
		wt.Units += c.Quantity
		if c.Quantity <= threshold {
			s.LowStock = append(s.LowStock, c)
		}
	}
	for _, wt := range byWarehouse {
		s.Warehouses = append(s.Warehouses, *wt)
	}
	sort.Slice(s.Warehouses, func(i, j int) bool { return s.Warehouses[i].Warehouse < s.Warehouses[j].Warehouse })
	sort.SliceStable(s.LowStock, func(i, j int) bool { return s.LowStock[i].Quantity < s.LowStock[j].Quantity })
	return s, nil
}
