package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CellRepository define el puerto de persistencia de celdas.
// Get* devuelven (nil, nil) si la celda no existe.
type CellRepository interface {
	// Create inserta la celda; domain.ErrDuplicateCell si la identidad ya existe.
	Create(ctx context.Context, cell *entity.Cell) error
	GetByID(ctx context.Context, id string) (*entity.Cell, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Cell, error)
	UpdateQuantity(ctx context.Context, id string, quantity int64, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.CellFilter) ([]*entity.Cell, error)
	// ListByGroup devuelve las variantes del mismo producto lógico ordenadas por bodega.
	ListByGroup(ctx context.Context, groupKey string) ([]*entity.Cell, error)
}
