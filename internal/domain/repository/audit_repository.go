package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// AuditRepository bitácora append-only de mutaciones de inventario.
type AuditRepository interface {
	// Append asigna ID y Seq a la entrada.
	Append(ctx context.Context, entry *entity.AuditEntry) error
	// List devuelve las entradas en orden (CreatedAt, Seq), o inverso con filter.Newest.
	List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditEntry, error)
}
