package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.CellRepository = (*CellRepo)(nil)

// CellRepo implementación de CellRepository sobre PostgreSQL (usable con pool o tx).
type CellRepo struct {
	q Querier
}

// NewCellRepository construye el adaptador de celdas. Pasar pool o tx (Querier).
func NewCellRepository(q Querier) *CellRepo {
	return &CellRepo{q: q}
}

const cellColumns = `id, name, part_number, model_no, warehouse, quantity, category, image_url, created_at, updated_at`

// Create inserta la celda; la unicidad sin mayúsculas la garantiza identity_key.
func (r *CellRepo) Create(ctx context.Context, cell *entity.Cell) error {
	query := `
		INSERT INTO cells (id, name, part_number, model_no, warehouse, identity_key, group_key,
			quantity, category, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		cell.ID, cell.Name, cell.PartNumber, cell.ModelNo, cell.Warehouse, cell.IdentityKey(), cell.GroupKey(),
		cell.Quantity, cell.Category, cell.ImageURL, cell.CreatedAt, cell.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s / %s / %s / %s", domain.ErrDuplicateCell, cell.Name, cell.PartNumber, cell.ModelNo, cell.Warehouse)
		}
		return storageErr("insert cell", err)
	}
	return nil
}

// GetByID obtiene la celda o nil si no existe.
func (r *CellRepo) GetByID(ctx context.Context, id string) (*entity.Cell, error) {
	return r.get(ctx, `SELECT `+cellColumns+` FROM cells WHERE id = $1`, id)
}

// GetForUpdate obtiene la celda y bloquea la fila (SELECT FOR UPDATE).
func (r *CellRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cell, error) {
	return r.get(ctx, `SELECT `+cellColumns+` FROM cells WHERE id = $1 FOR UPDATE`, id)
}

func (r *CellRepo) get(ctx context.Context, query, id string) (*entity.Cell, error) {
	c, err := scanCell(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get cell", err)
	}
	return c, nil
}

// UpdateQuantity fija la cantidad; el CHECK de la tabla rechaza negativos.
func (r *CellRepo) UpdateQuantity(ctx context.Context, id string, quantity int64, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE cells SET quantity = $2, updated_at = $3 WHERE id = $1`, id, quantity, updatedAt)
	if err != nil {
		return storageErr("update cell quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: celda %s", domain.ErrNotFound, id)
	}
	return nil
}

// Delete borra la celda.
func (r *CellRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cells WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete cell", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: celda %s", domain.ErrNotFound, id)
	}
	return nil
}

// List celdas filtradas, ordenadas por nombre y bodega.
func (r *CellRepo) List(ctx context.Context, filter entity.CellFilter) ([]*entity.Cell, error) {
	var w where
	if filter.Warehouse != "" {
		w.add("lower(warehouse) = lower(" + w.arg(filter.Warehouse) + ")")
	}
	if filter.Category != "" {
		w.add("lower(category) = lower(" + w.arg(filter.Category) + ")")
	}
	if filter.Search != "" {
		p := w.arg(likePattern(filter.Search))
		w.add(fmt.Sprintf("(name ILIKE %s OR part_number ILIKE %s OR model_no ILIKE %s)", p, p, p))
	}
	query := `SELECT ` + cellColumns + ` FROM cells` + w.String() +
		` ORDER BY lower(name), lower(warehouse), id` + w.page(filter.Limit, filter.Offset)
	return r.query(ctx, query, w.args...)
}

// ListByGroup variantes del producto lógico ordenadas por bodega.
func (r *CellRepo) ListByGroup(ctx context.Context, groupKey string) ([]*entity.Cell, error) {
	query := `SELECT ` + cellColumns + ` FROM cells WHERE group_key = $1 ORDER BY lower(warehouse), id`
	return r.query(ctx, query, groupKey)
}

func (r *CellRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Cell, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list cells", err)
	}
	defer rows.Close()
	out := make([]*entity.Cell, 0)
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, storageErr("scan cell", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list cells", err)
	}
	return out, nil
}

func scanCell(row pgx.Row) (*entity.Cell, error) {
	var c entity.Cell
	err := row.Scan(&c.ID, &c.Name, &c.PartNumber, &c.ModelNo, &c.Warehouse, &c.Quantity,
		&c.Category, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
