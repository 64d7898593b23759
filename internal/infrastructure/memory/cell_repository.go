package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.CellRepository = (*CellRepo)(nil)

// CellRepo celdas en memoria.
type CellRepo struct{ base }

func (r *CellRepo) Create(_ context.Context, cell *entity.Cell) error {
	return r.with(func(st *state) error {
		key := cell.IdentityKey()
		if _, ok := st.identity[key]; ok {
			return domain.ErrDuplicateCell
		}
		if cell.ID == "" {
			cell.ID = uuid.New().String()
		}
		st.cells[cell.ID] = *cell
		st.identity[key] = cell.ID
		return nil
	})
}

func (r *CellRepo) GetByID(_ context.Context, id string) (*entity.Cell, error) {
	var out *entity.Cell
	err := r.with(func(st *state) error {
		if c, ok := st.cells[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de Run el estado ya está aislado por el lock del Store.
func (r *CellRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cell, error) {
	return r.GetByID(ctx, id)
}

func (r *CellRepo) UpdateQuantity(_ context.Context, id string, quantity int64, updatedAt time.Time) error {
	return r.with(func(st *state) error {
		c, ok := st.cells[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.Quantity = quantity
		c.UpdatedAt = updatedAt
		st.cells[id] = c
		return nil
	})
}

func (r *CellRepo) Delete(_ context.Context, id string) error {
	return r.with(func(st *state) error {
		c, ok := st.cells[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(st.identity, c.IdentityKey())
		delete(st.cells, id)
		return nil
	})
}

func (r *CellRepo) List(_ context.Context, filter entity.CellFilter) ([]*entity.Cell, error) {
	var out []*entity.Cell
	err := r.with(func(st *state) error {
		for _, c := range st.cells {
			if filter.Matches(&c) {
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Warehouse != out[j].Warehouse {
			return out[i].Warehouse < out[j].Warehouse
		}
		return out[i].ID < out[j].ID
	})
	lo, hi := window(len(out), filter.Limit, filter.Offset)
	return out[lo:hi], err
}

func (r *CellRepo) ListByGroup(_ context.Context, groupKey string) ([]*entity.Cell, error) {
	var out []*entity.Cell
	err := r.with(func(st *state) error {
		for _, c := range st.cells {
			if c.GroupKey() == groupKey {
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Warehouse != out[j].Warehouse {
			return out[i].Warehouse < out[j].Warehouse
		}
		return out[i].ModelNo < out[j].ModelNo
	})
	return out, err
}

// window calcula los índices de una página; limit <= 0 = sin límite.
func window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	hi := n
	if limit > 0 && offset+limit < n {
		hi = offset + limit
	}
	return offset, hi
}
