package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo perfiles en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.with(func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return domain.ErrConflict
		}
		u := *user
		u.RoleRequest = nil
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) UpdateRole(_ context.Context, id string, role entity.Role, updatedAt time.Time, updatedBy *string) error {
	return r.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		u.Role = role
		u.RoleUpdatedAt = &updatedAt
		u.UpdatedAt = updatedAt
		if updatedBy != nil {
			u.UpdatedBy = updatedBy
		}
		st.users[id] = u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.with(func(st *state) error {
		for _, u := range st.users {
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	lo, hi := window(len(out), limit, offset)
	return out[lo:hi], err
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.with(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}
