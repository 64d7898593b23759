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

var _ repository.RoleRequestRepository = (*RoleRequestRepo)(nil)

// RoleRequestRepo solicitudes de rol en memoria.
type RoleRequestRepo struct{ base }

func (r *RoleRequestRepo) Create(_ context.Context, req *entity.RoleChangeRequest) error {
	return r.with(func(st *state) error {
		if req.Status == entity.RequestPending {
			for _, other := range st.requests {
				if other.UserID == req.UserID && other.Status == entity.RequestPending {
					return domain.ErrConflict
				}
			}
		}
		if req.ID == "" {
			req.ID = uuid.New().String()
		}
		st.requests[req.ID] = *req
		return nil
	})
}

func (r *RoleRequestRepo) GetPendingForUpdate(_ context.Context, userID string) (*entity.RoleChangeRequest, error) {
	var out *entity.RoleChangeRequest
	err := r.with(func(st *state) error {
		for _, req := range st.requests {
			if req.UserID == userID && req.Status == entity.RequestPending {
				out = &req
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *RoleRequestRepo) GetLatestByUser(_ context.Context, userID string) (*entity.RoleChangeRequest, error) {
	var out *entity.RoleChangeRequest
	err := r.with(func(st *state) error {
		for _, req := range st.requests {
			if req.UserID != userID {
				continue
			}
			if out == nil || newer(&req, out) {
				out = &req
			}
		}
		return nil
	})
	return out, err
}

func (r *RoleRequestRepo) Resolve(_ context.Context, id string, status entity.RequestStatus, processedAt time.Time, processedBy string) error {
	return r.with(func(st *state) error {
		req, ok := st.requests[id]
		if !ok {
			return domain.ErrNotFound
		}
		req.Status = status
		req.ProcessedAt = &processedAt
		req.ProcessedBy = &processedBy
		st.requests[id] = req
		return nil
	})
}

func (r *RoleRequestRepo) ListPending(_ context.Context) ([]*entity.RoleChangeRequest, error) {
	var out []*entity.RoleChangeRequest
	err := r.with(func(st *state) error {
		for _, req := range st.requests {
			if req.Status == entity.RequestPending {
				out = append(out, &req)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out, err
}

func (r *RoleRequestRepo) DeleteByUser(_ context.Context, userID string) error {
	return r.with(func(st *state) error {
		for id, req := range st.requests {
			if req.UserID == userID {
				delete(st.requests, id)
			}
		}
		return nil
	})
}

func newer(a, b *entity.RoleChangeRequest) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
