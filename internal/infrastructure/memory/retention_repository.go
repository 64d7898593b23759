package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// RetentionRepo borrados por antigüedad para el barrido de retención.
type RetentionRepo struct{ base }

// NewRetentionRepo construye el adaptador sobre el Store.
func NewRetentionRepo(s *Store) *RetentionRepo { return &RetentionRepo{base{s: s}} }

// DeleteResolvedRequestsBefore borra solicitudes no pendientes creadas antes de cutoff.
func (r *RetentionRepo) DeleteResolvedRequestsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.with(func(st *state) error {
		for id, req := range st.requests {
			if req.Status != entity.RequestPending && req.CreatedAt.Before(cutoff) {
				delete(st.requests, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// DeleteNotificationsBefore borra avisos del tipo indicado creados antes de cutoff.
func (r *RetentionRepo) DeleteNotificationsBefore(_ context.Context, kind string, cutoff time.Time) (int64, error) {
	var n int64
	err := r.with(func(st *state) error {
		for id, no := range st.notifications {
			if no.Type == kind && no.CreatedAt.Before(cutoff) {
				delete(st.notifications, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
