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

var _ repository.CredentialOutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo cola de borrado de credenciales en memoria.
type OutboxRepo struct{ base }

// NewOutboxRepo construye el adaptador fuera de transacción (lo usa el worker).
func NewOutboxRepo(s *Store) *OutboxRepo { return &OutboxRepo{base{s: s}} }

func (r *OutboxRepo) Enqueue(_ context.Context, d *entity.CredentialDeletion) error {
	return r.with(func(st *state) error {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		st.outbox[d.ID] = *d
		return nil
	})
}

func (r *OutboxRepo) ExistsForUser(_ context.Context, userID string) (bool, error) {
	var found bool
	err := r.with(func(st *state) error {
		for _, d := range st.outbox {
			if d.UserID == userID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

// ListPending filas sin procesar con menos de maxAttempts intentos, más antiguas primero.
func (r *OutboxRepo) ListPending(_ context.Context, limit, maxAttempts int) ([]*entity.CredentialDeletion, error) {
	var out []*entity.CredentialDeletion
	err := r.with(func(st *state) error {
		for _, d := range st.outbox {
			if d.ProcessedAt == nil && (maxAttempts <= 0 || d.Attempts < maxAttempts) {
				out = append(out, &d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	lo, hi := window(len(out), limit, 0)
	return out[lo:hi], err
}

func (r *OutboxRepo) MarkProcessed(_ context.Context, id string, at time.Time) error {
	return r.with(func(st *state) error {
		d, ok := st.outbox[id]
		if !ok {
			return domain.ErrNotFound
		}
		d.ProcessedAt = &at
		d.Attempts++
		st.outbox[id] = d
		return nil
	})
}

func (r *OutboxRepo) MarkFailed(_ context.Context, id, reason string) error {
	return r.with(func(st *state) error {
		d, ok := st.outbox[id]
		if !ok {
			return domain.ErrNotFound
		}
		d.Attempts++
		d.LastError = &reason
		st.outbox[id] = d
		return nil
	})
}
