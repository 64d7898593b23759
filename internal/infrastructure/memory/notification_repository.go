package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo avisos en memoria.
type NotificationRepo struct{ base }

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	return r.with(func(st *state) error {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		st.notifications[n.ID] = *n
		return nil
	})
}

func visibleTo(n *entity.Notification, recipientID string, includeBroadcast bool) bool {
	if n.RecipientID == nil {
		return includeBroadcast
	}
	return *n.RecipientID == recipientID
}

func (r *NotificationRepo) ListForRecipient(_ context.Context, recipientID string, includeBroadcast bool, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	err := r.with(func(st *state) error {
		for _, n := range st.notifications {
			if visibleTo(&n, recipientID, includeBroadcast) {
				out = append(out, &n)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	lo, hi := window(len(out), limit, 0)
	return out[lo:hi], err
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, recipientID string, includeBroadcast bool) error {
	return r.with(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || !visibleTo(&n, recipientID, includeBroadcast) {
			return domain.ErrNotFound
		}
		n.Read = true
		st.notifications[id] = n
		return nil
	})
}

func (r *NotificationRepo) DeleteByRecipient(_ context.Context, recipientID string) error {
	return r.with(func(st *state) error {
		for id, n := range st.notifications {
			if n.RecipientID != nil && *n.RecipientID == recipientID {
				delete(st.notifications, id)
			}
		}
		return nil
	})
}
