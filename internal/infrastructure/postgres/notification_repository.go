package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var (
	_ repository.NotificationRepository     = (*NotificationRepo)(nil)
	_ repository.CredentialOutboxRepository = (*OutboxRepo)(nil)
)

// NotificationRepo avisos sobre PostgreSQL. recipient_id NULL = difusión a administradores.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, type, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.RecipientID, n.Type, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return storageErr("insert notification", err)
	}
	return nil
}

func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID string, includeBroadcast bool, limit int) ([]*entity.Notification, error) {
	var w where
	w.add(fmt.Sprintf("(recipient_id = %s OR (%s AND recipient_id IS NULL))", w.arg(recipientID), w.arg(includeBroadcast)))
	query := `SELECT id, recipient_id, type, message, read, created_at FROM notifications` +
		w.String() + ` ORDER BY created_at DESC, id` + w.page(limit, 0)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storageErr("list notifications", err)
	}
	defer rows.Close()
	out := make([]*entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, storageErr("scan notification", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list notifications", err)
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string, includeBroadcast bool) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND (recipient_id = $2 OR ($3 AND recipient_id IS NULL))`,
		id, recipientID, includeBroadcast,
	)
	if err != nil {
		return storageErr("mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) DeleteByRecipient(ctx context.Context, recipientID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE recipient_id = $1`, recipientID); err != nil {
		return storageErr("delete notifications", err)
	}
	return nil
}

// OutboxRepo encola borrados de credenciales dentro de la transacción del borrado del perfil.
// El worker los consume con el adaptador de sqlstore.
type OutboxRepo struct {
	q Querier
}

// NewOutboxRepository construye el adaptador.
func NewOutboxRepository(q Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

func (r *OutboxRepo) Enqueue(ctx context.Context, d *entity.CredentialDeletion) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO credential_deletions (id, user_id, email, attempts, created_at)
		VALUES ($1, $2, $3, 0, $4)`,
		d.ID, d.UserID, d.Email, d.CreatedAt,
	)
	if err != nil {
		return storageErr("enqueue credential deletion", err)
	}
	return nil
}

func (r *OutboxRepo) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM credential_deletions WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, storageErr("credential deletion exists", err)
	}
	return exists, nil
}
