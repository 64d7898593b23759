package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// NotificationRepository avisos del flujo de roles.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListForRecipient incluye las difusiones a administradores si includeBroadcast.
	ListForRecipient(ctx context.Context, recipientID string, includeBroadcast bool, limit int) ([]*entity.Notification, error)
	// MarkRead domain.ErrNotFound si no existe o no es visible para el destinatario.
	MarkRead(ctx context.Context, id, recipientID string, includeBroadcast bool) error
	DeleteByRecipient(ctx context.Context, recipientID string) error
}

// CredentialOutboxRepository cola de borrados de credenciales pendientes.
type CredentialOutboxRepository interface {
	Enqueue(ctx context.Context, d *entity.CredentialDeletion) error
	// ExistsForUser indica si el usuario ya fue eliminado (fila encolada, procesada o no).
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}
