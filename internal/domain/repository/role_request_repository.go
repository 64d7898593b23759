package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// RoleRequestRepository persistencia canónica de solicitudes de cambio de rol.
type RoleRequestRepository interface {
	Create(ctx context.Context, req *entity.RoleChangeRequest) error
	// GetPendingForUpdate devuelve la solicitud pending del usuario bloqueada, o nil.
	GetPendingForUpdate(ctx context.Context, userID string) (*entity.RoleChangeRequest, error)
	// GetLatestByUser devuelve la solicitud más reciente del usuario, o nil.
	GetLatestByUser(ctx context.Context, userID string) (*entity.RoleChangeRequest, error)
	Resolve(ctx context.Context, id string, status entity.RequestStatus, processedAt time.Time, processedBy string) error
	// ListPending devuelve las solicitudes pending, más recientes primero.
	ListPending(ctx context.Context) ([]*entity.RoleChangeRequest, error)
	DeleteByUser(ctx context.Context, userID string) error
}
