package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create inserta el perfil; domain.ErrConflict si el id ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetForUpdate(ctx context.Context, id string) (*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role, updatedAt time.Time, updatedBy *string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
