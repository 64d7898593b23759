package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/events"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// DefaultNotificationLimit tope de notificaciones devueltas por consulta.
const DefaultNotificationLimit = 50

// UserUseCase aplica reglas de negocio para perfiles y notificaciones.
type UserUseCase struct {
	txRunner      ports.TxRunner
	repo          repository.UserRepository
	requests      repository.RoleRequestRepository
	notifications repository.NotificationRepository
	publisher     events.Publisher
	log           zerolog.Logger
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(
	txRunner ports.TxRunner,
	repo repository.UserRepository,
	requests repository.RoleRequestRepository,
	notifications repository.NotificationRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) *UserUseCase {
	return &UserUseCase{
		txRunner:      txRunner,
		repo:          repo,
		requests:      requests,
		notifications: notifications,
		publisher:     publisher,
		log:           log.With().Str("component", "users").Logger(),
	}
}

// Register crea el perfil del usuario autenticado con rol viewer. Si ya existe lo devuelve sin cambios.
// Un usuario eliminado por un administrador no puede volver a registrarse con el mismo uid.
func (uc *UserUseCase) Register(ctx context.Context, id ports.Identity, displayName string) (*dto.UserResponse, error) {
	if id.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	existing, err := uc.repo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.withLatestRequest(ctx, existing)
	}

	now := time.Now().UTC()
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = id.Email
	}
	user := &entity.User{
		ID:          id.UserID,
		Email:       id.Email,
		DisplayName: name,
		Role:        entity.DefaultRole,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		deleted, err := tx.Outbox.ExistsForUser(ctx, id.UserID)
		if err != nil {
			return err
		}
		if deleted {
			return fmt.Errorf("%w: la cuenta %s fue eliminada", domain.ErrPermissionDenied, id.UserID)
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		// registro concurrente del mismo uid: gana el primero
		existing, err = uc.repo.GetByID(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: perfil %s", domain.ErrConflict, id.UserID)
		}
		return uc.withLatestRequest(ctx, existing)
	}

	uc.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("perfil registrado")
	return entityToUserResponse(user), nil
}

// Me devuelve el perfil del actor con la proyección de su última solicitud de rol.
func (uc *UserUseCase) Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	if err := access.RequireIdentity(actor); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: perfil %s no registrado", domain.ErrNotFound, actor.ID)
	}
	return uc.withLatestRequest(ctx, user)
}

// RoleOf rol vigente del usuario; RoleNone si no tiene perfil.
func (uc *UserUseCase) RoleOf(ctx context.Context, userID string) (entity.Role, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return entity.RoleNone, err
	}
	if user == nil {
		return entity.RoleNone, nil
	}
	return user.Role, nil
}

// List perfiles paginados (solo admin).
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Users: make([]dto.UserResponse, 0, len(users)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, u := range users {
		out.Users = append(out.Users, *entityToUserResponse(u))
	}
	return out, nil
}

// Delete borra el perfil, sus solicitudes y notificaciones, y encola el borrado de la
// credencial en el proveedor de identidad dentro de la misma transacción.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, userID string) error {
	if err := access.RequireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return fmt.Errorf("%w: un administrador no puede eliminarse a sí mismo", domain.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
		}
		if err := tx.RoleRequests.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Notifications.DeleteByRecipient(ctx, userID); err != nil {
			return err
		}
		if err := tx.Users.Delete(ctx, userID); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, &entity.CredentialDeletion{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Email:     user.Email,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	uc.log.Info().Str("user_id", userID).Str("admin", actor.Email).Msg("usuario eliminado")
	if uc.publisher != nil {
		e := events.Event{Type: events.UserDeleted, EntityID: userID, ActorID: actor.ID, At: now}
		if err := uc.publisher.Publish(ctx, e); err != nil {
			uc.log.Warn().Err(err).Str("event", string(e.Type)).Msg("no se pudo publicar el evento")
		}
	}
	return nil
}

// ListNotifications avisos del actor; los admin ven además las difusiones.
func (uc *UserUseCase) ListNotifications(ctx context.Context, actor entity.Actor, limit int) ([]dto.NotificationResponse, error) {
	if err := access.RequireIdentity(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultNotificationLimit {
		limit = DefaultNotificationLimit
	}
	list, err := uc.notifications.ListForRecipient(ctx, actor.ID, actor.Role.IsAdmin(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NotificationFromEntity(n))
	}
	return out, nil
}

// MarkNotificationRead marca un aviso visible para el actor como leído.
func (uc *UserUseCase) MarkNotificationRead(ctx context.Context, actor entity.Actor, id string) error {
	if err := access.RequireIdentity(actor); err != nil {
		return err
	}
	if err := uc.notifications.MarkRead(ctx, id, actor.ID, actor.Role.IsAdmin()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: notificación %s", domain.ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (uc *UserUseCase) withLatestRequest(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	req, err := uc.requests.GetLatestByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.RoleRequest = req
	return entityToUserResponse(user), nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := dto.UserFromEntity(u)
	return &out
}
