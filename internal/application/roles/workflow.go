// Package roles implementa el flujo de solicitudes de cambio de rol:
// NONE → PENDING → {APPROVED, REJECTED}; una nueva solicitud desde cualquier
// estado terminal vuelve a PENDING y una pendiente reemplazada queda SUPERSEDED.
package roles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/application/events"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/pkg/metrics"
)

// WorkflowUseCase casos de uso del flujo de roles.
type WorkflowUseCase struct {
	txRunner  ports.TxRunner
	users     repository.UserRepository
	requests  repository.RoleRequestRepository
	publisher events.Publisher
	log       zerolog.Logger
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(
	txRunner ports.TxRunner,
	users repository.UserRepository,
	requests repository.RoleRequestRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner:  txRunner,
		users:     users,
		requests:  requests,
		publisher: publisher,
		log:       log.With().Str("component", "roles").Logger(),
	}
}

// Submit crea una solicitud pendiente para el propio actor. Una pendiente anterior
// queda SUPERSEDED, de modo que el usuario nunca tiene más de una.
func (uc *WorkflowUseCase) Submit(ctx context.Context, actor entity.Actor, requested entity.Role) (*entity.RoleChangeRequest, error) {
	if err := access.RequireIdentity(actor); err != nil {
		return nil, err
	}
	if _, ok := entity.ParseRole(string(requested)); !ok || requested == entity.RoleNone {
		return nil, fmt.Errorf("%w: rol solicitado %q inválido", domain.ErrInvalidArgument, requested)
	}

	now := time.Now().UTC()
	var created *entity.RoleChangeRequest
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		user, err := tx.Users.GetForUpdate(ctx, actor.ID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: perfil %s no registrado", domain.ErrNotFound, actor.ID)
		}
		if user.Role == requested {
			return fmt.Errorf("%w: el usuario ya tiene el rol %s", domain.ErrInvalidArgument, requested)
		}

		prev, err := tx.RoleRequests.GetPendingForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			if err := tx.RoleRequests.Resolve(ctx, prev.ID, entity.RequestSuperseded, now, user.Email); err != nil {
				return err
			}
		}

		req := &entity.RoleChangeRequest{
			ID:               uuid.New().String(),
			UserID:           user.ID,
			Email:            user.Email,
			CurrentRole:      user.Role,
			RequestedRole:    requested,
			Status:           entity.RequestPending,
			RequestedBy:      actor.ID,
			RequestedByEmail: actor.Email,
			CreatedAt:        now,
		}
		if err := tx.RoleRequests.Create(ctx, req); err != nil {
			return err
		}
		created = req
		return tx.Notifications.Create(ctx, &entity.Notification{
			Type:      entity.NotificationRoleChange,
			Message:   fmt.Sprintf("%s solicita cambiar su rol de %s a %s", user.Email, user.Role, requested),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RoleRequestsTotal.WithLabelValues("submitted").Inc()
	uc.log.Info().Str("user_id", created.UserID).Str("requested_role", string(requested)).Msg("solicitud de rol creada")
	uc.publish(ctx, events.Event{Type: events.RoleRequestSubmitted, EntityID: created.UserID, ActorID: actor.ID, At: now,
		Data: map[string]any{"request_id": created.ID, "requested_role": string(requested)}})
	return created, nil
}

// ListPending usuarios con solicitud pendiente, más recientes primero.
func (uc *WorkflowUseCase) ListPending(ctx context.Context, actor entity.Actor) ([]*entity.PendingRoleRequest, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	reqs, err := uc.requests.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PendingRoleRequest, 0, len(reqs))
	for _, r := range reqs {
		item := &entity.PendingRoleRequest{UserID: r.UserID, Email: r.Email, CurrentRole: r.CurrentRole, Request: r}
		user, err := uc.users.GetByID(ctx, r.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			item.DisplayName = user.DisplayName
			item.CurrentRole = user.Role
		}
		out = append(out, item)
	}
	return out, nil
}

// Decide aprueba o rechaza la solicitud pendiente del usuario.
// requestID vacío decide la pendiente actual; si no coincide con ella retorna ErrConflict.
func (uc *WorkflowUseCase) Decide(ctx context.Context, actor entity.Actor, userID, requestID string, action entity.DecisionAction) (*entity.RoleChangeRequest, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	var status entity.RequestStatus
	switch action {
	case entity.DecisionApprove:
		status = entity.RequestApproved
	case entity.DecisionReject:
		status = entity.RequestRejected
	default:
		return nil, fmt.Errorf("%w: acción %q inválida", domain.ErrInvalidArgument, action)
	}

	now := time.Now().UTC()
	var decided *entity.RoleChangeRequest
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
		}
		req, err := tx.RoleRequests.GetPendingForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("%w: el usuario %s no tiene solicitud pendiente", domain.ErrNotFound, userID)
		}
		if requestID != "" && requestID != req.ID {
			return fmt.Errorf("%w: la solicitud %s ya no es la pendiente", domain.ErrConflict, requestID)
		}

		if status == entity.RequestApproved {
			if err := tx.Users.UpdateRole(ctx, userID, req.RequestedRole, now, &actor.Email); err != nil {
				return err
			}
		}
		if err := tx.RoleRequests.Resolve(ctx, req.ID, status, now, actor.Email); err != nil {
			return err
		}
		req.Status = status
		req.ProcessedAt = &now
		req.ProcessedBy = &actor.Email
		decided = req

		recipient := userID
		return tx.Notifications.Create(ctx, &entity.Notification{
			RecipientID: &recipient,
			Type:        entity.NotificationRoleChange,
			Message:     fmt.Sprintf("Tu solicitud de rol %s fue %s", req.RequestedRole, decisionText(status)),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RoleRequestsTotal.WithLabelValues(string(status)).Inc()
	uc.log.Info().Str("user_id", userID).Str("status", string(status)).Str("admin", actor.Email).Msg("solicitud de rol resuelta")
	uc.publish(ctx, events.Event{Type: events.RoleRequestDecided, EntityID: userID, ActorID: actor.ID, At: now,
		Data: map[string]any{"request_id": decided.ID, "status": string(status)}})
	if status == entity.RequestApproved {
		uc.publish(ctx, events.Event{Type: events.UserRoleChanged, EntityID: userID, ActorID: actor.ID, At: now,
			Data: map[string]any{"role": string(decided.RequestedRole)}})
	}
	return decided, nil
}

// DirectChange el admin fija el rol sin solicitud. Una solicitud pendiente
// concurrente queda SUPERSEDED.
func (uc *WorkflowUseCase) DirectChange(ctx context.Context, actor entity.Actor, userID string, newRole entity.Role) (*entity.User, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, ok := entity.ParseRole(string(newRole)); !ok {
		return nil, fmt.Errorf("%w: rol %q inválido", domain.ErrInvalidArgument, newRole)
	}

	now := time.Now().UTC()
	var updated *entity.User
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
		}
		if err := tx.Users.UpdateRole(ctx, userID, newRole, now, &actor.Email); err != nil {
			return err
		}
		pending, err := tx.RoleRequests.GetPendingForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if pending != nil {
			if err := tx.RoleRequests.Resolve(ctx, pending.ID, entity.RequestSuperseded, now, actor.Email); err != nil {
				return err
			}
		}
		user.Role = newRole
		user.RoleUpdatedAt = &now
		user.UpdatedBy = &actor.Email
		user.UpdatedAt = now
		updated = user

		recipient := userID
		return tx.Notifications.Create(ctx, &entity.Notification{
			RecipientID: &recipient,
			Type:        entity.NotificationRoleChange,
			Message:     fmt.Sprintf("Un administrador cambió tu rol a %s", newRole),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RoleRequestsTotal.WithLabelValues("direct_change").Inc()
	uc.log.Info().Str("user_id", userID).Str("role", string(newRole)).Str("admin", actor.Email).Msg("rol cambiado directamente")
	uc.publish(ctx, events.Event{Type: events.UserRoleChanged, EntityID: userID, ActorID: actor.ID, At: now,
		Data: map[string]any{"role": string(newRole)}})
	return updated, nil
}

func decisionText(s entity.RequestStatus) string {
	if s == entity.RequestApproved {
		return "aprobada"
	}
	return "rechazada"
}

func (uc *WorkflowUseCase) publish(ctx context.Context, e events.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.log.Warn().Err(err).Str("event", string(e.Type)).Msg("no se pudo publicar el evento")
	}
}
