package dto

import (
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// RegisterProfileRequest body para POST /api/users/me (el uid y email salen del token).
type RegisterProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
}

// UserResponse salida de un perfil de usuario.
type UserResponse struct {
	ID            string               `json:"id"`
	Email         string               `json:"email"`
	DisplayName   string               `json:"display_name"`
	Role          string               `json:"role"`
	RoleUpdatedAt *time.Time           `json:"role_updated_at,omitempty"`
	UpdatedBy     *string              `json:"updated_by,omitempty"`
	RoleRequest   *RoleRequestResponse `json:"role_request,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}

// ChangeRoleRequest body para PUT /api/admin/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=none viewer manager admin"`
}

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Broadcast bool      `json:"broadcast"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromEntity mapea el perfil de dominio a la salida HTTP.
func UserFromEntity(u *entity.User) UserResponse {
	out := UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          string(u.Role),
		RoleUpdatedAt: u.RoleUpdatedAt,
		UpdatedBy:     u.UpdatedBy,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.RoleRequest != nil {
		rr := RoleRequestFromEntity(u.RoleRequest)
		out.RoleRequest = &rr
	}
	return out
}

// NotificationFromEntity mapea una notificación.
func NotificationFromEntity(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Read:      n.Read,
		Broadcast: n.RecipientID == nil,
		CreatedAt: n.CreatedAt,
	}
}
