package dto

import (
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// SubmitRoleRequest body para POST /api/role-requests.
type SubmitRoleRequest struct {
	RequestedRole string `json:"requested_role" validate:"required,oneof=viewer manager admin"`
}

// DecisionRequest body para POST /api/role-requests/:userId/decision.
type DecisionRequest struct {
	Action    string `json:"action" validate:"required,oneof=approve reject"`
	RequestID string `json:"request_id" validate:"omitempty,max=64"`
}

// RoleRequestResponse salida de una solicitud de cambio de rol.
type RoleRequestResponse struct {
	RequestID                string     `json:"request_id"`
	UserID                   string     `json:"user_id"`
	Email                    string     `json:"email"`
	RequestedRole            string     `json:"requested_role"`
	CurrentRoleAtRequestTime string     `json:"current_role_at_request_time"`
	Status                   string     `json:"status"`
	RequestedAt              time.Time  `json:"requested_at"`
	ProcessedAt              *time.Time `json:"processed_at"`
	ProcessedBy              *string    `json:"processed_by"`
}

// PendingRoleRequestResponse fila de la bandeja de solicitudes pendientes.
type PendingRoleRequestResponse struct {
	UserID      string              `json:"user_id"`
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name"`
	CurrentRole string              `json:"current_role"`
	Request     RoleRequestResponse `json:"role_request"`
}

// RoleRequestFromEntity mapea la solicitud.
func RoleRequestFromEntity(r *entity.RoleChangeRequest) RoleRequestResponse {
	return RoleRequestResponse{
		RequestID:                r.ID,
		UserID:                   r.UserID,
		Email:                    r.Email,
		RequestedRole:            string(r.RequestedRole),
		CurrentRoleAtRequestTime: string(r.CurrentRole),
		Status:                   string(r.Status),
		RequestedAt:              r.CreatedAt,
		ProcessedAt:              r.ProcessedAt,
		ProcessedBy:              r.ProcessedBy,
	}
}

// PendingFromEntity mapea una fila de la bandeja.
func PendingFromEntity(p *entity.PendingRoleRequest) PendingRoleRequestResponse {
	return PendingRoleRequestResponse{
		UserID:      p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		CurrentRole: string(p.CurrentRole),
		Request:     RoleRequestFromEntity(p.Request),
	}
}
