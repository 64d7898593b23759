package entity

import "time"

// RequestStatus estado de una solicitud de cambio de rol.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestApproved   RequestStatus = "approved"
	RequestRejected   RequestStatus = "rejected"
	RequestSuperseded RequestStatus = "superseded"
)

// IsTerminal indica si la solicitud ya fue resuelta.
func (s RequestStatus) IsTerminal() bool { return s != RequestPending }

// RoleChangeRequest solicitud de cambio de rol (almacenamiento canónico).
// Como máximo una solicitud pending por usuario.
type RoleChangeRequest struct {
	ID               string
	UserID           string
	Email            string
	CurrentRole      Role // rol del usuario al momento de solicitar
	RequestedRole    Role
	Status           RequestStatus
	RequestedBy      string
	RequestedByEmail string
	CreatedAt        time.Time
	ProcessedAt      *time.Time
	ProcessedBy      *string
}

// PendingRoleRequest vista de un usuario con solicitud pendiente, para la bandeja del admin.
type PendingRoleRequest struct {
	UserID      string
	Email       string
	DisplayName string
	CurrentRole Role
	Request     *RoleChangeRequest
}

// DecisionAction acción del admin sobre una solicitud.
type DecisionAction string

const (
	DecisionApprove DecisionAction = "approve"
	DecisionReject  DecisionAction = "reject"
)
