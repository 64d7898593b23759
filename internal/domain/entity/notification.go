package entity

import "time"

// NotificationRoleChange tipo de notificación del flujo de roles.
const NotificationRoleChange = "role_change"

// Notification aviso para un usuario. RecipientID nil = difusión a administradores.
type Notification struct {
	ID          string
	RecipientID *string
	Type        string
	Message     string
	Read        bool
	CreatedAt   time.Time
}

// CredentialDeletion fila del outbox para borrar la credencial en el proveedor de identidad.
type CredentialDeletion struct {
	ID          string
	UserID      string
	Email       string
	Attempts    int
	LastError   *string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}
