package entity

import "time"

// Role nivel de acceso de un usuario.
type Role string

// Roles válidos para User.
const (
	RoleNone    Role = "none"
	RoleViewer  Role = "viewer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// DefaultRole rol asignado al registrar un perfil nuevo.
const DefaultRole = RoleViewer

// ParseRole valida un string de rol.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleNone, RoleViewer, RoleManager, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// CanRead puede consultar inventario, historial y facturas.
func (r Role) CanRead() bool {
	return r == RoleViewer || r == RoleManager || r == RoleAdmin
}

// CanWriteStock puede mutar celdas y registrar ventas.
func (r Role) CanWriteStock() bool {
	return r == RoleManager || r == RoleAdmin
}

// IsAdmin puede decidir solicitudes de rol y administrar usuarios.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User perfil de un usuario autenticado por el proveedor de identidad externo.
// ID es el uid del proveedor.
type User struct {
	ID            string
	Email         string
	DisplayName   string
	Role          Role
	RoleUpdatedAt *time.Time
	UpdatedBy     *string // email del último admin que cambió el rol
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// RoleRequest proyección de la última solicitud de cambio de rol (puede ser nil).
	RoleRequest *RoleChangeRequest
}

// Actor identidad que ejecuta una operación (derivada del token y del perfil).
type Actor struct {
	ID    string
	Email string
	Role  Role
}
