// Package access verifica los permisos derivados del rol del actor.
package access

import (
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// RequireRead viewer, manager o admin.
func RequireRead(a entity.Actor) error {
	if !a.Role.CanRead() {
		return fmt.Errorf("%w: el rol %q no puede consultar inventario", domain.ErrPermissionDenied, a.Role)
	}
	return nil
}

// RequireStockWrite manager o admin.
func RequireStockWrite(a entity.Actor) error {
	if !a.Role.CanWriteStock() {
		return fmt.Errorf("%w: se requiere rol manager o admin", domain.ErrPermissionDenied)
	}
	return nil
}

// RequireAdmin solo admin.
func RequireAdmin(a entity.Actor) error {
	if !a.Role.IsAdmin() {
		return fmt.Errorf("%w: se requiere rol admin", domain.ErrPermissionDenied)
	}
	return nil
}

// RequireIdentity el actor debe tener un id de usuario.
func RequireIdentity(a entity.Actor) error {
	if a.ID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}
