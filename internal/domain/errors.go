package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores de almacenamiento envuelven sus errores con ErrStorageFailure
// para que los handlers puedan distinguirlos con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidArgument   = errors.New("argumento inválido")
	ErrDuplicateCell     = errors.New("ya existe una celda con el mismo nombre, número de parte, modelo y bodega")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPermissionDenied  = errors.New("permiso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrStorageFailure    = errors.New("fallo de almacenamiento")
	ErrUnauthorized      = errors.New("no autorizado")
)
