// Package events publica los cambios de inventario, ventas y roles para
// suscriptores en tiempo real (SSE, otras instancias vía Redis).
package events

import (
	"context"
	"time"
)

// Type tipo de evento de cambio.
type Type string

const (
	CellCreated          Type = "cell.created"
	CellUpdated          Type = "cell.updated"
	CellDeleted          Type = "cell.deleted"
	InvoiceCreated       Type = "invoice.created"
	RoleRequestSubmitted Type = "role_request.submitted"
	RoleRequestDecided   Type = "role_request.decided"
	UserRoleChanged      Type = "user.role_changed"
	UserDeleted          Type = "user.deleted"
)

// Event cambio confirmado (se publica después del commit).
type Event struct {
	Type     Type           `json:"type"`
	EntityID string         `json:"entity_id"`
	ActorID  string         `json:"actor_id,omitempty"`
	At       time.Time      `json:"at"`
	Data     map[string]any `json:"data,omitempty"`
}

// Publisher publica eventos. Los errores no deshacen la operación ya confirmada.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Predicate filtra eventos de una suscripción.
type Predicate func(Event) bool

// OfTypes devuelve un predicado que acepta solo los tipos indicados (todos si está vacío).
func OfTypes(types ...Type) Predicate {
	if len(types) == 0 {
		return func(Event) bool { return true }
	}
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(e Event) bool {
		_, ok := set[e.Type]
		return ok
	}
}
