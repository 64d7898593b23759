// Package memory implementa los puertos de persistencia en memoria.
// Se usa en desarrollo (STORAGE_DRIVER=memory) y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	cells         map[string]entity.Cell
	identity      map[string]string // identity key -> cell id
	audit         []entity.AuditEntry
	auditSeq      int64
	invoices      map[string]entity.Invoice
	invoiceOrder  []string
	counter       int64
	users         map[string]entity.User
	requests      map[string]entity.RoleChangeRequest
	notifications map[string]entity.Notification
	outbox        map[string]entity.CredentialDeletion
}

func newState() *state {
	return &state{
		cells:         make(map[string]entity.Cell),
		identity:      make(map[string]string),
		invoices:      make(map[string]entity.Invoice),
		counter:       entity.FirstInvoiceNumber - 1,
		users:         make(map[string]entity.User),
		requests:      make(map[string]entity.RoleChangeRequest),
		notifications: make(map[string]entity.Notification),
		outbox:        make(map[string]entity.CredentialDeletion),
	}
}

func (s *state) clone() *state {
	c := &state{
		cells:         make(map[string]entity.Cell, len(s.cells)),
		identity:      make(map[string]string, len(s.identity)),
		audit:         append([]entity.AuditEntry(nil), s.audit...),
		auditSeq:      s.auditSeq,
		invoices:      make(map[string]entity.Invoice, len(s.invoices)),
		invoiceOrder:  append([]string(nil), s.invoiceOrder...),
		counter:       s.counter,
		users:         make(map[string]entity.User, len(s.users)),
		requests:      make(map[string]entity.RoleChangeRequest, len(s.requests)),
		notifications: make(map[string]entity.Notification, len(s.notifications)),
		outbox:        make(map[string]entity.CredentialDeletion, len(s.outbox)),
	}
	for k, v := range s.cells {
		c.cells[k] = v
	}
	for k, v := range s.identity {
		c.identity[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.outbox {
		c.outbox[k] = v
	}
	return c
}

// Store estado compartido. Las transacciones se serializan con mu y se aplican
// sobre una copia que solo reemplaza al estado si fn termina sin error.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado y la confirma si no hay error.
func (s *Store) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(s.reposFor(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada operación toma el lock).
func (s *Store) Repos() repository.TxRepos {
	return s.reposFor(nil)
}

func (s *Store) reposFor(tx *state) repository.TxRepos {
	b := base{s: s, tx: tx}
	return repository.TxRepos{
		Cells:         &CellRepo{b},
		Audit:         &AuditRepo{b},
		Invoices:      &InvoiceRepo{b},
		Users:         &UserRepo{b},
		RoleRequests:  &RoleRequestRepo{b},
		Notifications: &NotificationRepo{b},
		Outbox:        &OutboxRepo{b},
	}
}

// base resuelve sobre qué estado opera un repositorio.
type base struct {
	s  *Store
	tx *state
}

func (b base) with(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.st)
}
