package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// NewRepos construye todos los repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Cells:         NewCellRepository(q),
		Audit:         NewAuditRepository(q),
		Invoices:      NewInvoiceRepository(q),
		Users:         NewUserRepository(q),
		RoleRequests:  NewRoleRequestRepository(q),
		Notifications: NewNotificationRepository(q),
		Outbox:        NewOutboxRepository(q),
	}
}
