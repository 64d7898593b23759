package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Bodega-api/pkg/config"
)

// setupPostgres conecta a TEST_DB_DSN sobre un esquema propio que se borra al terminar.
// Sin TEST_DB_DSN la prueba se omite.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN no definido, se omite la prueba contra PostgreSQL")
	}
	ctx := context.Background()
	schemaName := "bodega_test_" + uuid.New().String()[:8]

	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schemaName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schemaName+" CASCADE")
		_ = admin.Close(context.Background())
	})

	sep := "?"
	switch {
	case !strings.Contains(dsn, "://"):
		sep = " "
	case strings.Contains(dsn, "?"):
		sep = "&"
	}
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn + sep + "search_path=" + schemaName})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

// ──────────────────────────────────────────────────────────────────────────────
// Esquema
// ──────────────────────────────────────────────────────────────────────────────

func TestMigrate_Idempotente(t *testing.T) {
	pool := setupPostgres(t)
	require.NoError(t, postgres.Migrate(context.Background(), pool))
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes de rol
// ──────────────────────────────────────────────────────────────────────────────

func TestRoleRequestRepo_GuardaRolAlSolicitarYUnaPendiente(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := postgres.NewRoleRequestRepository(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	req := &entity.RoleChangeRequest{
		ID: "r-1", UserID: "u-1", Email: "ana@bodega.test",
		CurrentRole: entity.RoleViewer, RequestedRole: entity.RoleManager, Status: entity.RequestPending,
		RequestedBy: "u-1", RequestedByEmail: "ana@bodega.test", CreatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, req))

	got, err := repo.GetLatestByUser(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RoleViewer, got.CurrentRole, "se lee la columna, no el rol de la sesión")
	assert.Equal(t, entity.RoleManager, got.RequestedRole)
	assert.Equal(t, entity.RequestPending, got.Status)

	dup := *req
	dup.ID = "r-2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrConflict)

	require.NoError(t, repo.Resolve(ctx, "r-1", entity.RequestApproved, now, "root@bodega.test"))
	assert.ErrorIs(t, repo.Resolve(ctx, "r-1", entity.RequestRejected, now, "root@bodega.test"), domain.ErrNotFound)
	require.NoError(t, repo.Create(ctx, &dup), "resuelta la anterior se admite otra pendiente")

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r-2", pending[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración de facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceRepo_NextNumberSinHuecosTrasRollback(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)

	next := func(fail bool) int64 {
		var n int64
		err := runner.Run(ctx, func(tx repository.TxRepos) error {
			var err error
			n, err = tx.Invoices.NextNumber(ctx)
			if err != nil {
				return err
			}
			if fail {
				return fmt.Errorf("%w: venta abortada", domain.ErrInsufficientStock)
			}
			return nil
		})
		if fail {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		} else {
			require.NoError(t, err)
		}
		return n
	}

	assert.Equal(t, int64(1000), next(false))
	next(true)
	assert.Equal(t, int64(1001), next(false))
}

// ──────────────────────────────────────────────────────────────────────────────
// Celdas y bitácora
// ──────────────────────────────────────────────────────────────────────────────

func TestCellRepo_DuplicadoYBloqueo(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repos := postgres.NewRepos(pool)
	now := time.Now().UTC()

	cell := &entity.Cell{ID: "c-1", Name: "Widget", PartNumber: "PN1", ModelNo: "M1", Warehouse: "WH1",
		Quantity: 10, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Cells.Create(ctx, cell))
	other := &entity.Cell{ID: "c-2", Name: "widget", PartNumber: "pn1", ModelNo: "m1", Warehouse: "wh1",
		Quantity: 5, CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, repos.Cells.Create(ctx, other), domain.ErrDuplicateCell)

	err := postgres.NewTxRunner(pool).Run(ctx, func(tx repository.TxRepos) error {
		locked, err := tx.Cells.GetForUpdate(ctx, "c-1")
		if err != nil {
			return err
		}
		require.NotNil(t, locked)
		if err := tx.Cells.UpdateQuantity(ctx, locked.ID, 0, now); err != nil {
			return err
		}
		entry := entity.NewAuditEntry(locked, entity.AuditReduce, 10, 0, entity.ChangeReduce(10),
			entity.Actor{ID: "u-1", Email: "ana@bodega.test"}, now.Add(-time.Hour))
		return tx.Audit.Append(ctx, entry)
	})
	require.NoError(t, err)

	got, err := repos.Cells.GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	assert.ErrorIs(t, repos.Cells.UpdateQuantity(ctx, "c-1", -1, now), domain.ErrStorageFailure, "CHECK quantity >= 0")

	entries, err := repos.Audit.List(ctx, entity.AuditFilter{CellID: "c-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "-10", entries[0].Change)
}
