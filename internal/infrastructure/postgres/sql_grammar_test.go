package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var errRecorded = errors.New("sentencia registrada")

// recorder Querier que guarda cada sentencia sin ejecutarla.
type recorder struct {
	statements map[string]string // operación -> SQL
	current    string
}

func newRecorder() *recorder { return &recorder{statements: make(map[string]string)} }

func (r *recorder) as(op string) *recorder {
	r.current = op
	return r
}

func (r *recorder) record(sql string) {
	key := r.current
	for i := 2; ; i++ {
		if _, dup := r.statements[key]; !dup {
			break
		}
		key = r.current + "#" + strconv.Itoa(i)
	}
	r.statements[key] = sql
}

func (r *recorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.record(sql)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (r *recorder) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	r.record(sql)
	return nil, errRecorded
}

func (r *recorder) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	r.record(sql)
	return noRow{}
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

// allStatements invoca cada método de los repositorios sobre el recorder.
func allStatements(t *testing.T) map[string]string {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	day := now
	rec := newRecorder()
	repos := NewRepos(rec)

	cell := &entity.Cell{ID: "c-1", Name: "Widget", PartNumber: "PN1", ModelNo: "M1", Warehouse: "WH1", CreatedAt: now, UpdatedAt: now}
	actor := entity.Actor{ID: "u-1", Email: "ana@bodega.test", Role: entity.RoleManager}

	rec.as("cells.create")
	_ = repos.Cells.Create(ctx, cell)
	rec.as("cells.get")
	_, _ = repos.Cells.GetByID(ctx, "c-1")
	rec.as("cells.get_for_update")
	_, _ = repos.Cells.GetForUpdate(ctx, "c-1")
	rec.as("cells.update_quantity")
	_ = repos.Cells.UpdateQuantity(ctx, "c-1", 3, now)
	rec.as("cells.delete")
	_ = repos.Cells.Delete(ctx, "c-1")
	rec.as("cells.list")
	_, _ = repos.Cells.List(ctx, entity.CellFilter{Search: "wid", Warehouse: "WH1", Category: "Tools", Limit: 10, Offset: 5})
	rec.as("cells.list_by_group")
	_, _ = repos.Cells.ListByGroup(ctx, cell.GroupKey())

	rec.as("audit.append")
	_ = repos.Audit.Append(ctx, entity.NewAuditEntry(cell, entity.AuditAdd, 0, 3, entity.ChangeAdd(3), actor, now))
	rec.as("audit.list")
	_, _ = repos.Audit.List(ctx, entity.AuditFilter{Search: "wid", Warehouse: "WH1", Date: &day, CellID: "c-1", Newest: true, Limit: 5})

	rec.as("invoices.next_number")
	_, _ = repos.Invoices.NextNumber(ctx)
	rec.as("invoices.create")
	_ = repos.Invoices.Create(ctx, &entity.Invoice{
		ID: "i-1", Number: "INV-1000", Seq: 1000, CustomerName: entity.DefaultCustomerName, TotalAmount: decimal.Zero,
		Lines: []entity.InvoiceLine{{CellID: "c-1", Quantity: 1, UnitPrice: decimal.Zero, Total: decimal.Zero}},
		CreatedAt: now,
	})
	rec.as("invoices.get")
	_, _ = repos.Invoices.GetByID(ctx, "i-1")
	rec.as("invoices.list")
	_, _ = repos.Invoices.List(ctx, entity.InvoiceFilter{Search: "INV", Warehouse: "WH1", Date: &day, Limit: 10})
	rec.as("invoices.lines")
	_ = NewInvoiceRepository(rec).attachLines(ctx, []*entity.Invoice{{ID: "i-1"}})

	rec.as("users.create")
	_ = repos.Users.Create(ctx, &entity.User{ID: "u-1", Email: "ana@bodega.test", Role: entity.RoleViewer, CreatedAt: now, UpdatedAt: now})
	rec.as("users.get")
	_, _ = repos.Users.GetByID(ctx, "u-1")
	rec.as("users.get_for_update")
	_, _ = repos.Users.GetForUpdate(ctx, "u-1")
	rec.as("users.update_role")
	_ = repos.Users.UpdateRole(ctx, "u-1", entity.RoleManager, now, nil)
	rec.as("users.list")
	_, _ = repos.Users.List(ctx, 10, 0)
	rec.as("users.delete")
	_ = repos.Users.Delete(ctx, "u-1")

	rec.as("role_requests.create")
	_ = repos.RoleRequests.Create(ctx, &entity.RoleChangeRequest{
		ID: "r-1", UserID: "u-1", CurrentRole: entity.RoleViewer, RequestedRole: entity.RoleManager,
		Status: entity.RequestPending, CreatedAt: now,
	})
	rec.as("role_requests.get_pending_for_update")
	_, _ = repos.RoleRequests.GetPendingForUpdate(ctx, "u-1")
	rec.as("role_requests.latest")
	_, _ = repos.RoleRequests.GetLatestByUser(ctx, "u-1")
	rec.as("role_requests.resolve")
	_ = repos.RoleRequests.Resolve(ctx, "r-1", entity.RequestApproved, now, "root@bodega.test")
	rec.as("role_requests.list_pending")
	_, _ = repos.RoleRequests.ListPending(ctx)
	rec.as("role_requests.delete_by_user")
	_ = repos.RoleRequests.DeleteByUser(ctx, "u-1")

	rec.as("notifications.create")
	_ = repos.Notifications.Create(ctx, &entity.Notification{ID: "n-1", Type: entity.NotificationRoleChange, Message: "x", CreatedAt: now})
	rec.as("notifications.list")
	_, _ = repos.Notifications.ListForRecipient(ctx, "u-1", true, 10)
	rec.as("notifications.mark_read")
	_ = repos.Notifications.MarkRead(ctx, "n-1", "u-1", true)
	rec.as("notifications.delete_by_recipient")
	_ = repos.Notifications.DeleteByRecipient(ctx, "u-1")

	rec.as("outbox.enqueue")
	_ = repos.Outbox.Enqueue(ctx, &entity.CredentialDeletion{ID: "d-1", UserID: "u-1", Email: "ana@bodega.test", CreatedAt: now})
	rec.as("outbox.exists")
	_, _ = repos.Outbox.ExistsForUser(ctx, "u-1")

	return rec.statements
}

// ──────────────────────────────────────────────────────────────────────────────
// Gramática PostgreSQL
// ──────────────────────────────────────────────────────────────────────────────

func TestSchema_ParseaConGramaticaPostgres(t *testing.T) {
	tree, err := pg_query.Parse(schema)
	require.NoError(t, err)
	assert.Greater(t, len(tree.Stmts), 9)

	for _, table := range []string{"cells", "stock_audit", "counters", "invoices", "invoice_lines",
		"users", "role_change_requests", "notifications", "credential_deletions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestRepositorios_SentenciasParseanConGramaticaPostgres(t *testing.T) {
	statements := allStatements(t)
	require.GreaterOrEqual(t, len(statements), 30)

	for op, sql := range statements {
		t.Run(op, func(t *testing.T) {
			_, err := pg_query.Parse(sql)
			assert.NoError(t, err, sql)

			// Estos nombres son funciones SQL: como columna leerían el rol o usuario de la sesión.
			lower := strings.ToLower(sql)
			for _, fn := range []string{"current_role", "current_user", "session_user"} {
				assert.NotContains(t, lower, fn)
			}
		})
	}
}

func TestRepositorios_BloqueosYContador(t *testing.T) {
	statements := allStatements(t)

	for _, op := range []string{"cells.get_for_update", "users.get_for_update", "role_requests.get_pending_for_update"} {
		assert.True(t, strings.HasSuffix(strings.TrimSpace(statements[op]), "FOR UPDATE"), op)
	}
	assert.NotContains(t, statements["cells.get"], "FOR UPDATE")

	next := statements["invoices.next_number"]
	assert.Contains(t, next, "ON CONFLICT (name) DO UPDATE SET value = counters.value + 1")
	assert.Contains(t, next, "RETURNING value")

	assert.Contains(t, statements["role_requests.create"], "role_at_request")
	assert.Contains(t, statements["audit.append"], "RETURNING seq, created_at")
	assert.Contains(t, statements["invoices.create#2"], "INSERT INTO invoice_lines")
}
