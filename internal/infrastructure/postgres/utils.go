package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

//go:embed schema.sql
var schema string

// Querier operaciones comunes a *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Migrate aplica el esquema (sentencias idempotentes).
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return storageErr("migrate", err)
	}
	return nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// storageErr envuelve un error del driver para que errors.Is(err, domain.ErrStorageFailure) se cumpla.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
}

// likePattern escapa comodines de LIKE y envuelve el texto en %...%.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// where acumula condiciones y argumentos posicionales.
type where struct {
	conds []string
	args  []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) add(cond string) { w.conds = append(w.conds, cond) }

func (w *where) day(column string, d *time.Time) {
	if d == nil {
		return
	}
	y, m, dd := d.UTC().Date()
	start := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	w.add(fmt.Sprintf("%s >= %s AND %s < %s", column, w.arg(start), column, w.arg(start.AddDate(0, 0, 1))))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *where) page(limit, offset int) string {
	var sb strings.Builder
	if limit > 0 {
		sb.WriteString(" LIMIT " + w.arg(limit))
	}
	if offset > 0 {
		sb.WriteString(" OFFSET " + w.arg(offset))
	}
	return sb.String()
}
