package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de stock sobre PostgreSQL. seq es BIGSERIAL y desempata entradas del mismo instante.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de bitácora.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta la entrada y devuelve seq asignado por la base.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_audit (id, cell_id, product_name, part_number, model_no, warehouse, kind, delta,
			quantity_before, quantity_after, change, actor_id, actor_email, invoice_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			GREATEST($15::timestamptz, COALESCE((SELECT max(created_at) FROM stock_audit), $15::timestamptz)))
		RETURNING seq, created_at`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.CellID, e.ProductName, e.PartNumber, e.ModelNo, e.Warehouse, string(e.Kind), e.Delta,
		e.QuantityBefore, e.QuantityAfter, e.Change, e.ActorID, e.ActorEmail, e.InvoiceNumber, e.CreatedAt,
	).Scan(&e.Seq, &e.CreatedAt)
	if err != nil {
		return storageErr("insert audit entry", err)
	}
	return nil
}

// List entradas filtradas en orden cronológico (o inverso con Newest).
func (r *AuditRepo) List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditEntry, error) {
	var w where
	if filter.CellID != "" {
		w.add("cell_id = " + w.arg(filter.CellID))
	}
	if filter.Warehouse != "" {
		w.add("lower(warehouse) = lower(" + w.arg(filter.Warehouse) + ")")
	}
	w.day("created_at", filter.Date)
	if filter.Search != "" {
		p := w.arg(likePattern(filter.Search))
		w.add(fmt.Sprintf("(product_name ILIKE %[1]s OR part_number ILIKE %[1]s OR model_no ILIKE %[1]s OR change ILIKE %[1]s OR actor_email ILIKE %[1]s)", p))
	}
	order := " ORDER BY seq"
	if filter.Newest {
		order = " ORDER BY seq DESC"
	}
	query := `
		SELECT id, seq, cell_id, product_name, part_number, model_no, warehouse, kind, delta,
			quantity_before, quantity_after, change, actor_id, actor_email, invoice_number, created_at
		FROM stock_audit` + w.String() + order + w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storageErr("list audit", err)
	}
	defer rows.Close()
	out := make([]*entity.AuditEntry, 0)
	for rows.Next() {
		var e entity.AuditEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.Seq, &e.CellID, &e.ProductName, &e.PartNumber, &e.ModelNo, &e.Warehouse,
			&kind, &e.Delta, &e.QuantityBefore, &e.QuantityAfter, &e.Change, &e.ActorID, &e.ActorEmail,
			&e.InvoiceNumber, &e.CreatedAt); err != nil {
			return nil, storageErr("scan audit entry", err)
		}
		e.Kind = entity.AuditKind(kind)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list audit", err)
	}
	return out, nil
}
