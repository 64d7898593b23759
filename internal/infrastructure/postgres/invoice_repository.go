package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// NextNumber incrementa el contador 'invoice' bloqueando su fila hasta el fin de la transacción.
// Un rollback deshace el incremento, así la numeración no deja huecos.
func (r *InvoiceRepo) NextNumber(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO counters (name, value) VALUES ('invoice', $1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`
	var n int64
	if err := r.q.QueryRow(ctx, query, entity.FirstInvoiceNumber).Scan(&n); err != nil {
		return 0, storageErr("next invoice number", err)
	}
	return n, nil
}

// Create persiste la cabecera y las líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, number, seq, customer_name, total_items, total_amount, generated_by, generated_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.Number, inv.Seq, inv.CustomerName, inv.TotalItems, inv.TotalAmount,
		inv.GeneratedBy, inv.GeneratedByID, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s ya existe", domain.ErrConflict, inv.Number)
		}
		return storageErr("insert invoice", err)
	}
	for i, l := range inv.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_lines (invoice_id, line_no, cell_id, name, part_number, model_no, warehouse, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			inv.ID, i+1, l.CellID, l.Name, l.PartNumber, l.ModelNo, l.Warehouse, l.Quantity, l.UnitPrice, l.Total,
		)
		if err != nil {
			return storageErr("insert invoice line", err)
		}
	}
	return nil
}

const invoiceColumns = `id, number, seq, customer_name, total_items, total_amount, generated_by, generated_by_id, created_at`

// GetByID factura con sus líneas, o nil.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id).Scan(
		&inv.ID, &inv.Number, &inv.Seq, &inv.CustomerName, &inv.TotalItems, &inv.TotalAmount,
		&inv.GeneratedBy, &inv.GeneratedByID, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get invoice", err)
	}
	if err := r.attachLines(ctx, []*entity.Invoice{&inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

// List facturas filtradas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.Invoice, error) {
	var w where
	w.day("i.created_at", filter.Date)
	if filter.Warehouse != "" {
		w.add("EXISTS (SELECT 1 FROM invoice_lines l WHERE l.invoice_id = i.id AND lower(l.warehouse) = lower(" + w.arg(filter.Warehouse) + "))")
	}
	if filter.Search != "" {
		p := w.arg(likePattern(filter.Search))
		w.add(fmt.Sprintf(`(i.number ILIKE %[1]s OR i.generated_by ILIKE %[1]s OR i.customer_name ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM invoice_lines l WHERE l.invoice_id = i.id
				AND (l.name ILIKE %[1]s OR l.part_number ILIKE %[1]s OR l.model_no ILIKE %[1]s)))`, p))
	}
	query := `SELECT i.id, i.number, i.seq, i.customer_name, i.total_items, i.total_amount, i.generated_by, i.generated_by_id, i.created_at
		FROM invoices i` + w.String() + ` ORDER BY i.seq DESC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storageErr("list invoices", err)
	}
	out := make([]*entity.Invoice, 0)
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Seq, &inv.CustomerName, &inv.TotalItems, &inv.TotalAmount,
			&inv.GeneratedBy, &inv.GeneratedByID, &inv.CreatedAt); err != nil {
			rows.Close()
			return nil, storageErr("scan invoice", err)
		}
		out = append(out, &inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storageErr("list invoices", err)
	}
	if err := r.attachLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InvoiceRepo) attachLines(ctx context.Context, invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Invoice, len(invoices))
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
		inv.Lines = []entity.InvoiceLine{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT invoice_id, cell_id, name, part_number, model_no, warehouse, quantity, unit_price, total
		FROM invoice_lines WHERE invoice_id = ANY($1) ORDER BY invoice_id, line_no`, ids)
	if err != nil {
		return storageErr("list invoice lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var invoiceID string
		var l entity.InvoiceLine
		if err := rows.Scan(&invoiceID, &l.CellID, &l.Name, &l.PartNumber, &l.ModelNo, &l.Warehouse,
			&l.Quantity, &l.UnitPrice, &l.Total); err != nil {
			return storageErr("scan invoice line", err)
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.Lines = append(inv.Lines, l)
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr("list invoice lines", err)
	}
	return nil
}
