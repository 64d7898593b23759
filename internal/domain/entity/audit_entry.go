package entity

import (
	"fmt"
	"time"
)

// AuditKind tipo de mutación registrada en la bitácora.
type AuditKind string

const (
	AuditCreate  AuditKind = "create"
	AuditAdd     AuditKind = "add"
	AuditReduce  AuditKind = "reduce"
	AuditReplace AuditKind = "replace"
	AuditSale    AuditKind = "sale"
	AuditDelete  AuditKind = "delete"
)

// AuditEntry registro inmutable de una mutación de inventario.
// Se escribe en la misma transacción que la mutación y nunca se modifica.
type AuditEntry struct {
	ID             string
	Seq            int64 // orden de inserción, asignado por el almacenamiento
	CellID         string
	ProductName    string
	PartNumber     string
	ModelNo        string
	Warehouse      string
	Kind           AuditKind
	Delta          int64
	QuantityBefore int64
	QuantityAfter  int64
	Change         string
	ActorID        string
	ActorEmail     string
	InvoiceNumber  *string
	CreatedAt      time.Time
}

// NewAuditEntry copia los datos descriptivos de la celda en la entrada.
func NewAuditEntry(cell *Cell, kind AuditKind, before, after int64, change string, actor Actor, at time.Time) *AuditEntry {
	return &AuditEntry{
		CellID:         cell.ID,
		ProductName:    cell.Name,
		PartNumber:     cell.PartNumber,
		ModelNo:        cell.ModelNo,
		Warehouse:      cell.Warehouse,
		Kind:           kind,
		Delta:          after - before,
		QuantityBefore: before,
		QuantityAfter:  after,
		Change:         change,
		ActorID:        actor.ID,
		ActorEmail:     actor.Email,
		CreatedAt:      at,
	}
}

// Textos de cambio mostrados en el historial.
func ChangeNewProduct(n int64) string { return fmt.Sprintf("+%d (New Product)", n) }
func ChangeAdd(n int64) string        { return fmt.Sprintf("+%d", n) }
func ChangeReduce(n int64) string     { return fmt.Sprintf("-%d", n) }
func ChangeSale(n int64) string       { return fmt.Sprintf("-%d (Sale)", n) }
func ChangeReplace(before, after int64) string {
	return fmt.Sprintf("%d → %d (Replaced)", before, after)
}

// ChangeDeleted texto de borrado de celda.
const ChangeDeleted = "Product Deleted"

// AuditFilter filtros de lectura del historial.
type AuditFilter struct {
	Search    string // producto, parte, modelo, cambio o email del actor
	Warehouse string
	Date      *time.Time // día calendario (UTC)
	CellID    string
	Newest    bool // más recientes primero
	Limit     int
	Offset    int
}

// Matches aplica el filtro a la entrada (usado por adaptadores en memoria).
func (f AuditFilter) Matches(e *AuditEntry) bool {
	if f.CellID != "" && e.CellID != f.CellID {
		return false
	}
	if f.Warehouse != "" && !EqualFold(e.Warehouse, f.Warehouse) {
		return false
	}
	if f.Date != nil && !SameDay(e.CreatedAt, *f.Date) {
		return false
	}
	if f.Search != "" &&
		!ContainsFold(e.ProductName, f.Search) &&
		!ContainsFold(e.PartNumber, f.Search) &&
		!ContainsFold(e.ModelNo, f.Search) &&
		!ContainsFold(e.Change, f.Search) &&
		!ContainsFold(e.ActorEmail, f.Search) {
		return false
	}
	return true
}

// SameDay compara el día calendario de dos instantes en UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
