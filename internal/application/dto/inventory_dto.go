package dto

import (
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CreateCellRequest body para POST /api/cells.
type CreateCellRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	PartNumber      string  `json:"part_number" validate:"required,max=100"`
	ModelNo         string  `json:"model_no" validate:"required,max=100"`
	Warehouse       string  `json:"warehouse" validate:"required,max=100"`
	InitialQuantity int64   `json:"initial_quantity" validate:"min=0"`
	Category        string  `json:"category" validate:"omitempty,max=100"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url"`
}

// QuantityRequest body para add/reduce (amount > 0).
type QuantityRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

// ReplaceQuantityRequest body para PUT /api/cells/:id/quantity.
type ReplaceQuantityRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,min=0"`
}

// CellResponse salida de una celda.
type CellResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PartNumber string    `json:"part_number"`
	ModelNo    string    `json:"model_no"`
	Warehouse  string    `json:"warehouse"`
	Quantity   int64     `json:"quantity"`
	Category   string    `json:"category"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AuditEntryResponse fila del historial de stock.
type AuditEntryResponse struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`
	CellID         string    `json:"cell_id"`
	ProductName    string    `json:"product_name"`
	PartNumber     string    `json:"part_number"`
	ModelNo        string    `json:"model_no"`
	Warehouse      string    `json:"warehouse"`
	Kind           string    `json:"kind"`
	Change         string    `json:"change"`
	Delta          int64     `json:"delta"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	UpdatedBy      string    `json:"updated_by"`
	InvoiceNumber  *string   `json:"invoice_number,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	CreatedAt      time.Time `json:"created_at"`
}

// WarehouseTotalResponse totales por bodega.
type WarehouseTotalResponse struct {
	Warehouse string `json:"warehouse"`
	Cells     int    `json:"cells"`
	Units     int64  `json:"units"`
}

// InventorySummaryResponse salida de GET /api/inventory/summary.
type InventorySummaryResponse struct {
	TotalCells        int                      `json:"total_cells"`
	TotalUnits        int64                    `json:"total_units"`
	Warehouses        []WarehouseTotalResponse `json:"warehouses"`
	LowStockThreshold int64                    `json:"low_stock_threshold"`
	LowStock          []CellResponse           `json:"low_stock"`
}

// CellFromEntity mapea una celda.
func CellFromEntity(c *entity.Cell) CellResponse {
	return CellResponse{
		ID:         c.ID,
		Name:       c.Name,
		PartNumber: c.PartNumber,
		ModelNo:    c.ModelNo,
		Warehouse:  c.Warehouse,
		Quantity:   c.Quantity,
		Category:   c.Category,
		ImageURL:   c.ImageURL,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CellsFromEntities mapea una lista de celdas.
func CellsFromEntities(cells []*entity.Cell) []CellResponse {
	out := make([]CellResponse, 0, len(cells))
	for _, c := range cells {
		out = append(out, CellFromEntity(c))
	}
	return out
}

// AuditEntryFromEntity mapea una entrada de bitácora.
func AuditEntryFromEntity(e *entity.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:             e.ID,
		Seq:            e.Seq,
		CellID:         e.CellID,
		ProductName:    e.ProductName,
		PartNumber:     e.PartNumber,
		ModelNo:        e.ModelNo,
		Warehouse:      e.Warehouse,
		Kind:           string(e.Kind),
		Change:         e.Change,
		Delta:          e.Delta,
		QuantityBefore: e.QuantityBefore,
		QuantityAfter:  e.QuantityAfter,
		UpdatedBy:      e.ActorEmail,
		InvoiceNumber:  e.InvoiceNumber,
		Date:           e.CreatedAt.UTC().Format("2006-01-02"),
		Time:           e.CreatedAt.UTC().Format("15:04:05"),
		CreatedAt:      e.CreatedAt,
	}
}
