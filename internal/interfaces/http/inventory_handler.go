package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// InventoryHandler celdas de inventario, historial de stock y resumen.
type InventoryHandler struct {
	uc                *inventory.LedgerUseCase
	lowStockThreshold int64
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, lowStockThreshold int64) *InventoryHandler {
	return &InventoryHandler{uc: uc, lowStockThreshold: lowStockThreshold}
}

// CreateCell godoc
// @Summary      Crear celda de inventario
// @Description  Registra "+N (New Product)" en el historial. 409 si ya existe la misma identidad.
// @Tags         cells
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCellRequest  true  "name, part_number, model_no, warehouse, initial_quantity"
// @Success      201   {object}  dto.CellResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cells [post]
func (h *InventoryHandler) CreateCell(c *fiber.Ctx) error {
	var in dto.CreateCellRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cell, err := h.uc.CreateCell(c.UserContext(), actorFrom(c), inventory.CreateCellInput{
		Name:            in.Name,
		PartNumber:      in.PartNumber,
		ModelNo:         in.ModelNo,
		Warehouse:       in.Warehouse,
		InitialQuantity: in.InitialQuantity,
		Category:        in.Category,
		ImageURL:        in.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CellFromEntity(cell))
}

// ListCells godoc
// @Summary      Listar celdas
// @Tags         cells
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Nombre, número de parte o modelo"
// @Param        warehouse  query  string  false  "Bodega"
// @Param        category   query  string  false  "Categoría"
// @Param        limit      query  int     false  "Límite"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.CellResponse
// @Router       /api/cells [get]
func (h *InventoryHandler) ListCells(c *fiber.Ctx) error {
	cells, err := h.uc.ListCells(c.UserContext(), actorFrom(c), entity.CellFilter{
		Search:    c.Query("search"),
		Warehouse: c.Query("warehouse"),
		Category:  c.Query("category"),
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CellsFromEntities(cells))
}

// GetCell godoc
// @Summary      Obtener celda por ID
// @Tags         cells
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la celda"
// @Success      200  {object}  dto.CellResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cells/{id} [get]
func (h *InventoryHandler) GetCell(c *fiber.Ctx) error {
	cell, err := h.uc.GetCell(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CellFromEntity(cell))
}

// ListVariants godoc
// @Summary      Variantes de una celda
// @Description  Celdas con el mismo nombre y número de parte en cualquier modelo o bodega.
// @Tags         cells
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la celda"
// @Success      200  {array}   dto.CellResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cells/{id}/variants [get]
func (h *InventoryHandler) ListVariants(c *fiber.Ctx) error {
	cells, err := h.uc.ListVariants(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CellsFromEntities(cells))
}

// AddQuantity godoc
// @Summary      Sumar unidades a una celda
// @Tags         cells
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la celda"
// @Param        body  body      dto.QuantityRequest  true  "amount > 0"
// @Success      200   {object}  dto.CellResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cells/{id}/add [post]
func (h *InventoryHandler) AddQuantity(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cell, err := h.uc.AddQuantity(c.UserContext(), actorFrom(c), c.Params("id"), in.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CellFromEntity(cell))
}

// ReduceQuantity godoc
// @Summary      Restar unidades de una celda
// @Tags         cells
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la celda"
// @Param        body  body      dto.QuantityRequest  true  "amount > 0"
// @Success      200   {object}  dto.CellResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/cells/{id}/reduce [post]
func (h *InventoryHandler) ReduceQuantity(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cell, err := h.uc.ReduceQuantity(c.UserContext(), actorFrom(c), c.Params("id"), in.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CellFromEntity(cell))
}

// ReplaceQuantity godoc
// @Summary      Fijar la cantidad de una celda
// @Tags         cells
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID de la celda"
// @Param        body  body      dto.ReplaceQuantityRequest  true  "quantity >= 0"
// @Success      200   {object}  dto.CellResponse
// @Router       /api/cells/{id}/quantity [put]
func (h *InventoryHandler) ReplaceQuantity(c *fiber.Ctx) error {
	var in dto.ReplaceQuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cell, err := h.uc.ReplaceQuantity(c.UserContext(), actorFrom(c), c.Params("id"), *in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CellFromEntity(cell))
}

// DeleteCell godoc
// @Summary      Eliminar celda
// @Description  El historial de stock se conserva.
// @Tags         cells
// @Security     Bearer
// @Param        id  path  string  true  "ID de la celda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cells/{id} [delete]
func (h *InventoryHandler) DeleteCell(c *fiber.Ctx) error {
	if err := h.uc.DeleteCell(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de stock
// @Tags         stock-history
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Producto, parte, modelo, cambio o email"
// @Param        warehouse  query  string  false  "Bodega"
// @Param        date       query  string  false  "Día (YYYY-MM-DD, UTC)"
// @Param        cell_id    query  string  false  "Celda"
// @Param        order      query  string  false  "newest | oldest (default newest)"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		return badRequest(c, "VALIDATION", "date debe tener formato YYYY-MM-DD")
	}
	entries, err := h.uc.History(c.UserContext(), actorFrom(c), entity.AuditFilter{
		Search:    c.Query("search"),
		Warehouse: c.Query("warehouse"),
		Date:      date,
		CellID:    c.Query("cell_id"),
		Newest:    c.Query("order", "newest") != "oldest",
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryFromEntity(e))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de inventario
// @Description  Totales por bodega y celdas con cantidad menor o igual al umbral.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral de bajo stock"
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("threshold", int(h.lowStockThreshold)))
	if threshold < 0 {
		return badRequest(c, "VALIDATION", "threshold no puede ser negativo")
	}
	s, err := h.uc.Summary(c.UserContext(), actorFrom(c), threshold)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.InventorySummaryResponse{
		TotalCells:        s.TotalCells,
		TotalUnits:        s.TotalUnits,
		Warehouses:        make([]dto.WarehouseTotalResponse, 0, len(s.Warehouses)),
		LowStockThreshold: s.LowStockThreshold,
		LowStock:          dto.CellsFromEntities(s.LowStock),
	}
	for _, w := range s.Warehouses {
		out.Warehouses = append(out.Warehouses, dto.WarehouseTotalResponse{Warehouse: w.Warehouse, Cells: w.Cells, Units: w.Units})
	}
	return c.JSON(out)
}

// parseDate acepta vacío (sin filtro) o YYYY-MM-DD.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, false
	}
	return &d, true
}
