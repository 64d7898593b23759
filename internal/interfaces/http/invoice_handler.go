package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/billing"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// InvoiceHandler carrito, ventas y facturas.
type InvoiceHandler struct {
	carts    *billing.CartService
	sales    *billing.SaleUseCase
	query    *billing.InvoiceQuery
	pdf      *billing.PDFUseCase
	currency string
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(carts *billing.CartService, sales *billing.SaleUseCase, query *billing.InvoiceQuery, pdf *billing.PDFUseCase, currency string) *InvoiceHandler {
	return &InvoiceHandler{carts: carts, sales: sales, query: query, pdf: pdf, currency: currency}
}

// GetCart godoc
// @Summary      Carrito del usuario
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *InvoiceHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.carts.Get(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartResponse(cart))
}

// AddCartLine godoc
// @Summary      Agregar línea al carrito
// @Description  Valida la línea contra la cantidad actual; el stock se descuenta solo al confirmar.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddCartLineRequest  true  "cell_id, quantity, unit_price"
// @Success      200   {object}  dto.CartResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/cart/lines [post]
func (h *InvoiceHandler) AddCartLine(c *fiber.Ctx) error {
	var in dto.AddCartLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	cart, err := h.carts.AddLine(c.UserContext(), actorFrom(c), in.CellID, in.Quantity, in.UnitPrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartResponse(cart))
}

// RemoveCartLine godoc
// @Summary      Quitar línea del carrito
// @Tags         cart
// @Security     Bearer
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{lineId} [delete]
func (h *InvoiceHandler) RemoveCartLine(c *fiber.Ctx) error {
	cart, err := h.carts.RemoveLine(c.UserContext(), actorFrom(c), c.Params("lineId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartResponse(cart))
}

// ClearCart godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     Bearer
// @Success      204
// @Router       /api/cart [delete]
func (h *InvoiceHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.carts.Clear(c.UserContext(), actorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Confirmar el carrito como venta
// @Description  Todo o nada: descuenta stock, registra "(Sale)" por línea y emite la factura.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CheckoutRequest  false  "customer_name opcional"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *InvoiceHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	inv, err := h.carts.Checkout(c.UserContext(), actorFrom(c), in.CustomerName)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceFromEntity(inv, h.currency))
}

// CreateSale godoc
// @Summary      Venta directa
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "items y customer_name"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InvoiceHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	lines := make([]billing.SaleLineInput, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, billing.SaleLineInput{CellID: it.CellID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	inv, err := h.sales.Sell(c.UserContext(), actorFrom(c), lines, in.CustomerName)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceFromEntity(inv, h.currency))
}

// List godoc
// @Summary      Historial de ventas
// @Description  Más recientes primero; total_amount suma el conjunto filtrado.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Número, vendedor, cliente o producto"
// @Param        warehouse  query  string  false  "Bodega de alguna línea"
// @Param        date       query  string  false  "Día (YYYY-MM-DD, UTC)"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		return badRequest(c, "VALIDATION", "date debe tener formato YYYY-MM-DD")
	}
	list, err := h.query.List(c.UserContext(), actorFrom(c), entity.InvoiceFilter{
		Search:    c.Query("search"),
		Warehouse: c.Query("warehouse"),
		Date:      date,
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.InvoiceListResponse{
		Invoices:    make([]dto.InvoiceResponse, 0, len(list.Invoices)),
		TotalItems:  list.TotalItems,
		TotalAmount: list.TotalAmount,
		Currency:    h.currency,
	}
	for _, inv := range list.Invoices {
		out.Invoices = append(out.Invoices, dto.InvoiceFromEntity(inv, h.currency))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.query.Get(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceFromEntity(inv, h.currency))
}

// DownloadPDF godoc
// @Summary      Factura imprimible
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func cartResponse(cart *billing.Cart) dto.CartResponse {
	out := dto.CartResponse{
		Lines:       make([]dto.CartLineResponse, 0, len(cart.Lines)),
		TotalItems:  cart.TotalItems(),
		TotalAmount: cart.TotalAmount(),
	}
	for _, l := range cart.Lines {
		out.Lines = append(out.Lines, dto.CartLineResponse{
			ID:         l.ID,
			CellID:     l.CellID,
			Name:       l.Name,
			PartNumber: l.PartNumber,
			ModelNo:    l.ModelNo,
			Warehouse:  l.Warehouse,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Total:      l.Total(),
		})
	}
	return out
}
