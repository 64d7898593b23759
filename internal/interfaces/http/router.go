package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/billing"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/application/roles"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Verifier          ports.TokenVerifier
	UserUC            *usecase.UserUseCase
	Workflow          *roles.WorkflowUseCase
	Ledger            *inventory.LedgerUseCase
	Carts             *billing.CartService
	Sales             *billing.SaleUseCase
	Invoices          *billing.InvoiceQuery
	InvoicePDF        *billing.PDFUseCase
	Events            Subscriber
	LowStockThreshold int64
	Currency          string
	SSEHeartbeat      time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Verifier))

	// Perfil propio: registrar no requiere perfil previo
	userHandler := NewUserHandler(deps.UserUC, deps.Workflow)
	api.Post("/users/me", userHandler.Register)

	// Resto: rol cargado del perfil en cada petición
	protected := api.Group("", ProfileMiddleware(deps.UserUC))
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/notifications", userHandler.Notifications)
	protected.Patch("/notifications/:id/read", userHandler.MarkNotificationRead)

	readers := RequireRole(entity.RoleViewer, entity.RoleManager, entity.RoleAdmin)
	writers := RequireRole(entity.RoleManager, entity.RoleAdmin)
	admins := RequireRole(entity.RoleAdmin)

	// Role requests
	roleHandler := NewRoleRequestHandler(deps.Workflow)
	protected.Post("/role-requests", roleHandler.Submit)
	protected.Get("/role-requests/pending", admins, roleHandler.ListPending)
	protected.Post("/role-requests/:userId/decision", admins, roleHandler.Decide)

	// Admin: usuarios
	adminUsers := protected.Group("/admin/users", admins)
	adminUsers.Get("/", userHandler.List)
	adminUsers.Put("/:id/role", userHandler.ChangeRole)
	adminUsers.Delete("/:id", userHandler.Delete)

	// Cells
	invHandler := NewInventoryHandler(deps.Ledger, deps.LowStockThreshold)
	cells := protected.Group("/cells")
	cells.Get("/", readers, invHandler.ListCells)
	cells.Post("/", writers, invHandler.CreateCell)
	cells.Get("/:id", readers, invHandler.GetCell)
	cells.Get("/:id/variants", readers, invHandler.ListVariants)
	cells.Post("/:id/add", writers, invHandler.AddQuantity)
	cells.Post("/:id/reduce", writers, invHandler.ReduceQuantity)
	cells.Put("/:id/quantity", writers, invHandler.ReplaceQuantity)
	cells.Delete("/:id", writers, invHandler.DeleteCell)
	protected.Get("/stock-history", readers, invHandler.History)
	protected.Get("/inventory/summary", readers, invHandler.Summary)

	// Cart y ventas
	invoiceHandler := NewInvoiceHandler(deps.Carts, deps.Sales, deps.Invoices, deps.InvoicePDF, deps.Currency)
	cart := protected.Group("/cart", writers)
	cart.Get("/", invoiceHandler.GetCart)
	cart.Delete("/", invoiceHandler.ClearCart)
	cart.Post("/lines", invoiceHandler.AddCartLine)
	cart.Delete("/lines/:lineId", invoiceHandler.RemoveCartLine)
	cart.Post("/checkout", invoiceHandler.Checkout)
	protected.Post("/sales", writers, invoiceHandler.CreateSale)

	// Invoices
	invoices := protected.Group("/invoices", readers)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Eventos en vivo
	if deps.Events != nil {
		eventsHandler := NewEventsHandler(deps.Events, deps.SSEHeartbeat)
		protected.Get("/events", readers, eventsHandler.Stream)
	}
}
