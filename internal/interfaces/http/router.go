package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/document"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator *document.Orchestrator
	StockUC      *inventory.StockUseCase
	AccountUC    *account.AccountUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Facturas: cada mutación recalcula cadenas de stock y cuenta corriente
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Orchestrator)
	documents.Post("/", documentHandler.Create)
	documents.Put("/:id", documentHandler.Edit)
	documents.Delete("/:id", documentHandler.Delete)

	materials := api.Group("/materials")
	stockHandler := NewStockHandler(deps.StockUC)
	materials.Get("/:id/stock", stockHandler.Stock)
	materials.Get("/:id/movements", stockHandler.Movements)
	materials.Post("/:id/rebuild", stockHandler.Rebuild)

	accounts := api.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts.Get("/:id", accountHandler.Statement)
	accounts.Post("/:id/rebuild", accountHandler.Rebuild)
}
