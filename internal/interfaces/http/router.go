package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/engenho/estoque-api/internal/application/catalog"
	"github.com/engenho/estoque-api/internal/application/inventory"
	"github.com/engenho/estoque-api/internal/application/product"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *product.UseCase
	CatalogUC *catalog.UseCase
	Ledger    *inventory.LedgerUseCase
}

// Router registra las rutas de la API. Las rutas estáticas (low-stock, barcode,
// recent) van antes que las paramétricas :id del mismo grupo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	movementHandler := NewMovementHandler(deps.Ledger)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)
	products.Get("/:id/movements", movementHandler.HistoryByProduct)

	// Movements (libro append-only: sin PUT ni DELETE)
	movements := api.Group("/movements")
	movements.Post("/entrance", movementHandler.Entrance)
	movements.Post("/exit", movementHandler.Exit)
	movements.Post("/adjustment", movementHandler.Adjustment)
	movements.Get("/", movementHandler.List)
	movements.Get("/recent", movementHandler.ListRecent)
	movements.Get("/:id", movementHandler.GetByID)

	// Catálogos
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	types := api.Group("/types")
	types.Post("/", catalogHandler.CreateType)
	types.Get("/", catalogHandler.ListTypes)
	types.Get("/:id", catalogHandler.GetType)
	types.Put("/:id", catalogHandler.UpdateType)
	types.Delete("/:id", catalogHandler.DeactivateType)

	colors := api.Group("/colors")
	colors.Post("/", catalogHandler.CreateColor)
	colors.Get("/", catalogHandler.ListColors)
	colors.Get("/:id", catalogHandler.GetColor)
	colors.Put("/:id", catalogHandler.UpdateColor)
	colors.Delete("/:id", catalogHandler.DeactivateColor)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ProductUC)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/low-stock", reportHandler.LowStock)
}
