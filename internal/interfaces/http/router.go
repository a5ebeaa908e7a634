package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/catalog"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/opname"
	"github.com/jhoicas/Inventario-core/internal/application/purchasing"
	"github.com/jhoicas/Inventario-core/internal/application/sales"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *catalog.UseCase
	StockUC      *inventory.StockQueryUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	SalesUC      *sales.OrderUseCase
	PurchaseUC   *purchasing.PurchaseUseCase
	TransferUC   *transfer.TransferUseCase
	OpnameUC     *opname.OpnameUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todo el ledger es protegido:
// cada movimiento registra el actor del token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo: productos y bodegas
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := api.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Put("/:id", catalogHandler.UpdateProduct)

	locations := api.Group("/locations")
	locations.Post("/", catalogHandler.CreateLocation)
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:id", catalogHandler.GetLocation)
	locations.Patch("/:id/active", catalogHandler.SetLocationActive)

	// Lado de lectura del ledger
	stockHandler := NewStockHandler(deps.StockUC)
	stock := api.Group("/stock")
	stock.Get("/low", stockHandler.ListLowStock) // antes de /:productId
	stock.Get("/:productId", stockHandler.GetStockLevel)
	stock.Get("/:productId/movements", stockHandler.GetMovements)
	stock.Get("/:productId/batches", stockHandler.GetBatches)

	// Órdenes de venta
	salesHandler := NewSalesOrderHandler(deps.SalesUC)
	salesOrders := api.Group("/sales-orders")
	salesOrders.Post("/", salesHandler.Create)
	salesOrders.Get("/", salesHandler.List)
	salesOrders.Get("/:id", salesHandler.GetByID)
	salesOrders.Post("/:id/confirm", salesHandler.Confirm)
	salesOrders.Post("/:id/fulfill", salesHandler.Fulfill)
	salesOrders.Post("/:id/cancel", salesHandler.Cancel)

	// Órdenes de compra
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchaseOrders := api.Group("/purchase-orders")
	purchaseOrders.Post("/", purchaseHandler.Create)
	purchaseOrders.Get("/:id", purchaseHandler.GetByID)
	purchaseOrders.Post("/:id/receive", purchaseHandler.Receive)
	purchaseOrders.Post("/:id/cancel", purchaseHandler.Cancel)

	// Traslados entre bodegas
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := api.Group("/transfers")
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/dispatch", transferHandler.Dispatch)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Ajustes manuales
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments := api.Group("/adjustments")
	adjustments.Post("/", adjustmentHandler.Apply)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/:id/reverse", adjustmentHandler.Reverse)

	// Conteos físicos
	opnameHandler := NewOpnameHandler(deps.OpnameUC)
	opnames := api.Group("/opnames")
	opnames.Post("/", opnameHandler.Start)
	opnames.Get("/:id", opnameHandler.GetByID)
	opnames.Put("/items/:itemId", opnameHandler.SaveCount)
	opnames.Post("/:id/complete", opnameHandler.Complete)
	opnames.Post("/:id/cancel", opnameHandler.Cancel)
}
