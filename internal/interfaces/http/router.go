package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/internal/application/usecase"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
	"github.com/jhoicas/warehouse-ops/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *inventory.StockLedgerUseCase
	AssetUC     *inventory.AssetUseCase
	ReceivingUC *receiving.SessionUseCase
	ShipmentUC  *shipping.ShipmentUseCase
	DeliveryUC  *shipping.DeliveryUseCase
	JWTSecret   string
	JWTIssuer   string                          // vacío = no se valida el emisor
	Log         *logger.Logger
	Metrics     *metrics.Metrics                // nil = sin /metrics
	Ready       func(ctx context.Context) error // nil = siempre listo
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ready != nil {
			if err := deps.Ready(c.UserContext()); err != nil {
				log.Warn().Err(err).Msg("health: almacenamiento no disponible")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	destructive := RequireRole(RoleAdmin)
	fieldOps := RequireRole(RoleAdmin, RoleBodeguero)

	// Directorio (solo lectura)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, log)
	api.Get("/warehouses", warehouseHandler.List)
	api.Get("/warehouses/:id", warehouseHandler.GetByID)
	api.Get("/stores", warehouseHandler.ListStores)
	api.Get("/stores/:id", warehouseHandler.GetStore)

	productHandler := NewProductHandler(deps.ProductUC, log)
	api.Get("/products/sku/:sku", productHandler.GetBySKU)
	api.Get("/products/:id", productHandler.GetByID)

	// Libro de stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, log)
	stock.Post("/", stockHandler.Create)
	stock.Get("/", stockHandler.List)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/availability/:productId", stockHandler.Availability)
	stock.Post("/issue", stockHandler.Issue)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Post("/:id/adjust", stockHandler.Adjust)
	stock.Patch("/:id", stockHandler.Update)
	stock.Delete("/:id", destructive, stockHandler.Delete)

	// Activos
	assets := api.Group("/assets")
	assetHandler := NewAssetHandler(deps.AssetUC, log)
	assets.Post("/", assetHandler.Register)
	assets.Get("/:id", assetHandler.GetByID)
	assets.Get("/:id/history", assetHandler.History)
	assets.Patch("/:id/condition", assetHandler.UpdateCondition)
	assets.Post("/:id/uninstall", fieldOps, assetHandler.Uninstall)
	assets.Post("/:id/replace", fieldOps, assetHandler.Replace)

	// Recepción
	rcv := api.Group("/receiving")
	rcvHandler := NewReceivingHandler(deps.ReceivingUC, log)
	rcv.Post("/sessions", rcvHandler.Open)
	rcv.Post("/sessions/import", rcvHandler.Import)
	rcv.Get("/sessions/:id", rcvHandler.GetByID)
	rcv.Get("/sessions/:id/progress", rcvHandler.Progress)
	rcv.Get("/sessions/:id/report", rcvHandler.Report)
	rcv.Delete("/sessions/:id", rcvHandler.Delete)
	rcv.Post("/sessions/:id/items", rcvHandler.AddItem)
	rcv.Put("/items/:itemId/product", rcvHandler.MapItem)
	rcv.Post("/sessions/:id/scans", rcvHandler.Scan)
	rcv.Post("/sessions/:id/manual", rcvHandler.ManualEntry)
	rcv.Delete("/scans/:scanId", rcvHandler.DeleteScan)
	rcv.Get("/sessions/:id/mode", rcvHandler.Mode)
	rcv.Post("/sessions/:id/mode/box", rcvHandler.RequestBox)
	rcv.Post("/sessions/:id/mode/box/confirm", rcvHandler.ConfirmBox)
	rcv.Post("/sessions/:id/mode/box/cancel", rcvHandler.CancelBox)
	rcv.Delete("/sessions/:id/mode/box", rcvHandler.DisableBox)
	rcv.Post("/sessions/:id/commit", rcvHandler.Commit)

	// Envíos y entregas
	shipHandler := NewShipmentHandler(deps.ShipmentUC, deps.DeliveryUC, log)
	shipments := api.Group("/shipments")
	shipments.Post("/", shipHandler.Create)
	shipments.Delete("/items/:itemId", shipHandler.RemoveItem)
	shipments.Post("/items/:itemId/pick", shipHandler.PickItem)
	shipments.Get("/:id", shipHandler.GetByID)
	shipments.Post("/:id/items", shipHandler.AddItem)
	shipments.Put("/:id/status", shipHandler.UpdateStatus)
	shipments.Get("/:id/delivery", shipHandler.ShipmentDelivery)

	deliveries := api.Group("/deliveries")
	deliveries.Get("/:id", shipHandler.GetDelivery)
	deliveries.Put("/:id/status", shipHandler.UpdateDeliveryStatus)
	deliveries.Put("/:id/courier", shipHandler.AssignCourier)
}
