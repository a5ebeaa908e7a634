package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-core/internal/application/catalog"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/opname"
	"github.com/jhoicas/Inventario-core/internal/application/purchasing"
	"github.com/jhoicas/Inventario-core/internal/application/sales"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
	"github.com/jhoicas/Inventario-core/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-core/internal/interfaces/http"
	"github.com/jhoicas/Inventario-core/pkg/config"
	"github.com/jhoicas/Inventario-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	policy, err := inventory.ParseAllocationPolicy(cfg.Inventory.AllocationPolicy)
	if err != nil {
		log.Fatal().
			Str("valor", cfg.Inventory.AllocationPolicy).
			Msg("INVENTORY_ALLOCATION_POLICY inválida (strict | allow-overcommit)")
	}
	log.Info().Str("allocation_policy", string(policy)).Msg("política de asignación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	batchRepo := postgres.NewStockBatchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)

	catalogUC := catalog.NewUseCase(productRepo, locationRepo)
	stockUC := inventory.NewStockQueryUseCase(batchRepo, movementRepo, productRepo)
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner)
	salesUC := sales.NewOrderUseCase(txRunner, policy)
	purchaseUC := purchasing.NewPurchaseUseCase(txRunner)
	transferUC := transfer.NewTransferUseCase(txRunner)
	opnameUC := opname.NewOpnameUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		StockUC:      stockUC,
		AdjustmentUC: adjustmentUC,
		SalesUC:      salesUC,
		PurchaseUC:   purchaseUC,
		TransferUC:   transferUC,
		OpnameUC:     opnameUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
