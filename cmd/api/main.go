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

	"github.com/jhoicas/warehouse-ops/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/application/receiving"
	"github.com/jhoicas/warehouse-ops/internal/application/shipping"
	"github.com/jhoicas/warehouse-ops/internal/application/usecase"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
	infraexcel "github.com/jhoicas/warehouse-ops/internal/infrastructure/excel"
	infrakafka "github.com/jhoicas/warehouse-ops/internal/infrastructure/kafka"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/warehouse-ops/internal/infrastructure/pdf"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/warehouse-ops/internal/interfaces/http"
	"github.com/jhoicas/warehouse-ops/pkg/config"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
	"github.com/jhoicas/warehouse-ops/pkg/metrics"
)

// txRunner agrupa las transacciones que necesitan los tres módulos.
type txRunner interface {
	inventory.TxRunner
	receiving.TxRunner
	shipping.TxRunner
}

// storage es el juego de repositorios del driver elegido.
type storage struct {
	tx         txRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	stores     repository.StoreRepository
	stock      repository.StockRepository
	assets     repository.AssetRepository
	receiving  repository.ReceivingRepository
	shipments  repository.ShipmentRepository
	deliveries repository.DeliveryRepository
	ping       func(ctx context.Context) error
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("warehouse_ops")
	}

	sinks := []ports.Notifier{notify.NewLogNotifier(log.Named("events"))}
	if m != nil {
		sinks = append(sinks, notify.NewMetricsNotifier(m))
	}
	if cfg.Kafka.Enabled() {
		publisher, err := infrakafka.NewPublisher(infrakafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Source:  cfg.App.Name,
		}, log.Named("kafka"))
		if err != nil {
			store.close() // log.Fatal no ejecuta los defer
			log.Fatal().Err(err).Msg("configurar publicador Kafka")
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador Kafka")
			}
		}()
		sinks = append(sinks, publisher)
	}
	notifier := notify.NewFanout(m, sinks...)

	stockUC := inventory.NewStockLedgerUseCase(store.tx, store.stock, store.assets, store.products, store.warehouses, store.stores, notifier, log.Named("stock"))
	assetUC := inventory.NewAssetUseCase(store.tx, store.assets, store.products, store.warehouses, notifier, log.Named("assets"))
	receivingUC := receiving.NewSessionUseCase(receiving.SessionDeps{
		TxRunner:      store.tx,
		SessionRepo:   store.receiving,
		ProductRepo:   store.products,
		WarehouseRepo: store.warehouses,
		Modes:         receiving.NewModeStore(cfg.Receiving.BoxSuggestions),
		Parser:        infraexcel.NewInvoiceParser(),
		Reports:       infrapdf.NewMarotoPDFGenerator(),
		Notifier:      notifier,
		Log:           log.Named("receiving"),
	})
	shipmentUC := shipping.NewShipmentUseCase(store.tx, store.shipments, store.warehouses, store.stores, notifier, log.Named("shipping"))
	deliveryUC := shipping.NewDeliveryUseCase(store.tx, store.deliveries, notifier, log.Named("shipping"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // facturas xlsx
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); cfg.App.SwaggerFile != "" && err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Warehouse Ops API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: usecase.NewWarehouseUseCase(store.warehouses, store.stores),
		ProductUC:   usecase.NewProductUseCase(store.products),
		StockUC:     stockUC,
		AssetUC:     assetUC,
		ReceivingUC: receivingUC,
		ShipmentUC:  shipmentUC,
		DeliveryUC:  deliveryUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Log:         log.Named("http"),
		Metrics:     m,
		Ready:       store.ping,
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

// openStorage construye los repositorios según STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == "memory" {
		s := memory.NewStore()
		if cfg.App.SeedFile != "" {
			f, err := os.Open(cfg.App.SeedFile)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			dir, err := seed.Parse(f)
			if err != nil {
				return nil, err
			}
			dir.Load(s)
			log.Info().
				Int("warehouses", len(dir.Warehouses)).
				Int("stores", len(dir.Stores)).
				Int("products", len(dir.Products)).
				Msg("directorio cargado en memoria")
		}
		return &storage{
			tx:         s,
			products:   s.Products(),
			warehouses: s.Warehouses(),
			stores:     s.Stores(),
			stock:      s.Stock(),
			assets:     s.Assets(),
			receiving:  s.Receiving(),
			shipments:  s.Shipments(),
			deliveries: s.Deliveries(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.App.AutoMigrate {
		applied, err := postgres.RunMigrations(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		stores:     postgres.NewStoreRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		assets:     postgres.NewAssetRepository(pool),
		receiving:  postgres.NewReceivingRepository(pool),
		shipments:  postgres.NewShipmentRepository(pool),
		deliveries: postgres.NewDeliveryRepository(pool),
		ping:       pool.Ping,
		close:      pool.Close,
	}, nil
}
