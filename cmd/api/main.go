package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/billing"
	"github.com/jhoicas/Bodega-api/internal/application/credentials"
	"github.com/jhoicas/Bodega-api/internal/application/events"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/application/retention"
	"github.com/jhoicas/Bodega-api/internal/application/roles"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	infrafirebase "github.com/jhoicas/Bodega-api/internal/infrastructure/firebase"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Bodega-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Bodega-api/internal/infrastructure/redis"
	"github.com/jhoicas/Bodega-api/internal/interfaces/cronjob"
	httpRouter "github.com/jhoicas/Bodega-api/internal/interfaces/http"
	"github.com/jhoicas/Bodega-api/pkg/config"
	"github.com/jhoicas/Bodega-api/pkg/logger"
)

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
		Str("storage", cfg.Storage.Driver).
		Str("auth", cfg.Auth.Provider).
		Msg("iniciando API")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ── Almacenamiento ────────────────────────────────────────────────────────
	var (
		txRunner ports.TxRunner
		repos    repository.TxRepos
		memStore *memory.Store
	)
	switch cfg.Storage.Driver {
	case "memory":
		memStore = memory.NewStore()
		txRunner = memStore
		repos = memStore.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
	}

	// ── Identidad ─────────────────────────────────────────────────────────────
	var (
		verifier ports.TokenVerifier
		deleter  ports.CredentialDeleter
	)
	switch cfg.Auth.Provider {
	case "firebase":
		authClient, err := infrafirebase.NewAuthClient(ctx, cfg.Firebase)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase")
		}
		fb := infrafirebase.New(authClient)
		verifier, deleter = fb, fb
	default:
		if cfg.JWT.Secret == "" {
			log.Fatal().Msg("JWT_SECRET es obligatorio con AUTH_PROVIDER=jwt")
		}
		verifier = auth.NewJWTVerifier(auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
	}

	// ── Eventos y carritos ────────────────────────────────────────────────────
	broker := events.NewBroker()
	var (
		publisher events.Publisher  = broker
		cartStore billing.CartStore = memory.NewCartStore()
	)
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.Connect(ctx, infraredis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		// las instancias publican en Redis y el relay entrega al broker local, incluida la propia
		if err := infraredis.NewRelay(rdb, broker, log.Component("redis")).Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("suscripción a eventos en Redis")
		}
		publisher = infraredis.NewPublisher(rdb)
		cartStore = infraredis.NewCartStore(rdb, cfg.Redis.CartTTL)
	}

	// ── Casos de uso ──────────────────────────────────────────────────────────
	zl := log.Zerolog()
	userUC := usecase.NewUserUseCase(txRunner, repos.Users, repos.RoleRequests, repos.Notifications, publisher, zl)
	workflow := roles.NewWorkflowUseCase(txRunner, repos.Users, repos.RoleRequests, publisher, zl)
	ledger := inventory.NewLedgerUseCase(txRunner, repos.Cells, repos.Audit, publisher, zl)
	sales := billing.NewSaleUseCase(txRunner, repos.Cells, publisher, zl)
	invoiceQuery := billing.NewInvoiceQuery(repos.Invoices)
	invoicePDF := billing.NewPDFUseCase(invoiceQuery, infrapdf.NewMarotoPDFGenerator(cfg.App.Name), cfg.Inventory.Currency)

	// Con almacenamiento en memoria no hay worker externo: las tareas corren en este proceso.
	var scheduler *cronjob.Scheduler
	if memStore != nil {
		sweeper := retention.NewSweeper(memory.NewRetentionRepo(memStore), cfg.Worker.RetentionDays, zl)
		var outbox cronjob.OutboxJob
		if deleter != nil {
			outbox = credentials.NewProcessor(memory.NewOutboxRepo(memStore), deleter, cfg.Worker.OutboxBatch, cfg.Worker.OutboxMaxAttempts, zl)
		}
		scheduler, err = cronjob.NewScheduler(cfg.Worker, sweeper, outbox, zl)
		if err != nil {
			log.Fatal().Err(err).Msg("cron")
		}
		scheduler.Start()
	}

	// ── HTTP ──────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(zl))
	app.Use(httpRouter.Metrics())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Bodega API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Verifier:          verifier,
		UserUC:            userUC,
		Workflow:          workflow,
		Ledger:            ledger,
		Carts:             billing.NewCartService(cartStore, sales),
		Sales:             sales,
		Invoices:          invoiceQuery,
		InvoicePDF:        invoicePDF,
		Events:            broker,
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		Currency:          cfg.Inventory.Currency,
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

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}
