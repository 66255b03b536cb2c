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

	"github.com/jhoicas/Backoffice-ledger/docs"
	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/document"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
	"github.com/jhoicas/Backoffice-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Backoffice-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Backoffice-ledger/internal/interfaces/http"
	"github.com/jhoicas/Backoffice-ledger/pkg/config"
	"github.com/jhoicas/Backoffice-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		runner inventory.TxRunner // postgres.TxRunner o memory.Store
		repos  repository.TxRepos
	)
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		if cfg.App.SeedFile == "" {
			log.Warn().Msg("store en memoria sin semilla: los documentos fallarán hasta cargar unidades y materiales")
		} else {
			seed, err := memory.ReadSeed(cfg.App.SeedFile)
			if err != nil {
				log.Fatal().Err(err).Msg("semilla del store en memoria")
			}
			if err := seed.Apply(ctx, store); err != nil {
				log.Fatal().Err(err).Msg("cargar semilla")
			}
			log.Info().
				Str("file", cfg.App.SeedFile).
				Int("units", len(seed.Units)).
				Int("materials", len(seed.Materials)).
				Msg("semilla cargada")
		}
		runner, repos = store, store.Repos()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(pool, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		runner, repos = postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout), postgres.NewRepos(pool)
	}

	// Disparador de costo de recetas: corre después del commit, sus fallos solo se registran
	propagator := document.NewPropagator(
		document.NewLoggingRecipeCostTrigger(log),
		cfg.Propagation.Workers, cfg.Propagation.QueueSize, cfg.Propagation.Timeout, log,
	)
	orchestrator := document.NewOrchestrator(runner, propagator, cfg.Ledger.MaxRetries, log)
	stockUC := inventory.NewStockUseCase(runner, repos.Movements, repos.Materials)
	accountUC := account.NewAccountUseCase(runner, repos.Accounts, repos.Transactions)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: docs.SwaggerJSON,
		Path:        "docs",
		Title:       "Backoffice Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator: orchestrator,
		StockUC:      stockUC,
		AccountUC:    accountUC,
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
	propagator.Close()

	log.Info().
		Int64("propagation_failures", propagator.Failures()).
		Int64("propagation_dropped", propagator.Dropped()).
		Msg("aplicación detenida")
}
