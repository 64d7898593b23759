package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/Bodega-api/internal/application/credentials"
	"github.com/jhoicas/Bodega-api/internal/application/retention"
	infrafirebase "github.com/jhoicas/Bodega-api/internal/infrastructure/firebase"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/sqlstore"
	"github.com/jhoicas/Bodega-api/internal/interfaces/cronjob"
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
		Service: cfg.App.Name + "-worker",
	})
	if cfg.Storage.Driver != "postgres" {
		log.Fatal().Str("storage", cfg.Storage.Driver).Msg("el worker requiere STORAGE_DRIVER=postgres")
	}

	ctx := context.Background()
	db, err := sqlstore.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer db.Close()

	zl := log.Zerolog()
	sweeper := retention.NewSweeper(sqlstore.NewRetentionRepository(db), cfg.Worker.RetentionDays, zl)

	var outbox cronjob.OutboxJob
	if cfg.Auth.Provider == "firebase" {
		authClient, err := infrafirebase.NewAuthClient(ctx, cfg.Firebase)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase")
		}
		outbox = credentials.NewProcessor(
			sqlstore.NewOutboxRepository(db), infrafirebase.New(authClient),
			cfg.Worker.OutboxBatch, cfg.Worker.OutboxMaxAttempts, zl,
		)
	} else {
		log.Warn().Msg("AUTH_PROVIDER=jwt: las credenciales las administra el IdP externo, outbox deshabilitado")
	}

	scheduler, err := cronjob.NewScheduler(cfg.Worker, sweeper, outbox, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("cron")
	}
	scheduler.Start()
	log.Info().
		Str("retention", cfg.Worker.RetentionSchedule).
		Str("timezone", cfg.Worker.RetentionTimezone).
		Int("retention_days", cfg.Worker.RetentionDays).
		Str("outbox", cfg.Worker.OutboxSchedule).
		Msg("worker iniciado")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	log.Info().Msg("worker detenido")
}
