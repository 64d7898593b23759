// Package cronjob agenda las tareas periódicas: barrido de retención y borrado de credenciales.
package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/credentials"
	"github.com/jhoicas/Bodega-api/internal/application/retention"
	"github.com/jhoicas/Bodega-api/pkg/config"
)

// RetentionJob lo implementa *retention.Sweeper.
type RetentionJob interface {
	Run(ctx context.Context) (retention.Result, error)
}

// OutboxJob lo implementa *credentials.Processor.
type OutboxJob interface {
	Run(ctx context.Context) (credentials.Stats, error)
}

// jobTimeout tope de cada ejecución.
const jobTimeout = 10 * time.Minute

// Scheduler envuelve cron con las dos tareas del sistema.
type Scheduler struct {
	c         *cron.Cron
	retention RetentionJob
	outbox    OutboxJob
	log       zerolog.Logger
}

// NewScheduler registra las tareas con los horarios de cfg en la zona horaria configurada.
// outbox puede ser nil (sin proveedor que limpiar).
func NewScheduler(cfg config.WorkerConfig, sweeper RetentionJob, outbox OutboxJob, log zerolog.Logger) (*Scheduler, error) {
	tz := cfg.RetentionTimezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("cron: zona horaria %q: %w", tz, err)
	}

	s := &Scheduler{
		c:         cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		retention: sweeper,
		outbox:    outbox,
		log:       log.With().Str("component", "cron").Logger(),
	}
	if _, err := s.c.AddFunc(cfg.RetentionSchedule, s.runRetention); err != nil {
		return nil, fmt.Errorf("cron: RETENTION_SCHEDULE %q: %w", cfg.RetentionSchedule, err)
	}
	if outbox != nil {
		if _, err := s.c.AddFunc(cfg.OutboxSchedule, s.runOutbox); err != nil {
			return nil, fmt.Errorf("cron: OUTBOX_SCHEDULE %q: %w", cfg.OutboxSchedule, err)
		}
	}
	return s, nil
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.c.Entries())).Msg("cron iniciado")
	s.c.Start()
}

// Stop detiene el scheduler y espera a que terminen las tareas en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("cron detenido con tareas en curso")
	}
}

// RunNow ejecuta ambas tareas una vez de forma sincrónica.
func (s *Scheduler) RunNow() {
	s.runRetention()
	if s.outbox != nil {
		s.runOutbox()
	}
}

func (s *Scheduler) runRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	res, err := s.retention.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de retención fallido")
		return
	}
	s.log.Info().
		Time("cutoff", res.Cutoff).
		Int64("requests", res.RequestsDeleted).
		Int64("notifications", res.NotificationsDeleted).
		Msg("barrido de retención completado")
}

func (s *Scheduler) runOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	stats, err := s.outbox.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("procesamiento de credenciales fallido")
		return
	}
	if stats.Processed > 0 || stats.Failed > 0 {
		s.log.Info().Int("processed", stats.Processed).Int("failed", stats.Failed).Msg("credenciales procesadas")
	}
}
