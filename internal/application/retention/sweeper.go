// Package retention borra periódicamente las solicitudes de rol resueltas y sus avisos.
// Nunca toca celdas, bitácora ni facturas.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/pkg/metrics"
)

// DefaultDays antigüedad máxima de las solicitudes resueltas.
const DefaultDays = 30

// Store borrados por antigüedad. Cada método es un borrado aislado.
type Store interface {
	DeleteResolvedRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteNotificationsBefore(ctx context.Context, kind string, cutoff time.Time) (int64, error)
}

// Result conteos de un barrido.
type Result struct {
	Cutoff               time.Time
	RequestsDeleted      int64
	NotificationsDeleted int64
}

// Sweeper ejecuta el barrido de retención.
type Sweeper struct {
	store Store
	days  int
	now   func() time.Time
	log   zerolog.Logger
}

// Option ajusta el Sweeper.
type Option func(*Sweeper)

// WithClock reemplaza el reloj (pruebas).
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// NewSweeper construye el barrido; days <= 0 usa DefaultDays.
func NewSweeper(store Store, days int, log zerolog.Logger, opts ...Option) *Sweeper {
	if days <= 0 {
		days = DefaultDays
	}
	s := &Sweeper{
		store: store,
		days:  days,
		now:   time.Now,
		log:   log.With().Str("component", "retention").Logger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run borra las solicitudes no pendientes con createdAt < now - days y, en un segundo paso
// de mejor esfuerzo, los avisos role_change anteriores al mismo corte.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.days)
	res := Result{Cutoff: cutoff}

	n, err := s.store.DeleteResolvedRequestsBefore(ctx, cutoff)
	if err != nil {
		return res, fmt.Errorf("retención de solicitudes: %w", err)
	}
	res.RequestsDeleted = n
	metrics.RetentionDeletedTotal.WithLabelValues("role_request").Add(float64(n))

	n, err = s.store.DeleteNotificationsBefore(ctx, entity.NotificationRoleChange, cutoff)
	if err != nil {
		s.log.Warn().Err(err).Time("cutoff", cutoff).Msg("no se pudieron limpiar las notificaciones")
	} else {
		res.NotificationsDeleted = n
		metrics.RetentionDeletedTotal.WithLabelValues("notification").Add(float64(n))
	}

	s.log.Info().Time("cutoff", cutoff).Int64("requests", res.RequestsDeleted).
		Int64("notifications", res.NotificationsDeleted).Msg("barrido de retención completado")
	return res, nil
}
