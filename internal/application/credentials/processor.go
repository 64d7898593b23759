// Package credentials procesa el outbox de borrado de credenciales con entrega al menos una vez.
package credentials

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/pkg/metrics"
)

// Outbox lectura y cierre de filas pendientes.
type Outbox interface {
	ListPending(ctx context.Context, limit, maxAttempts int) ([]*entity.CredentialDeletion, error)
	MarkProcessed(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// Stats resultado de una pasada.
type Stats struct {
	Processed int
	Failed    int
}

// Processor borra en el proveedor de identidad las credenciales encoladas.
type Processor struct {
	outbox      Outbox
	deleter     ports.CredentialDeleter
	batch       int
	maxAttempts int
	log         zerolog.Logger
}

// NewProcessor construye el procesador. batch <= 0 usa 50; maxAttempts <= 0 reintenta sin tope.
func NewProcessor(outbox Outbox, deleter ports.CredentialDeleter, batch, maxAttempts int, log zerolog.Logger) *Processor {
	if batch <= 0 {
		batch = 50
	}
	return &Processor{
		outbox:      outbox,
		deleter:     deleter,
		batch:       batch,
		maxAttempts: maxAttempts,
		log:         log.With().Str("component", "credentials").Logger(),
	}
}

// Run procesa un lote. Un fallo del proveedor deja la fila pendiente para el siguiente ciclo.
func (p *Processor) Run(ctx context.Context) (Stats, error) {
	var st Stats
	rows, err := p.outbox.ListPending(ctx, p.batch, p.maxAttempts)
	if err != nil {
		return st, err
	}
	for _, d := range rows {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := p.deleter.DeleteCredential(ctx, d.UserID); err != nil {
			st.Failed++
			metrics.CredentialDeletionsTotal.WithLabelValues("failed").Inc()
			p.log.Warn().Err(err).Str("user_id", d.UserID).Int("attempts", d.Attempts+1).Msg("no se pudo borrar la credencial")
			if mErr := p.outbox.MarkFailed(ctx, d.ID, err.Error()); mErr != nil {
				return st, mErr
			}
			continue
		}
		if err := p.outbox.MarkProcessed(ctx, d.ID, time.Now().UTC()); err != nil {
			return st, err
		}
		st.Processed++
		metrics.CredentialDeletionsTotal.WithLabelValues("deleted").Inc()
		p.log.Info().Str("user_id", d.UserID).Str("email", d.Email).Msg("credencial eliminada")
	}
	return st, nil
}
