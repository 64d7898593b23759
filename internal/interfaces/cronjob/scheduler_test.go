package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/credentials"
	"github.com/jhoicas/Bodega-api/internal/application/retention"
	"github.com/jhoicas/Bodega-api/pkg/config"
)

type fakeRetention struct {
	runs int
	err  error
}

func (f *fakeRetention) Run(context.Context) (retention.Result, error) {
	f.runs++
	return retention.Result{Cutoff: time.Now()}, f.err
}

type fakeOutbox struct{ runs int }

func (f *fakeOutbox) Run(context.Context) (credentials.Stats, error) {
	f.runs++
	return credentials.Stats{Processed: 1}, nil
}

func workerConfig() config.WorkerConfig {
	return config.WorkerConfig{
		RetentionSchedule: "0 2 * * *",
		RetentionTimezone: "UTC",
		OutboxSchedule:    "@every 1m",
	}
}

func TestNewScheduler_RegistraAmbasTareas(t *testing.T) {
	s, err := NewScheduler(workerConfig(), &fakeRetention{}, &fakeOutbox{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, s.c.Entries(), 2)

	s, err = NewScheduler(workerConfig(), &fakeRetention{}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, s.c.Entries(), 1, "sin outbox solo queda la retención")
}

func TestNewScheduler_RechazaConfiguracionInvalida(t *testing.T) {
	cfg := workerConfig()
	cfg.RetentionSchedule = "cada noche"
	_, err := NewScheduler(cfg, &fakeRetention{}, nil, zerolog.Nop())
	assert.Error(t, err)

	cfg = workerConfig()
	cfg.RetentionTimezone = "Marte/Olympus"
	_, err = NewScheduler(cfg, &fakeRetention{}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunNow_EjecutaTareasYToleraErrores(t *testing.T) {
	ret := &fakeRetention{err: errors.New("db caída")}
	out := &fakeOutbox{}
	s, err := NewScheduler(workerConfig(), ret, out, zerolog.Nop())
	require.NoError(t, err)

	s.RunNow()
	s.RunNow()
	assert.Equal(t, 2, ret.runs)
	assert.Equal(t, 2, out.runs)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
