package credentials_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/credentials"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

// fakeDeleter falla para los uid listados en fail.
type fakeDeleter struct {
	mu      sync.Mutex
	fail    map[string]bool
	deleted []string
}

func (f *fakeDeleter) DeleteCredential(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[userID] {
		return errors.New("proveedor no disponible")
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func enqueue(t *testing.T, outbox *memory.OutboxRepo, userID string, at time.Time) {
	t.Helper()
	require.NoError(t, outbox.Enqueue(context.Background(), &entity.CredentialDeletion{
		UserID: userID, Email: userID + "@bodega.test", CreatedAt: at,
	}))
}

func TestProcessor_BorraYMarcaProcesadas(t *testing.T) {
	outbox := memory.NewOutboxRepo(memory.NewStore())
	base := time.Now().UTC()
	enqueue(t, outbox, "u-1", base)
	enqueue(t, outbox, "u-2", base.Add(time.Second))

	del := &fakeDeleter{}
	st, err := credentials.NewProcessor(outbox, del, 10, 5, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, credentials.Stats{Processed: 2}, st)
	assert.Equal(t, []string{"u-1", "u-2"}, del.deleted)

	pending, err := outbox.ListPending(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessor_FalloQuedaPendienteYSeReintenta(t *testing.T) {
	outbox := memory.NewOutboxRepo(memory.NewStore())
	enqueue(t, outbox, "u-1", time.Now().UTC())

	del := &fakeDeleter{fail: map[string]bool{"u-1": true}}
	p := credentials.NewProcessor(outbox, del, 10, 3, zerolog.Nop())

	st, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Failed)

	pending, err := outbox.ListPending(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	require.NotNil(t, pending[0].LastError)

	del.fail = nil
	st, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Processed)
}

func TestProcessor_RespetaMaximoDeIntentos(t *testing.T) {
	outbox := memory.NewOutboxRepo(memory.NewStore())
	enqueue(t, outbox, "u-1", time.Now().UTC())
	del := &fakeDeleter{fail: map[string]bool{"u-1": true}}
	p := credentials.NewProcessor(outbox, del, 10, 2, zerolog.Nop())

	for i := 0; i < 4; i++ {
		_, err := p.Run(context.Background())
		require.NoError(t, err)
	}
	pending, err := outbox.ListPending(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Attempts, "no se reintenta después del máximo")
}
