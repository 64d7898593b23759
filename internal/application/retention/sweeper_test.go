package retention_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/retention"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

var now = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func seedRequest(t *testing.T, store *memory.Store, id, userID string, status entity.RequestStatus, age time.Duration) {
	t.Helper()
	require.NoError(t, store.Repos().RoleRequests.Create(context.Background(), &entity.RoleChangeRequest{
		ID: id, UserID: userID, Email: userID + "@bodega.test",
		CurrentRole: entity.RoleViewer, RequestedRole: entity.RoleManager,
		Status: status, CreatedAt: now.Add(-age),
	}))
}

func latest(t *testing.T, store *memory.Store, userID string) *entity.RoleChangeRequest {
	t.Helper()
	r, err := store.Repos().RoleRequests.GetLatestByUser(context.Background(), userID)
	require.NoError(t, err)
	return r
}

func TestSweeper_BorraResueltasViejasYConservaPendientes(t *testing.T) {
	store := memory.NewStore()
	day := 24 * time.Hour
	seedRequest(t, store, "r-rejected", "u-1", entity.RequestRejected, 31*day)
	seedRequest(t, store, "r-pending", "u-2", entity.RequestPending, 31*day)
	seedRequest(t, store, "r-recent", "u-3", entity.RequestApproved, 29*day)

	ctx := context.Background()
	require.NoError(t, store.Repos().Notifications.Create(ctx, &entity.Notification{
		Type: entity.NotificationRoleChange, Message: "viejo", CreatedAt: now.Add(-40 * day),
	}))
	require.NoError(t, store.Repos().Notifications.Create(ctx, &entity.Notification{
		Type: entity.NotificationRoleChange, Message: "nuevo", CreatedAt: now.Add(-1 * day),
	}))

	s := retention.NewSweeper(memory.NewRetentionRepo(store), 30, zerolog.Nop(), retention.WithClock(clock))
	res, err := s.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, now.AddDate(0, 0, -30), res.Cutoff)
	assert.Equal(t, int64(1), res.RequestsDeleted)
	assert.Equal(t, int64(1), res.NotificationsDeleted)
	assert.Nil(t, latest(t, store, "u-1"))
	assert.NotNil(t, latest(t, store, "u-2"), "una pendiente nunca se borra")
	assert.NotNil(t, latest(t, store, "u-3"))

	notes, err := store.Repos().Notifications.ListForRecipient(ctx, "", true, 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "nuevo", notes[0].Message)
}

func TestSweeper_NoTocaCeldasNiBitacora(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	old := now.AddDate(-1, 0, 0)
	cell := &entity.Cell{ID: "c-1", Name: "Widget", PartNumber: "P", ModelNo: "M", Warehouse: "W", Quantity: 3, CreatedAt: old, UpdatedAt: old}
	require.NoError(t, store.Repos().Cells.Create(ctx, cell))
	require.NoError(t, store.Repos().Audit.Append(ctx, entity.NewAuditEntry(cell, entity.AuditCreate, 0, 3,
		entity.ChangeNewProduct(3), entity.Actor{ID: "u", Email: "u@bodega.test"}, old)))

	_, err := retention.NewSweeper(memory.NewRetentionRepo(store), 30, zerolog.Nop(), retention.WithClock(clock)).Run(ctx)
	require.NoError(t, err)

	got, err := store.Repos().Cells.GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	entries, err := store.Repos().Audit.List(ctx, entity.AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type failingNotifications struct{ *memory.RetentionRepo }

func (failingNotifications) DeleteNotificationsBefore(context.Context, string, time.Time) (int64, error) {
	return 0, errors.New("índice no disponible")
}

func TestSweeper_FalloDeNotificacionesNoEsFatal(t *testing.T) {
	store := memory.NewStore()
	seedRequest(t, store, "r-1", "u-1", entity.RequestRejected, 31*24*time.Hour)

	s := retention.NewSweeper(failingNotifications{memory.NewRetentionRepo(store)}, 30, zerolog.Nop(), retention.WithClock(clock))
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RequestsDeleted)
	assert.Zero(t, res.NotificationsDeleted)
}

type failingRequests struct{ *memory.RetentionRepo }

func (failingRequests) DeleteResolvedRequestsBefore(context.Context, time.Time) (int64, error) {
	return 0, errors.New("conexión perdida")
}

func TestSweeper_FalloDeSolicitudesSePropaga(t *testing.T) {
	s := retention.NewSweeper(failingRequests{memory.NewRetentionRepo(memory.NewStore())}, 0, zerolog.Nop(), retention.WithClock(clock))
	_, err := s.Run(context.Background())
	assert.Error(t, err)
}
