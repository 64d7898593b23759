package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/sqlstore"
)

func setupDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// ──────────────────────────────────────────────────────────────────────────────
// RetentionRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestRetentionRepo_BorraSoloEstadosTerminales(t *testing.T) {
	db, mock := setupDB(t)
	repo := sqlstore.NewRetentionRepository(db)
	cutoff := time.Date(2026, 2, 8, 2, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM role_change_requests WHERE status <> $1 AND created_at < $2`)).
		WithArgs("pending", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteResolvedRequestsBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRetentionRepo_NotificacionesPorTipo(t *testing.T) {
	db, mock := setupDB(t)
	repo := sqlstore.NewRetentionRepository(db)
	cutoff := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM notifications`).
		WithArgs(entity.NotificationRoleChange, cutoff).
		WillReturnError(errors.New("timeout"))

	_, err := repo.DeleteNotificationsBefore(context.Background(), entity.NotificationRoleChange, cutoff)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// OutboxRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestOutboxRepo_ListPending(t *testing.T) {
	db, mock := setupDB(t)
	repo := sqlstore.NewOutboxRepository(db)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, user_id, email, attempts, last_error, created_at\s+FROM credential_deletions`).
		WithArgs(10, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email", "attempts", "last_error", "created_at"}).
			AddRow("d-1", "u-1", "ana@bodega.test", 0, nil, created).
			AddRow("d-2", "u-2", "beto@bodega.test", 2, "quota", created.Add(time.Minute)))

	rows, err := repo.ListPending(context.Background(), 10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].LastError)
	require.NotNil(t, rows[1].LastError)
	assert.Equal(t, "quota", *rows[1].LastError)
	assert.Equal(t, 2, rows[1].Attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepo_MarcarProcesadaYFallida(t *testing.T) {
	db, mock := setupDB(t)
	repo := sqlstore.NewOutboxRepository(db)
	at := time.Now().UTC()

	mock.ExpectExec(`UPDATE credential_deletions SET processed_at`).
		WithArgs("d-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE credential_deletions SET attempts = attempts \+ 1, last_error`).
		WithArgs("d-2", "boom").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE credential_deletions SET attempts`).
		WithArgs("missing", "boom").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, repo.MarkProcessed(ctx, "d-1", at))
	require.NoError(t, repo.MarkFailed(ctx, "d-2", "boom"))
	assert.ErrorIs(t, repo.MarkFailed(ctx, "missing", "boom"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
