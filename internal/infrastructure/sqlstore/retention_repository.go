package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/Bodega-api/internal/application/retention"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

var _ retention.Store = (*RetentionRepo)(nil)

// RetentionRepo borrados por antigüedad; cada sentencia es su propia transacción implícita.
type RetentionRepo struct {
	db *sql.DB
}

// NewRetentionRepository construye el adaptador.
func NewRetentionRepository(db *sql.DB) *RetentionRepo {
	return &RetentionRepo{db: db}
}

func (r *RetentionRepo) DeleteResolvedRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM role_change_requests WHERE status <> $1 AND created_at < $2`,
		string(entity.RequestPending), cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete role requests: %w", domain.ErrStorageFailure, err)
	}
	return res.RowsAffected()
}

func (r *RetentionRepo) DeleteNotificationsBefore(ctx context.Context, kind string, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE type = $1 AND created_at < $2`, kind, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete notifications: %w", domain.ErrStorageFailure, err)
	}
	return res.RowsAffected()
}
