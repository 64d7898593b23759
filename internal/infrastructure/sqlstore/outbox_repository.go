package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/Bodega-api/internal/application/credentials"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

var _ credentials.Outbox = (*OutboxRepo)(nil)

// OutboxRepo lectura y cierre de filas de credential_deletions.
type OutboxRepo struct {
	db *sql.DB
}

// NewOutboxRepository construye el adaptador.
func NewOutboxRepository(db *sql.DB) *OutboxRepo {
	return &OutboxRepo{db: db}
}

// ListPending filas sin procesar, más antiguas primero. maxAttempts <= 0 no limita.
func (r *OutboxRepo) ListPending(ctx context.Context, limit, maxAttempts int) ([]*entity.CredentialDeletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, email, attempts, last_error, created_at
		FROM credential_deletions
		WHERE processed_at IS NULL AND ($2 <= 0 OR attempts < $2)
		ORDER BY created_at
		LIMIT $1`, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("%w: list outbox: %w", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	out := make([]*entity.CredentialDeletion, 0)
	for rows.Next() {
		var d entity.CredentialDeletion
		var lastErr sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.Email, &d.Attempts, &lastErr, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan outbox: %w", domain.ErrStorageFailure, err)
		}
		if lastErr.Valid {
			d.LastError = &lastErr.String
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list outbox: %w", domain.ErrStorageFailure, err)
	}
	return out, nil
}

func (r *OutboxRepo) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "mark processed", id,
		`UPDATE credential_deletions SET processed_at = $2, attempts = attempts + 1 WHERE id = $1`, at)
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id, reason string) error {
	return r.exec(ctx, "mark failed", id,
		`UPDATE credential_deletions SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, reason)
}

func (r *OutboxRepo) exec(ctx context.Context, op, id, query string, arg any) error {
	res, err := r.db.ExecContext(ctx, query, id, arg)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageFailure, op, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: fila de outbox %s", domain.ErrNotFound, id)
	}
	return nil
}
