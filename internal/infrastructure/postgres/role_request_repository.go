package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.RoleRequestRepository = (*RoleRequestRepo)(nil)

// RoleRequestRepo solicitudes de cambio de rol sobre PostgreSQL.
// El índice parcial uq_role_requests_pending impide dos pendientes por usuario.
type RoleRequestRepo struct {
	q Querier
}

// NewRoleRequestRepository construye el adaptador.
func NewRoleRequestRepository(q Querier) *RoleRequestRepo {
	return &RoleRequestRepo{q: q}
}

const roleRequestColumns = `id, user_id, email, role_at_request, requested_role, status, requested_by,
	requested_by_email, created_at, processed_at, processed_by`

func (r *RoleRequestRepo) Create(ctx context.Context, req *entity.RoleChangeRequest) error {
	query := `
		INSERT INTO role_change_requests (` + roleRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.UserID, req.Email, string(req.CurrentRole), string(req.RequestedRole), string(req.Status),
		req.RequestedBy, req.RequestedByEmail, req.CreatedAt, req.ProcessedAt, req.ProcessedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario %s ya tiene una solicitud pendiente", domain.ErrConflict, req.UserID)
		}
		return storageErr("insert role request", err)
	}
	return nil
}

func (r *RoleRequestRepo) GetPendingForUpdate(ctx context.Context, userID string) (*entity.RoleChangeRequest, error) {
	query := `SELECT ` + roleRequestColumns + ` FROM role_change_requests
		WHERE user_id = $1 AND status = 'pending' FOR UPDATE`
	return r.get(ctx, query, userID)
}

func (r *RoleRequestRepo) GetLatestByUser(ctx context.Context, userID string) (*entity.RoleChangeRequest, error) {
	query := `SELECT ` + roleRequestColumns + ` FROM role_change_requests
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.get(ctx, query, userID)
}

func (r *RoleRequestRepo) get(ctx context.Context, query, userID string) (*entity.RoleChangeRequest, error) {
	req, err := scanRoleRequest(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get role request", err)
	}
	return req, nil
}

// Resolve cierra una solicitud pendiente; ErrNotFound si ya no lo está.
func (r *RoleRequestRepo) Resolve(ctx context.Context, id string, status entity.RequestStatus, processedAt time.Time, processedBy string) error {
	query := `
		UPDATE role_change_requests SET status = $2, processed_at = $3, processed_by = $4
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(ctx, query, id, string(status), processedAt, processedBy)
	if err != nil {
		return storageErr("resolve role request", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitud %s no está pendiente", domain.ErrNotFound, id)
	}
	return nil
}

func (r *RoleRequestRepo) ListPending(ctx context.Context) ([]*entity.RoleChangeRequest, error) {
	query := `SELECT ` + roleRequestColumns + ` FROM role_change_requests
		WHERE status = 'pending' ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, storageErr("list pending role requests", err)
	}
	defer rows.Close()
	out := make([]*entity.RoleChangeRequest, 0)
	for rows.Next() {
		req, err := scanRoleRequest(rows)
		if err != nil {
			return nil, storageErr("scan role request", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list pending role requests", err)
	}
	return out, nil
}

func (r *RoleRequestRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM role_change_requests WHERE user_id = $1`, userID); err != nil {
		return storageErr("delete role requests", err)
	}
	return nil
}

func scanRoleRequest(row pgx.Row) (*entity.RoleChangeRequest, error) {
	var req entity.RoleChangeRequest
	var current, requested, status string
	if err := row.Scan(&req.ID, &req.UserID, &req.Email, &current, &requested, &status, &req.RequestedBy,
		&req.RequestedByEmail, &req.CreatedAt, &req.ProcessedAt, &req.ProcessedBy); err != nil {
		return nil, err
	}
	req.CurrentRole = entity.Role(current)
	req.RequestedRole = entity.Role(requested)
	req.Status = entity.RequestStatus(status)
	return &req, nil
}
