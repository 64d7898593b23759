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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, display_name, role, role_updated_at, updated_by, created_at, updated_at`

// Create persiste un nuevo perfil.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, display_name, role, role_updated_at, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, string(user.Role), user.RoleUpdatedAt, user.UpdatedBy,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: perfil %s ya existe", domain.ErrConflict, user.ID)
		}
		return storageErr("insert user", err)
	}
	return nil
}

// GetByID obtiene un perfil por uid, o nil.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetForUpdate obtiene el perfil bloqueando la fila.
func (r *UserRepo) GetForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepo) get(ctx context.Context, query, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

// UpdateRole fija el rol y estampa role_updated_at; updated_by solo si no es nil.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role entity.Role, updatedAt time.Time, updatedBy *string) error {
	query := `
		UPDATE users SET role = $2, role_updated_at = $3, updated_at = $3, updated_by = COALESCE($4, updated_by)
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(role), updatedAt, updatedBy)
	if err != nil {
		return storageErr("update user role", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return nil
}

// List perfiles por fecha de alta.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var w where
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()
	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scan user", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}
	return out, nil
}

// Delete borra el perfil.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &role, &u.RoleUpdatedAt, &u.UpdatedBy,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}
