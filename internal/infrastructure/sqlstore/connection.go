// Package sqlstore implementa sobre database/sql los repositorios del worker:
// barrido de retención y outbox de credenciales. El driver es el adaptador stdlib de pgx,
// el mismo motor que usa la API.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/Bodega-api/pkg/config"
)

// NewConnection abre el pool de database/sql y valida la conexión.
func NewConnection(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	return db, nil
}
