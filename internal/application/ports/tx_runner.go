package ports

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// TxRunner define el puerto de salida para ejecutar una unidad de trabajo atómica.
// fn recibe repositorios atados a la transacción; si fn retorna error nada se persiste.
// Cualquier adaptador (PostgreSQL, memoria) debe implementar esta interfaz.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.TxRepos) error) error
}
