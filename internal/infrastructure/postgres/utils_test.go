package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%widget%`, likePattern(" widget "))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestWhere_ConstruyeCondicionesYPaginacion(t *testing.T) {
	var w where
	w.add("cell_id = " + w.arg("c-1"))
	d := time.Date(2026, 5, 4, 15, 30, 0, 0, time.FixedZone("COT", -5*3600))
	w.day("created_at", &d)

	assert.Equal(t, " WHERE cell_id = $1 AND created_at >= $2 AND created_at < $3", w.String())
	assert.Equal(t, " LIMIT $4 OFFSET $5", w.page(10, 20))
	assert.Len(t, w.args, 5)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), w.args[1])

	var empty where
	assert.Empty(t, empty.String())
	assert.Empty(t, empty.page(0, 0))
}

func TestStorageErr_EnvuelveAmbos(t *testing.T) {
	cause := errors.New("conn reset")
	err := storageErr("insert cell", cause)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestSchema_Embebido(t *testing.T) {
	for _, table := range []string{"cells", "stock_audit", "counters", "invoices", "invoice_lines",
		"users", "role_change_requests", "notifications", "credential_deletions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
