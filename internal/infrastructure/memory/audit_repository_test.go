package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

func TestAuditRepo_TiempoNoRetrocedeYOrdenPorSeq(t *testing.T) {
	store := memory.NewStore()
	audit := store.Repos().Audit
	ctx := context.Background()
	cell := &entity.Cell{ID: "c-1", Name: "Widget", PartNumber: "PN1", ModelNo: "M1", Warehouse: "WH1"}
	actor := entity.Actor{ID: "u-1", Email: "ana@bodega.test", Role: entity.RoleManager}
	later := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := entity.NewAuditEntry(cell, entity.AuditAdd, 0, 5, entity.ChangeAdd(5), actor, later)
	require.NoError(t, audit.Append(ctx, first))
	// reloj tomado antes que el de la entrada anterior
	second := entity.NewAuditEntry(cell, entity.AuditReduce, 5, 3, entity.ChangeReduce(2), actor, later.Add(-time.Second))
	require.NoError(t, audit.Append(ctx, second))

	assert.Equal(t, later, second.CreatedAt)
	assert.Greater(t, second.Seq, first.Seq)

	list, err := audit.List(ctx, entity.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.Seq, list[0].Seq)
	assert.False(t, list[1].CreatedAt.Before(list[0].CreatedAt))

	newest, err := audit.List(ctx, entity.AuditFilter{Newest: true})
	require.NoError(t, err)
	assert.Equal(t, second.Seq, newest[0].Seq)
}
