package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/events"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	manager = entity.Actor{ID: "u-manager", Email: "manager@bodega.test", Role: entity.RoleManager}
	viewer  = entity.Actor{ID: "u-viewer", Email: "viewer@bodega.test", Role: entity.RoleViewer}
)

func newLedger(t *testing.T) (*inventory.LedgerUseCase, *memory.Store, *events.Broker) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	broker := events.NewBroker()
	uc := inventory.NewLedgerUseCase(store, repos.Cells, repos.Audit, broker, zerolog.Nop())
	return uc, store, broker
}

func widget(qty int64) inventory.CreateCellInput {
	return inventory.CreateCellInput{
		Name: "Widget", PartNumber: "P-1", ModelNo: "M-1", Warehouse: "WH-A",
		InitialQuantity: qty, Category: "Tools",
	}
}

func history(t *testing.T, uc *inventory.LedgerUseCase, cellID string) []*entity.AuditEntry {
	t.Helper()
	entries, err := uc.History(context.Background(), viewer, entity.AuditFilter{CellID: cellID})
	require.NoError(t, err)
	return entries
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateCell
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCell_RegistraBitacoraYRechazaDuplicado(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	cell, err := uc.CreateCell(ctx, manager, widget(10))
	require.NoError(t, err)
	assert.Equal(t, int64(10), cell.Quantity)

	got, err := uc.GetCell(ctx, viewer, cell.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, "WH-A", got.Warehouse)

	entries := history(t, uc, cell.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "+10 (New Product)", entries[0].Change)
	assert.Equal(t, entity.AuditCreate, entries[0].Kind)
	assert.Equal(t, manager.Email, entries[0].ActorEmail)

	dup := inventory.CreateCellInput{Name: "widget", PartNumber: "p-1", ModelNo: "m-1", Warehouse: "wh-a", InitialQuantity: 5}
	_, err = uc.CreateCell(ctx, manager, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateCell)
	assert.Len(t, history(t, uc, ""), 1, "un duplicado no debe escribir bitácora")
}

func TestCreateCell_OtraBodegaEsOtraCelda(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	_, err := uc.CreateCell(ctx, manager, widget(1))
	require.NoError(t, err)
	in := widget(2)
	in.Warehouse = "WH-B"
	_, err = uc.CreateCell(ctx, manager, in)
	assert.NoError(t, err)
}

func TestCreateCell_Validaciones(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	in := widget(1)
	in.Name = "   "
	_, err := uc.CreateCell(ctx, manager, in)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.CreateCell(ctx, manager, widget(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.CreateCell(ctx, viewer, widget(1))
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestCreateCell_RechazaCaracteresDeControl(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	first := widget(1)
	first.Name, first.PartNumber = "a", "b\x1fc"
	_, err := uc.CreateCell(ctx, manager, first)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	second := widget(1)
	second.Name, second.PartNumber = "a\x1fb", "c"
	_, err = uc.CreateCell(ctx, manager, second)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "no debe confundirse con un duplicado")

	tab := widget(1)
	tab.Warehouse = "WH\tA"
	_, err = uc.CreateCell(ctx, manager, tab)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uc.CreateCell(ctx, manager, widget(1))
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Add / Reduce / Replace / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestReduceQuantity_StockInsuficienteNoAplicaNada(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()
	cell, err := uc.CreateCell(ctx, manager, widget(10))
	require.NoError(t, err)

	_, err = uc.ReduceQuantity(ctx, manager, cell.ID, 15)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.GetCell(ctx, viewer, cell.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
	assert.Len(t, history(t, uc, cell.ID), 1)
}

func TestMutaciones_TextosDeCambio(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()
	cell, err := uc.CreateCell(ctx, manager, widget(10))
	require.NoError(t, err)

	c, err := uc.AddQuantity(ctx, manager, cell.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), c.Quantity)

	c, err = uc.ReduceQuantity(ctx, manager, cell.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(12), c.Quantity)

	c, err = uc.ReplaceQuantity(ctx, manager, cell.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.Quantity)

	require.NoError(t, uc.DeleteCell(ctx, manager, cell.ID))

	entries := history(t, uc, cell.ID)
	require.Len(t, entries, 5)
	changes := make([]string, 0, len(entries))
	for _, e := range entries {
		changes = append(changes, e.Change)
	}
	assert.Equal(t, []string{"+10 (New Product)", "+5", "-3", "12 → 4 (Replaced)", "Product Deleted"}, changes)
	assert.Equal(t, int64(-3), entries[2].Delta)
	assert.Equal(t, int64(12), entries[3].QuantityBefore)

	_, err = uc.GetCell(ctx, viewer, cell.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMutaciones_ArgumentosInvalidos(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()
	cell, err := uc.CreateCell(ctx, manager, widget(10))
	require.NoError(t, err)

	_, err = uc.AddQuantity(ctx, manager, cell.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = uc.ReduceQuantity(ctx, manager, cell.ID, -2)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = uc.ReplaceQuantity(ctx, manager, cell.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = uc.AddQuantity(ctx, manager, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteCell(ctx, manager, "no-existe"), domain.ErrNotFound)
	_, err = uc.AddQuantity(ctx, viewer, cell.ID, 1)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestReduceQuantity_ConcurrenteNuncaNegativo(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()
	cell, err := uc.CreateCell(ctx, manager, widget(50))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.ReduceQuantity(ctx, manager, cell.ID, 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := uc.GetCell(ctx, viewer, cell.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, ok)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Len(t, history(t, uc, cell.ID), 51)
}

func TestHistory_MarcasDeTiempoNoDecrecen(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()
	cell, err := uc.CreateCell(ctx, manager, widget(0))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.AddQuantity(ctx, manager, cell.ID, 1)
		}()
	}
	wg.Wait()

	entries := history(t, uc, cell.ID)
	require.Len(t, entries, 101)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].Seq, entries[i-1].Seq)
		assert.False(t, entries[i].CreatedAt.Before(entries[i-1].CreatedAt), "entrada %d", i)
	}
}

func TestMutacion_PublicaEvento(t *testing.T) {
	uc, _, broker := newLedger(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := broker.Subscribe(ctx, events.OfTypes(events.CellUpdated))

	cell, err := uc.CreateCell(ctx, manager, widget(3))
	require.NoError(t, err)
	_, err = uc.AddQuantity(ctx, manager, cell.ID, 2)
	require.NoError(t, err)

	select {
	case e := <-ch:
		assert.Equal(t, cell.ID, e.EntityID)
		assert.Equal(t, int64(5), e.Data["quantity"])
	case <-time.After(time.Second):
		t.Fatal("se esperaba un evento cell.updated")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestListVariants_AgrupaPorNombreYParte(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	b := widget(1)
	b.Warehouse = "WH-B"
	cb, err := uc.CreateCell(ctx, manager, b)
	require.NoError(t, err)
	a := widget(2)
	a.Name = "WIDGET"
	_, err = uc.CreateCell(ctx, manager, a)
	require.NoError(t, err)
	other := widget(3)
	other.PartNumber = "P-2"
	_, err = uc.CreateCell(ctx, manager, other)
	require.NoError(t, err)

	variants, err := uc.ListVariants(ctx, viewer, cb.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "WH-A", variants[0].Warehouse)
	assert.Equal(t, "WH-B", variants[1].Warehouse)
}

func TestHistory_Filtros(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	_, err := uc.CreateCell(ctx, manager, widget(1))
	require.NoError(t, err)
	bolt := inventory.CreateCellInput{Name: "Bolt", PartNumber: "B-9", ModelNo: "X", Warehouse: "WH-B", InitialQuantity: 7}
	_, err = uc.CreateCell(ctx, manager, bolt)
	require.NoError(t, err)

	byWarehouse, err := uc.History(ctx, viewer, entity.AuditFilter{Warehouse: "wh-b"})
	require.NoError(t, err)
	require.Len(t, byWarehouse, 1)
	assert.Equal(t, "Bolt", byWarehouse[0].ProductName)

	bySearch, err := uc.History(ctx, viewer, entity.AuditFilter{Search: "widg"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	today := time.Now().UTC()
	byDate, err := uc.History(ctx, viewer, entity.AuditFilter{Date: &today})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	yesterday := today.AddDate(0, 0, -1)
	none, err := uc.History(ctx, viewer, entity.AuditFilter{Date: &yesterday})
	require.NoError(t, err)
	assert.Empty(t, none)

	newest, err := uc.History(ctx, viewer, entity.AuditFilter{Newest: true})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "Bolt", newest[0].ProductName)

	_, err = uc.History(ctx, entity.Actor{ID: "x", Role: entity.RoleNone}, entity.AuditFilter{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestSummary_TotalesYBajoStock(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	_, err := uc.CreateCell(ctx, manager, widget(10))
	require.NoError(t, err)
	low := widget(2)
	low.Warehouse = "WH-B"
	_, err = uc.CreateCell(ctx, manager, low)
	require.NoError(t, err)

	s, err := uc.Summary(ctx, viewer, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalCells)
	assert.Equal(t, int64(12), s.TotalUnits)
	require.Len(t, s.Warehouses, 2)
	assert.Equal(t, "WH-A", s.Warehouses[0].Warehouse)
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, "WH-B", s.LowStock[0].Warehouse)
}
