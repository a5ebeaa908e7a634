package opname_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/opname"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const actorID = "user-tests"

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// fixture crea una bodega activa con tres productos y stock inicial
// 10 / 5 / 3 respectivamente.
func fixture(t *testing.T, store *memory.Store) (p1, p2, p3, locationID string) {
	t.Helper()
	ctx := context.Background()
	r := store.Repos()

	l := &entity.Location{Name: "Bodega Central", Active: true}
	require.NoError(t, r.Locations.Create(ctx, l))

	products := []*entity.Product{
		{SKU: "SKU-001", Name: "Café molido 500g", Price: d("100")},
		{SKU: "SKU-002", Name: "Azúcar 1kg", Price: d("40")},
		{SKU: "SKU-003", Name: "Filtros x40", Price: d("25")},
	}
	qtys := []string{"10", "5", "3"}
	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	for i, p := range products {
		require.NoError(t, r.Products.Create(ctx, p))
		qty := d(qtys[i])
		err := store.Run(ctx, func(rr inventory.Repos) error {
			_, err := inventory.ReceiveNewBatch(ctx, rr, p.ID, l.ID, qty, inventory.MovementRef{
				Kind:    entity.MovementIN,
				RefType: entity.RefPurchaseOrder,
				RefID:   "seed",
				ActorID: actorID,
			}, base)
			return err
		})
		require.NoError(t, err)
	}
	return products[0].ID, products[1].ID, products[2].ID, l.ID
}

func itemFor(t *testing.T, op *entity.StockOpname, productID string) *entity.OpnameItem {
	t.Helper()
	for i := range op.Items {
		if op.Items[i].ProductID == productID {
			return &op.Items[i]
		}
	}
	t.Fatalf("el conteo no tiene ítem para el producto %s", productID)
	return nil
}

func onHand(t *testing.T, store *memory.Store, productID, locationID string) string {
	t.Helper()
	lvl, err := store.Repos().Batches.Aggregate(context.Background(), productID, locationID)
	require.NoError(t, err)
	return lvl.OnHand.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Conteo físico completo
// ──────────────────────────────────────────────────────────────────────────────

// Iniciar congela el snapshot, los conteos fijan diferencias y completar
// aplica un ajuste de auditoría por cada diferencia no nula; los ítems sin
// contar se omiten, no se tratan como cero.
func TestOpnameUseCase_ConteoCompleto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, p3, lid := fixture(t, store)
	uc := opname.NewOpnameUseCase(store)

	op, err := uc.Start(ctx, lid, "conteo mensual", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.OpnameInProgress, op.Status)
	assert.Equal(t, "OPN-000001", op.DocNumber)
	require.Len(t, op.Items, 3, "un ítem por producto con stock en la bodega")
	assert.Equal(t, "10", itemFor(t, op, p1).SystemQty.String())
	assert.Nil(t, itemFor(t, op, p1).ActualQty, "sin contar al iniciar")

	// p1 contado con faltante de 2, p2 con sobrante de 4, p3 sin contar.
	item1, err := uc.SaveCount(ctx, itemFor(t, op, p1).ID, d("8"), actorID)
	require.NoError(t, err)
	assert.Equal(t, "-2", item1.Difference.String())
	require.NotNil(t, item1.CountedAt)

	// Sobrescribir un conteo previo es válido mientras siga IN_PROGRESS.
	item1, err = uc.SaveCount(ctx, item1.ID, d("8"), actorID)
	require.NoError(t, err)
	assert.Equal(t, "-2", item1.Difference.String())

	_, err = uc.SaveCount(ctx, itemFor(t, op, p2).ID, d("9"), actorID)
	require.NoError(t, err)

	op, err = uc.Complete(ctx, op.ID, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.OpnameCompleted, op.Status)

	// El sistema quedó igual al conteo.
	assert.Equal(t, "8", onHand(t, store, p1, lid))
	assert.Equal(t, "9", onHand(t, store, p2, lid))
	assert.Equal(t, "3", onHand(t, store, p3, lid), "sin contar = sin tocar")

	// Dos ajustes de auditoría: decrease 2 para p1, increase 4 para p2.
	adjs, err := store.Repos().Adjustments.List(ctx, "", lid, 10, 0)
	require.NoError(t, err)
	require.Len(t, adjs, 2)
	byProduct := map[string]*entity.StockAdjustment{}
	for _, a := range adjs {
		byProduct[a.ProductID] = a
		assert.Equal(t, entity.ReasonAudit, a.Reason)
		assert.Equal(t, actorID, a.CreatedBy)
	}
	require.Contains(t, byProduct, p1)
	assert.Equal(t, entity.AdjustmentDecrease, byProduct[p1].Direction)
	assert.Equal(t, "2", byProduct[p1].Quantity.String())
	require.Contains(t, byProduct, p2)
	assert.Equal(t, entity.AdjustmentIncrease, byProduct[p2].Direction)
	assert.Equal(t, "4", byProduct[p2].Quantity.String())

	// Los movimientos generados referencian el conteo, no el ajuste.
	movs, err := store.Repos().Movements.ListByProduct(ctx, p1, lid, 10)
	require.NoError(t, err)
	require.Len(t, movs, 2) // seed IN + ajuste del conteo
	assert.Equal(t, entity.MovementADJUST, movs[0].Kind)
	assert.Equal(t, entity.RefOpname, movs[0].ReferenceType)
	assert.Equal(t, op.ID, movs[0].ReferenceID)
	assert.Equal(t, "-2", movs[0].Quantity.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrimiento entre snapshot y cierre
// ──────────────────────────────────────────────────────────────────────────────

// Si el stock se movió después del snapshot y la baja de auditoría ya no cabe
// en el stock vivo, completar falla entero y el conteo sigue IN_PROGRESS.
func TestOpnameUseCase_Complete_CorrimientoDejaEnProgreso(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, _, _, lid := fixture(t, store)
	uc := opname.NewOpnameUseCase(store)
	adjUC := inventory.NewAdjustmentUseCase(store)

	op, err := uc.Start(ctx, lid, "", actorID)
	require.NoError(t, err)

	// Conteo contra el snapshot: 2 de 10 → baja de auditoría de 8.
	_, err = uc.SaveCount(ctx, itemFor(t, op, p1).ID, d("2"), actorID)
	require.NoError(t, err)

	// Actividad concurrente: el stock vivo baja a 1 antes del cierre.
	_, err = adjUC.Apply(ctx, inventory.ApplyAdjustmentInput{
		ProductID:  p1,
		LocationID: lid,
		Direction:  entity.AdjustmentDecrease,
		Quantity:   d("9"),
		Reason:     entity.ReasonCorrection,
		ActorID:    actorID,
	})
	require.NoError(t, err)

	_, err = uc.Complete(ctx, op.ID, actorID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	reloaded, err := uc.Get(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OpnameInProgress, reloaded.Status)
	assert.Equal(t, "1", onHand(t, store, p1, lid), "el cierre fallido no tocó nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones y validación
// ──────────────────────────────────────────────────────────────────────────────

func TestOpnameUseCase_TransicionesInvalidas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, _, _, lid := fixture(t, store)
	uc := opname.NewOpnameUseCase(store)

	op, err := uc.Start(ctx, lid, "", actorID)
	require.NoError(t, err)
	_, err = uc.Complete(ctx, op.ID, actorID)
	require.NoError(t, err)

	// Completado no admite más conteos ni un segundo cierre.
	_, err = uc.SaveCount(ctx, itemFor(t, op, p1).ID, d("4"), actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Complete(ctx, op.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Cancel(ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOpnameUseCase_Cancel(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, _, _, lid := fixture(t, store)
	uc := opname.NewOpnameUseCase(store)

	op, err := uc.Start(ctx, lid, "", actorID)
	require.NoError(t, err)
	_, err = uc.SaveCount(ctx, itemFor(t, op, p1).ID, d("2"), actorID)
	require.NoError(t, err)

	op, err = uc.Cancel(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OpnameCancelled, op.Status)
	assert.Equal(t, "10", onHand(t, store, p1, lid), "cancelar no genera ajustes")

	_, err = uc.Complete(ctx, op.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOpnameUseCase_SaveCount_EntradasInvalidas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, _, _, lid := fixture(t, store)
	uc := opname.NewOpnameUseCase(store)

	op, err := uc.Start(ctx, lid, "", actorID)
	require.NoError(t, err)

	_, err = uc.SaveCount(ctx, itemFor(t, op, p1).ID, d("-1"), actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "conteo negativo")

	_, err = uc.SaveCount(ctx, "no-existe", d("1"), actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Iniciar sobre una bodega inactiva o inexistente se rechaza.
func TestOpnameUseCase_Start_BodegaInvalida(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, _, _, lid := fixture(t, store)
	uc := opname.NewOpnameUseCase(store)

	_, err := uc.Start(ctx, "no-existe", "", actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	loc, err := store.Repos().Locations.GetByID(ctx, lid)
	require.NoError(t, err)
	loc.Active = false
	require.NoError(t, store.Repos().Locations.Update(ctx, loc))

	_, err = uc.Start(ctx, lid, "", actorID)
	assert.ErrorIs(t, err, domain.ErrLocationInactive)
}
