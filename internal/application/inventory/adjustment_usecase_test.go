package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
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

// fixture crea un producto y una bodega activa.
func fixture(t *testing.T, store *memory.Store) (productID, locationID string) {
	t.Helper()
	ctx := context.Background()
	r := store.Repos()

	p := &entity.Product{SKU: "SKU-001", Name: "Café molido 500g", Price: d("100"), LowStockThreshold: d("5")}
	require.NoError(t, r.Products.Create(ctx, p))
	l := &entity.Location{Name: "Bodega Central", Active: true}
	require.NoError(t, r.Locations.Create(ctx, l))
	return p.ID, l.ID
}

func seedStock(t *testing.T, store *memory.Store, productID, locationID string, qtys ...string) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	err := store.Run(ctx, func(r inventory.Repos) error {
		for i, q := range qtys {
			_, err := inventory.ReceiveNewBatch(ctx, r, productID, locationID, d(q), inventory.MovementRef{
				Kind:    entity.MovementIN,
				RefType: entity.RefPurchaseOrder,
				RefID:   "seed",
				ActorID: actorID,
			}, base.Add(time.Duration(i)*24*time.Hour))
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func aggregate(t *testing.T, store *memory.Store, productID, locationID string) *entity.StockLevel {
	t.Helper()
	lvl, err := store.Repos().Batches.Aggregate(context.Background(), productID, locationID)
	require.NoError(t, err)
	return lvl
}

func apply(t *testing.T, uc *inventory.AdjustmentUseCase, productID, locationID string, dir entity.AdjustmentDirection, qty string) *entity.StockAdjustment {
	t.Helper()
	adj, err := uc.Apply(context.Background(), inventory.ApplyAdjustmentInput{
		ProductID:  productID,
		LocationID: locationID,
		Direction:  dir,
		Quantity:   d(qty),
		Reason:     entity.ReasonCorrection,
		ActorID:    actorID,
	})
	require.NoError(t, err)
	return adj
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes con signo
// ──────────────────────────────────────────────────────────────────────────────

// Un increase crea un lote nuevo; un decrease deduce FIFO sobre el disponible.
func TestAdjustmentUseCase_Apply(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	uc := inventory.NewAdjustmentUseCase(store)

	adj := apply(t, uc, pid, lid, entity.AdjustmentIncrease, "5")
	assert.Equal(t, "ADJ-000001", adj.DocNumber)
	assert.Equal(t, actorID, adj.CreatedBy)
	assert.Equal(t, "5", aggregate(t, store, pid, lid).OnHand.String())

	batches, err := store.Repos().Batches.ListByProductLocation(ctx, pid, lid)
	require.NoError(t, err)
	require.Len(t, batches, 1, "el increase entró como lote nuevo")

	apply(t, uc, pid, lid, entity.AdjustmentDecrease, "3")
	assert.Equal(t, "2", aggregate(t, store, pid, lid).OnHand.String())

	movs, err := store.Repos().Movements.ListByProduct(ctx, pid, lid, 10)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementADJUST, m.Kind)
		assert.Equal(t, entity.RefAdjustment, m.ReferenceType)
	}
	assert.Equal(t, "-3", movs[0].Quantity.String())
	assert.Equal(t, "5", movs[1].Quantity.String())
}

// El decrease recorre los lotes en orden FIFO, igual que un despacho.
func TestAdjustmentUseCase_Apply_DecreaseFIFO(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	seedStock(t, store, pid, lid, "4", "6")
	uc := inventory.NewAdjustmentUseCase(store)

	apply(t, uc, pid, lid, entity.AdjustmentDecrease, "5")

	batches, err := store.Repos().Batches.ListByProductLocation(ctx, pid, lid)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "0", batches[0].QtyOnHand.String(), "el lote viejo se agota primero")
	assert.Equal(t, "5", batches[1].QtyOnHand.String())
}

// Un decrease que excede el disponible falla completo: el stock jamás queda
// negativo por un ajuste.
func TestAdjustmentUseCase_Apply_DecreaseInsuficiente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	seedStock(t, store, pid, lid, "2")
	uc := inventory.NewAdjustmentUseCase(store)

	_, err := uc.Apply(ctx, inventory.ApplyAdjustmentInput{
		ProductID:  pid,
		LocationID: lid,
		Direction:  entity.AdjustmentDecrease,
		Quantity:   d("10"),
		Reason:     entity.ReasonDamaged,
		ActorID:    actorID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "10", insufficientErr.Required.String())
	assert.Equal(t, "2", insufficientErr.Available.String())

	assert.Equal(t, "2", aggregate(t, store, pid, lid).OnHand.String())
	adjs, err := store.Repos().Adjustments.List(ctx, pid, lid, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, adjs, "el ajuste rechazado no queda registrado")
}

func TestAdjustmentUseCase_Apply_EntradasInvalidas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	uc := inventory.NewAdjustmentUseCase(store)

	cases := []struct {
		name string
		in   inventory.ApplyAdjustmentInput
	}{
		{"dirección libre", inventory.ApplyAdjustmentInput{ProductID: pid, LocationID: lid,
			Direction: "subir", Quantity: d("1"), Reason: entity.ReasonOther}},
		{"razón libre", inventory.ApplyAdjustmentInput{ProductID: pid, LocationID: lid,
			Direction: entity.AdjustmentIncrease, Quantity: d("1"), Reason: "porque sí"}},
		{"cantidad cero", inventory.ApplyAdjustmentInput{ProductID: pid, LocationID: lid,
			Direction: entity.AdjustmentIncrease, Quantity: decimal.Zero, Reason: entity.ReasonOther}},
		{"cantidad negativa", inventory.ApplyAdjustmentInput{ProductID: pid, LocationID: lid,
			Direction: entity.AdjustmentIncrease, Quantity: d("-2"), Reason: entity.ReasonOther}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.ActorID = actorID
			_, err := uc.Apply(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversas
// ──────────────────────────────────────────────────────────────────────────────

// La reversa crea el ajuste espejo enlazado al original y deja el stock como
// estaba; el original queda marcado y no admite una segunda reversa.
func TestAdjustmentUseCase_Reverse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	seedStock(t, store, pid, lid, "10")
	uc := inventory.NewAdjustmentUseCase(store)

	original := apply(t, uc, pid, lid, entity.AdjustmentDecrease, "4")
	assert.Equal(t, "6", aggregate(t, store, pid, lid).OnHand.String())

	mirror, err := uc.Reverse(ctx, original.ID, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentIncrease, mirror.Direction)
	assert.Equal(t, "4", mirror.Quantity.String())
	assert.Equal(t, original.Reason, mirror.Reason)
	assert.Equal(t, original.ID, mirror.ReversalOfID)
	assert.Equal(t, "reversa de "+original.DocNumber, mirror.Note)
	assert.Equal(t, "10", aggregate(t, store, pid, lid).OnHand.String())

	reloaded, err := uc.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, mirror.ID, reloaded.ReversedByID)

	// Un ajuste se reversa una sola vez.
	_, err = uc.Reverse(ctx, original.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
}

// Reversar un increase es un decrease espejo: si el stock entrado ya se fue,
// la reversa falla igual que cualquier baja sin disponible.
func TestAdjustmentUseCase_Reverse_IncreaseSinStock(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	uc := inventory.NewAdjustmentUseCase(store)

	original := apply(t, uc, pid, lid, entity.AdjustmentIncrease, "5")
	apply(t, uc, pid, lid, entity.AdjustmentDecrease, "5")

	_, err := uc.Reverse(ctx, original.ID, actorID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El fallo no marcó el original: puede reintentarse cuando haya stock.
	reloaded, err := uc.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.ReversedByID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad de reconstrucción
// ──────────────────────────────────────────────────────────────────────────────

// Tras una mezcla de entradas, bajas y reversas, la suma con signo del libro
// de movimientos iguala el físico agregado.
func TestAdjustmentUseCase_LibroReconstruyeElFisico(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, lid := fixture(t, store)
	seedStock(t, store, pid, lid, "10", "5")
	uc := inventory.NewAdjustmentUseCase(store)

	apply(t, uc, pid, lid, entity.AdjustmentIncrease, "7")
	bad := apply(t, uc, pid, lid, entity.AdjustmentDecrease, "6")
	apply(t, uc, pid, lid, entity.AdjustmentDecrease, "2")
	_, err := uc.Reverse(ctx, bad.ID, actorID)
	require.NoError(t, err)

	lvl := aggregate(t, store, pid, lid)
	sum, err := store.Repos().Movements.SumByProductLocation(ctx, pid, lid)
	require.NoError(t, err)
	assert.Equal(t, lvl.OnHand.String(), sum.String())
	assert.Equal(t, "20", sum.String()) // 10+5+7-6-2+6
}
