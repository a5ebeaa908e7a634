package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/purchasing"
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

// fixture crea dos productos y una bodega activa.
func fixture(t *testing.T, store *memory.Store) (p1, p2, locationID string) {
	t.Helper()
	ctx := context.Background()
	r := store.Repos()

	a := &entity.Product{SKU: "SKU-001", Name: "Café molido 500g", Price: d("100")}
	require.NoError(t, r.Products.Create(ctx, a))
	b := &entity.Product{SKU: "SKU-002", Name: "Azúcar 1kg", Price: d("40")}
	require.NoError(t, r.Products.Create(ctx, b))

	l := &entity.Location{Name: "Bodega Central", Active: true}
	require.NoError(t, r.Locations.Create(ctx, l))
	return a.ID, b.ID, l.ID
}

func draftOrder(t *testing.T, uc *purchasing.PurchaseUseCase, p1, p2, lid string) *entity.PurchaseOrder {
	t.Helper()
	order, err := uc.CreateDraft(context.Background(), purchasing.CreateDraftInput{
		SupplierID: "supp-1",
		LocationID: lid,
		Lines: []purchasing.PurchaseLineInput{
			{ProductID: p1, Quantity: d("10"), UnitCost: d("55")},
			{ProductID: p2, Quantity: d("4"), UnitCost: d("20")},
		},
		ActorID: actorID,
	})
	require.NoError(t, err)
	return order
}

func aggregate(t *testing.T, store *memory.Store, productID, locationID string) *entity.StockLevel {
	t.Helper()
	lvl, err := store.Repos().Batches.Aggregate(context.Background(), productID, locationID)
	require.NoError(t, err)
	return lvl
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

// Cada recepción crea un lote nuevo, suma físico+disponible y registra IN.
// La recepción parcial es un estado persistente válido.
func TestPurchaseUseCase_RecepcionParcialYTotal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	order := draftOrder(t, uc, p1, p2, lid)
	assert.Equal(t, entity.PurchaseOrderDraft, order.Status)
	assert.Equal(t, "PO-000001", order.DocNumber)
	assert.Equal(t, "0", aggregate(t, store, p1, lid).OnHand.String(), "el borrador no toca el ledger")

	// Primera recepción: 6 de 10 en la línea 1.
	order, err := uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[0].ID, Quantity: d("6")},
	}, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPartiallyReceived, order.Status)
	assert.Equal(t, "6", order.Lines[0].ReceivedQty.String())
	assert.Equal(t, "6", aggregate(t, store, p1, lid).OnHand.String())

	movs, err := store.Repos().Movements.ListByProduct(ctx, p1, lid, 10)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIN, movs[0].Kind)
	assert.Equal(t, entity.RefPurchaseOrder, movs[0].ReferenceType)
	assert.Equal(t, order.ID, movs[0].ReferenceID)
	assert.Equal(t, "6", movs[0].Quantity.String())

	// Segunda recepción: resto de la línea 1 + línea 2 completa → RECEIVED.
	order, err = uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[0].ID, Quantity: d("4")},
		{LineID: order.Lines[1].ID, Quantity: d("4")},
	}, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, order.Status)
	assert.Equal(t, "10", order.Lines[0].ReceivedQty.String())
	assert.Equal(t, "4", order.Lines[1].ReceivedQty.String())
	assert.Equal(t, "10", aggregate(t, store, p1, lid).OnHand.String())
	assert.Equal(t, "4", aggregate(t, store, p2, lid).OnHand.String())

	// Dos recepciones del mismo producto = dos lotes distintos en orden FIFO;
	// los lotes jamás se fusionan.
	batches, err := store.Repos().Batches.ListByProductLocation(ctx, p1, lid)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "6", batches[0].QtyOnHand.String(), "el lote de la primera recepción va primero")
	assert.Equal(t, "4", batches[1].QtyOnHand.String())
	assert.True(t, batches[0].Seq < batches[1].Seq)
}

// Recibir por encima de lo ordenado rechaza la recepción completa: ni la
// línea válida del mismo llamado queda aplicada.
func TestPurchaseUseCase_Receive_SobreRecepcionAtomica(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	order := draftOrder(t, uc, p1, p2, lid)
	_, err := uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[1].ID, Quantity: d("4")},  // válida
		{LineID: order.Lines[0].ID, Quantity: d("11")}, // excede lo ordenado
	}, actorID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	reloaded, err := uc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderDraft, reloaded.Status)
	assert.Equal(t, "0", reloaded.Lines[1].ReceivedQty.String(), "rollback total")
	assert.Equal(t, "0", aggregate(t, store, p2, lid).OnHand.String())
}

// El acumulado entre recepciones también respeta el tope de lo ordenado.
func TestPurchaseUseCase_Receive_AcumuladoNoExcedeLoOrdenado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	order := draftOrder(t, uc, p1, p2, lid)
	_, err := uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[0].ID, Quantity: d("6")},
	}, actorID)
	require.NoError(t, err)

	_, err = uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[0].ID, Quantity: d("5")}, // 6 + 5 > 10
	}, actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseUseCase_Receive_LineaInexistente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	order := draftOrder(t, uc, p1, p2, lid)
	_, err := uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: "no-existe", Quantity: d("1")},
	}, actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Una bodega desactivada no admite recepciones nuevas.
func TestPurchaseUseCase_Receive_BodegaInactiva(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	order := draftOrder(t, uc, p1, p2, lid)

	loc, err := store.Repos().Locations.GetByID(ctx, lid)
	require.NoError(t, err)
	loc.Active = false
	require.NoError(t, store.Repos().Locations.Update(ctx, loc))

	_, err = uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[0].ID, Quantity: d("1")},
	}, actorID)
	assert.ErrorIs(t, err, domain.ErrLocationInactive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

// Solo un borrador se cancela; con mercancía ya recibida la orden no admite
// cancelación (el stock entrado se corrige por ajuste, no deshaciendo la orden).
func TestPurchaseUseCase_Cancel(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, p2, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	order := draftOrder(t, uc, p1, p2, lid)
	order, err := uc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderCancelled, order.Status)

	// Cancelada no recibe.
	_, err = uc.Receive(ctx, order.ID, []purchasing.ReceiveLineInput{
		{LineID: order.Lines[0].ID, Quantity: d("1")},
	}, actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	other := draftOrder(t, uc, p1, p2, lid)
	_, err = uc.Receive(ctx, other.ID, []purchasing.ReceiveLineInput{
		{LineID: other.Lines[0].ID, Quantity: d("2")},
	}, actorID)
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPurchaseUseCase_CreateDraft_EntradasInvalidas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p1, _, lid := fixture(t, store)
	uc := purchasing.NewPurchaseUseCase(store)

	_, err := uc.CreateDraft(ctx, purchasing.CreateDraftInput{SupplierID: "s", LocationID: lid})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateDraft(ctx, purchasing.CreateDraftInput{
		SupplierID: "s", LocationID: lid,
		Lines: []purchasing.PurchaseLineInput{{ProductID: p1, Quantity: d("5"), UnitCost: d("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo")
}
