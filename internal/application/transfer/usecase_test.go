package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
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

// fixture crea un producto y dos bodegas activas (origen y destino).
func fixture(t *testing.T, store *memory.Store) (productID, fromID, toID string) {
	t.Helper()
	ctx := context.Background()
	r := store.Repos()

	p := &entity.Product{SKU: "SKU-001", Name: "Café molido 500g", Price: d("100")}
	require.NoError(t, r.Products.Create(ctx, p))

	from := &entity.Location{Name: "Bodega Central", Active: true}
	require.NoError(t, r.Locations.Create(ctx, from))
	to := &entity.Location{Name: "Sucursal Norte", Active: true}
	require.NoError(t, r.Locations.Create(ctx, to))
	return p.ID, from.ID, to.ID
}

// seedStock recibe lotes en la bodega con fechas crecientes.
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

func createTransfer(t *testing.T, uc *transfer.TransferUseCase, productID, fromID, toID, qty string) *entity.StockTransfer {
	t.Helper()
	tr, err := uc.Create(context.Background(), transfer.CreateInput{
		FromLocationID: fromID,
		ToLocationID:   toID,
		Lines:          []transfer.TransferLineInput{{ProductID: productID, Quantity: d(qty)}},
		ActorID:        actorID,
	})
	require.NoError(t, err)
	return tr
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida feliz: DRAFT → IN_TRANSIT → COMPLETED
// ──────────────────────────────────────────────────────────────────────────────

// Completar deduce FIFO en origen y crea un lote nuevo en destino, con un
// TRANSFER_OUT y un TRANSFER_IN referenciando el traslado.
func TestTransferUseCase_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	seedStock(t, store, pid, fromID, "6", "6")
	uc := transfer.NewTransferUseCase(store)

	tr := createTransfer(t, uc, pid, fromID, toID, "8")
	assert.Equal(t, entity.TransferDraft, tr.Status)
	assert.Equal(t, "TRF-000001", tr.DocNumber)

	tr, err := uc.Dispatch(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, tr.Status)
	assert.Equal(t, "12", aggregate(t, store, pid, fromID).OnHand.String(), "despachar no mueve cantidades")

	tr, err = uc.Complete(ctx, tr.ID, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, tr.Status)

	// Origen: el lote viejo se agotó (6) y el nuevo quedó en 4.
	fromBatches, err := store.Repos().Batches.ListByProductLocation(ctx, pid, fromID)
	require.NoError(t, err)
	require.Len(t, fromBatches, 2)
	assert.Equal(t, "0", fromBatches[0].QtyOnHand.String())
	assert.Equal(t, "4", fromBatches[1].QtyOnHand.String())

	// Destino: un lote nuevo con los 8 trasladados.
	toBatches, err := store.Repos().Batches.ListByProductLocation(ctx, pid, toID)
	require.NoError(t, err)
	require.Len(t, toBatches, 1)
	assert.Equal(t, "8", toBatches[0].QtyOnHand.String())

	// El libro cuadra por bodega.
	sumFrom, err := store.Repos().Movements.SumByProductLocation(ctx, pid, fromID)
	require.NoError(t, err)
	assert.Equal(t, "4", sumFrom.String())
	sumTo, err := store.Repos().Movements.SumByProductLocation(ctx, pid, toID)
	require.NoError(t, err)
	assert.Equal(t, "8", sumTo.String())

	movs, err := store.Repos().Movements.ListByProduct(ctx, pid, toID, 10)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTransferIn, movs[0].Kind)
	assert.Equal(t, entity.RefTransfer, movs[0].ReferenceType)
	assert.Equal(t, tr.ID, movs[0].ReferenceID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos y atomicidad
// ──────────────────────────────────────────────────────────────────────────────

// Si el origen no cubre la cantidad, completar falla entero: el traslado sigue
// IN_TRANSIT y ninguna bodega cambia.
func TestTransferUseCase_Complete_OrigenInsuficiente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	seedStock(t, store, pid, fromID, "5")
	uc := transfer.NewTransferUseCase(store)

	tr := createTransfer(t, uc, pid, fromID, toID, "20")
	_, err := uc.Dispatch(ctx, tr.ID)
	require.NoError(t, err)

	_, err = uc.Complete(ctx, tr.ID, actorID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "20", insufficientErr.Required.String())
	assert.Equal(t, "5", insufficientErr.Available.String())

	reloaded, err := uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, reloaded.Status)
	assert.Equal(t, "5", aggregate(t, store, pid, fromID).OnHand.String())
	assert.Equal(t, "0", aggregate(t, store, pid, toID).OnHand.String())
}

// Lo asignado a órdenes confirmadas no es trasladable: la deducción del
// traslado opera sobre el disponible.
func TestTransferUseCase_Complete_RespetaAsignado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	seedStock(t, store, pid, fromID, "10")

	// Comprometer 7 de los 10 a mano.
	err := store.Run(ctx, func(r inventory.Repos) error {
		batches, err := r.Batches.ListByProductLocationForUpdate(ctx, pid, fromID)
		if err != nil {
			return err
		}
		batches[0].AllocatedQty = d("7")
		batches[0].Recalc()
		return r.Batches.Update(ctx, batches[0])
	})
	require.NoError(t, err)

	uc := transfer.NewTransferUseCase(store)
	tr := createTransfer(t, uc, pid, fromID, toID, "5")
	_, err = uc.Dispatch(ctx, tr.ID)
	require.NoError(t, err)

	_, err = uc.Complete(ctx, tr.ID, actorID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "3", insufficientErr.Available.String(), "solo el disponible cuenta")
}

// El destino debe estar activo para recibir el traslado.
func TestTransferUseCase_Complete_DestinoInactivo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	seedStock(t, store, pid, fromID, "10")
	uc := transfer.NewTransferUseCase(store)

	tr := createTransfer(t, uc, pid, fromID, toID, "5")
	_, err := uc.Dispatch(ctx, tr.ID)
	require.NoError(t, err)

	loc, err := store.Repos().Locations.GetByID(ctx, toID)
	require.NoError(t, err)
	loc.Active = false
	require.NoError(t, store.Repos().Locations.Update(ctx, loc))

	_, err = uc.Complete(ctx, tr.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrLocationInactive)

	reloaded, err := uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, reloaded.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones y validación
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferUseCase_TransicionesInvalidas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	seedStock(t, store, pid, fromID, "10")
	uc := transfer.NewTransferUseCase(store)

	tr := createTransfer(t, uc, pid, fromID, toID, "5")

	// Completar sin despachar.
	_, err := uc.Complete(ctx, tr.ID, actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Dispatch(ctx, tr.ID)
	require.NoError(t, err)
	_, err = uc.Dispatch(ctx, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "doble despacho")

	_, err = uc.Complete(ctx, tr.ID, actorID)
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "completado no se cancela")
}

// Cancelar en tránsito no escribe nada: la deducción solo ocurre al completar.
func TestTransferUseCase_Cancel_EnTransito(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	seedStock(t, store, pid, fromID, "10")
	uc := transfer.NewTransferUseCase(store)

	tr := createTransfer(t, uc, pid, fromID, toID, "5")
	_, err := uc.Dispatch(ctx, tr.ID)
	require.NoError(t, err)
	tr, err = uc.Cancel(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, tr.Status)
	assert.Equal(t, "10", aggregate(t, store, pid, fromID).OnHand.String())
}

func TestTransferUseCase_Create_EntradasInvalidas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pid, fromID, toID := fixture(t, store)
	uc := transfer.NewTransferUseCase(store)

	// Origen y destino iguales.
	_, err := uc.Create(ctx, transfer.CreateInput{
		FromLocationID: fromID,
		ToLocationID:   fromID,
		Lines:          []transfer.TransferLineInput{{ProductID: pid, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas.
	_, err = uc.Create(ctx, transfer.CreateInput{FromLocationID: fromID, ToLocationID: toID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = uc.Create(ctx, transfer.CreateInput{
		FromLocationID: fromID,
		ToLocationID:   toID,
		Lines:          []transfer.TransferLineInput{{ProductID: pid, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
