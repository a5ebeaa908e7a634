package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-core/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// batch construye un lote con cantidades ya recalculadas.
func batch(id string, seq int64, receivedAt time.Time, onHand, allocated string) *entity.StockBatch {
	b := &entity.StockBatch{
		ID:           id,
		Seq:          seq,
		ProductID:    "prod-1",
		LocationID:   "loc-1",
		QtyOnHand:    d(onHand),
		AllocatedQty: d(allocated),
		ReceivedAt:   receivedAt,
	}
	b.Recalc()
	return b
}

var (
	t0 = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(24 * time.Hour)
	t2 = t0.Add(48 * time.Hour)
)

// ──────────────────────────────────────────────────────────────────────────────
// SortFIFO
// ──────────────────────────────────────────────────────────────────────────────

// El orden FIFO es por fecha de recepción ascendente.
func TestSortFIFO_OrdenaPorFechaDeRecepcion(t *testing.T) {
	batches := []*entity.StockBatch{
		batch("c", 3, t2, "5", "0"),
		batch("a", 1, t0, "5", "0"),
		batch("b", 2, t1, "5", "0"),
	}
	dominv.SortFIFO(batches)

	assert.Equal(t, "a", batches[0].ID)
	assert.Equal(t, "b", batches[1].ID)
	assert.Equal(t, "c", batches[2].ID)
}

// Dos lotes con el mismo received_at desempatan por Seq (orden de inserción),
// nunca por orden arbitrario.
func TestSortFIFO_DesempataPorSeq(t *testing.T) {
	batches := []*entity.StockBatch{
		batch("segundo", 7, t0, "5", "0"),
		batch("primero", 4, t0, "5", "0"),
	}
	dominv.SortFIFO(batches)

	assert.Equal(t, "primero", batches[0].ID)
	assert.Equal(t, "segundo", batches[1].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// PlanDeduction
// ──────────────────────────────────────────────────────────────────────────────

// La deducción agota el lote más viejo antes de tocar el siguiente.
func TestPlanDeduction_CruzaLotesEnOrdenFIFO(t *testing.T) {
	batches := []*entity.StockBatch{
		batch("nuevo", 2, t1, "10", "0"),
		batch("viejo", 1, t0, "10", "0"),
	}
	plan := dominv.PlanDeduction(batches, d("15"), dominv.BasisAvailable)

	require.False(t, plan.Short())
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "viejo", plan.Steps[0].Batch.ID)
	assert.True(t, plan.Steps[0].Take.Equal(d("10")), "el lote viejo se agota completo")
	assert.Equal(t, "nuevo", plan.Steps[1].Batch.ID)
	assert.True(t, plan.Steps[1].Take.Equal(d("5")))
	assert.True(t, plan.Covered.Equal(d("15")))
}

// Un lote exactamente agotado no genera faltante ni tomas extra.
func TestPlanDeduction_CantidadExacta(t *testing.T) {
	batches := []*entity.StockBatch{batch("a", 1, t0, "10", "0")}
	plan := dominv.PlanDeduction(batches, d("10"), dominv.BasisAvailable)

	require.False(t, plan.Short())
	require.Len(t, plan.Steps, 1)
	assert.True(t, plan.Steps[0].Take.Equal(d("10")))
	assert.True(t, plan.Shortfall.IsZero())
}

// Si los lotes no cubren lo requerido, el plan reporta el faltante; el caller
// debe fallar la operación completa.
func TestPlanDeduction_ReportaFaltante(t *testing.T) {
	batches := []*entity.StockBatch{
		batch("a", 1, t0, "4", "0"),
		batch("b", 2, t1, "3", "0"),
	}
	plan := dominv.PlanDeduction(batches, d("10"), dominv.BasisAvailable)

	assert.True(t, plan.Short())
	assert.True(t, plan.Covered.Equal(d("7")))
	assert.True(t, plan.Shortfall.Equal(d("3")))
}

// Lotes con cantidad cero se saltan: existen para auditoría, no aportan stock.
func TestPlanDeduction_IgnoraLotesVacios(t *testing.T) {
	batches := []*entity.StockBatch{
		batch("vacio", 1, t0, "0", "0"),
		batch("lleno", 2, t1, "8", "0"),
	}
	plan := dominv.PlanDeduction(batches, d("5"), dominv.BasisAvailable)

	require.False(t, plan.Short())
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "lleno", plan.Steps[0].Batch.ID)
}

// Con base en el disponible, la asignación existente resta capacidad.
func TestPlanDeduction_BasisAvailableDescuentaAsignado(t *testing.T) {
	batches := []*entity.StockBatch{batch("a", 1, t0, "10", "6")}
	plan := dominv.PlanDeduction(batches, d("5"), dominv.BasisAvailable)

	assert.True(t, plan.Short())
	assert.True(t, plan.Covered.Equal(d("4")))
}

// Con base en lo asignado, un lote sobre-asignado no puede entregar más que
// su físico: el despacho queda acotado por qty_on_hand.
func TestPlanDeduction_BasisAllocatedAcotadoPorFisico(t *testing.T) {
	sobre := batch("sobre", 1, t0, "10", "15") // sobre-asignado
	plan := dominv.PlanDeduction([]*entity.StockBatch{sobre}, d("15"), dominv.BasisAllocated)

	assert.True(t, plan.Short())
	assert.True(t, plan.Covered.Equal(d("10")))
	assert.True(t, plan.Shortfall.Equal(d("5")))
}

// El planificador no muta los lotes: solo construye el plan.
func TestPlanDeduction_NoMutaLotes(t *testing.T) {
	b := batch("a", 1, t0, "10", "0")
	_ = dominv.PlanDeduction([]*entity.StockBatch{b}, d("4"), dominv.BasisAvailable)

	assert.True(t, b.QtyOnHand.Equal(d("10")))
	assert.True(t, b.AvailableQty.Equal(d("10")))
}

// TotalDeductible suma lo deducible según la base (lo que reportan los
// errores de stock insuficiente).
func TestTotalDeductible(t *testing.T) {
	batches := []*entity.StockBatch{
		batch("a", 1, t0, "10", "6"),
		batch("b", 2, t1, "5", "0"),
	}
	assert.True(t, dominv.TotalDeductible(batches, dominv.BasisAvailable).Equal(d("9")))
	assert.True(t, dominv.TotalDeductible(batches, dominv.BasisOnHand).Equal(d("15")))
	assert.True(t, dominv.TotalDeductible(batches, dominv.BasisAllocated).Equal(d("6")))
}
