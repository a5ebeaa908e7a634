// Package inventory contiene la lógica pura de inventario: el planificador
// de deducción FIFO. No toca persistencia; opera sobre lotes ya cargados
// (y bloqueados) por el caller.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// DeductionBasis indica de qué cantidad del lote se deduce.
type DeductionBasis int

const (
	// BasisAvailable deduce del disponible (ajustes, traslados, salidas sin asignación previa).
	BasisAvailable DeductionBasis = iota
	// BasisOnHand deduce del físico sin mirar asignaciones.
	BasisOnHand
	// BasisAllocated deduce de lo asignado, acotado por el físico
	// (despacho de órdenes confirmadas; un lote sobre-asignado no puede
	// entregar más de lo que tiene).
	BasisAllocated
)

// DeductionStep una toma sobre un lote concreto.
type DeductionStep struct {
	Batch *entity.StockBatch
	Take  decimal.Decimal
}

// DeductionPlan resultado del planificador: tomas por lote en orden FIFO,
// total cubierto y faltante. Si Shortfall > 0 el caller debe fallar la
// operación completa; el plan parcial solo sirve para diagnóstico.
type DeductionPlan struct {
	Steps     []DeductionStep
	Required  decimal.Decimal
	Covered   decimal.Decimal
	Shortfall decimal.Decimal
}

// Short indica si el plan no cubre la cantidad requerida.
func (p *DeductionPlan) Short() bool { return p.Shortfall.IsPositive() }

// remaining cantidad deducible de un lote según la base.
func remaining(b *entity.StockBatch, basis DeductionBasis) decimal.Decimal {
	switch basis {
	case BasisOnHand:
		return b.QtyOnHand
	case BasisAllocated:
		// No se puede entregar más que el físico aunque haya sobre-asignación.
		if b.AllocatedQty.GreaterThan(b.QtyOnHand) {
			return b.QtyOnHand
		}
		return b.AllocatedQty
	default:
		return b.AvailableQty
	}
}

// SortFIFO ordena lotes por fecha de recepción ascendente, con desempate
// determinista por Seq (orden de inserción). Nunca orden arbitrario.
func SortFIFO(batches []*entity.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if batches[i].ReceivedAt.Equal(batches[j].ReceivedAt) {
			return batches[i].Seq < batches[j].Seq
		}
		return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
	})
}

// PlanDeduction recorre los lotes en orden FIFO y toma con avidez
// min(restante del lote, requerido pendiente) hasta cubrir la cantidad o
// agotar los lotes. No muta los lotes: solo construye el plan.
func PlanDeduction(batches []*entity.StockBatch, required decimal.Decimal, basis DeductionBasis) *DeductionPlan {
	SortFIFO(batches)

	plan := &DeductionPlan{
		Required:  required,
		Covered:   decimal.Zero,
		Shortfall: decimal.Zero,
	}
	pending := required
	for _, b := range batches {
		if !pending.IsPositive() {
			break
		}
		avail := remaining(b, basis)
		if !avail.IsPositive() {
			continue
		}
		take := decimal.Min(avail, pending)
		plan.Steps = append(plan.Steps, DeductionStep{Batch: b, Take: take})
		plan.Covered = plan.Covered.Add(take)
		pending = pending.Sub(take)
	}
	plan.Shortfall = pending
	return plan
}

// TotalDeductible suma lo deducible de todos los lotes según la base
// (el "disponible" que reportan los errores de stock insuficiente).
func TotalDeductible(batches []*entity.StockBatch, basis DeductionBasis) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		r := remaining(b, basis)
		if r.IsPositive() {
			total = total.Add(r)
		}
	}
	return total
}
