package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-core/internal/domain/inventory"
)

// MovementRef causa de un movimiento: tipo y documento de referencia,
// quién lo ejecutó y una nota opcional.
type MovementRef struct {
	Kind    entity.MovementKind
	RefType entity.ReferenceType
	RefID   string
	ActorID string
	Note    string
}

// PlanDeductionLocked carga los lotes de producto+bodega con bloqueo de fila
// y construye el plan FIFO. Si el plan no cubre la cantidad devuelve
// InsufficientStockError con el disponible real calculado bajo el mismo lock,
// nunca contra una lectura vieja.
func PlanDeductionLocked(ctx context.Context, r Repos, productID, locationID string, required decimal.Decimal, basis dominv.DeductionBasis) (*dominv.DeductionPlan, error) {
	batches, err := r.Batches.ListByProductLocationForUpdate(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	plan := dominv.PlanDeduction(batches, required, basis)
	if plan.Short() {
		available := dominv.TotalDeductible(batches, basis)
		return nil, domain.NewInsufficientStock(productID, locationID, required, available)
	}
	return plan, nil
}

// ApplyDeduction ejecuta un plan FIFO: por cada toma decrementa el lote según
// la base, revalida invariantes y registra el movimiento correspondiente,
// todo dentro de la transacción del caller.
func ApplyDeduction(ctx context.Context, r Repos, plan *dominv.DeductionPlan, basis dominv.DeductionBasis, ref MovementRef, allowOvercommit bool, now time.Time) error {
	for _, step := range plan.Steps {
		b := step.Batch
		b.QtyOnHand = b.QtyOnHand.Sub(step.Take)
		if basis == dominv.BasisAllocated {
			// Físico y asignado bajan juntos; el disponible no cambia.
			b.AllocatedQty = b.AllocatedQty.Sub(step.Take)
		}
		b.Recalc()
		b.UpdatedAt = now
		if err := b.CheckInvariant(allowOvercommit); err != nil {
			return err
		}
		if err := r.Batches.Update(ctx, b); err != nil {
			return err
		}
		mov := &entity.Movement{
			ProductID:     b.ProductID,
			LocationID:    b.LocationID,
			BatchID:       b.ID,
			Quantity:      step.Take.Neg(),
			Kind:          ref.Kind,
			ReferenceType: ref.RefType,
			ReferenceID:   ref.RefID,
			ActorID:       ref.ActorID,
			Note:          ref.Note,
			CreatedAt:     now,
		}
		if err := r.Movements.Append(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveNewBatch crea un lote nuevo (los lotes jamás se fusionan entre
// recepciones, para preservar la corrección del FIFO), suma el físico y el
// disponible, y registra el movimiento de entrada.
func ReceiveNewBatch(ctx context.Context, r Repos, productID, locationID string, qty decimal.Decimal, ref MovementRef, now time.Time) (*entity.StockBatch, error) {
	b := entity.NewStockBatch(productID, locationID, now)
	b.QtyOnHand = qty
	b.Recalc()
	if err := b.CheckInvariant(false); err != nil {
		return nil, err
	}
	if err := r.Batches.Create(ctx, b); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ProductID:     productID,
		LocationID:    locationID,
		BatchID:       b.ID,
		Quantity:      qty,
		Kind:          ref.Kind,
		ReferenceType: ref.RefType,
		ReferenceID:   ref.RefID,
		ActorID:       ref.ActorID,
		Note:          ref.Note,
		CreatedAt:     now,
	}
	if err := r.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}
	return b, nil
}

// RequireActiveLocation valida que la bodega exista y esté activa.
// Las bodegas inactivas rechazan asignaciones y recepciones nuevas.
func RequireActiveLocation(ctx context.Context, r Repos, locationID string) (*entity.Location, error) {
	loc, err := r.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if !loc.Active {
		return nil, domain.ErrLocationInactive
	}
	return loc, nil
}
