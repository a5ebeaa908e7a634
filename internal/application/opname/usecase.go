// Package opname implementa el motor de conciliación por conteo físico:
// snapshot del sistema, captura de conteos y ajustes de auditoría por cada
// diferencia al completar.
package opname

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// OpnameUseCase gestor del ciclo de vida de conteos físicos.
type OpnameUseCase struct {
	txRunner inventory.TxRunner
}

// NewOpnameUseCase construye el caso de uso.
func NewOpnameUseCase(txRunner inventory.TxRunner) *OpnameUseCase {
	return &OpnameUseCase{txRunner: txRunner}
}

// Start crea el conteo y congela el SystemQty de cada producto con stock en
// la bodega, dejándolo IN_PROGRESS, todo en una transacción. Entre el
// snapshot y el cierre puede haber actividad concurrente: ese corrimiento es
// el riesgo conocido que Complete reporta como stock insuficiente.
func (uc *OpnameUseCase) Start(ctx context.Context, locationID, notes, actorID string) (*entity.StockOpname, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var op *entity.StockOpname
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		if _, err := inventory.RequireActiveLocation(ctx, r, locationID); err != nil {
			return err
		}
		docNumber, err := inventory.NextDocNumber(ctx, r.Sequences, repository.SeqOpname, "OPN")
		if err != nil {
			return err
		}
		levels, err := r.Batches.ListLevelsByLocation(ctx, locationID)
		if err != nil {
			return err
		}
		now := time.Now()
		op = &entity.StockOpname{
			ID:         uuid.New().String(),
			DocNumber:  docNumber,
			LocationID: locationID,
			Status:     entity.OpnameInProgress,
			Notes:      notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, lvl := range levels {
			op.Items = append(op.Items, entity.OpnameItem{
				ID:         uuid.New().String(),
				OpnameID:   op.ID,
				ProductID:  lvl.ProductID,
				SystemQty:  lvl.OnHand,
				ActualQty:  nil, // sin contar
				Difference: decimal.Zero,
			})
		}
		return r.Opnames.Create(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// SaveCount registra el conteo de un ítem: fija ActualQty y recalcula
// Difference = ActualQty - SystemQty. Sobrescribir un conteo previo es
// válido (idempotente) mientras el opname siga IN_PROGRESS.
func (uc *OpnameUseCase) SaveCount(ctx context.Context, itemID string, actualQty decimal.Decimal, actorID string) (*entity.OpnameItem, error) {
	if itemID == "" || actualQty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var item *entity.OpnameItem
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		item, err = r.Opnames.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		op, err := r.Opnames.GetByIDForUpdate(ctx, item.OpnameID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if !op.Status.CanRecordCount() {
			return domain.NewInvalidState("opname", string(op.Status), "save_count")
		}
		now := time.Now()
		item.ActualQty = &actualQty
		item.Difference = actualQty.Sub(item.SystemQty)
		item.CountedAt = &now
		return r.Opnames.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Complete transiciona IN_PROGRESS → COMPLETED. Por cada ítem contado con
// diferencia no nula aplica un ajuste de auditoría (increase o decrease según
// el signo) referenciando el opname; los ítems nunca contados se omiten, no
// se tratan como cero. Si algún ajuste falla — por ejemplo una baja que
// excede el stock vivo porque hubo ventas después del snapshot — la
// transacción completa se revierte y el opname permanece IN_PROGRESS.
func (uc *OpnameUseCase) Complete(ctx context.Context, opnameID, actorID string) (*entity.StockOpname, error) {
	var op *entity.StockOpname
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		op, err = r.Opnames.GetByIDForUpdate(ctx, opnameID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if !op.Status.CanComplete() {
			return domain.NewInvalidState("opname", string(op.Status), "complete")
		}
		now := time.Now()
		for i := range op.Items {
			item := &op.Items[i]
			if !item.Counted() || item.Difference.IsZero() {
				continue
			}
			direction := entity.AdjustmentIncrease
			if item.Difference.IsNegative() {
				direction = entity.AdjustmentDecrease
			}
			_, err := inventory.ApplyAdjustmentInTx(ctx, r, inventory.ApplyAdjustmentInput{
				ProductID:  item.ProductID,
				LocationID: op.LocationID,
				Direction:  direction,
				Quantity:   item.Difference.Abs(),
				Reason:     entity.ReasonAudit,
				Note:       "conteo físico " + op.DocNumber,
				ActorID:    actorID,
				RefType:    entity.RefOpname,
				RefID:      op.ID,
			}, now)
			if err != nil {
				return err
			}
		}
		op.Status = entity.OpnameCompleted
		op.UpdatedAt = now
		return r.Opnames.Update(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Cancel transiciona cualquier estado previo a COMPLETED → CANCELLED.
func (uc *OpnameUseCase) Cancel(ctx context.Context, opnameID string) (*entity.StockOpname, error) {
	var op *entity.StockOpname
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		op, err = r.Opnames.GetByIDForUpdate(ctx, opnameID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if !op.Status.CanCancel() {
			return domain.NewInvalidState("opname", string(op.Status), "cancel")
		}
		op.Status = entity.OpnameCancelled
		op.UpdatedAt = time.Now()
		return r.Opnames.Update(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Get consulta un conteo con sus ítems.
func (uc *OpnameUseCase) Get(ctx context.Context, opnameID string) (*entity.StockOpname, error) {
	var op *entity.StockOpname
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		op, err = r.Opnames.GetByID(ctx, opnameID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}
