package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-core/internal/domain/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// AdjustmentUseCase aplica correcciones manuales con signo y sus reversas.
// increase crea un lote nuevo; decrease deduce FIFO sobre el disponible y
// falla completa si no alcanza: el stock jamás queda negativo por un ajuste.
type AdjustmentUseCase struct {
	txRunner TxRunner
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner TxRunner) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner}
}

// ApplyAdjustmentInput entrada para un ajuste manual.
type ApplyAdjustmentInput struct {
	ProductID  string
	LocationID string
	Direction  entity.AdjustmentDirection
	Quantity   decimal.Decimal
	Reason     entity.AdjustmentReason
	Note       string
	ActorID    string
	// ReversalOfID enlaza la reversa con su ajuste original (uso interno).
	ReversalOfID string
	// RefType/RefID sobreescriben la referencia de los movimientos generados
	// (el motor de conciliación referencia el opname en vez del ajuste).
	RefType entity.ReferenceType
	RefID   string
}

func (in ApplyAdjustmentInput) validate() error {
	if in.ProductID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Direction.Valid() || !in.Reason.Valid() {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply ejecuta el ajuste en una transacción propia.
func (uc *AdjustmentUseCase) Apply(ctx context.Context, in ApplyAdjustmentInput) (*entity.StockAdjustment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var adj *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		adj, err = ApplyAdjustmentInTx(ctx, r, in, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// ApplyAdjustmentInTx aplica un ajuste dentro de la transacción del caller.
// Lo usa también el motor de conciliación al completar un opname.
func ApplyAdjustmentInTx(ctx context.Context, r Repos, in ApplyAdjustmentInput, now time.Time) (*entity.StockAdjustment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := r.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := RequireActiveLocation(ctx, r, in.LocationID); err != nil {
		return nil, err
	}

	docNumber, err := NextDocNumber(ctx, r.Sequences, repository.SeqAdjustment, "ADJ")
	if err != nil {
		return nil, err
	}
	adj := &entity.StockAdjustment{
		ID:         uuid.New().String(),
		DocNumber:  docNumber,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Direction:  in.Direction,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		Note:         in.Note,
		ReversalOfID: in.ReversalOfID,
		CreatedBy:    in.ActorID,
		CreatedAt:    now,
	}
	if err := r.Adjustments.Create(ctx, adj); err != nil {
		return nil, err
	}

	ref := MovementRef{
		Kind:    entity.MovementADJUST,
		RefType: entity.RefAdjustment,
		RefID:   adj.ID,
		ActorID: in.ActorID,
		Note:    in.Note,
	}
	if in.RefType != "" {
		if !in.RefType.Valid() {
			return nil, domain.ErrInvalidInput
		}
		ref.RefType = in.RefType
		ref.RefID = in.RefID
	}
	if in.Direction == entity.AdjustmentIncrease {
		if _, err := ReceiveNewBatch(ctx, r, in.ProductID, in.LocationID, in.Quantity, ref, now); err != nil {
			return nil, err
		}
		return adj, nil
	}
	plan, err := PlanDeductionLocked(ctx, r, in.ProductID, in.LocationID, in.Quantity, dominv.BasisAvailable)
	if err != nil {
		return nil, err
	}
	if err := ApplyDeduction(ctx, r, plan, dominv.BasisAvailable, ref, false, now); err != nil {
		return nil, err
	}
	return adj, nil
}

// Reverse crea el ajuste espejo del original (dirección opuesta, misma
// cantidad, misma razón) referenciándolo. El original queda marcado como
// reversado y no admite una segunda reversa; nunca se edita ni se borra.
func (uc *AdjustmentUseCase) Reverse(ctx context.Context, adjustmentID, actorID string) (*entity.StockAdjustment, error) {
	if adjustmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	var mirror *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		original, err := r.Adjustments.GetByIDForUpdate(ctx, adjustmentID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if original.ReversedByID != "" {
			return domain.ErrAlreadyReversed
		}
		now := time.Now()
		mirror, err = ApplyAdjustmentInTx(ctx, r, ApplyAdjustmentInput{
			ProductID:    original.ProductID,
			LocationID:   original.LocationID,
			Direction:    original.Direction.Opposite(),
			Quantity:     original.Quantity,
			Reason:       original.Reason,
			Note:         "reversa de " + original.DocNumber,
			ActorID:      actorID,
			ReversalOfID: original.ID,
		}, now)
		if err != nil {
			return err
		}
		if err := r.Adjustments.MarkReversed(ctx, original.ID, mirror.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mirror, nil
}

// Get consulta un ajuste puntual (lectura, transacción propia).
func (uc *AdjustmentUseCase) Get(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	var adj *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		adj, err = r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}
