// Package transfer implementa traslados entre bodegas: deducción FIFO en
// origen y creación de lotes nuevos en destino, en una sola transacción.
package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	dominv "github.com/jhoicas/Inventario-core/internal/domain/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// TransferUseCase gestor del ciclo de vida de traslados.
type TransferUseCase struct {
	txRunner inventory.TxRunner
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner inventory.TxRunner) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner}
}

// TransferLineInput línea de traslado solicitada.
type TransferLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CreateInput entrada para crear un traslado.
type CreateInput struct {
	FromLocationID string
	ToLocationID   string
	Lines          []TransferLineInput
	Notes          string
	ActorID        string
}

// Create crea el traslado en DRAFT. No toca cantidades.
func (uc *TransferUseCase) Create(ctx context.Context, in CreateInput) (*entity.StockTransfer, error) {
	if in.FromLocationID == "" || in.ToLocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}
	var tr *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		for _, locID := range []string{in.FromLocationID, in.ToLocationID} {
			loc, err := r.Locations.GetByID(ctx, locID)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.ErrNotFound
			}
		}
		docNumber, err := inventory.NextDocNumber(ctx, r.Sequences, repository.SeqTransfer, "TRF")
		if err != nil {
			return err
		}
		now := time.Now()
		tr = &entity.StockTransfer{
			ID:             uuid.New().String(),
			DocNumber:      docNumber,
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			Status:         entity.TransferDraft,
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		for _, l := range in.Lines {
			product, err := r.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			tr.Lines = append(tr.Lines, entity.StockTransferLine{
				ID:         uuid.New().String(),
				TransferID: tr.ID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
			})
		}
		return r.Transfers.Create(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Dispatch transiciona DRAFT → IN_TRANSIT. La deducción real ocurre al
// completar; el despacho solo marca la mercancía como en camino.
func (uc *TransferUseCase) Dispatch(ctx context.Context, transferID string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, transferID, "dispatch",
		func(s entity.TransferStatus) bool { return s.CanDispatch() },
		entity.TransferInTransit)
}

// Cancel transiciona DRAFT|IN_TRANSIT → CANCELLED sin escrituras de ledger.
func (uc *TransferUseCase) Cancel(ctx context.Context, transferID string) (*entity.StockTransfer, error) {
	return uc.transition(ctx, transferID, "cancel",
		func(s entity.TransferStatus) bool { return s.CanCancel() },
		entity.TransferCancelled)
}

func (uc *TransferUseCase) transition(ctx context.Context, transferID, action string, can func(entity.TransferStatus) bool, next entity.TransferStatus) (*entity.StockTransfer, error) {
	var tr *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		tr, err = r.Transfers.GetByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if !can(tr.Status) {
			return domain.NewInvalidState("transfer", string(tr.Status), action)
		}
		tr.Status = next
		tr.UpdatedAt = time.Now()
		return r.Transfers.Update(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Complete transiciona IN_TRANSIT → COMPLETED. Por cada línea ejecuta la
// deducción FIFO en origen (TRANSFER_OUT) y crea un lote nuevo en destino
// con receivedAt = ahora (TRANSFER_IN), atómicamente. Si el origen no cubre
// alguna línea, el traslado completo falla sin ninguna escritura.
func (uc *TransferUseCase) Complete(ctx context.Context, transferID, actorID string) (*entity.StockTransfer, error) {
	var tr *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		tr, err = r.Transfers.GetByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if !tr.Status.CanComplete() {
			return domain.NewInvalidState("transfer", string(tr.Status), "complete")
		}
		// El destino debe estar activo para recibir; el origen puede estar
		// inactivo, sus lotes históricos siguen siendo deducibles.
		if _, err := inventory.RequireActiveLocation(ctx, r, tr.ToLocationID); err != nil {
			return err
		}
		now := time.Now()
		outRef := inventory.MovementRef{
			Kind:    entity.MovementTransferOut,
			RefType: entity.RefTransfer,
			RefID:   tr.ID,
			ActorID: actorID,
			Note:    tr.DocNumber,
		}
		inRef := outRef
		inRef.Kind = entity.MovementTransferIn
		for _, line := range tr.Lines {
			plan, err := inventory.PlanDeductionLocked(ctx, r, line.ProductID, tr.FromLocationID, line.Quantity, dominv.BasisAvailable)
			if err != nil {
				return err
			}
			if err := inventory.ApplyDeduction(ctx, r, plan, dominv.BasisAvailable, outRef, false, now); err != nil {
				return err
			}
			if _, err := inventory.ReceiveNewBatch(ctx, r, line.ProductID, tr.ToLocationID, line.Quantity, inRef, now); err != nil {
				return err
			}
		}
		tr.Status = entity.TransferCompleted
		tr.UpdatedAt = now
		return r.Transfers.Update(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Get consulta un traslado con sus líneas.
func (uc *TransferUseCase) Get(ctx context.Context, transferID string) (*entity.StockTransfer, error) {
	var tr *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		tr, err = r.Transfers.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}
