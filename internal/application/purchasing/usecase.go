// Package purchasing implementa el motor de recepción: órdenes de compra y
// la creación de lotes nuevos en cada recepción de mercancía.
package purchasing

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

// PurchaseUseCase gestor de órdenes de compra y recepciones.
type PurchaseUseCase struct {
	txRunner inventory.TxRunner
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner inventory.TxRunner) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner}
}

// PurchaseLineInput línea solicitada al proveedor.
type PurchaseLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// CreateDraftInput entrada para crear una orden de compra.
type CreateDraftInput struct {
	SupplierID string
	LocationID string
	Lines      []PurchaseLineInput
	Notes      string
	ActorID    string
}

// CreateDraft crea la orden de compra en DRAFT sin tocar el ledger.
func (uc *PurchaseUseCase) CreateDraft(ctx context.Context, in CreateDraftInput) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" || in.LocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() || l.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		loc, err := r.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
		docNumber, err := inventory.NextDocNumber(ctx, r.Sequences, repository.SeqPurchaseOrder, "PO")
		if err != nil {
			return err
		}
		now := time.Now()
		order = &entity.PurchaseOrder{
			ID:         uuid.New().String(),
			DocNumber:  docNumber,
			SupplierID: in.SupplierID,
			LocationID: in.LocationID,
			Status:     entity.PurchaseOrderDraft,
			Notes:      in.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, l := range in.Lines {
			product, err := r.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			order.Lines = append(order.Lines, entity.PurchaseOrderLine{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
				ReceivedQty: decimal.Zero,
			})
		}
		return r.PurchaseOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReceiveLineInput cantidad recibida contra una línea de la orden.
type ReceiveLineInput struct {
	LineID   string
	Quantity decimal.Decimal
}

// Receive registra una recepción de mercancía. Cada línea recibida crea un
// lote nuevo con receivedAt = ahora — los lotes jamás se fusionan entre
// recepciones, para preservar el FIFO — suma físico y disponible, registra
// el movimiento IN y acumula ReceivedQty. La recepción parcial es un estado
// persistente válido; la orden queda RECEIVED cuando toda línea se completa.
func (uc *PurchaseUseCase) Receive(ctx context.Context, orderID string, lines []ReceiveLineInput, actorID string) (*entity.PurchaseOrder, error) {
	if orderID == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanReceive() {
			return domain.NewInvalidState("purchase_order", string(order.Status), "receive")
		}
		if _, err := inventory.RequireActiveLocation(ctx, r, order.LocationID); err != nil {
			return err
		}
		now := time.Now()
		ref := inventory.MovementRef{
			Kind:    entity.MovementIN,
			RefType: entity.RefPurchaseOrder,
			RefID:   order.ID,
			ActorID: actorID,
			Note:    order.DocNumber,
		}
		for _, in := range lines {
			if !in.Quantity.IsPositive() {
				return domain.ErrInvalidInput
			}
			line := findLine(order, in.LineID)
			if line == nil {
				return domain.ErrNotFound
			}
			// No se admite recibir por encima de lo ordenado.
			if line.ReceivedQty.Add(in.Quantity).GreaterThan(line.Quantity) {
				return domain.ErrInvalidInput
			}
			if _, err := inventory.ReceiveNewBatch(ctx, r, line.ProductID, order.LocationID, in.Quantity, ref, now); err != nil {
				return err
			}
			line.ReceivedQty = line.ReceivedQty.Add(in.Quantity)
		}
		if order.FullyReceived() {
			order.Status = entity.PurchaseOrderReceived
		} else {
			order.Status = entity.PurchaseOrderPartiallyReceived
		}
		order.UpdatedAt = now
		return r.PurchaseOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func findLine(order *entity.PurchaseOrder, lineID string) *entity.PurchaseOrderLine {
	for i := range order.Lines {
		if order.Lines[i].ID == lineID {
			return &order.Lines[i]
		}
	}
	return nil
}

// Cancel cancela una orden sin recepciones aplicadas.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanCancel() {
			return domain.NewInvalidState("purchase_order", string(order.Status), "cancel")
		}
		order.Status = entity.PurchaseOrderCancelled
		order.UpdatedAt = time.Now()
		return r.PurchaseOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get consulta una orden de compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
