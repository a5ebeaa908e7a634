// Package sales implementa el ciclo de vida de órdenes de venta:
// DRAFT → CONFIRMED (asignación) → FULFILLED (deducción FIFO),
// con cancelación que libera la asignación. Toda transición corre en una
// transacción con bloqueo de fila sobre la orden y sobre los lotes.
package sales

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

// OrderUseCase gestor del ciclo de vida de órdenes de venta.
type OrderUseCase struct {
	txRunner inventory.TxRunner
	policy   inventory.AllocationPolicy
}

// NewOrderUseCase construye el caso de uso con la política de asignación
// configurada (strict o allow-overcommit).
func NewOrderUseCase(txRunner inventory.TxRunner, policy inventory.AllocationPolicy) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, policy: policy}
}

// OrderLineInput línea solicitada al crear el borrador.
type OrderLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CreateDraftInput entrada para crear una orden en borrador.
type CreateDraftInput struct {
	CustomerID string
	LocationID string
	Lines      []OrderLineInput
	Notes      string
	ActorID    string
}

// CreateDraft crea la orden en DRAFT. Cada línea congela el precio vigente
// del producto; cambios posteriores del precio no afectan la orden.
// Crear un borrador no toca cantidades del ledger.
func (uc *OrderUseCase) CreateDraft(ctx context.Context, in CreateDraftInput) (*entity.SalesOrder, error) {
	if in.CustomerID == "" || in.LocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		loc, err := r.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
		docNumber, err := inventory.NextDocNumber(ctx, r.Sequences, repository.SeqSalesOrder, "SO")
		if err != nil {
			return err
		}
		now := time.Now()
		order = &entity.SalesOrder{
			ID:         uuid.New().String(),
			DocNumber:  docNumber,
			CustomerID: in.CustomerID,
			LocationID: in.LocationID,
			Status:     entity.SalesOrderDraft,
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
			order.Lines = append(order.Lines, entity.SalesOrderLine{
				ID:           uuid.New().String(),
				OrderID:      order.ID,
				ProductID:    l.ProductID,
				Quantity:     l.Quantity,
				UnitPrice:    product.Price, // snapshot
				AllocatedQty: decimal.Zero,
			})
		}
		return r.SalesOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Confirm transiciona DRAFT → CONFIRMED asignando stock por línea en orden
// FIFO. Bajo política strict, una línea sin disponible suficiente rechaza la
// confirmación completa; bajo allow-overcommit el faltante se asigna igual
// (el disponible queda negativo y el despacho fallará hasta que entre stock).
func (uc *OrderUseCase) Confirm(ctx context.Context, orderID, actorID string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanConfirm() {
			return domain.NewInvalidState("sales_order", string(order.Status), "confirm")
		}
		if _, err := inventory.RequireActiveLocation(ctx, r, order.LocationID); err != nil {
			return err
		}
		now := time.Now()
		for i := range order.Lines {
			if err := uc.allocateLine(ctx, r, order, &order.Lines[i], now); err != nil {
				return err
			}
		}
		order.Status = entity.SalesOrderConfirmed
		order.UpdatedAt = now
		return r.SalesOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// allocateLine reparte la cantidad de la línea entre los lotes (bloqueados)
// en orden FIFO, incrementando AllocatedQty y recomputando el disponible.
// La asignación no registra movimientos: el físico no cambia.
func (uc *OrderUseCase) allocateLine(ctx context.Context, r inventory.Repos, order *entity.SalesOrder, line *entity.SalesOrderLine, now time.Time) error {
	batches, err := r.Batches.ListByProductLocationForUpdate(ctx, line.ProductID, order.LocationID)
	if err != nil {
		return err
	}
	dominv.SortFIFO(batches)

	pending := line.Quantity
	for _, b := range batches {
		if !pending.IsPositive() {
			break
		}
		if !b.AvailableQty.IsPositive() {
			continue
		}
		take := decimal.Min(b.AvailableQty, pending)
		b.AllocatedQty = b.AllocatedQty.Add(take)
		b.Recalc()
		b.UpdatedAt = now
		if err := b.CheckInvariant(uc.policy.Overcommit()); err != nil {
			return err
		}
		if err := r.Batches.Update(ctx, b); err != nil {
			return err
		}
		pending = pending.Sub(take)
	}

	if pending.IsPositive() {
		if !uc.policy.Overcommit() {
			available := dominv.TotalDeductible(batches, dominv.BasisAvailable).Add(line.Quantity.Sub(pending))
			return domain.NewInsufficientStock(line.ProductID, order.LocationID, line.Quantity, available)
		}
		// Sobre-asignación: el faltante cae en el lote más nuevo, o en un
		// lote vacío si el producto aún no tiene stock en la bodega.
		var last *entity.StockBatch
		if len(batches) > 0 {
			last = batches[len(batches)-1]
		} else {
			last = entity.NewStockBatch(line.ProductID, order.LocationID, now)
			if err := r.Batches.Create(ctx, last); err != nil {
				return err
			}
		}
		last.AllocatedQty = last.AllocatedQty.Add(pending)
		last.Recalc()
		last.UpdatedAt = now
		if err := last.CheckInvariant(true); err != nil {
			return err
		}
		if err := r.Batches.Update(ctx, last); err != nil {
			return err
		}
	}
	line.AllocatedQty = line.Quantity
	return nil
}

// Fulfill transiciona CONFIRMED → FULFILLED. Deduce cada línea vía FIFO sobre
// lo asignado (físico y asignado bajan juntos, el disponible no cambia) y
// registra un movimiento OUT por lote. Si alguna línea no se cubre, la orden
// completa falla y permanece CONFIRMED sin ningún lote mutado.
func (uc *OrderUseCase) Fulfill(ctx context.Context, orderID, actorID string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanFulfill() {
			return domain.NewInvalidState("sales_order", string(order.Status), "fulfill")
		}
		now := time.Now()
		ref := inventory.MovementRef{
			Kind:    entity.MovementOUT,
			RefType: entity.RefSalesOrder,
			RefID:   order.ID,
			ActorID: actorID,
			Note:    order.DocNumber,
		}
		for i := range order.Lines {
			line := &order.Lines[i]
			plan, err := inventory.PlanDeductionLocked(ctx, r, line.ProductID, order.LocationID, line.Quantity, dominv.BasisAllocated)
			if err != nil {
				return err
			}
			if err := inventory.ApplyDeduction(ctx, r, plan, dominv.BasisAllocated, ref, uc.policy.Overcommit(), now); err != nil {
				return err
			}
			line.AllocatedQty = decimal.Zero
		}
		order.Status = entity.SalesOrderFulfilled
		order.UpdatedAt = now
		return r.SalesOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel transiciona DRAFT|CONFIRMED → CANCELLED. Si la orden estaba
// CONFIRMED libera la asignación original por línea (acotada a cero);
// cancelar un borrador no escribe nada en el ledger.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID, actorID string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanCancel() {
			return domain.NewInvalidState("sales_order", string(order.Status), "cancel")
		}
		now := time.Now()
		if order.Status == entity.SalesOrderConfirmed {
			for i := range order.Lines {
				if err := releaseLine(ctx, r, order, &order.Lines[i], now); err != nil {
					return err
				}
			}
		}
		order.Status = entity.SalesOrderCancelled
		order.UpdatedAt = now
		return r.SalesOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// releaseLine devuelve la asignación de la línea recorriendo los lotes en
// orden FIFO y decrementando AllocatedQty, acotado a cero por lote.
func releaseLine(ctx context.Context, r inventory.Repos, order *entity.SalesOrder, line *entity.SalesOrderLine, now time.Time) error {
	batches, err := r.Batches.ListByProductLocationForUpdate(ctx, line.ProductID, order.LocationID)
	if err != nil {
		return err
	}
	dominv.SortFIFO(batches)

	pending := line.AllocatedQty
	for _, b := range batches {
		if !pending.IsPositive() {
			break
		}
		if !b.AllocatedQty.IsPositive() {
			continue
		}
		release := decimal.Min(b.AllocatedQty, pending)
		b.AllocatedQty = b.AllocatedQty.Sub(release)
		b.Recalc()
		b.UpdatedAt = now
		if err := b.CheckInvariant(true); err != nil {
			return err
		}
		if err := r.Batches.Update(ctx, b); err != nil {
			return err
		}
		pending = pending.Sub(release)
	}
	line.AllocatedQty = decimal.Zero
	return nil
}

// Get consulta una orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		order, err = r.SalesOrders.GetByID(ctx, orderID)
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

// List órdenes por estado (estado vacío = todas).
func (uc *OrderUseCase) List(ctx context.Context, status entity.SalesOrderStatus, limit, offset int) ([]*entity.SalesOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var orders []*entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		orders, err = r.SalesOrders.List(ctx, status, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
