package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	List(ctx context.Context, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
}
