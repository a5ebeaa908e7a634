package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// SalesOrderRepository puerto de persistencia para órdenes de venta y sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	// GetByIDForUpdate bloquea la fila de la orden para serializar
	// transiciones de estado concurrentes sobre la misma orden.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	Update(ctx context.Context, order *entity.SalesOrder) error
	List(ctx context.Context, status entity.SalesOrderStatus, limit, offset int) ([]*entity.SalesOrder, error)
}
