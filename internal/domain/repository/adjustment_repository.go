package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// AdjustmentRepository puerto de persistencia para ajustes manuales.
// Los ajustes no se editan: la única mutación permitida es marcar
// ReversedByID cuando se crea su reversa.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.StockAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error)
	MarkReversed(ctx context.Context, id, reversedByID string) error
	List(ctx context.Context, productID, locationID string, limit, offset int) ([]*entity.StockAdjustment, error)
}
