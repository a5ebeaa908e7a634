package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// OpnameRepository puerto de persistencia para conteos físicos y sus ítems.
type OpnameRepository interface {
	Create(ctx context.Context, opname *entity.StockOpname) error
	GetByID(ctx context.Context, id string) (*entity.StockOpname, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockOpname, error)
	Update(ctx context.Context, opname *entity.StockOpname) error
	GetItem(ctx context.Context, itemID string) (*entity.OpnameItem, error)
	UpdateItem(ctx context.Context, item *entity.OpnameItem) error
	List(ctx context.Context, status entity.OpnameStatus, limit, offset int) ([]*entity.StockOpname, error)
}
