package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// TransferRepository puerto de persistencia para traslados entre bodegas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error)
	Update(ctx context.Context, transfer *entity.StockTransfer) error
	List(ctx context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error)
}
