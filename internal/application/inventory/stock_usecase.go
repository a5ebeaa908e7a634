package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// StockQueryUseCase lado de lectura del ledger: agregados de stock,
// historial de movimientos, lotes y lista de reposición.
// Solo consultas; nunca muta cantidades.
type StockQueryUseCase struct {
	batchRepo    repository.StockBatchRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
}

// NewStockQueryUseCase construye el caso de uso de consultas.
func NewStockQueryUseCase(
	batchRepo repository.StockBatchRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
	}
}

// GetStockLevel agrega onHand/allocated/available de un producto.
// locationID vacío devuelve el agregado global entre bodegas.
func (uc *StockQueryUseCase) GetStockLevel(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.batchRepo.Aggregate(ctx, productID, locationID)
}

// GetMovementHistory devuelve los movimientos más recientes de un producto,
// opcionalmente filtrados por bodega.
func (uc *StockQueryUseCase) GetMovementHistory(ctx context.Context, productID, locationID string, limit int) ([]*entity.Movement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movementRepo.ListByProduct(ctx, productID, locationID, limit)
}

// GetBatches lista los lotes de un producto en una bodega en orden FIFO.
func (uc *StockQueryUseCase) GetBatches(ctx context.Context, productID, locationID string) ([]*entity.StockBatch, error) {
	return uc.batchRepo.ListByProductLocation(ctx, productID, locationID)
}

// ListLowStock productos en o por debajo de su umbral de reposición.
func (uc *StockQueryUseCase) ListLowStock(ctx context.Context) ([]*entity.LowStockItem, error) {
	return uc.batchRepo.ListBelowThreshold(ctx)
}
