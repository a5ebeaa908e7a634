package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// StockBatchRepository puerto del Ledger Store: lotes por producto+bodega.
// Los listados devuelven los lotes ordenados por (received_at, seq) ascendente,
// el orden que consume el planificador FIFO.
type StockBatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	Update(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	ListByProductLocation(ctx context.Context, productID, locationID string) ([]*entity.StockBatch, error)
	// ListByProductLocationForUpdate bloquea las filas (SELECT ... FOR UPDATE)
	// durante la transacción en curso. Toda ruta de mutación debe leer por aquí.
	ListByProductLocationForUpdate(ctx context.Context, productID, locationID string) ([]*entity.StockBatch, error)
	// Aggregate agrega onHand/allocated/available; locationID vacío = global.
	Aggregate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	// ListLevelsByLocation agregados por producto de una bodega
	// (snapshot de arranque de un conteo físico).
	ListLevelsByLocation(ctx context.Context, locationID string) ([]*entity.StockLevel, error)
	// ListBelowThreshold productos cuyo agregado global quedó en o bajo su umbral.
	ListBelowThreshold(ctx context.Context) ([]*entity.LowStockItem, error)
}
