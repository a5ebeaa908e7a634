package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos. Solo append y lectura:
// el puerto no expone update ni delete, el libro es inmutable.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.Movement) error
	ListByProduct(ctx context.Context, productID, locationID string, limit int) ([]*entity.Movement, error)
	// SumByProductLocation suma las cantidades con signo; debe igualar el
	// QtyOnHand agregado del producto en la bodega (propiedad de reconstrucción).
	SumByProductLocation(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
}
