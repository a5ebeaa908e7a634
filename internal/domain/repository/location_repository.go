package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// LocationRepository puerto de persistencia para Location (bodegas).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
}
