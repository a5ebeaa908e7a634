// Package catalog administra los maestros mínimos que el ledger necesita:
// productos y bodegas.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// UseCase CRUD ligero de productos y bodegas.
type UseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(productRepo repository.ProductRepository, locationRepo repository.LocationRepository) *UseCase {
	return &UseCase{productRepo: productRepo, locationRepo: locationRepo}
}

// CreateProductInput datos de alta de producto.
type CreateProductInput struct {
	SKU               string
	Name              string
	Description       string
	UnitMeasure       string
	Price             decimal.Decimal
	LowStockThreshold decimal.Decimal
}

// CreateProduct da de alta un producto con SKU único.
func (uc *UseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.LowStockThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               in.SKU,
		Name:              in.Name,
		Description:       in.Description,
		UnitMeasure:       in.UnitMeasure,
		Price:             in.Price,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct consulta un producto por ID.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProducts lista productos paginados.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.productRepo.List(ctx, limit, offset)
}

// UpdateProductMeta actualiza los metadatos editables (precio y umbral);
// la identidad del producto es inmutable una vez que existen movimientos.
func (uc *UseCase) UpdateProductMeta(ctx context.Context, id string, price, threshold decimal.Decimal) (*entity.Product, error) {
	if price.IsNegative() || threshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Price = price
	p.LowStockThreshold = threshold
	p.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateLocation da de alta una bodega activa.
func (uc *UseCase) CreateLocation(ctx context.Context, name, address string) (*entity.Location, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// GetLocation consulta una bodega por ID.
func (uc *UseCase) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

// ListLocations lista bodegas paginadas.
func (uc *UseCase) ListLocations(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.locationRepo.List(ctx, limit, offset)
}

// SetLocationActive activa o desactiva una bodega. Una bodega inactiva
// rechaza asignaciones y recepciones nuevas, pero su historial sigue legible.
func (uc *UseCase) SetLocationActive(ctx context.Context, id string, active bool) (*entity.Location, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	loc.Active = active
	loc.UpdatedAt = time.Now()
	if err := uc.locationRepo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}
