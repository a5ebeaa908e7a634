package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU               string          `json:"sku" validate:"required,max=64"`
	Name              string          `json:"name" validate:"required,max=200"`
	Description       string          `json:"description,omitempty"`
	UnitMeasure       string          `json:"unit_measure,omitempty"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateProductRequest body para PUT /api/products/:id (solo metadatos editables).
type UpdateProductRequest struct {
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	UnitMeasure       string          `json:"unit_measure,omitempty"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToProductResponse convierte la entidad al DTO.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		UnitMeasure:       p.UnitMeasure,
		Price:             p.Price,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt,
	}
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address,omitempty"`
}

// SetLocationActiveRequest body para PATCH /api/locations/:id/active.
type SetLocationActiveRequest struct {
	Active bool `json:"active"`
}

// LocationResponse representación HTTP de una bodega.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToLocationResponse convierte la entidad al DTO.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}
