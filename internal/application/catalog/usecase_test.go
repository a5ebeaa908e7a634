package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/catalog"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newUC(store *memory.Store) *catalog.UseCase {
	r := store.Repos()
	return catalog.NewUseCase(r.Products, r.Locations)
}

func TestCatalogUseCase_CreateProduct(t *testing.T) {
	ctx := context.Background()
	uc := newUC(memory.NewStore())

	p, err := uc.CreateProduct(ctx, catalog.CreateProductInput{
		SKU:               "SKU-001",
		Name:              "Café molido 500g",
		Price:             d("100"),
		LowStockThreshold: d("5"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	// El SKU es único.
	_, err = uc.CreateProduct(ctx, catalog.CreateProductInput{SKU: "SKU-001", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Precio negativo se rechaza.
	_, err = uc.CreateProduct(ctx, catalog.CreateProductInput{SKU: "SKU-002", Name: "X", Price: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, catalog.CreateProductInput{SKU: "", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogUseCase_UpdateProductMeta(t *testing.T) {
	ctx := context.Background()
	uc := newUC(memory.NewStore())

	p, err := uc.CreateProduct(ctx, catalog.CreateProductInput{SKU: "SKU-001", Name: "Café", Price: d("100")})
	require.NoError(t, err)

	p, err = uc.UpdateProductMeta(ctx, p.ID, d("120"), d("8"))
	require.NoError(t, err)
	assert.Equal(t, "120", p.Price.String())
	assert.Equal(t, "8", p.LowStockThreshold.String())

	// La identidad no cambia por esta vía.
	assert.Equal(t, "SKU-001", p.SKU)

	_, err = uc.UpdateProductMeta(ctx, "no-existe", d("1"), d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogUseCase_Locations(t *testing.T) {
	ctx := context.Background()
	uc := newUC(memory.NewStore())

	loc, err := uc.CreateLocation(ctx, "Bodega Central", "Calle 10 #4-21")
	require.NoError(t, err)
	assert.True(t, loc.Active, "las bodegas nacen activas")

	loc, err = uc.SetLocationActive(ctx, loc.ID, false)
	require.NoError(t, err)
	assert.False(t, loc.Active)

	// El historial de una bodega inactiva sigue legible.
	got, err := uc.GetLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = uc.CreateLocation(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
