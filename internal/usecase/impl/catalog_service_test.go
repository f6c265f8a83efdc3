package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/persistence/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListProducts(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	keyboards := seedCategory(t, store, "Keyboards")
	mice := seedCategory(t, store, "Mice")
	seedProduct(t, store, keyboards, "Mechanical Keyboard", "120.00", 3)
	seedProduct(t, store, keyboards, "Compact Keyboard", "60.00", 3)
	seedProduct(t, store, mice, "Wireless Mouse", "25.00", 3)
	hidden := seedProduct(t, store, mice, "Hidden Mouse", "5.00", 3)
	require.NoError(t, store.Products().Deactivate(ctx, hidden.ID))

	service := NewCatalogService(store.Products(), store.Categories(), newTestConfig(0), newDiscardLogger())

	all, err := service.ListProducts(ctx, entity.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total, "inactive products are never public")

	minPrice := decimal.RequireFromString("50")
	byPrice, err := service.ListProducts(ctx, entity.ProductFilter{
		CategoryID: &keyboards.ID,
		MinPrice:   &minPrice,
		SortBy:     entity.ProductSortPrice,
		SortDesc:   true,
	})
	require.NoError(t, err)
	require.Len(t, byPrice.Items, 2)
	assert.Equal(t, "Mechanical Keyboard", byPrice.Items[0].Name)
	assert.Equal(t, "Compact Keyboard", byPrice.Items[1].Name)

	searched, err := service.ListProducts(ctx, entity.ProductFilter{Search: "  mouse "})
	require.NoError(t, err)
	require.Len(t, searched.Items, 1)
	assert.Equal(t, "Wireless Mouse", searched.Items[0].Name)

	paged, err := service.ListProducts(ctx, entity.ProductFilter{Page: entity.Page{Number: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, 2, paged.TotalPages)
	assert.Equal(t, 2, paged.CurrentPage)
}

func TestCatalogService_ListProducts_RejectsBadFilters(t *testing.T) {
	store := memory.NewStore()
	service := NewCatalogService(store.Products(), store.Categories(), newTestConfig(0), newDiscardLogger())
	low, high := decimal.NewFromInt(10), decimal.NewFromInt(5)
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name   string
		filter entity.ProductFilter
	}{
		{name: "unknown sort column", filter: entity.ProductFilter{SortBy: "price; DROP TABLE products"}},
		{name: "inverted price range", filter: entity.ProductFilter{MinPrice: &low, MaxPrice: &high}},
		{name: "negative min price", filter: entity.ProductFilter{MinPrice: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ListProducts(context.Background(), tt.filter)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestCatalogService_GetProductAndCategories(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	keyboards := seedCategory(t, store, "Keyboards")
	retired := seedCategory(t, store, "Retired")
	retired.IsActive = false
	require.NoError(t, store.Categories().Update(ctx, retired))
	product := seedProduct(t, store, keyboards, "Keyboard", "10.00", 1)
	hidden := seedProduct(t, store, keyboards, "Hidden", "10.00", 1)
	require.NoError(t, store.Products().Deactivate(ctx, hidden.ID))

	service := NewCatalogService(store.Products(), store.Categories(), newTestConfig(0), newDiscardLogger())

	got, err := service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Keyboards", got.Category.Name)

	_, err = service.GetProduct(ctx, hidden.ID)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	categories, err := service.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, keyboards.ID, categories[0].ID)
}
