package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CatalogUsecase is the public, read-only view of the catalog. Inactive
// products and categories are invisible through it.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, filter entity.ProductFilter) (*entity.PageResult[*entity.Product], error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
}
