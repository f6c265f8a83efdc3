package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// catalogService implements the public CatalogUsecase.
type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	config       *config.Config
	logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		config:       cfg,
		logger:       logger,
	}
}

// validateProductFilter normalizes the page and rejects sort keys and price bounds
// that make no sense.
func validateProductFilter(cfg *config.Config, filter entity.ProductFilter) (entity.ProductFilter, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.SortBy == "" {
		filter.SortBy = entity.ProductSortCreatedAt
	}
	if !entity.IsValidProductSort(filter.SortBy) {
		return filter, domainerrors.NewValidationError("sortBy must be one of created_at, price, name, stock")
	}
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		return filter, domainerrors.NewValidationError("minPrice must not be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return filter, domainerrors.NewValidationError("minPrice must not exceed maxPrice")
	}
	filter.Page = normalizePage(cfg, filter.Page)

	return filter, nil
}

// ListProducts lists active products only.
func (srv *catalogService) ListProducts(ctx context.Context, filter entity.ProductFilter) (*entity.PageResult[*entity.Product], error) {
	filter, err := validateProductFilter(srv.config, filter)
	if err != nil {
		return nil, err
	}
	filter.IncludeInactive = false

	products, total, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return entity.NewPageResult(products, total, filter.Page), nil
}

// GetProduct returns an active product; inactive ones are reported as not found.
func (srv *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}
	if !product.IsAvailable() {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product is inactive")
	}

	return product, nil
}

func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}
