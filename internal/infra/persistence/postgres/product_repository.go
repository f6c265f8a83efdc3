package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productSortColumns maps accepted sort keys to columns. Anything else falls back to created_at.
var productSortColumns = map[string]string{
	entity.ProductSortCreatedAt: "products.created_at",
	entity.ProductSortPrice:     "products.price",
	entity.ProductSortName:      "products.name",
	entity.ProductSortStock:     "products.stock",
}

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindByID retrieves a product by its unique ID, active or not.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// LockByIDs loads the products with SELECT ... FOR UPDATE in ascending id order.
// Two transactions locking overlapping sets therefore acquire the rows in the same order.
func (repo *productRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	locked := make(map[uuid.UUID]*entity.Product, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}

	sorted := sortedUniqueIDs(ids)

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to lock products")
	}

	for _, productM := range productModels {
		locked[productM.ID] = toProductDomain(productM)
	}

	return locked, nil
}

// DecrementStock takes quantity units only while enough remain.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return repository.ErrInsufficientStock
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}

	if result.RowsAffected == 0 {
		return repository.ErrInsufficientStock
	}

	return nil
}

// IncrementStock returns quantity units to the product.
func (repo *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to increment stock")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// List returns one page of products matching the filter.
func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("(products.name ILIKE ? OR products.description ILIKE ? OR products.brand ILIKE ?)", pattern, pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	var productModels []*model.ProductModel
	if err := query.
		Preload("Category").
		Order(productOrder(filter.SortBy, filter.SortDesc)).
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit).
		Find(&productModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, total, nil
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM, err := fromProductDomain(product)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Omit("Category").Create(productM).Error; err != nil {
		return productWriteError(err, "failed to create product")
	}

	if !product.IsActive {
		// GORM skips zero values that carry a column default on insert.
		if err := repo.db.WithContext(ctx).Model(productM).Update("is_active", false).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
		}
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM, err := fromProductDomain(product)
	if err != nil {
		return err
	}

	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":           productM.Name,
			"description":    productM.Description,
			"price":          productM.Price,
			"stock":          productM.Stock,
			"category_id":    productM.CategoryID,
			"brand":          productM.Brand,
			"images":         productM.Images,
			"specifications": productM.Specifications,
			"is_active":      productM.IsActive,
			"updated_at":     now,
		})

	if result.Error != nil {
		return productWriteError(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}
	product.UpdatedAt = now

	return nil
}

// Deactivate hides a product from the catalog.
func (repo *productRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to deactivate product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func productWriteError(err error, details string) error {
	switch {
	case isForeignKeyConstraintViolation(err):
		return repository.ErrCategoryNotFound
	case isCheckConstraintViolation(err):
		return domainerrors.NewValidationError("price and stock must not be negative")
	default:
		return domainerrors.NewDatabaseExecuteError(err, details)
	}
}

func productOrder(sortBy string, desc bool) string {
	column, ok := productSortColumns[sortBy]
	if !ok {
		column = productSortColumns[entity.ProductSortCreatedAt]
	}
	direction := " ASC"
	if desc {
		direction = " DESC"
	}

	// id breaks ties so pages stay stable.
	return column + direction + ", products.id ASC"
}

// sortedUniqueIDs returns ids deduplicated and in the byte order PostgreSQL uses for uuid.
func sortedUniqueIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	return slices.Compact(sorted)
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	images := []string{}
	if len(data.Images) > 0 {
		// A malformed column degrades to no images rather than failing the read.
		_ = json.Unmarshal(data.Images, &images)
	}

	specs := map[string]any{}
	for k, v := range data.Specifications {
		specs[k] = v
	}

	product := &entity.Product{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		Stock:          data.Stock,
		CategoryID:     data.CategoryID,
		Brand:          data.Brand,
		Images:         images,
		Specifications: specs,
		IsActive:       data.IsActive,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
	if data.Category != nil {
		product.Category = &entity.CategorySummary{ID: data.Category.ID, Name: data.Category.Name}
	}

	return product
}

func fromProductDomain(data *entity.Product) (*model.ProductModel, error) {
	images := data.Images
	if images == nil {
		images = []string{}
	}
	rawImages, err := json.Marshal(images)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode product images")
	}

	specs := datatypes.JSONMap{}
	for k, v := range data.Specifications {
		specs[k] = v
	}

	return &model.ProductModel{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		Stock:          data.Stock,
		CategoryID:     data.CategoryID,
		Brand:          data.Brand,
		Images:         datatypes.JSON(rawImages),
		Specifications: specs,
		IsActive:       data.IsActive,
	}, nil
}
