package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a guarded decrement matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	// FindByID retrieves a product by its unique ID, active or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// LockByIDs loads the given products with a row lock held until the surrounding
	// transaction ends. Rows are locked in ascending id order; missing ids are simply
	// absent from the result map.
	LockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)

	// DecrementStock takes quantity units from the product only if enough remain.
	// Returns ErrInsufficientStock when the guard rejects the update.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// IncrementStock returns quantity units to the product.
	// Returns ErrProductNotFound when the product no longer exists.
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// List returns one page of products matching the filter with the total match count.
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, int64, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Deactivate hides a product from the catalog without deleting it.
	Deactivate(ctx context.Context, id uuid.UUID) error
}
