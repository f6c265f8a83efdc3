package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for category persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrCategoryInUse is returned when deleting a category still referenced by products.
	ErrCategoryInUse = errors.New("category is referenced by products")
)

// CategoryRepository defines the interface for category-related database operations.
type CategoryRepository interface {
	// FindByID retrieves a category by its unique ID, active or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// List returns one page of categories with their product counts.
	List(ctx context.Context, filter entity.CategoryFilter) ([]*entity.Category, int64, error)

	// ListActive returns every active category ordered by name.
	ListActive(ctx context.Context) ([]*entity.Category, error)

	// Create persists a new category.
	Create(ctx context.Context, category *entity.Category) error

	// Update modifies an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category. Returns ErrCategoryInUse while products reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}
