package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryInput defines a new category.
type CreateCategoryInput struct {
	Name        string
	Description string
}

// UpdateCategoryInput changes a category. Nil leaves a field untouched.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CreateProductInput defines a new product.
type CreateProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Stock          int
	CategoryID     uuid.UUID
	Brand          string
	Images         []string
	Specifications map[string]any
}

// UpdateProductInput changes a product. Nil leaves a field untouched.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Stock          *int
	CategoryID     *uuid.UUID
	Brand          *string
	Images         []string
	Specifications map[string]any
	IsActive       *bool
}

// UpdateUserInput is the admin edit of an account. Nil leaves a field untouched.
type UpdateUserInput struct {
	Name     *string
	Phone    *string
	Address  *string
	Role     *entity.Role
	IsActive *bool
}

// AdminUsecase groups the back-office operations. Callers must hold the admin role.
type AdminUsecase interface {
	// Categories
	ListCategories(ctx context.Context, filter entity.CategoryFilter) (*entity.PageResult[*entity.Category], error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input *UpdateCategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	// Products
	ListProducts(ctx context.Context, filter entity.ProductFilter) (*entity.PageResult[*entity.Product], error)
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Users
	ListUsers(ctx context.Context, filter entity.UserFilter) (*entity.PageResult[*entity.User], error)
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateUser(ctx context.Context, caller entity.Caller, userID uuid.UUID, input *UpdateUserInput) (*entity.User, error)
	DeactivateUser(ctx context.Context, caller entity.Caller, userID uuid.UUID) error
	UserStats(ctx context.Context) (*entity.UserStats, error)
}
