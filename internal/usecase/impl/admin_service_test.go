package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminServiceFixtures holds all test dependencies for admin service tests.
type adminServiceFixtures struct {
	service usecase.AdminUsecase
	store   *memory.Store
	admin   *entity.User
}

func createTestAdminService(t *testing.T) adminServiceFixtures {
	store := memory.NewStore()

	service := NewAdminService(AdminServiceParams{
		TxManager:    memory.NewTransactionManager(store),
		CategoryRepo: store.Categories(),
		ProductRepo:  store.Products(),
		UserRepo:     store.Users(),
		Config:       newTestConfig(0),
		Logger:       newDiscardLogger(),
	})

	return adminServiceFixtures{
		service: service,
		store:   store,
		admin:   seedUser(t, store, entity.RoleAdmin),
	}
}

func TestAdminService_Categories(t *testing.T) {
	fx := createTestAdminService(t)
	ctx := context.Background()

	category, err := fx.service.CreateCategory(ctx, &usecase.CreateCategoryInput{Name: " Audio ", Description: "Headphones"})
	require.NoError(t, err)
	assert.Equal(t, "Audio", category.Name)
	assert.True(t, category.IsActive)

	_, err = fx.service.CreateCategory(ctx, &usecase.CreateCategoryInput{Name: "Audio"})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryAlreadyExists)

	_, err = fx.service.CreateCategory(ctx, &usecase.CreateCategoryInput{Name: " "})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	updated, err := fx.service.UpdateCategory(ctx, category.ID, &usecase.UpdateCategoryInput{
		Name:     ptr("Hi-Fi"),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi-Fi", updated.Name)
	assert.Equal(t, "Headphones", updated.Description)
	assert.False(t, updated.IsActive)

	_, err = fx.service.UpdateCategory(ctx, uuid.New(), &usecase.UpdateCategoryInput{Name: ptr("x")})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

	page, err := fx.service.ListCategories(ctx, entity.CategoryFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total, "admin listings include inactive categories")
}

func TestAdminService_DeleteCategory(t *testing.T) {
	fx := createTestAdminService(t)
	ctx := context.Background()
	used := seedCategory(t, fx.store, "Used")
	empty := seedCategory(t, fx.store, "Empty")
	seedProduct(t, fx.store, used, "Thing", "1.00", 1)

	assert.ErrorIs(t, fx.service.DeleteCategory(ctx, used.ID), domainerrors.ErrCategoryInUse)
	require.NoError(t, fx.service.DeleteCategory(ctx, empty.ID))
	assert.ErrorIs(t, fx.service.DeleteCategory(ctx, empty.ID), domainerrors.ErrCategoryNotFound)
}

func TestAdminService_Products(t *testing.T) {
	fx := createTestAdminService(t)
	ctx := context.Background()
	category := seedCategory(t, fx.store, "Keyboards")

	product, err := fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:           "Keyboard",
		Price:          decimal.RequireFromString("99.90"),
		Stock:          7,
		CategoryID:     category.ID,
		Images:         []string{"https://cdn.example.com/kb.png"},
		Specifications: map[string]any{"layout": "ansi"},
	})
	require.NoError(t, err)
	assert.True(t, product.IsActive)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Keyboards", product.Category.Name)

	_, err = fx.service.CreateProduct(ctx, &usecase.CreateProductInput{Name: "Orphan", CategoryID: uuid.New()})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

	_, err = fx.service.CreateProduct(ctx, &usecase.CreateProductInput{Name: "Cheap", CategoryID: category.ID, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	updated, err := fx.service.UpdateProduct(ctx, product.ID, &usecase.UpdateProductInput{
		Price: ptr(decimal.RequireFromString("89.90")),
		Stock: ptr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "89.90", updated.Price.StringFixed(2))
	assert.Equal(t, 12, updated.Stock)
	assert.Equal(t, "Keyboard", updated.Name)
	assert.Equal(t, []string{"https://cdn.example.com/kb.png"}, updated.Images)

	_, err = fx.service.UpdateProduct(ctx, product.ID, &usecase.UpdateProductInput{Stock: ptr(-1)})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.UpdateProduct(ctx, uuid.New(), &usecase.UpdateProductInput{Stock: ptr(1)})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	require.NoError(t, fx.service.DeleteProduct(ctx, product.ID))
	stored, err := fx.store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive, "delete is a soft delete")

	page, err := fx.service.ListProducts(ctx, entity.ProductFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total, "admin listings include inactive products")
}

func TestAdminService_Users(t *testing.T) {
	fx := createTestAdminService(t)
	ctx := context.Background()
	shopper := seedUser(t, fx.store, entity.RoleUser)
	caller := callerOf(fx.admin)

	page, err := fx.service.ListUsers(ctx, entity.UserFilter{Role: entity.RoleUser})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, shopper.ID, page.Items[0].ID)

	_, err = fx.service.ListUsers(ctx, entity.UserFilter{Role: "root"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	updated, err := fx.service.UpdateUser(ctx, caller, shopper.ID, &usecase.UpdateUserInput{Role: ptr(entity.RoleAdmin), Phone: ptr("555")})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, updated.Role)
	assert.Equal(t, "555", updated.Phone)

	_, err = fx.service.UpdateUser(ctx, caller, fx.admin.ID, &usecase.UpdateUserInput{Role: ptr(entity.RoleUser)})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.ErrorIs(t, fx.service.DeactivateUser(ctx, caller, fx.admin.ID), domainerrors.ErrForbidden)

	require.NoError(t, fx.store.RefreshTokens().CreateRefreshToken(ctx, &entity.RefreshToken{
		UserID:    shopper.ID,
		TokenHash: "hash",
		ExpiresAt: updated.CreatedAt.AddDate(1, 0, 0),
	}))
	require.NoError(t, fx.service.DeactivateUser(ctx, caller, shopper.ID))

	got, err := fx.service.GetUser(ctx, shopper.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	_, err = fx.store.RefreshTokens().FindRefreshTokenByHash(ctx, "hash")
	assert.Error(t, err, "deactivation revokes sessions")

	_, err = fx.service.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	stats, err := fx.service.UserStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.InactiveUsers)
	assert.EqualValues(t, 2, stats.RecentRegistrations)
}
