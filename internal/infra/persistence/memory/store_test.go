package memory

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, store *Store, stock int) (*entity.User, *entity.Product) {
	t.Helper()
	ctx := context.Background()

	user := &entity.User{Name: "Ada", Email: "ada@example.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, store.Users().Create(ctx, user))

	category := &entity.Category{Name: "Books", IsActive: true}
	require.NoError(t, store.Categories().Create(ctx, category))

	product := &entity.Product{
		Name:       "Go in Action",
		Price:      decimal.RequireFromString("25.50"),
		Stock:      stock,
		CategoryID: category.ID,
		IsActive:   true,
	}
	require.NoError(t, store.Products().Create(ctx, product))

	return user, product
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	_, product := seedCatalog(t, store, 5)
	tm := NewTransactionManager(store)

	boom := errors.New("boom")
	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		require.NoError(t, f.NewProductRepository().DecrementStock(context.Background(), product.ID, 3))

		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Products().FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	_, product := seedCatalog(t, store, 5)
	tm := NewTransactionManager(store)

	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		return f.NewProductRepository().DecrementStock(context.Background(), product.ID, 2)
	})
	require.NoError(t, err)

	got, err := store.Products().FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestTransactionManager_CanceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewTransactionManager(store).Execute(ctx, func(repository.RepositoryFactory) error {
		called = true

		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepository_DecrementStockGuard(t *testing.T) {
	store := NewStore()
	_, product := seedCatalog(t, store, 1)
	repo := store.Products()

	require.ErrorIs(t, repo.DecrementStock(context.Background(), product.ID, 2), repository.ErrInsufficientStock)
	require.NoError(t, repo.DecrementStock(context.Background(), product.ID, 1))
	require.ErrorIs(t, repo.DecrementStock(context.Background(), product.ID, 1), repository.ErrInsufficientStock)

	require.ErrorIs(t, repo.IncrementStock(context.Background(), uuid.New(), 1), repository.ErrProductNotFound)
}

func TestFaultInjector(t *testing.T) {
	store := NewStore()
	_, product := seedCatalog(t, store, 3)

	injected := errors.New("disk full")
	store.SetFaultInjector(func(op string) error {
		if op == "products.decrement_stock" {
			return injected
		}

		return nil
	})

	require.ErrorIs(t, store.Products().DecrementStock(context.Background(), product.ID, 1), injected)

	store.SetFaultInjector(nil)
	require.NoError(t, store.Products().DecrementStock(context.Background(), product.ID, 1))
}

func TestProductRepository_ListFiltersAndSorts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	category := &entity.Category{Name: "Games", IsActive: true}
	require.NoError(t, store.Categories().Create(ctx, category))

	for _, p := range []*entity.Product{
		{Name: "Chess", Price: decimal.NewFromInt(30), Stock: 1, CategoryID: category.ID, IsActive: true},
		{Name: "Go Board", Price: decimal.NewFromInt(80), Stock: 1, CategoryID: category.ID, IsActive: true},
		{Name: "Dice", Price: decimal.NewFromInt(5), Stock: 1, CategoryID: category.ID, IsActive: false},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}

	minPrice := decimal.NewFromInt(10)
	products, total, err := store.Products().List(ctx, entity.ProductFilter{
		MinPrice: &minPrice,
		SortBy:   entity.ProductSortPrice,
		SortDesc: true,
		Page:     entity.Page{Number: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Go Board", products[0].Name)
	assert.Equal(t, "Games", products[0].Category.Name)

	products, total, err = store.Products().List(ctx, entity.ProductFilter{
		Search:          "dIcE",
		IncludeInactive: true,
		Page:            entity.Page{Number: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Dice", products[0].Name)
}

func TestCategoryRepository_DeleteInUse(t *testing.T) {
	store := NewStore()
	_, product := seedCatalog(t, store, 1)

	err := store.Categories().Delete(context.Background(), product.CategoryID)
	require.ErrorIs(t, err, repository.ErrCategoryInUse)

	err = store.Categories().Create(context.Background(), &entity.Category{Name: "Books"})
	require.ErrorIs(t, err, repository.ErrDuplicateCategory)
}

func TestOrderRepository_OwnerScope(t *testing.T) {
	store := NewStore()
	user, product := seedCatalog(t, store, 5)
	ctx := context.Background()

	order := &entity.Order{
		UserID:        user.ID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethodPayPal,
		OrderDate:     time.Now().UTC(),
		Items:         []*entity.OrderItem{entity.NewOrderItem(product, 2)},
	}
	order.TotalAmount = entity.OrderTotal(order.Items)
	require.NoError(t, store.Orders().Create(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.Items[0].ID)

	got, err := store.Orders().FindByID(ctx, order.ID, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.User.Name)
	assert.Equal(t, product.Name, got.Items[0].Product.Name)
	assert.True(t, decimal.RequireFromString("51").Equal(got.TotalAmount))

	stranger := uuid.New()
	_, err = store.Orders().FindByID(ctx, order.ID, &stranger)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderRepository_RequiresOrderDate(t *testing.T) {
	store := NewStore()
	user, product := seedCatalog(t, store, 5)

	order := &entity.Order{
		UserID:        user.ID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethodPayPal,
		Items:         []*entity.OrderItem{entity.NewOrderItem(product, 1)},
	}
	order.TotalAmount = entity.OrderTotal(order.Items)

	err := store.Orders().Create(context.Background(), order)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Equal(t, uuid.Nil, order.ID)
}

func TestReportRepository_CountsOnlySales(t *testing.T) {
	store := NewStore()
	user, product := seedCatalog(t, store, 10)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	place := func(status entity.OrderStatus, qty int) {
		order := &entity.Order{
			UserID:        user.ID,
			Status:        status,
			PaymentStatus: entity.PaymentStatusPending,
			PaymentMethod: entity.PaymentMethodCreditCard,
			OrderDate:     now,
			Items:         []*entity.OrderItem{entity.NewOrderItem(product, qty)},
		}
		order.TotalAmount = entity.OrderTotal(order.Items)
		require.NoError(t, store.Orders().Create(ctx, order))
	}
	place(entity.OrderStatusConfirmed, 2)
	place(entity.OrderStatusDelivered, 1)
	place(entity.OrderStatusPending, 4)
	place(entity.OrderStatusCancelled, 3)

	byCategory, err := store.Reports().SalesByCategory(ctx, entity.DateRange{})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.EqualValues(t, 3, byCategory[0].TotalQuantity)
	assert.True(t, decimal.RequireFromString("76.5").Equal(byCategory[0].TotalRevenue))

	top, err := store.Reports().TopSellingProducts(ctx, entity.DateRange{}, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.EqualValues(t, 2, top[0].TotalOrders)

	outside := entity.DateRange{From: now.Add(time.Hour), To: now.Add(2 * time.Hour)}
	top, err = store.Reports().TopSellingProducts(ctx, outside, 5)
	require.NoError(t, err)
	assert.Empty(t, top)

	worst, err := store.Reports().WorstSellingProducts(ctx, outside, 5)
	require.NoError(t, err)
	require.Len(t, worst, 1)
	assert.Zero(t, worst[0].TotalQuantitySold)
}

func TestRefreshTokenRepository_Expiry(t *testing.T) {
	store := NewStore()
	user, _ := seedCatalog(t, store, 1)
	ctx := context.Background()
	now := time.Now()
	repo := store.RefreshTokens()

	require.NoError(t, repo.CreateRefreshToken(ctx, &entity.RefreshToken{UserID: user.ID, TokenHash: "a", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.CreateRefreshToken(ctx, &entity.RefreshToken{UserID: user.ID, TokenHash: "b", ExpiresAt: now.Add(-time.Hour)}))

	count, err := repo.CountActiveSessionsByUserID(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	removed, err := repo.DeleteExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = repo.FindRefreshTokenByHash(ctx, "b")
	require.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)
}
