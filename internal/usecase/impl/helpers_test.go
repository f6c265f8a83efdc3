package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/infra/persistence/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        4,
			MaxActiveSessions: maxActiveSessions,
		},
		Orders:     &config.OrdersConfig{MaxItems: 5},
		Pagination: &config.PaginationConfig{DefaultLimit: 10, MaxLimit: 50},
		Reports:    &config.ReportsConfig{DefaultLimit: 3, MaxLimit: 5},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

// mockPublisher records published order events.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

// events returns the published events in call order.
func (m *mockPublisher) events() []*service.OrderEvent {
	var out []*service.OrderEvent
	for _, call := range m.Calls {
		if call.Method == "PublishOrderEvent" {
			out = append(out, call.Arguments.Get(1).(*service.OrderEvent))
		}
	}

	return out
}

func seedUser(t *testing.T, store *memory.Store, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:     "Shopper " + uuid.NewString()[:8],
		Email:    uuid.NewString() + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))

	return user
}

func seedCategory(t *testing.T, store *memory.Store, name string) *entity.Category {
	t.Helper()

	category := &entity.Category{Name: name, IsActive: true}
	require.NoError(t, store.Categories().Create(context.Background(), category))

	return category
}

func seedProduct(t *testing.T, store *memory.Store, category *entity.Category, name, price string, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: category.ID,
		IsActive:   true,
	}
	require.NoError(t, store.Products().Create(context.Background(), product))

	return product
}

func stockOf(t *testing.T, store *memory.Store, id uuid.UUID) int {
	t.Helper()

	product, err := store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)

	return product.Stock
}

func callerOf(user *entity.User) entity.Caller {
	return entity.Caller{UserID: user.ID, Role: user.Role}
}
