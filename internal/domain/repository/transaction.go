package repository

import "context"

// TransactionManager runs a unit of work in a single store transaction.
// Order placement and cancellation rely on it for their all-or-nothing stock effects.
type TransactionManager interface {
	// Execute commits when fn returns nil and rolls back on any error or panic.
	// fn must reach the store only through the factory it receives.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the enclosing transaction.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewCategoryRepository() CategoryRepository
	NewProductRepository() ProductRepository
	NewOrderRepository() OrderRepository
	NewRefreshTokenRepository() RefreshTokenRepository
}
