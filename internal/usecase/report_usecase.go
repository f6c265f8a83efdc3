package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// ReportUsecase runs the admin sales reports.
type ReportUsecase interface {
	SalesByCategory(ctx context.Context, dateRange entity.DateRange) ([]*entity.CategorySales, error)
	// TopSellingProducts clamps limit into the configured bounds; zero selects the default.
	TopSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error)
	WorstSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error)
}
