package repository

import (
	"context"

	"storefront/internal/domain/entity"
)

// ReportRepository runs the read-only sales aggregations. Only orders whose status
// counts as a sale contribute. Every bound is passed as a query parameter.
type ReportRepository interface {
	// SalesByCategory aggregates sold quantities and revenue per category.
	SalesByCategory(ctx context.Context, dateRange entity.DateRange) ([]*entity.CategorySales, error)

	// TopSellingProducts returns the limit products with the highest sold quantity.
	TopSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error)

	// WorstSellingProducts returns the limit active products with the lowest sold
	// quantity, including products that never sold.
	WorstSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error)
}
