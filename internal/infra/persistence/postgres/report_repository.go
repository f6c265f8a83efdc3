package postgres

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// reportRepository implements the repository.ReportRepository interface with raw,
// fully parameterized SQL. Only fixed fragments are concatenated; every value is a bind argument.
// Aggregations run on the read replicas when any are configured.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository is the constructor for reportRepository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) reader(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Clauses(dbresolver.Read)
}

// SalesByCategory aggregates sold quantities and revenue per category.
func (repo *reportRepository) SalesByCategory(ctx context.Context, dateRange entity.DateRange) ([]*entity.CategorySales, error) {
	sql, args := salesByCategoryQuery(dateRange)

	var rows []*entity.CategorySales
	if err := repo.reader(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate sales by category")
	}

	return rows, nil
}

// TopSellingProducts returns the limit best selling products.
func (repo *reportRepository) TopSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error) {
	sql, args := topSellingProductsQuery(dateRange, limit)

	var rows []*entity.ProductSales
	if err := repo.reader(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate top selling products")
	}

	return rows, nil
}

// WorstSellingProducts returns the limit active products that sold least, unsold ones first.
func (repo *reportRepository) WorstSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error) {
	sql, args := worstSellingProductsQuery(dateRange, limit)

	var rows []*entity.ProductSales
	if err := repo.reader(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate worst selling products")
	}

	return rows, nil
}

// saleOrderConditions returns the WHERE conditions that select counted orders aliased as o.
func saleOrderConditions(dateRange entity.DateRange) (string, []any) {
	statuses := make([]string, 0, len(entity.SaleStatuses()))
	for _, s := range entity.SaleStatuses() {
		statuses = append(statuses, string(s))
	}

	conditions := []string{"o.status IN ?"}
	args := []any{statuses}
	if !dateRange.From.IsZero() {
		conditions = append(conditions, "o.order_date >= ?")
		args = append(args, dateRange.From)
	}
	if !dateRange.To.IsZero() {
		conditions = append(conditions, "o.order_date <= ?")
		args = append(args, dateRange.To)
	}

	return strings.Join(conditions, " AND "), args
}

func salesByCategoryQuery(dateRange entity.DateRange) (string, []any) {
	where, args := saleOrderConditions(dateRange)

	sql := `SELECT c.id AS category_id,
	c.name AS category_name,
	COUNT(oi.id) AS total_items_sold,
	COALESCE(SUM(oi.quantity), 0) AS total_quantity,
	COALESCE(SUM(oi.subtotal), 0) AS total_revenue
FROM categories c
JOIN products p ON p.category_id = c.id
JOIN order_items oi ON oi.product_id = p.id
JOIN orders o ON o.id = oi.order_id
WHERE ` + where + `
GROUP BY c.id, c.name
ORDER BY total_revenue DESC, c.name ASC`

	return sql, args
}

func topSellingProductsQuery(dateRange entity.DateRange, limit int) (string, []any) {
	where, args := saleOrderConditions(dateRange)

	sql := `SELECT p.id AS product_id,
	p.name AS product_name,
	p.price AS price,
	p.stock AS stock,
	c.name AS category_name,
	SUM(oi.quantity) AS total_quantity_sold,
	SUM(oi.subtotal) AS total_revenue,
	COUNT(DISTINCT o.id) AS total_orders
FROM products p
JOIN categories c ON c.id = p.category_id
JOIN order_items oi ON oi.product_id = p.id
JOIN orders o ON o.id = oi.order_id
WHERE ` + where + `
GROUP BY p.id, p.name, p.price, p.stock, c.name
ORDER BY total_quantity_sold DESC, p.name ASC
LIMIT ?`

	return sql, append(args, limit)
}

func worstSellingProductsQuery(dateRange entity.DateRange, limit int) (string, []any) {
	where, args := saleOrderConditions(dateRange)

	sql := `SELECT p.id AS product_id,
	p.name AS product_name,
	p.price AS price,
	p.stock AS stock,
	c.name AS category_name,
	COALESCE(SUM(s.quantity), 0) AS total_quantity_sold,
	COALESCE(SUM(s.subtotal), 0) AS total_revenue,
	COUNT(DISTINCT s.order_id) AS total_orders
FROM products p
JOIN categories c ON c.id = p.category_id
LEFT JOIN (
	SELECT oi.product_id, oi.quantity, oi.subtotal, oi.order_id
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE ` + where + `
) s ON s.product_id = p.id
WHERE p.is_active = ?
GROUP BY p.id, p.name, p.price, p.stock, c.name
ORDER BY total_quantity_sold ASC, p.name ASC
LIMIT ?`

	return sql, append(args, true, limit)
}
