package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySales is one row of the sales-by-category report.
type CategorySales struct {
	CategoryID     uuid.UUID       `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	TotalItemsSold int64           `json:"total_items_sold"`
	TotalQuantity  int64           `json:"total_quantity"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// ProductSales is one row of the top/worst selling product reports.
type ProductSales struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	CategoryName      string          `json:"category_name"`
	TotalQuantitySold int64           `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int64           `json:"total_orders"`
}
