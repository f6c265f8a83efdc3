package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. Stock never drops below zero; every decrement
// goes through the order placement transaction or an admin update.
type Product struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	Stock          int              `json:"stock"`
	CategoryID     uuid.UUID        `json:"category_id"`
	Category       *CategorySummary `json:"category,omitempty"`
	Brand          string           `json:"brand,omitempty"`
	Images         []string         `json:"images"`
	Specifications map[string]any   `json:"specifications"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// IsAvailable reports whether the product may be ordered at all.
func (p *Product) IsAvailable() bool {
	return p != nil && p.IsActive
}

// HasStock reports whether quantity units can be taken from the product.
func (p *Product) HasStock(quantity int) bool {
	return p != nil && quantity > 0 && p.Stock >= quantity
}

// Summary returns the product data embedded in order items.
func (p *Product) Summary() *ProductSummary {
	if p == nil {
		return nil
	}

	return &ProductSummary{
		ID:     p.ID,
		Name:   p.Name,
		Images: p.Images,
		Price:  p.Price,
	}
}

// ProductSummary is the product reference embedded in order read models.
type ProductSummary struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Images []string        `json:"images"`
	Price  decimal.Decimal `json:"price"`
}

// Product sort keys accepted by catalog listings.
const (
	ProductSortCreatedAt = "created_at"
	ProductSortPrice     = "price"
	ProductSortName      = "name"
	ProductSortStock     = "stock"
)

// IsValidProductSort reports whether key is an allowed product sort column.
func IsValidProductSort(key string) bool {
	switch key {
	case ProductSortCreatedAt, ProductSortPrice, ProductSortName, ProductSortStock:
		return true
	default:
		return false
	}
}
