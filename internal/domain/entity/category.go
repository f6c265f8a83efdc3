package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Names are unique across the catalog.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsActive     bool      `json:"is_active"`
	ProductCount int64     `json:"product_count"` // populated by admin listings only
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategorySummary is the category reference embedded in product read models.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
