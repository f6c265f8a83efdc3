package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}

	return (p.Number - 1) * p.Limit
}

// Normalize clamps the page into sane bounds.
func (p Page) Normalize(defaultLimit, maxLimit int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	return p
}

// PageResult is one page of a listing together with the total match count.
type PageResult[T any] struct {
	Items       []T   `json:"items"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
}

// NewPageResult assembles a PageResult for the given page request.
func NewPageResult[T any](items []T, total int64, page Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}

	return &PageResult[T]{
		Items:       items,
		Count:       len(items),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page.Number,
	}
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID      *uuid.UUID
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Search          string
	SortBy          string
	SortDesc        bool
	IncludeInactive bool
	Page            Page
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Search          string
	IncludeInactive bool
	Page            Page
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search string
	Role   Role
	Page   Page
}

// DateRange bounds a report. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsSet reports whether both bounds are present.
func (r DateRange) IsSet() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}
