package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name        string    `gorm:"type:varchar(100);unique;not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []ProductModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel mirrors the 'products' table. Stock is guarded by a CHECK constraint
// in addition to the conditional decrement issued by the repository.
type ProductModel struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name           string            `gorm:"type:varchar(200);not null;index"`
	Description    string            `gorm:"type:text"`
	Price          decimal.Decimal   `gorm:"type:numeric(10,2);not null;check:chk_products_price,price >= 0"`
	Stock          int               `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	CategoryID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Brand          string            `gorm:"type:varchar(100)"`
	Images         datatypes.JSON    `gorm:"type:jsonb;not null;default:'[]'"`
	Specifications datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	IsActive       bool              `gorm:"not null;default:true;index"`
	CreatedAt      time.Time         `gorm:"index"`
	UpdatedAt      time.Time

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
