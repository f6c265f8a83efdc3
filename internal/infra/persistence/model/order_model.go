package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. Items live in 'order_items' and are the
// authoritative record of what was bought.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod   string          `gorm:"type:varchar(30);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_orders_total,total_amount >= 0"`
	ShippingAddress string          `gorm:"type:text;not null"`
	Notes           string          `gorm:"type:text"`
	OrderDate       time.Time       `gorm:"not null;index"`
	DeliveryDate    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User  *UserModel        `gorm:"foreignKey:UserID"`
	Items []*OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Price is the unit price at placement time.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	Product *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
