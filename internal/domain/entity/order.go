package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is a step of the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderStatusRank orders the forward lifecycle. Cancelled sits outside it.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// IsValid checks if the status is part of the lifecycle.
func (s OrderStatus) IsValid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[s]

	return ok
}

// IsTerminal reports whether no further transition, cancellation included, is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanCancel reports whether an order in this status may still be cancelled.
func (s OrderStatus) CanCancel() bool {
	return s.IsValid() && !s.IsTerminal()
}

// CanAdvanceTo reports whether next is a forward lifecycle step from s.
// Steps may be skipped (pending -> shipped) but never reversed.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}

	return to > from
}

// CountsAsSale reports whether orders in this status contribute to sales reports.
func (s OrderStatus) CountsAsSale() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// SaleStatuses lists the statuses counted by sales reports.
func SaleStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered}
}

// PaymentStatus tracks the payment bookkeeping of an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid checks if the payment status is known.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// CanMoveTo reports whether an order in status order may record next as its
// payment status. Refunds only follow a completed payment, and a cancelled
// order never becomes paid again.
func (s PaymentStatus) CanMoveTo(next PaymentStatus, order OrderStatus) bool {
	if s == next {
		return true
	}

	switch next {
	case PaymentStatusRefunded:
		return s == PaymentStatusCompleted
	case PaymentStatusFailed:
		return s == PaymentStatusPending
	case PaymentStatusPending, PaymentStatusCompleted:
		return order != OrderStatusCancelled && s != PaymentStatusRefunded
	default:
		return false
	}
}

// PaymentMethod is how the shopper intends to pay.
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodDebitCard      PaymentMethod = "debit_card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// IsValid checks if the payment method is accepted.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal, PaymentMethodCashOnDelivery:
		return true
	default:
		return false
	}
}

// Order belongs to exactly one user and is created together with its items.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	User            *UserSummary    `json:"user,omitempty"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	Items           []*OrderItem    `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is one product line, with the unit price captured when the order was placed.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Product   *ProductSummary `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// LineSubtotal is the monetary value of quantity units at price.
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// NewOrderItem builds a line with its subtotal derived from the price snapshot.
func NewOrderItem(product *Product, quantity int) *OrderItem {
	return &OrderItem{
		ProductID: product.ID,
		Product:   product.Summary(),
		Quantity:  quantity,
		Price:     product.Price,
		Subtotal:  LineSubtotal(product.Price, quantity),
	}
}

// OrderTotal sums the subtotals of items.
func OrderTotal(items []*OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}

	return total
}

// QuantityByProduct folds the item quantities per product, which is the
// stock effect of the order.
func (o *Order) QuantityByProduct() map[uuid.UUID]int {
	quantities := make(map[uuid.UUID]int, len(o.Items))
	for _, item := range o.Items {
		quantities[item.ProductID] += item.Quantity
	}

	return quantities
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID *uuid.UUID // nil lists every user's orders
	Status OrderStatus
	Page   Page
}
