package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput defines the data required to place an order.
type PlaceOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress string
	PaymentMethod   entity.PaymentMethod
	Notes           string
}

// UpdateOrderStatusInput moves an order along its lifecycle.
type UpdateOrderStatusInput struct {
	Status entity.OrderStatus
	// DeliveryDate is stamped when the order becomes delivered; nil means now.
	DeliveryDate *time.Time
}

// OrderUsecase defines the order placement, cancellation and read operations.
// Every call runs on behalf of an authenticated caller.
type OrderUsecase interface {
	// PlaceOrder reserves stock and persists the order with its items in one transaction.
	PlaceOrder(ctx context.Context, caller entity.Caller, input *PlaceOrderInput) (*entity.Order, error)

	// CancelOrder cancels a non-terminal order and returns its items to stock in one transaction.
	CancelOrder(ctx context.Context, caller entity.Caller, orderID uuid.UUID) (*entity.Order, error)

	ListOrders(ctx context.Context, caller entity.Caller, filter entity.OrderFilter) (*entity.PageResult[*entity.Order], error)
	GetOrder(ctx context.Context, caller entity.Caller, orderID uuid.UUID) (*entity.Order, error)

	// UpdateOrderStatus is admin only. Cancelling through it restores stock like CancelOrder.
	UpdateOrderStatus(ctx context.Context, caller entity.Caller, orderID uuid.UUID, input *UpdateOrderStatusInput) (*entity.Order, error)

	// UpdatePaymentStatus is admin only.
	UpdatePaymentStatus(ctx context.Context, caller entity.Caller, orderID uuid.UUID, status entity.PaymentStatus) (*entity.Order, error)

	// OrderReceiptQR renders the receipt QR code of a visible order as PNG.
	OrderReceiptQR(ctx context.Context, caller entity.Caller, orderID uuid.UUID) ([]byte, error)
}
