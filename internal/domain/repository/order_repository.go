package repository

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order is not found or not visible to the caller.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order-related database operations.
// Lookups take an owner scope: a non-nil ownerID restricts the match to that user's orders.
type OrderRepository interface {
	// Create inserts the order and all of its items. IDs and timestamps are written back.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID loads an order with its items, product summaries and user summary.
	FindByID(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, error)

	// FindByIDForUpdate loads an order with its items and holds a row lock on the order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, error)

	// List returns one page of orders, newest first, with the total match count.
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error)

	// UpdateStatus sets the status, payment status and delivery date of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus, payment entity.PaymentStatus, deliveryDate *time.Time) error

	// UpdatePaymentStatus sets the payment status of an order.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, payment entity.PaymentStatus) error
}
