package memory

import (
	"bytes"
	"context"
	"slices"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
)

type orderRepository struct {
	sess *session
}

func (r *orderRepository) Create(_ context.Context, order *entity.Order) error {
	return r.sess.write("orders.create", func(st *state) error {
		if _, ok := st.users[order.UserID]; !ok {
			return repository.ErrUserNotFound
		}
		if order.TotalAmount.IsNegative() {
			return domainerrors.NewValidationError("order total must not be negative")
		}
		for _, item := range order.Items {
			if _, ok := st.products[item.ProductID]; !ok {
				return repository.ErrProductNotFound
			}
			if item.Quantity < 1 {
				return domainerrors.NewValidationError("quantity must be at least 1")
			}
		}

		if order.OrderDate.IsZero() {
			return domainerrors.NewValidationError("order date is required")
		}

		now := r.sess.store.timestamp()
		order.ID = uuid.New()
		order.CreatedAt = now
		order.UpdatedAt = now
		for _, item := range order.Items {
			item.ID = uuid.New()
			item.OrderID = order.ID
		}

		stored := cloneOrder(order)
		stored.User = nil
		for _, item := range stored.Items {
			item.Product = nil
		}
		st.orders[order.ID] = stored

		return nil
	})
}

func (r *orderRepository) FindByID(_ context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, error) {
	var found *entity.Order
	err := r.sess.read(func(st *state) error {
		o, ok := visibleOrder(st, id, ownerID)
		if !ok {
			return repository.ErrOrderNotFound
		}
		found = withSummaries(st, o)

		return nil
	})

	return found, err
}

// FindByIDForUpdate needs no row lock here: a transaction owns the whole store.
func (r *orderRepository) FindByIDForUpdate(_ context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, error) {
	var found *entity.Order
	err := r.sess.read(func(st *state) error {
		o, ok := visibleOrder(st, id, ownerID)
		if !ok {
			return repository.ErrOrderNotFound
		}
		found = cloneOrder(o)

		return nil
	})

	return found, err
}

func (r *orderRepository) List(_ context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error) {
	var (
		page  []*entity.Order
		total int64
	)
	err := r.sess.read(func(st *state) error {
		matched := make([]*entity.Order, 0, len(st.orders))
		for _, o := range st.orders {
			if filter.UserID != nil && o.UserID != *filter.UserID {
				continue
			}
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			matched = append(matched, o)
		}
		slices.SortFunc(matched, func(a, b *entity.Order) int {
			if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
				return c
			}

			return bytes.Compare(b.ID[:], a.ID[:])
		})

		total = int64(len(matched))
		selected := paginate(matched, filter.Page)
		page = make([]*entity.Order, 0, len(selected))
		for _, o := range selected {
			page = append(page, withSummaries(st, o))
		}

		return nil
	})

	return page, total, err
}

func (r *orderRepository) UpdateStatus(_ context.Context, id uuid.UUID, status entity.OrderStatus, payment entity.PaymentStatus, deliveryDate *time.Time) error {
	return r.sess.write("orders.update_status", func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		o.Status = status
		o.PaymentStatus = payment
		if deliveryDate != nil {
			d := *deliveryDate
			o.DeliveryDate = &d
		} else {
			o.DeliveryDate = nil
		}
		o.UpdatedAt = r.sess.store.timestamp()

		return nil
	})
}

func (r *orderRepository) UpdatePaymentStatus(_ context.Context, id uuid.UUID, payment entity.PaymentStatus) error {
	return r.sess.write("orders.update_payment_status", func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return repository.ErrOrderNotFound
		}
		o.PaymentStatus = payment
		o.UpdatedAt = r.sess.store.timestamp()

		return nil
	})
}

func visibleOrder(st *state, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, bool) {
	o, ok := st.orders[id]
	if !ok {
		return nil, false
	}
	if ownerID != nil && o.UserID != *ownerID {
		return nil, false
	}

	return o, true
}

// withSummaries copies the order and attaches the user and product references
// a read model carries.
func withSummaries(st *state, o *entity.Order) *entity.Order {
	cp := cloneOrder(o)
	if u, ok := st.users[o.UserID]; ok {
		cp.User = &entity.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	for _, item := range cp.Items {
		if p, ok := st.products[item.ProductID]; ok {
			item.Product = cloneProduct(p).Summary()
		}
	}

	return cp
}
