package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and then its items in one batch. A zero order
// date is stamped with the current time.
// It is meant to run inside TransactionManager.Execute so both inserts commit together.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	if orderM.OrderDate.IsZero() {
		orderM.OrderDate = time.Now().UTC()
	}

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.NewValidationError("order total must not be negative")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	itemModels := make([]*model.OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		itemM := fromOrderItemDomain(item)
		itemM.OrderID = orderM.ID
		itemModels = append(itemModels, itemM)
	}

	if len(itemModels) > 0 {
		if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(&itemModels).Error; err != nil {
			if isForeignKeyConstraintViolation(err) {
				return repository.ErrProductNotFound
			}
			if isCheckConstraintViolation(err) {
				return domainerrors.NewValidationError("quantity must be at least 1")
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to create order items")
		}
	}

	order.ID = orderM.ID
	order.OrderDate = orderM.OrderDate
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, itemM := range itemModels {
		order.Items[i].ID = itemM.ID
		order.Items[i].OrderID = orderM.ID
	}

	return nil
}

// FindByID loads an order with its items, product summaries and user summary.
// It reads from the primary so an order is visible right after its transaction commits.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	query := repo.withReadAssociations(repo.db.WithContext(ctx).Clauses(dbresolver.Write)).Where("orders.id = ?", id)
	if ownerID != nil {
		query = query.Where("orders.user_id = ?", *ownerID)
	}

	if err := query.First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindByIDForUpdate locks the order row and then loads its items.
func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	query := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id)
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}

	if err := query.First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to lock order")
	}

	if err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderM.ID).
		Order("id ASC").
		Find(&orderM.Items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load order items")
	}

	return toOrderDomain(&orderM), nil
}

// List returns one page of orders, newest first.
func (repo *orderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if filter.UserID != nil {
		query = query.Where("orders.user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("orders.status = ?", string(filter.Status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	var orderModels []*model.OrderModel
	if err := repo.withReadAssociations(query).
		Order("orders.order_date DESC, orders.id DESC").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, total, nil
}

// UpdateStatus sets the status, payment status and delivery date of an order.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus, payment entity.PaymentStatus, deliveryDate *time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         string(status),
			"payment_status": string(payment),
			"delivery_date":  deliveryDate,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// UpdatePaymentStatus sets the payment status of an order.
func (repo *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, payment entity.PaymentStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": string(payment),
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update payment status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

func (repo *orderRepository) withReadAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.id ASC")
		}).
		Preload("Items.Product")
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	order := &entity.Order{
		ID:              data.ID,
		UserID:          data.UserID,
		Status:          entity.OrderStatus(data.Status),
		PaymentStatus:   entity.PaymentStatus(data.PaymentStatus),
		PaymentMethod:   entity.PaymentMethod(data.PaymentMethod),
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		Notes:           data.Notes,
		OrderDate:       data.OrderDate,
		DeliveryDate:    data.DeliveryDate,
		Items:           make([]*entity.OrderItem, 0, len(data.Items)),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
	if data.User != nil {
		order.User = &entity.UserSummary{ID: data.User.ID, Name: data.User.Name, Email: data.User.Email}
	}
	for _, itemM := range data.Items {
		order.Items = append(order.Items, toOrderItemDomain(itemM))
	}

	return order
}

func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	item := &entity.OrderItem{
		ID:        data.ID,
		OrderID:   data.OrderID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
		Subtotal:  data.Subtotal,
	}
	if data.Product != nil {
		item.Product = toProductDomain(data.Product).Summary()
	}

	return item
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Status:          string(data.Status),
		PaymentStatus:   string(data.PaymentStatus),
		PaymentMethod:   string(data.PaymentMethod),
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		Notes:           data.Notes,
		OrderDate:       data.OrderDate,
		DeliveryDate:    data.DeliveryDate,
	}
}

func fromOrderItemDomain(data *entity.OrderItem) *model.OrderItemModel {
	return &model.OrderItemModel{
		ID:        data.ID,
		OrderID:   data.OrderID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
		Subtotal:  data.Subtotal,
	}
}
