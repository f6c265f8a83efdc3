package impl

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	qrcode    service.QRCodeService
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	QRCode    service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		qrcode:    params.QRCode,
		config:    params.Config,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder reserves stock for every line and stores the order in a single transaction.
func (srv *orderService) PlaceOrder(ctx context.Context, caller entity.Caller, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if err := srv.validatePlaceOrder(caller, input); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Placing order", slog.Any("userID", caller.UserID), slog.Int("lines", len(input.Items)))

	var placed *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		items, err := srv.reserveStock(ctx, repoFactory.NewProductRepository(), input.Items)
		if err != nil {
			return err
		}

		order := &entity.Order{
			UserID:          caller.UserID,
			Status:          entity.OrderStatusPending,
			PaymentStatus:   entity.PaymentStatusPending,
			PaymentMethod:   input.PaymentMethod,
			TotalAmount:     entity.OrderTotal(items),
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			Notes:           strings.TrimSpace(input.Notes),
			OrderDate:       srv.now().UTC(),
			Items:           items,
		}

		if err := repoFactory.NewOrderRepository().Create(ctx, order); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "order owner does not exist")
			}
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductUnavailable.WrapMessage("product removed during placement")
			}

			return errors.Wrap(err, "failed to create order")
		}
		placed = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement failed", slog.Any("userID", caller.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order placement transaction")
	}

	order := srv.reload(ctx, placed)
	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.Any("userID", order.UserID),
		slog.String("total", order.TotalAmount.StringFixed(2)),
	)
	srv.publish(ctx, constants.OrderEventPlaced, order)

	return order, nil
}

func (srv *orderService) validatePlaceOrder(caller entity.Caller, input *usecase.PlaceOrderInput) error {
	if caller.UserID == uuid.Nil {
		return errors.Wrap(domainerrors.ErrInvalidToken, "order placement requires an authenticated user")
	}
	if input == nil || len(input.Items) == 0 {
		return domainerrors.NewValidationError("order must contain at least one item")
	}
	if limit := maxOrderItems(srv.config); len(input.Items) > limit {
		return domainerrors.NewValidationError("order contains too many items")
	}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return domainerrors.NewValidationError("product id is required")
		}
		if line.Quantity < 1 {
			return domainerrors.NewValidationError("quantity must be at least 1")
		}
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return domainerrors.NewValidationError("shipping address is required")
	}
	if !input.PaymentMethod.IsValid() {
		return domainerrors.NewValidationError("payment method is not supported")
	}

	return nil
}

// reserveStock locks the referenced products and takes each line's quantity from stock.
// Lines are processed in request order; the first failing line aborts the transaction.
func (srv *orderService) reserveStock(ctx context.Context, products repository.ProductRepository, lines []usecase.OrderItemInput) ([]*entity.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	locked, err := products.LockByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock products")
	}

	items := make([]*entity.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := locked[line.ProductID]
		if !ok || !product.IsAvailable() {
			return nil, domainerrors.NewProductUnavailableError(line.ProductID)
		}
		if !product.HasStock(line.Quantity) {
			return nil, domainerrors.NewInsufficientStockError(product.ID, product.Name, product.Stock, line.Quantity)
		}

		item := entity.NewOrderItem(product, line.Quantity)

		if err := products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, domainerrors.NewInsufficientStockError(product.ID, product.Name, product.Stock, line.Quantity)
			}

			return nil, errors.Wrap(err, "failed to decrement stock")
		}
		// Later lines of the same product see what is left.
		product.Stock -= line.Quantity

		items = append(items, item)
	}

	return items, nil
}

// CancelOrder cancels the order and returns its quantities to stock.
func (srv *orderService) CancelOrder(ctx context.Context, caller entity.Caller, orderID uuid.UUID) (*entity.Order, error) {
	var cancelled *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		order, err := srv.cancelInTx(ctx, repoFactory, caller, orderID)
		if err != nil {
			return err
		}
		cancelled = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order cancellation failed", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order cancellation transaction")
	}

	order := srv.reload(ctx, cancelled)
	srv.log(ctx).Info("Order cancelled", slog.Any("orderID", order.ID), slog.Any("by", caller.UserID))
	srv.publish(ctx, constants.OrderEventCancelled, order)

	return order, nil
}

func (srv *orderService) cancelInTx(ctx context.Context, repoFactory repository.RepositoryFactory, caller entity.Caller, orderID uuid.UUID) (*entity.Order, error) {
	orders := repoFactory.NewOrderRepository()
	products := repoFactory.NewProductRepository()

	// Shoppers only ever lock their own order row.
	order, err := orders.FindByIDForUpdate(ctx, orderID, caller.OwnerScope())
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to lock order")
	}
	if !caller.IsOwnerOrAdmin(order) {
		return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
	}
	if !order.Status.CanCancel() {
		return nil, domainerrors.NewInvalidTransitionError(string(order.Status), string(entity.OrderStatusCancelled))
	}

	quantities := order.QuantityByProduct()
	ids := sortedIDs(quantities)
	if _, err := products.LockByIDs(ctx, ids); err != nil {
		return nil, errors.Wrap(err, "failed to lock products")
	}
	for _, id := range ids {
		if err := products.IncrementStock(ctx, id, quantities[id]); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				srv.log(ctx).Warn("Skipping stock restore of missing product", slog.Any("orderID", order.ID), slog.Any("productID", id))

				continue
			}

			return nil, errors.Wrap(err, "failed to restore stock")
		}
	}

	payment := order.PaymentStatus
	if payment == entity.PaymentStatusCompleted {
		payment = entity.PaymentStatusRefunded
	}
	if err := orders.UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled, payment, order.DeliveryDate); err != nil {
		return nil, errors.Wrap(err, "failed to mark order cancelled")
	}
	order.Status = entity.OrderStatusCancelled
	order.PaymentStatus = payment

	return order, nil
}

// ListOrders lists the caller's orders; admins see every order.
func (srv *orderService) ListOrders(ctx context.Context, caller entity.Caller, filter entity.OrderFilter) (*entity.PageResult[*entity.Order], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domainerrors.NewValidationError("unknown order status")
	}
	if !caller.IsAdmin() {
		filter.UserID = caller.OwnerScope()
	}
	filter.Page = normalizePage(srv.config, filter.Page)

	orders, total, err := srv.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return entity.NewPageResult(orders, total, filter.Page), nil
}

// GetOrder returns an order visible to the caller.
func (srv *orderService) GetOrder(ctx context.Context, caller entity.Caller, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID, nil)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}
	if !caller.IsOwnerOrAdmin(order) {
		return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
	}

	return order, nil
}

// UpdateOrderStatus advances an order. Cancellation goes through the cancellation engine.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, caller entity.Caller, orderID uuid.UUID, input *usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "admin role required")
	}
	if input == nil || !input.Status.IsValid() {
		return nil, domainerrors.NewValidationError("unknown order status")
	}
	if input.Status == entity.OrderStatusCancelled {
		return srv.CancelOrder(ctx, caller, orderID)
	}

	var updated *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders := repoFactory.NewOrderRepository()

		order, err := orders.FindByIDForUpdate(ctx, orderID, nil)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to lock order")
		}
		if !order.Status.CanAdvanceTo(input.Status) {
			return domainerrors.NewInvalidTransitionError(string(order.Status), string(input.Status))
		}

		deliveryDate := order.DeliveryDate
		if input.Status == entity.OrderStatusDelivered {
			stamp := srv.now().UTC()
			if input.DeliveryDate != nil {
				stamp = input.DeliveryDate.UTC()
			}
			deliveryDate = &stamp
		}

		if err := orders.UpdateStatus(ctx, order.ID, input.Status, order.PaymentStatus, deliveryDate); err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		order.Status = input.Status
		order.DeliveryDate = deliveryDate
		updated = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute order status transaction")
	}

	order := srv.reload(ctx, updated)
	srv.publish(ctx, constants.OrderEventStatusChanged, order)

	return order, nil
}

// UpdatePaymentStatus records the payment bookkeeping of an order within the
// moves PaymentStatus.CanMoveTo allows.
func (srv *orderService) UpdatePaymentStatus(ctx context.Context, caller entity.Caller, orderID uuid.UUID, status entity.PaymentStatus) (*entity.Order, error) {
	if !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "admin role required")
	}
	if !status.IsValid() {
		return nil, domainerrors.NewValidationError("unknown payment status")
	}

	var updated *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders := repoFactory.NewOrderRepository()

		order, err := orders.FindByIDForUpdate(ctx, orderID, nil)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to lock order")
		}
		if !order.PaymentStatus.CanMoveTo(status, order.Status) {
			return domainerrors.NewInvalidPaymentTransitionError(string(order.Status), string(order.PaymentStatus), string(status))
		}

		if err := orders.UpdatePaymentStatus(ctx, order.ID, status); err != nil {
			return errors.Wrap(err, "failed to update payment status")
		}
		order.PaymentStatus = status
		updated = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute payment status transaction")
	}

	return srv.reload(ctx, updated), nil
}

// OrderReceiptQR renders the receipt QR code of a visible order.
func (srv *orderService) OrderReceiptQR(ctx context.Context, caller entity.Caller, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateOrderReceiptQR(order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate receipt QR code")
	}

	return png, nil
}

// reload reads the committed order with its read model associations. The
// in-transaction copy is returned if the read fails, since the commit already happened.
func (srv *orderService) reload(ctx context.Context, order *entity.Order) *entity.Order {
	fresh, err := srv.orderRepo.FindByID(ctx, order.ID, nil)
	if err != nil {
		srv.log(ctx).Warn("Failed to reload committed order", slog.Any("orderID", order.ID), slog.Any("error", err))

		return order
	}

	return fresh
}

// publish announces a committed transition. Failures are logged and never
// reach the caller: the order is already committed.
func (srv *orderService) publish(ctx context.Context, eventType string, order *entity.Order) {
	if srv.publisher == nil {
		return
	}

	event := &service.OrderEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		Type:          eventType,
		OrderID:       order.ID.String(),
		UserID:        order.UserID.String(),
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TotalAmount:   order.TotalAmount.StringFixed(2),
		OccurredAt:    srv.now().UTC(),
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
	defer cancel()

	if err := srv.publisher.PublishOrderEvent(publishCtx, event); err != nil {
		srv.log(ctx).Error("Failed to publish order event",
			slog.String("event_type", eventType),
			slog.Any("orderID", order.ID),
			slog.Any("error", err),
		)
	}
}

// sortedIDs returns the keys in the byte order the database locks rows in.
func sortedIDs(quantities map[uuid.UUID]int) []uuid.UUID {
	ids := slices.Collect(maps.Keys(quantities))
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	return ids
}
