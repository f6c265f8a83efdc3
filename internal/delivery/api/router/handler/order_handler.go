package handler

import (
	"net/http"
	"time"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
}

// OrderHandler serves order placement, cancellation and reads,
// plus the admin status endpoints.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{orderUC: params.OrderUC}
}

// OrderItemRequest is one requested product line.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderRequest is the body of POST /api/v1/orders.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required,max=500"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal cash_on_delivery"`
	Notes           string             `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateOrderStatusRequest is the body of PUT /api/v1/admin/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status       string     `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	DeliveryDate *time.Time `json:"delivery_date"`
}

// UpdatePaymentStatusRequest is the body of PUT /api/v1/admin/orders/:id/payment.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending completed failed refunded"`
}

// PlaceOrder handles POST /api/v1/orders.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	var req PlaceOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orderUC.PlaceOrder(c.Request().Context(), caller, &usecase.PlaceOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   entity.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders. Shoppers only see their own orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	result, err := h.orderUC.ListOrders(c.Request().Context(), caller, entity.OrderFilter{
		Status: entity.OrderStatus(c.QueryParam("status")),
		Page:   page,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	caller, orderID, err := h.callerAndOrderID(c)
	if err != nil {
		return err
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), caller, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

// CancelOrder handles PUT /api/v1/orders/:id/cancel.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	caller, orderID, err := h.callerAndOrderID(c)
	if err != nil {
		return err
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), caller, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

// ReceiptQR handles GET /api/v1/orders/:id/qr and writes a PNG.
func (h *OrderHandler) ReceiptQR(c echo.Context) error {
	caller, orderID, err := h.callerAndOrderID(c)
	if err != nil {
		return err
	}

	png, err := h.orderUC.OrderReceiptQR(c.Request().Context(), caller, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// UpdateOrderStatus handles PUT /api/v1/admin/orders/:id/status.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	caller, orderID, err := h.callerAndOrderID(c)
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), caller, orderID, &usecase.UpdateOrderStatusInput{
		Status:       entity.OrderStatus(req.Status),
		DeliveryDate: req.DeliveryDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

// UpdatePaymentStatus handles PUT /api/v1/admin/orders/:id/payment.
func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	caller, orderID, err := h.callerAndOrderID(c)
	if err != nil {
		return err
	}

	var req UpdatePaymentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdatePaymentStatus(c.Request().Context(), caller, orderID, entity.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) callerAndOrderID(c echo.Context) (entity.Caller, uuid.UUID, error) {
	caller, err := callerOf(c)
	if err != nil {
		return entity.Caller{}, uuid.Nil, err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return entity.Caller{}, uuid.Nil, domainerrors.NewValidationError("invalid order id")
	}

	return caller, orderID, nil
}
