package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

const orderNotificationTitle = "訂單更新"

type notificationService struct {
	deviceRepo      repository.DeviceRepository
	notificationSvc service.NotificationService
	logger          *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(
	deviceRepo repository.DeviceRepository,
	notificationSvc service.NotificationService,
	logger *slog.Logger,
) usecase.NotificationUsecase {
	return &notificationService{
		deviceRepo:      deviceRepo,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

// NotifyOrderEvent pushes an order event to every active device of the order owner.
// Malformed events return a validation error; delivery failures are returned as is
// so the push subscription retries them.
func (s *notificationService) NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*usecase.NotificationResult, error) {
	if event == nil {
		return nil, domainerrors.NewValidationError("event is required")
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return nil, domainerrors.NewValidationError("event user_id is not a uuid")
	}
	if _, err := uuid.Parse(event.OrderID); err != nil {
		return nil, domainerrors.NewValidationError("event order_id is not a uuid")
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger).With(
		slog.String("event_type", event.Type),
		slog.String("orderID", event.OrderID),
	)

	devices, err := s.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch devices: %w", err)
	}

	tokens := entity.FCMTokens(devices)
	result := &usecase.NotificationResult{Devices: len(tokens)}
	if len(tokens) == 0 {
		logger.Debug("No active devices for order owner", slog.Any("userID", userID))

		return result, nil
	}

	report, err := s.notificationSvc.SendToDevices(ctx, tokens, service.PushNotification{
		Title: orderNotificationTitle,
		Body:  orderNotificationBody(event),
		Data: map[string]string{
			"event_type":     event.Type,
			"order_id":       event.OrderID,
			"status":         event.Status,
			"payment_status": event.PaymentStatus,
			"total_amount":   event.TotalAmount,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send order notification: %w", err)
	}
	result.Sent = report.Sent
	result.Failed = report.Failed

	// Unregistered tokens will never succeed again
	if len(report.InvalidTokens) > 0 {
		deactivated, err := s.deviceRepo.DeactivateByFCMTokens(ctx, report.InvalidTokens)
		if err != nil {
			logger.Warn("Failed to deactivate devices with invalid tokens", slog.Any("error", err))
		}
		result.DeactivatedDevices = deactivated
	}

	logger.Info("Order notification sent",
		slog.Int("devices", result.Devices),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int64("deactivated", result.DeactivatedDevices),
	)

	return result, nil
}

func orderNotificationBody(event *service.OrderEvent) string {
	switch event.Type {
	case constants.OrderEventPlaced:
		return fmt.Sprintf("已收到您的訂單，金額 %s", event.TotalAmount)
	case constants.OrderEventCancelled:
		return "您的訂單已取消"
	default:
		return fmt.Sprintf("您的訂單狀態已更新為 %s", orderStatusLabel(event.Status))
	}
}

func orderStatusLabel(status string) string {
	switch entity.OrderStatus(status) {
	case entity.OrderStatusConfirmed:
		return "已確認"
	case entity.OrderStatusProcessing:
		return "處理中"
	case entity.OrderStatusShipped:
		return "已出貨"
	case entity.OrderStatusDelivered:
		return "已送達"
	default:
		return status
	}
}
