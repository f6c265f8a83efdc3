package usecase

import (
	"context"

	"storefront/internal/domain/service"
)

// NotificationResult summarizes one order event fan-out.
type NotificationResult struct {
	Devices            int
	Sent               int
	Failed             int
	DeactivatedDevices int64
}

// NotificationUsecase turns order events into push notifications for the order owner.
type NotificationUsecase interface {
	// NotifyOrderEvent pushes the event to every active device of the order owner.
	// A malformed event is reported as a validation error and must not be retried.
	NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*NotificationResult, error)
}
