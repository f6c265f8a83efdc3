package service

import (
	"context"
)

// PushNotification is the content delivered to a user's devices.
type PushNotification struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushReport summarizes one delivery to many devices.
type PushReport struct {
	Sent   int
	Failed int
	// InvalidTokens were rejected as unregistered or malformed and will never succeed.
	InvalidTokens []string
}

// NotificationService delivers push notifications to device tokens.
type NotificationService interface {
	// SendToDevices delivers n to every token. A non-nil error means delivery
	// stopped early and the caller should retry the whole event.
	SendToDevices(ctx context.Context, tokens []string, n PushNotification) (*PushReport, error)
}
