package entity

import (
	"time"

	"github.com/google/uuid"
)

// Device platforms accepted for push registration.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// IsSupportedPlatform reports whether pushes can be sent to platform.
func IsSupportedPlatform(platform string) bool {
	return platform == PlatformIOS || platform == PlatformAndroid
}

// UserDevice is a shopper's device registered for order status push notifications.
type UserDevice struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FCMToken  string    `json:"fcm_token"` // Firebase Cloud Messaging registration token.
	DeviceID  string    `json:"device_id"` // Client supplied, stable per installation.
	Platform  string    `json:"platform"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FCMTokens collects the push tokens of the active devices.
func FCMTokens(devices []*UserDevice) []string {
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		if d == nil || !d.IsActive || d.FCMToken == "" {
			continue
		}
		tokens = append(tokens, d.FCMToken)
	}

	return tokens
}
