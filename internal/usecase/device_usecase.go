package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterDeviceInput identifies one app installation and its current push token.
type RegisterDeviceInput struct {
	FCMToken string
	DeviceID string
	Platform string
}

// DeviceUsecase manages the devices that receive order status pushes. Every
// operation is scoped to the devices of userID.
type DeviceUsecase interface {
	// RegisterDevice is idempotent per (userID, DeviceID): a known installation
	// gets its token replaced and is reactivated.
	RegisterDevice(ctx context.Context, userID uuid.UUID, input *RegisterDeviceInput) (*entity.UserDevice, error)

	UpdateFCMToken(ctx context.Context, userID uuid.UUID, deviceID uuid.UUID, fcmToken string) error

	// GetUserDevices lists the active devices only.
	GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// DeactivateDevice stops pushes to a device without deleting it.
	DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}
