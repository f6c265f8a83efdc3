package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDuplicateDevice means the (user, device id) pair is already registered.
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceRepository stores the push registrations of user devices.
type DeviceRepository interface {
	// CreateDevice fills in the generated id. It returns ErrDuplicateDevice when
	// the installation is already registered for the user.
	CreateDevice(ctx context.Context, device *entity.UserDevice) error

	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error)

	// FindDeviceByUserAndDeviceID looks a registration up by the client supplied installation id.
	FindDeviceByUserAndDeviceID(ctx context.Context, userID uuid.UUID, deviceID string) (*entity.UserDevice, error)

	FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// UpdateDevice overwrites the token, platform and active flag.
	UpdateDevice(ctx context.Context, device *entity.UserDevice) error

	DeactivateDevice(ctx context.Context, id uuid.UUID) error

	// DeactivateByFCMTokens deactivates every device holding one of tokens and
	// reports how many rows changed.
	DeactivateByFCMTokens(ctx context.Context, tokens []string) (int64, error)
}
