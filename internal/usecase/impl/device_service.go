package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

type deviceService struct {
	deviceRepo repository.DeviceRepository
}

// NewDeviceService creates a new device service instance
func NewDeviceService(deviceRepo repository.DeviceRepository) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: deviceRepo,
	}
}

func validateRegisterDeviceInput(info *usecase.RegisterDeviceInput) error {
	if info == nil {
		return domainerrors.NewValidationError("device payload is required")
	}
	if strings.TrimSpace(info.FCMToken) == "" {
		return domainerrors.NewValidationError("fcm_token is required")
	}
	if strings.TrimSpace(info.DeviceID) == "" {
		return domainerrors.NewValidationError("device_id is required")
	}
	if !entity.IsSupportedPlatform(info.Platform) {
		return domainerrors.NewValidationError("platform must be ios or android")
	}

	return nil
}

func (s *deviceService) RegisterDevice(ctx context.Context, userID uuid.UUID, input *usecase.RegisterDeviceInput) (*entity.UserDevice, error) {
	if err := validateRegisterDeviceInput(input); err != nil {
		return nil, err
	}

	existing, err := s.deviceRepo.FindDeviceByUserAndDeviceID(ctx, userID, input.DeviceID)
	if err == nil {
		return s.refreshDevice(ctx, existing, input)
	}
	if !errors.Is(err, repository.ErrDeviceNotFound) {
		return nil, fmt.Errorf("failed to find device: %w", err)
	}

	device := &entity.UserDevice{
		UserID:   userID,
		FCMToken: input.FCMToken,
		DeviceID: input.DeviceID,
		Platform: input.Platform,
		IsActive: true,
	}

	err = s.deviceRepo.CreateDevice(ctx, device)
	if errors.Is(err, repository.ErrDuplicateDevice) {
		// A concurrent registration of the same installation won; update it instead.
		existing, findErr := s.deviceRepo.FindDeviceByUserAndDeviceID(ctx, userID, input.DeviceID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to find device: %w", findErr)
		}

		return s.refreshDevice(ctx, existing, input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return device, nil
}

func (s *deviceService) refreshDevice(ctx context.Context, device *entity.UserDevice, input *usecase.RegisterDeviceInput) (*entity.UserDevice, error) {
	device.FCMToken = input.FCMToken
	device.Platform = input.Platform
	device.IsActive = true
	if err := s.deviceRepo.UpdateDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}

	return device, nil
}

// ownedDevice loads deviceID and refuses devices of other users with ErrForbidden.
func (s *deviceService) ownedDevice(ctx context.Context, userID, deviceID uuid.UUID) (*entity.UserDevice, error) {
	device, err := s.deviceRepo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return nil, domainerrors.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("failed to find device by ID: %w", err)
	}

	if device.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}

	return device, nil
}

func (s *deviceService) UpdateFCMToken(ctx context.Context, userID uuid.UUID, deviceID uuid.UUID, fcmToken string) error {
	if strings.TrimSpace(fcmToken) == "" {
		return domainerrors.NewValidationError("fcm_token is required")
	}

	device, err := s.ownedDevice(ctx, userID, deviceID)
	if err != nil {
		return err
	}

	device.FCMToken = fcmToken
	if err := s.deviceRepo.UpdateDevice(ctx, device); err != nil {
		return fmt.Errorf("failed to update FCM token: %w", err)
	}

	return nil
}

func (s *deviceService) GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	devices, err := s.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active devices by user: %w", err)
	}

	return devices, nil
}

func (s *deviceService) DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	if _, err := s.ownedDevice(ctx, userID, deviceID); err != nil {
		return err
	}

	if err := s.deviceRepo.DeactivateDevice(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}

	return nil
}
