package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	service usecase.DeviceUsecase
	store   *memory.Store
}

func createTestDeviceService() deviceServiceFixtures {
	store := memory.NewStore()

	return deviceServiceFixtures{
		service: NewDeviceService(store.Devices()),
		store:   store,
	}
}

func TestDeviceService_RegisterDevice_NewDevice(t *testing.T) {
	fx := createTestDeviceService()
	ctx := context.Background()
	userID := uuid.New()
	deviceInfo := &usecase.RegisterDeviceInput{
		FCMToken: "test-fcm-token",
		DeviceID: "device-123",
		Platform: "ios",
	}

	device, err := fx.service.RegisterDevice(ctx, userID, deviceInfo)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, device.ID)
	assert.Equal(t, userID, device.UserID)
	assert.Equal(t, deviceInfo.FCMToken, device.FCMToken)
	assert.Equal(t, deviceInfo.DeviceID, device.DeviceID)
	assert.True(t, device.IsActive)
}

func TestDeviceService_RegisterDevice_ExistingDeviceIsRefreshed(t *testing.T) {
	fx := createTestDeviceService()
	ctx := context.Background()
	userID := uuid.New()

	first, err := fx.service.RegisterDevice(ctx, userID, &usecase.RegisterDeviceInput{FCMToken: "old", DeviceID: "phone", Platform: "android"})
	require.NoError(t, err)
	require.NoError(t, fx.service.DeactivateDevice(ctx, userID, first.ID))

	second, err := fx.service.RegisterDevice(ctx, userID, &usecase.RegisterDeviceInput{FCMToken: "new", DeviceID: "phone", Platform: "android"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new", second.FCMToken)
	assert.True(t, second.IsActive)

	devices, err := fx.service.GetUserDevices(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

// lateDeviceRepo misses the installation on the first lookup, as if another
// request registered it between the lookup and the insert.
type lateDeviceRepo struct {
	repository.DeviceRepository
	lookups int
}

func (r *lateDeviceRepo) FindDeviceByUserAndDeviceID(ctx context.Context, userID uuid.UUID, deviceID string) (*entity.UserDevice, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, repository.ErrDeviceNotFound
	}

	return r.DeviceRepository.FindDeviceByUserAndDeviceID(ctx, userID, deviceID)
}

func TestDeviceService_RegisterDevice_ConcurrentRegistrationIsRefreshed(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	userID := uuid.New()

	winner := &entity.UserDevice{UserID: userID, FCMToken: "winner", DeviceID: "tablet", Platform: "ios", IsActive: true}
	require.NoError(t, store.Devices().CreateDevice(ctx, winner))

	repo := &lateDeviceRepo{DeviceRepository: store.Devices()}
	device, err := NewDeviceService(repo).RegisterDevice(ctx, userID, &usecase.RegisterDeviceInput{
		FCMToken: "loser",
		DeviceID: "tablet",
		Platform: "ios",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lookups)
	assert.Equal(t, winner.ID, device.ID)

	stored, err := store.Devices().FindDeviceByID(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, "loser", stored.FCMToken)
}

func TestDeviceService_RegisterDevice_Validation(t *testing.T) {
	fx := createTestDeviceService()
	ctx := context.Background()

	tests := []struct {
		name string
		info *usecase.RegisterDeviceInput
	}{
		{name: "nil", info: nil},
		{name: "missing token", info: &usecase.RegisterDeviceInput{DeviceID: "d", Platform: "ios"}},
		{name: "missing device id", info: &usecase.RegisterDeviceInput{FCMToken: "t", Platform: "ios"}},
		{name: "unknown platform", info: &usecase.RegisterDeviceInput{FCMToken: "t", DeviceID: "d", Platform: "symbian"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.RegisterDevice(ctx, uuid.New(), tt.info)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestDeviceService_OwnershipChecks(t *testing.T) {
	fx := createTestDeviceService()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	device, err := fx.service.RegisterDevice(ctx, owner, &usecase.RegisterDeviceInput{FCMToken: "t", DeviceID: "d", Platform: entity.PlatformIOS})
	require.NoError(t, err)

	assert.ErrorIs(t, fx.service.UpdateFCMToken(ctx, stranger, device.ID, "stolen"), domainerrors.ErrForbidden)
	assert.ErrorIs(t, fx.service.DeactivateDevice(ctx, stranger, device.ID), domainerrors.ErrForbidden)
	assert.ErrorIs(t, fx.service.DeactivateDevice(ctx, owner, uuid.New()), domainerrors.ErrDeviceNotFound)
	assert.ErrorIs(t, fx.service.UpdateFCMToken(ctx, owner, device.ID, ""), domainerrors.ErrValidationFailed)

	require.NoError(t, fx.service.UpdateFCMToken(ctx, owner, device.ID, "rotated"))
	stored, err := fx.store.Devices().FindDeviceByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", stored.FCMToken)

	require.NoError(t, fx.service.DeactivateDevice(ctx, owner, device.ID))
	devices, err := fx.service.GetUserDevices(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, devices)
}
