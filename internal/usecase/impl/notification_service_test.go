package impl

import (
	"context"
	"slices"
	"testing"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationSender struct {
	mock.Mock
}

func (m *mockNotificationSender) SendToDevices(ctx context.Context, tokens []string, n service.PushNotification) (*service.PushReport, error) {
	args := m.Called(ctx, tokens, n)
	report, _ := args.Get(0).(*service.PushReport)

	return report, args.Error(1)
}

// notificationServiceFixtures holds all test dependencies for notification service tests.
type notificationServiceFixtures struct {
	service usecase.NotificationUsecase
	store   *memory.Store
	sender  *mockNotificationSender
}

func createTestNotificationService() notificationServiceFixtures {
	store := memory.NewStore()
	sender := &mockNotificationSender{}

	return notificationServiceFixtures{
		service: NewNotificationService(store.Devices(), sender, newDiscardLogger()),
		store:   store,
		sender:  sender,
	}
}

func (fx notificationServiceFixtures) registerDevice(t *testing.T, userID uuid.UUID, deviceID, token string) {
	t.Helper()

	require.NoError(t, fx.store.Devices().CreateDevice(context.Background(), &entity.UserDevice{
		UserID:   userID,
		DeviceID: deviceID,
		FCMToken: token,
		Platform: entity.PlatformAndroid,
		IsActive: true,
	}))
}

func orderEvent(userID uuid.UUID, eventType string) *service.OrderEvent {
	return &service.OrderEvent{
		Type:          eventType,
		OrderID:       uuid.NewString(),
		UserID:        userID.String(),
		Status:        string(entity.OrderStatusShipped),
		PaymentStatus: string(entity.PaymentStatusCompleted),
		TotalAmount:   "30.00",
	}
}

func TestNotificationService_NotifyOrderEvent_SendsToActiveDevices(t *testing.T) {
	fx := createTestNotificationService()
	ctx := context.Background()
	userID := uuid.New()
	fx.registerDevice(t, userID, "phone", "token-a")
	fx.registerDevice(t, userID, "tablet", "token-b")
	fx.registerDevice(t, uuid.New(), "other", "token-other")

	event := orderEvent(userID, constants.OrderEventStatusChanged)
	fx.sender.On("SendToDevices", ctx,
		mock.MatchedBy(func(tokens []string) bool {
			return len(tokens) == 2 && slices.Contains(tokens, "token-a") && slices.Contains(tokens, "token-b")
		}),
		mock.MatchedBy(func(n service.PushNotification) bool {
			return n.Title == orderNotificationTitle &&
				n.Body == "您的訂單狀態已更新為 已出貨" &&
				n.Data["order_id"] == event.OrderID
		}),
	).Return(&service.PushReport{Sent: 2}, nil).Once()

	result, err := fx.service.NotifyOrderEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Devices)
	assert.Equal(t, 2, result.Sent)
	assert.Zero(t, result.DeactivatedDevices)
	fx.sender.AssertExpectations(t)
}

func TestNotificationService_NotifyOrderEvent_DeactivatesInvalidTokens(t *testing.T) {
	fx := createTestNotificationService()
	ctx := context.Background()
	userID := uuid.New()
	fx.registerDevice(t, userID, "phone", "token-a")
	fx.registerDevice(t, userID, "old-phone", "token-stale")

	fx.sender.On("SendToDevices", ctx, mock.Anything, mock.Anything).
		Return(&service.PushReport{Sent: 1, Failed: 1, InvalidTokens: []string{"token-stale"}}, nil).Once()

	result, err := fx.service.NotifyOrderEvent(ctx, orderEvent(userID, constants.OrderEventPlaced))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.EqualValues(t, 1, result.DeactivatedDevices)

	devices, err := fx.store.Devices().FindActiveDevicesByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "token-a", devices[0].FCMToken)
}

func TestNotificationService_NotifyOrderEvent_NoDevices(t *testing.T) {
	fx := createTestNotificationService()

	result, err := fx.service.NotifyOrderEvent(context.Background(), orderEvent(uuid.New(), constants.OrderEventCancelled))
	require.NoError(t, err)
	assert.Zero(t, result.Devices)
	fx.sender.AssertNotCalled(t, "SendToDevices", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_NotifyOrderEvent_MalformedEvent(t *testing.T) {
	fx := createTestNotificationService()
	ctx := context.Background()

	_, err := fx.service.NotifyOrderEvent(ctx, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	event := orderEvent(uuid.New(), constants.OrderEventPlaced)
	event.UserID = "not-a-uuid"
	_, err = fx.service.NotifyOrderEvent(ctx, event)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestNotificationService_NotifyOrderEvent_SendFailureIsReturned(t *testing.T) {
	fx := createTestNotificationService()
	ctx := context.Background()
	userID := uuid.New()
	fx.registerDevice(t, userID, "phone", "token-a")

	fx.sender.On("SendToDevices", ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("fcm unavailable")).Once()

	_, err := fx.service.NotifyOrderEvent(ctx, orderEvent(userID, constants.OrderEventPlaced))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderNotificationBody(t *testing.T) {
	assert.Equal(t, "已收到您的訂單，金額 30.00", orderNotificationBody(orderEvent(uuid.New(), constants.OrderEventPlaced)))
	assert.Equal(t, "您的訂單已取消", orderNotificationBody(orderEvent(uuid.New(), constants.OrderEventCancelled)))
}
