package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type mockNotificationUsecase struct {
	mock.Mock
}

func (m *mockNotificationUsecase) NotifyOrderEvent(ctx context.Context, event *service.OrderEvent) (*usecase.NotificationResult, error) {
	args := m.Called(ctx, event)
	result, _ := args.Get(0).(*usecase.NotificationResult)

	return result, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pushBody(t *testing.T, event any, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	envelope := map[string]any{
		"message": map[string]any{
			"data":        base64.StdEncoding.EncodeToString(data),
			"attributes":  attributes,
			"messageId":   "msg-1",
			"publishTime": "2026-10-17T08:00:00Z",
		},
		"subscription": "projects/p/subscriptions/order-events-sub",
	}
	raw, err := json.Marshal(envelope)
	require.NoError(t, err)

	return string(raw)
}

func serve(h *PushHandler, body string, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func developConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvDevelop

	return cfg
}

func sampleEvent() *service.OrderEvent {
	return &service.OrderEvent{
		Type:          constants.OrderEventPlaced,
		OrderID:       uuid.NewString(),
		UserID:        uuid.NewString(),
		Status:        "pending",
		PaymentStatus: "pending",
		TotalAmount:   "30.00",
	}
}

func TestPushHandler_HandlePush(t *testing.T) {
	event := sampleEvent()

	tests := []struct {
		name       string
		body       string
		setup      func(uc *mockNotificationUsecase)
		wantStatus int
	}{
		{
			name: "delivered event is acknowledged",
			body: pushBody(t, event, map[string]string{"request_id": "req-from-attr"}),
			setup: func(uc *mockNotificationUsecase) {
				uc.On("NotifyOrderEvent",
					mock.MatchedBy(func(ctx context.Context) bool {
						return deliverycontext.GetRequestIDFromContext(ctx) == "req-from-attr"
					}),
					mock.MatchedBy(func(e *service.OrderEvent) bool {
						return e.OrderID == event.OrderID && e.Type == constants.OrderEventPlaced
					}),
				).Return(&usecase.NotificationResult{Devices: 2, Sent: 2}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "envelope that is not json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data that is not base64",
			body:       `{"message":{"data":"%%%","messageId":"m"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "data that is not an order event",
			body:       `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("[1,2]")) + `","messageId":"m"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "event rejected by validation is not retried",
			body: pushBody(t, event, nil),
			setup: func(uc *mockNotificationUsecase) {
				uc.On("NotifyOrderEvent", mock.Anything, mock.Anything).
					Return(nil, domainerrors.NewValidationError("event user_id is not a uuid")).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "transient failure asks for redelivery",
			body: pushBody(t, event, nil),
			setup: func(uc *mockNotificationUsecase) {
				uc.On("NotifyOrderEvent", mock.Anything, mock.Anything).
					Return(nil, errors.New("fcm unavailable")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockNotificationUsecase{}
			if tt.setup != nil {
				tt.setup(uc)
			}
			h := NewPushHandler(PushHandlerParams{
				Config:         developConfig(),
				Logger:         testLogger(),
				NotificationUC: uc,
			})

			rec := serve(h, tt.body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}

func TestPushHandler_VerifiesGooglePushToken(t *testing.T) {
	cfg := &config.Config{
		PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle},
		Worker: &config.WorkerConfig{PushAudience: "https://worker.example.com/push"},
	}
	cfg.Env.Env = constants.EnvProduction

	var seenAudience string
	validator := func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		seenAudience = audience
		switch token {
		case "good":
			return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
		case "foreign":
			return &idtoken.Payload{Issuer: "https://evil.example.com"}, nil
		case "unverified":
			return &idtoken.Payload{Issuer: "accounts.google.com", Claims: map[string]any{"email_verified": false}}, nil
		default:
			return nil, errors.New("bad signature")
		}
	}

	newHandler := func(uc *mockNotificationUsecase) *PushHandler {
		return NewPushHandler(PushHandlerParams{
			Config:         cfg,
			Logger:         testLogger(),
			NotificationUC: uc,
			TokenValidator: validator,
		})
	}
	body := pushBody(t, sampleEvent(), nil)

	rejected := map[string]string{
		"missing header":     "",
		"not bearer":         "Basic abc",
		"invalid signature":  "Bearer forged",
		"foreign issuer":     "Bearer foreign",
		"unverified account": "Bearer unverified",
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			uc := &mockNotificationUsecase{}
			rec := serve(newHandler(uc), body, header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			uc.AssertNotCalled(t, "NotifyOrderEvent", mock.Anything, mock.Anything)
		})
	}

	t.Run("valid token reaches the usecase", func(t *testing.T) {
		uc := &mockNotificationUsecase{}
		uc.On("NotifyOrderEvent", mock.Anything, mock.Anything).Return(&usecase.NotificationResult{}, nil).Once()

		rec := serve(newHandler(uc), body, "Bearer good")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://worker.example.com/push", seenAudience)
		uc.AssertExpectations(t)
	})
}

func TestExtractRequestID(t *testing.T) {
	var msg PubSubMessage
	event := &service.OrderEvent{RequestID: "from-event"}

	msg.Message.Attributes = map[string]string{"request_id": "from-attr"}
	assert.Equal(t, "from-attr", extractRequestID(context.Background(), &msg, event))

	msg.Message.Attributes = nil
	assert.Equal(t, "from-event", extractRequestID(context.Background(), &msg, event))

	ctx := deliverycontext.WithRequestID(context.Background(), "from-header")
	assert.Equal(t, "from-header", extractRequestID(ctx, &msg, &service.OrderEvent{}))

	_, err := uuid.Parse(extractRequestID(context.Background(), &msg, &service.OrderEvent{}))
	assert.NoError(t, err)
}
