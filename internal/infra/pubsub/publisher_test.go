package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	gcpubsub "gocloud.dev/pubsub"
)

func testEvent() *service.OrderEvent {
	return &service.OrderEvent{
		RequestID:     "req-1",
		Type:          constants.OrderEventPlaced,
		OrderID:       "0b6f8d3e-5c1a-4a57-9a0e-3f8c2d1e4b5a",
		UserID:        "a7c1e2d3-1111-4222-8333-944455566677",
		Status:        "pending",
		PaymentStatus: "pending",
		TotalAmount:   "51.00",
		OccurredAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PublishOrderEvent(t *testing.T) {
	var (
		received  PushMessage
		requestID string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, slog.New(slog.DiscardHandler))
	require.NoError(t, publisher.PublishOrderEvent(context.Background(), testEvent()))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.Equal(t, constants.OrderEventPlaced, received.Message.Attributes["event_type"])
	assert.NotEmpty(t, received.Message.MessageID)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.OrderEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *testEvent(), decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, slog.New(slog.DiscardHandler))
	err := publisher.PublishOrderEvent(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewEventPublisher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr string
	}{
		{name: "not configured", cfg: nil},
		{name: "local", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderLocal, LocalEndpoint: "http://localhost:8081/push"}},
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderLocal}, wantErr: "local endpoint is required"},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, TopicID: "orders"}, wantErr: "project ID is required"},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, ProjectID: "shop"}, wantErr: "topic ID is required"},
		{name: "gocloud", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderGoCloud, TopicURL: "mem://provider-test"}},
		{name: "gocloud without url", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderGoCloud}, wantErr: "topic URL is required"},
		{name: "unknown", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: "unknown pubsub provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: logger,
			})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}
			require.NoError(t, err)
			require.NotNil(t, publisher)
			lc.RequireStart().RequireStop()
		})
	}
}

func TestDiscardPublisher(t *testing.T) {
	publisher := &discardPublisher{logger: slog.New(slog.DiscardHandler)}
	assert.NoError(t, publisher.PublishOrderEvent(context.Background(), testEvent()))
	assert.NoError(t, publisher.Close())
}

func TestGoCloudPublisher_PublishOrderEvent(t *testing.T) {
	ctx := context.Background()
	publisher, err := NewGoCloudPublisher(ctx, "mem://order-events-test", slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	sub, err := gcpubsub.OpenSubscription(ctx, "mem://order-events-test")
	require.NoError(t, err)
	defer sub.Shutdown(ctx)

	event := testEvent()
	require.NoError(t, publisher.PublishOrderEvent(ctx, event))

	receiveCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.Receive(receiveCtx)
	require.NoError(t, err)
	msg.Ack()

	var got service.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, event.OrderID, got.OrderID)
	assert.Equal(t, constants.OrderEventPlaced, msg.Metadata["event_type"])
	assert.Equal(t, "req-1", msg.Metadata["request_id"])

	assert.NoError(t, publisher.Close())
}
