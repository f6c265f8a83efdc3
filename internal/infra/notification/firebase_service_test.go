package notification

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTokens(t *testing.T) {
	tokens := make([]string, 1001)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("token-%d", i)
	}

	chunks := chunkTokens(tokens, maxMulticastTokens)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[1], 500)
	assert.Equal(t, []string{"token-1000"}, chunks[2])

	assert.Empty(t, chunkTokens(nil, maxMulticastTokens))
}

func TestNewFirebaseService_Unconfigured(t *testing.T) {
	svc, err := NewFirebaseService(context.Background(), &config.Config{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	report, err := svc.SendToDevices(context.Background(), []string{"a", "b"}, service.PushNotification{Title: "title", Body: "body"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)
	assert.Zero(t, report.Failed)
	assert.Empty(t, report.InvalidTokens)
}
