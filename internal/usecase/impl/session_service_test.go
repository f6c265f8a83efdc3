package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CleanupExpiredSessions(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user := seedUser(t, store, entity.RoleUser)
	now := time.Now()

	for i, expiresAt := range []time.Time{now.Add(-time.Hour), now.Add(-time.Minute), now.Add(time.Hour)} {
		require.NoError(t, store.RefreshTokens().CreateRefreshToken(ctx, &entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: string(rune('a' + i)),
			ExpiresAt: expiresAt,
		}))
	}

	service := NewSessionService(store.RefreshTokens(), newDiscardLogger())

	deleted, err := service.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	active, err := store.RefreshTokens().CountActiveSessionsByUserID(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	deleted, err = service.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestSessionService_CleanupExpiredSessions_StoreError(t *testing.T) {
	store := memory.NewStore()
	store.SetFaultInjector(func(string) error { return errors.New("connection reset") })

	service := NewSessionService(store.RefreshTokens(), newDiscardLogger())

	_, err := service.CleanupExpiredSessions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
