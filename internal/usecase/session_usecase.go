package usecase

import (
	"context"
)

// SessionUsecase maintains the stored refresh token sessions.
type SessionUsecase interface {
	// CleanupExpiredSessions deletes every expired refresh token and reports how many went.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
