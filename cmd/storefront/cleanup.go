package main

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

// startSessionCleanup purges expired refresh tokens on a ticker for the lifetime of the app.
func startSessionCleanup(lc fx.Lifecycle, cfg *config.Config, sessionUC usecase.SessionUsecase, logger *slog.Logger) {
	if cfg.Auth == nil || cfg.Auth.SessionCleanupInterval <= 0 {
		logger.Info("Session cleanup disabled")

		return
	}
	interval := cfg.Auth.SessionCleanupInterval

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-runCtx.Done():
						return
					case <-ticker.C:
						deleted, err := sessionUC.CleanupExpiredSessions(runCtx)
						if err != nil {
							logger.Error("Failed to clean up expired sessions", slog.Any("error", err))

							continue
						}
						if deleted > 0 {
							logger.Info("Expired sessions removed", slog.Int64("deleted", deleted))
						}
					}
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}

			return nil
		},
	})
}
