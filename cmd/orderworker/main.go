// Command orderworker receives order events from the Pub/Sub push
// subscription and notifies the order owner's devices.
package main

import (
	"context"

	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/delivery/worker"
	"storefront/internal/delivery/worker/handler"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/notification"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/usecase/impl"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(logs.NewFxLogger),
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		// Device registrations are the only table the worker touches.
		fx.Provide(
			postgres.NewDeviceRepository,
			notification.NewFirebaseService,
			impl.NewNotificationService,
			handler.NewPushHandler,
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
		fx.Invoke(delivery.ServeAll),
	).Run()
}
