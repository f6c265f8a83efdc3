package delivery

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"
)

type ServeParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Deliveries []Delivery `group:"deliveries"`
}

// ServeAll runs every delivery in the deliveries group once the app has
// started. The first delivery to fail shuts the whole app down so the OnStop
// hooks still run.
func ServeAll(params ServeParams) {
	params.Lifecycle.Append(fx.StartHook(func() {
		for _, d := range params.Deliveries {
			go func() {
				err := d.Serve(context.Background())
				if err == nil {
					return
				}

				params.Logger.Error("Delivery stopped unexpectedly", slog.Any("error", err))
				if err := params.Shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
					params.Logger.Error("Failed to shut down gracefully", slog.Any("error", err))
					os.Exit(1)
				}
			}()
		}
	}))
}
