package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"storefront/config"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/persistence/model"
	"storefront/internal/infra/persistence/postgres"

	"go.uber.org/fx"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	migrate := flag.Bool("migrate", false, "create or update the tables for every model instead of generating query code")
	outPath := flag.String("out", "./internal/infra/persistence/postgres/query", "output directory for generated query code")
	flag.Parse()

	if *migrate {
		runMigrate()

		return
	}

	g := gen.NewGenerator(gen.Config{
		OutPath: *outPath,
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(model.All()...)

	g.Execute()
}

func runMigrate() {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
		),
		fx.Invoke(autoMigrate),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := app.Stop(ctx); err != nil {
		slog.Error("Failed to close database", slog.Any("error", err))
	}
}

func autoMigrate(db *gorm.DB, logger *slog.Logger) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return err
	}
	logger.Info("Schema migrated", slog.Int("models", len(model.All())))

	return nil
}
