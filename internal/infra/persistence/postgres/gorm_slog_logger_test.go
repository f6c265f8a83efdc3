package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormSlogLogger_TraceUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gormLogger := newGormSlogLogger(base, &config.Config{})

	ctx := deliverycontext.WithLogger(context.Background(), base.With(slog.String("request_id", "req-1")))
	gormLogger.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
		return "UPDATE products SET stock = stock - 1", 1
	}, nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GORM slow query", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestGormSlogLogger_IgnoresRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	gormLogger := newGormSlogLogger(base, &config.Config{})

	gormLogger.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_ConstraintViolationIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.Config{}
	cfg.Env.Debug = true
	gormLogger := newGormSlogLogger(base, cfg)

	gormLogger.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO users", 0
	}, &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "GORM query rejected", line["msg"])
}
