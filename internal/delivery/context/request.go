// Package context carries per-request values between the echo handlers,
// the usecases and the repositories: the request id, a logger tagged with
// it, and the authenticated caller.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type key int

const (
	requestIDKey key = iota
	loggerKey
	callerKey
)

// echo stores values by string.
const (
	echoRequestID = "storefront.request_id"
	echoCaller    = "storefront.caller"
)

// HeaderXRequestID is read from and echoed back on every response.
const HeaderXRequestID = "X-Request-Id"

// GetRequestID returns the id the request ID middleware stored on c. Requests
// that skipped it get an id on first use so all envelopes agree.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(echoRequestID).(string)
	if id == "" {
		id = uuid.NewString()
		SetRequestID(c, id)
	}

	return id
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestID, requestID)
}

// WithRequestID stores requestID on ctx for code below the handler.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestIDFromContext returns "" outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns nil when no request logger was attached.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerKey).(*slog.Logger)

	return logger
}

func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}
