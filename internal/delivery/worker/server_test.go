package worker

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/config"
	"storefront/internal/delivery/worker/handler"
	"storefront/internal/domain/constants"

	"github.com/stretchr/testify/assert"
)

func TestNewEcho_AccessLogsPushesOnly(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvDevelop
	e := NewEcho(logger, handler.NewPushHandler(handler.PushHandlerParams{Config: cfg, Logger: logger}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, logs.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/push", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Contains(t, logs.String(), "/push")
}
